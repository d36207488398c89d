package analyzer

import (
	"math"
	"strings"
	"testing"

	"capturekit/internal/core"
)

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestAnalyzeGammaPost(t *testing.T) {
	text := "Why does nobody talk about gamma exposure before OPEX? $50B notional flips at this level."
	bundle := New().Analyze(text, "twitter")

	if bundle.Hook == nil {
		t.Fatal("expected a hook to be detected")
	}
	if bundle.Hook.Type != core.HookQuestion {
		t.Errorf("expected question hook, got %s", bundle.Hook.Type)
	}
	if !closeTo(bundle.Hook.Strength, 0.9) {
		t.Errorf("expected hook strength 0.9, got %.2f", bundle.Hook.Strength)
	}
	if bundle.Framework != core.FrameworkSingle {
		t.Errorf("expected single framework, got %s", bundle.Framework)
	}

	hasCuriosity := false
	for _, trigger := range bundle.Triggers {
		if trigger == core.TriggerCuriosity {
			hasCuriosity = true
		}
	}
	if !hasCuriosity {
		t.Errorf("expected curiosity trigger, got %v", bundle.Triggers)
	}

	if bundle.Specificity != core.SpecificityConcrete {
		t.Errorf("expected concrete specificity, got %s", bundle.Specificity)
	}
	if bundle.PlatformFit.Score != 100 {
		t.Errorf("expected platform fit 100, got %.0f (issues: %v)", bundle.PlatformFit.Score, bundle.PlatformFit.Issues)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	bundle := New().Analyze("", "twitter")

	if bundle.WordCount != 0 {
		t.Errorf("expected word count 0, got %d", bundle.WordCount)
	}
	if bundle.Hook != nil {
		t.Errorf("expected no hook, got %+v", bundle.Hook)
	}
	if len(bundle.Triggers) != 0 {
		t.Errorf("expected no triggers, got %v", bundle.Triggers)
	}
	if bundle.Specificity != core.SpecificityVague {
		t.Errorf("expected vague specificity, got %s", bundle.Specificity)
	}
	if bundle.Triggers == nil {
		t.Error("triggers should be an empty slice, not nil")
	}
}

func TestAnalyzeUnknownPlatform(t *testing.T) {
	bundle := New().Analyze("Some post text without anything special going on here at all.", "myspace")
	if bundle.PlatformFit.Score != 100 {
		t.Errorf("unknown platform should apply no deductions, got %.0f", bundle.PlatformFit.Score)
	}
}

func TestHookTieBreak(t *testing.T) {
	// Matches both a question pattern and a bold-claim pattern at strength
	// 1.0; the earlier type in evaluation order must win.
	bundle := New().Analyze("The secret is out?", "")

	if bundle.Hook == nil {
		t.Fatal("expected a hook")
	}
	if bundle.Hook.Type != core.HookQuestion {
		t.Errorf("tie should go to question, got %s", bundle.Hook.Type)
	}
	if !closeTo(bundle.Hook.Strength, 1.0) {
		t.Errorf("expected strength 1.0 (leading + concise), got %.2f", bundle.Hook.Strength)
	}
}

func TestHookStrongerLaterTypeWins(t *testing.T) {
	// No leading question match; a non-leading data match at 0.7 must lose
	// to nothing, but a leading data match must beat a weaker earlier hit.
	bundle := New().Analyze("95% of traders blow up their first account", "")

	if bundle.Hook == nil {
		t.Fatal("expected a hook")
	}
	if bundle.Hook.Type != core.HookData {
		t.Errorf("expected data hook, got %s", bundle.Hook.Type)
	}
}

func TestHookTextCappedAt100Chars(t *testing.T) {
	long := "What happens when " + strings.Repeat("volatility keeps expanding ", 10) + "and dealers are short gamma?"
	bundle := New().Analyze(long, "")
	if bundle.Hook != nil && len(bundle.Hook.Text) > 100 {
		t.Errorf("hook text should be capped at 100 chars, got %d", len(bundle.Hook.Text))
	}
}

func TestSpecificityBoundary(t *testing.T) {
	cases := []struct {
		name string
		text string
		want core.Specificity
	}{
		{"no signals", "something vague about things", core.SpecificityVague},
		{"one signal", "there are 3 reasons", core.SpecificityModerate},
		{"two signals", "research shows 3 reasons", core.SpecificityModerate},
		{"three signals", "research shows 3 reasons, for example this one", core.SpecificityConcrete},
	}

	an := New()
	for _, tc := range cases {
		got := an.Analyze(tc.text, "").Specificity
		if got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestTriggerStrengthCapped(t *testing.T) {
	// Hits fear, greed, curiosity, fomo, urgency at minimum.
	text := "warning: profit secret revealed, last chance, act now before it's gone"
	bundle := New().Analyze(text, "")

	if len(bundle.Triggers) < 4 {
		t.Fatalf("expected at least 4 triggers, got %v", bundle.Triggers)
	}
	if bundle.TriggerStrength > 1.0 {
		t.Errorf("trigger strength must be capped at 1.0, got %.2f", bundle.TriggerStrength)
	}
	if bundle.TriggerStrength != 1.0 {
		t.Errorf("4+ triggers with a high-impact hit should saturate at 1.0, got %.2f", bundle.TriggerStrength)
	}
}

func TestTriggerStrengthHighImpactBonus(t *testing.T) {
	bundle := New().Analyze("the hidden truth about spreads", "")

	found := false
	for _, trigger := range bundle.Triggers {
		if trigger == core.TriggerCuriosity {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected curiosity trigger, got %v", bundle.Triggers)
	}
	// One trigger (0.25) plus the high-impact bonus (0.15).
	if !closeTo(bundle.TriggerStrength, 0.4) {
		t.Errorf("expected strength 0.40, got %.2f", bundle.TriggerStrength)
	}
}

func TestDetectFrameworkOrder(t *testing.T) {
	cases := []struct {
		text string
		want core.Framework
	}{
		{"A thread on dealer positioning 🧵", core.FrameworkThread},
		{"1/5 gamma exposure explained", core.FrameworkThread},
		{`"Buy when there's blood in the streets"`, core.FrameworkQuote},
		{"@trader totally agree with this", core.FrameworkReply},
		{"Swipe for the full chart walkthrough", core.FrameworkCarousel},
		{"just a normal post", core.FrameworkSingle},
	}

	an := New()
	for _, tc := range cases {
		if got := an.Analyze(tc.text, "").Framework; got != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.text, tc.want, got)
		}
	}
}

func TestAuthoritySignalsCapped(t *testing.T) {
	text := "10 years of experience, worked at three desks, my research and analysis, " +
		"expert specialist professional, built and launched products for clients and companies"
	signals := New().Analyze(text, "").AuthoritySignals

	if len(signals) > 5 {
		t.Errorf("authority signals must be capped at 5, got %d", len(signals))
	}
	if len(signals) == 0 {
		t.Error("expected authority signals to be detected")
	}
}

func TestTopics(t *testing.T) {
	topics := Topics("Gamma exposure on SPX options is pinning the index")

	want := map[string]bool{"options": true, "gamma": true, "market": true}
	for _, topic := range topics {
		if !want[topic] {
			t.Errorf("unexpected topic %q", topic)
		}
		delete(want, topic)
	}
	for missing := range want {
		t.Errorf("missing topic %q", missing)
	}

	if empty := Topics("nothing relevant here"); len(empty) != 0 {
		t.Errorf("expected no topics, got %v", empty)
	}
}

func TestTechniquesCompiled(t *testing.T) {
	bundle := New().Analyze("Why is everyone ignoring the hidden risk here?", "twitter")

	hasHook := false
	for _, technique := range bundle.Techniques {
		if strings.HasPrefix(technique, "hook:") {
			hasHook = true
		}
	}
	if !hasHook {
		t.Errorf("expected a hook technique tag, got %v", bundle.Techniques)
	}
}
