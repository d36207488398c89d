package platform

import (
	"strings"
	"testing"
)

func TestTwitterFitDeductions(t *testing.T) {
	adapter, ok := Lookup("twitter")
	if !ok {
		t.Fatal("twitter adapter should exist")
	}

	good := "Dealers are short gamma into opex and the hedging flow confirms it today."
	if fit := adapter.CheckFit(good); fit.Score != 100 {
		t.Errorf("expected 100 for a clean tweet, got %.0f (%v)", fit.Score, fit.Issues)
	}

	short := "Nice."
	if fit := adapter.CheckFit(short); fit.Score != 90 {
		t.Errorf("expected 90 for a too-short reply, got %.0f", fit.Score)
	}

	long := strings.Repeat("x", 300)
	fit := adapter.CheckFit(long)
	if fit.Score != 70 {
		t.Errorf("expected 70 for an over-limit tweet, got %.0f", fit.Score)
	}
	if len(fit.Issues) != 1 {
		t.Errorf("expected one issue, got %v", fit.Issues)
	}
}

func TestLinkedinFitDeductions(t *testing.T) {
	adapter, ok := Lookup("linkedin")
	if !ok {
		t.Fatal("linkedin adapter should exist")
	}

	// Short, no line breaks, contains a link: all three rules fire.
	fit := adapter.CheckFit("Check this out https://example.com")
	if fit.Score != 55 {
		t.Errorf("expected 55 (100-15-10-20), got %.0f", fit.Score)
	}
	if len(fit.Issues) != 3 {
		t.Errorf("expected 3 issues, got %v", fit.Issues)
	}
}

func TestFitScoreClamped(t *testing.T) {
	for _, name := range Names() {
		adapter, _ := Lookup(name)
		for _, content := range []string{"", "x", strings.Repeat("y", 5000)} {
			fit := adapter.CheckFit(content)
			if fit.Score < 0 || fit.Score > 100 {
				t.Errorf("%s: score out of bounds %.0f for %q", name, fit.Score, content)
			}
		}
	}
}

func TestUnknownPlatformNeutral(t *testing.T) {
	adapter, ok := Lookup("myspace")
	if ok {
		t.Error("unknown platform should report not found")
	}
	if fit := adapter.CheckFit("anything at all"); fit.Score != 100 {
		t.Errorf("neutral adapter should not deduct, got %.0f", fit.Score)
	}
}

func TestReplyLengthOptimal(t *testing.T) {
	adapter, _ := Lookup("twitter")
	lr := adapter.LengthFor(ContentReply)

	if !lr.IsOptimal(80) {
		t.Errorf("80 chars should be optimal for a twitter reply (%+v)", lr)
	}
	if lr.IsOptimal(10) {
		t.Errorf("10 chars should not be optimal (%+v)", lr)
	}
}
