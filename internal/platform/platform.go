package platform

import (
	"fmt"
	"regexp"
	"strings"

	"capturekit/internal/core"
)

// ContentType distinguishes the kinds of content a platform prices
// differently.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentReply   ContentType = "reply"
	ContentComment ContentType = "comment"
)

// LengthRange holds the character-length bands for one content type.
type LengthRange struct {
	Min        int
	OptimalMin int
	OptimalMax int
	Max        int
}

// IsOptimal reports whether length falls in the optimal band.
func (r LengthRange) IsOptimal(length int) bool {
	return length >= r.OptimalMin && length <= r.OptimalMax
}

// FitRule is one platform rule: either it fires (deducting Points from the
// fit score and contributing an issue string) or it does not. Rules are
// evaluated in slice order and deductions are additive.
type FitRule struct {
	Points float64
	Check  func(content string) (violated bool, issue string)
}

// TimeWindow is a recommended posting window in the platform's reference
// timezone.
type TimeWindow struct {
	StartHour int
	EndHour   int
	Label     string
}

// Adapter carries the static rule table for one platform.
type Adapter struct {
	Name           string
	PostLength     LengthRange
	ReplyLength    LengthRange
	CommentLength  LengthRange
	EffectiveHooks []core.HookType
	BestTimes      []TimeWindow
	BestDays       []string
	fitRules       []FitRule
}

// LengthFor returns the length range for a content type, falling back to
// the reply range for comments when no comment range is set.
func (a Adapter) LengthFor(ct ContentType) LengthRange {
	switch ct {
	case ContentReply:
		return a.ReplyLength
	case ContentComment:
		if a.CommentLength != (LengthRange{}) {
			return a.CommentLength
		}
		return a.ReplyLength
	default:
		return a.PostLength
	}
}

// CheckFit scores how well content fits this platform. The score starts at
// 100, each violated rule deducts its fixed points, and the result is
// clamped to [0, 100] after all rules have run.
func (a Adapter) CheckFit(content string) core.PlatformFit {
	score := 100.0
	issues := []string{}

	for _, rule := range a.fitRules {
		if violated, issue := rule.Check(content); violated {
			issues = append(issues, issue)
			score -= rule.Points
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return core.PlatformFit{Score: score, Issues: issues}
}

var linkPattern = regexp.MustCompile(`https?://`)
var hashtagPattern = regexp.MustCompile(`#\w+`)

var twitterAdapter = Adapter{
	Name:        "twitter",
	PostLength:  LengthRange{Min: 100, OptimalMin: 200, OptimalMax: 280, Max: 280},
	ReplyLength: LengthRange{Min: 40, OptimalMin: 70, OptimalMax: 100, Max: 280},
	EffectiveHooks: []core.HookType{
		core.HookContrarian, core.HookData, core.HookQuestion, core.HookBoldClaim,
	},
	BestTimes: []TimeWindow{
		{8, 9, "morning commute"},
		{12, 13, "lunch break"},
		{17, 18, "end of workday"},
		{19, 20, "evening wind-down"},
	},
	BestDays: []string{"Tuesday", "Wednesday", "Thursday"},
	fitRules: []FitRule{
		{Points: 30, Check: func(content string) (bool, string) {
			if len(content) > 280 {
				return true, fmt.Sprintf("Too long for tweet (%d chars, max 280)", len(content))
			}
			return false, ""
		}},
		{Points: 10, Check: func(content string) (bool, string) {
			if len(content) < 70 {
				return true, "Reply too short for engagement"
			}
			return false, ""
		}},
	},
}

var linkedinAdapter = Adapter{
	Name:        "linkedin",
	PostLength:  LengthRange{Min: 600, OptimalMin: 1200, OptimalMax: 1500, Max: 3000},
	ReplyLength: LengthRange{Min: 100, OptimalMin: 200, OptimalMax: 400, Max: 1250},
	EffectiveHooks: []core.HookType{
		core.HookStory, core.HookHowTo, core.HookList, core.HookData,
	},
	BestTimes: []TimeWindow{
		{7, 9, "before work"},
		{12, 13, "lunch break"},
	},
	BestDays: []string{"Tuesday", "Wednesday", "Thursday"},
	fitRules: []FitRule{
		{Points: 15, Check: func(content string) (bool, string) {
			if len(content) < 600 {
				return true, "Consider expanding for LinkedIn depth"
			}
			return false, ""
		}},
		{Points: 10, Check: func(content string) (bool, string) {
			if !strings.Contains(content, "\n") {
				return true, "Add line breaks for readability"
			}
			return false, ""
		}},
		{Points: 20, Check: func(content string) (bool, string) {
			if linkPattern.MatchString(content) {
				return true, "External links reduce LinkedIn reach"
			}
			return false, ""
		}},
	},
}

var instagramAdapter = Adapter{
	Name:        "instagram",
	PostLength:  LengthRange{Min: 100, OptimalMin: 150, OptimalMax: 300, Max: 2200},
	ReplyLength: LengthRange{Min: 20, OptimalMin: 40, OptimalMax: 120, Max: 2200},
	EffectiveHooks: []core.HookType{
		core.HookStory, core.HookCallout, core.HookList,
	},
	BestTimes: []TimeWindow{
		{11, 13, "midday"},
		{19, 21, "evening"},
	},
	BestDays: []string{"Monday", "Wednesday", "Friday"},
	fitRules: []FitRule{
		{Points: 10, Check: func(content string) (bool, string) {
			n := len(hashtagPattern.FindAllString(content, -1))
			if n < 5 {
				return true, fmt.Sprintf("Add more hashtags (%d, aim for 5-15)", n)
			}
			return false, ""
		}},
		{Points: 10, Check: func(content string) (bool, string) {
			n := len(hashtagPattern.FindAllString(content, -1))
			if n > 15 {
				return true, fmt.Sprintf("Too many hashtags (%d, max 15)", n)
			}
			return false, ""
		}},
	},
}

// neutralAdapter is the degraded rule set for unknown platform names: no
// rules fire, so every post scores 100.
var neutralAdapter = Adapter{Name: "neutral"}

var adapters = map[string]Adapter{
	"twitter":   twitterAdapter,
	"linkedin":  linkedinAdapter,
	"instagram": instagramAdapter,
}

// Lookup returns the adapter for a platform name. Unknown names return the
// neutral adapter and ok=false; callers never see an error for a platform
// miss.
func Lookup(name string) (Adapter, bool) {
	a, ok := adapters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return neutralAdapter, false
	}
	return a, true
}

// Names lists the registered platform names.
func Names() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	return names
}

// PromptRules renders the platform's rule table as plain text for LLM
// system prompts.
func (a Adapter) PromptRules(ct ContentType) string {
	var b strings.Builder
	lr := a.LengthFor(ct)

	fmt.Fprintf(&b, "## %s PLATFORM RULES\n\n", strings.ToUpper(a.Name))
	if lr != (LengthRange{}) {
		fmt.Fprintf(&b, "### Length Requirements (%s)\n", ct)
		fmt.Fprintf(&b, "- Minimum: %d characters\n", lr.Min)
		fmt.Fprintf(&b, "- Optimal: %d-%d characters\n", lr.OptimalMin, lr.OptimalMax)
		fmt.Fprintf(&b, "- Maximum: %d characters\n\n", lr.Max)
	}
	if len(a.EffectiveHooks) > 0 {
		hooks := make([]string, len(a.EffectiveHooks))
		for i, h := range a.EffectiveHooks {
			hooks[i] = string(h)
		}
		fmt.Fprintf(&b, "### Effective Hook Types\n- %s\n\n", strings.Join(hooks, ", "))
	}
	if len(a.BestDays) > 0 {
		fmt.Fprintf(&b, "### Best Days\n- %s\n", strings.Join(a.BestDays, ", "))
	}
	return b.String()
}
