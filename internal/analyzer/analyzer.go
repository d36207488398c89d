package analyzer

import (
	"regexp"
	"strings"

	"capturekit/internal/core"
	"capturekit/internal/platform"
)

// Tuning constants. These were chosen empirically; change them together
// with the tests that pin their behavior.
const (
	hookBaseStrength    = 0.7  // any pattern hit
	hookLeadingBonus    = 0.2  // matched span starts the candidate text
	hookConciseBonus    = 0.1  // candidate text is at most 50 chars
	hookConciseLimit    = 50
	hookTextLimit       = 100 // stored hook text cap, chars
	triggerStrengthStep = 0.25
	highImpactBonus     = 0.15
	concreteThreshold   = 3 // of 4 specificity signals
	moderateThreshold   = 1
	maxAuthoritySignals = 5
)

// hookOrder is the fixed evaluation order for hook types. The greedy scan
// keeps the first hook type reaching the highest strength, so this order is
// the tie-break and must not be reordered.
var hookOrder = []core.HookType{
	core.HookQuestion,
	core.HookContrarian,
	core.HookData,
	core.HookStory,
	core.HookCallout,
	core.HookBoldClaim,
	core.HookHowTo,
	core.HookList,
}

// hookPatterns maps each hook type to its ordered match patterns. Within a
// type, only the first matching pattern counts.
var hookPatterns = map[core.HookType][]*regexp.Regexp{
	core.HookQuestion: {
		regexp.MustCompile(`(?i)^\s*[A-Z].*\?`),
		regexp.MustCompile(`(?i)^(What|Why|How|When|Where|Who|Which|Do you|Have you|Did you)`),
	},
	core.HookContrarian: {
		regexp.MustCompile(`(?i)(unpopular opinion|hot take|controversial|against the grain)`),
		regexp.MustCompile(`(?i)(everyone.*(wrong|missing)|nobody.*(talking|realizes))`),
		regexp.MustCompile(`(?i)(stop|quit|don't).*(doing|believing|thinking)`),
	},
	core.HookData: {
		regexp.MustCompile(`\d+%`),
		regexp.MustCompile(`\$[\d,]+`),
		regexp.MustCompile(`\d+[xX]`),
		regexp.MustCompile(`(?i)(data|research|study|survey|analysis).*(shows|reveals|finds)`),
	},
	core.HookStory: {
		regexp.MustCompile(`(?i)^(I |My |We |Our |Last |Yesterday |Today |When I)`),
		regexp.MustCompile(`(?i)(years ago|months ago|story|learned|realized|discovered)`),
	},
	core.HookCallout: {
		regexp.MustCompile(`(?i)(@\w+|Hey |Attention |To all|For everyone)`),
		regexp.MustCompile(`(?i)(If you're a|For those who|Anyone who)`),
	},
	core.HookBoldClaim: {
		regexp.MustCompile(`(?i)^(This is|The |Here's|There's)`),
		regexp.MustCompile(`(?i)(will change|game.?changer|revolutionary|secret)`),
		regexp.MustCompile(`(?i)(most people|99%|majority).*(don't|won't|can't)`),
	},
	core.HookHowTo: {
		regexp.MustCompile(`(?i)^(How to|How I|Here's how|Step)`),
		regexp.MustCompile(`(?i)\d+ (ways|steps|tips|tricks|secrets)`),
	},
	core.HookList: {
		regexp.MustCompile(`^\d+[.)]`),
		regexp.MustCompile(`(?i)(\d+ things|thread|breakdown)`),
	},
}

// triggerOrder fixes the order triggers appear in the result slice.
var triggerOrder = []core.Trigger{
	core.TriggerFear,
	core.TriggerGreed,
	core.TriggerCuriosity,
	core.TriggerFOMO,
	core.TriggerValidation,
	core.TriggerUrgency,
	core.TriggerExclusivity,
}

var triggerPatterns = map[core.Trigger][]*regexp.Regexp{
	core.TriggerFear: {
		regexp.MustCompile(`(warning|danger|risk|mistake|avoid|never|fail|lose|crash)`),
		regexp.MustCompile(`(don't|won't|can't).*(survive|make it|succeed)`),
	},
	core.TriggerGreed: {
		regexp.MustCompile(`(profit|gain|money|wealth|rich|income|revenue)`),
		regexp.MustCompile(`(\$[\d,]+|[0-9]+x|\d+%.*return)`),
	},
	core.TriggerCuriosity: {
		regexp.MustCompile(`(secret|hidden|revealed|discover|surprising|unexpected)`),
		regexp.MustCompile(`(what.*actually|real reason|truth about)`),
		regexp.MustCompile(`(why (does|do|is|are) nobody|nobody (talks?|is talking) about)`),
	},
	core.TriggerFOMO: {
		regexp.MustCompile(`(limited|exclusive|only \d+|last chance|ending soon)`),
		regexp.MustCompile(`(don't miss|before it's|while you can)`),
	},
	core.TriggerValidation: {
		regexp.MustCompile(`(you're right|i agree|exactly|this is why)`),
		regexp.MustCompile(`(smart people|successful|winners|top \d+%)`),
	},
	core.TriggerUrgency: {
		regexp.MustCompile(`(now|today|immediately|right now|asap)`),
		regexp.MustCompile(`(deadline|expires|ends|last)`),
	},
	core.TriggerExclusivity: {
		regexp.MustCompile(`(insider|exclusive|only for|members only)`),
		regexp.MustCompile(`(few (know|understand|realize)|not many)`),
	},
}

// highImpactTriggers earn the flat strength bonus when any is present.
var highImpactTriggers = []core.Trigger{
	core.TriggerCuriosity, core.TriggerFOMO, core.TriggerFear,
}

// authorityPatterns are evaluated in order; matches are collected in first
// occurrence order.
var authorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(years of experience|\d+ years)`),
	regexp.MustCompile(`(?i)worked (at|with|for)`),
	regexp.MustCompile(`(?i)(research|study|data|analysis)`),
	regexp.MustCompile(`(?i)(expert|specialist|professional)`),
	regexp.MustCompile(`(?i)(built|created|founded|launched)`),
	regexp.MustCompile(`(?i)(clients|customers|companies)`),
	regexp.MustCompile(`(?i)(\$[\d,]+[MBK]|\d+[MBK] (users|followers|revenue))`),
}

// Specificity signal detectors.
var (
	numberPattern  = regexp.MustCompile(`\d`)
	dataPattern    = regexp.MustCompile(`(?i)(\d+%|\$[\d,]+|data|research|study|notional)`)
	examplePattern = regexp.MustCompile(`(?i)(for example|e\.g\.|such as|like when)`)
	mentionPattern = regexp.MustCompile(`(@\w+|\$[A-Za-z0-9]{1,6}\b)`)
)

// Framework checks, first match wins.
var (
	threadPattern   = regexp.MustCompile(`(?i)(thread|🧵|\d+/\d+|^\d+[.)])`)
	quotePattern    = regexp.MustCompile(`^["'].*["']`)
	carouselPattern = regexp.MustCompile(`(?i)(swipe|slide \d+|carousel)`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)

// Analyzer extracts structural and rhetorical signals from post text. It
// holds no state; a single instance is safe for concurrent use.
type Analyzer struct{}

// New creates a content analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze produces the full signal bundle for a post. It never fails:
// empty or malformed input yields a bundle with zeroed counts, no hook and
// no triggers.
func (a *Analyzer) Analyze(text, platformName string) core.SignalBundle {
	bundle := core.SignalBundle{
		Text:     text,
		Platform: platformName,
		Triggers: []core.Trigger{},
	}

	bundle.WordCount = len(strings.Fields(text))
	bundle.CharCount = len(text)
	bundle.SentenceCount = countSentences(text)
	bundle.LineCount = countLines(text)

	bundle.Hook = a.analyzeHook(text)
	bundle.Framework = a.detectFramework(text)
	bundle.Triggers, bundle.TriggerStrength = a.analyzeTriggers(text)

	bundle.Specificity, bundle.HasNumbers, bundle.HasData,
		bundle.HasExamples, bundle.HasMention = a.analyzeSpecificity(text)

	bundle.AuthoritySignals = a.detectAuthoritySignals(text)

	adapter, _ := platform.Lookup(platformName)
	bundle.PlatformFit = adapter.CheckFit(text)

	bundle.Techniques = compileTechniques(bundle)
	bundle.Strengths, bundle.Weaknesses = evaluate(bundle)

	return bundle
}

func countSentences(text string) int {
	n := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

func countLines(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return len(strings.Split(text, "\n"))
}

// analyzeHook runs every hook type's patterns against the first line (or
// first sentence when the first line exceeds 100 characters). It keeps a
// running best match; only a strictly higher strength replaces the current
// best, so ties go to the earlier hook type in hookOrder.
func (a *Analyzer) analyzeHook(text string) *core.Hook {
	firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if firstLine == "" {
		return nil
	}

	hookText := firstLine
	if len(firstLine) > hookTextLimit {
		hookText = strings.TrimSpace(sentenceSplit.Split(text, 2)[0])
	}

	var best *core.Hook
	for _, hookType := range hookOrder {
		for _, pattern := range hookPatterns[hookType] {
			loc := pattern.FindStringIndex(hookText)
			if loc == nil {
				continue
			}

			strength := hookBaseStrength
			if loc[0] == 0 {
				strength += hookLeadingBonus
			}
			if len(hookText) <= hookConciseLimit {
				strength += hookConciseBonus
			}

			if best == nil || strength > best.Strength {
				best = &core.Hook{
					Type:     hookType,
					Text:     truncate(hookText, hookTextLimit),
					Strength: strength,
				}
			}
			break // first matching pattern per type
		}
	}
	return best
}

// detectFramework classifies the post structure. The check order is fixed:
// thread, quote, reply, carousel, then single as the default.
func (a *Analyzer) detectFramework(text string) core.Framework {
	trimmed := strings.TrimSpace(text)
	switch {
	case threadPattern.MatchString(text):
		return core.FrameworkThread
	case strings.HasPrefix(trimmed, `"`) || quotePattern.MatchString(text):
		return core.FrameworkQuote
	case strings.HasPrefix(trimmed, "@"):
		return core.FrameworkReply
	case carouselPattern.MatchString(text):
		return core.FrameworkCarousel
	default:
		return core.FrameworkSingle
	}
}

// analyzeTriggers detects each emotional trigger independently against the
// lowercased text. Strength is 0.25 per trigger found, capped at 1.0, with
// a flat 0.15 bonus when any high-impact trigger is present.
func (a *Analyzer) analyzeTriggers(text string) ([]core.Trigger, float64) {
	lower := strings.ToLower(text)
	found := []core.Trigger{}

	for _, trigger := range triggerOrder {
		for _, pattern := range triggerPatterns[trigger] {
			if pattern.MatchString(lower) {
				found = append(found, trigger)
				break
			}
		}
	}

	strength := triggerStrengthStep * float64(len(found))
	if strength > 1.0 {
		strength = 1.0
	}
	for _, high := range highImpactTriggers {
		if containsTrigger(found, high) {
			strength += highImpactBonus
			break
		}
	}
	if strength > 1.0 {
		strength = 1.0
	}
	return found, strength
}

// analyzeSpecificity counts four independent boolean signals and maps the
// count through the threshold rule: at least 3 is concrete, at least 1 is
// moderate, otherwise vague.
func (a *Analyzer) analyzeSpecificity(text string) (core.Specificity, bool, bool, bool, bool) {
	hasNumbers := numberPattern.MatchString(text)
	hasData := dataPattern.MatchString(text)
	hasExamples := examplePattern.MatchString(text)
	hasMention := mentionPattern.MatchString(text)

	count := 0
	for _, signal := range []bool{hasNumbers, hasData, hasExamples, hasMention} {
		if signal {
			count++
		}
	}

	specificity := core.SpecificityVague
	switch {
	case count >= concreteThreshold:
		specificity = core.SpecificityConcrete
	case count >= moderateThreshold:
		specificity = core.SpecificityModerate
	}
	return specificity, hasNumbers, hasData, hasExamples, hasMention
}

// detectAuthoritySignals collects matched authority phrases in first
// occurrence order, de-duplicated, capped at 5.
func (a *Analyzer) detectAuthoritySignals(text string) []string {
	signals := []string{}
	seen := map[string]bool{}

	for _, pattern := range authorityPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if match == "" || seen[match] {
				continue
			}
			seen[match] = true
			signals = append(signals, match)
			if len(signals) >= maxAuthoritySignals {
				return signals
			}
		}
	}
	return signals
}

func compileTechniques(b core.SignalBundle) []string {
	techniques := []string{}
	if b.Hook != nil {
		techniques = append(techniques, "hook:"+string(b.Hook.Type))
	}
	techniques = append(techniques, "framework:"+string(b.Framework))
	for _, trigger := range b.Triggers {
		techniques = append(techniques, "trigger:"+string(trigger))
	}
	techniques = append(techniques, "specificity:"+string(b.Specificity))
	if len(b.AuthoritySignals) > 0 {
		techniques = append(techniques, "authority_signals")
	}
	return techniques
}

func evaluate(b core.SignalBundle) (strengths, weaknesses []string) {
	strengths = []string{}
	weaknesses = []string{}

	if b.Hook != nil && b.Hook.Strength >= hookBaseStrength {
		strengths = append(strengths, "Strong "+string(b.Hook.Type)+" hook")
	} else if b.Hook == nil {
		weaknesses = append(weaknesses, "Missing clear hook")
	}

	if len(b.Triggers) >= 2 {
		strengths = append(strengths, "Multiple emotional triggers")
	} else if len(b.Triggers) == 0 {
		weaknesses = append(weaknesses, "No emotional triggers detected")
	}

	switch b.Specificity {
	case core.SpecificityConcrete:
		strengths = append(strengths, "Concrete and specific")
	case core.SpecificityVague:
		weaknesses = append(weaknesses, "Too vague - add specifics")
	}

	if b.HasData {
		strengths = append(strengths, "Data-backed claims")
	}
	if len(b.AuthoritySignals) >= 2 {
		strengths = append(strengths, "Strong authority signals")
	}

	if b.PlatformFit.Score >= 80 {
		strengths = append(strengths, "Good "+b.Platform+" fit")
	} else {
		n := len(b.PlatformFit.Issues)
		if n > 2 {
			n = 2
		}
		weaknesses = append(weaknesses, b.PlatformFit.Issues[:n]...)
	}

	return strengths, weaknesses
}

// TechniqueLabel renders a short human-readable label for the dominant
// techniques in a bundle.
func TechniqueLabel(b core.SignalBundle) string {
	hookLabels := map[core.HookType]string{
		core.HookQuestion:   "Question Hook",
		core.HookContrarian: "Contrarian Take",
		core.HookData:       "Data Lead",
		core.HookStory:      "Story Hook",
		core.HookCallout:    "Direct Callout",
		core.HookBoldClaim:  "Bold Claim",
		core.HookHowTo:      "How-To",
		core.HookList:       "List Format",
	}
	frameworkLabels := map[core.Framework]string{
		core.FrameworkThread:   "Thread",
		core.FrameworkQuote:    "Quote",
		core.FrameworkReply:    "Reply",
		core.FrameworkCarousel: "Carousel",
	}

	parts := []string{}
	if b.Hook != nil {
		parts = append(parts, hookLabels[b.Hook.Type])
	}
	if b.Framework != core.FrameworkSingle {
		parts = append(parts, frameworkLabels[b.Framework])
	}
	if len(b.Triggers) > 0 {
		parts = append(parts, capitalize(string(b.Triggers[0])))
	}
	if len(parts) == 0 {
		return "Standard"
	}
	return strings.Join(parts, " + ")
}

// topicFamilies maps topic names to their keyword families. Evaluated in
// slice order so detected topics come out in a stable order.
var topicFamilies = []struct {
	name     string
	keywords []string
}{
	{"options", []string{"options", "calls", "puts", "premium", "strike", "expiry"}},
	{"gamma", []string{"gamma", "gex", "delta", "hedging", "opex"}},
	{"flow", []string{"flow", "dark pool", "unusual", "sweep", "block"}},
	{"technicals", []string{"support", "resistance", "breakout", "trend", "chart"}},
	{"volatility", []string{"vix", "iv", "volatility", "vol"}},
	{"market", []string{"spx", "spy", "qqq", "market", "index"}},
}

// Topics returns the topic families whose keywords appear in the text, in
// family order. Empty slice (never nil) when nothing matches.
func Topics(text string) []string {
	lower := strings.ToLower(text)
	topics := []string{}
	for _, family := range topicFamilies {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, family.name)
				break
			}
		}
	}
	return topics
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func containsTrigger(triggers []core.Trigger, want core.Trigger) bool {
	for _, t := range triggers {
		if t == want {
			return true
		}
	}
	return false
}
