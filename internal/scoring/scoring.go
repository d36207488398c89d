// Package scoring ranks generated replies by voice fidelity, predicted
// engagement, and length fit. Every function is a pure function of its
// inputs and safe to call concurrently.
package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"capturekit/internal/core"
)

// DefaultTargetLength is the word-count target used when the benchmark has
// no optimal-length statistic.
const DefaultTargetLength = 26

// Combined-score weights.
const (
	voiceWeight      = 0.35
	engagementWeight = 0.45
	lengthWeight     = 0.20
)

// Scores holds the three independent scores plus the weighted blend, all
// in [0, 100].
type Scores struct {
	Voice      float64 `json:"voice_match"`
	Engagement float64 `json:"engagement_potential"`
	Length     float64 `json:"length_score"`
	Combined   float64 `json:"combined_score"`
}

var (
	emojiPattern    = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}]`)
	digitPattern    = regexp.MustCompile(`\d`)
	tickerPattern   = regexp.MustCompile(`\$[A-Z]{1,5}`)
	numStartPattern = regexp.MustCompile(`^\d`)
	percentPattern  = regexp.MustCompile(`\d+%`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)

var professionalMarkers = []string{
	"data", "suggest", "indicate", "perspective", "context",
	"positioning", "setup", "level", "watch", "monitor",
}

var casualSlang = []string{"lol", "lmao", "tbh", "ngl", "bruh", "bro"}

var casualMarkers = []string{"pretty", "kinda", "yeah", "cool", "nice"}

var contractions = []string{
	"don't", "can't", "won't", "isn't", "aren't", "it's", "that's",
}

var engagementTriggers = []string{
	"key", "important", "watch", "signal", "data", "shows",
	"this is", "here's", "notice", "look at", "the real",
	"actually", "truth", "most people", "few understand",
}

var ctaPhrases = []string{
	"what do you", "thoughts?", "agree?", "how about", "curious",
}

// Score computes all scores for a reply against a voice profile and
// benchmark patterns. The length target comes from the benchmark's
// optimal-length average, defaulting to DefaultTargetLength.
func Score(text string, voice core.VoiceProfile, patterns core.Patterns) Scores {
	target := TargetLength(patterns)

	voiceScore := VoiceMatch(text, voice)
	engagementScore := EngagementPotential(text, patterns)
	lengthScore := LengthScore(text, target)

	combined := voiceScore*voiceWeight + engagementScore*engagementWeight + lengthScore*lengthWeight

	return Scores{
		Voice:      round1(voiceScore),
		Engagement: round1(engagementScore),
		Length:     round1(lengthScore),
		Combined:   round1(clamp(combined)),
	}
}

// TargetLength extracts the benchmark word-count target, falling back to
// the default when the benchmark has no length statistics.
func TargetLength(patterns core.Patterns) int {
	if patterns.OptimalLength.Avg > 0 {
		return int(patterns.OptimalLength.Avg)
	}
	return DefaultTargetLength
}

// VoiceMatch scores how much a reply sounds like the profile owner. It
// starts at a neutral 50 and applies additive adjustments for tone
// markers, vocabulary fit, signature and avoided phrases, formality,
// emoji usage, and sentence style, clamped to [0, 100].
func VoiceMatch(text string, voice core.VoiceProfile) float64 {
	score := 50.0
	lower := strings.ToLower(text)
	words := strings.Fields(text)

	switch voice.Tone {
	case "casual":
		matches := countContained(lower, casualMarkers)
		score += math.Min(float64(matches)*3, 15)
	default: // professional
		matches := countContained(lower, professionalMarkers)
		score += math.Min(float64(matches)*3, 15)
		score -= float64(countContained(lower, casualSlang)) * 5
	}

	avgWordLen := 0.0
	if len(words) > 0 {
		total := 0
		for _, w := range words {
			total += len(w)
		}
		avgWordLen = float64(total) / float64(len(words))
	}
	switch voice.Vocabulary {
	case "simple":
		if avgWordLen <= 5 {
			score += 10
		}
	default: // professional
		if avgWordLen >= 5 && avgWordLen <= 7 {
			score += 10
		} else if avgWordLen > 7 {
			score += 5
		}
	}

	for _, phrase := range voice.SignaturePhrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			score += 8
		}
	}
	for _, phrase := range voice.AvoidedPhrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			score -= 10
		}
	}

	contractionCount := countContained(lower, contractions)
	switch voice.Formality {
	case "formal":
		score -= float64(contractionCount) * 2
	case "casual":
		score += float64(contractionCount) * 2
	}

	emojiCount := len(emojiPattern.FindAllString(text, -1))
	switch voice.EmojiStyle {
	case "light":
		if emojiCount == 1 {
			score += 5
		} else if emojiCount > 2 {
			score -= float64(emojiCount-2) * 3
		}
	default: // minimal or none
		if emojiCount == 0 {
			score += 5
		} else {
			score -= float64(emojiCount) * 3
		}
	}

	if voice.SentenceStyle == "" || voice.SentenceStyle == "concise" {
		avg := avgSentenceLength(text)
		if avg > 0 && avg <= 12 {
			score += 10
		} else if avg > 20 {
			score -= 5
		}
	}

	return clamp(score)
}

// EngagementPotential scores a reply's predicted engagement from its hook,
// proximity to the benchmark's optimal length, concrete details, sentence
// rhythm, and call-to-engagement phrases. Starts at 50, clamped to
// [0, 100].
func EngagementPotential(text string, patterns core.Patterns) float64 {
	score := 50.0
	lower := strings.ToLower(text)
	words := strings.Fields(text)

	firstSentence := strings.TrimSpace(sentenceSplit.Split(text, 2)[0])
	firstLower := strings.ToLower(firstSentence)

	var hookType core.HookType
	switch {
	case strings.Contains(firstSentence, "?"):
		hookType = core.HookQuestion
		score += 10
	case numStartPattern.MatchString(firstSentence) || percentPattern.MatchString(firstSentence):
		hookType = core.HookData
		score += 8
	case strings.HasPrefix(firstLower, "i ") || strings.HasPrefix(firstLower, "my ") ||
		strings.HasPrefix(firstLower, "i've ") || strings.HasPrefix(firstLower, "i'm "):
		hookType = core.HookStory
		score += 5
	case strings.HasPrefix(firstLower, "this is") || strings.HasPrefix(firstLower, "the key") ||
		strings.HasPrefix(firstLower, "exactly") || strings.HasPrefix(firstLower, "spot on"):
		hookType = core.HookBoldClaim
		score += 7
	}

	// Bonus when the reply's hook matches what performs best in the
	// benchmark.
	if hookType != "" && len(patterns.Hooks) > 0 && patterns.Hooks[0].Type == hookType {
		score += 5
	}

	target := TargetLength(patterns)
	diff := abs(len(words) - target)
	switch {
	case diff <= 5:
		score += 15
	case diff <= 10:
		score += 8
	case diff > 15:
		score -= 10
	}

	triggerCount := countContained(lower, engagementTriggers)
	score += math.Min(float64(triggerCount)*4, 15)

	if digitPattern.MatchString(text) {
		score += 5
	}
	if tickerPattern.MatchString(text) {
		score += 5
	}

	avg := avgSentenceLength(text)
	if avg > 0 && avg <= 12 {
		score += 10
	} else if avg > 20 {
		score -= 5
	}

	for _, cta := range ctaPhrases {
		if strings.Contains(lower, cta) {
			score += 8
			break
		}
	}

	return clamp(score)
}

// LengthScore applies the tiered falloff around the target word count:
// exact match 100, within 3 words 95, within 5 85, within 10 70, within
// 15 50, then 100-3*diff floored at 20.
func LengthScore(text string, target int) float64 {
	diff := abs(len(strings.Fields(text)) - target)
	switch {
	case diff == 0:
		return 100
	case diff <= 3:
		return 95
	case diff <= 5:
		return 85
	case diff <= 10:
		return 70
	case diff <= 15:
		return 50
	default:
		return math.Max(20, 100-float64(diff)*3)
	}
}

// Rank orders candidates by combined score descending. The sort is stable,
// so ties keep their original generation order.
func Rank(candidates []core.ReplyCandidate) []core.ReplyCandidate {
	ranked := make([]core.ReplyCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})
	return ranked
}

func avgSentenceLength(text string) float64 {
	words := strings.Fields(text)
	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		return 0
	}
	return float64(len(words)) / float64(sentences)
}

func countContained(haystack string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			n++
		}
	}
	return n
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
