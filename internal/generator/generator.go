// Package generator synthesizes reply candidates for a source post: it
// picks reply strategies from the post's signals, fills slotted templates
// from topic-conditioned phrase banks, applies voice styling, and
// calibrates the result to the benchmark's optimal length. When a
// generative-text drafter is configured it is tried first; any failure
// falls back to template generation, never to the caller.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"capturekit/internal/analyzer"
	"capturekit/internal/core"
	"capturekit/internal/logger"
	"capturekit/internal/scoring"
)

// Length-calibration bounds. The tolerance band is asymmetric on purpose:
// slightly-over reads better than slightly-under.
const (
	overTolerance     = 5
	underTolerance    = 3
	maxExpandAttempts = 5
)

// Drafter is the optional generative-text collaborator. Implementations
// return free text for a constructed prompt.
type Drafter interface {
	Draft(ctx context.Context, prompt string) (string, error)
}

// Generator produces scored reply candidates. The zero value is not
// usable; construct with New.
type Generator struct {
	analyzer *analyzer.Analyzer
	voice    core.VoiceProfile
	patterns core.Patterns
	drafter  Drafter
	rng      *rand.Rand
}

// New creates a generator for a voice profile and benchmark patterns.
func New(voice core.VoiceProfile, patterns core.Patterns) *Generator {
	return NewSeeded(voice, patterns, time.Now().UnixNano())
}

// NewSeeded creates a generator with a fixed random seed so phrase-bank
// draws are reproducible.
func NewSeeded(voice core.VoiceProfile, patterns core.Patterns, seed int64) *Generator {
	return &Generator{
		analyzer: analyzer.New(),
		voice:    voice,
		patterns: patterns,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// SetDrafter attaches a generative-text service. A nil drafter (the
// default) means pure template generation.
func (g *Generator) SetDrafter(d Drafter) {
	g.drafter = d
}

// DraftReplies generates up to n scored reply candidates for a post and
// returns them ranked by combined score. An empty strategy means the
// strategies are suggested from the post's signals.
func (g *Generator) DraftReplies(ctx context.Context, post core.RawPost, platformName string, n int, strategy core.Strategy) []core.ReplyCandidate {
	if n <= 0 {
		n = 1
	}

	bundle := g.analyzer.Analyze(post.Content, platformName)
	post2 := g.analyzePost(post.Content)

	var strategies []core.Strategy
	if strategy == "" {
		strategies = g.suggestStrategies(post2, n)
	} else {
		strategies = make([]core.Strategy, n)
		for i := range strategies {
			strategies[i] = strategy
		}
	}

	candidates := make([]core.ReplyCandidate, 0, len(strategies))
	for i, s := range strategies {
		candidate := g.generate(ctx, bundle, post2, s, i)
		scores := scoring.Score(candidate.Text, g.voice, g.patterns)
		candidate.VoiceScore = scores.Voice
		candidate.EngagementScore = scores.Engagement
		candidate.LengthScore = scores.Length
		candidate.CombinedScore = scores.Combined
		candidates = append(candidates, candidate)
	}

	return scoring.Rank(candidates)
}

// postAnalysis holds the generator's own lightweight read of the source
// post, beyond what the signal bundle carries.
type postAnalysis struct {
	hasQuestion bool
	hasNumbers  bool
	hasTicker   bool
	sentiment   string // bullish, bearish, neutral
	topics      []string
	keyPoints   []string
}

var (
	digitPattern  = regexp.MustCompile(`\d`)
	tickerPattern = regexp.MustCompile(`\$[A-Z]{1,5}`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

var bullishWords = []string{"bull", "long", "buy", "calls", "breakout", "support", "higher", "rally", "green"}
var bearishWords = []string{"bear", "short", "sell", "puts", "breakdown", "resistance", "lower", "crash", "red"}

func (g *Generator) analyzePost(content string) postAnalysis {
	lower := strings.ToLower(content)

	bull := 0
	for _, w := range bullishWords {
		if strings.Contains(lower, w) {
			bull++
		}
	}
	bear := 0
	for _, w := range bearishWords {
		if strings.Contains(lower, w) {
			bear++
		}
	}
	sentiment := "neutral"
	if bull > bear {
		sentiment = "bullish"
	} else if bear > bull {
		sentiment = "bearish"
	}

	topics := analyzer.Topics(content)

	points := []string{}
	for _, s := range sentenceSplit.Split(content, -1) {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			points = append(points, s)
		}
		if len(points) == 3 {
			break
		}
	}

	return postAnalysis{
		hasQuestion: strings.Contains(content, "?"),
		hasNumbers:  digitPattern.MatchString(content),
		hasTicker:   tickerPattern.MatchString(content),
		sentiment:   sentiment,
		topics:      topics,
		keyPoints:   points,
	}
}

// SuggestStrategies derives an ordered strategy list from the post's
// signals: questions invite answers and insights, a directional sentiment
// invites agreement and nuance, numeric or gamma-related content invites
// insight and questions. At least one of insight, question, and agree is
// always present; duplicates are removed preserving order, and the list
// is truncated to limit.
func (g *Generator) SuggestStrategies(content string, limit int) []core.Strategy {
	return g.suggestStrategies(g.analyzePost(content), limit)
}

func (g *Generator) suggestStrategies(post postAnalysis, limit int) []core.Strategy {
	suggested := []core.Strategy{}

	if post.hasQuestion {
		suggested = append(suggested, core.StrategyAnswer, core.StrategyInsight)
	}
	if post.sentiment == "bullish" || post.sentiment == "bearish" {
		suggested = append(suggested, core.StrategyAgree, core.StrategyNuance)
	}
	if post.hasNumbers || containsString(post.topics, "gamma") {
		suggested = append(suggested, core.StrategyInsight, core.StrategyQuestion)
	}

	for _, base := range []core.Strategy{core.StrategyInsight, core.StrategyQuestion, core.StrategyAgree} {
		if !containsStrategy(suggested, base) {
			suggested = append(suggested, base)
		}
	}

	deduped := []core.Strategy{}
	for _, s := range suggested {
		if !containsStrategy(deduped, s) {
			deduped = append(deduped, s)
		}
	}

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}

// generate builds a single candidate: drafter first when present, then
// the template path. Both paths go through length calibration.
func (g *Generator) generate(ctx context.Context, bundle core.SignalBundle, post postAnalysis, strategy core.Strategy, variation int) core.ReplyCandidate {
	target := scoring.TargetLength(g.patterns)

	var text string
	if g.drafter != nil {
		drafted, err := g.drafter.Draft(ctx, g.BuildPrompt(bundle, strategy))
		if err != nil || strings.TrimSpace(drafted) == "" {
			logger.Warn("drafter unavailable, using template generation", "strategy", string(strategy), "error", errString(err))
		} else {
			text = strings.TrimSpace(drafted)
		}
	}
	if text == "" {
		text = g.fillTemplate(strategy, post, variation)
		text = g.applyVoiceStyle(text)
	}

	text = g.calibrateLength(text, target, post)

	return core.ReplyCandidate{
		ID:           uuid.NewString(),
		Text:         text,
		Strategy:     strategy,
		WordCount:    len(strings.Fields(text)),
		TargetLength: target,
		Topics:       post.topics,
		GeneratedAt:  time.Now().UTC(),
	}
}

// fillTemplate picks a template from the strategy's bank (by variation,
// wrapping) and fills its slots from the topic-conditioned phrase banks.
// Missing banks and topics fall back to generic defaults, never an error.
func (g *Generator) fillTemplate(strategy core.Strategy, post postAnalysis, variation int) string {
	bank, ok := templateBanks[strategy]
	if !ok {
		bank = templateBanks[core.StrategyInsight]
	}
	template := bank[variation%len(bank)]

	insights := insightsFor(post.topics)
	topic := "market"
	if len(post.topics) > 0 {
		topic = post.topics[g.rng.Intn(len(post.topics))]
	}

	text := template
	text = strings.ReplaceAll(text, "{insight}", g.pick(insights, "this setup looks solid"))
	text = strings.ReplaceAll(text, "{nuance}", g.pick(nuanceBank, "timing matters"))
	text = strings.ReplaceAll(text, "{reason}", g.pick(reasonBank, "it signals a shift"))
	text = strings.ReplaceAll(text, "{follow_up}", g.pick(followUpBank, ""))
	text = strings.ReplaceAll(text, "{topic}", topic)

	if len(g.voice.SignaturePhrases) > 0 && g.rng.Float64() < 0.3 {
		phrase := g.voice.SignaturePhrases[g.rng.Intn(len(g.voice.SignaturePhrases))]
		text = appendSentence(text, phrase)
	}

	return strings.TrimSpace(text)
}

func (g *Generator) pick(bank []string, fallback string) string {
	if len(bank) == 0 {
		return fallback
	}
	return bank[g.rng.Intn(len(bank))]
}

var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}]`)

// applyVoiceStyle applies formality substitutions and the profile's emoji
// policy after template fill.
func (g *Generator) applyVoiceStyle(text string) string {
	switch g.voice.Formality {
	case "casual":
		text = strings.ReplaceAll(text, "I am", "I'm")
		text = strings.ReplaceAll(text, "it is", "it's")
	case "formal":
		text = strings.ReplaceAll(text, "don't", "do not")
		text = strings.ReplaceAll(text, "can't", "cannot")
	}

	switch g.voice.EmojiStyle {
	case "light":
		if g.rng.Float64() < 0.2 {
			text += " 📊"
		}
	default: // minimal or none: strip anything a bank introduced
		text = emojiPattern.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(text)
}

// calibrateLength nudges the text toward the target word count. Over
// target+5 it hard-truncates to exactly target words; under target-3 it
// expands with up to five bounded passes; anything inside the band is
// returned unchanged.
func (g *Generator) calibrateLength(text string, target int, post postAnalysis) string {
	words := strings.Fields(text)

	if len(words) > target+overTolerance {
		text = strings.Join(words[:target], " ")
		if !hasTerminalPunctuation(text) {
			text += "."
		}
		return text
	}

	if len(words) < target-underTolerance {
		text = g.expand(text, target, post)
	}

	return text
}

var causalConnectives = []string{"because", "when", "what makes"}

// expand grows a short reply toward the target, choosing a tactic from the
// remaining word gap each pass. The closer tactic intentionally stops
// expansion regardless of remaining gap, which bounds runaway growth.
func (g *Generator) expand(text string, target int, post postAnalysis) string {
	for attempts := 0; attempts < maxExpandAttempts && len(strings.Fields(text)) < target-2; attempts++ {
		gap := target - len(strings.Fields(text))

		switch {
		case gap > 8 && countContained(strings.ToLower(text), causalConnectives) == 0:
			if !hasTerminalPunctuation(text) {
				text += "."
			}
			text += " " + g.pick(transitionBank, "Worth noting that")
			for _, topic := range post.topics {
				if additions, ok := topicAdditions[topic]; ok {
					text += " " + g.pick(additions, "")
					break
				}
			}

		case gap > 5:
			text = strings.TrimRight(text, ".")
			text += g.pick(amplifierBank, " - worth watching.")

		case gap > 2 && g.unusedSignaturePhrase(text) != "":
			text = appendSentence(text, g.unusedSignaturePhrase(text))

		default:
			closer := g.pick(closerBank, "Key level to watch.")
			if !strings.Contains(text, closer) {
				text = appendSentence(text, closer)
			}
			return cleanup(text)
		}
	}
	return cleanup(text)
}

func (g *Generator) unusedSignaturePhrase(text string) string {
	for _, phrase := range g.voice.SignaturePhrases {
		if phrase != "" && !strings.Contains(text, phrase) {
			return phrase
		}
	}
	return ""
}

// BuildPrompt constructs the drafter prompt: the reply strategy, the voice
// profile, and what the benchmark says performs well.
func (g *Generator) BuildPrompt(bundle core.SignalBundle, strategy core.Strategy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a %s reply to this %s post:\n\n%q\n\n", strategy, bundle.Platform, bundle.Text)
	fmt.Fprintf(&b, "Voice: %s tone, %s formality, %s vocabulary, %s emoji usage.\n",
		g.voice.Tone, g.voice.Formality, g.voice.Vocabulary, g.voice.EmojiStyle)
	if len(g.voice.SignaturePhrases) > 0 {
		fmt.Fprintf(&b, "Phrases that sound like the author: %s.\n", strings.Join(g.voice.SignaturePhrases, "; "))
	}
	if len(g.voice.AvoidedPhrases) > 0 {
		fmt.Fprintf(&b, "Never use: %s.\n", strings.Join(g.voice.AvoidedPhrases, "; "))
	}
	fmt.Fprintf(&b, "Target length: about %d words.\n", scoring.TargetLength(g.patterns))
	if len(g.patterns.TopTopics) > 0 {
		fmt.Fprintf(&b, "Topics that perform well: %s.\n", strings.Join(g.patterns.TopTopics, ", "))
	}
	b.WriteString("Reply with the text only, no preamble.")

	return b.String()
}

func appendSentence(text, sentence string) string {
	if sentence == "" {
		return text
	}
	if !hasTerminalPunctuation(text) {
		text += "."
	}
	return text + " " + sentence
}

func hasTerminalPunctuation(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?")
}

// cleanup collapses double periods and spaces introduced by concatenation.
func cleanup(text string) string {
	text = strings.ReplaceAll(text, "..", ".")
	text = strings.ReplaceAll(text, "  ", " ")
	return strings.TrimSpace(text)
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

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func containsStrategy(list []core.Strategy, want core.Strategy) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return "empty draft"
	}
	return err.Error()
}
