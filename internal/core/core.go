package core

import "time"

// HookType categorizes the rhetorical device used in a post's opening line.
type HookType string

const (
	HookQuestion   HookType = "question"
	HookContrarian HookType = "contrarian"
	HookData       HookType = "data"
	HookStory      HookType = "story"
	HookCallout    HookType = "callout"
	HookBoldClaim  HookType = "bold_claim"
	HookHowTo      HookType = "how_to"
	HookList       HookType = "list"
)

// Framework identifies the structural form of a post. Detection is
// first-match-wins over an ordered list of checks, so a post has exactly
// one framework.
type Framework string

const (
	FrameworkSingle   Framework = "single"
	FrameworkThread   Framework = "thread"
	FrameworkQuote    Framework = "quote"
	FrameworkReply    Framework = "reply"
	FrameworkCarousel Framework = "carousel"
)

// Trigger is an emotional appeal keyword family. Triggers are detected
// independently of each other; a post may carry any subset.
type Trigger string

const (
	TriggerFear        Trigger = "fear"
	TriggerGreed       Trigger = "greed"
	TriggerCuriosity   Trigger = "curiosity"
	TriggerFOMO        Trigger = "fomo"
	TriggerValidation  Trigger = "validation"
	TriggerUrgency     Trigger = "urgency"
	TriggerExclusivity Trigger = "exclusivity"
)

// Specificity grades how concrete a post is, derived from a 0-4 count of
// numeric/data/example/mention signals.
type Specificity string

const (
	SpecificityVague    Specificity = "vague"
	SpecificityModerate Specificity = "moderate"
	SpecificityConcrete Specificity = "concrete"
)

// Strategy is the rhetorical angle a generated reply takes.
type Strategy string

const (
	StrategyAgree    Strategy = "agree"
	StrategyInsight  Strategy = "insight"
	StrategyQuestion Strategy = "question"
	StrategyNuance   Strategy = "nuance"
	StrategyAnswer   Strategy = "answer"
)

// Hook is a detected opening hook: its type, the matched text (capped at
// 100 characters), and a strength in [0, 1].
type Hook struct {
	Type     HookType `json:"type"`
	Text     string   `json:"text"`
	Strength float64  `json:"strength"`
}

// PlatformFit reports how well a post fits a platform's rules. Score starts
// at 100 and is reduced by fixed per-rule deductions, floored at 0.
type PlatformFit struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// SignalBundle is the analyzer's output for a single post. Bundles are
// value objects: created per call and never mutated afterwards.
type SignalBundle struct {
	Text     string `json:"text"`
	Platform string `json:"platform"`

	WordCount     int `json:"word_count"`
	CharCount     int `json:"char_count"`
	SentenceCount int `json:"sentence_count"`
	LineCount     int `json:"line_count"`

	Hook            *Hook       `json:"hook,omitempty"`   // nil when no hook pattern matched
	Framework       Framework   `json:"framework"`
	Triggers        []Trigger   `json:"triggers"`
	TriggerStrength float64     `json:"trigger_strength"` // 0.0 to 1.0
	Specificity     Specificity `json:"specificity"`

	HasNumbers  bool `json:"has_numbers"`
	HasData     bool `json:"has_data"`
	HasExamples bool `json:"has_examples"`
	HasMention  bool `json:"has_mention"` // @mention or $TICKER

	AuthoritySignals []string    `json:"authority_signals"` // first-occurrence order, max 5
	PlatformFit      PlatformFit `json:"platform_fit"`

	Techniques []string `json:"techniques"` // compiled technique tags (hook:question, trigger:fear, ...)
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// VoiceProfile describes a user's documented writing style. Missing fields
// degrade to the defaults returned by DefaultVoiceProfile.
type VoiceProfile struct {
	Username         string   `json:"username"`
	Tone             string   `json:"tone"`           // professional, casual
	Formality        string   `json:"formality"`      // formal, balanced, casual
	Vocabulary       string   `json:"vocabulary"`     // simple, professional
	EmojiStyle       string   `json:"emoji_style"`    // none, minimal, light
	SentenceStyle    string   `json:"sentence_style"` // concise, flowing
	SignaturePhrases []string `json:"signature_phrases"`
	AvoidedPhrases   []string `json:"avoided_phrases"`
}

// DefaultVoiceProfile returns the documented fallback profile used when no
// stored profile exists for a user.
func DefaultVoiceProfile() VoiceProfile {
	return VoiceProfile{
		Tone:          "professional",
		Formality:     "balanced",
		Vocabulary:    "professional",
		EmojiStyle:    "minimal",
		SentenceStyle: "concise",
	}
}

// RawPost is the minimal record produced by any scraper or export parser.
// Timestamp is the zero value when the source timestamp was absent or
// unparseable.
type RawPost struct {
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Likes     int       `json:"likes"`
	Retweets  int       `json:"retweets"`
	Replies   int       `json:"replies"`
	Quotes    int       `json:"quotes"`
}

// Engagement returns the summed engagement counts for the post.
func (p RawPost) Engagement() int {
	return p.Likes + p.Retweets + p.Replies + p.Quotes
}

// ReplyCandidate is one generated reply option. Score fields are populated
// by the scoring engine after generation; candidates are immutable once
// scored.
type ReplyCandidate struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Strategy     Strategy  `json:"strategy"`
	WordCount    int       `json:"word_count"`
	TargetLength int       `json:"target_length"`
	Topics       []string  `json:"topics"` // source-post topics the reply responds to
	GeneratedAt  time.Time `json:"generated_at"`

	VoiceScore      float64 `json:"voice_score"`      // 0-100
	EngagementScore float64 `json:"engagement_score"` // 0-100
	LengthScore     float64 `json:"length_score"`     // 0-100
	CombinedScore   float64 `json:"combined_score"`   // weighted blend, 0-100
}

// LengthStats summarizes post lengths (in words) across benchmark entries.
// Zero-length posts are excluded from the statistic.
type LengthStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// TimingStats holds the most frequent posting hours and weekdays across
// benchmark entries with parseable timestamps.
type TimingStats struct {
	PeakHours []int    `json:"peak_hours"` // top 3, most frequent first
	PeakDays  []string `json:"peak_days"`  // top 3, most frequent first
}

// HookStat is one row of the hook-type histogram with up to three example
// matched strings.
type HookStat struct {
	Type     HookType `json:"type"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// StyleConsensus holds the majority-vote style attributes across benchmark
// entries.
type StyleConsensus struct {
	Vocabulary string `json:"vocabulary"`
	Tone       string `json:"tone"`
	Emoji      string `json:"emoji"`
}

// Patterns is the derived "what works" view over a benchmark's entries.
// It is always a pure function of the current entry set: every write
// triggers a full recomputation, so recompute-on-write and
// recompute-on-read are indistinguishable.
type Patterns struct {
	OptimalLength LengthStats    `json:"optimal_length"`
	BestTiming    TimingStats    `json:"best_timing"`
	TopTopics     []string       `json:"top_topics"` // top 10 by frequency
	Hooks         []HookStat     `json:"hooks"`      // frequency descending
	CommonStyles  StyleConsensus `json:"common_styles"`
}

// AccountMetrics holds per-account engagement averages.
type AccountMetrics struct {
	AvgLikes       float64 `json:"avg_likes"`
	AvgRetweets    float64 `json:"avg_retweets"`
	AvgReplies     float64 `json:"avg_replies"`
	AvgEngagement  float64 `json:"avg_engagement"`
	EngagementRate float64 `json:"engagement_rate"` // percent of followers
}

// AccountStyle captures the style attributes extracted for a tracked
// account, used for the benchmark's majority-vote consensus.
type AccountStyle struct {
	Vocabulary    string   `json:"vocabulary"`
	Tone          string   `json:"tone"`
	Emoji         string   `json:"emoji"`
	SentenceStyle string   `json:"sentence_style"`
	AvgPostLength int      `json:"avg_post_length"` // words
	PeakHours     []int    `json:"peak_hours"`
	PeakDays      []string `json:"peak_days"`
}

// AccountEntry is a tracked top-performer account inside a benchmark.
// Entries are replaced wholesale on re-add; they are never mutated in
// place.
type AccountEntry struct {
	Username      string         `json:"username"`
	Name          string         `json:"name,omitempty"`
	Bio           string         `json:"bio,omitempty"`
	Followers     int            `json:"followers"`
	AnalyzedPosts int            `json:"analyzed_posts"`
	AddedAt       time.Time      `json:"added_at"`
	Metrics       AccountMetrics `json:"metrics"`
	Style         AccountStyle   `json:"style"`
	Topics        []string       `json:"topics"`
	TopPosts      []RawPost      `json:"top_posts"` // by total engagement, max 10
}

// ViralPostEntry is a standalone curated post inside a benchmark, carrying
// its own analysis.
type ViralPostEntry struct {
	Key      string       `json:"key"` // identity key: URL, or content hash when absent
	Post     RawPost      `json:"post"`
	Analysis SignalBundle `json:"analysis"`
	Notes    string       `json:"notes,omitempty"` // manual notes on why it worked
	AddedAt  time.Time    `json:"added_at"`
}

// AggregatedMetrics summarizes the benchmark's account collection.
type AggregatedMetrics struct {
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	AvgFollowers      float64 `json:"avg_followers"`
	TotalAccounts     int     `json:"total_accounts"`
	TotalViralPosts   int     `json:"total_viral_posts"`
}

// BenchmarkData is the persisted form of a benchmark: its entry
// collections plus the derived patterns.
type BenchmarkData struct {
	Name       string            `json:"name"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Accounts   []AccountEntry    `json:"top_accounts"`
	ViralPosts []ViralPostEntry  `json:"viral_posts"`
	Patterns   Patterns          `json:"patterns"`
	Aggregated AggregatedMetrics `json:"aggregated_metrics"`
}

// QueueStatus tracks a queued reply through review.
type QueueStatus string

const (
	QueuePending  QueueStatus = "pending"
	QueueApproved QueueStatus = "approved"
	QueueRejected QueueStatus = "rejected"
	QueuePosted   QueueStatus = "posted"
)

// QueueItem is a drafted reply awaiting review.
type QueueItem struct {
	ID        string      `json:"id"`
	User      string      `json:"user"`
	Platform  string      `json:"platform"`
	SourceURL string      `json:"source_url,omitempty"`
	Text      string      `json:"text"`
	Strategy  Strategy    `json:"strategy"`
	Score     float64     `json:"score"` // combined score at draft time
	Status    QueueStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StoreStats reports row counts for the persistence layer.
type StoreStats struct {
	BenchmarkCount int       `json:"benchmark_count"`
	ProfileCount   int       `json:"profile_count"`
	QueueCount     int       `json:"queue_count"`
	StoreSize      int64     `json:"store_size"` // bytes on disk
	LastUpdated    time.Time `json:"last_updated"`
}
