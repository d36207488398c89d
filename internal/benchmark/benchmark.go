// Package benchmark maintains named collections of top accounts and viral
// posts and derives the patterns that make them work. Derived patterns are
// always a pure function of the current entry set: every write triggers a
// full recomputation, so a stored benchmark can never carry stale patterns.
package benchmark

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"capturekit/internal/analyzer"
	"capturekit/internal/core"
)

const (
	topPostLimit    = 10
	topTopicLimit   = 10
	peakWindowLimit = 3
	hookExampleMax  = 3
)

// Manager owns one benchmark. Writes are serialized by the manager's
// mutex; snapshots returned by Data and Patterns are value copies safe to
// read while other goroutines write.
type Manager struct {
	mu       sync.Mutex
	analyzer *analyzer.Analyzer
	data     core.BenchmarkData
}

// New creates an empty benchmark with the given name.
func New(name string) *Manager {
	now := time.Now().UTC()
	return &Manager{
		analyzer: analyzer.New(),
		data: core.BenchmarkData{
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// FromData wraps a previously stored benchmark. Patterns are recomputed
// immediately so a snapshot written by an older version is brought up to
// date on load.
func FromData(data core.BenchmarkData) *Manager {
	m := &Manager{analyzer: analyzer.New(), data: data}
	m.recompute()
	return m
}

// Data returns a snapshot of the benchmark. The snapshot shares slice
// backing with the manager and must be treated as read-only.
func (m *Manager) Data() core.BenchmarkData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Patterns returns the current derived patterns.
func (m *Manager) Patterns() core.Patterns {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Patterns
}

// AddAccount analyzes an account's posts and inserts the account into the
// benchmark, replacing any existing entry with the same username. Returns
// the entry as stored.
func (m *Manager) AddAccount(username, displayName, bio string, followers int, posts []core.RawPost) core.AccountEntry {
	entry := core.AccountEntry{
		Username:      strings.TrimPrefix(username, "@"),
		Name:          displayName,
		Bio:           bio,
		Followers:     followers,
		AnalyzedPosts: len(posts),
		AddedAt:       time.Now().UTC(),
		Metrics:       computeMetrics(posts, followers),
		Style:         deriveStyle(posts),
		Topics:        collectTopics(posts),
		TopPosts:      topPosts(posts),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := false
	for i := range m.data.Accounts {
		if m.data.Accounts[i].Username == entry.Username {
			m.data.Accounts[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		m.data.Accounts = append(m.data.Accounts, entry)
	}

	m.recompute()
	return entry
}

// AddViralPost analyzes a single post and inserts it into the benchmark,
// replacing any existing entry with the same identity key. The key is the
// post URL, or a content hash when the URL is absent.
func (m *Manager) AddViralPost(post core.RawPost, platformName, notes string) core.ViralPostEntry {
	entry := core.ViralPostEntry{
		Key:      postKey(post),
		Post:     post,
		Analysis: m.analyzer.Analyze(post.Content, platformName),
		Notes:    notes,
		AddedAt:  time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := false
	for i := range m.data.ViralPosts {
		if m.data.ViralPosts[i].Key == entry.Key {
			m.data.ViralPosts[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		m.data.ViralPosts = append(m.data.ViralPosts, entry)
	}

	m.recompute()
	return entry
}

func postKey(post core.RawPost) string {
	if post.URL != "" {
		return post.URL
	}
	sum := sha256.Sum256([]byte(post.Content))
	return hex.EncodeToString(sum[:8])
}

// recompute rebuilds Patterns and Aggregated from the entry collections.
// Caller must hold the mutex (FromData runs before the manager escapes).
// All orderings are fully determined so recomputing an unchanged
// collection reproduces byte-identical patterns.
func (m *Manager) recompute() {
	texts := []string{}
	stamps := []time.Time{}
	for _, acct := range m.data.Accounts {
		for _, p := range acct.TopPosts {
			texts = append(texts, p.Content)
			stamps = append(stamps, p.Timestamp)
		}
	}
	for _, v := range m.data.ViralPosts {
		texts = append(texts, v.Post.Content)
		stamps = append(stamps, v.Post.Timestamp)
	}

	m.data.Patterns = core.Patterns{
		OptimalLength: lengthStats(texts),
		BestTiming:    timingStats(stamps),
		TopTopics:     topTopics(m.data.Accounts, texts),
		Hooks:         hookHistogram(m.analyzer, texts),
		CommonStyles:  styleConsensus(m.data.Accounts),
	}
	m.data.Aggregated = aggregate(m.data.Accounts, len(m.data.ViralPosts))
	m.data.UpdatedAt = time.Now().UTC()
}

// lengthStats summarizes word counts across texts, skipping empty ones.
func lengthStats(texts []string) core.LengthStats {
	lengths := []int{}
	for _, t := range texts {
		if n := len(strings.Fields(t)); n > 0 {
			lengths = append(lengths, n)
		}
	}
	if len(lengths) == 0 {
		return core.LengthStats{}
	}

	sort.Ints(lengths)
	sum := 0
	for _, n := range lengths {
		sum += n
	}
	median := float64(lengths[len(lengths)/2])
	if len(lengths)%2 == 0 {
		median = float64(lengths[len(lengths)/2-1]+lengths[len(lengths)/2]) / 2
	}

	return core.LengthStats{
		Min:    lengths[0],
		Max:    lengths[len(lengths)-1],
		Avg:    float64(sum) / float64(len(lengths)),
		Median: median,
	}
}

// timingStats derives the top posting hours and weekdays from non-zero
// timestamps.
func timingStats(stamps []time.Time) core.TimingStats {
	hourCounts := map[int]int{}
	dayCounts := map[string]int{}
	for _, ts := range stamps {
		if ts.IsZero() {
			continue
		}
		hourCounts[ts.Hour()]++
		dayCounts[ts.Weekday().String()]++
	}

	hours := make([]int, 0, len(hourCounts))
	for h := range hourCounts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if hourCounts[hours[i]] != hourCounts[hours[j]] {
			return hourCounts[hours[i]] > hourCounts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > peakWindowLimit {
		hours = hours[:peakWindowLimit]
	}

	days := make([]string, 0, len(dayCounts))
	for d := range dayCounts {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		if dayCounts[days[i]] != dayCounts[days[j]] {
			return dayCounts[days[i]] > dayCounts[days[j]]
		}
		return days[i] < days[j]
	})
	if len(days) > peakWindowLimit {
		days = days[:peakWindowLimit]
	}

	return core.TimingStats{PeakHours: hours, PeakDays: days}
}

// topTopics counts topic occurrences across account topic lists and post
// texts and returns the ten most frequent.
func topTopics(accounts []core.AccountEntry, texts []string) []string {
	counts := map[string]int{}
	for _, acct := range accounts {
		for _, t := range acct.Topics {
			counts[t]++
		}
	}
	for _, text := range texts {
		for _, t := range analyzer.Topics(text) {
			counts[t]++
		}
	}

	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > topTopicLimit {
		topics = topics[:topTopicLimit]
	}
	return topics
}

// hookHistogram counts detected hook types across texts, keeping up to
// three example hook strings per type, frequency descending.
func hookHistogram(an *analyzer.Analyzer, texts []string) []core.HookStat {
	counts := map[core.HookType]int{}
	examples := map[core.HookType][]string{}
	for _, text := range texts {
		bundle := an.Analyze(text, "")
		if bundle.Hook == nil {
			continue
		}
		counts[bundle.Hook.Type]++
		if len(examples[bundle.Hook.Type]) < hookExampleMax {
			examples[bundle.Hook.Type] = append(examples[bundle.Hook.Type], bundle.Hook.Text)
		}
	}

	stats := make([]core.HookStat, 0, len(counts))
	for ht, n := range counts {
		stats = append(stats, core.HookStat{Type: ht, Count: n, Examples: examples[ht]})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Type < stats[j].Type
	})
	return stats
}

// styleConsensus takes the majority vote of each style attribute across
// accounts, tie-broken alphabetically.
func styleConsensus(accounts []core.AccountEntry) core.StyleConsensus {
	return core.StyleConsensus{
		Vocabulary: majority(accounts, func(a core.AccountEntry) string { return a.Style.Vocabulary }),
		Tone:       majority(accounts, func(a core.AccountEntry) string { return a.Style.Tone }),
		Emoji:      majority(accounts, func(a core.AccountEntry) string { return a.Style.Emoji }),
	}
}

func majority(accounts []core.AccountEntry, pick func(core.AccountEntry) string) string {
	counts := map[string]int{}
	for _, a := range accounts {
		if v := pick(a); v != "" {
			counts[v]++
		}
	}
	best := ""
	for v, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && v < best) {
			best = v
		}
	}
	return best
}

func aggregate(accounts []core.AccountEntry, viralCount int) core.AggregatedMetrics {
	agg := core.AggregatedMetrics{
		TotalAccounts:   len(accounts),
		TotalViralPosts: viralCount,
	}
	if len(accounts) == 0 {
		return agg
	}

	var rateSum, followerSum float64
	for _, a := range accounts {
		rateSum += a.Metrics.EngagementRate
		followerSum += float64(a.Followers)
	}
	agg.AvgEngagementRate = rateSum / float64(len(accounts))
	agg.AvgFollowers = followerSum / float64(len(accounts))
	return agg
}

// computeMetrics averages engagement counts over an account's posts.
// Engagement rate is average engagement as a percentage of followers.
func computeMetrics(posts []core.RawPost, followers int) core.AccountMetrics {
	if len(posts) == 0 {
		return core.AccountMetrics{}
	}

	var likes, retweets, replies, engagement int
	for _, p := range posts {
		likes += p.Likes
		retweets += p.Retweets
		replies += p.Replies
		engagement += p.Engagement()
	}

	n := float64(len(posts))
	m := core.AccountMetrics{
		AvgLikes:      float64(likes) / n,
		AvgRetweets:   float64(retweets) / n,
		AvgReplies:    float64(replies) / n,
		AvgEngagement: float64(engagement) / n,
	}
	if followers > 0 {
		m.EngagementRate = m.AvgEngagement / float64(followers) * 100
	}
	return m
}

// deriveStyle extracts coarse style attributes from an account's posts.
func deriveStyle(posts []core.RawPost) core.AccountStyle {
	if len(posts) == 0 {
		return core.AccountStyle{}
	}

	wordTotal := 0
	jargon := 0
	emoji := 0
	casual := 0
	stamps := make([]time.Time, 0, len(posts))
	for _, p := range posts {
		words := strings.Fields(p.Content)
		wordTotal += len(words)
		lower := strings.ToLower(p.Content)
		for _, term := range []string{"gamma", "delta", "iv", "gex", "notional", "basis"} {
			if strings.Contains(lower, term) {
				jargon++
			}
		}
		for _, term := range []string{"lol", "lmao", "gonna", "tbh", "ngl"} {
			if strings.Contains(lower, term) {
				casual++
			}
		}
		for _, r := range p.Content {
			if r >= 0x1F300 && r <= 0x1FAFF {
				emoji++
			}
		}
		stamps = append(stamps, p.Timestamp)
	}

	style := core.AccountStyle{
		Vocabulary:    "simple",
		Tone:          "professional",
		Emoji:         "none",
		SentenceStyle: "concise",
		AvgPostLength: wordTotal / len(posts),
	}
	if jargon >= len(posts) {
		style.Vocabulary = "technical"
	}
	if casual > 0 {
		style.Tone = "casual"
	}
	switch {
	case emoji > len(posts):
		style.Emoji = "heavy"
	case emoji > 0:
		style.Emoji = "light"
	}
	if style.AvgPostLength > 40 {
		style.SentenceStyle = "flowing"
	}

	timing := timingStats(stamps)
	style.PeakHours = timing.PeakHours
	style.PeakDays = timing.PeakDays
	return style
}

func collectTopics(posts []core.RawPost) []string {
	counts := map[string]int{}
	for _, p := range posts {
		for _, t := range analyzer.Topics(p.Content) {
			counts[t]++
		}
	}
	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	return topics
}

// topPosts returns up to ten posts sorted by total engagement descending,
// stable with respect to input order among ties.
func topPosts(posts []core.RawPost) []core.RawPost {
	sorted := make([]core.RawPost, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Engagement() > sorted[j].Engagement()
	})
	if len(sorted) > topPostLimit {
		sorted = sorted[:topPostLimit]
	}
	return sorted
}

// Gap is one attribute where the profile diverges from the benchmark
// consensus.
type Gap struct {
	Attribute string `json:"attribute"`
	Yours     string `json:"yours"`
	Benchmark string `json:"benchmark"`
}

// Comparison reports how a voice profile lines up against the benchmark.
type Comparison struct {
	Benchmark       string   `json:"benchmark"`
	Gaps            []Gap    `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// CompareProfile checks a voice profile against the benchmark's style
// consensus and derived patterns and suggests adjustments.
func (m *Manager) CompareProfile(profile core.VoiceProfile) Comparison {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmp := Comparison{Benchmark: m.data.Name, Gaps: []Gap{}, Recommendations: []string{}}
	styles := m.data.Patterns.CommonStyles

	if styles.Vocabulary != "" && styles.Vocabulary != profile.Vocabulary {
		cmp.Gaps = append(cmp.Gaps, Gap{"vocabulary", profile.Vocabulary, styles.Vocabulary})
		cmp.Recommendations = append(cmp.Recommendations,
			fmt.Sprintf("Top accounts use %s vocabulary; yours reads %s", styles.Vocabulary, profile.Vocabulary))
	}
	if styles.Tone != "" && styles.Tone != profile.Tone {
		cmp.Gaps = append(cmp.Gaps, Gap{"tone", profile.Tone, styles.Tone})
		cmp.Recommendations = append(cmp.Recommendations,
			fmt.Sprintf("Consider a more %s tone to match the benchmark", styles.Tone))
	}
	if styles.Emoji != "" && styles.Emoji != profile.EmojiStyle {
		cmp.Gaps = append(cmp.Gaps, Gap{"emoji", profile.EmojiStyle, styles.Emoji})
	}

	if m.data.Patterns.OptimalLength.Avg > 0 {
		cmp.Recommendations = append(cmp.Recommendations,
			fmt.Sprintf("Aim for about %.0f words per post", m.data.Patterns.OptimalLength.Avg))
	}
	if len(m.data.Patterns.Hooks) > 0 {
		cmp.Recommendations = append(cmp.Recommendations,
			fmt.Sprintf("Lead with %s hooks, the most common among top performers", m.data.Patterns.Hooks[0].Type))
	}
	if len(m.data.Patterns.TopTopics) > 0 {
		cmp.Recommendations = append(cmp.Recommendations,
			fmt.Sprintf("High-engagement topics: %s", strings.Join(m.data.Patterns.TopTopics, ", ")))
	}

	return cmp
}
