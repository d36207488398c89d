package benchmark

import (
	"encoding/json"
	"testing"
	"time"

	"capturekit/internal/core"
)

func stamp(day time.Weekday, hour int) time.Time {
	// 2024-01-01 is a Monday.
	base := time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(day-time.Monday))
}

func samplePosts() []core.RawPost {
	return []core.RawPost{
		{Content: "Why is gamma exposure pinning SPX here?", Likes: 500, Retweets: 100, Replies: 50, Timestamp: stamp(time.Tuesday, 9)},
		{Content: "Dealers are short gamma into opex. Flow confirms it.", Likes: 900, Retweets: 200, Replies: 80, Timestamp: stamp(time.Tuesday, 9)},
		{Content: "Support at 4800 held three times this week.", Likes: 300, Retweets: 40, Replies: 20, Timestamp: stamp(time.Wednesday, 17)},
	}
}

func TestAddAccountReplacesByUsername(t *testing.T) {
	m := New("test")

	m.AddAccount("@trader", "Trader", "", 10000, samplePosts())
	m.AddAccount("trader", "Trader Two", "", 20000, samplePosts())

	data := m.Data()
	if len(data.Accounts) != 1 {
		t.Fatalf("re-adding a username must replace, got %d accounts", len(data.Accounts))
	}
	if data.Accounts[0].Name != "Trader Two" {
		t.Errorf("expected the replacement entry, got %q", data.Accounts[0].Name)
	}
	if data.Accounts[0].Followers != 20000 {
		t.Errorf("expected followers 20000, got %d", data.Accounts[0].Followers)
	}
}

func TestAddViralPostReplacesByKey(t *testing.T) {
	m := New("test")

	post := core.RawPost{Content: "Huge print on the tape.", URL: "https://x.com/p/1"}
	m.AddViralPost(post, "twitter", "first")
	m.AddViralPost(post, "twitter", "second")

	data := m.Data()
	if len(data.ViralPosts) != 1 {
		t.Fatalf("same URL must replace, got %d entries", len(data.ViralPosts))
	}
	if data.ViralPosts[0].Notes != "second" {
		t.Errorf("expected the replacement entry, got %q", data.ViralPosts[0].Notes)
	}
}

func TestViralPostKeyWithoutURL(t *testing.T) {
	m := New("test")

	a := m.AddViralPost(core.RawPost{Content: "one"}, "twitter", "")
	b := m.AddViralPost(core.RawPost{Content: "two"}, "twitter", "")
	c := m.AddViralPost(core.RawPost{Content: "one"}, "twitter", "updated")

	if a.Key == b.Key {
		t.Error("different content must produce different keys")
	}
	if a.Key != c.Key {
		t.Error("identical content must produce the same key")
	}
	if got := len(m.Data().ViralPosts); got != 2 {
		t.Errorf("expected 2 entries after replacement, got %d", got)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	m := New("test")
	m.AddAccount("trader", "", "", 10000, samplePosts())
	m.AddViralPost(core.RawPost{Content: "95% of traders ignore dealer flow.", URL: "u1"}, "twitter", "")

	first, err := json.Marshal(m.Patterns())
	if err != nil {
		t.Fatal(err)
	}

	// Reloading the same entry set must reproduce identical patterns.
	again := FromData(m.Data())
	second, err := json.Marshal(again.Patterns())
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("recompute not idempotent:\n%s\n%s", first, second)
	}
}

func TestPatternsLengthStats(t *testing.T) {
	m := New("test")
	m.AddAccount("trader", "", "", 1000, samplePosts())

	stats := m.Patterns().OptimalLength
	if stats.Min <= 0 || stats.Max < stats.Min {
		t.Errorf("bad length stats: %+v", stats)
	}
	if stats.Avg < float64(stats.Min) || stats.Avg > float64(stats.Max) {
		t.Errorf("avg outside min/max: %+v", stats)
	}

	// Adding a much longer post must not shrink the max.
	oldMax := stats.Max
	long := core.RawPost{Content: "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty", URL: "u2"}
	m.AddViralPost(long, "twitter", "")

	if got := m.Patterns().OptimalLength.Max; got < oldMax {
		t.Errorf("max decreased after adding a longer post: %d -> %d", oldMax, got)
	}
}

func TestPatternsTiming(t *testing.T) {
	m := New("test")
	m.AddAccount("trader", "", "", 1000, samplePosts())

	timing := m.Patterns().BestTiming
	if len(timing.PeakHours) == 0 || timing.PeakHours[0] != 9 {
		t.Errorf("expected hour 9 to lead, got %v", timing.PeakHours)
	}
	if len(timing.PeakDays) == 0 || timing.PeakDays[0] != "Tuesday" {
		t.Errorf("expected Tuesday to lead, got %v", timing.PeakDays)
	}
}

func TestPatternsHookHistogram(t *testing.T) {
	m := New("test")
	m.AddViralPost(core.RawPost{Content: "Why is nobody hedging this?", URL: "u1"}, "twitter", "")
	m.AddViralPost(core.RawPost{Content: "What breaks this rally?", URL: "u2"}, "twitter", "")
	m.AddViralPost(core.RawPost{Content: "95% of size is passive.", URL: "u3"}, "twitter", "")

	hooks := m.Patterns().Hooks
	if len(hooks) == 0 {
		t.Fatal("expected hook stats")
	}
	if hooks[0].Type != core.HookQuestion || hooks[0].Count != 2 {
		t.Errorf("expected question hook leading with count 2, got %+v", hooks[0])
	}
	if len(hooks[0].Examples) == 0 || len(hooks[0].Examples) > 3 {
		t.Errorf("expected 1-3 examples, got %d", len(hooks[0].Examples))
	}
}

func TestAccountMetrics(t *testing.T) {
	entry := New("test").AddAccount("trader", "", "", 10000, samplePosts())

	// (500+900+300)/3 likes.
	if entry.Metrics.AvgLikes < 566 || entry.Metrics.AvgLikes > 567 {
		t.Errorf("unexpected avg likes %.1f", entry.Metrics.AvgLikes)
	}
	if entry.Metrics.EngagementRate <= 0 {
		t.Errorf("expected a positive engagement rate, got %.2f", entry.Metrics.EngagementRate)
	}
	if entry.AnalyzedPosts != 3 {
		t.Errorf("expected 3 analyzed posts, got %d", entry.AnalyzedPosts)
	}
}

func TestTopPostsSortedAndCapped(t *testing.T) {
	posts := make([]core.RawPost, 14)
	for i := range posts {
		posts[i] = core.RawPost{Content: "post", Likes: i * 10}
	}

	entry := New("test").AddAccount("trader", "", "", 1000, posts)

	if len(entry.TopPosts) != 10 {
		t.Fatalf("expected 10 top posts, got %d", len(entry.TopPosts))
	}
	if entry.TopPosts[0].Likes != 130 {
		t.Errorf("expected highest engagement first, got %d likes", entry.TopPosts[0].Likes)
	}
}

func TestCompareProfile(t *testing.T) {
	m := New("test")
	m.AddAccount("trader", "", "", 10000, samplePosts())

	profile := core.DefaultVoiceProfile()
	cmp := m.CompareProfile(profile)

	if cmp.Benchmark != "test" {
		t.Errorf("expected benchmark name in report, got %q", cmp.Benchmark)
	}
	if len(cmp.Recommendations) == 0 {
		t.Error("expected recommendations from a populated benchmark")
	}
}

func TestEmptyBenchmarkPatterns(t *testing.T) {
	p := New("empty").Patterns()

	if p.OptimalLength.Max != 0 || len(p.Hooks) != 0 || len(p.TopTopics) != 0 {
		t.Errorf("empty benchmark should have zeroed patterns: %+v", p)
	}
}
