package store

import (
	"errors"
	"testing"
	"time"

	"capturekit/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBenchmarkRoundTrip(t *testing.T) {
	s := newTestStore(t)

	data := core.BenchmarkData{
		Name:      "fintwit",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		ViralPosts: []core.ViralPostEntry{
			{Key: "u1", Post: core.RawPost{Content: "hello", Likes: 10}},
		},
		Patterns: core.Patterns{
			OptimalLength: core.LengthStats{Min: 5, Max: 40, Avg: 18, Median: 16},
			TopTopics:     []string{"gamma", "flow"},
		},
	}

	if err := s.SaveBenchmark(data); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.LoadBenchmark("fintwit")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "fintwit" {
		t.Errorf("expected name fintwit, got %q", loaded.Name)
	}
	if len(loaded.ViralPosts) != 1 || loaded.ViralPosts[0].Post.Content != "hello" {
		t.Errorf("viral posts not round-tripped: %+v", loaded.ViralPosts)
	}
	if loaded.Patterns.OptimalLength.Avg != 18 {
		t.Errorf("patterns not round-tripped: %+v", loaded.Patterns)
	}
}

func TestBenchmarkSaveReplaces(t *testing.T) {
	s := newTestStore(t)

	data := core.BenchmarkData{Name: "x"}
	if err := s.SaveBenchmark(data); err != nil {
		t.Fatal(err)
	}
	data.Patterns.TopTopics = []string{"options"}
	if err := s.SaveBenchmark(data); err != nil {
		t.Fatal(err)
	}

	names, err := s.ListBenchmarks()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Errorf("expected a single row after re-save, got %v", names)
	}

	loaded, err := s.LoadBenchmark("x")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Patterns.TopTopics) != 1 {
		t.Errorf("expected the updated document, got %+v", loaded.Patterns)
	}
}

func TestLoadMissingBenchmark(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadBenchmark("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBenchmark(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveBenchmark(core.BenchmarkData{Name: "gone"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteBenchmark("gone"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteBenchmark("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)

	p := core.VoiceProfile{
		Username:         "trader",
		Tone:             "casual",
		SignaturePhrases: []string{"flow will tell"},
	}
	if err := s.SaveProfile(p); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadProfile("trader")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Tone != "casual" || len(loaded.SignaturePhrases) != 1 {
		t.Errorf("profile not round-tripped: %+v", loaded)
	}

	if _, err := s.LoadProfile("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQueueLifecycle(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	item := core.QueueItem{
		ID:        "q1",
		User:      "trader",
		Platform:  "twitter",
		Text:      "Nice setup.",
		Strategy:  core.StrategyAgree,
		Score:     72.5,
		Status:    core.QueuePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.EnqueueReply(item); err != nil {
		t.Fatal(err)
	}

	pending, err := s.ListQueue(core.QueuePending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != "q1" {
		t.Fatalf("expected the pending item, got %+v", pending)
	}
	if pending[0].Strategy != core.StrategyAgree {
		t.Errorf("strategy not round-tripped: %q", pending[0].Strategy)
	}

	if err := s.UpdateQueueStatus("q1", core.QueueApproved); err != nil {
		t.Fatal(err)
	}

	pending, err = s.ListQueue(core.QueuePending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending items after approval, got %d", len(pending))
	}

	all, err := s.ListQueue("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Status != core.QueueApproved {
		t.Errorf("expected one approved item, got %+v", all)
	}

	if err := s.UpdateQueueStatus("missing", core.QueueApproved); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveBenchmark(core.BenchmarkData{Name: "b1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveProfile(core.VoiceProfile{Username: "u1"}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.BenchmarkCount != 1 || stats.ProfileCount != 1 || stats.QueueCount != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.StoreSize <= 0 {
		t.Errorf("expected a positive store size, got %d", stats.StoreSize)
	}
}
