package queue

import (
	"errors"
	"testing"

	"capturekit/internal/core"
	"capturekit/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st)
}

func TestAddEntersPending(t *testing.T) {
	svc := newTestService(t)

	candidate := core.ReplyCandidate{
		ID:            "cand-1",
		Text:          "Dealer positioning explains most of this move.",
		Strategy:      core.StrategyInsight,
		CombinedScore: 81.5,
	}
	item, err := svc.Add(candidate, "trader", "twitter", "https://x.com/p/1")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.Status != core.QueuePending {
		t.Errorf("new items must be pending, got %s", item.Status)
	}
	if item.ID != "cand-1" {
		t.Errorf("expected candidate ID to carry over, got %q", item.ID)
	}

	pending, err := svc.Pending()
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Text != candidate.Text {
		t.Errorf("expected the queued item back, got %+v", pending)
	}
}

func TestAddGeneratesIDWhenMissing(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Add(core.ReplyCandidate{Text: "Agreed."}, "trader", "twitter", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected a generated ID")
	}
}

func TestReviewLifecycle(t *testing.T) {
	svc := newTestService(t)

	a, _ := svc.Add(core.ReplyCandidate{ID: "a", Text: "one"}, "trader", "twitter", "")
	b, _ := svc.Add(core.ReplyCandidate{ID: "b", Text: "two"}, "trader", "twitter", "")

	if err := svc.Approve(a.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := svc.Reject(b.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if err := svc.MarkPosted(a.ID); err != nil {
		t.Fatalf("mark posted failed: %v", err)
	}

	pending, _ := svc.Pending()
	if len(pending) != 0 {
		t.Errorf("expected no pending items, got %d", len(pending))
	}

	posted, err := svc.List(core.QueuePosted)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posted) != 1 || posted[0].ID != a.ID {
		t.Errorf("expected item a posted, got %+v", posted)
	}

	all, _ := svc.List("")
	if len(all) != 2 {
		t.Errorf("expected both items with empty status filter, got %d", len(all))
	}
}

func TestTransitionMissingItem(t *testing.T) {
	svc := newTestService(t)
	err := svc.Approve("no-such-id")
	if err == nil {
		t.Fatal("expected an error for a missing item")
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound in chain, got %v", err)
	}
}
