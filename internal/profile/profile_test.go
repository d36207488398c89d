package profile

import (
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

func TestGetMissingReturnsDefaults(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Get("newuser")
	if err != nil {
		t.Fatalf("missing profile should not error: %v", err)
	}
	if p.Username != "newuser" {
		t.Errorf("expected username filled in, got %q", p.Username)
	}
	if p.Tone != "professional" || p.SentenceStyle != "concise" {
		t.Errorf("expected default style, got %+v", p)
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)

	want := core.VoiceProfile{
		Username:         "trader",
		Tone:             "casual",
		SignaturePhrases: []string{"Worth watching."},
	}
	if err := svc.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := svc.Get("trader")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Tone != "casual" {
		t.Errorf("expected stored tone, got %q", got.Tone)
	}
	// Fields left empty on save come back as defaults.
	if got.Formality != "balanced" {
		t.Errorf("expected default formality, got %q", got.Formality)
	}
	if len(got.SignaturePhrases) != 1 || got.SignaturePhrases[0] != "Worth watching." {
		t.Errorf("signature phrases not preserved: %v", got.SignaturePhrases)
	}
}

func TestSaveRequiresUsername(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Save(core.VoiceProfile{Tone: "casual"}); err == nil {
		t.Error("expected an error for a profile without a username")
	}
}
