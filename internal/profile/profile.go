// Package profile manages stored voice profiles. A missing profile is not
// an error: callers get the documented defaults so generation always has a
// voice to work with.
package profile

import (
	"errors"
	"fmt"

	"capturekit/internal/core"
	"capturekit/internal/logger"
	"capturekit/internal/store"
)

// Service loads and saves voice profiles through the store.
type Service struct {
	store *store.Store
}

// NewService creates a profile service backed by the given store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Get returns the stored profile for a username, or the default profile
// (with the username filled in) when none exists.
func (s *Service) Get(username string) (core.VoiceProfile, error) {
	stored, err := s.store.LoadProfile(username)
	if errors.Is(err, store.ErrNotFound) {
		logger.Debug("no stored profile, using defaults", "username", username)
		p := core.DefaultVoiceProfile()
		p.Username = username
		return p, nil
	}
	if err != nil {
		return core.VoiceProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return applyDefaults(*stored), nil
}

// Save validates and stores a profile.
func (s *Service) Save(p core.VoiceProfile) error {
	if p.Username == "" {
		return fmt.Errorf("profile username is required")
	}
	return s.store.SaveProfile(applyDefaults(p))
}

// applyDefaults fills empty style fields from the default profile so a
// partially specified profile still produces usable generation settings.
func applyDefaults(p core.VoiceProfile) core.VoiceProfile {
	defaults := core.DefaultVoiceProfile()
	if p.Tone == "" {
		p.Tone = defaults.Tone
	}
	if p.Formality == "" {
		p.Formality = defaults.Formality
	}
	if p.Vocabulary == "" {
		p.Vocabulary = defaults.Vocabulary
	}
	if p.EmojiStyle == "" {
		p.EmojiStyle = defaults.EmojiStyle
	}
	if p.SentenceStyle == "" {
		p.SentenceStyle = defaults.SentenceStyle
	}
	return p
}
