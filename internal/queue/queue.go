// Package queue manages drafted replies through the pending, approved,
// rejected, posted review lifecycle on top of the store.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"capturekit/internal/core"
	"capturekit/internal/store"
)

// Service wraps queue persistence with the review state machine.
type Service struct {
	store *store.Store
}

// NewService creates a queue service backed by the given store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Add queues a drafted reply for review. Items always enter as pending.
func (s *Service) Add(candidate core.ReplyCandidate, user, platform, sourceURL string) (core.QueueItem, error) {
	now := time.Now().UTC()
	item := core.QueueItem{
		ID:        candidate.ID,
		User:      user,
		Platform:  platform,
		SourceURL: sourceURL,
		Text:      candidate.Text,
		Strategy:  candidate.Strategy,
		Score:     candidate.CombinedScore,
		Status:    core.QueuePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if err := s.store.EnqueueReply(item); err != nil {
		return core.QueueItem{}, err
	}
	return item, nil
}

// List returns queue items, optionally filtered by status.
func (s *Service) List(status core.QueueStatus) ([]core.QueueItem, error) {
	return s.store.ListQueue(status)
}

// Pending returns items awaiting review.
func (s *Service) Pending() ([]core.QueueItem, error) {
	return s.store.ListQueue(core.QueuePending)
}

// Approve marks a pending item approved.
func (s *Service) Approve(id string) error {
	return s.transition(id, core.QueueApproved)
}

// Reject marks a pending item rejected.
func (s *Service) Reject(id string) error {
	return s.transition(id, core.QueueRejected)
}

// MarkPosted records that an approved item went out.
func (s *Service) MarkPosted(id string) error {
	return s.transition(id, core.QueuePosted)
}

func (s *Service) transition(id string, to core.QueueStatus) error {
	if err := s.store.UpdateQueueStatus(id, to); err != nil {
		return fmt.Errorf("failed to move item to %s: %w", to, err)
	}
	return nil
}
