package repository

import (
	"context"
	"sync"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
)

// seenImagesRepository keeps the per-user set of delivered images in
// memory. The set grows for the lifetime of the process and resets on
// restart; durable state lives in pgSeenImagesRepository.
type seenImagesRepository struct {
	mu   sync.RWMutex
	seen map[int64]map[string]struct{}
}

func NewSeenImagesRepository() *seenImagesRepository {
	return &seenImagesRepository{
		seen: make(map[int64]map[string]struct{}),
	}
}

func (r *seenImagesRepository) IsNew(_ context.Context, userID int64, ref domain.ImageRef) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, seen := r.seen[userID][ref.Key()]
	return !seen, nil
}

// Record is idempotent: recording the same ref twice is a no-op.
func (r *seenImagesRepository) Record(_ context.Context, userID int64, ref domain.ImageRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.record(userID, ref)
	return nil
}

// RecordIfNew checks and records under one lock, so two concurrent
// requests from the same user cannot both observe the image as new.
func (r *seenImagesRepository) RecordIfNew(_ context.Context, userID int64, ref domain.ImageRef) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.seen[userID][ref.Key()]; seen {
		return false, nil
	}
	r.record(userID, ref)
	return true, nil
}

func (r *seenImagesRepository) record(userID int64, ref domain.ImageRef) {
	images, ok := r.seen[userID]
	if !ok {
		images = make(map[string]struct{})
		r.seen[userID] = images
	}
	images[ref.Key()] = struct{}{}
}

// Stats returns the seen-set size per user.
func (r *seenImagesRepository) Stats(_ context.Context) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[int64]int, len(r.seen))
	for userID, images := range r.seen {
		stats[userID] = len(images)
	}
	return stats, nil
}
