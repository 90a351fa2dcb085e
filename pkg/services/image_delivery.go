package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
)

type SourceRouter interface {
	Fetch(ctx context.Context) (domain.ImageRef, error)
}

type SeenImageTracker interface {
	RecordIfNew(ctx context.Context, userID int64, ref domain.ImageRef) (bool, error)
}

// imageDeliveryService turns the unreliable upstream APIs into the
// user-facing guarantee: every delivered image is new for that user.
type imageDeliveryService struct {
	router      SourceRouter
	seenImages  SeenImageTracker
	maxAttempts int
}

func NewImageDeliveryService(
	router SourceRouter,
	seenImages SeenImageTracker,
	maxAttempts int,
) *imageDeliveryService {
	return &imageDeliveryService{
		router:      router,
		seenImages:  seenImages,
		maxAttempts: maxAttempts,
	}
}

// RequestImage fetches images until one the user has not seen yet turns
// up, within the attempt budget. A router failure means no source can
// produce anything right now and aborts immediately; a budget spent on
// duplicates means the catalogs ran dry for this user.
func (s *imageDeliveryService) RequestImage(ctx context.Context, userID int64) (domain.ImageRef, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.ImageRef{}, fmt.Errorf("request aborted: %w", err)
		}

		ref, err := s.router.Fetch(ctx)
		if err != nil {
			return domain.ImageRef{}, fmt.Errorf("%w: %v", domain.ErrNoImageAvailable, err)
		}

		isNew, err := s.seenImages.RecordIfNew(ctx, userID, ref)
		if err != nil {
			return domain.ImageRef{}, fmt.Errorf("recording delivery: %w", err)
		}

		if isNew {
			slog.InfoContext(ctx, "Delivering image",
				"userID", userID, "source", ref.SourceID, "imageID", ref.ImageID, "attempt", attempt)
			return ref, nil
		}

		slog.DebugContext(ctx, "Image already seen by user",
			"userID", userID, "source", ref.SourceID, "imageID", ref.ImageID, "attempt", attempt)
	}

	return domain.ImageRef{}, fmt.Errorf("%w (%d attempts)", domain.ErrExhaustedRetries, s.maxAttempts)
}
