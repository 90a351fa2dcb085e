package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
	"github.com/dskvich/catpic-telegram-bot/pkg/logger"
)

type ImageSource interface {
	ID() string
	FetchRandom(ctx context.Context) (domain.ImageRef, error)
}

type sourceHealth struct {
	cooling       bool
	cooldownUntil time.Time
}

// sourceRouter tries sources in priority order (configuration order,
// primary first). A source that failed with an availability error is
// put on cooldown so a known-down primary is not hammered on every
// request; a single malformed response does not trip the breaker.
type sourceRouter struct {
	sources  []ImageSource
	cooldown time.Duration
	now      func() time.Time

	mu     sync.Mutex
	health map[string]sourceHealth
}

func NewSourceRouter(sources []ImageSource, cooldown time.Duration) *sourceRouter {
	health := make(map[string]sourceHealth, len(sources))
	for _, s := range sources {
		health[s.ID()] = sourceHealth{}
	}

	return &sourceRouter{
		sources:  sources,
		cooldown: cooldown,
		now:      time.Now,
		health:   health,
	}
}

func (r *sourceRouter) Fetch(ctx context.Context) (domain.ImageRef, error) {
	var errs error

	for _, s := range r.sources {
		if r.isCooling(s.ID()) {
			errs = multierror.Append(errs, fmt.Errorf("%s: cooling down", s.ID()))
			continue
		}

		ref, err := s.FetchRandom(ctx)
		if err == nil {
			r.markHealthy(s.ID())
			slog.DebugContext(ctx, "Fetched image", "source", s.ID(), "imageID", ref.ImageID)
			return ref, nil
		}

		if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, domain.ErrRateLimited) {
			until := r.markCooling(s.ID())
			slog.WarnContext(ctx, "Source put on cooldown", "source", s.ID(), "until", until, logger.Err(err))
		} else {
			slog.WarnContext(ctx, "Source returned a bad response", "source", s.ID(), logger.Err(err))
		}
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", s.ID(), err))
	}

	return domain.ImageRef{}, fmt.Errorf("%w: %v", domain.ErrAllSourcesExhausted, errs)
}

func (r *sourceRouter) isCooling(sourceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.health[sourceID]
	return h.cooling && r.now().Before(h.cooldownUntil)
}

func (r *sourceRouter) markHealthy(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.health[sourceID] = sourceHealth{}
}

func (r *sourceRouter) markCooling(sourceID string) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	until := r.now().Add(r.cooldown)
	r.health[sourceID] = sourceHealth{cooling: true, cooldownUntil: until}
	return until
}

// HealthSnapshot reports per-source breaker state for the stats reporter.
func (r *sourceRouter) HealthSnapshot() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]string, len(r.health))
	for id, h := range r.health {
		if h.cooling && r.now().Before(h.cooldownUntil) {
			snapshot[id] = "cooling until " + h.cooldownUntil.Format(time.RFC3339)
		} else {
			snapshot[id] = "healthy"
		}
	}
	return snapshot
}
