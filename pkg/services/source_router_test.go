package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
)

type fakeSource struct {
	id      string
	results []fetchResult
	calls   int
}

type fetchResult struct {
	ref domain.ImageRef
	err error
}

func (s *fakeSource) ID() string { return s.id }

// FetchRandom replays the scripted results, repeating the last one once
// the script runs out.
func (s *fakeSource) FetchRandom(_ context.Context) (domain.ImageRef, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	res := s.results[i]
	return res.ref, res.err
}

func ok(id string, imageID string) fetchResult {
	return fetchResult{ref: domain.ImageRef{SourceID: id, ImageID: imageID, URL: "https://example.com/" + imageID}}
}

func TestFetchFallsBackWhenPrimaryUnavailable(t *testing.T) {
	primary := &fakeSource{id: "thecatapi", results: []fetchResult{{err: domain.ErrUnavailable}}}
	fallback := &fakeSource{id: "thedogapi", results: []fetchResult{ok("thedogapi", "dog-42")}}

	router := NewSourceRouter([]ImageSource{primary, fallback}, time.Minute)

	ref, err := router.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if ref.SourceID != "thedogapi" || ref.ImageID != "dog-42" {
		t.Fatalf("expected fallback image dog-42, got %+v", ref)
	}
	if status := router.HealthSnapshot()["thecatapi"]; status == "healthy" {
		t.Fatalf("expected primary to be cooling, got %q", status)
	}
}

func TestFetchSkipsCoolingPrimary(t *testing.T) {
	primary := &fakeSource{id: "thecatapi", results: []fetchResult{{err: domain.ErrUnavailable}}}
	fallback := &fakeSource{id: "thedogapi", results: []fetchResult{ok("thedogapi", "dog-1"), ok("thedogapi", "dog-2")}}

	router := NewSourceRouter([]ImageSource{primary, fallback}, time.Minute)

	// First pass trips the breaker on the primary.
	if _, err := router.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	// Second pass must not touch the primary at all.
	if _, err := router.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("expected 1 call to primary, got %d", primary.calls)
	}
}

func TestFetchRateLimitTripsBreaker(t *testing.T) {
	primary := &fakeSource{id: "thecatapi", results: []fetchResult{{err: domain.ErrRateLimited}}}
	fallback := &fakeSource{id: "thedogapi", results: []fetchResult{ok("thedogapi", "dog-7")}}

	router := NewSourceRouter([]ImageSource{primary, fallback}, time.Minute)

	if _, err := router.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if status := router.HealthSnapshot()["thecatapi"]; status == "healthy" {
		t.Fatalf("expected rate limited primary to be cooling, got %q", status)
	}
}

func TestFetchMalformedResponseDoesNotTripBreaker(t *testing.T) {
	primary := &fakeSource{id: "thecatapi", results: []fetchResult{{err: domain.ErrMalformedResponse}, ok("thecatapi", "cat-1")}}
	fallback := &fakeSource{id: "thedogapi", results: []fetchResult{ok("thedogapi", "dog-1")}}

	router := NewSourceRouter([]ImageSource{primary, fallback}, time.Minute)

	// Malformed response fails over for this call only.
	ref, err := router.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if ref.SourceID != "thedogapi" {
		t.Fatalf("expected fallback to serve the first call, got %+v", ref)
	}
	if status := router.HealthSnapshot()["thecatapi"]; status != "healthy" {
		t.Fatalf("expected primary to stay healthy, got %q", status)
	}

	// The primary stays first in line for the next call.
	ref, err = router.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if ref.SourceID != "thecatapi" {
		t.Fatalf("expected primary to serve the second call, got %+v", ref)
	}
}

func TestFetchAllSourcesExhausted(t *testing.T) {
	primary := &fakeSource{id: "thecatapi", results: []fetchResult{{err: domain.ErrUnavailable}}}
	fallback := &fakeSource{id: "thedogapi", results: []fetchResult{{err: domain.ErrUnavailable}}}

	router := NewSourceRouter([]ImageSource{primary, fallback}, time.Minute)

	_, err := router.Fetch(context.Background())
	if !errors.Is(err, domain.ErrAllSourcesExhausted) {
		t.Fatalf("expected ErrAllSourcesExhausted, got %v", err)
	}
}

func TestCoolingSourceBecomesEligibleAfterCooldown(t *testing.T) {
	primary := &fakeSource{id: "thecatapi", results: []fetchResult{{err: domain.ErrUnavailable}, ok("thecatapi", "cat-9")}}
	fallback := &fakeSource{id: "thedogapi", results: []fetchResult{ok("thedogapi", "dog-9")}}

	router := NewSourceRouter([]ImageSource{primary, fallback}, time.Minute)

	start := time.Now()
	now := start
	router.now = func() time.Time { return now }

	if _, err := router.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	// One nanosecond before expiry the primary is still skipped.
	now = start.Add(time.Minute - time.Nanosecond)
	ref, err := router.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if ref.SourceID == "thecatapi" {
		t.Fatalf("primary served a request before cooldown expired")
	}

	// Exactly at expiry it is eligible again.
	now = start.Add(time.Minute)
	ref, err = router.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if ref.SourceID != "thecatapi" || ref.ImageID != "cat-9" {
		t.Fatalf("expected primary to serve after cooldown, got %+v", ref)
	}
}
