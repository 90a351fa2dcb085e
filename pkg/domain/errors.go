package domain

import "errors"

// Per-source fetch failures. The router recovers from these by failing
// over to the next source.
var (
	ErrUnavailable       = errors.New("source unavailable")
	ErrRateLimited       = errors.New("source rate limited")
	ErrMalformedResponse = errors.New("malformed source response")
)

// Terminal failures of a single request. None is fatal to the process.
var (
	ErrAllSourcesExhausted = errors.New("all sources exhausted")
	ErrNoImageAvailable    = errors.New("no image available")
	ErrExhaustedRetries    = errors.New("no new image within attempt budget")
)
