package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Clients and stores return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about remote resources, not validation
// failures:
// - ErrNotFound: entity does not exist upstream or in a store
// - ErrRateLimited: upstream signalled a rate limit (HTTP 429)
// - ErrUnavailable: upstream or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use typed domain errors
// directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
	ErrUnavailable = errors.New("unavailable")
)
