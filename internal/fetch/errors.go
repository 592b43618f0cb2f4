package fetch

import (
	"fmt"

	"vouch/pkg/platform/sentinel"
)

// UpstreamError reports a non-rate-limit upstream failure. These are never
// retried; the caller sees them on the first failing attempt.
type UpstreamError struct {
	Key    string
	Status int   // HTTP status, zero for transport-level failures
	Err    error // underlying cause, nil for plain bad-status responses
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream call %s failed: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("upstream call %s failed with status %d", e.Key, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinel.ErrUnavailable
}

// RetriesExhaustedError reports persistent rate limiting beyond the configured
// attempt budget. It names the request key so operators can tell which
// upstream call kept throttling.
type RetriesExhaustedError struct {
	Key      string
	Attempts int
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("upstream kept rate limiting %s after %d attempts", e.Key, e.Attempts)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return sentinel.ErrRateLimited
}
