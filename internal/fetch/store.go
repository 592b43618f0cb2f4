package fetch

import "context"

// Store is the response cache behind the fetch client. Implementations hold
// raw response bodies keyed by canonical request URL for the life of the
// process; there is no expiry and no eviction. The fetch client treats a miss
// and the following save as two separate steps, so implementations must not
// assume the pair is atomic.
type Store interface {
	// Find returns the cached body for key, or sentinel.ErrNotFound.
	Find(ctx context.Context, key string) ([]byte, error)

	// Save stores the body under key, overwriting any previous value.
	Save(ctx context.Context, key string, body []byte) error
}
