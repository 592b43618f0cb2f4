package audit

import "context"

// Store is append-only so the trail stays trustworthy; there is no update or
// delete surface.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}
