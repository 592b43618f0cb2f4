// Package resolver turns a free-text account name into a subject identity.
// Lookups bypass the response cache on purpose: names can be reassigned or
// deleted over time, so a cached mapping would be unsafe.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vouch/contracts/profile"
	"vouch/internal/check/models"
	"vouch/pkg/platform/sentinel"
)

// attempts is the total lookup budget: the first call plus exactly one retry
// after a rate limit. Deliberately narrower than the fetch client's budget;
// keeping it a literal in a bounded loop makes the contract visible.
const attempts = 2

// Lookup is the slice of the upstream client the resolver needs.
type Lookup interface {
	Lookup(ctx context.Context, name string) (profile.LookupUser, error)
}

type Resolver struct {
	lookup  Lookup
	backoff time.Duration
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithBackoff overrides the wait before the single retry.
func WithBackoff(d time.Duration) Option {
	return func(r *Resolver) {
		r.backoff = d
	}
}

// WithSleep replaces the backoff sleep for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Resolver) {
		r.sleep = fn
	}
}

func New(lookup Lookup, opts ...Option) (*Resolver, error) {
	if lookup == nil {
		return nil, errors.New("lookup client is required")
	}

	r := &Resolver{
		lookup:  lookup,
		backoff: 3 * time.Second,
		sleep:   sleepContext,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Resolve maps name to a subject by exact match. An empty upstream result is
// *models.NotFoundError; a rate limit is retried once after the backoff; any
// other failure (or a second rate limit) comes back as *models.ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, name string) (models.Subject, error) {
	for attempt := 1; ; attempt++ {
		user, err := r.lookup.Lookup(ctx, name)
		if err == nil {
			return models.Subject{ID: user.ID, DisplayName: displayName(user)}, nil
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Subject{}, &models.NotFoundError{Name: name}
		}
		if errors.Is(err, sentinel.ErrRateLimited) && attempt < attempts {
			if r.logger != nil {
				r.logger.WarnContext(ctx, "lookup rate limited, retrying once",
					"name", name,
					"backoff", r.backoff,
				)
			}
			if sleepErr := r.sleep(ctx, r.backoff); sleepErr != nil {
				return models.Subject{}, &models.ResolutionError{Name: name, Err: sleepErr}
			}
			continue
		}
		return models.Subject{}, &models.ResolutionError{Name: name, Err: err}
	}
}

func displayName(user profile.LookupUser) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Name
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
