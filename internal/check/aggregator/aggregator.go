// Package aggregator assembles a subject profile from three independent
// upstream reads issued concurrently through the cached fetch layer.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"vouch/internal/check/metrics"
	"vouch/internal/check/models"
	"vouch/internal/upstream"
)

// ProfileReader is the slice of the upstream client the aggregator needs.
type ProfileReader interface {
	Details(ctx context.Context, id int64) (upstream.UserDetails, error)
	FriendCount(ctx context.Context, id int64) (int, error)
	GroupCount(ctx context.Context, id int64) (int, error)
}

type Aggregator struct {
	client  ProfileReader
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// WithClock replaces the time source used for account age.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

func New(client ProfileReader, opts ...Option) (*Aggregator, error) {
	if client == nil {
		return nil, errors.New("profile reader is required")
	}

	a := &Aggregator{
		client: client,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// outcome is one completed fan-out read. apply folds it into the profile on
// the joining side so the Profile itself is never touched concurrently.
type outcome struct {
	source string
	err    error
	apply  func(p *models.Profile)
}

// Aggregate fans out the three reads (started in a fixed order: details,
// friends, groups), joins them in completion order, and assembles the profile
// all-or-nothing. The first failure is surfaced immediately without waiting
// for the other reads; the fetch layer has no cancellation primitive, so
// in-flight siblings run to completion and drain into the buffered channel
// instead of being aborted.
func (a *Aggregator) Aggregate(ctx context.Context, subjectID int64) (*models.Profile, error) {
	results := make(chan outcome, 3)

	go func() {
		details, err := timed(a.metrics, "details", func() (upstream.UserDetails, error) {
			return a.client.Details(ctx, subjectID)
		})
		results <- outcome{source: "details", err: err, apply: func(p *models.Profile) {
			p.Subject = models.Subject{ID: details.ID, DisplayName: details.Name}
			p.CreatedAt = details.Created
		}}
	}()
	go func() {
		count, err := timed(a.metrics, "friends", func() (int, error) {
			return a.client.FriendCount(ctx, subjectID)
		})
		results <- outcome{source: "friends", err: err, apply: func(p *models.Profile) {
			p.FriendCount = count
		}}
	}()
	go func() {
		count, err := timed(a.metrics, "groups", func() (int, error) {
			return a.client.GroupCount(ctx, subjectID)
		})
		results <- outcome{source: "groups", err: err, apply: func(p *models.Profile) {
			p.GroupCount = count
		}}
	}()

	profile := &models.Profile{}
	for range 3 {
		out := <-results
		if out.err != nil {
			if a.logger != nil {
				a.logger.WarnContext(ctx, "profile read failed",
					"subject_id", subjectID,
					"source", out.source,
					"error", out.err,
				)
			}
			return nil, out.err
		}
		out.apply(profile)
	}

	profile.AccountAgeDays = AccountAgeDays(a.now(), profile.CreatedAt)
	return profile, nil
}

func timed[T any](m *metrics.Metrics, source string, fn func() (T, error)) (T, error) {
	start := time.Now()
	value, err := fn()
	m.ObserveSourceLatency(source, time.Since(start))
	return value, err
}

// AccountAgeDays is the ceiling of the absolute difference between now and
// created in whole days. Truncation would report a brand-new account as zero
// days old, which the thresholds must not see.
func AccountAgeDays(now, created time.Time) int {
	age := now.Sub(created)
	if age < 0 {
		age = -age
	}
	return int(math.Ceil(age.Hours() / 24))
}
