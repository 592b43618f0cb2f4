// Package check composes the background-check pipeline: resolve the name,
// aggregate the profile, evaluate the policy. Each stage is independently
// testable; this service only sequences them and reports what happened.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vouch/internal/audit"
	"vouch/internal/check/metrics"
	"vouch/internal/check/models"
	"vouch/internal/check/policy"
)

// SubjectResolver maps a free-text name to a subject identity.
type SubjectResolver interface {
	Resolve(ctx context.Context, name string) (models.Subject, error)
}

// ProfileAggregator assembles the full profile for a resolved subject.
type ProfileAggregator interface {
	Aggregate(ctx context.Context, subjectID int64) (*models.Profile, error)
}

// AuditPublisher records completed checks. Optional; a nil publisher disables
// the trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	resolver   SubjectResolver
	aggregator ProfileAggregator
	thresholds models.ThresholdPolicy
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditor    AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func New(resolver SubjectResolver, aggregator ProfileAggregator, thresholds models.ThresholdPolicy, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if aggregator == nil {
		return nil, errors.New("aggregator is required")
	}

	svc := &Service{
		resolver:   resolver,
		aggregator: aggregator,
		thresholds: thresholds,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Check runs the full pipeline for one subject name. It returns either a
// complete result or a single error wrapped with the name for context; there
// is no partial-result reporting. Retries happen invisibly inside the fetch
// layer and the resolver per their own contracts.
func (s *Service) Check(ctx context.Context, name string) (*models.Result, error) {
	start := time.Now()

	subject, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, s.finishError(ctx, name, err)
	}

	profile, err := s.aggregator.Aggregate(ctx, subject.ID)
	if err != nil {
		return nil, s.finishError(ctx, name, err)
	}
	// The details endpoint only carries the account name; the resolved display
	// name is what callers should see.
	profile.Subject.DisplayName = subject.DisplayName

	result, err := policy.Evaluate(profile, s.thresholds)
	if err != nil {
		// Only malformed metrics land here; that is an aggregation bug,
		// not a user problem.
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "policy evaluation rejected aggregated profile",
				"name", name,
				"subject_id", subject.ID,
				"error", err,
			)
		}
		return nil, s.finishError(ctx, name, err)
	}

	outcome := audit.OutcomeFail
	if result.OverallPassed {
		outcome = audit.OutcomePass
	}
	s.metrics.IncrementOutcome(string(outcome))
	s.metrics.ObserveCheckLatency(time.Since(start))
	s.emitAudit(ctx, audit.Event{SubjectName: name, Outcome: outcome})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "background check completed",
			"name", name,
			"subject_id", subject.ID,
			"passed", result.OverallPassed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return result, nil
}

func (s *Service) finishError(ctx context.Context, name string, err error) error {
	s.metrics.IncrementOutcome("error")
	s.emitAudit(ctx, audit.Event{SubjectName: name, Outcome: audit.OutcomeError, Detail: err.Error()})
	return fmt.Errorf("check %q: %w", name, err)
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}
}
