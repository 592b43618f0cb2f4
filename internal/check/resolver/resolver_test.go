package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vouch/contracts/profile"
	"vouch/internal/check/models"
	"vouch/pkg/platform/sentinel"
)

// =============================================================================
// Resolver Test Suite
// =============================================================================
// Justification for unit tests: the resolver's retry contract (exactly one
// retry, only on rate limiting) is narrower than the fetch client's and must
// be verifiable in isolation from it.

type ResolverSuite struct {
	suite.Suite
	ctx    context.Context
	lookup *fakeLookup
	sleeps []time.Duration
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.lookup = &fakeLookup{users: make(map[string]profile.LookupUser)}
	s.sleeps = nil
}

func (s *ResolverSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *ResolverSuite) newResolver() *Resolver {
	r, err := New(s.lookup,
		WithBackoff(25*time.Millisecond),
		WithSleep(func(_ context.Context, d time.Duration) error {
			s.sleeps = append(s.sleeps, d)
			return nil
		}),
	)
	s.Require().NoError(err)
	return r
}

func (s *ResolverSuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
	s.Contains(err.Error(), "lookup client is required")
}

func (s *ResolverSuite) TestResolve() {
	s.Run("known name resolves to subject", func() {
		s.lookup.users["builderman"] = profile.LookupUser{ID: 42, Name: "builderman", DisplayName: "Builderman"}
		r := s.newResolver()

		subject, err := r.Resolve(s.ctx, "builderman")
		s.Require().NoError(err)
		s.Equal(models.Subject{ID: 42, DisplayName: "Builderman"}, subject)
		s.Equal(1, s.lookup.calls)
	})

	s.Run("display name falls back to account name", func() {
		s.lookup.users["plainuser"] = profile.LookupUser{ID: 7, Name: "plainuser"}
		r := s.newResolver()

		subject, err := r.Resolve(s.ctx, "plainuser")
		s.Require().NoError(err)
		s.Equal("plainuser", subject.DisplayName)
	})

	s.Run("unknown name is not found", func() {
		r := s.newResolver()

		_, err := r.Resolve(s.ctx, "ghost")

		var notFound *models.NotFoundError
		s.Require().ErrorAs(err, &notFound)
		s.Equal("ghost", notFound.Name)
		s.Equal(1, s.lookup.calls, "not found is never retried")
		s.Empty(s.sleeps)
	})
}

func (s *ResolverSuite) TestRetryContract() {
	s.Run("one rate limit then success succeeds", func() {
		s.lookup.users["builderman"] = profile.LookupUser{ID: 42, Name: "builderman"}
		s.lookup.failures = []error{sentinel.ErrRateLimited}
		r := s.newResolver()

		subject, err := r.Resolve(s.ctx, "builderman")
		s.Require().NoError(err)
		s.Equal(int64(42), subject.ID)
		s.Equal(2, s.lookup.calls)
		s.Len(s.sleeps, 1)
	})

	s.Run("two rate limits in a row fail", func() {
		s.lookup.failures = []error{sentinel.ErrRateLimited, sentinel.ErrRateLimited}
		r := s.newResolver()

		_, err := r.Resolve(s.ctx, "builderman")

		var resolution *models.ResolutionError
		s.Require().ErrorAs(err, &resolution)
		s.ErrorIs(err, sentinel.ErrRateLimited)
		s.Equal(2, s.lookup.calls, "exactly one retry, no more")
		s.Len(s.sleeps, 1)
	})

	s.Run("non-rate-limit failure is not retried", func() {
		s.lookup.failures = []error{errors.New("upstream exploded")}
		r := s.newResolver()

		_, err := r.Resolve(s.ctx, "builderman")

		var resolution *models.ResolutionError
		s.Require().ErrorAs(err, &resolution)
		s.Equal("builderman", resolution.Name)
		s.Equal(1, s.lookup.calls)
		s.Empty(s.sleeps)
	})
}

type fakeLookup struct {
	users    map[string]profile.LookupUser
	failures []error // consumed in order before any successful lookup
	calls    int
}

func (f *fakeLookup) Lookup(_ context.Context, name string) (profile.LookupUser, error) {
	f.calls++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return profile.LookupUser{}, fmt.Errorf("lookup %q: %w", name, err)
	}
	user, ok := f.users[name]
	if !ok {
		return profile.LookupUser{}, sentinel.ErrNotFound
	}
	return user, nil
}
