package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/contracts/profile"
	"vouch/internal/fetch"
	"vouch/pkg/platform/sentinel"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/42", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, profile.UserDetails{ID: 42, Name: "builderman", Created: "2020-01-15T10:30:00Z"})
	})
	mux.HandleFunc("GET /v1/users/42/friends/count", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, profile.Count{Count: 25})
	})
	mux.HandleFunc("GET /v1/users/42/groups/count", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, profile.Count{Count: 35})
	})
	mux.HandleFunc("POST /v1/usernames/lookup", func(w http.ResponseWriter, r *http.Request) {
		var req profile.LookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Usernames, 1, "service sends single-element batches")

		resp := profile.LookupResponse{}
		if req.Usernames[0] == "builderman" {
			resp.Data = []profile.LookupUser{{ID: 42, Name: "builderman", DisplayName: "Builderman"}}
		}
		writeJSON(t, w, resp)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cached, err := fetch.New(srv.Client(), fetch.NewInMemoryStore())
	require.NoError(t, err)

	client, err := New(srv.URL, cached, srv.Client())
	require.NoError(t, err)
	return srv, client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		cached, err := fetch.New(http.DefaultClient, fetch.NewInMemoryStore())
		require.NoError(t, err)

		_, err = New("", cached, http.DefaultClient)
		assert.Error(t, err)
	})

	t.Run("missing cached getter", func(t *testing.T) {
		_, err := New("http://profiles.test", nil, http.DefaultClient)
		assert.Error(t, err)
	})
}

func TestDetails(t *testing.T) {
	_, client := newTestServer(t)

	details, err := client.Details(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), details.ID)
	assert.Equal(t, "builderman", details.Name)
	assert.Equal(t, time.Date(2020, 1, 15, 10, 30, 0, 0, time.UTC), details.Created)
}

func TestCounts(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	friends, err := client.FriendCount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 25, friends)

	groups, err := client.GroupCount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 35, groups)
}

func TestLookup(t *testing.T) {
	t.Run("resolves exact name", func(t *testing.T) {
		_, client := newTestServer(t)

		user, err := client.Lookup(context.Background(), "builderman")
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "Builderman", user.DisplayName)
	})

	t.Run("empty result set is not found", func(t *testing.T) {
		_, client := newTestServer(t)

		_, err := client.Lookup(context.Background(), "no-such-user")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("429 surfaces the rate limit sentinel", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)

		cached, err := fetch.New(srv.Client(), fetch.NewInMemoryStore())
		require.NoError(t, err)
		client, err := New(srv.URL, cached, srv.Client())
		require.NoError(t, err)

		_, err = client.Lookup(context.Background(), "builderman")
		assert.ErrorIs(t, err, sentinel.ErrRateLimited)
	})
}
