// Package upstream is the typed client for the remote profile service. The
// three per-subject read endpoints go through the cached fetch layer; the
// name lookup endpoint bypasses it, because names are mutable and caching
// them would serve stale or deleted accounts.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vouch/contracts/profile"
	"vouch/pkg/platform/sentinel"
)

// Getter serves cached idempotent GETs. Satisfied by *fetch.Client.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Doer issues raw HTTP requests for the uncached lookup endpoint.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserDetails is the decoded subject-details record.
type UserDetails struct {
	ID      int64
	Name    string
	Created time.Time
}

// Client talks to the profile service endpoints.
type Client struct {
	base   string
	cached Getter
	http   Doer
}

func New(baseURL string, cached Getter, httpClient Doer) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cached == nil {
		return nil, errors.New("cached getter is required")
	}
	if httpClient == nil {
		return nil, errors.New("http client is required")
	}

	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		cached: cached,
		http:   httpClient,
	}, nil
}

// Details fetches name and creation time for a subject. Cached.
func (c *Client) Details(ctx context.Context, id int64) (UserDetails, error) {
	body, err := c.cached.Get(ctx, fmt.Sprintf("%s/v1/users/%d", c.base, id))
	if err != nil {
		return UserDetails{}, err
	}

	var wire profile.UserDetails
	if err := json.Unmarshal(body, &wire); err != nil {
		return UserDetails{}, fmt.Errorf("decode user details: %w", err)
	}
	created, err := time.Parse(time.RFC3339, wire.Created)
	if err != nil {
		return UserDetails{}, fmt.Errorf("decode user details created time: %w", err)
	}

	return UserDetails{ID: wire.ID, Name: wire.Name, Created: created}, nil
}

// FriendCount fetches the subject's friend-relationship count. Cached.
func (c *Client) FriendCount(ctx context.Context, id int64) (int, error) {
	return c.count(ctx, fmt.Sprintf("%s/v1/users/%d/friends/count", c.base, id))
}

// GroupCount fetches the subject's group-membership count. Cached.
func (c *Client) GroupCount(ctx context.Context, id int64) (int, error) {
	return c.count(ctx, fmt.Sprintf("%s/v1/users/%d/groups/count", c.base, id))
}

func (c *Client) count(ctx context.Context, url string) (int, error) {
	body, err := c.cached.Get(ctx, url)
	if err != nil {
		return 0, err
	}

	var wire profile.Count
	if err := json.Unmarshal(body, &wire); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return wire.Count, nil
}

// Lookup resolves an exact account name to a subject via the batch lookup
// endpoint, always sending a single-element batch. A 429 surfaces as
// sentinel.ErrRateLimited so the resolver can apply its own retry rule; a
// name with no match surfaces as sentinel.ErrNotFound.
func (c *Client) Lookup(ctx context.Context, name string) (profile.LookupUser, error) {
	payload, err := json.Marshal(profile.LookupRequest{Usernames: []string{name}})
	if err != nil {
		return profile.LookupUser{}, fmt.Errorf("encode lookup request: %w", err)
	}

	url := c.base + "/v1/usernames/lookup"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return profile.LookupUser{}, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return profile.LookupUser{}, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return profile.LookupUser{}, fmt.Errorf("lookup %q: %w", name, sentinel.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return profile.LookupUser{}, fmt.Errorf("lookup %q: upstream status %d: %w", name, resp.StatusCode, sentinel.ErrUnavailable)
	}

	var wire profile.LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return profile.LookupUser{}, fmt.Errorf("decode lookup response: %w", err)
	}
	if len(wire.Data) == 0 {
		return profile.LookupUser{}, sentinel.ErrNotFound
	}
	return wire.Data[0], nil
}
