// Package profile holds the wire contract shared by the vouch service and the
// mock profile service. Both sides decode and encode exactly these shapes so
// drift between them shows up as a compile error rather than a runtime one.
package profile

// UserDetails is the response body for GET /v1/users/{id}.
type UserDetails struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"` // RFC 3339
}

// Count is the response body for the friend and group count endpoints.
type Count struct {
	Count int `json:"count"`
}

// LookupRequest is the request body for POST /v1/usernames/lookup. The
// endpoint is batch-capable; the service always sends a single-element batch.
type LookupRequest struct {
	Usernames []string `json:"usernames"`
}

// LookupUser is one entry in a lookup response. Name is the canonical account
// name, DisplayName the user-facing one.
type LookupUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// LookupResponse is the response body for POST /v1/usernames/lookup. Names
// that do not resolve are simply absent from Data.
type LookupResponse struct {
	Data []LookupUser `json:"data"`
}
