// Command profile-service is a standalone fake of the upstream profile API for
// local development and e2e runs. It serves a small fixed user set and can
// simulate rate limiting via RATE_LIMIT_EVERY (every Nth read answers 429).
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

type userDetails struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
}

type count struct {
	Count int `json:"count"`
}

type lookupRequest struct {
	Usernames []string `json:"usernames"`
}

type lookupUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type lookupResponse struct {
	Data []lookupUser `json:"data"`
}

type fixture struct {
	details userDetails
	display string
	friends int
	groups  int
}

var fixtures = map[string]fixture{
	"builderman": {
		details: userDetails{ID: 156, Name: "builderman", Created: time.Now().AddDate(0, 0, -400).UTC().Format(time.RFC3339)},
		display: "Builderman",
		friends: 120,
		groups:  45,
	},
	"newbie": {
		details: userDetails{ID: 9001, Name: "newbie", Created: time.Now().AddDate(0, 0, -3).UTC().Format(time.RFC3339)},
		display: "Newbie",
		friends: 2,
		groups:  0,
	},
}

type server struct {
	rateLimitEvery int64
	reads          atomic.Int64
}

// throttled returns true when this read should answer 429.
func (s *server) throttled() bool {
	if s.rateLimitEvery <= 0 {
		return false
	}
	return s.reads.Add(1)%s.rateLimitEvery == 0
}

func (s *server) byID(id string) (fixture, bool) {
	for _, f := range fixtures {
		if strconv.FormatInt(f.details.ID, 10) == id {
			return f, true
		}
	}
	return fixture{}, false
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := lookupResponse{}
	for _, name := range req.Usernames {
		if f, ok := fixtures[name]; ok {
			resp.Data = append(resp.Data, lookupUser{ID: f.details.ID, Name: f.details.Name, DisplayName: f.display})
		}
	}
	writeJSON(w, resp)
}

func (s *server) handleDetails(w http.ResponseWriter, r *http.Request) {
	if s.throttled() {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	f, ok := s.byID(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, f.details)
}

func (s *server) handleFriends(w http.ResponseWriter, r *http.Request) {
	s.handleCount(w, r, func(f fixture) int { return f.friends })
}

func (s *server) handleGroups(w http.ResponseWriter, r *http.Request) {
	s.handleCount(w, r, func(f fixture) int { return f.groups })
}

func (s *server) handleCount(w http.ResponseWriter, r *http.Request, pick func(fixture) int) {
	if s.throttled() {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	f, ok := s.byID(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, count{Count: pick(f)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":9090"
	}

	var every int64
	if raw := os.Getenv("RATE_LIMIT_EVERY"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("RATE_LIMIT_EVERY must be an integer, got %q", raw)
		}
		every = parsed
	}

	s := &server{rateLimitEvery: every}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/usernames/lookup", s.handleLookup)
	mux.HandleFunc("GET /v1/users/{id}", s.handleDetails)
	mux.HandleFunc("GET /v1/users/{id}/friends/count", s.handleFriends)
	mux.HandleFunc("GET /v1/users/{id}/groups/count", s.handleGroups)

	log.Printf("profile-service listening on %s (rate limit every %d reads)", addr, every)
	log.Fatal(http.ListenAndServe(addr, mux))
}
