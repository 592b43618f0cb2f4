package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures process-level configuration for the vouch service.
type Server struct {
	Addr        string
	UpstreamURL string

	// Fetch layer retry behaviour.
	Backoff     time.Duration
	MaxAttempts int

	// Threshold policy applied to every check.
	Policy Policy
}

// Policy holds the verification thresholds. All bounds are inclusive.
type Policy struct {
	MinAccountAgeDays int `yaml:"min_account_age_days"`
	MinFriends        int `yaml:"min_friends"`
	MinGroups         int `yaml:"min_groups"`
}

// DefaultPolicy returns the thresholds used when no overrides are configured.
func DefaultPolicy() Policy {
	return Policy{
		MinAccountAgeDays: 90,
		MinFriends:        20,
		MinGroups:         30,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	addr := os.Getenv("VOUCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	upstream := os.Getenv("VOUCH_UPSTREAM_URL")
	if upstream == "" {
		upstream = "http://localhost:9090"
	}

	backoff := 3 * time.Second
	if raw := os.Getenv("VOUCH_BACKOFF"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("parse VOUCH_BACKOFF: %w", err)
		}
		backoff = parsed
	}

	attempts := 3
	if raw := os.Getenv("VOUCH_MAX_ATTEMPTS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Server{}, fmt.Errorf("VOUCH_MAX_ATTEMPTS must be a positive integer, got %q", raw)
		}
		attempts = parsed
	}

	policy := DefaultPolicy()
	if path := os.Getenv("VOUCH_POLICY_FILE"); path != "" {
		loaded, err := LoadPolicy(path)
		if err != nil {
			return Server{}, err
		}
		policy = loaded
	}

	return Server{
		Addr:        addr,
		UpstreamURL: upstream,
		Backoff:     backoff,
		MaxAttempts: attempts,
		Policy:      policy,
	}, nil
}

// LoadPolicy reads a threshold policy from a YAML file. Unknown keys are
// rejected so typos fail at startup instead of silently using defaults.
func LoadPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	policy := DefaultPolicy()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	if policy.MinAccountAgeDays < 0 || policy.MinFriends < 0 || policy.MinGroups < 0 {
		return Policy{}, fmt.Errorf("policy file %s: thresholds must not be negative", path)
	}
	return policy, nil
}
