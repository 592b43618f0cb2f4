package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicyFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.Backoff)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, DefaultPolicy(), cfg.Policy)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("VOUCH_ADDR", ":9999")
	t.Setenv("VOUCH_UPSTREAM_URL", "http://profiles.internal")
	t.Setenv("VOUCH_BACKOFF", "250ms")
	t.Setenv("VOUCH_MAX_ATTEMPTS", "5")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "http://profiles.internal", cfg.UpstreamURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Backoff)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("malformed backoff", func(t *testing.T) {
		t.Setenv("VOUCH_BACKOFF", "three seconds")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "VOUCH_BACKOFF")
	})

	t.Run("zero attempts", func(t *testing.T) {
		t.Setenv("VOUCH_MAX_ATTEMPTS", "0")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "VOUCH_MAX_ATTEMPTS")
	})
}

func TestLoadPolicy(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writePolicyFile(t, "min_account_age_days: 180\nmin_friends: 50\nmin_groups: 10\n")

		policy, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, Policy{MinAccountAgeDays: 180, MinFriends: 50, MinGroups: 10}, policy)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writePolicyFile(t, "min_friends: 5\n")

		policy, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, 5, policy.MinFriends)
		assert.Equal(t, DefaultPolicy().MinAccountAgeDays, policy.MinAccountAgeDays)
		assert.Equal(t, DefaultPolicy().MinGroups, policy.MinGroups)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := writePolicyFile(t, "min_freinds: 5\n")

		_, err := LoadPolicy(path)
		assert.Error(t, err)
	})

	t.Run("negative threshold rejected", func(t *testing.T) {
		path := writePolicyFile(t, "min_groups: -1\n")

		_, err := LoadPolicy(path)
		assert.ErrorContains(t, err, "must not be negative")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("wired through env", func(t *testing.T) {
		path := writePolicyFile(t, "min_account_age_days: 30\n")
		t.Setenv("VOUCH_POLICY_FILE", path)

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.Policy.MinAccountAgeDays)
	})
}
