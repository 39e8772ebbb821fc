package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-cli/stratus/pkg/types"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, DefaultSecretLabel, cfg.Secret.Label)
	assert.NotEmpty(t, cfg.CredentialsFile)
	assert.Empty(t, cfg.Projects)

	p := cfg.RetryPolicy()
	assert.Equal(t, 4, p.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, p.InitialBackoff)
	assert.Equal(t, 8*time.Second, p.MaxBackoff)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aws_profile: ops
aws_region: ap-southeast-1
projects:
  prod: acme-prod-187
  staging: acme-staging-201
zones:
  - asia-southeast1-a
  - asia-southeast1-b
secret:
  id: stratus/gcp-service-account
feed_url: https://example.com/feed.xml
retry:
  max_attempts: 6
  initial_backoff: 250ms
  max_backoff: 2s
`), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "ops", cfg.AWSProfile)
	assert.Equal(t, "stratus/gcp-service-account", cfg.Secret.ID)
	assert.Equal(t, DefaultSecretLabel, cfg.Secret.Label, "label defaults when omitted")
	assert.Equal(t, "https://example.com/feed.xml", cfg.FeedURL)
	assert.Equal(t, []string{"asia-southeast1-a", "asia-southeast1-b"}, cfg.Zones)

	p := cfg.RetryPolicy()
	assert.Equal(t, 6, p.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, p.InitialBackoff)
	assert.Equal(t, 2*time.Second, p.MaxBackoff)
}

func TestLoadFromRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects:\n\t- tabs are not yaml\n"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestProjectList(t *testing.T) {
	cfg := &Config{Projects: map[string]string{
		"staging": "acme-staging-201",
		"prod":    "acme-prod-187",
	}}

	assert.Equal(t, []types.Project{
		{Name: "prod", ID: "acme-prod-187"},
		{Name: "staging", ID: "acme-staging-201"},
	}, cfg.ProjectList())
}

func TestResolveProject(t *testing.T) {
	cfg := &Config{Projects: map[string]string{"prod": "acme-prod-187"}}

	assert.Equal(t, "acme-prod-187", cfg.ResolveProject("prod"))
	assert.Equal(t, "some-raw-id", cfg.ResolveProject("some-raw-id"))
}
