package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stratus-cli/stratus/internal/retry"
	"github.com/stratus-cli/stratus/pkg/types"
)

// Defaults applied when the config file is missing or partial.
const (
	DefaultFeedURL     = "https://cloud.google.com/feeds/cloud-sql-release-notes.xml"
	DefaultSecretLabel = "AWSCURRENT"

	defaultMaxAttempts    = 4
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
)

// SecretConfig identifies the stored service-account secret.
type SecretConfig struct {
	ID    string `yaml:"id"`              // Secrets Manager name or SSM path ("/"-prefixed)
	Label string `yaml:"label,omitempty"` // Version stage, defaults to AWSCURRENT
}

// RetryConfig holds the retry policy for remote calls. Backoff values are
// duration strings ("500ms", "8s").
type RetryConfig struct {
	MaxAttempts    int    `yaml:"max_attempts,omitempty"`
	InitialBackoff string `yaml:"initial_backoff,omitempty"`
	MaxBackoff     string `yaml:"max_backoff,omitempty"`
}

// Config represents the application configuration
type Config struct {
	AWSProfile      string            `yaml:"aws_profile,omitempty"`
	AWSRegion       string            `yaml:"aws_region,omitempty"`
	Projects        map[string]string `yaml:"projects,omitempty"` // name → project ID
	Zones           []string          `yaml:"zones,omitempty"`
	Secret          SecretConfig      `yaml:"secret,omitempty"`
	FeedURL         string            `yaml:"feed_url,omitempty"`
	CredentialsFile string            `yaml:"credentials_file,omitempty"`
	Retry           RetryConfig       `yaml:"retry,omitempty"`
}

// GetConfigDir returns the config directory path (~/.stratus)
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stratus"
	}
	return filepath.Join(home, ".stratus")
}

// GetConfigPath returns the config file path (~/.stratus/config.yaml)
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load loads the configuration from ~/.stratus/config.yaml
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads the configuration from the given path. A missing file
// yields a config with defaults only.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Secret.Label == "" {
		c.Secret.Label = DefaultSecretLabel
	}
	if c.FeedURL == "" {
		c.FeedURL = DefaultFeedURL
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = filepath.Join(GetConfigDir(), "service-account.json")
	}
}

// ProjectList returns the projects table as a name-sorted slice.
func (c *Config) ProjectList() []types.Project {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	projects := make([]types.Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, types.Project{Name: name, ID: c.Projects[name]})
	}
	return projects
}

// ResolveProject maps a project name through the projects table. Values not
// in the table pass through unchanged so raw project IDs keep working.
func (c *Config) ResolveProject(nameOrID string) string {
	if id, ok := c.Projects[nameOrID]; ok {
		return id
	}
	return nameOrID
}

// RetryPolicy converts the retry section into a retry.Policy, falling back
// to defaults for missing or unparsable values.
func (c *Config) RetryPolicy() retry.Policy {
	p := retry.Policy{
		MaxAttempts:    defaultMaxAttempts,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
	}

	if c.Retry.MaxAttempts > 0 {
		p.MaxAttempts = c.Retry.MaxAttempts
	}
	if d, err := time.ParseDuration(c.Retry.InitialBackoff); err == nil && d > 0 {
		p.InitialBackoff = d
	}
	if d, err := time.ParseDuration(c.Retry.MaxBackoff); err == nil && d > 0 {
		p.MaxBackoff = d
	}

	return p
}
