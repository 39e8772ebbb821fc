package gcp

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const scopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"

// Client holds GCP configuration and the credential materializer. It is
// the entry point for all GCP operations; each provider builds its service
// client from the options this Client produces.
type Client struct {
	project      string
	materializer *Materializer
	extraOpts    []option.ClientOption
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithProject sets the default GCP project ID.
func WithProject(project string) Option {
	return func(c *Client) {
		c.project = project
	}
}

// WithMaterializer sets the credential materializer. Without one, clients
// fall back to Application Default Credentials.
func WithMaterializer(m *Materializer) Option {
	return func(c *Client) {
		c.materializer = m
	}
}

// WithAPIOptions appends extra client options to every service client.
// Used by tests to point clients at local endpoints.
func WithAPIOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewClient creates a new GCP client. Credential resolution is deferred to
// the first API call.
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Project returns the configured GCP project ID.
func (c *Client) Project() string {
	return c.project
}

// Materializer returns the credential materializer, or nil when running on
// Application Default Credentials.
func (c *Client) Materializer() *Materializer {
	return c.materializer
}

// apiOptions materializes credentials if configured and returns the client
// options for a service client. The token source is passed explicitly; the
// environment variable set during materialization is only the SDK fallback.
func (c *Client) apiOptions(ctx context.Context) ([]option.ClientOption, error) {
	var opts []option.ClientOption

	if c.materializer != nil {
		if _, err := c.materializer.Ensure(ctx); err != nil {
			return nil, err
		}

		creds, err := google.CredentialsFromJSON(ctx, c.materializer.KeyJSON(), scopeCloudPlatform)
		if err != nil {
			return nil, fmt.Errorf("build credentials from materialized key: %w", err)
		}
		opts = append(opts, option.WithTokenSource(creds.TokenSource))
	}

	opts = append(opts, c.extraOpts...)
	return opts, nil
}
