package provider

import (
	"context"
	"errors"

	"github.com/stratus-cli/stratus/pkg/types"
)

// Common errors
var (
	// ErrCredentialParse means the stored secret payload could not be
	// decoded into a service-account credential.
	ErrCredentialParse = errors.New("malformed credential payload")

	// ErrCredentialWrite means the materialized credential could not be
	// persisted to disk.
	ErrCredentialWrite = errors.New("credential file write failed")

	// ErrFeedParse means the release-notes feed was fetched but is not
	// valid Atom XML.
	ErrFeedParse = errors.New("malformed release-notes feed")

	// ErrVersionNotFound means no release-note entry announces an upgrade
	// for the requested engine and major.minor version.
	ErrVersionNotFound = errors.New("engine version not found in release notes")

	// ErrUnknownEngine means a databaseVersion code has a prefix outside
	// the engine-name table.
	ErrUnknownEngine = errors.New("unknown database engine code")

	ErrNotFound   = errors.New("resource not found")
	ErrAuthFailed = errors.New("authentication failed")
)

// SecretResolver resolves an opaque secret identifier to its raw payload.
type SecretResolver interface {
	// GetSecretValue returns the payload for the secret. The label selects
	// a version stage; an empty label means the current version.
	GetSecretValue(ctx context.Context, secretID, label string) (string, error)
}

// SQLLister lists managed SQL instances for a project, decorated with
// engine name and resolved engine version.
type SQLLister interface {
	List(ctx context.Context, projectID string) ([]types.SQLInstance, error)
}

// VMLister lists compute instances for a project and zone.
type VMLister interface {
	List(ctx context.Context, projectID, zone string) ([]types.VM, error)
}
