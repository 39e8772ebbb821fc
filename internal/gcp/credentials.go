package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/stratus-cli/stratus/pkg/provider"
)

// privateKeyNewline is the token standing in for newlines inside the
// stored private key. The secret store flattens the PEM block to a single
// line, so a literal backslash-n sequence marks every line break.
const privateKeyNewline = `\n`

// ServiceAccountKey matches the fields of a service-account credentials
// file. Mirrors the JSON that GOOGLE_APPLICATION_CREDENTIALS points at.
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain,omitempty"`
}

// Materializer turns the stored secret payload into a usable credential
// file exactly once per process. The first caller fetches, decodes and
// persists the key; concurrent callers block until that attempt commits or
// fails. A failed attempt commits nothing, so the next caller starts over.
type Materializer struct {
	resolver    provider.SecretResolver
	secretID    string
	secretLabel string
	path        string

	mu  sync.Mutex
	key *ServiceAccountKey
	raw []byte // key as written to disk
}

// NewMaterializer creates a Materializer that resolves the named secret
// and persists the decoded key at path.
func NewMaterializer(resolver provider.SecretResolver, secretID, secretLabel, path string) *Materializer {
	return &Materializer{
		resolver:    resolver,
		secretID:    secretID,
		secretLabel: secretLabel,
		path:        path,
	}
}

// Path returns the credential file path.
func (m *Materializer) Path() string {
	return m.path
}

// Key returns the materialized key, or nil before the first successful
// Ensure.
func (m *Materializer) Key() *ServiceAccountKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key
}

// KeyJSON returns the persisted key bytes, or nil before the first
// successful Ensure.
func (m *Materializer) KeyJSON() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw
}

// Ensure materializes the credential if this process has not done so yet
// and returns the key. Safe for concurrent use.
func (m *Materializer) Ensure(ctx context.Context) (*ServiceAccountKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != nil {
		return m.key, nil
	}

	payload, err := m.resolver.GetSecretValue(ctx, m.secretID, m.secretLabel)
	if err != nil {
		return nil, fmt.Errorf("fetch credential secret: %w", err)
	}

	key, err := decodeServiceAccountKey(payload)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrCredentialWrite, err)
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%w: %v", provider.ErrCredentialWrite, err)
		}
	}
	// Key material: owner-only, unlike the world-readable upstream default
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrCredentialWrite, err)
	}

	// Fallback discovery path for SDK clients not handed the token source
	if err := os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", m.path); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrCredentialWrite, err)
	}

	log.Debug("materialized service account credentials",
		"email", key.ClientEmail,
		"cert_url", key.ClientX509CertURL,
		"path", m.path,
	)

	m.key = key
	m.raw = data
	return key, nil
}

// decodeServiceAccountKey parses the stored payload: a brace-less record
// with single-quoted fields, a single-line private key, and an unescaped
// "@" in the cert URL.
func decodeServiceAccountKey(payload string) (*ServiceAccountKey, error) {
	doc := "{" + strings.ReplaceAll(payload, "'", `"`) + "}"

	var key ServiceAccountKey
	if err := json.Unmarshal([]byte(doc), &key); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrCredentialParse, err)
	}

	// Rejoin the flattened PEM block on real newlines
	key.PrivateKey = strings.Join(strings.Split(key.PrivateKey, privateKeyNewline), "\n")

	// The consuming SDK rejects a literal "@" in the cert URL
	key.ClientX509CertURL = strings.ReplaceAll(key.ClientX509CertURL, "@", "%40")

	return &key, nil
}
