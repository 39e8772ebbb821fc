package gcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stratus-cli/stratus/internal/retry"
	"github.com/stratus-cli/stratus/pkg/provider"
)

// listItemClose ends the sentence holding the full version inside an
// entry's HTML body.
const listItemClose = "</li>"

type versionKey struct {
	engine     string
	majorMinor string
}

// VersionResolver maps (engine, major.minor) pairs to the full version
// announced in the release notes. Results are memoized for the process
// lifetime; each distinct pair costs one linear scan of the cached feed.
type VersionResolver struct {
	notes *ReleaseNotes

	mu    sync.Mutex
	cache map[versionKey]string
}

// NewVersionResolver creates a resolver over the given release-notes cache.
func NewVersionResolver(notes *ReleaseNotes) *VersionResolver {
	return &VersionResolver{
		notes: notes,
		cache: make(map[versionKey]string),
	}
}

// NewVersionResolverForFeed is a convenience constructor building its own
// feed cache.
func NewVersionResolverForFeed(feedURL string, policy retry.Policy) *VersionResolver {
	return NewVersionResolver(NewReleaseNotes(feedURL, policy))
}

// Resolve returns the full version (e.g. "8.0.35") for an engine display
// name (e.g. "MySQL") and a major.minor string (e.g. "8.0"). The first
// release-note entry announcing an upgrade for that engine and version
// wins. Misses return provider.ErrVersionNotFound.
func (v *VersionResolver) Resolve(ctx context.Context, engine, majorMinor string) (string, error) {
	key := versionKey{engine: engine, majorMinor: majorMinor}

	v.mu.Lock()
	defer v.mu.Unlock()

	if full, ok := v.cache[key]; ok {
		return full, nil
	}

	entries, err := v.notes.Entries(ctx)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		full, ok := extractFullVersion(entry, engine, majorMinor)
		if !ok {
			continue
		}
		v.cache[key] = full
		return full, nil
	}

	return "", fmt.Errorf("%w: Cloud SQL for %s %s", provider.ErrVersionNotFound, engine, majorMinor)
}

// extractFullVersion scans one entry for an upgrade announcement matching
// the engine and major.minor, and pulls out the trailing full version.
func extractFullVersion(entry, engine, majorMinor string) (string, bool) {
	if !strings.Contains(entry, "Cloud SQL for "+engine) ||
		!strings.Contains(entry, "is upgraded to") ||
		!strings.Contains(entry, majorMinor) {
		return "", false
	}

	rest := entry[strings.Index(entry, majorMinor)+len(majorMinor):]
	if cut := strings.Index(rest, listItemClose); cut >= 0 {
		rest = rest[:cut]
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}

	return strings.TrimSuffix(fields[len(fields)-1], "."), true
}
