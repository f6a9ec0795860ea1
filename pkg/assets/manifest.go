// Package assets fingerprints static files so pages can reference them by a
// content-addressed name and browsers can cache them forever.
//
// A Manifest maps source names to fingerprinted names:
//
//	{
//	  "live.js": "live.a1b2c3d4.js",
//	  "devflow.css": "devflow.e5f6a7b8.css"
//	}
//
// It is built once from an fs.FS at startup:
//
//	m, _ := assets.Fingerprint(staticFS)
//	resolver := assets.NewResolver(m, "/static/")
//
//	// In a page:
//	vdom.Script(vdom.Src(resolver.Asset("live.js")))
//	// Outputs: <script src="/static/live.a1b2c3d4.js">
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// hashLen is the number of hex digits of the content hash kept in a name.
const hashLen = 8

// Manifest holds the mapping from source asset paths to fingerprinted paths.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	sources map[string]string
}

// NewManifest creates an empty manifest.
// Use Fingerprint() to build one from files.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		sources: make(map[string]string),
	}
}

// Fingerprint walks fsys and records every regular file under a name that
// embeds the first bytes of its SHA-256.
func Fingerprint(fsys fs.FS) (*Manifest, error) {
	m := NewManifest()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		m.Set(p, fingerprintName(p, hex.EncodeToString(sum[:])[:hashLen]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("assets: fingerprint: %w", err)
	}
	return m, nil
}

// fingerprintName inserts hash before the extension of p.
func fingerprintName(p, hash string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + "." + hash + ext
}

// Resolve returns the fingerprinted path for the given source path.
// If not found, returns the original path unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source returns the source path a fingerprinted path was built from.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, ok := m.sources[resolved]
	return source, ok
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry in the manifest.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[source]; ok {
		delete(m.sources, old)
	}
	m.entries[source] = resolved
	m.sources[resolved] = source
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of all manifest entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}
