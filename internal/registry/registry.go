// Package registry persists confirmed search-name to DUPR-player mappings
// between runs, so previously matched players skip the search pipeline.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Entry is one durable row of the player registry. The JSON field names
// are a cross-run contract shared with earlier versions of the tool.
type Entry struct {
	SourceID     string   `json:"dupr_id"`
	ResolvedName string   `json:"dupr_name"`
	Rating       *float64 `json:"rating"`
	Location     string   `json:"location,omitempty"`
	LastUpdated  string   `json:"last_updated"`
}

// Registry is a flat-file cache keyed by normalized search name.
// At most one entry exists per normalized key. Writes are buffered in
// memory and flushed by Save only when something changed.
type Registry struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
	dirty   bool
}

// Load opens the registry backing file. A missing or malformed file is not
// an error; the registry simply starts empty.
func Load(path string) *Registry {
	r := &Registry{
		path:    path,
		entries: map[string]Entry{},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Debug("No player registry loaded", "path", path, "error", err)
		return r
	}

	var stored map[string]Entry
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn("Malformed player registry, starting empty", "path", path, "error", err)
		return r
	}

	for name, entry := range stored {
		r.entries[normalizeKey(name)] = entry
	}
	log.Debug("Loaded player registry", "players", len(r.entries))
	return r
}

// Get looks up an entry by search name.
func (r *Registry) Get(searchName string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[normalizeKey(searchName)]
	return entry, ok
}

// Register stores a search-name to player mapping, overwriting any
// existing entry for that key, and marks the registry dirty.
func (r *Registry) Register(searchName, sourceID, resolvedName string, rating *float64, location string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[normalizeKey(searchName)] = Entry{
		SourceID:     sourceID,
		ResolvedName: resolvedName,
		Rating:       rating,
		Location:     location,
		LastUpdated:  time.Now().Format(time.RFC3339),
	}
	r.dirty = true
	log.Debug("Registered player", "search", searchName, "resolved", resolvedName, "sourceID", sourceID)
}

// Remove deletes an entry, reporting whether it existed.
func (r *Registry) Remove(searchName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeKey(searchName)
	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)
	r.dirty = true
	return true
}

// Contains reports whether a search name is registered.
func (r *Registry) Contains(searchName string) bool {
	_, ok := r.Get(searchName)
	return ok
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// All returns a copy of the registry contents keyed by normalized name.
func (r *Registry) All() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Entry, len(r.entries))
	for key, entry := range r.entries {
		out[key] = entry
	}
	return out
}

// Save flushes the registry to disk. It is a no-op unless dirty. A write
// failure is logged and leaves the dirty flag set so a later Save can
// retry; it never propagates to the caller.
func (r *Registry) Save() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return
	}

	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		log.Error("Failed to marshal player registry", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		log.Error("Failed to create registry directory", "path", r.path, "error", err)
		return
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		log.Error("Failed to save player registry", "path", r.path, "error", err)
		return
	}

	r.dirty = false
	log.Debug("Saved player registry", "players", len(r.entries), "path", r.path)
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
