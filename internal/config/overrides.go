package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type overridesFile struct {
	Overrides []Override `json:"overrides"`
}

// LoadOverrides reads the operator-curated override table, keyed by
// normalized (lower-cased, trimmed) player name. The table is read-only
// for the rest of the run. A missing or malformed file yields an empty
// table, never an error.
func LoadOverrides(path string) map[string]Override {
	table := map[string]Override{}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Debug("No override table loaded", "path", path, "error", err)
		return table
	}

	var parsed overridesFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Warn("Malformed override table, continuing without it", "path", path, "error", err)
		return table
	}

	for _, override := range parsed.Overrides {
		table[NormalizeKey(override.Name)] = override
	}
	log.Debug("Loaded player overrides", "count", len(table))
	return table
}

// NormalizeKey normalizes a player name for use as an override or
// registry key.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
