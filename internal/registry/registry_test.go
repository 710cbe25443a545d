package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempRegistryPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "player_registry.json")
}

func ratingPtr(v float64) *float64 { return &v }

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	r := Load(tempRegistryPath(t))
	assert.Equal(t, 0, r.Len())
}

func TestLoadMalformedFileStartsEmpty(t *testing.T) {
	path := tempRegistryPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	r := Load(path)
	assert.Equal(t, 0, r.Len())
}

func TestRegisterAndGetNormalizesKeys(t *testing.T) {
	r := Load(tempRegistryPath(t))
	r.Register("  Colin Ng ", "ABC123", "Colin Ng", ratingPtr(3.75), "Calgary, AB")

	entry, ok := r.Get("colin ng")
	require.True(t, ok)
	assert.Equal(t, "ABC123", entry.SourceID)
	assert.Equal(t, "Colin Ng", entry.ResolvedName)
	require.NotNil(t, entry.Rating)
	assert.InDelta(t, 3.75, *entry.Rating, 0.0001)
	assert.NotEmpty(t, entry.LastUpdated)

	assert.True(t, r.Contains("COLIN NG"))
	assert.Equal(t, 1, r.Len())
}

func TestRegisterOverwrites(t *testing.T) {
	r := Load(tempRegistryPath(t))
	r.Register("Colin Ng", "ABC123", "Colin Ng", ratingPtr(3.75), "Calgary, AB")
	r.Register("Colin Ng", "XYZ789", "Colin K Ng", nil, "")

	entry, ok := r.Get("Colin Ng")
	require.True(t, ok)
	assert.Equal(t, "XYZ789", entry.SourceID)
	assert.Equal(t, "Colin K Ng", entry.ResolvedName)
	assert.Nil(t, entry.Rating, "register replaces, it does not merge")
	assert.Equal(t, 1, r.Len())
}

func TestSaveRoundTrip(t *testing.T) {
	path := tempRegistryPath(t)

	r := Load(path)
	r.Register("Rob S", "R1", "Robert Smith", ratingPtr(4.2), "Edmonton, AB")
	r.Save()

	reloaded := Load(path)
	entry, ok := reloaded.Get("rob s")
	require.True(t, ok)
	assert.Equal(t, "Robert Smith", entry.ResolvedName)

	// File format is the cross-run contract: a map keyed by normalized name.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Contains(t, stored, "rob s")
	assert.Equal(t, "R1", stored["rob s"]["dupr_id"])
	assert.Equal(t, "Robert Smith", stored["rob s"]["dupr_name"])
}

func TestSaveOnlyWhenDirty(t *testing.T) {
	path := tempRegistryPath(t)

	r := Load(path)
	r.Save()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clean registry must not touch disk")

	r.Register("A", "1", "A", nil, "")
	r.Save()
	_, err = os.Stat(path)
	require.NoError(t, err)

	// A second save with no changes leaves the file alone.
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	r.Save()
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemove(t *testing.T) {
	r := Load(tempRegistryPath(t))
	r.Register("Colin Ng", "ABC123", "Colin Ng", nil, "")

	assert.True(t, r.Remove("COLIN NG"))
	assert.False(t, r.Remove("Colin Ng"))
	assert.Equal(t, 0, r.Len())
}
