package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.txt")
	require.NoError(t, os.WriteFile(path, []byte("Rob Smith\n\n  Colin Ng (G)  \nJane Doe\n"), 0o644))

	lines, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rob Smith", "Colin Ng (G)", "Jane Doe"}, lines)
}

func TestReadFileMissingOrEmpty(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))
	_, err = ReadFile(path)
	assert.Error(t, err)
}

func TestReadPastedStopsAtBlankLine(t *testing.T) {
	lines, err := ReadPasted(strings.NewReader("Rob Smith\nJane Doe\n\nIgnored After Blank\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Rob Smith", "Jane Doe"}, lines)
}

func TestReadPastedEmptyIsError(t *testing.T) {
	_, err := ReadPasted(strings.NewReader("\n\n"))
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatTeams, DetectFormat([]string{"Rob Smith / Jane Doe"}))
	assert.Equal(t, FormatNames, DetectFormat([]string{"Rob Smith", "Jane Doe"}))
}

func TestParseFormattedTeams(t *testing.T) {
	teams := ParseFormattedTeams([]string{
		"Rob Smith / Jane Doe",
		"not a team line",
		"A / B / C",
		" Colin Ng /  Pat Lee ",
		"/ missing",
	})

	require.Len(t, teams, 2)
	assert.Equal(t, TeamEntry{Player1: "Rob Smith", Player2: "Jane Doe"}, teams[0])
	assert.Equal(t, TeamEntry{Player1: "Colin Ng", Player2: "Pat Lee"}, teams[1])
}

func TestPairNames(t *testing.T) {
	teams, unpaired := PairNames([]string{"A", "B", "C", "D", "E"})

	require.Len(t, teams, 2)
	assert.Equal(t, TeamEntry{Player1: "A", Player2: "B"}, teams[0])
	assert.Equal(t, TeamEntry{Player1: "C", Player2: "D"}, teams[1])
	assert.Equal(t, "E", unpaired)

	teams, unpaired = PairNames([]string{"A", "B"})
	require.Len(t, teams, 1)
	assert.Empty(t, unpaired)
}
