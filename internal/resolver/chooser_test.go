package resolver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedCandidates() []RankedCandidate {
	return []RankedCandidate{
		{Candidate: cand(1, "K2", "Kenny Wong", rated(4.1), "Calgary, AB"), Score: 0.97},
		{Candidate: cand(2, "K1", "Kenneth Wong", rated(3.7), "Calgary, AB"), Score: 0.92},
	}
}

func TestAutoChooser(t *testing.T) {
	chooser := AutoChooser{Threshold: 0.95}

	selected := chooser.Choose("Ken Wong", rankedCandidates())
	require.NotNil(t, selected)
	assert.Equal(t, "Kenny Wong", selected.FullName)

	low := rankedCandidates()
	low[0].Score = 0.90
	assert.Nil(t, chooser.Choose("Ken Wong", low))
	assert.Nil(t, chooser.Choose("Ken Wong", nil))
}

func TestTerminalChooserSelection(t *testing.T) {
	var out bytes.Buffer
	chooser := &TerminalChooser{In: strings.NewReader("2\n"), Out: &out, MaxDisplay: 5}

	selected := chooser.Choose("Ken Wong", rankedCandidates())

	require.NotNil(t, selected)
	assert.Equal(t, "Kenneth Wong", selected.FullName)
	assert.Contains(t, out.String(), "Kenny Wong (4.10) - Calgary, AB [97% match]")
	assert.Contains(t, out.String(), "Skip (use default rating)")
}

func TestTerminalChooserSkipAndCancel(t *testing.T) {
	var out bytes.Buffer

	// Explicit skip option.
	chooser := &TerminalChooser{In: strings.NewReader("3\n"), Out: &out, MaxDisplay: 5}
	assert.Nil(t, chooser.Choose("Ken Wong", rankedCandidates()))

	// Empty input skips.
	chooser = &TerminalChooser{In: strings.NewReader("\n"), Out: &out, MaxDisplay: 5}
	assert.Nil(t, chooser.Choose("Ken Wong", rankedCandidates()))

	// End of input cancels the prompt.
	chooser = &TerminalChooser{In: strings.NewReader(""), Out: &out, MaxDisplay: 5}
	assert.Nil(t, chooser.Choose("Ken Wong", rankedCandidates()))
}

func TestTerminalChooserRepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	chooser := &TerminalChooser{In: strings.NewReader("nope\n9\n1\n"), Out: &out, MaxDisplay: 5}

	selected := chooser.Choose("Ken Wong", rankedCandidates())

	require.NotNil(t, selected)
	assert.Equal(t, "Kenny Wong", selected.FullName)
	assert.Contains(t, out.String(), "Please enter a number between 1 and 3")
}

func TestTerminalChooserTruncatesDisplay(t *testing.T) {
	var out bytes.Buffer
	many := append(rankedCandidates(), rankedCandidates()...)
	chooser := &TerminalChooser{In: strings.NewReader("1\n"), Out: &out, MaxDisplay: 2}

	selected := chooser.Choose("Ken Wong", many)

	require.NotNil(t, selected)
	assert.Contains(t, out.String(), "... and 2 more")
}
