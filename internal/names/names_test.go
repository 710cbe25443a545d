package names

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNicknames(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nicknames.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testMatcher(t *testing.T) *Matcher {
	return NewMatcher(writeNicknames(t, `{
		"rob": ["robert"],
		"bob": ["robert"],
		"ken": ["kenneth"],
		"nick": ["nicholas", "nicolas"]
	}`))
}

func TestEquivalentsTransitive(t *testing.T) {
	m := testMatcher(t)

	// rob -> robert -> bob: formal siblings sharing a nickname.
	eq := m.Equivalents("Rob")
	assert.Contains(t, eq, "rob")
	assert.Contains(t, eq, "robert")
	assert.Contains(t, eq, "bob")

	// Formal name back to all its nicknames.
	eq = m.Equivalents("Robert")
	assert.Contains(t, eq, "rob")
	assert.Contains(t, eq, "bob")

	// One nickname to multiple formals.
	eq = m.Equivalents("nick")
	assert.Contains(t, eq, "nicholas")
	assert.Contains(t, eq, "nicolas")
}

func TestAreEquivalent(t *testing.T) {
	m := testMatcher(t)

	assert.True(t, m.AreEquivalent("Ken", "Kenneth"))
	assert.True(t, m.AreEquivalent("kenneth", "KEN"))
	assert.True(t, m.AreEquivalent("Rob", "Bob"))
	assert.True(t, m.AreEquivalent("same", "same"))
	assert.False(t, m.AreEquivalent("Ken", "Robert"))
}

func TestMissingOrMalformedTableNeverFails(t *testing.T) {
	missing := NewMatcher(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.False(t, missing.AreEquivalent("rob", "robert"))
	assert.True(t, missing.FirstNameMatches("Rob", "Robert"), "substring tier still works")

	malformed := NewMatcher(writeNicknames(t, `{not json`))
	assert.True(t, malformed.FirstNameMatches("Robert", "Rob"))
}

func TestSimilarityPrefixWeighted(t *testing.T) {
	m := testMatcher(t)

	assert.Equal(t, 1.0, m.Similarity("Colin", "colin "))

	// A swap near the start of the name should cost more than the same
	// swap near the end.
	early := m.Similarity("martha", "amrtha")
	late := m.Similarity("martha", "marhta")
	assert.Less(t, early, late)

	assert.Greater(t, m.Similarity("Jon", "John"), 0.9)
}

func TestFirstNameMatches(t *testing.T) {
	m := testMatcher(t)

	assert.True(t, m.FirstNameMatches("Rob", "Roberto"), "substring tier")
	assert.True(t, m.FirstNameMatches("Ken", "Kenneth"), "substring tier")
	assert.True(t, m.FirstNameMatches("Bob", "Robert"), "nickname tier")
	assert.True(t, m.FirstNameMatches("Jon", "John"), "fuzzy tier")
	assert.False(t, m.FirstNameMatches("Colin", "Sarah"))
	assert.False(t, m.FirstNameMatches("Colin", ""))
}
