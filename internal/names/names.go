// Package names implements nickname-aware name matching for player
// resolution. The nickname graph is built once at load time and is
// immutable afterwards; all matching functions are pure.
package names

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xrash/smetrics"
)

// FuzzyThreshold is the minimum Jaro-Winkler score for two first names to
// be considered a match.
const FuzzyThreshold = 0.85

// Matcher resolves nicknames to formal names and scores name similarity.
type Matcher struct {
	nickToFormal map[string][]string
	formalToNick map[string][]string
}

// NewMatcher builds a matcher from a nickname JSON file mapping nicknames
// to the formal names they stand for ({"rob": ["robert"], ...}). A missing
// or malformed file is not an error: the matcher still works with the
// substring and fuzzy tiers.
func NewMatcher(nicknamesFile string) *Matcher {
	m := &Matcher{
		nickToFormal: map[string][]string{},
		formalToNick: map[string][]string{},
	}

	raw, err := os.ReadFile(nicknamesFile)
	if err != nil {
		log.Debug("No nickname table loaded", "path", nicknamesFile, "error", err)
		return m
	}

	var table map[string][]string
	if err := json.Unmarshal(raw, &table); err != nil {
		log.Warn("Malformed nickname table, continuing without it", "path", nicknamesFile, "error", err)
		return m
	}

	for nickname, formals := range table {
		nick := normalize(nickname)
		for _, formal := range formals {
			f := normalize(formal)
			m.nickToFormal[nick] = appendUnique(m.nickToFormal[nick], f)
			m.formalToNick[f] = appendUnique(m.formalToNick[f], nick)
		}
	}
	log.Debug("Loaded nickname table", "nicknames", len(m.nickToFormal))
	return m
}

// Equivalents returns the name itself plus every name reachable one hop in
// each direction: its formal names, its nicknames, and the formal siblings
// that share a nickname. The result is sorted for determinism.
func (m *Matcher) Equivalents(name string) []string {
	n := normalize(name)
	set := map[string]struct{}{n: {}}

	for _, formal := range m.nickToFormal[n] {
		set[formal] = struct{}{}
	}
	for _, nick := range m.formalToNick[n] {
		set[nick] = struct{}{}
	}
	for _, formal := range m.nickToFormal[n] {
		for _, nick := range m.formalToNick[formal] {
			set[nick] = struct{}{}
		}
	}
	for _, nick := range m.formalToNick[n] {
		for _, formal := range m.nickToFormal[nick] {
			set[formal] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AreEquivalent reports whether two names are linked by the nickname graph.
func (m *Matcher) AreEquivalent(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return true
	}
	for _, eq := range m.Equivalents(na) {
		if eq == nb {
			return true
		}
	}
	return false
}

// Similarity returns a name-oriented similarity score in [0,1].
// Jaro-Winkler weights matching prefixes more heavily than suffixes, which
// suits given names: a transposition near the start costs more than one
// near the end.
func (m *Matcher) Similarity(a, b string) float64 {
	return smetrics.JaroWinkler(normalize(a), normalize(b), 0.7, 4)
}

// FirstNameMatches reports whether a candidate's first name plausibly
// matches the searched first name. The tiers are tried in order: substring
// containment either way, nickname equivalence, then fuzzy similarity.
func (m *Matcher) FirstNameMatches(search, candidate string) bool {
	s, c := normalize(search), normalize(candidate)
	if s == "" || c == "" {
		return s == c
	}
	if strings.Contains(s, c) || strings.Contains(c, s) {
		return true
	}
	if m.AreEquivalent(s, c) {
		return true
	}
	return m.Similarity(s, c) >= FuzzyThreshold
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
