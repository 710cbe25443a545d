package resolver

import "github.com/duprtools/duprpool/internal/dupr"

// ResolvedPlayer is the outcome of resolving one search name. It is
// immutable after creation and returned by value; SearchName is always the
// caller's original string, annotations and all.
type ResolvedPlayer struct {
	SearchName string
	Rating     float64
	Found      bool
	SourceID   string
	ProfileURL string
	Method     string
}

// Options carries the resolver's tunables. Regions may be nil, which
// degrades the corresponding search stages to unfiltered queries.
type Options struct {
	DefaultRating   float64
	PrimaryRegion   *dupr.Location
	SecondaryRegion *dupr.Location
}

// LooseFuzzyThreshold is the full-name similarity floor for the last
// unique-match tier. Hits at this level are never auto-matched; they go
// through the ambiguity procedure.
const LooseFuzzyThreshold = 0.75

// Surnames too ambiguous to search on their own: a surname-only query for
// these returns far too much noise, so the surname-only stages are skipped.
var shortCommonSurnames = map[string]struct{}{
	"ng": {}, "hu": {}, "wu": {}, "li": {}, "le": {}, "lu": {}, "ma": {},
	"xu": {}, "yu": {}, "ye": {}, "he": {}, "ho": {},
	"wong": {}, "chen": {}, "wang": {}, "zhang": {}, "liu": {}, "yang": {},
	"huang": {}, "zhao": {}, "zhou": {}, "sun": {},
}

func isShortCommonSurname(name string) bool {
	_, ok := shortCommonSurnames[name]
	return ok
}
