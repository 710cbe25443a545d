// Package resolver turns informal player names into verified ratings.
// Resolution is a strict priority chain: override table, cached identity,
// then a staged fan-out of search queries that narrows geographically
// before widening, with a guaranteed default-rating fallback.
package resolver

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/duprtools/duprpool/internal/config"
	"github.com/duprtools/duprpool/internal/dupr"
	"github.com/duprtools/duprpool/internal/names"
	"github.com/duprtools/duprpool/internal/registry"
)

var (
	guestMarkerRe           = regexp.MustCompile(`\s*\([Gg](uest)?\)\s*`)
	trailingParentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// Resolver orchestrates cache, overrides, the search client and name
// matching. It owns no global state; construct one per run.
type Resolver struct {
	client    dupr.Client
	cache     *registry.Registry
	matcher   *names.Matcher
	chooser   Chooser
	overrides map[string]config.Override
	opts      Options
}

// New creates a resolver with explicit dependencies.
func New(client dupr.Client, cache *registry.Registry, matcher *names.Matcher, chooser Chooser, overrides map[string]config.Override, opts Options) *Resolver {
	if overrides == nil {
		overrides = map[string]config.Override{}
	}
	return &Resolver{
		client:    client,
		cache:     cache,
		matcher:   matcher,
		chooser:   chooser,
		overrides: overrides,
		opts:      opts,
	}
}

// Resolve maps one raw name to a rating. It always produces a result; the
// only possible error is dupr.ErrAuthExpired, which the caller must treat
// as fatal to the whole batch.
func (r *Resolver) Resolve(rawName string) (ResolvedPlayer, error) {
	rawKey := config.NormalizeKey(rawName)

	// Overrides are checked before the cache: an operator-curated rating
	// must never be shadowed by a stale cache row.
	if override, ok := r.overrides[rawKey]; ok {
		log.Debug("Using override", "name", rawName, "rating", override.Rating, "reason", override.Reason)
		return r.overrideResult(rawName, override), nil
	}

	if entry, ok := r.cache.Get(rawName); ok {
		resolved, ok, err := r.resolveFromCache(rawName, entry)
		if err != nil {
			return ResolvedPlayer{}, err
		}
		if ok {
			return resolved, nil
		}
		log.Debug("Cached identity no longer present in search results", "name", rawName, "cached", entry.ResolvedName)
	}

	cleaned := cleanName(rawName)
	if cleanedKey := config.NormalizeKey(cleaned); cleanedKey != rawKey {
		log.Debug("Cleaned name", "from", rawName, "to", cleaned)
		if override, ok := r.overrides[cleanedKey]; ok {
			log.Debug("Using override for cleaned name", "name", cleaned, "rating", override.Rating)
			return r.overrideResult(rawName, override), nil
		}
	}

	resolved, err := r.stagedSearch(rawName, cleaned)
	if err != nil {
		return ResolvedPlayer{}, err
	}
	if resolved != nil {
		return *resolved, nil
	}

	log.Warn("Player not found, using default rating", "name", rawName, "rating", r.opts.DefaultRating)
	return ResolvedPlayer{
		SearchName: rawName,
		Rating:     r.opts.DefaultRating,
		Found:      false,
		Method:     "default",
	}, nil
}

// resolveFromCache refreshes a cached identity against the live service.
// The second return value is false when the cached identity has gone stale
// and the caller should fall through to the staged search.
func (r *Resolver) resolveFromCache(rawName string, entry registry.Entry) (ResolvedPlayer, bool, error) {
	candidates, err := r.client.SearchPlayers(entry.ResolvedName, r.opts.PrimaryRegion)
	if err != nil {
		if errors.Is(err, dupr.ErrAuthExpired) {
			return ResolvedPlayer{}, false, err
		}
		// The service is down but we still know who this is: fall back to
		// the last rating we saw for them.
		rating := r.opts.DefaultRating
		if entry.Rating != nil {
			rating = *entry.Rating
		}
		log.Warn("Cache refresh failed, using last-known rating", "name", rawName, "rating", rating, "error", err)
		return ResolvedPlayer{
			SearchName: rawName,
			Rating:     rating,
			Found:      true,
			SourceID:   entry.SourceID,
			Method:     "cache(stale):" + entry.ResolvedName,
		}, true, nil
	}

	cachedName := config.NormalizeKey(entry.ResolvedName)
	for i := range candidates {
		c := candidates[i]
		if c.DUPRID != entry.SourceID && config.NormalizeKey(c.FullName) != cachedName {
			continue
		}
		r.cache.Register(rawName, c.DUPRID, c.FullName, c.BestRating(), c.ShortAddress)
		resolved := r.matchResult(rawName, c, "cache:"+entry.ResolvedName)
		return resolved, true, nil
	}
	return ResolvedPlayer{}, false, nil
}

type searchStage struct {
	query string
	loc   *dupr.Location
	desc  string
	skip  bool
}

// stagedSearch fans out (query, filter) combinations from most to least
// specific, stopping at the first stage with a unique confident match.
// Surname-only stages are suppressed for short common surnames, which
// drown in false positives. Returns nil when every stage comes up empty.
func (r *Resolver) stagedSearch(rawName, cleaned string) (*ResolvedPlayer, error) {
	first, last := splitTokens(cleaned)
	shortCommon := isShortCommonSurname(strings.ToLower(last))
	if shortCommon {
		log.Debug("Short common surname, skipping surname-only stages", "surname", last)
	}

	stages := []searchStage{
		{query: cleaned, loc: r.opts.PrimaryRegion, desc: "full name + " + regionDesc(r.opts.PrimaryRegion)},
		{query: last, loc: r.opts.PrimaryRegion, desc: "last name + " + regionDesc(r.opts.PrimaryRegion), skip: shortCommon},
		{query: cleaned, loc: r.opts.SecondaryRegion, desc: "full name + " + regionDesc(r.opts.SecondaryRegion)},
		{query: last, loc: r.opts.SecondaryRegion, desc: "last name + " + regionDesc(r.opts.SecondaryRegion), skip: shortCommon},
		{query: last, loc: nil, desc: "last name + no filter", skip: shortCommon},
		{query: cleaned, loc: nil, desc: "full name + no filter"},
	}

	for _, stage := range stages {
		if stage.skip || stage.query == "" {
			continue
		}

		candidates, err := r.client.SearchPlayers(stage.query, stage.loc)
		if err != nil {
			if errors.Is(err, dupr.ErrAuthExpired) {
				return nil, err
			}
			log.Warn("Search stage failed, trying next stage", "stage", stage.desc, "name", cleaned, "error", err)
			continue
		}

		match := r.uniqueMatch(candidates, first, cleaned)
		if match == nil {
			continue
		}

		resolved := r.matchResult(rawName, *match, stage.desc)
		// Remember the mapping when the searched name and the matched
		// identity diverge, so future runs skip the whole fan-out.
		if config.NormalizeKey(rawName) != config.NormalizeKey(match.FullName) {
			r.cache.Register(rawName, match.DUPRID, match.FullName, match.BestRating(), match.ShortAddress)
		}
		log.Debug("Matched player", "name", rawName, "match", match.FullName, "stage", stage.desc)
		return &resolved, nil
	}
	return nil, nil
}

// uniqueMatch reduces a stage's candidate list to at most one player.
// Tiers: exact full-name equality, first-name matching, then a loose
// full-name fuzzy pass. Ties at any tier go through the ambiguity
// procedure; even a single loose fuzzy hit does.
func (r *Resolver) uniqueMatch(candidates []dupr.Candidate, first, full string) *dupr.Candidate {
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return &candidates[0]
	}

	fullKey := config.NormalizeKey(full)
	var exact []dupr.Candidate
	for _, c := range candidates {
		if config.NormalizeKey(c.FullName) == fullKey {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return &exact[0]
	}
	if len(exact) >= 2 {
		log.Debug("Multiple exact full-name matches", "name", full, "count", len(exact))
		return r.resolveAmbiguous(full, exact)
	}

	var byFirst []dupr.Candidate
	for _, c := range candidates {
		if r.matcher.FirstNameMatches(first, c.FirstName) {
			byFirst = append(byFirst, c)
		}
	}
	if len(byFirst) == 1 {
		return &byFirst[0]
	}
	if len(byFirst) >= 2 {
		log.Debug("Multiple first-name matches", "name", full, "count", len(byFirst))
		return r.resolveAmbiguous(full, byFirst)
	}

	var fuzzy []dupr.Candidate
	for _, c := range candidates {
		if r.matcher.Similarity(full, c.FullName) >= LooseFuzzyThreshold {
			fuzzy = append(fuzzy, c)
		}
	}
	if len(fuzzy) > 0 {
		log.Debug("Loose fuzzy matches only", "name", full, "count", len(fuzzy))
		return r.resolveAmbiguous(full, fuzzy)
	}
	return nil
}

// resolveAmbiguous ranks candidates by full-name similarity and delegates
// the final call to the injected chooser.
func (r *Resolver) resolveAmbiguous(searchName string, candidates []dupr.Candidate) *dupr.Candidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, RankedCandidate{
			Candidate: c,
			Score:     r.matcher.Similarity(searchName, c.FullName),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return r.chooser.Choose(searchName, ranked)
}

func (r *Resolver) matchResult(rawName string, c dupr.Candidate, method string) ResolvedPlayer {
	rating := r.opts.DefaultRating
	if best := c.BestRating(); best != nil {
		rating = *best
	} else {
		log.Debug("Matched player has no rating, using default", "name", c.FullName)
	}
	return ResolvedPlayer{
		SearchName: rawName,
		Rating:     rating,
		Found:      true,
		SourceID:   c.DUPRID,
		ProfileURL: c.ProfileURL(),
		Method:     method,
	}
}

func (r *Resolver) overrideResult(rawName string, override config.Override) ResolvedPlayer {
	return ResolvedPlayer{
		SearchName: rawName,
		Rating:     override.Rating,
		Found:      true,
		Method:     "override:" + override.Reason,
	}
}

// cleanName strips guest markers and trailing parenthetical annotations,
// e.g. "Colin Ng (G)" -> "Colin Ng".
func cleanName(name string) string {
	cleaned := guestMarkerRe.ReplaceAllString(name, " ")
	cleaned = trailingParentheticalRe.ReplaceAllString(cleaned, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// splitTokens yields the first and last tokens of a cleaned name.
// Single-token names use the same token for both.
func splitTokens(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], parts[len(parts)-1]
	}
}

func regionDesc(loc *dupr.Location) string {
	if loc == nil || loc.Text == "" {
		return "no filter"
	}
	return loc.Text
}
