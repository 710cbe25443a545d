package dupr

// Client defines the interface for the DUPR player search API.
// This allows for mock implementations to be used in tests.
type Client interface {
	SearchPlayers(query string, loc *Location) ([]Candidate, error)
}
