package dupr

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned when the DUPR API rejects the bearer token.
// It is fatal to the whole run: every further request would fail the same
// way, so callers must stop and re-authenticate out of band.
var ErrAuthExpired = errors.New("dupr: auth token expired")

// ErrServiceUnavailable is returned once the retry budget for transient
// failures is exhausted.
var ErrServiceUnavailable = errors.New("dupr: service unavailable")

// Location is a geographic search filter. An empty Text means no filter.
type Location struct {
	Lat  float64
	Lng  float64
	Text string
}

// Candidate is a single hit from the player search endpoint.
type Candidate struct {
	ID              int64
	FullName        string
	FirstName       string
	LastName        string
	ShortAddress    string
	DUPRID          string
	Singles         *float64
	Doubles         *float64
	SinglesVerified bool
	DoublesVerified bool
}

// BestRating returns the preferred rating for the candidate, favouring
// doubles over singles. Nil means the player is unrated.
func (c Candidate) BestRating() *float64 {
	if c.Doubles != nil {
		return c.Doubles
	}
	return c.Singles
}

// ProfileURL returns the dashboard URL for the candidate's profile.
func (c Candidate) ProfileURL() string {
	return fmt.Sprintf("https://dashboard.dupr.com/dashboard/player/%d", c.ID)
}

// searchRequest is the wire format of the search endpoint's POST body.
type searchRequest struct {
	Limit                   int          `json:"limit"`
	Offset                  int          `json:"offset"`
	Query                   string       `json:"query"`
	Exclude                 []string     `json:"exclude"`
	IncludeUnclaimedPlayers bool         `json:"includeUnclaimedPlayers"`
	Filter                  searchFilter `json:"filter"`
}

type searchFilter struct {
	Rating       struct{} `json:"rating"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	LocationText string   `json:"locationText,omitempty"`
}

type searchResponse struct {
	Status string `json:"status"`
	Result struct {
		Hits []searchHit `json:"hits"`
	} `json:"result"`
}

type searchHit struct {
	ID           int64      `json:"id"`
	FullName     string     `json:"fullName"`
	ShortAddress string     `json:"shortAddress"`
	DUPRID       string     `json:"duprId"`
	Ratings      hitRatings `json:"ratings"`
}

// The API reports unrated players with the string sentinel "NR" in fields
// that otherwise carry numbers, so everything is decoded as json.Number-ish
// strings and parsed by hand.
type hitRatings struct {
	Singles         any `json:"singles"`
	Doubles         any `json:"doubles"`
	SinglesVerified any `json:"singlesVerified"`
	DoublesVerified any `json:"doublesVerified"`
}
