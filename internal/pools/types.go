package pools

import "github.com/duprtools/duprpool/internal/resolver"

// PlayerPool is an ordered group of players for the ladder format.
// Pools are named A, B, C... in descending rating order and never mutated
// after creation.
type PlayerPool struct {
	Name    string
	Players []resolver.ResolvedPlayer
}

// Team pairs two resolved players under a single blended rating.
type Team struct {
	Player1 resolver.ResolvedPlayer
	Player2 resolver.ResolvedPlayer
	Rating  float64
}

// TeamPool is an ordered group of teams with its points-per-game value and
// a contiguous court range.
type TeamPool struct {
	Name          string
	Teams         []Team
	PointsPerGame int
	CourtStart    int
	CourtEnd      int
}
