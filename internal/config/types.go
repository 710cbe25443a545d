package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Token         string
	APIURL        string
	DefaultRating float64

	RequestDelay  time.Duration
	RetryCount    int
	RetryDelay    time.Duration
	RateLimitWait time.Duration

	// Narrow then broad geographic search filters. An empty Text means
	// the filter is disabled for that stage.
	PrimaryRegion   Region
	SecondaryRegion Region

	Pools PoolConfig

	ConfigDir     string
	OutputDir     string
	OverridesFile string
	NicknamesFile string
	RegistryFile  string

	// Ambiguity resolution.
	MaxChoices          int
	AutoAcceptThreshold float64

	// The operator's own player entry, folded into the override table at
	// startup when set. Useful for players the search API cannot find.
	User *Override
}

// Region is a geographic location filter for the search API.
type Region struct {
	Lat  float64
	Lng  float64
	Text string
}

// PoolConfig controls pool sizing, court assignment and scoring.
type PoolConfig struct {
	TargetSize    int
	MinSize       int
	CourtsPerPool int
	PointsBySize  map[int]int
}

// Override is an operator-curated forced rating that bypasses the search
// pipeline entirely.
type Override struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Reason string  `json:"reason"`
}
