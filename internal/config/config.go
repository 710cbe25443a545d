package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and a .env file.
// The only hard requirement is an auth token, supplied via DUPR_TOKEN or a
// token file; everything else has a working default.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	configDir := getEnvOr("CONFIG_DIR", "./config")

	cfg := Config{
		APIURL:        getEnvOr("DUPR_API_URL", "https://api.dupr.gg/player/v1.0/search"),
		DefaultRating: getEnvFloat("DEFAULT_RATING", 2.5),

		RequestDelay:  time.Duration(getEnvInt("REQUEST_DELAY_MS", 500)) * time.Millisecond,
		RetryCount:    getEnvInt("RETRY_COUNT", 3),
		RetryDelay:    time.Duration(getEnvInt("RETRY_DELAY_S", 2)) * time.Second,
		RateLimitWait: time.Duration(getEnvInt("RATE_LIMIT_WAIT_S", 10)) * time.Second,

		PrimaryRegion: Region{
			Lat:  getEnvFloat("PRIMARY_REGION_LAT", 53.9332706),
			Lng:  getEnvFloat("PRIMARY_REGION_LNG", -116.5765035),
			Text: getEnvOr("PRIMARY_REGION_TEXT", "Alberta, Canada"),
		},
		SecondaryRegion: Region{
			Lat:  getEnvFloat("SECONDARY_REGION_LAT", 56.130366),
			Lng:  getEnvFloat("SECONDARY_REGION_LNG", -106.346771),
			Text: getEnvOr("SECONDARY_REGION_TEXT", "Canada"),
		},

		Pools: PoolConfig{
			TargetSize:    getEnvInt("POOL_TARGET_SIZE", 5),
			MinSize:       getEnvInt("POOL_MIN_SIZE", 4),
			CourtsPerPool: getEnvInt("COURTS_PER_POOL", 2),
			PointsBySize:  map[int]int{4: 11, 5: 9},
		},

		ConfigDir:     configDir,
		OutputDir:     getEnvOr("OUTPUT_DIR", "./output"),
		OverridesFile: getEnvOr("OVERRIDES_FILE", filepath.Join(configDir, "player_overrides.json")),
		NicknamesFile: getEnvOr("NICKNAMES_FILE", filepath.Join(configDir, "nicknames.json")),
		RegistryFile:  getEnvOr("REGISTRY_FILE", filepath.Join(configDir, "player_registry.json")),

		MaxChoices:          getEnvInt("MAX_CHOICES", 5),
		AutoAcceptThreshold: getEnvFloat("AUTO_ACCEPT_THRESHOLD", 0.95),
	}

	cfg.Token = loadToken(configDir)
	cfg.User = loadUser(cfg.DefaultRating)
	return cfg
}

// loadToken reads the bearer token from DUPR_TOKEN, falling back to a
// token file. Missing credentials are fatal: nothing can be resolved
// without them.
func loadToken(configDir string) string {
	if token := strings.TrimSpace(os.Getenv("DUPR_TOKEN")); token != "" {
		return token
	}

	tokenFile := getEnvOr("DUPR_TOKEN_FILE", filepath.Join(configDir, "dupr_token.txt"))
	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		log.Fatalf("Error: no auth token available. Set DUPR_TOKEN or provide a token file at %s.", tokenFile)
	}
	return strings.TrimSpace(string(raw))
}

// loadUser reads the operator's own name and rating from the environment.
func loadUser(defaultRating float64) *Override {
	name := strings.TrimSpace(os.Getenv("USER_NAME"))
	if name == "" {
		return nil
	}
	return &Override{
		Name:   name,
		Rating: getEnvFloat("USER_RATING", defaultRating),
		Reason: "Operator-supplied rating",
	}
}

func getEnvOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn("Ignoring invalid integer environment variable", "key", key, "value", value)
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warn("Ignoring invalid float environment variable", "key", key, "value", value)
		return fallback
	}
	return parsed
}
