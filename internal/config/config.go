package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the VidShelf backend service.
type Config struct {
	AppPort        int
	DatabaseURL    string
	MigrationDir   string
	SeedDir        string
	LogLevel       string
	TokenSecret    string
	TokenTTL       time.Duration
	BcryptCost     int
	AllowedOrigins string
	AuthRateLimit  int
	TrustProxy     bool
	VideoCacheSize int
	VideoCacheTTL  time.Duration
	ObjectStore    ObjectStoreConfig
}

// ObjectStoreConfig describes the S3-compatible bucket used for uploaded images.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Enabled reports whether an object store has been configured.
func (c ObjectStoreConfig) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

const minTokenSecretLength = 32

// Load reads configuration from an optional .env file and environment variables,
// applying defaults for everything except the signing secret and database URL.
func Load() (Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		AppPort:        getInt("VIDSHELF_PORT", 8000),
		DatabaseURL:    getString("VIDSHELF_DATABASE_URL", ""),
		MigrationDir:   getString("VIDSHELF_MIGRATIONS", "migrations"),
		SeedDir:        getString("VIDSHELF_SEEDS", "seeds"),
		LogLevel:       getString("VIDSHELF_LOG_LEVEL", "info"),
		TokenSecret:    getString("VIDSHELF_TOKEN_SECRET", ""),
		TokenTTL:       getDuration("VIDSHELF_TOKEN_TTL", 5*time.Hour),
		BcryptCost:     getInt("VIDSHELF_BCRYPT_COST", 12),
		AllowedOrigins: getString("VIDSHELF_ALLOWED_ORIGINS", "*"),
		AuthRateLimit:  getInt("VIDSHELF_AUTH_RATE_LIMIT", 20),
		TrustProxy:     getBool("VIDSHELF_TRUST_PROXY", false),
		VideoCacheSize: getInt("VIDSHELF_VIDEO_CACHE_SIZE", 1024),
		VideoCacheTTL:  getDuration("VIDSHELF_VIDEO_CACHE_TTL", 30*time.Second),
		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("VIDSHELF_S3_BUCKET", ""),
			Region:        getString("VIDSHELF_S3_REGION", "us-east-1"),
			Endpoint:      getString("VIDSHELF_S3_ENDPOINT", ""),
			PublicBaseURL: getString("VIDSHELF_S3_PUBLIC_BASE_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate ensures required settings are present and within range.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("VIDSHELF_DATABASE_URL is required"))
	}
	if c.TokenSecret == "" {
		errs = append(errs, errors.New("VIDSHELF_TOKEN_SECRET is required"))
	} else if len(c.TokenSecret) < minTokenSecretLength {
		errs = append(errs, fmt.Errorf("VIDSHELF_TOKEN_SECRET must be at least %d characters", minTokenSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("VIDSHELF_TOKEN_TTL must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("VIDSHELF_BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	return errors.Join(errs...)
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// Origins splits AllowedOrigins on commas, dropping empty entries.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
