package config

import (
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string
	// Storage selects the catalog store: "postgres" or "memory"
	Storage string

	// Remote services
	GraphBaseURL      string
	EnrichmentURL     string
	EnrichmentTimeout time.Duration
	// AuthJWKSURL enables local JWT verification; without it only the drive API checks tokens
	AuthJWKSURL string

	// Catalog build tuning
	TraversalConcurrency      int
	EnrichmentConcurrency     int
	EnrichmentContinueOnError bool
	PersistAtomic             bool

	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Storage:     getEnv("STORAGE", StoragePostgres),

		GraphBaseURL:      getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		EnrichmentURL:     getEnv("ENRICHMENT_URL", "http://localhost:5000/api/classify"),
		EnrichmentTimeout: getDuration("ENRICHMENT_TIMEOUT", 60*time.Second),
		AuthJWKSURL:       getEnv("AUTH_JWKS_URL", ""),

		// 1 keeps the traversal and enrichment strictly sequential
		TraversalConcurrency:      getInt("TRAVERSAL_CONCURRENCY", 4),
		EnrichmentConcurrency:     getInt("ENRICHMENT_CONCURRENCY", 4),
		EnrichmentContinueOnError: getBool("ENRICHMENT_CONTINUE_ON_ERROR", false),
		PersistAtomic:             getBool("PERSIST_ATOMIC", false),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
	}
}

// Validate checks the settings that would otherwise fail late, at first use.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Storage, validation.Required, validation.In(StoragePostgres, StorageMemory)),
		validation.Field(&c.DatabaseURL, validation.When(c.Storage == StoragePostgres, validation.Required)),
		validation.Field(&c.GraphBaseURL, validation.Required, is.URL),
		validation.Field(&c.EnrichmentURL, validation.Required, is.URL),
		validation.Field(&c.AuthJWKSURL, is.URL),
		validation.Field(&c.TraversalConcurrency, validation.Min(1)),
		validation.Field(&c.EnrichmentConcurrency, validation.Min(1)),
		validation.Field(&c.EnrichmentTimeout, validation.Min(time.Second)),
	)
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
