package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	Store          string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	// Ledger tuning
	LockWait           time.Duration
	CloseWait          time.Duration
	DBLockTimeout      time.Duration
	ReconcileOnClose   bool
	AccountMappingFile string

	// HTTP
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE", StorePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "dual-ledger")
	viper.SetDefault("LEDGER_LOCK_WAIT", "2s")
	viper.SetDefault("LEDGER_CLOSE_WAIT", "5s")
	viper.SetDefault("DB_LOCK_TIMEOUT", "2s")
	viper.SetDefault("LEDGER_RECONCILE_ON_CLOSE", false)
	viper.SetDefault("ACCOUNT_MAPPING_FILE", "account_mapping.yaml")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Store = strings.ToLower(viper.GetString("STORE"))
	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		log.Printf("Warning: Invalid value for STORE ('%s'). Defaulting to %s.\n", cfg.Store, StorePostgres)
		cfg.Store = StorePostgres
	}
	if cfg.Store == StorePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.LockWait = parseDuration("LEDGER_LOCK_WAIT", 2*time.Second)
	cfg.CloseWait = parseDuration("LEDGER_CLOSE_WAIT", 5*time.Second)
	cfg.DBLockTimeout = parseDuration("DB_LOCK_TIMEOUT", 2*time.Second)
	cfg.ReconcileOnClose = viper.GetBool("LEDGER_RECONCILE_ON_CLOSE")
	cfg.AccountMappingFile = viper.GetString("ACCOUNT_MAPPING_FILE")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
