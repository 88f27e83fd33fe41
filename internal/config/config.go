package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AuthMode selects how mutating routes authenticate callers.
type AuthMode string

const (
	AuthModeJWT   AuthMode = "jwt"
	AuthModeBasic AuthMode = "basic"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Supabase SupabaseConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Assets   AssetsConfig
	CORS     CORSConfig
	Events   EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// SupabaseConfig holds the hosted project coordinates.
type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	Mode                 AuthMode
	AdminRole            string
	JWTAudience          string
	KeySetTimeoutSeconds int
	BasicUsername        string
	BasicPassword        string
	BasicPasswordHash    string
	BasicRealm           string
}

// AssetsConfig controls where uploaded images live and how they are addressed.
type AssetsConfig struct {
	Root           string
	PublicBaseURL  string
	MaxUploadBytes int
}

// CORSConfig lists allowed origins as a comma separated string.
type CORSConfig struct {
	AllowOrigins string
}

// EventsConfig names the Redis channel catalog events are published to.
type EventsConfig struct {
	Channel string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	mode := AuthMode(strings.ToLower(getEnv("AUTH_MODE", string(AuthModeJWT))))
	switch mode {
	case AuthModeJWT, AuthModeBasic:
	default:
		return nil, fmt.Errorf("invalid AUTH_MODE %q: want jwt or basic", mode)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "catalog-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("SERVER_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			AnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
			JWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", false),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Mode:                 mode,
			AdminRole:            getEnv("AUTH_ADMIN_ROLE", "admin"),
			JWTAudience:          getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
			KeySetTimeoutSeconds: getEnvAsInt("AUTH_KEYSET_TIMEOUT_SECONDS", 5),
			BasicUsername:        os.Getenv("BASIC_AUTH_USERNAME"),
			BasicPassword:        os.Getenv("BASIC_AUTH_PASSWORD"),
			BasicPasswordHash:    os.Getenv("BASIC_AUTH_PASSWORD_HASH"),
			BasicRealm:           getEnv("BASIC_AUTH_REALM", "catalog"),
		},
		Assets: AssetsConfig{
			Root:           getEnv("ASSET_ROOT", "library"),
			PublicBaseURL:  strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:8000"), "/"),
			MaxUploadBytes: getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Events: EventsConfig{
			Channel: getEnv("CATALOG_EVENTS_CHANNEL", "catalog:events"),
		},
	}

	return cfg, nil
}

// Warnings lists settings whose absence degrades the service. The service still
// starts; affected requests fail at request time instead.
func (c *Config) Warnings() []string {
	var warnings []string
	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Supabase.JWTSecret == "" {
			warnings = append(warnings, "SUPABASE_JWT_SECRET not set; HS256 token verification will fail")
		}
		if c.Supabase.URL == "" {
			warnings = append(warnings, "SUPABASE_URL not set; RS256/ES256 key set cannot be fetched")
		}
	case AuthModeBasic:
		if c.Auth.BasicUsername == "" || (c.Auth.BasicPassword == "" && c.Auth.BasicPasswordHash == "") {
			warnings = append(warnings, "BASIC_AUTH_USERNAME/BASIC_AUTH_PASSWORD not set; every request will be rejected")
		}
	}
	if !c.HasDatabase() {
		warnings = append(warnings, "neither POSTGRES_DSN nor SUPABASE_URL/SUPABASE_ANON_KEY set; catalog operations will fail")
	}
	return warnings
}

// HasDatabase reports whether any catalog backend is configured.
func (c *Config) HasDatabase() bool {
	return c.Postgres.DSN != "" || (c.Supabase.URL != "" && c.Supabase.AnonKey != "")
}

// KeySetURL is the well-known JWKS endpoint of the Supabase auth service.
func (s SupabaseConfig) KeySetURL() string {
	if s.URL == "" {
		return ""
	}
	return s.URL + "/auth/v1/.well-known/jwks.json"
}

// RestURL is the PostgREST root of the Supabase project.
func (s SupabaseConfig) RestURL() string {
	if s.URL == "" {
		return ""
	}
	return s.URL + "/rest/v1"
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// KeySetTimeout returns the HTTP timeout for key set fetches.
func (a AuthConfig) KeySetTimeout() time.Duration {
	if a.KeySetTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.KeySetTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
