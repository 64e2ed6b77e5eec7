package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Notification backends.
const (
	NotificationStorePostgres = "postgres"
	NotificationStoreMongo    = "mongo"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	NotificationStore       string
	RedisURL                string
	MetricsPort             string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  string
	LogPretty bool

	FeedCacheTTL    time.Duration
	ProfileCacheTTL time.Duration

	OTELEnabled      bool
	OTELExporter     string
	OTELEndpoint     string
	OTELSampleRatio  float64
	OTELServiceName  string
	ReconcileTimeout time.Duration
}

// Load reads a .env file if present, then the environment, and validates the
// result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     strings.ToLower(getEnv("ENV", "development")),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialmedia"),
		NotificationStore:       strings.ToLower(getEnv("NOTIFICATION_STORE", NotificationStorePostgres)),
		RedisURL:                getEnv("REDIS_URL", ""),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getDuration("JWT_TTL", 72*time.Hour),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogPretty: getBool("LOG_PRETTY", false),

		FeedCacheTTL:    getDuration("FEED_CACHE_TTL", 30*time.Second),
		ProfileCacheTTL: getDuration("PROFILE_CACHE_TTL", 5*time.Minute),

		OTELEnabled:      getBool("OTEL_ENABLED", false),
		OTELExporter:     strings.ToLower(getEnv("OTEL_EXPORTER", "stdout")),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELSampleRatio:  getFloat("OTEL_SAMPLE_RATIO", 1.0),
		OTELServiceName:  getEnv("OTEL_SERVICE_NAME", "lumina-api"),
		ReconcileTimeout: getDuration("RECONCILE_TIMEOUT", 5*time.Minute),
	}
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "dev-only-jwt-secret"
	}
	return cfg, cfg.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.PostgresConnStr == "" {
		errs = append(errs, errors.New("POSTGRES_CONN_STR environment variable not set"))
	}
	switch c.NotificationStore {
	case NotificationStorePostgres:
	case NotificationStoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when NOTIFICATION_STORE=mongo"))
		}
	default:
		errs = append(errs, errors.New("NOTIFICATION_STORE must be postgres or mongo"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be a positive duration"))
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic"))
	}
	if c.FeedCacheTTL <= 0 || c.ProfileCacheTTL <= 0 {
		errs = append(errs, errors.New("cache TTLs must be positive durations"))
	}
	switch c.OTELExporter {
	case "stdout", "otlp":
	default:
		errs = append(errs, errors.New("OTEL_EXPORTER must be stdout or otlp"))
	}
	if c.OTELSampleRatio < 0 || c.OTELSampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_SAMPLE_RATIO must be in [0,1]"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// getDuration returns -1 for values that do not parse so validation rejects them.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return -1
	}
	return d
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return -1
	}
	return f
}
