package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "3000"
	defaultDatabaseURL     = "eduportal.db"
	defaultMongoDatabase   = "BGEL_BD"
	defaultUploadDir       = "./uploads"
	defaultUploadMaxBytes  = "10485760"
	defaultSniffContent    = "false"
	defaultKafkaTopic      = "leads.events"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = "10s"
)

// Config is the runtime configuration of the API process.
type Config struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	MongoDatabase   string
	UploadDir       string
	UploadMaxBytes  int64
	SniffUploads    bool
	KafkaBrokers    []string
	KafkaTopic      string
	AllowedOrigins  []string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	for _, location := range []string{".env", "config/.env"} {
		if err := godotenv.Load(location); err == nil {
			break
		}
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.MongoDatabase = strings.TrimSpace(getEnv("MONGO_DATABASE", defaultMongoDatabase))
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.SniffUploads = parseBoolEnv("UPLOAD_SNIFF_CONTENT", defaultSniffContent)
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.KafkaTopic = strings.TrimSpace(getEnv("KAFKA_TOPIC", defaultKafkaTopic))
	cfg.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))

	var err error
	cfg.UploadMaxBytes, err = parseInt64Env("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)
	if err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UsesMongo reports whether DatabaseURL points at a MongoDB deployment.
func (c *Config) UsesMongo() bool {
	return strings.HasPrefix(c.DatabaseURL, "mongodb://") || strings.HasPrefix(c.DatabaseURL, "mongodb+srv://")
}

// IsProduction reports whether the process runs with a production-like APP_ENV.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.UsesMongo() && cfg.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE must be set when DATABASE_URL is a mongodb URI")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if cfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if isProdLike(cfg.AppEnv) && cfg.DatabaseURL == defaultDatabaseURL {
		return fmt.Errorf("in prod/release DATABASE_URL must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
