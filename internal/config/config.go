package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported AI backends
const (
	AIBackendREST = "rest"
	AIBackendSDK  = "sdk"
)

// Supported newsletter stores
const (
	StoreFile = "file"
	StoreS3   = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
	StaticDir       string        `json:"static_dir"`
	SessionTTL      time.Duration `json:"session_ttl"`

	// AI Configuration
	AIApiKey  string        `json:"-"`
	AIModel   string        `json:"ai_model"`
	AIBackend string        `json:"ai_backend"`
	AIBaseURL string        `json:"ai_base_url"`
	AITimeout time.Duration `json:"ai_timeout"`

	// Quota on generation endpoints, counted in Redis when RedisURL is set
	RedisURL      string        `json:"redis_url"`
	RedisPrefix   string        `json:"redis_prefix"`
	AIQuotaLimit  int           `json:"ai_quota_limit"`
	AIQuotaWindow time.Duration `json:"ai_quota_window"`

	// Newsletter storage
	NewsletterStore string `json:"newsletter_store"`
	StoragePath     string `json:"storage_path"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"-"`
	R2SecretKey string `json:"-"`
	R2Bucket    string `json:"r2_bucket"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`

	// Security
	AdminAPIKey string `json:"-"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it
func FromEnv() *Config {
	env := getEnv("APP_ENV", "development")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 90*time.Second),
		StaticDir:       getEnv("STATIC_DIR", "./web/static"),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 30*time.Minute),

		AIApiKey:  getEnv("AI_API_KEY", ""),
		AIModel:   getEnv("AI_MODEL", "gemini-2.5-flash"),
		AIBackend: strings.ToLower(getEnv("AI_BACKEND", AIBackendREST)),
		AIBaseURL: getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		AITimeout: getEnvAsDuration("AI_TIMEOUT", 60*time.Second),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPrefix:   getEnv("REDIS_PREFIX", "finsmart:"),
		AIQuotaLimit:  getEnvAsInt("AI_QUOTA_LIMIT", 30),
		AIQuotaWindow: getEnvAsDuration("AI_QUOTA_WINDOW", time.Minute),

		NewsletterStore: strings.ToLower(getEnv("NEWSLETTER_STORE", StoreFile)),
		StoragePath:     getEnv("STORAGE_PATH", "./data"),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "finsmart"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", env == "development"),

		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}
}

// Validate validates the configuration. A missing AI key is not an error:
// generation calls degrade to their fallbacks instead.
func (c *Config) Validate() error {
	switch c.AIBackend {
	case AIBackendREST, AIBackendSDK:
	default:
		return fmt.Errorf("unknown AI_BACKEND %q", c.AIBackend)
	}

	switch c.NewsletterStore {
	case StoreFile:
	case StoreS3:
		if c.R2Endpoint == "" || c.R2Bucket == "" {
			return fmt.Errorf("NEWSLETTER_STORE=s3 requires R2_ENDPOINT and R2_BUCKET")
		}
	default:
		return fmt.Errorf("unknown NEWSLETTER_STORE %q", c.NewsletterStore)
	}

	if c.AIQuotaLimit <= 0 {
		return fmt.Errorf("AI_QUOTA_LIMIT must be positive, got %d", c.AIQuotaLimit)
	}
	if c.AIQuotaWindow <= 0 {
		return fmt.Errorf("AI_QUOTA_WINDOW must be positive, got %s", c.AIQuotaWindow)
	}
	return nil
}

// HasAICredential reports whether an upstream API key is configured
func (c *Config) HasAICredential() bool {
	return strings.TrimSpace(c.AIApiKey) != ""
}

// Helper functions for environment variable handling. Empty values count as unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
