package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "default_secret_change_in_production"

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	Environment string
	LogLevel    string
	DatabaseURL string

	JWTSecret          string
	JWTAlgorithm       string
	JWTExpirationHours int

	CampusEmailDomain string
	CORSOrigins       []string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads an optional .env file, then loads configuration from
// environment variables or sets defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine outside development

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	expiry, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", expiry)
	}

	alg := getEnv("JWT_ALGORITHM", "HS256")
	if _, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q", alg)
	}

	return &Config{
		ServerPort:  port,
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://./marketplace.db"),

		JWTSecret:          getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTAlgorithm:       alg,
		JWTExpirationHours: expiry,

		CampusEmailDomain: getEnv("CAMPUS_EMAIL_DOMAIN", "@muj.manipal.edu"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMBaseURL: strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com"), "/"),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// splitList turns a comma-separated value into trimmed, non-empty entries.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if v := strings.TrimRight(strings.TrimSpace(p), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}
