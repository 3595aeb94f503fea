package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	minSecretLength    = 32
	minDevSecretLength = 16
)

// Config holds runtime configuration.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"host=localhost user=postgres password=postgres dbname=skillbridge port=5432 sslmode=disable"`
	ResetDB     bool   `envconfig:"RESET_DB" default:"false"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me-please"`
	JWTExpiry time.Duration `envconfig:"JWT_EXPIRY" default:"168h"`

	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000"`
	RateLimitStore string   `envconfig:"RATE_LIMIT_STORE" default:"memory"`
	SwaggerHost    string   `envconfig:"SWAGGER_HOST"`

	AdminName     string `envconfig:"ADMIN_NAME" default:"Admin"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@skillbridge.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin12345"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	minLen := minDevSecretLength
	if c.IsProduction() {
		minLen = minSecretLength
	}
	if len(c.JWTSecret) < minLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minLen)
	}
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.RateLimitStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_STORE %q", c.RateLimitStore)
	}
	return nil
}
