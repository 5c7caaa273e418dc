package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Default CDN locations for the viewer libraries. Overridable through the
// environment so a deployment can pin a mirror.
const (
	DefaultThreeJSURL       = "https://cdn.jsdelivr.net/npm/three@0.149.0/build/three.min.js"
	DefaultOrbitControlsURL = "https://cdn.jsdelivr.net/npm/three@0.149.0/examples/js/controls/OrbitControls.js"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required,numeric"`
	Host            string        `json:"host" validate:"required"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Session signing key. Nothing in the current route set consumes it,
	// but deployments set it and expect it to be carried.
	SessionSecret string `json:"session_secret" validate:"required"`

	// Directories
	StaticDir    string `json:"static_dir" validate:"required"`
	TemplatesDir string `json:"templates_dir" validate:"required"`

	// Asset sources
	ThreeJSURL       string `json:"three_js_url" validate:"required,url"`
	OrbitControlsURL string `json:"orbit_controls_url" validate:"required,url"`

	// Logging
	LogLevel string `json:"log_level"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "5000"),
		Host:            getEnv("HOST", "0.0.0.0"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		SessionSecret: getEnv("SESSION_SECRET", "default_secret_key"),

		// Directories
		StaticDir:    getEnv("STATIC_DIR", "static"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),

		// Asset sources
		ThreeJSURL:       getEnv("THREE_JS_URL", DefaultThreeJSURL),
		OrbitControlsURL: getEnv("ORBIT_CONTROLS_URL", DefaultOrbitControlsURL),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Addr returns the host:port pair the server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
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
