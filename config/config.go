// Package config loads the service's runtime settings. Non-sensitive values
// come from environment variables; outside CI the sensitive ones (database
// password, JWT secret, redis password) are read from Docker secrets under
// SECRETS_DIR, defaulting to /run/secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Environment selects where sensitive values are read from.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reports the runtime environment: CI when the pipeline sets
// the CI variable, otherwise whatever ENV names, defaulting to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch env := Environment(os.Getenv("ENV")); env {
	case Production, Test, Development:
		return env
	}
	return Development
}

// Config carries everything the service reads at startup.
type Config struct {
	ServerHost string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	S3Bucket  string
	AWSRegion string
}

// LoadConfig assembles and validates the configuration for the current
// environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		RedisURL:   os.Getenv("REDIS_URL"),
		RedisHost:  os.Getenv("REDIS_HOST"),
		RedisPort:  getEnv("REDIS_PORT", "6379"),
		S3Bucket:   getEnv("S3_BUCKET_NAME", "mealweek-template-images"),
		AWSRegion:  os.Getenv("AWS_REGION"),
	}

	if GetEnvironment() == CI {
		// Pipelines inject secrets as plain environment variables.
		cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
		cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
		cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	} else {
		cfg.DBPassword = readSecret("db_password")
		cfg.JWTSecret = readSecret("jwt_secret")
		cfg.RedisPassword = readSecret("redis_password")
		// The db user may be provisioned as a secret alongside its password.
		if user := readSecret("db_user"); user != "" {
			cfg.DBUser = user
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DB_HOST":     c.DBHost,
		"DB_NAME":     c.DBName,
		"db_user":     c.DBUser,
		"db_password": c.DBPassword,
		"jwt_secret":  c.JWTSecret,
	}
	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret, returning "" when it is not provisioned.
func readSecret(name string) string {
	dir := os.Getenv("SECRETS_DIR")
	if dir == "" {
		dir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
