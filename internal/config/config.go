// Package config reads server configuration from flat environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by JUSTICE_PIP_ENV (or .env by
// default), then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("JUSTICE_PIP_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// JWTSecret returns the reviewer token signing key.
func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

// SalientParties returns the comma-separated list of parties whose
// involvement bumps contradiction scores. Empty slice when unset.
func SalientParties() []string {
	raw := os.Getenv("SALIENT_PARTIES")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	parties := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parties = append(parties, trimmed)
		}
	}
	return parties
}

// RuleMetaPath returns the optional path to a YAML file overriding rule
// titles, descriptions, and weights. Empty means built-in defaults.
func RuleMetaPath() string {
	return os.Getenv("RULE_META_PATH")
}

// RuleTimeout returns the per-rule evaluation deadline.
// Defaults to 30s if not set.
func RuleTimeout() time.Duration {
	d, err := time.ParseDuration(os.Getenv("RULE_TIMEOUT"))
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// MaxConcurrentRules returns the rule evaluation parallelism.
// Defaults to 4 if not set.
func MaxConcurrentRules() int {
	n, err := strconv.Atoi(os.Getenv("MAX_CONCURRENT_RULES"))
	if err != nil || n <= 0 {
		return 4
	}
	return n
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
