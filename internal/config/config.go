// Package config loads the orchestrator configuration from the environment.
//
// Required values are reported by name via Missing() rather than failing on
// first access, so the caller can surface the complete list in one error.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names for the required configuration values.
const (
	EnvCustomersBase = "CUSTOMERS_API_BASE"
	EnvOrdersBase    = "ORDERS_API_BASE"
	EnvServiceToken  = "SERVICE_TOKEN"
	EnvJWTSecret     = "JWT_SECRET"
)

// Config holds everything the orchestrator reads from the environment.
// All fields are plain values; the zero value of a required field means
// the variable was absent.
type Config struct {
	// CustomersBase is the base URL of the customer service (no trailing slash).
	CustomersBase string
	// OrdersBase is the base URL of the order service (no trailing slash).
	OrdersBase string
	// ServiceToken is the long-lived inter-service credential used for the
	// customer-service internal endpoint.
	ServiceToken string
	// JWTSecret signs the short-lived per-request service credential.
	JWTSecret string

	// RequestTimeout bounds each outbound upstream call.
	RequestTimeout time.Duration
	// Port is the HTTP listen port.
	Port string

	// RedisAddr enables the idempotent envelope replay cache when non-empty.
	RedisAddr string
	// RunLogPath enables the SQLite orchestration audit log when non-empty.
	RunLogPath string

	// RateRPS and RateBurst configure the per-IP token bucket on the
	// orchestration endpoint.
	RateRPS   int
	RateBurst int
}

// FromEnv reads the configuration. It never fails: required values that are
// absent stay empty and are reported by Missing().
func FromEnv() Config {
	return Config{
		CustomersBase:  trimSlash(os.Getenv(EnvCustomersBase)),
		OrdersBase:     trimSlash(os.Getenv(EnvOrdersBase)),
		ServiceToken:   os.Getenv(EnvServiceToken),
		JWTSecret:      os.Getenv(EnvJWTSecret),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_MS", 5000)) * time.Millisecond,
		Port:           getEnv("PORT", "8080"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RunLogPath:     os.Getenv("RUN_LOG_PATH"),
		RateRPS:        getEnvInt("RATE_RPS", 50),
		RateBurst:      getEnvInt("RATE_BURST", 100),
	}
}

// Missing returns the names of required environment variables that were not
// set. An empty slice means the configuration is complete.
func (c Config) Missing() []string {
	var missing []string
	if c.CustomersBase == "" {
		missing = append(missing, EnvCustomersBase)
	}
	if c.OrdersBase == "" {
		missing = append(missing, EnvOrdersBase)
	}
	if c.ServiceToken == "" {
		missing = append(missing, EnvServiceToken)
	}
	if c.JWTSecret == "" {
		missing = append(missing, EnvJWTSecret)
	}
	return missing
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
