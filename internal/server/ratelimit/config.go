package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default bounds for POST /api/screen per client. Screening fans out one
// model call per CV, so the tier is much tighter than the global default.
const (
	DefaultScreenLimit = 30
	DefaultScreenBurst = 10
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
// The screening tier and the enabled flag are owned by the server config;
// callers override them after loading.
func LoadConfig() *Config {
	defaultLimit := getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300)
	defaultWindow := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)

	whitelist := parseIPList(getEnvString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", ""))

	return &Config{
		Enabled:         true,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: ScreenEndpointConfigs(0, 0),
	}
}

// ScreenEndpointConfigs returns the endpoint tiers for the screening API.
// Non-positive perMinute or burst fall back to the package defaults.
func ScreenEndpointConfigs(perMinute, burst int) []EndpointConfig {
	if perMinute <= 0 {
		perMinute = DefaultScreenLimit
	}
	if burst <= 0 {
		burst = DefaultScreenBurst
	}
	return []EndpointConfig{
		{Path: "/api/screen", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
