package main

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-based configuration for the MCP server
type Config struct {
	Profile      string
	Workers      int
	ProbeWorkers int
	CallTimeout  time.Duration
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Profile:      os.Getenv("AWS_PROFILE"),
		Workers:      getEnvIntOrDefault("SPOT_ALLOCATOR_WORKERS", 1),
		ProbeWorkers: getEnvIntOrDefault("SPOT_ALLOCATOR_PROBE_WORKERS", 10),
		CallTimeout:  getEnvDurationOrDefault("SPOT_ALLOCATOR_CALL_TIMEOUT", 30*time.Second),
	}
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
