// Package env reads typed configuration values from the process environment.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetBoolEnv returns the environment value converted to boolean type, or returns the specified fallback value if the variable with the given key is not present
// or cannot be parsed.
func GetBoolEnv(key string, fallback bool) bool {
	if strVal, ok := LookupEnv(key); ok {
		if val, err := strconv.ParseBool(strVal); err == nil {
			return val
		}
	}

	return fallback
}

// GetIntEnv returns the environment value converted to integer type, or returns the specified fallback value if the variable with the given key is not present
// or cannot be parsed.
func GetIntEnv(key string, fallback int) int {
	if strVal, ok := LookupEnv(key); ok {
		if val, err := strconv.Atoi(strVal); err == nil {
			return val
		}
	}

	return fallback
}

// GetSecondsEnv reads a whole number of seconds. Negative values are treated as invalid.
func GetSecondsEnv(key string, fallback time.Duration) time.Duration {
	seconds := GetIntEnv(key, -1)
	if seconds < 0 {
		return fallback
	}

	return time.Duration(seconds) * time.Second
}

// GetStringEnv returns an environment variable by the given key, or returns the given fallback value if the env variable is not present.
func GetStringEnv(key string, fallback string) string {
	if val, ok := LookupEnv(key); ok {
		return val
	}

	return fallback
}

// LookupEnv behaves the same as `os.LookupEnv`, but additionally trims spaces in the value
// and treats an empty value as not present.
func LookupEnv(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)

	return val, ok && val != ""
}
