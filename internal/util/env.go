package util

import "os"

// EnvOrDefault reads an environment variable, falling back when it is unset
// or empty.
func EnvOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
