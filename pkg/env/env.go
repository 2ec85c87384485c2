package env

import "os"

// Get reads an environment variable, falling back when unset or empty.
// Runs before config parsing, so it cannot rely on envconfig.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
