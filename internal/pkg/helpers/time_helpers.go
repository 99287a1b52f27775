package helpers

import "time"

// ParseDuration parses s as a time.Duration, falling back to defaultValue
// when s is empty or invalid.
func ParseDuration(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}
