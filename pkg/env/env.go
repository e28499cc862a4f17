// Package env reads the few settings that are needed before config.Load runs.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// First returns the first of keys that holds a non-blank value, or "".
func First(keys ...string) string {
	for _, key := range keys {
		if v := Get(key, ""); v != "" {
			return v
		}
	}
	return ""
}
