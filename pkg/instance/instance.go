// Package instance names the running process for logs.
package instance

import (
	"os"

	"github.com/shaheen-amjed/shodix-api/pkg/env"
)

// GetID returns SHODIX_INSTANCE_ID, then the platform dyno name, then the host
// name, falling back to "local".
func GetID() string {
	if id := env.First("SHODIX_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
