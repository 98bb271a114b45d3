// Package env reads settings needed before config.Load has run, such as the log format.
package env

import (
	"os"
	"strings"
)

const prefix = "SERVICEBAY_"

// Get returns SERVICEBAY_<key>, then <key>, then fallback. Blank values count as unset.
func Get(key, fallback string) string {
	for _, name := range []string{prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
