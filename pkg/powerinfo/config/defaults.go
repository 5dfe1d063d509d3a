// Package config provides configuration management for powerinfo.
package config

import "time"

// Default configuration values for powerinfo.
const (
	// DefaultOutput is the formatter used for reports.
	DefaultOutput = "plain"

	// DefaultBackend is the power configuration backend.
	DefaultBackend = "native"

	// DefaultSort keeps settings in enumeration order.
	DefaultSort = "none"

	// DefaultRetentionDays is how long history entries are kept.
	DefaultRetentionDays = 90

	// DefaultDebounce delays plan re-application after a file change.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultLogMaxSize is the log size that triggers rotation.
	DefaultLogMaxSize = "5MB"
)

// DefaultMatch selects the heterogeneous scheduling settings for the default
// report.
var DefaultMatch = []string{
	"heterogeneous thread scheduling policy",
	"heterogeneous short running thread scheduling policy",
}
