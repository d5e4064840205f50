// Package scan walks a home directory per the catalog's locator rules
// and produces an immutable, classified snapshot of discovered
// credentials. Each call is a pure function of its options.
package scan

import (
	"time"

	"github.com/aicred/aicred/internal/classify"
)

// DefaultMaxFileSize bounds how large a candidate file may be before
// it is skipped rather than read.
const DefaultMaxFileSize = 1 << 20 // 1 MiB

// Options controls one scan invocation.
type Options struct {
	HomeDir           string   `json:"home_dir,omitempty"`
	IncludeFullValues bool     `json:"include_full_values"`
	MaxFileSize       int64    `json:"max_file_size"`
	OnlyProviders     []string `json:"only_providers,omitempty"`
	ExcludeProviders  []string `json:"exclude_providers,omitempty"`
}

// ConfigInstance is one matched application config file and the keys
// found inside it. Created once per file per scan, never mutated.
type ConfigInstance struct {
	InstanceID   string                  `json:"instance_id"`
	AppName      string                  `json:"app_name"`
	ConfigPath   string                  `json:"config_path"`
	DiscoveredAt time.Time               `json:"discovered_at"`
	Keys         []classify.DiscoveredKey `json:"keys"`
	Metadata     map[string]string       `json:"metadata"`
}

// SkippedFile records a candidate file the scanner could not or would
// not read. Skips are informational, never fatal.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the immutable snapshot produced by one scan.
type Result struct {
	Keys             []classify.DiscoveredKey `json:"keys"`
	ConfigInstances  []ConfigInstance         `json:"config_instances"`
	HomeDir          string                   `json:"home_dir"`
	ScannedAt        time.Time                `json:"scanned_at"`
	ProvidersScanned []string                 `json:"providers_scanned"`
	SkippedFiles     []SkippedFile            `json:"skipped_files,omitempty"`
	Warnings         []string                 `json:"warnings,omitempty"`
}
