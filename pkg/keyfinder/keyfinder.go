// Package keyfinder is the public boundary of the credential
// discovery engine. The request/response field names here are a
// compatibility surface shared with out-of-process callers and must
// not change.
package keyfinder

import (
	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/classify"
	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/scan"
)

// version is overridden at build time.
var version = "0.1.0"

// ScanOptions controls a scan. An empty HomeDir means the current
// user's home; a zero MaxFileSize means the default bound.
type ScanOptions = scan.Options

// DiscoveredKey is one classified credential sighting.
type DiscoveredKey = classify.DiscoveredKey

// ConfigInstance is one matched application config file.
type ConfigInstance = scan.ConfigInstance

// ScanResult is the immutable snapshot produced by one scan.
type ScanResult = scan.Result

// Confidence tier strings carried in DiscoveredKey.Confidence.
const (
	ConfidenceLow      = string(classify.Low)
	ConfidenceMedium   = string(classify.Medium)
	ConfidenceHigh     = string(classify.High)
	ConfidenceVeryHigh = string(classify.VeryHigh)
)

// Scan discovers credentials under the configured home directory.
// It is safe to call concurrently; each call is independent.
func Scan(opts ScanOptions) (*ScanResult, error) {
	result, err := scan.Run(opts)
	if err != nil {
		if errors.IsInvalidInput(err) {
			return nil, err
		}
		return nil, errors.BoundaryError{Op: "scan", Err: err}
	}
	return result, nil
}

// Version reports the library version.
func Version() string {
	return version
}

// ListProviders returns all known provider ids, sorted.
func ListProviders() []string {
	return catalog.Providers()
}

// ListScanners returns all known application scanner names, sorted.
func ListScanners() []string {
	return catalog.Scanners()
}
