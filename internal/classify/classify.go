// Package classify scores, hashes, and redacts discovered credential
// values. It is pure: no I/O, no shared state.
package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/aicred/aicred/internal/catalog"
)

// Confidence expresses how certain the classifier is that a value is
// a real credential for its attributed provider.
type Confidence string

const (
	Low      Confidence = "low"
	Medium   Confidence = "medium"
	High     Confidence = "high"
	VeryHigh Confidence = "very_high"
)

// Tier maps a raw score into a confidence band.
func Tier(score float64) Confidence {
	switch {
	case score >= 0.9:
		return VeryHigh
	case score >= 0.7:
		return High
	case score >= 0.5:
		return Medium
	default:
		return Low
	}
}

// AtLeast reports whether c meets the given floor.
func (c Confidence) AtLeast(floor Confidence) bool {
	return c.rank() >= floor.rank()
}

func (c Confidence) rank() int {
	switch c {
	case VeryHigh:
		return 3
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// redactPrefixLen bounds how much of a value stays visible.
const redactPrefixLen = 12

// Score rates a value against the provider's known key shapes.
// Values attributed to a provider but matching none of its shapes
// still get the generic fallback rating.
func Score(providerID, value string) float64 {
	if value == "" {
		return 0.0
	}

	if meta, err := catalog.Lookup(providerID); err == nil {
		best := 0.0
		for _, rule := range meta.KeyPrefixes {
			if matchRule(rule, value) && rule.Score > best {
				best = rule.Score
			}
		}
		if best > 0 {
			return best
		}
	}

	// Generic fallback: long token-shaped values are plausible keys.
	if len(value) >= 32 && isTokenShaped(value) {
		return 0.75
	}
	return 0.50
}

func matchRule(rule catalog.PrefixRule, value string) bool {
	if rule.Prefix != "" && !strings.HasPrefix(value, rule.Prefix) {
		return false
	}
	if rule.ExactLen > 0 && len(value) != rule.ExactLen {
		return false
	}
	if rule.MinLength > 0 && len(value) < rule.MinLength {
		return false
	}
	if rule.MaxLength > 0 && len(value) > rule.MaxLength {
		return false
	}
	if rule.Prefix == "" && !isTokenShaped(value) {
		return false
	}
	return true
}

func isTokenShaped(value string) bool {
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return len(value) > 0
}

// DetectProvider attributes a bare value to the provider whose key
// shape matches it best. Markerless shapes (rules without a prefix)
// are skipped, so a generic long token never claims a provider.
func DetectProvider(value string) (string, float64) {
	bestID := ""
	bestScore := 0.0
	bestPrefix := 0
	for _, id := range catalog.Providers() {
		meta, err := catalog.Lookup(id)
		if err != nil {
			continue
		}
		for _, rule := range meta.KeyPrefixes {
			if rule.Prefix == "" {
				continue
			}
			if !matchRule(rule, value) {
				continue
			}
			// Longer prefixes are more specific; they break score ties
			// (sk-ant- over sk-).
			if rule.Score > bestScore || (rule.Score == bestScore && len(rule.Prefix) > bestPrefix) {
				bestID = id
				bestScore = rule.Score
				bestPrefix = len(rule.Prefix)
			}
		}
	}
	return bestID, bestScore
}

func lookupValueType(providerID string) (string, error) {
	meta, err := catalog.Lookup(providerID)
	if err != nil {
		return "", err
	}
	return meta.ValueType, nil
}

// HashValue returns the stable identity of a credential value:
// lowercase hex SHA-256 of the raw bytes.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// RedactValue keeps at most the first 12 runes of a value and masks
// the rest. The result never equals the input, even for short values.
func RedactValue(value string) string {
	runes := []rune(value)
	n := len(runes)
	if n > redactPrefixLen {
		n = redactPrefixLen
	}
	return string(runes[:n]) + "****"
}
