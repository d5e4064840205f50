package scan

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/classify"
	"github.com/aicred/aicred/internal/metrics"
)

// envFileNames lists well-known env files and shell profiles relative
// to the scanned home directory.
var envFileNames = []string{
	".env",
	".env.local",
	".bashrc",
	".bash_profile",
	".zshrc",
	".zprofile",
	".profile",
	filepath.Join(".config", "aicred", "credentials.env"),
}

// exportLine matches `export NAME=value` and `NAME=value` shell
// assignments, tolerating optional quotes.
var exportLine = regexp.MustCompile(`(?m)^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*=\s*["']?([^"'\s#]+)["']?`)

func scanEnvFiles(home string, maxSize int64, filter providerFilter, fullValues bool, m *metrics.ScanMetrics) partial {
	part := partial{rule: "env"}

	for _, name := range envFileNames {
		path := filepath.Join(home, name)
		data, skip := readCandidate(path, maxSize, m)
		if skip != nil {
			part.skipped = append(part.skipped, *skip)
			continue
		}
		if data == nil {
			continue
		}

		vars := parseEnvContent(string(data))
		found := false
		for _, kv := range vars {
			provider, hint, ok := attributeEnvVar(kv.name, kv.value, nil)
			if !ok || !filter.allows(provider) {
				continue
			}
			part.keys = append(part.keys, classify.Classify(classify.Candidate{
				Provider:  provider,
				Source:    path,
				Value:     kv.value,
				ScoreHint: hint,
			}, fullValues))
			found = true
		}

		if found {
			if w := permissionWarning(path); w != "" {
				part.warnings = append(part.warnings, w)
			}
		}
	}
	return part
}

type envVar struct {
	name  string
	value string
}

// parseEnvContent extracts NAME=value pairs. Clean dotenv syntax goes
// through godotenv; arbitrary shell profiles fall back to a line scan.
func parseEnvContent(content string) []envVar {
	if parsed, err := godotenv.Unmarshal(content); err == nil {
		// godotenv returns a map; restore file order for determinism.
		return orderByAppearance(content, parsed)
	}

	var vars []envVar
	for _, match := range exportLine.FindAllStringSubmatch(content, -1) {
		vars = append(vars, envVar{name: match[1], value: match[2]})
	}
	return vars
}

func orderByAppearance(content string, parsed map[string]string) []envVar {
	var vars []envVar
	seen := make(map[string]bool, len(parsed))
	for _, match := range exportLine.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		if value, ok := parsed[name]; ok {
			vars = append(vars, envVar{name: name, value: value})
			seen[name] = true
		}
	}
	// Entries godotenv understood but the line scan missed (multiline
	// values, exotic quoting) still count, in name order.
	var rest []string
	for name := range parsed {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		vars = append(vars, envVar{name: name, value: parsed[name]})
	}
	return vars
}

// attributeEnvVar maps an env var to a provider. App-specific names
// win, then the catalog's well-known names, then value-shape
// detection for key-suggestive names.
func attributeEnvVar(name, value string, appEnv map[string]string) (provider string, scoreHint float64, ok bool) {
	if value == "" {
		return "", 0, false
	}
	if appEnv != nil {
		if id, found := appEnv[name]; found {
			return id, 0, true
		}
	}
	if id, found := catalog.EnvVarProvider(name); found {
		return id, 0, true
	}
	if keySuggestiveName(name) {
		if id, score := classify.DetectProvider(value); id != "" {
			return id, score, true
		}
	}
	return "", 0, false
}

func keySuggestiveName(name string) bool {
	upper := strings.ToUpper(name)
	return strings.HasSuffix(upper, "_API_KEY") ||
		strings.HasSuffix(upper, "_APIKEY") ||
		strings.HasSuffix(upper, "_TOKEN") ||
		strings.HasSuffix(upper, "_SECRET_KEY")
}
