package scan

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/classify"
	"github.com/aicred/aicred/internal/metrics"
)

func scanAppRule(home string, rule *catalog.AppRule, maxSize int64, filter providerFilter, fullValues bool, m *metrics.ScanMetrics) partial {
	part := partial{rule: rule.Name}

	for _, path := range rule.Paths(home) {
		data, skip := readCandidate(path, maxSize, m)
		if skip != nil {
			part.skipped = append(part.skipped, *skip)
			continue
		}
		if data == nil {
			continue
		}

		var candidates []classify.Candidate
		switch rule.Format {
		case catalog.FormatJSON:
			candidates = extractStructured(path, data, unmarshalJSON)
		case catalog.FormatYAML:
			candidates = extractStructured(path, data, unmarshalYAML)
		case catalog.FormatEnv:
			candidates = extractEnvCandidates(path, string(data), rule.EnvProviders)
		}

		var keys []classify.DiscoveredKey
		for _, c := range candidates {
			if !filter.allows(c.Provider) {
				continue
			}
			keys = append(keys, classify.Classify(c, fullValues))
		}
		if len(keys) == 0 {
			continue
		}

		part.keys = append(part.keys, keys...)
		part.instances = append(part.instances, ConfigInstance{
			InstanceID:   uuid.NewString(),
			AppName:      rule.AppName,
			ConfigPath:   path,
			DiscoveredAt: time.Now().UTC(),
			Keys:         keys,
			Metadata: map[string]string{
				"scanner": rule.Name,
				"format":  string(rule.Format),
			},
		})
		if w := permissionWarning(path); w != "" {
			part.warnings = append(part.warnings, w)
		}
	}
	return part
}

func unmarshalJSON(data []byte) (interface{}, error) {
	var doc interface{}
	err := json.Unmarshal(data, &doc)
	return doc, err
}

func unmarshalYAML(data []byte) (interface{}, error) {
	var doc interface{}
	err := yaml.Unmarshal(data, &doc)
	return doc, err
}

// extractStructured walks a decoded JSON/YAML document and collects
// string leaves that look like credentials. Malformed documents yield
// nothing; a config file that fails to parse is not an error.
func extractStructured(path string, data []byte, decode func([]byte) (interface{}, error)) []classify.Candidate {
	doc, err := decode(data)
	if err != nil {
		return nil
	}

	var out []classify.Candidate
	walkDocument(doc, "", func(keyPath, leafKey, value string) {
		provider, hint, ok := attributeLeaf(keyPath, leafKey, value)
		if !ok {
			return
		}
		out = append(out, classify.Candidate{
			Provider:  provider,
			Source:    path,
			Value:     value,
			ScoreHint: hint,
		})
	})
	return out
}

// walkDocument visits every string leaf with its dotted key path.
func walkDocument(node interface{}, keyPath string, visit func(keyPath, leafKey, value string)) {
	switch v := node.(type) {
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			walkDocument(v[key], joinPath(keyPath, key), visit)
		}
	case map[interface{}]interface{}:
		strMap := make(map[string]interface{}, len(v))
		for key, child := range v {
			if ks, ok := key.(string); ok {
				strMap[ks] = child
			}
		}
		for _, key := range sortedKeys(strMap) {
			walkDocument(strMap[key], joinPath(keyPath, key), visit)
		}
	case []interface{}:
		for _, child := range v {
			walkDocument(child, keyPath, visit)
		}
	case string:
		leafKey := keyPath
		if idx := strings.LastIndex(keyPath, "."); idx >= 0 {
			leafKey = keyPath[idx+1:]
		}
		visit(keyPath, leafKey, v)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// attributeLeaf decides whether a string leaf is a credential and for
// which provider. The key path may name the provider directly
// (e.g. providers.openai.api_key); otherwise the value shape decides.
func attributeLeaf(keyPath, leafKey, value string) (provider string, scoreHint float64, ok bool) {
	if len(value) < 8 {
		return "", 0, false
	}
	if !credentialLeafName(leafKey) {
		return "", 0, false
	}

	lowered := strings.ToLower(keyPath)
	for _, id := range catalog.Providers() {
		if strings.Contains(lowered, id) || strings.Contains(lowered, strings.ReplaceAll(id, "-", "_")) {
			// Finding a key under the provider's own block is itself
			// strong evidence, whatever the value shape.
			return id, 0.95, true
		}
	}

	if id, score := classify.DetectProvider(value); id != "" {
		return id, score, true
	}
	return "", 0, false
}

func credentialLeafName(name string) bool {
	lowered := strings.ToLower(name)
	switch lowered {
	case "api_key", "apikey", "api-key", "key", "token", "api_token", "access_token", "secret", "secret_key", "bearer_token":
		return true
	}
	return strings.HasSuffix(lowered, "_api_key") ||
		strings.HasSuffix(lowered, "apikey") ||
		strings.HasSuffix(lowered, "_token")
}

// extractEnvCandidates handles env-format app files (shell rc files),
// honoring the rule's own env var to provider mapping.
func extractEnvCandidates(path, content string, appEnv map[string]string) []classify.Candidate {
	var out []classify.Candidate
	for _, kv := range parseEnvContent(content) {
		provider, hint, ok := attributeEnvVar(kv.name, kv.value, appEnv)
		if !ok {
			continue
		}
		out = append(out, classify.Candidate{
			Provider:  provider,
			Source:    path,
			Value:     kv.value,
			ScoreHint: hint,
		})
	}
	return out
}
