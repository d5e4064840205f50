// Package catalog is the static registry of provider metadata and
// application locator rules. It performs no I/O and is immutable
// after package init.
package catalog

import (
	"sort"

	"github.com/aicred/aicred/internal/errors"
)

// PrefixRule matches a credential value shape for one provider.
// An empty Prefix matches any value that satisfies the length bounds.
type PrefixRule struct {
	Prefix    string
	MinLength int // 0 = no bound
	MaxLength int // 0 = no bound
	ExactLen  int // 0 = no bound
	Score     float64
}

// ProviderMeta describes one GenAI provider: how its keys look, where
// they tend to live, and what a default instance should point at.
type ProviderMeta struct {
	ID            string
	Name          string
	Description   string
	BaseURL       string
	RequiresAuth  bool
	ValueType     string
	KeyPrefixes   []PrefixRule
	EnvVars       []string
	DefaultModels []string
}

// AppRule locates one application's config files. Paths are resolved
// relative to the scanned home directory.
type AppRule struct {
	Name    string
	AppName string
	Format  Format
	Paths   func(home string) []string
	// EnvProviders maps app-specific env var names to provider ids,
	// for apps that route keys through their own variable names.
	EnvProviders map[string]string
}

// Format tells the scanner how to parse a located file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatEnv  Format = "env"
)

// Providers returns all known provider ids, sorted.
func Providers() []string {
	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the metadata for a provider id.
func Lookup(id string) (*ProviderMeta, error) {
	meta, ok := providers[id]
	if !ok {
		return nil, errors.NotFoundError{
			Resource:   "provider",
			ID:         id,
			Suggestion: "Run 'aicred providers' to list known providers",
		}
	}
	return meta, nil
}

// Known reports whether a provider id is in the registry.
func Known(id string) bool {
	_, ok := providers[id]
	return ok
}

// DefaultBaseURL returns the catalog base URL for a provider, or empty
// for unknown or endpoint-specific providers.
func DefaultBaseURL(id string) string {
	if meta, ok := providers[id]; ok {
		return meta.BaseURL
	}
	return ""
}

// DefaultModels returns the catalog default model ids for a provider.
func DefaultModels(id string) []string {
	if meta, ok := providers[id]; ok {
		return append([]string(nil), meta.DefaultModels...)
	}
	return nil
}

// EnvVarProvider maps a well-known environment variable name to the
// provider it belongs to. Returns false for unrecognized names.
func EnvVarProvider(name string) (string, bool) {
	id, ok := envVarIndex[name]
	return id, ok
}

// Scanners returns all application rule names, sorted.
func Scanners() []string {
	names := make([]string, 0, len(appRules))
	for name := range appRules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupScanner returns the locator rule for an application scanner.
func LookupScanner(name string) (*AppRule, error) {
	rule, ok := appRules[name]
	if !ok {
		return nil, errors.NotFoundError{
			Resource:   "scanner",
			ID:         name,
			Suggestion: "Run 'aicred scanners' to list known application scanners",
		}
	}
	return rule, nil
}

// AppRules returns every application rule in name order.
func AppRules() []*AppRule {
	names := Scanners()
	rules := make([]*AppRule, 0, len(names))
	for _, name := range names {
		rules = append(rules, appRules[name])
	}
	return rules
}

var envVarIndex = buildEnvVarIndex()

func buildEnvVarIndex() map[string]string {
	index := make(map[string]string)
	for id, meta := range providers {
		for _, name := range meta.EnvVars {
			index[name] = id
		}
	}
	return index
}
