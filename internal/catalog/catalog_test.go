package catalog_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/errors"
)

// TestProvidersSorted verifies the provider list is stable and sorted
func TestProvidersSorted(t *testing.T) {
	t.Parallel()

	ids := catalog.Providers()
	require.NotEmpty(t, ids)
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Contains(t, ids, "openai")
	assert.Contains(t, ids, "anthropic")
	assert.Contains(t, ids, "aws-bedrock")
	assert.Equal(t, ids, catalog.Providers(), "repeated calls must agree")
}

// TestLookupKnownProvider verifies metadata fields are populated
func TestLookupKnownProvider(t *testing.T) {
	t.Parallel()

	meta, err := catalog.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", meta.ID)
	assert.Equal(t, "https://api.openai.com/v1", meta.BaseURL)
	assert.True(t, meta.RequiresAuth)
	assert.NotEmpty(t, meta.KeyPrefixes)
	assert.Contains(t, meta.EnvVars, "OPENAI_API_KEY")
}

// TestLookupUnknownProvider verifies a NotFoundError is returned
func TestLookupUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := catalog.Lookup("definitely-not-a-provider")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

// TestDefaultBaseURL covers known, endpoint-specific, and unknown ids
func TestDefaultBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://api.groq.com/openai/v1", catalog.DefaultBaseURL("groq"))
	assert.Empty(t, catalog.DefaultBaseURL("azure"), "azure base URL is endpoint-specific")
	assert.Empty(t, catalog.DefaultBaseURL("unknown"))
}

// TestDefaultModelsCopies verifies callers cannot mutate the catalog
func TestDefaultModelsCopies(t *testing.T) {
	t.Parallel()

	models := catalog.DefaultModels("openai")
	require.NotEmpty(t, models)
	models[0] = "mutated"
	assert.NotEqual(t, "mutated", catalog.DefaultModels("openai")[0])
}

// TestEnvVarProvider verifies the env var reverse index
func TestEnvVarProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		envVar   string
		provider string
		ok       bool
	}{
		{"OPENAI_API_KEY", "openai", true},
		{"ANTHROPIC_API_KEY", "anthropic", true},
		{"GROQ_API_KEY", "groq", true},
		{"HF_TOKEN", "huggingface", true},
		{"AWS_ACCESS_KEY_ID", "aws-bedrock", true},
		{"PATH", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			id, ok := catalog.EnvVarProvider(tt.envVar)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.provider, id)
		})
	}
}

// TestScannersAndRules verifies app rules resolve paths under home
func TestScannersAndRules(t *testing.T) {
	t.Parallel()

	names := catalog.Scanners()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "claude-desktop")
	assert.Contains(t, names, "goose")
	assert.Contains(t, names, "gsh")

	rule, err := catalog.LookupScanner("claude-desktop")
	require.NoError(t, err)
	paths := rule.Paths("/home/alice")
	require.NotEmpty(t, paths)
	for _, p := range paths {
		assert.True(t, strings.HasPrefix(p, "/home/alice"), "path %q must be under home", p)
	}

	_, err = catalog.LookupScanner("nope")
	assert.True(t, errors.IsNotFound(err))
}

// TestGshEnvProviderMapping verifies app-specific env var routing
func TestGshEnvProviderMapping(t *testing.T) {
	t.Parallel()

	rule, err := catalog.LookupScanner("gsh")
	require.NoError(t, err)
	assert.Equal(t, "groq", rule.EnvProviders["GSH_FAST_MODEL_API_KEY"])
	assert.Equal(t, "openrouter", rule.EnvProviders["GSH_SLOW_MODEL_API_KEY"])
}
