package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/registry"
)

// ModelDiscoverer fills in the model list for a drafted instance.
// Implementations must not mutate anything; failures fall back to the
// catalog defaults.
type ModelDiscoverer interface {
	Discover(ctx context.Context, providerType, baseURL, apiKey string) ([]registry.Model, error)
}

// NoopDiscoverer never discovers anything, leaving drafts on catalog
// defaults. It is the default for offline curation.
type NoopDiscoverer struct{}

// Discover returns no models and no error.
func (NoopDiscoverer) Discover(context.Context, string, string, string) ([]registry.Model, error) {
	return nil, nil
}

// HTTPDiscoverer queries a provider's models endpoint with the
// discovered credential. Anthropic and Google use their own auth
// headers; everything else takes a bearer token.
type HTTPDiscoverer struct {
	Client *http.Client
}

// NewHTTPDiscoverer creates a discoverer with a bounded timeout.
func NewHTTPDiscoverer() *HTTPDiscoverer {
	return &HTTPDiscoverer{Client: &http.Client{Timeout: 10 * time.Second}}
}

// modelsResponse covers the two wire shapes in the wild: the OpenAI
// style {"data": [{"id": ...}]} and the Gemini style
// {"models": [{"name": ..., "displayName": ...}]}.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Models []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"models"`
}

// Discover lists models from {base_url}/models.
func (d *HTTPDiscoverer) Discover(ctx context.Context, providerType, baseURL, apiKey string) ([]registry.Model, error) {
	if baseURL == "" {
		return nil, errors.InvalidInputError{
			Field:   "base_url",
			Message: "model discovery needs a base URL",
		}
	}

	url := strings.TrimRight(baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	switch providerType {
	case "anthropic":
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
	case "google":
		req.Header.Set("x-goog-api-key", apiKey)
	default:
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, errors.IOError{Op: "list models", Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.IOError{
			Op:         "list models",
			Path:       url,
			Suggestion: "Check that the credential is valid for this provider",
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.IOError{Op: "list models", Path: url, Err: err}
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.SerializationError{Format: "json", Path: url, Err: err}
	}

	var models []registry.Model
	for _, entry := range parsed.Data {
		if entry.ID == "" {
			continue
		}
		models = append(models, registry.Model{ModelID: entry.ID, Name: entry.ID})
	}
	for _, entry := range parsed.Models {
		id := strings.TrimPrefix(entry.Name, "models/")
		if id == "" {
			continue
		}
		name := entry.DisplayName
		if name == "" {
			name = id
		}
		models = append(models, registry.Model{ModelID: id, Name: name})
	}

	sort.Slice(models, func(i, j int) bool { return models[i].ModelID < models[j].ModelID })
	return models, nil
}
