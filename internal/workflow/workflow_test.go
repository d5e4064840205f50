package workflow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicred/aicred/internal/labels"
	"github.com/aicred/aicred/internal/registry"
	"github.com/aicred/aicred/internal/store"
	"github.com/aicred/aicred/internal/workflow"
	"github.com/aicred/aicred/pkg/keyfinder"
)

const (
	openaiKey = "sk-proj-test000000000000000000000000000000001"
	groqKey   = "gsk_test0000000000000000000000000000000000"
)

// envHome creates a home directory whose .env holds two high
// confidence credentials.
func envHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	content := "OPENAI_API_KEY=" + openaiKey + "\nGROQ_API_KEY=" + groqKey + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte(content), 0o600))
	return home
}

// scriptedCollaborator overrides individual decisions and defaults the
// rest to auto behavior.
type scriptedCollaborator struct {
	review    func(result *keyfinder.ScanResult, preselected []string) ([]string, error)
	configure func(draft workflow.InstanceDraft) (workflow.InstanceDraft, error)
	choose    func(instances []*registry.ProviderInstance) ([]workflow.LabelChoice, error)
	resolve   func() (workflow.Resolution, error)
	confirm   func(summary workflow.Summary) (bool, error)
}

func (c *scriptedCollaborator) ReviewKeys(result *keyfinder.ScanResult, preselected []string) ([]string, error) {
	if c.review != nil {
		return c.review(result, preselected)
	}
	return preselected, nil
}

func (c *scriptedCollaborator) ConfigureInstance(draft workflow.InstanceDraft) (workflow.InstanceDraft, error) {
	if c.configure != nil {
		return c.configure(draft)
	}
	return draft, nil
}

func (c *scriptedCollaborator) ChooseLabels(instances []*registry.ProviderInstance) ([]workflow.LabelChoice, error) {
	if c.choose != nil {
		return c.choose(instances)
	}
	return nil, nil
}

func (c *scriptedCollaborator) ResolveExisting() (workflow.Resolution, error) {
	if c.resolve != nil {
		return c.resolve()
	}
	return workflow.ResolutionCancel, nil
}

func (c *scriptedCollaborator) ConfirmPersist(summary workflow.Summary) (bool, error) {
	if c.confirm != nil {
		return c.confirm(summary)
	}
	return true, nil
}

func newSession(t *testing.T, home string, s *store.Store, collab workflow.Collaborator, resolution workflow.Resolution) *workflow.Session {
	t.Helper()
	session, err := workflow.NewSession(workflow.Config{
		Scan:         keyfinder.ScanOptions{HomeDir: home},
		Collaborator: collab,
		Store:        s,
		Resolution:   resolution,
	})
	require.NoError(t, err)
	return session
}

// TestAutoRunPersistsInstances verifies the unattended path end to end
func TestAutoRunPersistsInstances(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	session := newSession(t, envHome(t), s, workflow.AutoCollaborator{}, "")

	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, workflow.StateDone, session.State())
	require.True(t, s.Exists())

	loaded, err := s.LoadInstances()
	require.NoError(t, err)
	assert.Equal(t, []string{"groq-default", "openai-default"}, loaded.IDs())

	inst, ok := loaded.Get("openai-default")
	require.True(t, ok)
	assert.Equal(t, "OpenAI", inst.DisplayName)
	assert.Equal(t, "https://api.openai.com/v1", inst.BaseURL)
	assert.True(t, inst.Active)
	require.Len(t, inst.Keys, 1)
	assert.Equal(t, openaiKey, inst.Keys[0].Value, "raw value lands in the document by default")
	assert.NotEmpty(t, inst.Keys[0].Redacted)
	assert.NotEmpty(t, inst.Models, "catalog default models applied")
}

// TestCancelDuringReviewWritesNothing verifies clean abort at review
func TestCancelDuringReviewWritesNothing(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		review: func(*keyfinder.ScanResult, []string) ([]string, error) {
			return nil, workflow.ErrCancelled
		},
	}
	session := newSession(t, envHome(t), s, collab, "")

	err := session.Run(context.Background())
	require.ErrorIs(t, err, workflow.ErrCancelled)
	assert.Equal(t, workflow.StateAborted, session.State())
	assert.False(t, s.Exists())
}

// TestEmptySelectionFinishesWithoutWrites verifies the nothing-chosen path
func TestEmptySelectionFinishesWithoutWrites(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		review: func(*keyfinder.ScanResult, []string) ([]string, error) {
			return nil, nil
		},
	}
	session := newSession(t, envHome(t), s, collab, "")

	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, workflow.StateDone, session.State())
	assert.False(t, s.Exists())
}

// TestValuesStrippedBeforeReview verifies no raw value reaches the collaborator
func TestValuesStrippedBeforeReview(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		review: func(result *keyfinder.ScanResult, preselected []string) ([]string, error) {
			for _, key := range result.Keys {
				assert.Empty(t, key.Value)
			}
			return preselected, nil
		},
	}
	session := newSession(t, envHome(t), s, collab, "")
	require.NoError(t, session.Run(context.Background()))
}

// TestPreselectionExcludesMediumConfidence verifies the default review
// selection holds exactly the high and very_high keys
func TestPreselectionExcludesMediumConfidence(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	content := "OPENAI_API_KEY=" + openaiKey + "\nMISTRAL_API_KEY=shortvalue123\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte(content), 0o600))

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		review: func(result *keyfinder.ScanResult, preselected []string) ([]string, error) {
			require.Len(t, result.Keys, 2)

			wanted := make(map[string]bool)
			for _, key := range result.Keys {
				high := key.Confidence == "high" || key.Confidence == "very_high"
				wanted[key.Hash] = high
				if key.Provider == "mistral" {
					assert.False(t, high, "short mistral value rates medium")
				}
			}

			assert.Len(t, preselected, 1)
			for _, hash := range preselected {
				assert.True(t, wanted[hash], "preselected hash %s is not high tier", hash)
			}
			return preselected, nil
		},
	}
	session := newSession(t, home, s, collab, "")
	require.NoError(t, session.Run(context.Background()))

	loaded, err := s.LoadInstances()
	require.NoError(t, err)
	assert.Equal(t, []string{"openai-default"}, loaded.IDs(), "only the preselected key becomes an instance")
}

// TestMergeKeepsExistingInstance verifies merge never overwrites an id
func TestMergeKeepsExistingInstance(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	existing := registry.NewProviderInstances()
	require.NoError(t, existing.Add(&registry.ProviderInstance{
		ID:           "openai-default",
		DisplayName:  "Existing",
		ProviderType: "openai",
		BaseURL:      "https://proxy.internal/v1",
	}))
	require.NoError(t, s.SaveInstances(existing))

	session := newSession(t, envHome(t), s, workflow.AutoCollaborator{}, workflow.ResolutionMerge)
	require.NoError(t, session.Run(context.Background()))

	loaded, err := s.LoadInstances()
	require.NoError(t, err)
	assert.Equal(t, []string{"groq-default", "openai-default"}, loaded.IDs())

	inst, ok := loaded.Get("openai-default")
	require.True(t, ok)
	assert.Equal(t, "Existing", inst.DisplayName)
	assert.Equal(t, "https://proxy.internal/v1", inst.BaseURL)
}

// TestReplaceDiscardsExisting verifies replace semantics
func TestReplaceDiscardsExisting(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	existing := registry.NewProviderInstances()
	require.NoError(t, existing.Add(&registry.ProviderInstance{
		ID:           "cohere-default",
		DisplayName:  "Old",
		ProviderType: "cohere",
		BaseURL:      "https://api.cohere.com",
	}))
	require.NoError(t, s.SaveInstances(existing))

	session := newSession(t, envHome(t), s, workflow.AutoCollaborator{}, workflow.ResolutionReplace)
	require.NoError(t, session.Run(context.Background()))

	loaded, err := s.LoadInstances()
	require.NoError(t, err)
	assert.Equal(t, []string{"groq-default", "openai-default"}, loaded.IDs())
}

// TestAutoModeNeedsExplicitResolution verifies auto mode will not
// touch an existing configuration without instruction
func TestAutoModeNeedsExplicitResolution(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	existing := registry.NewProviderInstances()
	require.NoError(t, existing.Add(&registry.ProviderInstance{
		ID:           "openai-default",
		DisplayName:  "Existing",
		ProviderType: "openai",
		BaseURL:      "https://api.openai.com/v1",
	}))
	require.NoError(t, s.SaveInstances(existing))

	session := newSession(t, envHome(t), s, workflow.AutoCollaborator{}, "")
	err := session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, workflow.StateAborted, session.State())

	loaded, loadErr := s.LoadInstances()
	require.NoError(t, loadErr)
	inst, ok := loaded.Get("openai-default")
	require.True(t, ok)
	assert.Equal(t, "Existing", inst.DisplayName)
}

// TestConfirmDeclineAborts verifies the last gate before writing
func TestConfirmDeclineAborts(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		confirm: func(workflow.Summary) (bool, error) { return false, nil },
	}
	session := newSession(t, envHome(t), s, collab, "")

	err := session.Run(context.Background())
	require.ErrorIs(t, err, workflow.ErrCancelled)
	assert.False(t, s.Exists())
}

// TestChosenLabelsArePersisted verifies label assignments reach the store
func TestChosenLabelsArePersisted(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		choose: func([]*registry.ProviderInstance) ([]workflow.LabelChoice, error) {
			return []workflow.LabelChoice{{
				LabelName: "production",
				Target:    labels.Target{InstanceID: "openai-default"},
			}}, nil
		},
	}
	session := newSession(t, envHome(t), s, collab, "")
	require.NoError(t, session.Run(context.Background()))

	_, labelRepo, err := s.LoadLabels()
	require.NoError(t, err)
	label, ok := labelRepo.LabelFor(labels.Target{InstanceID: "openai-default"})
	require.True(t, ok)
	assert.Equal(t, "production", label.Name)
}

// TestConfigureOverridesDraft verifies collaborator edits land in the instance
func TestConfigureOverridesDraft(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		configure: func(draft workflow.InstanceDraft) (workflow.InstanceDraft, error) {
			if draft.ProviderType == "openai" {
				draft.ID = "openai-work"
				draft.DisplayName = "Work account"
			}
			return draft, nil
		},
	}
	session := newSession(t, envHome(t), s, collab, "")
	require.NoError(t, session.Run(context.Background()))

	loaded, err := s.LoadInstances()
	require.NoError(t, err)
	inst, ok := loaded.Get("openai-work")
	require.True(t, ok)
	assert.Equal(t, "Work account", inst.DisplayName)
}

// TestInvalidDraftRejectedAfterRetries verifies a bad instance id
// cannot sneak past configuring
func TestInvalidDraftRejectedAfterRetries(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	collab := &scriptedCollaborator{
		configure: func(draft workflow.InstanceDraft) (workflow.InstanceDraft, error) {
			draft.ID = "Not A Valid Id"
			return draft, nil
		},
	}
	session := newSession(t, envHome(t), s, collab, "")

	err := session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, workflow.StateAborted, session.State())
	assert.False(t, s.Exists())
}

// capturingDiscoverer records the credential it was handed and returns
// a fixed model list.
type capturingDiscoverer struct {
	apiKey string
	models []registry.Model
}

func (d *capturingDiscoverer) Discover(_ context.Context, providerType, _, apiKey string) ([]registry.Model, error) {
	if providerType == "openai" {
		d.apiKey = apiKey
		return d.models, nil
	}
	return nil, nil
}

// TestDiscoveredModelsReplaceDefaults verifies live discovery wins
func TestDiscoveredModelsReplaceDefaults(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "aicred"))
	disc := &capturingDiscoverer{
		models: []registry.Model{{ModelID: "gpt-test", Name: "gpt-test"}},
	}
	session, err := workflow.NewSession(workflow.Config{
		Scan:       keyfinder.ScanOptions{HomeDir: envHome(t)},
		Store:      s,
		Discoverer: disc,
	})
	require.NoError(t, err)
	require.NoError(t, session.Run(context.Background()))

	assert.Equal(t, openaiKey, disc.apiKey, "discoverer receives the raw credential")

	loaded, loadErr := s.LoadInstances()
	require.NoError(t, loadErr)
	inst, ok := loaded.Get("openai-default")
	require.True(t, ok)
	require.Len(t, inst.Models, 1)
	assert.Equal(t, "gpt-test", inst.Models[0].ModelID)
}

// TestHTTPDiscovererParsesDataShape verifies the bearer-token endpoint path
func TestHTTPDiscovererParsesDataShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer "+openaiKey, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-b"},{"id":"gpt-a"}]}`))
	}))
	defer srv.Close()

	disc := workflow.NewHTTPDiscoverer()
	models, err := disc.Discover(context.Background(), "openai", srv.URL, openaiKey)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "gpt-a", models[0].ModelID)
	assert.Equal(t, "gpt-b", models[1].ModelID)
}

// TestHTTPDiscovererAnthropicHeaders verifies the provider-specific auth
func TestHTTPDiscovererAnthropicHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-x"}]}`))
	}))
	defer srv.Close()

	disc := workflow.NewHTTPDiscoverer()
	models, err := disc.Discover(context.Background(), "anthropic", srv.URL, "secret")
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "claude-x", models[0].ModelID)
}

// TestHTTPDiscovererErrorStatus verifies failure surfaces instead of
// an empty success
func TestHTTPDiscovererErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	disc := workflow.NewHTTPDiscoverer()
	_, err := disc.Discover(context.Background(), "openai", srv.URL, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
