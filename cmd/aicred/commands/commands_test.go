package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/logging"
	"github.com/aicred/aicred/internal/registry"
	"github.com/aicred/aicred/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Logger:   logging.New(false, true),
		StoreDir: filepath.Join(t.TempDir(), "aicred"),
	}
}

func seedInstances(t *testing.T, cfg *config.Config) {
	t.Helper()
	collection := registry.NewProviderInstances()
	require.NoError(t, collection.Add(&registry.ProviderInstance{
		ID:           "openai-default",
		DisplayName:  "OpenAI",
		ProviderType: "openai",
		BaseURL:      "https://api.openai.com/v1",
		Keys: []registry.Credential{{
			ValueType: "api_key",
			Hash:      "abc123",
			Redacted:  "sk-proj-abcd****",
			Value:     "sk-proj-abcd-raw",
		}},
		Active: true,
	}))
	require.NoError(t, store.New(cfg.StoreDir).SaveInstances(collection))
}

func TestProvidersCommand_ExecutesSuccessfully(t *testing.T) {
	t.Parallel()

	cmd := NewProvidersCommand(testConfig(t))
	require.NoError(t, cmd.Execute())
}

func TestProvidersCommand_VerboseFlag(t *testing.T) {
	t.Parallel()

	cmd := NewProvidersCommand(testConfig(t))
	cmd.SetArgs([]string{"--verbose"})
	require.NoError(t, cmd.Execute())
}

func TestScannersCommand_ExecutesSuccessfully(t *testing.T) {
	t.Parallel()

	cmd := NewScannersCommand(testConfig(t))
	cmd.SetArgs([]string{"--verbose"})
	require.NoError(t, cmd.Execute())
}

func TestScanCommand_EmptyHome(t *testing.T) {
	t.Parallel()

	cmd := NewScanCommand(testConfig(t))
	cmd.SetArgs([]string{"--home", t.TempDir()})
	require.NoError(t, cmd.Execute())
}

func TestScanCommand_JSONOutput(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	envFile := filepath.Join(home, ".env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("OPENAI_API_KEY=sk-proj-cmdtest0000000000000000000000000000\n"), 0o600))

	cmd := NewScanCommand(testConfig(t))
	cmd.SetArgs([]string{"--home", home, "--json"})
	require.NoError(t, cmd.Execute())
}

func TestScanCommand_RejectsMissingHome(t *testing.T) {
	t.Parallel()

	cmd := NewScanCommand(testConfig(t))
	cmd.SetArgs([]string{"--home", filepath.Join(t.TempDir(), "nope")})
	require.Error(t, cmd.Execute())
}

func TestInstancesCommand_ListAndShow(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedInstances(t, cfg)

	list := NewInstancesCommand(cfg)
	list.SetArgs([]string{"list"})
	require.NoError(t, list.Execute())

	show := NewInstancesCommand(cfg)
	show.SetArgs([]string{"show", "openai-default"})
	require.NoError(t, show.Execute())
}

func TestInstancesCommand_ShowUnknown(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedInstances(t, cfg)

	cmd := NewInstancesCommand(cfg)
	cmd.SetArgs([]string{"show", "missing"})
	require.Error(t, cmd.Execute())
}

func TestInstancesCommand_RemoveAndDeactivate(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedInstances(t, cfg)

	deactivate := NewInstancesCommand(cfg)
	deactivate.SetArgs([]string{"deactivate", "openai-default"})
	require.NoError(t, deactivate.Execute())

	loaded, err := store.New(cfg.StoreDir).LoadInstances()
	require.NoError(t, err)
	inst, ok := loaded.Get("openai-default")
	require.True(t, ok)
	assert.False(t, inst.Active)

	remove := NewInstancesCommand(cfg)
	remove.SetArgs([]string{"remove", "openai-default"})
	require.NoError(t, remove.Execute())

	loaded, err = store.New(cfg.StoreDir).LoadInstances()
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
}

func TestLabelsCommand_AssignReplacesAndLists(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedInstances(t, cfg)

	assign := NewLabelsCommand(cfg)
	assign.SetArgs([]string{"assign", "production", "openai-default"})
	require.NoError(t, assign.Execute())

	again := NewLabelsCommand(cfg)
	again.SetArgs([]string{"assign", "staging", "openai-default"})
	require.NoError(t, again.Execute())

	_, labelRepo, err := store.New(cfg.StoreDir).LoadLabels()
	require.NoError(t, err)
	assignments := labelRepo.Assignments()
	require.Len(t, assignments, 1, "labels are exclusive per target")
	assert.Equal(t, "staging", assignments[0].LabelName)

	list := NewLabelsCommand(cfg)
	list.SetArgs([]string{"list"})
	require.NoError(t, list.Execute())
}

func TestTagsCommand_Lifecycle(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedInstances(t, cfg)

	add := NewTagsCommand(cfg)
	add.SetArgs([]string{"add", "fast", "--name", "Fast models"})
	require.NoError(t, add.Execute())

	assign := NewTagsCommand(cfg)
	assign.SetArgs([]string{"assign", "fast", "openai-default"})
	require.NoError(t, assign.Execute())

	tagRepo, _, err := store.New(cfg.StoreDir).LoadLabels()
	require.NoError(t, err)
	require.Len(t, tagRepo.Assignments(), 1)

	remove := NewTagsCommand(cfg)
	remove.SetArgs([]string{"rm", "fast"})
	require.NoError(t, remove.Execute())

	tagRepo, _, err = store.New(cfg.StoreDir).LoadLabels()
	require.NoError(t, err)
	assert.Empty(t, tagRepo.Assignments(), "removal cascades to assignments")
}

func TestSetupCommand_AutoAccept(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"),
		[]byte("GROQ_API_KEY=gsk_cmdtest000000000000000000000000000\n"), 0o600))

	cfg := testConfig(t)
	cmd := NewSetupCommand(cfg)
	cmd.SetArgs([]string{"--home", home, "--yes"})
	require.NoError(t, cmd.Execute())

	loaded, err := store.New(cfg.StoreDir).LoadInstances()
	require.NoError(t, err)
	assert.Equal(t, []string{"groq-default"}, loaded.IDs())
}

func TestSetupCommand_RejectsBadResolution(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cmd := NewSetupCommand(cfg)
	cmd.SetArgs([]string{"--home", t.TempDir(), "--on-existing", "overwrite"})
	require.Error(t, cmd.Execute())
}

func TestDoctorCommand_FreshStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cmd := NewDoctorCommand(cfg)
	cmd.SetArgs([]string{"--home", t.TempDir()})
	require.NoError(t, cmd.Execute())
}

func TestVersionCommand_PrintsVersion(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCommand(testConfig(t))
	require.NoError(t, cmd.Execute())
}
