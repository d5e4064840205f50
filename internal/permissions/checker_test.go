package permissions_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicred/aicred/internal/permissions"
)

func writeFile(t *testing.T, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_API_KEY=sk-test\n"), mode))
	// umask may have stripped bits; force the mode we want to test
	require.NoError(t, os.Chmod(path, mode))
	return path
}

// TestCheckOwnerOnlyPasses verifies 0600 produces no finding
func TestCheckOwnerOnlyPasses(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission check")
	}

	assert.Nil(t, permissions.Check(writeFile(t, 0o600)))
}

// TestCheckWorldReadableFlags verifies group/other bits are flagged
func TestCheckWorldReadableFlags(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission check")
	}

	path := writeFile(t, 0o644)
	finding := permissions.Check(path)
	require.NotNil(t, finding)
	assert.Equal(t, path, finding.Path)
	assert.Contains(t, finding.Problem, "group or other")
	assert.Contains(t, finding.Suggestion, "chmod 600")
	assert.Contains(t, finding.String(), "644")
}

// TestCheckDirectorySuggestion verifies directories get the 700 hint
func TestCheckDirectorySuggestion(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission check")
	}

	dir := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.Mkdir(dir, 0o755))

	finding := permissions.Check(dir)
	require.NotNil(t, finding)
	assert.Contains(t, finding.Suggestion, "chmod 700")
}

// TestCheckMissingPath verifies absent paths are not findings
func TestCheckMissingPath(t *testing.T) {
	t.Parallel()

	assert.Nil(t, permissions.Check(filepath.Join(t.TempDir(), "nope")))
}

// TestAuditOrdersAndFilters verifies only offending paths come back
func TestAuditOrdersAndFilters(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission check")
	}

	good := writeFile(t, 0o600)
	bad := writeFile(t, 0o640)
	missing := filepath.Join(t.TempDir(), "missing")

	findings := permissions.Audit([]string{good, bad, missing})
	require.Len(t, findings, 1)
	assert.Equal(t, bad, findings[0].Path)
}
