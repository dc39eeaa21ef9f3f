package resolve

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestMaterialize_CreatesDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "custom.yaml")
	dst := filepath.Join(dir, "nested", "deeper", "critical_dependencies.yaml")
	writeFile(t, src, "trusted_owners: [actions]\n")

	require.NoError(t, Materialize(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "trusted_owners: [actions]\n", string(got))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	}
}

func TestMaterialize_OverwritesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "custom.yaml")
	dst := filepath.Join(dir, "critical_dependencies.yaml")
	writeFile(t, src, "critical_dependencies:\n  - actions/checkout@v4\n")
	writeFile(t, dst, "stale: content that is longer than the new file\n")

	for i := 0; i < 2; i++ {
		require.NoError(t, Materialize(src, dst), "run %d", i)

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "critical_dependencies:\n  - actions/checkout@v4\n", string(got))
	}

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMaterialize_SameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "critical_dependencies.yaml")
	writeFile(t, dst, "trusted_owners: [github]\n")

	require.NoError(t, Materialize(dst, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "trusted_owners: [github]\n", string(got))
}

func TestMaterialize_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dst := filepath.Join(dir, "critical_dependencies.yaml")
		err := Materialize(filepath.Join(dir, "missing.yaml"), dst)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, dst)
	})

	t.Run("source is a directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := Materialize(dir, filepath.Join(dir, "critical_dependencies.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("destination directory is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "custom.yaml")
		blocker := filepath.Join(dir, "blocker")
		writeFile(t, src, "trusted_owners: []\n")
		writeFile(t, blocker, "")

		err := Materialize(src, filepath.Join(blocker, "critical_dependencies.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create config directory")
	})
}
