package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	r, err := Parse([]byte(`
critical_dependencies:
  - actions/checkout@v4
  - actions/setup-go@v5
trusted_owners:
  - actions
  - github
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"actions/checkout@v4", "actions/setup-go@v5"}, r.CriticalDependencies)
	assert.Equal(t, []string{"actions", "github"}, r.TrustedOwners)
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "\n"} {
		r, err := Parse([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.Empty(t, r.CriticalDependencies)
		assert.Empty(t, r.TrustedOwners)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"unknown key", "critical_dependency:\n  - actions/checkout@v4\n", "not found in type"},
		{"wrong shape", "critical_dependencies: actions/checkout@v4\n", "cannot unmarshal"},
		{"syntax", "critical_dependencies: [\n", "decode rules"},
		{"empty dependency", "critical_dependencies:\n  - \"\"\n", "critical_dependencies[0] is empty"},
		{"owner with repo", "trusted_owners:\n  - actions/checkout\n", "must be an owner"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := Parse([]byte(tt.in))
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trusted_owners: [actions]\n"), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"actions"}, r.TrustedOwners)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
