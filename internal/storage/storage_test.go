package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestAtomicWriteReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, AtomicWrite(path, []byte("first")))
	require.NoError(t, AtomicWrite(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}

func TestRepositoryMissingFileYieldsEmpty(t *testing.T) {
	repo := NewRepository[record](filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, []record{}, repo.List())
}

func TestRepositoryCorruptFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewRepository[record](path)
	assert.Equal(t, []record{}, repo.List())
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository[record](filepath.Join(t.TempDir(), "records.json"))
	in := []record{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}}
	require.NoError(t, repo.ReplaceAll(in))
	assert.Equal(t, in, repo.List())

	require.NoError(t, repo.ReplaceAll([]record{{ID: "c", Name: "Gamma"}}))
	assert.Equal(t, []record{{ID: "c", Name: "Gamma"}}, repo.List())
}

func TestRepositoryEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.json")
	repo := NewRepository[record](path)
	require.NoError(t, repo.EnsureFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// Existing content is not clobbered.
	require.NoError(t, repo.ReplaceAll([]record{{ID: "a"}}))
	require.NoError(t, repo.EnsureFile())
	assert.Len(t, repo.List(), 1)
}
