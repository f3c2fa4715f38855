package tablestate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	f := NewFileStorage(path)
	f.Set("pinnedColumns_members", `["name"]`)
	f.Set("indentMode_members", "false")

	again := NewFileStorage(path)
	v, ok := again.Get("pinnedColumns_members")
	require.True(t, ok)
	assert.Equal(t, `["name"]`, v)

	v, ok = again.Get("indentMode_members")
	require.True(t, ok)
	assert.Equal(t, "false", v)
}

func TestFileStorageMissingFile(t *testing.T) {
	f := NewFileStorage(filepath.Join(t.TempDir(), "never-written.json"))
	_, ok := f.Get("anything")
	assert.False(t, ok)
}

func TestFileStorageCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := NewFileStorage(path)
	_, ok := f.Get("anything")
	assert.False(t, ok)

	// Writes still work after a corrupt load.
	f.Set("key", "value")
	v, ok := NewFileStorage(path).Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestFileStorageUnwritablePathIsSilent(t *testing.T) {
	f := NewFileStorage(filepath.Join(t.TempDir(), "missing-dir", "prefs.json"))

	// The write fails on disk but the in-memory copy still serves reads.
	f.Set("key", "value")
	v, ok := f.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}
