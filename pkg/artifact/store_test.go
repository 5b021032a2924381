package artifact

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindlehq/bindle/pkg/requirement"
)

// writeWheel writes a minimal wheel containing a dist-info METADATA with the
// given Requires-Dist entries.
func writeWheel(t *testing.T, dir, filename string, requires []string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("index_workers-0.0.0+main.abc1234.dist-info/METADATA")
	require.NoError(t, err)

	content := "Metadata-Version: 2.1\nName: index-workers\nVersion: 0.0.0+main.abc1234\n"
	for _, r := range requires {
		content += "Requires-Dist: " + r + "\n"
	}
	content += "\nLong description follows.\nRequires-Dist: not-a-header-anymore\n"

	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestWheelFilename(t *testing.T) {
	req := requirement.New("index-my-workbook", "0.0.0+feature.deps.abc1234")
	want := "index_my_workbook-0.0.0+feature.deps.abc1234-py3-none-any.whl"
	if got := WheelFilename(req); got != want {
		t.Errorf("WheelFilename() = %q, want %q", got, want)
	}
}

func TestStore_DeclaredRequirements(t *testing.T) {
	dir := t.TempDir()
	req := requirement.New("index-workers", "0.0.0+main.abc1234")
	writeWheel(t, dir, WheelFilename(req), []string{
		"index-commands (==0.0.0+feature.deps.acbdc9f)",
		"requests",
	})

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	reqs, err := store.DeclaredRequirements(req)
	require.NoError(t, err)

	assert.Equal(t, []requirement.Requirement{
		{Name: "index-commands", Version: "0.0.0+feature.deps.acbdc9f"},
		{Name: "requests"},
	}, reqs)
}

func TestStore_DeclaredRequirements_StopsAtDescription(t *testing.T) {
	// Requires-Dist lines after the blank header separator belong to the
	// description and must not be parsed.
	dir := t.TempDir()
	req := requirement.New("index-workers", "0.0.0+main.abc1234")
	writeWheel(t, dir, WheelFilename(req), nil)

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	reqs, err := store.DeclaredRequirements(req)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestStore_DeclaredRequirements_Missing(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	req := requirement.New("index-ghost", "0.0.0+main.abc1234")
	_, err = store.DeclaredRequirements(req)
	require.Error(t, err)
	assert.True(t, IsArtifactNotFoundError(err))
	assert.Contains(t, err.Error(), "index-ghost==0.0.0+main.abc1234")
}

func TestStore_DeclaredRequirements_NoMetadata(t *testing.T) {
	dir := t.TempDir()
	req := requirement.New("index-workers", "0.0.0+main.abc1234")

	// Wheel with content but no dist-info METADATA.
	path := filepath.Join(dir, WheelFilename(req))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("index_workers/__init__.py")
	require.NoError(t, err)
	_, err = w.Write([]byte("pass\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	_, err = store.DeclaredRequirements(req)
	require.Error(t, err)
	assert.True(t, IsMetadataNotFoundError(err))
}

func TestStore_CachesMetadata(t *testing.T) {
	dir := t.TempDir()
	req := requirement.New("index-workers", "0.0.0+main.abc1234")
	path := writeWheel(t, dir, WheelFilename(req), []string{"requests"})

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	first, err := store.DeclaredRequirements(req)
	require.NoError(t, err)

	// Remove the wheel; a second lookup must come from the cache.
	require.NoError(t, os.Remove(path))

	second, err := store.DeclaredRequirements(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
