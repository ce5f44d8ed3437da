package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestLoad_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.gif")
	touch(t, dir, "a.GIF")
	touch(t, dir, "c.png")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.gif"), 0o755))

	cat, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, 2, cat.Len())
	assert.Equal(t, "a.GIF", cat.Asset(0).Name)
	assert.Equal(t, "b.gif", cat.Asset(1).Name)
	assert.Equal(t, filepath.Join(dir, "b.gif"), cat.Asset(1).Path)
}

func TestLoad_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gifs")

	cat, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Loading again must be idempotent.
	_, err = Load(dir)
	assert.NoError(t, err)
}

func TestAdvance_Wraps(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.gif", "b.gif", "c.gif"} {
		touch(t, dir, name)
	}
	cat, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, cat.Advance(0, 1))
	assert.Equal(t, 0, cat.Advance(2, 1))
	assert.Equal(t, 2, cat.Advance(0, -1))
	assert.Equal(t, 1, cat.Advance(2, -1))
}

func TestAdvance_RoundTrips(t *testing.T) {
	for _, count := range []int{1, 2, 3, 7} {
		dir := t.TempDir()
		for i := 0; i < count; i++ {
			touch(t, dir, string(rune('a'+i))+".gif")
		}
		cat, err := Load(dir)
		require.NoError(t, err)
		require.Equal(t, count, cat.Len())

		for start := 0; start < count; start++ {
			idx := start
			for i := 0; i < count; i++ {
				idx = cat.Advance(idx, 1)
			}
			assert.Equal(t, start, idx, "forward round trip, n=%d start=%d", count, start)

			idx = start
			for i := 0; i < count; i++ {
				idx = cat.Advance(idx, -1)
			}
			assert.Equal(t, start, idx, "backward round trip, n=%d start=%d", count, start)
		}
	}
}
