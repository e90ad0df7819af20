package imageprocessing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lexio/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := config.Cfg.Image.TempDir
	config.Cfg.Image.TempDir = dir
	t.Cleanup(func() { config.Cfg.Image.TempDir = old })
	return dir
}

func TestSaveLoadDeleteTemp(t *testing.T) {
	useTempStore(t)

	fileID, err := saveTemp([]byte("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	data, mimeType, err := loadTemp(fileID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", mimeType)

	require.NoError(t, deleteTemp(fileID))
	_, _, err = loadTemp(fileID)
	assert.ErrorIs(t, err, ErrTempNotFound)
}

func TestDeleteTempMissingIsNoop(t *testing.T) {
	useTempStore(t)
	assert.NoError(t, deleteTemp("never-existed"))
}

func TestLoadTempUnknownHandle(t *testing.T) {
	useTempStore(t)
	_, _, err := loadTemp("nope")
	assert.ErrorIs(t, err, ErrTempNotFound)
}

func TestSweepTempRemovesOnlyOldFiles(t *testing.T) {
	dir := useTempStore(t)

	oldID, err := saveTemp([]byte("old"), "image/jpeg")
	require.NoError(t, err)
	freshID, err := saveTemp([]byte("fresh"), "image/jpeg")
	require.NoError(t, err)

	oldPath, err := findTemp(oldID)
	require.NoError(t, err)
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	removed, err := sweepTemp(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, _, err = loadTemp(oldID)
	assert.ErrorIs(t, err, ErrTempNotFound)
	_, _, err = loadTemp(freshID)
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSweepTempMissingDir(t *testing.T) {
	old := config.Cfg.Image.TempDir
	config.Cfg.Image.TempDir = filepath.Join(t.TempDir(), "does-not-exist")
	t.Cleanup(func() { config.Cfg.Image.TempDir = old })

	removed, err := sweepTemp(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestAllowedType(t *testing.T) {
	assert.True(t, AllowedType("image/jpeg"))
	assert.True(t, AllowedType("image/webp"))
	assert.False(t, AllowedType("application/pdf"))
	assert.False(t, AllowedType(""))
}
