package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMusicalFile(t *testing.T, dir, id, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0644))
}

func setupCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeMusicalFile(t, dir, "anastasia", `{
		"title": "Anastasia",
		"songs": [
			{"title": "Once Upon a December", "tracks": [{"name": "Instrumental", "url": "https://www.youtube.com/watch?v=abc"}]}
		]
	}`)
	writeMusicalFile(t, dir, "hamilton", `{"title": "Hamilton", "songs": []}`)
	return dir
}

func TestGetMusical(t *testing.T) {
	repo, err := NewFileMusicalRepository(setupCatalog(t))
	require.NoError(t, err)
	defer repo.Close()

	m, ok := repo.GetMusical("anastasia")
	require.True(t, ok)
	assert.Equal(t, "anastasia", m.ID)
	assert.Equal(t, "Anastasia", m.Title)
	require.Len(t, m.Songs, 1)
	assert.Equal(t, "Once Upon a December", m.Songs[0].Title)
	require.Len(t, m.Songs[0].Tracks, 1)
	assert.Equal(t, "Instrumental", m.Songs[0].Tracks[0].Name)
}

func TestGetMusicalUnknownID(t *testing.T) {
	repo, err := NewFileMusicalRepository(setupCatalog(t))
	require.NoError(t, err)
	defer repo.Close()

	_, ok := repo.GetMusical("cats")
	assert.False(t, ok)
}

func TestGetAllMusicalIDsSorted(t *testing.T) {
	repo, err := NewFileMusicalRepository(setupCatalog(t))
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, []string{"anastasia", "hamilton"}, repo.GetAllMusicalIDs())
}

func TestGetAllMusicalBaseData(t *testing.T) {
	repo, err := NewFileMusicalRepository(setupCatalog(t))
	require.NoError(t, err)
	defer repo.Close()

	base := repo.GetAllMusicalBaseData()
	require.Len(t, base, 2)
	assert.Equal(t, "anastasia", base[0].ID)
	assert.Equal(t, "Anastasia", base[0].Title)
	assert.Equal(t, "hamilton", base[1].ID)
}

func TestInvalidFilesAreSkipped(t *testing.T) {
	dir := setupCatalog(t)
	writeMusicalFile(t, dir, "broken", `{not json`)

	repo, err := NewFileMusicalRepository(dir)
	require.NoError(t, err)
	defer repo.Close()

	assert.Len(t, repo.GetAllMusicalIDs(), 2)
	_, ok := repo.GetMusical("broken")
	assert.False(t, ok)
}

func TestNonJSONEntriesAreIgnored(t *testing.T) {
	dir := setupCatalog(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("notes"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	repo, err := NewFileMusicalRepository(dir)
	require.NoError(t, err)
	defer repo.Close()

	assert.Len(t, repo.GetAllMusicalIDs(), 2)
}

func TestMissingDirectoryFails(t *testing.T) {
	_, err := NewFileMusicalRepository(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
