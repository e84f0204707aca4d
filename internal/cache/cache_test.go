package cache

import (
	"testing"
	"time"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCrates() []domain.Crate {
	return []domain.Crate{
		{ID: 1, Name: "Late Night", Handle: "late-night", User: &domain.PublicUser{ID: 5, Handle: "dj"},
			CreatedAt: domain.NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
		{ID: 2, Name: "Sunday"},
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "http://localhost:8980/")
	require.NoError(t, err)
	require.NoError(t, s.SaveUser(domain.User{ID: 5, Handle: "dj"}))
	require.NoError(t, s.SaveCrates(sampleCrates()))
	require.NoError(t, s.SaveLibraryAlbums([]domain.Album{{ID: 9, SpotifyID: "sp9", Name: "Blue"}}))
	require.NoError(t, s.SaveCrateAlbums(1, []domain.Album{{ID: 9}}))
	require.NoError(t, s.Close())

	// trailing slash and case do not change the server's database
	s, err = Open(dir, "HTTP://LOCALHOST:8980")
	require.NoError(t, err)
	defer s.Close()

	u, ok := s.GetUser()
	require.True(t, ok)
	assert.Equal(t, "dj", u.Handle)

	crates, ok := s.GetCrates()
	require.True(t, ok)
	require.Len(t, crates, 2)
	assert.Equal(t, "dj", crates[0].User.Handle)
	assert.True(t, crates[0].CreatedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	albums, ok := s.GetLibraryAlbums()
	require.True(t, ok)
	assert.Equal(t, "Blue", albums[0].Name)

	crateAlbums, ok := s.GetCrateAlbums(1)
	require.True(t, ok)
	assert.Len(t, crateAlbums, 1)

	_, ok = s.GetCrateAlbums(2)
	assert.False(t, ok)
}

func TestServersAreIsolated(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir, "http://one")
	require.NoError(t, err)
	require.NoError(t, a.SaveCrates(sampleCrates()))
	require.NoError(t, a.Close())

	b, err := Open(dir, "http://two")
	require.NoError(t, err)
	defer b.Close()
	_, ok := b.GetCrates()
	assert.False(t, ok)
}

func TestInvalidation(t *testing.T) {
	s, err := Open(t.TempDir(), "http://one")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveCrates(sampleCrates()))
	require.NoError(t, s.SaveCrateAlbums(1, []domain.Album{{ID: 9}}))
	require.NoError(t, s.SaveCrateAlbums(2, []domain.Album{{ID: 10}}))
	require.NoError(t, s.SaveUser(domain.User{ID: 5}))

	s.InvalidateCrate(1)
	_, ok := s.GetCrateAlbums(1)
	assert.False(t, ok)
	_, ok = s.GetCrates()
	assert.False(t, ok)
	_, ok = s.GetCrateAlbums(2)
	assert.True(t, ok)

	s.InvalidateAll()
	_, ok = s.GetCrateAlbums(2)
	assert.False(t, ok)
	_, ok = s.GetUser()
	assert.False(t, ok)
}

func TestMemoryOnly(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	require.NoError(t, s.SaveCrates(sampleCrates()))

	crates, ok := s.GetCrates()
	require.True(t, ok)
	assert.Len(t, crates, 2)

	s.InvalidateAll()
	_, ok = s.GetCrates()
	assert.False(t, ok)
	assert.NoError(t, s.Close())
}
