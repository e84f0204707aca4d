package search

import (
	"testing"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		CrateItem(domain.Crate{ID: 1, Name: "Late Night"}),
		CrateItem(domain.Crate{ID: 2, Name: "Sunday Morning"}),
		UserItem(domain.PublicUser{ID: 7, DisplayName: "Miles Davis", Handle: "miles"}),
		AlbumItem(domain.Album{SpotifyID: "bt", Name: "Blue Train", Artists: []domain.Artist{{Name: "John Coltrane"}}}),
	}
}

func TestIndexFilter(t *testing.T) {
	idx := NewIndex(nil)
	require.Equal(t, 4, idx.Add(testItems()...))

	results := idx.Filter("sunday")
	require.NotEmpty(t, results)
	assert.Equal(t, KindCrate, results[0].Kind)
	assert.Equal(t, int64(2), results[0].Crate.ID)
	assert.Len(t, results[0].MatchedIndexes, 6)

	results = idx.Filter("coltrane")
	require.NotEmpty(t, results)
	assert.Equal(t, KindAlbum, results[0].Kind)
	assert.Equal(t, "bt", results[0].Album.SpotifyID)

	// handle is searchable
	users := idx.FilterKind("@miles", KindUser)
	require.Len(t, users, 1)
	assert.Equal(t, int64(7), users[0].User.ID)

	assert.Empty(t, idx.Filter("   "))
}

func TestIndexSkipsDuplicates(t *testing.T) {
	idx := NewIndex(nil)
	idx.Add(testItems()...)
	assert.Equal(t, 0, idx.Add(CrateItem(domain.Crate{ID: 1, Name: "Renamed"})))
	assert.Equal(t, 4, idx.Count())

	idx.Clear()
	assert.Equal(t, 0, idx.Count())
	assert.Nil(t, idx.Filter("late"))
}

func TestRebuildFromState(t *testing.T) {
	crates := []domain.Crate{{ID: 1, Name: "Late Night"}, {ID: 2, Name: "Sunday Morning"}}
	albums := []domain.Album{{ID: 3, SpotifyID: "bt", Name: "Blue Train"}}

	s := state.Initial(50)
	for _, a := range []state.Action{
		state.LoadCrates{Request: "c", Pageable: domain.FirstPage(50)},
		state.CratesLoaded{Request: "c", Result: domain.Ok(domain.Page[domain.Crate]{Content: crates, Size: 50, Last: true})},
		state.LoadTrending{Request: "t", List: state.TrendingCrates, Pageable: domain.FirstPage(50)},
		state.TrendingLoaded{Request: "t", List: state.TrendingCrates, Result: domain.Ok(domain.Page[domain.Crate]{Content: crates[:1], Size: 50, Last: true})},
		state.LoadLibraryAlbums{Request: "l", Pageable: domain.FirstPage(50)},
		state.LibraryAlbumsLoaded{Request: "l", Result: domain.Ok(domain.Page[domain.Album]{Content: albums, Size: 50, Last: true})},
	} {
		s = state.Reduce(s, a)
	}

	idx := NewIndex(nil)
	idx.Rebuild(s)
	assert.Equal(t, 3, idx.Count())

	results := idx.Filter("blue")
	require.NotEmpty(t, results)
	assert.Equal(t, KindAlbum, results[0].Kind)
}

func TestRankCrates(t *testing.T) {
	crates := []domain.Crate{
		{ID: 1, Name: "Late Night"},
		{ID: 2, Name: "Nightcrawler"},
		{ID: 3, Name: "Sunday"},
		{ID: 4, Name: "night"},
	}

	ranked := RankCrates("Night", crates)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(4), ranked[0].ID) // exact
	assert.Equal(t, int64(2), ranked[1].ID) // prefix
	assert.Equal(t, int64(1), ranked[2].ID) // contains

	assert.Empty(t, RankCrates("", crates))
}

func TestRankUsers(t *testing.T) {
	users := []domain.PublicUser{
		{ID: 1, DisplayName: "Smiley", Handle: "sm"},
		{ID: 2, DisplayName: "Miles Davis", Handle: "miles"},
		{ID: 3, DisplayName: "Coltrane"},
	}

	ranked := RankUsers("miles", users)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].ID)
	assert.Equal(t, int64(1), ranked[1].ID)
}
