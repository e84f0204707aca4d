package state

import (
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
)

// MyCrates returns the user's crates in load order
func MyCrates(s State) []domain.Crate {
	return s.Crates.List.Value.Items.Values()
}

// NextCratesPage returns the page a load-more of the crate list should
// request, or false when the list is exhausted or busy
func NextCratesPage(s State) (domain.Pageable, bool) {
	return NextPage(s.Crates.List)
}

// NextLibraryPage returns the page a load-more of library albums should request
func NextLibraryPage(s State) (domain.Pageable, bool) {
	return NextPage(s.Library.Albums)
}

// NextPublicCratesPage returns the page a load-more of public crates should request
func NextPublicCratesPage(s State) (domain.Pageable, bool) {
	return NextPage(s.Discover.PublicCrates)
}

// NextCollectionPage returns the page a load-more of saved crates should request
func NextCollectionPage(s State) (domain.Pageable, bool) {
	return NextPage(s.Collection.Mine)
}

// NextPage returns the page a load-more of l should request, or false
// when the listing is exhausted or busy
func NextPage[K comparable, V any](l PagedList[K, V]) (domain.Pageable, bool) {
	if l.IsLoading || !l.IsLoaded || !l.Value.HasNextPage() {
		return domain.Pageable{}, false
	}
	return l.Value.NextPage(), true
}

// CrateAlbums returns the loaded albums of a crate
func CrateAlbums(s State, crateID int64) []domain.Album {
	return s.Crates.Albums[crateID].Value.Items.Values()
}

// LibraryAlbums returns the loaded library albums
func LibraryAlbums(s State) []domain.Album {
	return s.Library.Albums.Value.Items.Values()
}

// SelectedAlbums returns the selected library albums in selection order
func SelectedAlbums(s State) []domain.Album {
	out := make([]domain.Album, 0, len(s.Library.Selection))
	for _, id := range s.Library.Selection {
		if a, ok := s.Library.Albums.Value.Items.Get(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// IsAlbumSelected reports whether a library album is selected
func IsAlbumSelected(s State, spotifyID string) bool {
	for _, id := range s.Library.Selection {
		if id == spotifyID {
			return true
		}
	}
	return false
}

// IsSyncing reports whether a library sync is in progress
func IsSyncing(s State) bool {
	return s.Library.Sync.IsLoading
}

// InCollection reports whether a crate is in the user's collection
func InCollection(s State, crateID int64) bool {
	return s.Collection.Status[crateID].Value()
}

// CollectionBusy reports whether a collection write for the crate is outstanding
func CollectionBusy(s State, crateID int64) bool {
	_, probing := s.Collection.Probes[crateID]
	return probing || s.Collection.Status[crateID].Busy()
}

// IsFollowing reports whether the user follows userID
func IsFollowing(s State, userID int64) bool {
	return s.Social.Follow[userID].Value()
}

// FollowBusy reports whether a follow write for the user is outstanding
func FollowBusy(s State, userID int64) bool {
	_, probing := s.Social.Probes[userID]
	return probing || s.Social.Follow[userID].Busy()
}

// Crate looks up a crate in any loaded listing
func Crate(s State, id int64) (domain.Crate, bool) {
	return findCrate(s, id)
}

// IsOwnCrate reports whether the crate belongs to the signed-in user
func IsOwnCrate(s State, c domain.Crate) bool {
	me := s.Session.User.Value.ID
	return me != 0 && c.OwnedBy(me)
}

// ContextForCrate returns the section a crate detail view reports as its origin
func ContextForCrate(s State, c domain.Crate, now time.Time) navigation.Context {
	return s.Navigation.ContextFor(navigation.CrateSubject(c.ID), IsOwnCrate(s, c), now)
}

// ContextForUser returns the section a profile view reports as its origin
func ContextForUser(s State, userID int64, now time.Time) navigation.Context {
	me := s.Session.User.Value.ID
	return s.Navigation.ContextFor(navigation.UserSubject(userID), me != 0 && me == userID, now)
}

// ProfileLink returns the public share link for a user
func ProfileLink(baseURL string, u domain.PublicUser) string {
	return joinLink(baseURL, u.Identifier())
}

// CrateLink returns the public share link for a crate
func CrateLink(baseURL string, c domain.Crate) string {
	if c.User == nil {
		return ""
	}
	return joinLink(baseURL, c.User.Identifier(), c.Handle)
}

// CollectionLink returns the public share link for a crate seen through
// owner's collection
func CollectionLink(baseURL string, owner domain.PublicUser, c domain.Crate) string {
	return joinLink(baseURL, owner.Identifier(), "collection", c.Handle)
}

func joinLink(baseURL string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, strings.TrimRight(baseURL, "/"))
	for _, p := range parts {
		if p == "" {
			return ""
		}
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}
