package domain

import (
	"sort"
	"strings"
	"time"
)

// Image is an artwork rendition supplied by the catalog provider
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Images is a set of renditions of the same artwork
type Images []Image

// Image size indexes after sorting by width, largest first
const (
	ImageLarge  = 0
	ImageMedium = 1
	ImageSmall  = 2
)

// Sorted returns a copy ordered by width descending
func (imgs Images) Sorted() Images {
	out := make(Images, len(imgs))
	copy(out, imgs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Width > out[j].Width
	})
	return out
}

// Best returns the URL at the given size index, falling back to the
// nearest smaller rendition when fewer images exist.
func (imgs Images) Best(index int) string {
	if len(imgs) == 0 {
		return ""
	}
	sorted := imgs.Sorted()
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}
	return sorted[index].URL
}

// Artist is a denormalized catalog artist
type Artist struct {
	ID        int64  `json:"id"`
	SpotifyID string `json:"spotifyId"`
	Name      string `json:"name"`
	Href      string `json:"href,omitempty"`
}

// Album is a denormalized catalog album. Library albums are keyed by
// SpotifyID, crate albums by ID.
type Album struct {
	ID          int64     `json:"id"`
	SpotifyID   string    `json:"spotifyId"`
	Name        string    `json:"name"`
	Href        string    `json:"href,omitempty"`
	URI         string    `json:"uri,omitempty"`
	Popularity  int       `json:"popularity"`
	ReleaseDate Timestamp `json:"releaseDate"`
	Artists     []Artist  `json:"artists"`
	Images      Images    `json:"images"`
}

// ArtistNames joins all artist names for display
func (a Album) ArtistNames() string {
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// Year returns the release year, or 0 when unknown
func (a Album) Year() int {
	if a.ReleaseDate.IsZero() {
		return 0
	}
	return a.ReleaseDate.Year()
}

// PublicUser is the public projection of a user
type PublicUser struct {
	ID             int64  `json:"id"`
	SpotifyID      string `json:"spotifyId"`
	DisplayName    string `json:"displayName"`
	Handle         string `json:"handle,omitempty"`
	Bio            string `json:"bio,omitempty"`
	PrivateProfile bool   `json:"privateProfile"`
	Images         Images `json:"images"`
	FollowerCount  int    `json:"followerCount"`
	FollowingCount int    `json:"followingCount"`
}

// Identifier returns the handle when set, otherwise the spotify id.
// Public links and profile lookups accept either.
func (u PublicUser) Identifier() string {
	if u.Handle != "" {
		return u.Handle
	}
	return u.SpotifyID
}

// Name returns the best display name for the user
func (u PublicUser) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Identifier()
}

// User is the signed-in user
type User struct {
	ID             int64     `json:"id"`
	SpotifyID      string    `json:"spotifyId"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	EmailOptIn     bool      `json:"emailOptIn"`
	Handle         string    `json:"handle,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	PrivateProfile bool      `json:"privateProfile"`
	Images         Images    `json:"images"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// Public projects the signed-in user onto the public shape
func (u User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		SpotifyID:      u.SpotifyID,
		DisplayName:    u.DisplayName,
		Handle:         u.Handle,
		Bio:            u.Bio,
		PrivateProfile: u.PrivateProfile,
		Images:         u.Images,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}
}

// ProfileUpdate is the payload for PUT /v1/user/profile
type ProfileUpdate struct {
	Handle         string `json:"handle"`
	Bio            string `json:"bio"`
	Email          string `json:"email"`
	EmailOptIn     bool   `json:"emailOptIn"`
	PrivateProfile bool   `json:"privateProfile"`
}

// Crate is a user-curated collection of albums
type Crate struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Handle        string      `json:"handle"`
	Description   string      `json:"description,omitempty"`
	State         string      `json:"state,omitempty"`
	ImageURI      string      `json:"imageUri,omitempty"`
	PublicCrate   bool        `json:"publicCrate"`
	User          *PublicUser `json:"user,omitempty"` // owner; weak reference
	FollowerCount int         `json:"followerCount"`
	CreatedAt     Timestamp   `json:"createdAt"`
	UpdatedAt     Timestamp   `json:"updatedAt"`
}

// OwnedBy reports whether the crate belongs to the given user id
func (c Crate) OwnedBy(userID int64) bool {
	return c.User != nil && c.User.ID == userID
}

// CrateUpdate is the payload for PUT /v1/crate/{id}
type CrateUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PublicCrate bool   `json:"publicCrate"`
}

// LibraryState is the import/update lifecycle of a user's library
type LibraryState string

const (
	LibraryImporting               LibraryState = "IMPORTING"
	LibraryImportingAfterFirstPage LibraryState = "IMPORTING_AFTER_FIRST_PAGE"
	LibraryImported                LibraryState = "IMPORTED"
	LibraryImportFailed            LibraryState = "IMPORT_FAILED"
	LibraryUpdating                LibraryState = "UPDATING"
	LibraryUpdated                 LibraryState = "UPDATED"
	LibraryUpdateFailed            LibraryState = "UPDATE_FAILED"
	LibraryArchived                LibraryState = "ARCHIVED"
)

// SyncSettled reports whether a sync poll can stop on this state
func (s LibraryState) SyncSettled() bool {
	switch s {
	case LibraryUpdated, LibraryImportingAfterFirstPage, LibraryUpdateFailed:
		return true
	}
	return false
}

// Library is the signed-in user's imported album library
type Library struct {
	ID        int64        `json:"id"`
	State     LibraryState `json:"state"`
	UpdatedAt Timestamp    `json:"updatedAt"`
}

// LibraryFilter narrows the library album listing
type LibraryFilter string

const (
	// FilterExcludeCrated hides albums already placed in a crate
	FilterExcludeCrated LibraryFilter = "EXCLUDE_CRATED"
)

// EventType classifies activity feed events
type EventType string

const (
	EventCrateReleased          EventType = "CRATE_RELEASED"
	EventAlbumAdded             EventType = "ALBUM_ADDED"
	EventCrateAddedToCollection EventType = "CRATE_ADDED_TO_COLLECTION"
)

// CrateEvent is one entry of the activity feed
type CrateEvent struct {
	ID        int64      `json:"id"`
	User      PublicUser `json:"user"`
	Crate     Crate      `json:"crate"`
	EventType EventType  `json:"eventType"`
	AlbumIDs  []int64    `json:"albumIds"`
	CreatedAt Timestamp  `json:"createdAt"`
}

// Describe renders the event as a one-line sentence
func (e CrateEvent) Describe() string {
	who := e.User.Name()
	switch e.EventType {
	case EventCrateReleased:
		return who + " released " + e.Crate.Name
	case EventAlbumAdded:
		if len(e.AlbumIDs) == 1 {
			return who + " added an album to " + e.Crate.Name
		}
		return who + " added albums to " + e.Crate.Name
	case EventCrateAddedToCollection:
		return who + " collected " + e.Crate.Name
	default:
		return who + " updated " + e.Crate.Name
	}
}

// UserFollow is a directed social edge
type UserFollow struct {
	ID        int64      `json:"id"`
	Follower  PublicUser `json:"follower"`
	Following PublicUser `json:"following"`
	CreatedAt Timestamp  `json:"createdAt"`
}

// SocialStats holds follower counts for a user
type SocialStats struct {
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
}

// FollowStatus is returned by follow/unfollow and status probes
type FollowStatus struct {
	IsFollowing bool `json:"isFollowing"`
}

// CollectionStatus is returned by collection add/remove and status probes
type CollectionStatus struct {
	InCollection bool `json:"inCollection"`
}

// UnifiedSearchResult is the combined user and crate search response
type UnifiedSearchResult struct {
	Users  []PublicUser `json:"users"`
	Crates []Crate      `json:"crates"`
}

// Empty reports whether the search matched nothing
func (r UnifiedSearchResult) Empty() bool {
	return len(r.Users) == 0 && len(r.Crates) == 0
}

// timestampLayouts are tried in order. The API emits zone-less local
// date-times for some fields and RFC 3339 for others.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp accepts the several date formats the API produces
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON parses a quoted date in any supported layout
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON writes RFC 3339, or null for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
