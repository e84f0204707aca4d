package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
)

// Action is any value dispatched to the store. Intents describe what the
// user asked for; results carry the tagged outcome of the request an
// intent started, keyed by the intent's request or operation id.
type Action interface{}

// NewRequestID returns a fresh id for a request or optimistic operation
func NewRequestID() string {
	return uuid.NewString()
}

// === Session ===

// LoadCurrentUser fetches the signed-in user
type LoadCurrentUser struct{ Request string }

// CurrentUserLoaded is the result of LoadCurrentUser
type CurrentUserLoaded struct {
	Request string
	Result  domain.Result[domain.User]
}

// UpdateProfile saves profile edits
type UpdateProfile struct {
	Request string
	Update  domain.ProfileUpdate
}

// ProfileUpdated is the result of UpdateProfile
type ProfileUpdated struct {
	Request string
	Result  domain.Result[domain.User]
}

// SignedIn records that a token is available
type SignedIn struct{}

// SnapshotRestored seeds listings from the local cache before the first
// network page arrives. Fields left nil were not cached.
type SnapshotRestored struct {
	User          *domain.User
	Crates        []domain.Crate
	LibraryAlbums []domain.Album
	CrateID       int64
	CrateAlbums   []domain.Album
}

// LoggedOut drops the token and every user-scoped slice. Dispatched when
// the server answers 401 or the user signs out.
type LoggedOut struct{}

// === Crates ===

// LoadCrates loads a page of the signed-in user's crates
type LoadCrates struct {
	Request  string
	Mode     LoadMode
	Pageable domain.Pageable
	Search   string
}

// CratesLoaded is the result of LoadCrates
type CratesLoaded struct {
	Request string
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Crate]]
}

// LoadCrate loads one crate for the detail view
type LoadCrate struct {
	Request string
	ID      int64
}

// CrateLoaded is the result of LoadCrate
type CrateLoaded struct {
	Request string
	ID      int64
	Result  domain.Result[domain.Crate]
}

// CreateCrate creates a new crate
type CreateCrate struct {
	Request string
	Name    string
}

// CrateCreated is the result of CreateCrate
type CrateCreated struct {
	Request string
	Result  domain.Result[domain.Crate]
}

// UpdateCrate saves crate edits
type UpdateCrate struct {
	Request string
	ID      int64
	Update  domain.CrateUpdate
}

// CrateUpdated is the result of UpdateCrate
type CrateUpdated struct {
	Request string
	ID      int64
	Result  domain.Result[domain.Crate]
}

// AddAlbumsToCrate adds albums to a crate
type AddAlbumsToCrate struct {
	Request string
	CrateID int64
	Albums  []domain.Album
}

// AlbumsAddedToCrate is the result of AddAlbumsToCrate
type AlbumsAddedToCrate struct {
	Request string
	CrateID int64
	Albums  []domain.Album
	Result  domain.Result[domain.Crate]
}

// RemoveAlbumFromCrate removes one album from a crate
type RemoveAlbumFromCrate struct {
	Request string
	CrateID int64
	AlbumID int64
}

// AlbumRemovedFromCrate is the result of RemoveAlbumFromCrate
type AlbumRemovedFromCrate struct {
	Request string
	CrateID int64
	AlbumID int64
	Result  domain.Result[domain.Crate]
}

// LoadCrateAlbums loads a page of a crate's albums
type LoadCrateAlbums struct {
	Request  string
	CrateID  int64
	Mode     LoadMode
	Pageable domain.Pageable
}

// CrateAlbumsLoaded is the result of LoadCrateAlbums
type CrateAlbumsLoaded struct {
	Request string
	CrateID int64
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Album]]
}

// === Library ===

// LibraryFilters narrows the library album listing
type LibraryFilters struct {
	HideCrated bool
	Search     string
}

// LoadLibraryAlbums loads a page of library albums
type LoadLibraryAlbums struct {
	Request  string
	Mode     LoadMode
	Pageable domain.Pageable
	Filters  LibraryFilters
}

// LibraryAlbumsLoaded is the result of LoadLibraryAlbums
type LibraryAlbumsLoaded struct {
	Request string
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Album]]
}

// ToggleAlbumSelection selects or deselects a library album
type ToggleAlbumSelection struct{ SpotifyID string }

// ClearAlbumSelection deselects every library album
type ClearAlbumSelection struct{}

// LoadLibrary fetches the library's import state
type LoadLibrary struct{ Request string }

// LibraryLoaded is the result of LoadLibrary
type LibraryLoaded struct {
	Request string
	Result  domain.Result[domain.Library]
}

// SyncLibrary starts a library refresh and polls until it settles
type SyncLibrary struct{ Request string }

// LibrarySynced is the result of SyncLibrary
type LibrarySynced struct {
	Request string
	Result  domain.Result[domain.Library]
}

// === Collection ===

// AddToCollection saves a crate, optimistically
type AddToCollection struct {
	Op      string
	CrateID int64
}

// RemoveFromCollection un-saves a crate, optimistically
type RemoveFromCollection struct {
	Op      string
	CrateID int64
}

// CollectionToggled is the result of AddToCollection or RemoveFromCollection
type CollectionToggled struct {
	Op      string
	CrateID int64
	Result  domain.Result[domain.CollectionStatus]
}

// LoadCollectionStatus probes whether a crate is saved
type LoadCollectionStatus struct {
	Request string
	CrateID int64
}

// CollectionStatusLoaded is the result of LoadCollectionStatus
type CollectionStatusLoaded struct {
	Request string
	CrateID int64
	Result  domain.Result[domain.CollectionStatus]
}

// LoadMyCollection loads a page of saved crates
type LoadMyCollection struct {
	Request  string
	Mode     LoadMode
	Pageable domain.Pageable
	Search   string
}

// MyCollectionLoaded is the result of LoadMyCollection
type MyCollectionLoaded struct {
	Request string
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Crate]]
}

// === Social ===

// FollowUser follows a user, optimistically
type FollowUser struct {
	Op     string
	UserID int64
}

// UnfollowUser unfollows a user, optimistically
type UnfollowUser struct {
	Op     string
	UserID int64
}

// FollowToggled is the result of FollowUser or UnfollowUser
type FollowToggled struct {
	Op     string
	UserID int64
	Result domain.Result[domain.FollowStatus]
}

// LoadFollowStatus probes whether a user is followed
type LoadFollowStatus struct {
	Request string
	UserID  int64
}

// FollowStatusLoaded is the result of LoadFollowStatus
type FollowStatusLoaded struct {
	Request string
	UserID  int64
	Result  domain.Result[domain.FollowStatus]
}

// LoadSocialStats loads counts for the signed-in user (UserID 0) or another user
type LoadSocialStats struct {
	Request string
	UserID  int64
}

// SocialStatsLoaded is the result of LoadSocialStats
type SocialStatsLoaded struct {
	Request string
	UserID  int64
	Result  domain.Result[domain.SocialStats]
}

// FollowList selects the followers or following listing
type FollowList int

const (
	Following FollowList = iota
	Followers
)

// LoadFollows loads a page of followers or following
type LoadFollows struct {
	Request  string
	List     FollowList
	Mode     LoadMode
	Pageable domain.Pageable
}

// FollowsLoaded is the result of LoadFollows
type FollowsLoaded struct {
	Request string
	List    FollowList
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.UserFollow]]
}

// SearchUsers loads a page of users matching a query
type SearchUsers struct {
	Request  string
	Mode     LoadMode
	Pageable domain.Pageable
	Query    string
}

// UsersFound is the result of SearchUsers
type UsersFound struct {
	Request string
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.PublicUser]]
}

// === Search ===

// SearchQueryChanged records a raw keystroke in the search field
type SearchQueryChanged struct{ Query string }

// SearchRequested is dispatched once the query settles
type SearchRequested struct {
	Request string
	Query   string
}

// SearchCompleted is the result of SearchRequested
type SearchCompleted struct {
	Request string
	Query   string
	Result  domain.Result[domain.UnifiedSearchResult]
}

// ClearSearch resets the search slice without a network call
type ClearSearch struct{}

// === Discover ===

// LoadPublicCrates loads a page of public crates
type LoadPublicCrates struct {
	Request  string
	Mode     LoadMode
	Pageable domain.Pageable
	Search   string
}

// PublicCratesLoaded is the result of LoadPublicCrates
type PublicCratesLoaded struct {
	Request string
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Crate]]
}

// OpenProfile loads a user's profile together with their crates, stats
// and follow status
type OpenProfile struct {
	Request    string
	Identifier string
}

// ProfileLoaded is the result of OpenProfile. The related results are nil
// when they were not fetched; Follow is never fetched for the signed-in
// user's own profile.
type ProfileLoaded struct {
	Request string
	Result  domain.Result[domain.PublicUser]
	Crates  *domain.Result[domain.Page[domain.Crate]]
	Stats   *domain.Result[domain.SocialStats]
	Follow  *domain.Result[domain.FollowStatus]
}

// LoadUserCrates loads a page of another user's crates
type LoadUserCrates struct {
	Request  string
	UserID   int64
	Mode     LoadMode
	Pageable domain.Pageable
}

// UserCratesLoaded is the result of LoadUserCrates
type UserCratesLoaded struct {
	Request string
	UserID  int64
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Crate]]
}

// === Trending ===

// TrendingList selects the trending or recent listing
type TrendingList int

const (
	TrendingCrates TrendingList = iota
	RecentCrates
)

// LoadTrending loads a page of trending or recent public crates
type LoadTrending struct {
	Request  string
	List     TrendingList
	Mode     LoadMode
	Pageable domain.Pageable
}

// TrendingLoaded is the result of LoadTrending
type TrendingLoaded struct {
	Request string
	List    TrendingList
	Mode    LoadMode
	Result  domain.Result[domain.Page[domain.Crate]]
}

// RecordCrateView counts a view of a public crate. Fire-and-forget.
type RecordCrateView struct{ CrateID int64 }

// === Activity ===

// ActivityPageSize is the batch size for loading older events
const ActivityPageSize = 20

// LoadFeed loads the first page of the activity feed
type LoadFeed struct {
	Request  string
	Pageable domain.Pageable
}

// FeedLoaded is the result of LoadFeed
type FeedLoaded struct {
	Request string
	At      time.Time
	Result  domain.Result[domain.Page[domain.CrateEvent]]
}

// LoadMoreFeed loads events older than Before
type LoadMoreFeed struct {
	Request string
	Before  time.Time
}

// MoreFeedLoaded is the result of LoadMoreFeed
type MoreFeedLoaded struct {
	Request string
	Result  domain.Result[[]domain.CrateEvent]
}

// RefreshFeed loads events newer than Since and prepends them
type RefreshFeed struct {
	Request string
	Since   time.Time
}

// FeedRefreshed is the result of RefreshFeed
type FeedRefreshed struct {
	Request string
	At      time.Time
	Result  domain.Result[[]domain.CrateEvent]
}

// CheckNewActivity probes whether newer events exist
type CheckNewActivity struct {
	Request string
	Since   time.Time
}

// NewActivityChecked is the result of CheckNewActivity
type NewActivityChecked struct {
	Request string
	Result  domain.Result[bool]
}

// MarkActivityRead records when the user last looked at the feed
type MarkActivityRead struct{ At time.Time }

// ClearActivity empties the feed
type ClearActivity struct{}

// === Navigation ===

// SetNavigationContext enters a top-level section
type SetNavigationContext struct{ Context navigation.Context }

// TrackNavigation records that a detail view was opened. From overrides
// the current context when set.
type TrackNavigation struct {
	Subject navigation.Subject
	From    navigation.Context
	At      time.Time
}

// ClearNavigation forgets all navigation state
type ClearNavigation struct{}
