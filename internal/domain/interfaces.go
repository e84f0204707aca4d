package domain

import (
	"context"
	"time"
)

// ListQuery addresses a page of a searchable listing
type ListQuery struct {
	Pageable Pageable
	Search   string
}

// LibraryQuery addresses a page of library albums
type LibraryQuery struct {
	Pageable   Pageable
	Search     string
	HideCrated bool
}

// CrateRepository covers the signed-in user's own crates.
type CrateRepository interface {
	GetCrates(ctx context.Context, q ListQuery) (Page[Crate], error)
	GetCrate(ctx context.Context, id int64) (Crate, error)
	CreateCrate(ctx context.Context, name string) (Crate, error)
	UpdateCrate(ctx context.Context, id int64, update CrateUpdate) (Crate, error)
	GetCrateAlbums(ctx context.Context, id int64, p Pageable) (Page[Album], error)
	AddAlbumsToCrate(ctx context.Context, id int64, albums []Album) (Crate, error)
	RemoveAlbumFromCrate(ctx context.Context, id, albumID int64) (Crate, error)
}

// LibraryRepository covers the imported album library.
type LibraryRepository interface {
	GetLibraryAlbums(ctx context.Context, q LibraryQuery) (Page[Album], error)
	GetLibrary(ctx context.Context) (Library, error)
	StartSync(ctx context.Context) error
}

// CollectionRepository covers saving other users' public crates.
type CollectionRepository interface {
	AddToCollection(ctx context.Context, crateID int64) (CollectionStatus, error)
	RemoveFromCollection(ctx context.Context, crateID int64) (CollectionStatus, error)
	GetCollectionStatus(ctx context.Context, crateID int64) (CollectionStatus, error)
	GetMyCollection(ctx context.Context, q ListQuery) (Page[Crate], error)
}

// SocialRepository covers the follow graph.
type SocialRepository interface {
	Follow(ctx context.Context, userID int64) (FollowStatus, error)
	Unfollow(ctx context.Context, userID int64) (FollowStatus, error)
	GetFollowStatus(ctx context.Context, userID int64) (FollowStatus, error)
	GetFollowing(ctx context.Context, p Pageable) (Page[UserFollow], error)
	GetFollowers(ctx context.Context, p Pageable) (Page[UserFollow], error)
	GetMyStats(ctx context.Context) (SocialStats, error)
	GetUserStats(ctx context.Context, userID int64) (SocialStats, error)
	SearchUsers(ctx context.Context, q ListQuery) (Page[PublicUser], error)
}

// SearchRepository covers the unified user and crate search.
type SearchRepository interface {
	Search(ctx context.Context, query string, p Pageable) (UnifiedSearchResult, error)
}

// ActivityRepository covers the activity feed.
type ActivityRepository interface {
	GetFeed(ctx context.Context, p Pageable) (Page[CrateEvent], error)
	GetFeedSince(ctx context.Context, since time.Time) ([]CrateEvent, error)
	GetFeedBefore(ctx context.Context, before time.Time, size int) ([]CrateEvent, error)
	HasNewActivity(ctx context.Context, since time.Time) (bool, error)
}

// DiscoverRepository covers public crates and other users' profiles.
type DiscoverRepository interface {
	GetPublicCrates(ctx context.Context, q ListQuery) (Page[Crate], error)
	GetUserProfile(ctx context.Context, identifier string) (PublicUser, error)
	GetUserCrates(ctx context.Context, userID int64, p Pageable) (Page[Crate], error)
}

// TrendingRepository covers unauthenticated public listings.
type TrendingRepository interface {
	GetTrendingCrates(ctx context.Context, p Pageable) (Page[Crate], error)
	GetRecentCrates(ctx context.Context, p Pageable) (Page[Crate], error)
	RecordView(ctx context.Context, crateID int64) error
}

// UserRepository covers the signed-in user's own account.
type UserRepository interface {
	GetCurrentUser(ctx context.Context) (User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error)
}

// API is the full crates API surface. Implemented by adapter/api.Client.
type API interface {
	CrateRepository
	LibraryRepository
	CollectionRepository
	SocialRepository
	SearchRepository
	ActivityRepository
	DiscoverRepository
	TrendingRepository
	UserRepository
}
