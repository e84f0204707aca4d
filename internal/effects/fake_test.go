package effects

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/crates/internal/adapter"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

// fakeAPI implements only what a test sets; anything else panics through
// the nil embedded interface.
type fakeAPI struct {
	domain.API

	mu    sync.Mutex
	calls map[string]int
	seen  []string

	search           func(ctx context.Context, q string) (domain.UnifiedSearchResult, error)
	getCrates        func(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error)
	getCrate         func(ctx context.Context, id int64) (domain.Crate, error)
	updateCrate      func(ctx context.Context, id int64, u domain.CrateUpdate) (domain.Crate, error)
	libraryStates    []domain.LibraryState
	libraryAlbums    func(ctx context.Context, q domain.LibraryQuery) (domain.Page[domain.Album], error)
	addToCollection  func(ctx context.Context, id int64) (domain.CollectionStatus, error)
	collectionStatus func(ctx context.Context, id int64) (domain.CollectionStatus, error)
	profile          func(ctx context.Context, identifier string) (domain.PublicUser, error)
	userCrates       func(ctx context.Context, id int64, p domain.Pageable) (domain.Page[domain.Crate], error)
	userStats        func(ctx context.Context, id int64) (domain.SocialStats, error)
	followStatus     func(ctx context.Context, id int64) (domain.FollowStatus, error)
	feedSince        func(ctx context.Context, since time.Time) ([]domain.CrateEvent, error)
	feed             func(ctx context.Context, p domain.Pageable) (domain.Page[domain.CrateEvent], error)
	feedBefore       func(ctx context.Context, before time.Time) ([]domain.CrateEvent, error)
}

func (f *fakeAPI) record(name, arg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	if arg != "" {
		f.seen = append(f.seen, arg)
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) args() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func (f *fakeAPI) Search(ctx context.Context, q string, _ domain.Pageable) (domain.UnifiedSearchResult, error) {
	f.record("Search", q)
	return f.search(ctx, q)
}

func (f *fakeAPI) GetCrates(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
	f.record("GetCrates", "")
	return f.getCrates(ctx, q)
}

func (f *fakeAPI) GetCrate(ctx context.Context, id int64) (domain.Crate, error) {
	f.record("GetCrate", "")
	return f.getCrate(ctx, id)
}

func (f *fakeAPI) UpdateCrate(ctx context.Context, id int64, u domain.CrateUpdate) (domain.Crate, error) {
	f.record("UpdateCrate", "")
	return f.updateCrate(ctx, id, u)
}

func (f *fakeAPI) StartSync(ctx context.Context) error {
	f.record("StartSync", "")
	return nil
}

// GetLibrary walks libraryStates, repeating the last one
func (f *fakeAPI) GetLibrary(ctx context.Context) (domain.Library, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls["GetLibrary"]++
	i := f.calls["GetLibrary"] - 1
	if i >= len(f.libraryStates) {
		i = len(f.libraryStates) - 1
	}
	st := f.libraryStates[i]
	f.mu.Unlock()
	return domain.Library{ID: 1, State: st}, nil
}

func (f *fakeAPI) GetLibraryAlbums(ctx context.Context, q domain.LibraryQuery) (domain.Page[domain.Album], error) {
	f.record("GetLibraryAlbums", "")
	return f.libraryAlbums(ctx, q)
}

func (f *fakeAPI) AddToCollection(ctx context.Context, id int64) (domain.CollectionStatus, error) {
	f.record("AddToCollection", "")
	return f.addToCollection(ctx, id)
}

func (f *fakeAPI) GetCollectionStatus(ctx context.Context, id int64) (domain.CollectionStatus, error) {
	f.record("GetCollectionStatus", "")
	return f.collectionStatus(ctx, id)
}

func (f *fakeAPI) GetUserProfile(ctx context.Context, identifier string) (domain.PublicUser, error) {
	f.record("GetUserProfile", identifier)
	return f.profile(ctx, identifier)
}

func (f *fakeAPI) GetUserCrates(ctx context.Context, id int64, p domain.Pageable) (domain.Page[domain.Crate], error) {
	f.record("GetUserCrates", "")
	return f.userCrates(ctx, id, p)
}

func (f *fakeAPI) GetUserStats(ctx context.Context, id int64) (domain.SocialStats, error) {
	f.record("GetUserStats", "")
	return f.userStats(ctx, id)
}

func (f *fakeAPI) GetFollowStatus(ctx context.Context, id int64) (domain.FollowStatus, error) {
	f.record("GetFollowStatus", "")
	return f.followStatus(ctx, id)
}

func (f *fakeAPI) GetFeedSince(ctx context.Context, since time.Time) ([]domain.CrateEvent, error) {
	f.record("GetFeedSince", since.UTC().Format(time.RFC3339))
	return f.feedSince(ctx, since)
}

func (f *fakeAPI) GetFeed(ctx context.Context, p domain.Pageable) (domain.Page[domain.CrateEvent], error) {
	f.record("GetFeed", "")
	return f.feed(ctx, p)
}

func (f *fakeAPI) GetFeedBefore(ctx context.Context, before time.Time, _ int) ([]domain.CrateEvent, error) {
	f.record("GetFeedBefore", "")
	return f.feedBefore(ctx, before)
}

// harness wires a store and effects around api
func harness(t *testing.T, api *fakeAPI, seed state.State, cfg Config) (*state.Store, *Effects) {
	t.Helper()
	if cfg.SearchDebounce == 0 {
		cfg.SearchDebounce = 20 * time.Millisecond
	}
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = 5 * time.Millisecond
	}
	logger := adapter.NullLogger()
	store := state.NewStore(seed, logger)
	e := New(store, api, cfg, logger)
	e.Start(context.Background())
	t.Cleanup(e.Close)
	return store, e
}
