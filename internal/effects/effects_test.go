package effects

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/crates/internal/adapter"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var errBoom = errors.New("boom")

func resultFor(q string) domain.UnifiedSearchResult {
	return domain.UnifiedSearchResult{Users: []domain.PublicUser{{Handle: q}}}
}

func TestSearchDebounceSendsLastQueryOnce(t *testing.T) {
	api := &fakeAPI{search: func(_ context.Context, q string) (domain.UnifiedSearchResult, error) {
		return resultFor(q), nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	for _, q := range []string{"a", "ab", "abc"} {
		store.Dispatch(state.SearchQueryChanged{Query: q})
	}

	require.Eventually(t, func() bool {
		return store.State().Search.Results.IsLoaded
	}, waitFor, tick)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"abc"}, api.args())
	assert.Equal(t, "abc", store.State().Search.Query)
	assert.Equal(t, resultFor("abc"), state.SearchResults(store.State()))
}

func TestSearchRepeatedQueryIsSuppressed(t *testing.T) {
	api := &fakeAPI{search: func(_ context.Context, q string) (domain.UnifiedSearchResult, error) {
		return resultFor(q), nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.SearchQueryChanged{Query: "abc"})
	require.Eventually(t, func() bool { return api.count("Search") == 1 }, waitFor, tick)

	store.Dispatch(state.SearchQueryChanged{Query: "abcd"})
	store.Dispatch(state.SearchQueryChanged{Query: "abc "})
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, api.count("Search"))
}

func TestBlankQueryCancelsPendingSearch(t *testing.T) {
	api := &fakeAPI{search: func(_ context.Context, q string) (domain.UnifiedSearchResult, error) {
		return resultFor(q), nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.SearchQueryChanged{Query: "abc"})
	store.Dispatch(state.SearchQueryChanged{Query: "   "})
	time.Sleep(80 * time.Millisecond)

	assert.Zero(t, api.count("Search"))
	assert.Equal(t, state.SearchState{}, store.State().Search)
}

func TestSearchSwitchesToLatest(t *testing.T) {
	var cancelled atomic.Bool
	api := &fakeAPI{search: func(ctx context.Context, q string) (domain.UnifiedSearchResult, error) {
		if q == "foo" {
			<-ctx.Done()
			cancelled.Store(true)
			return domain.UnifiedSearchResult{}, ctx.Err()
		}
		return resultFor(q), nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.SearchRequested{Request: "r1", Query: "foo"})
	store.Dispatch(state.SearchRequested{Request: "r2", Query: "bar"})

	require.Eventually(t, func() bool {
		return store.State().Search.Results.IsLoaded && cancelled.Load()
	}, waitFor, tick)
	assert.Equal(t, resultFor("bar"), state.SearchResults(store.State()))
	assert.NoError(t, store.State().Search.Results.Err)
}

func TestLoadMoreWhileOutstandingIssuesNoRequest(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{getCrates: func(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
		<-release
		return domain.Page[domain.Crate]{Content: []domain.Crate{{ID: 1}}, Last: true}, nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.LoadCrates{Request: "a", Mode: state.Append, Pageable: domain.FirstPage(50)})
	store.Dispatch(state.LoadCrates{Request: "b", Mode: state.Append, Pageable: domain.FirstPage(50)})
	close(release)

	require.Eventually(t, func() bool { return store.State().Crates.List.IsLoaded }, waitFor, tick)
	assert.Equal(t, 1, api.count("GetCrates"))
	assert.Equal(t, []int64{1}, store.State().Crates.List.Value.Items.IDs())
}

func TestTeardownDropsLateResults(t *testing.T) {
	api := &fakeAPI{getCrates: func(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
		<-ctx.Done()
		return domain.Page[domain.Crate]{}, ctx.Err()
	}}
	store, e := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.LoadCrates{Request: "a", Mode: state.Replace, Pageable: domain.FirstPage(50)})
	require.Eventually(t, func() bool { return api.count("GetCrates") == 1 }, waitFor, tick)

	version := store.State().Version
	e.Close()

	assert.Equal(t, version, store.State().Version)
	assert.True(t, store.State().Crates.List.IsLoading)

	// no longer subscribed
	store.Dispatch(state.LoadCrates{Request: "b", Mode: state.Replace, Pageable: domain.FirstPage(50)})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, api.count("GetCrates"))
}

func TestCollectionFailureRevertsThroughEffects(t *testing.T) {
	api := &fakeAPI{addToCollection: func(context.Context, int64) (domain.CollectionStatus, error) {
		time.Sleep(10 * time.Millisecond)
		return domain.CollectionStatus{}, errBoom
	}}
	seed := state.Reduce(state.Reduce(state.Initial(50),
		state.LoadPublicCrates{Request: "p", Mode: state.Replace}),
		state.PublicCratesLoaded{Request: "p", Mode: state.Replace, Result: domain.Ok(domain.Page[domain.Crate]{
			Content: []domain.Crate{{ID: 7, FollowerCount: 4}}, Last: true,
		})})
	store, _ := harness(t, api, seed, Config{})

	s := store.Dispatch(state.AddToCollection{Op: state.NewRequestID(), CrateID: 7})
	assert.True(t, state.InCollection(s, 7))
	c, _ := state.Crate(s, 7)
	assert.Equal(t, 5, c.FollowerCount)

	require.Eventually(t, func() bool { return !state.CollectionBusy(store.State(), 7) }, waitFor, tick)
	s = store.State()
	assert.False(t, state.InCollection(s, 7))
	c, _ = state.Crate(s, 7)
	assert.Equal(t, 4, c.FollowerCount)
	assert.ErrorIs(t, s.Collection.Err, errBoom)
}

func TestStatusProbesAreShared(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{collectionStatus: func(context.Context, int64) (domain.CollectionStatus, error) {
		<-gate
		return domain.CollectionStatus{InCollection: true}, nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.LoadCollectionStatus{Request: "a", CrateID: 3})
	require.Eventually(t, func() bool { return api.count("GetCollectionStatus") == 1 }, waitFor, tick)
	store.Dispatch(state.LoadCollectionStatus{Request: "b", CrateID: 3})
	time.Sleep(20 * time.Millisecond)
	close(gate)

	require.Eventually(t, func() bool {
		s := store.State()
		return state.InCollection(s, 3) && !state.CollectionBusy(s, 3)
	}, waitFor, tick)
	assert.Equal(t, 1, api.count("GetCollectionStatus"))
}

func TestUpdateCrateReloadsCrate(t *testing.T) {
	api := &fakeAPI{
		updateCrate: func(_ context.Context, id int64, u domain.CrateUpdate) (domain.Crate, error) {
			return domain.Crate{ID: id, Name: u.Name}, nil
		},
		getCrate: func(_ context.Context, id int64) (domain.Crate, error) {
			return domain.Crate{ID: id, Name: "fresh"}, nil
		},
	}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.UpdateCrate{Request: "u", ID: 4, Update: domain.CrateUpdate{Name: "renamed"}})

	require.Eventually(t, func() bool {
		s := store.State()
		return s.Crates.Detail.IsLoaded && s.Crates.Detail.Value.Name == "fresh"
	}, waitFor, tick)
	assert.Equal(t, 1, api.count("GetCrate"))
	assert.False(t, store.State().Crates.Mutation.Busy())
}

func TestSyncLibraryReloadsAlbums(t *testing.T) {
	api := &fakeAPI{
		libraryStates: []domain.LibraryState{domain.LibraryUpdating, domain.LibraryUpdating, domain.LibraryUpdated},
		libraryAlbums: func(_ context.Context, q domain.LibraryQuery) (domain.Page[domain.Album], error) {
			assert.True(t, q.HideCrated)
			return domain.Page[domain.Album]{Content: []domain.Album{{ID: 1, SpotifyID: "s1"}}, Last: true}, nil
		},
	}
	var polls atomic.Int32
	store, _ := harness(t, api, state.Initial(50), Config{
		OnSyncPoll: func(int, domain.Library) { polls.Add(1) },
	})

	store.Dispatch(state.SyncLibrary{Request: "s1"})
	store.Dispatch(state.SyncLibrary{Request: "s2"})
	assert.True(t, state.IsSyncing(store.State()))

	require.Eventually(t, func() bool {
		s := store.State()
		return !state.IsSyncing(s) && s.Library.Albums.IsLoaded
	}, waitFor, tick)

	s := store.State()
	assert.NoError(t, s.Library.Sync.Err)
	assert.Equal(t, domain.LibraryUpdated, s.Library.Library.Value.State)
	assert.Equal(t, []string{"s1"}, s.Library.Albums.Value.Items.IDs())
	assert.Equal(t, 1, api.count("StartSync"))
	assert.Equal(t, int32(3), polls.Load())
}

func TestOpenProfileFansOut(t *testing.T) {
	api := &fakeAPI{
		profile: func(_ context.Context, id string) (domain.PublicUser, error) {
			return domain.PublicUser{ID: 9, Handle: id}, nil
		},
		userCrates: func(_ context.Context, id int64, _ domain.Pageable) (domain.Page[domain.Crate], error) {
			return domain.Page[domain.Crate]{Content: []domain.Crate{{ID: 90}, {ID: 91}}, Last: true}, nil
		},
		userStats: func(context.Context, int64) (domain.SocialStats, error) {
			return domain.SocialStats{}, errBoom
		},
		followStatus: func(context.Context, int64) (domain.FollowStatus, error) {
			return domain.FollowStatus{IsFollowing: true}, nil
		},
	}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.OpenProfile{Request: "p", Identifier: "dj"})
	require.Eventually(t, func() bool { return store.State().Discover.Profile.IsLoaded }, waitFor, tick)

	s := store.State()
	assert.Equal(t, "dj", s.Discover.Profile.Value.Handle)
	assert.Equal(t, []int64{90, 91}, s.Discover.UserCrates.Value.Items.IDs())
	assert.ErrorIs(t, s.Social.UserStats[9].Err, errBoom, "a failed branch does not sink the profile")
	assert.True(t, state.IsFollowing(s, 9))
}

func TestOpenProfileFailure(t *testing.T) {
	api := &fakeAPI{profile: func(context.Context, string) (domain.PublicUser, error) {
		return domain.PublicUser{}, domain.ErrNotFound
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.OpenProfile{Request: "p", Identifier: "ghost"})
	require.Eventually(t, func() bool { return !store.State().Discover.Profile.IsLoading }, waitFor, tick)
	assert.ErrorIs(t, store.State().Discover.Profile.Err, domain.ErrNotFound)
	assert.Zero(t, api.count("GetUserCrates"))
}

func TestRefreshFeedDefaultsToLastDay(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	api := &fakeAPI{feedSince: func(context.Context, time.Time) ([]domain.CrateEvent, error) {
		return []domain.CrateEvent{{ID: 1}}, nil
	}}
	store, e := harness(t, api, state.Initial(50), Config{})
	e.now = func() time.Time { return now }

	store.Dispatch(state.RefreshFeed{Request: "r"})
	require.Eventually(t, func() bool { return store.State().Activity.Feed.Value.Len() == 1 }, waitFor, tick)

	assert.Equal(t, []string{"2024-06-01T10:00:00Z"}, api.args())
	assert.Equal(t, now, store.State().Activity.LastRefresh)
}

func TestReplaceLoadsHandledOutOfOrder(t *testing.T) {
	api := &fakeAPI{getCrates: func(_ context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
		return domain.Page[domain.Crate]{Content: crateList(q.Search), Last: true}, nil
	}}
	logger := adapter.NullLogger()
	store := state.NewStore(state.Initial(50), logger)
	e := New(store, api, Config{}, logger)
	e.scope = NewScope(context.Background())
	t.Cleanup(e.Close)

	// both intents are reduced before either listener runs, and the
	// listeners run newest first
	first := store.Dispatch(state.LoadCrates{Request: "a", Mode: state.Replace, Pageable: domain.FirstPage(50), Search: "a"})
	second := store.Dispatch(state.LoadCrates{Request: "b", Mode: state.Replace, Pageable: domain.FirstPage(50), Search: "b"})
	e.handle(state.LoadCrates{Request: "b", Mode: state.Replace, Pageable: domain.FirstPage(50), Search: "b"}, second)
	e.handle(state.LoadCrates{Request: "a", Mode: state.Replace, Pageable: domain.FirstPage(50), Search: "a"}, first)

	require.Eventually(t, func() bool { return store.State().Crates.List.IsLoaded }, waitFor, tick)
	assert.Equal(t, crateIDs(crateList("b")), store.State().Crates.List.Value.Items.IDs())
	assert.Equal(t, 1, api.count("GetCrates"))
}

func TestConcurrentReplaceLoadsSettle(t *testing.T) {
	api := &fakeAPI{getCrates: func(_ context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
		return domain.Page[domain.Crate]{Content: crateList(q.Search), Last: true}, nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})
	store.Subscribe(func(a state.Action, _ state.State) {
		if l, ok := a.(state.LoadCrates); ok && l.Request == "a" {
			time.Sleep(20 * time.Millisecond)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Dispatch(state.LoadCrates{Request: "a", Mode: state.Replace, Pageable: domain.FirstPage(50), Search: "a"})
	}()
	time.Sleep(5 * time.Millisecond)
	store.Dispatch(state.LoadCrates{Request: "b", Mode: state.Replace, Pageable: domain.FirstPage(50), Search: "b"})
	<-done

	require.Eventually(t, func() bool { return store.State().Crates.List.IsLoaded }, waitFor, tick)
	assert.Equal(t, crateIDs(crateList("b")), store.State().Crates.List.Value.Items.IDs())
}

func TestFeedReloadCancelsLoadMore(t *testing.T) {
	at := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	var cancelled atomic.Bool
	api := &fakeAPI{
		feedBefore: func(ctx context.Context, _ time.Time) ([]domain.CrateEvent, error) {
			<-ctx.Done()
			cancelled.Store(true)
			return nil, ctx.Err()
		},
		feed: func(context.Context, domain.Pageable) (domain.Page[domain.CrateEvent], error) {
			return domain.Page[domain.CrateEvent]{Content: []domain.CrateEvent{{ID: 10}}, Last: true}, nil
		},
	}
	seed := state.Initial(50)
	seed = state.Reduce(seed, state.LoadFeed{Request: "f1"})
	seed = state.Reduce(seed, state.FeedLoaded{Request: "f1", At: at, Result: domain.Ok(domain.Page[domain.CrateEvent]{
		Content: []domain.CrateEvent{{ID: 2}, {ID: 1}},
	})})
	store, _ := harness(t, api, seed, Config{})

	store.Dispatch(state.LoadMoreFeed{Request: "m1", Before: at})
	require.Eventually(t, func() bool { return api.count("GetFeedBefore") == 1 }, waitFor, tick)

	store.Dispatch(state.LoadFeed{Request: "f2", Pageable: domain.FirstPage(50)})
	require.Eventually(t, func() bool {
		return store.State().Activity.Feed.IsLoaded && cancelled.Load()
	}, waitFor, tick)

	s := store.State()
	assert.Equal(t, []int64{10}, s.Activity.Feed.Value.IDs())
	assert.False(t, s.Activity.HasNextPage)
	assert.False(t, s.Activity.More.IsLoading)
}

func TestFailedSearchCanBeRetried(t *testing.T) {
	var attempts atomic.Int32
	api := &fakeAPI{search: func(_ context.Context, q string) (domain.UnifiedSearchResult, error) {
		if attempts.Add(1) == 1 {
			return domain.UnifiedSearchResult{}, errBoom
		}
		return resultFor(q), nil
	}}
	store, _ := harness(t, api, state.Initial(50), Config{})

	store.Dispatch(state.SearchQueryChanged{Query: "abc"})
	require.Eventually(t, func() bool { return store.State().Search.Results.Err != nil }, waitFor, tick)

	store.Dispatch(state.SearchQueryChanged{Query: "abc"})
	require.Eventually(t, func() bool { return store.State().Search.Results.IsLoaded }, waitFor, tick)
	assert.Equal(t, 2, api.count("Search"))
	assert.Equal(t, resultFor("abc"), state.SearchResults(store.State()))
}

func TestLogoutStopsLibrarySync(t *testing.T) {
	api := &fakeAPI{libraryStates: []domain.LibraryState{domain.LibraryUpdating}}
	store, _ := harness(t, api, state.Initial(50), Config{SyncTimeout: time.Minute})

	store.Dispatch(state.SyncLibrary{Request: "s"})
	require.Eventually(t, func() bool { return api.count("GetLibrary") >= 2 }, waitFor, tick)

	store.Dispatch(state.LoggedOut{})
	time.Sleep(20 * time.Millisecond)
	polled := api.count("GetLibrary")
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, polled, api.count("GetLibrary"))
	assert.False(t, state.IsSyncing(store.State()))
}

func crateList(tag string) []domain.Crate {
	if tag == "a" {
		return []domain.Crate{{ID: 1, Name: "a"}, {ID: 2, Name: "a"}}
	}
	return []domain.Crate{{ID: 3, Name: "b"}}
}

func crateIDs(cs []domain.Crate) []int64 {
	ids := make([]int64, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}
