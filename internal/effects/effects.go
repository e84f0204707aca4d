package effects

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
	"golang.org/x/sync/singleflight"
)

// Config tunes the effect handlers
type Config struct {
	SearchDebounce time.Duration
	SyncInterval   time.Duration
	SyncTimeout    time.Duration

	// Cache is optional. When set, first pages are written through to it
	// and restored from it before the network answers.
	Cache domain.SnapshotStore

	// OnSyncPoll observes every library status probe. Optional.
	OnSyncPoll domain.PollFunc
}

// Effects turns intent actions into API calls and dispatches their results.
//
// The reducer decides whether an intent was accepted: each handler reads the
// snapshot produced by its own intent and only issues a call if the
// snapshot still names the intent's request id as outstanding.
type Effects struct {
	store  *state.Store
	api    domain.API
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	scope  *Scope
	lanes  lanes
	probes singleflight.Group
	sync   *SyncPoller

	search    *Debouncer
	searchMu  sync.Mutex
	lastQuery string
}

// New creates effect handlers for store backed by api. Call Start to begin
// handling actions and Close to tear everything down.
func New(store *state.Store, api domain.API, cfg Config, logger *slog.Logger) *Effects {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Effects{
		store:  store,
		api:    api,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		sync:   NewSyncPoller(api, cfg.SyncInterval, cfg.SyncTimeout, logger),
	}
	e.search = NewDebouncer(cfg.SearchDebounce, e.querySettled)
	return e
}

// Start subscribes to the store under a scope derived from ctx
func (e *Effects) Start(ctx context.Context) {
	e.scope = NewScope(ctx)
	e.scope.Defer(e.search.Stop)
	e.scope.Defer(e.store.Subscribe(e.handle))
}

// Close cancels in-flight requests and stops handling actions. Results
// arriving afterwards are discarded.
func (e *Effects) Close() {
	if e.scope != nil {
		e.scope.Close()
	}
}

// emit dispatches a from an effect goroutine unless the scope is gone
func (e *Effects) emit(ctx context.Context, a state.Action) {
	if ctx.Err() != nil || e.scope.Closed() {
		return
	}
	e.store.Dispatch(a)
}

// background runs fn on the scope
func (e *Effects) background(fn func(ctx context.Context)) {
	if !e.scope.Go(fn) {
		e.logger.Debug("effect dropped after teardown")
	}
}

// fetch runs call on the named lane and dispatches its tagged result.
// s is the snapshot produced by the intent that asked for the call.
// An empty lane runs without superseding anything. A call cancelled by a
// newer request or by teardown reports nothing.
func fetch[T any](e *Effects, s state.State, lane string, call func(context.Context) (T, error), done func(domain.Result[T]) state.Action) {
	fetchThen(e, s, lane, call, done, nil)
}

// fetchThen is fetch with a follow-up that runs after a successful result
// has been dispatched
func fetchThen[T any](e *Effects, s state.State, lane string, call func(context.Context) (T, error), done func(domain.Result[T]) state.Action, then func(ctx context.Context, v T)) {
	// listeners can run out of dispatch order, so the lane compares
	// snapshot versions instead of trusting arrival order
	ctx, release := e.scope.Context(), func() {}
	if lane != "" {
		ctx, release = e.lanes.get(lane).Switch(ctx, s.Version)
	}
	if ctx.Err() != nil {
		release()
		return
	}
	started := e.scope.Go(func(context.Context) {
		defer release()

		v, err := call(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			e.logger.Warn("request failed", "lane", lane, "error", err)
		}
		e.emit(ctx, done(domain.From(v, err)))
		if err == nil && then != nil {
			then(ctx, v)
		}
	})
	if !started {
		release()
	}
}

// handle is the store listener
func (e *Effects) handle(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.LoggedOut:
		e.lanes.cancelAll()
		e.resetSearch()
		if e.cfg.Cache != nil {
			e.cfg.Cache.InvalidateAll()
		}

	// session
	case state.LoadCurrentUser, state.UpdateProfile:
		e.handleSession(a, s)

	// crates
	case state.LoadCrates, state.LoadCrate, state.CreateCrate, state.UpdateCrate,
		state.AddAlbumsToCrate, state.RemoveAlbumFromCrate, state.LoadCrateAlbums:
		e.handleCrates(a, s)

	// library
	case state.LoadLibraryAlbums, state.LoadLibrary, state.SyncLibrary:
		e.handleLibrary(a, s)

	// collection and social
	case state.AddToCollection, state.RemoveFromCollection, state.LoadCollectionStatus,
		state.LoadMyCollection, state.FollowUser, state.UnfollowUser, state.LoadFollowStatus,
		state.LoadSocialStats, state.LoadFollows, state.SearchUsers:
		e.handleSocial(a, s)

	// search
	case state.SearchQueryChanged, state.SearchRequested, state.SearchCompleted, state.ClearSearch:
		e.handleSearch(a, s)

	// discover and trending
	case state.LoadPublicCrates, state.OpenProfile, state.LoadUserCrates,
		state.LoadTrending, state.RecordCrateView:
		e.handleDiscover(a, s)

	// activity
	case state.LoadFeed, state.LoadMoreFeed, state.RefreshFeed, state.CheckNewActivity:
		e.handleActivity(a, s)
	}
}

// reloadLibraryAlbums re-requests the first page of library albums with
// the filters currently in effect
func (e *Effects) reloadLibraryAlbums(ctx context.Context) {
	s := e.store.State()
	e.emit(ctx, state.LoadLibraryAlbums{
		Request:  state.NewRequestID(),
		Mode:     state.Replace,
		Pageable: domain.FirstPage(s.PageSize),
		Filters:  s.Library.Filters,
	})
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(q)
}
