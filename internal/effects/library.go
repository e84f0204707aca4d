package effects

import (
	"context"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

func (e *Effects) handleLibrary(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.LoadLibraryAlbums:
		if !s.Library.Albums.Accepts(a.Request) {
			return
		}
		q := domain.LibraryQuery{
			Pageable:   a.Pageable,
			Search:     a.Filters.Search,
			HideCrated: a.Filters.HideCrated,
		}
		fetchThen(e, s, "library-albums",
			func(ctx context.Context) (domain.Page[domain.Album], error) {
				return e.api.GetLibraryAlbums(ctx, q)
			},
			func(r domain.Result[domain.Page[domain.Album]]) state.Action {
				return state.LibraryAlbumsLoaded{Request: a.Request, Mode: a.Mode, Result: r}
			},
			func(_ context.Context, page domain.Page[domain.Album]) {
				if q.Pageable.Page != 0 || q.Search != "" || e.cfg.Cache == nil {
					return
				}
				if err := e.cfg.Cache.SaveLibraryAlbums(page.Content); err != nil {
					e.logger.Warn("failed to cache library albums", "error", err)
				}
			})

	case state.LoadLibrary:
		if !s.Library.Library.Accepts(a.Request) {
			return
		}
		fetch(e, s, "library",
			e.api.GetLibrary,
			func(r domain.Result[domain.Library]) state.Action {
				return state.LibraryLoaded{Request: a.Request, Result: r}
			})

	case state.SyncLibrary:
		// a second sync while one is running was not accepted
		if !s.Library.Sync.Accepts(a.Request) {
			return
		}
		fetchThen(e, s, "sync",
			func(ctx context.Context) (domain.Library, error) {
				res, err := e.sync.Sync(ctx, e.cfg.OnSyncPoll)
				return res.Library, err
			},
			func(r domain.Result[domain.Library]) state.Action {
				return state.LibrarySynced{Request: a.Request, Result: r}
			},
			func(ctx context.Context, _ domain.Library) {
				e.reloadLibraryAlbums(ctx)
			})
	}
}
