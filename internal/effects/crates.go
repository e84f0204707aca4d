package effects

import (
	"context"
	"fmt"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

func (e *Effects) handleCrates(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.LoadCrates:
		if !s.Crates.List.Accepts(a.Request) {
			return
		}
		q := domain.ListQuery{Pageable: a.Pageable, Search: a.Search}
		fetchThen(e, s, "crates",
			func(ctx context.Context) (domain.Page[domain.Crate], error) {
				return e.api.GetCrates(ctx, q)
			},
			func(r domain.Result[domain.Page[domain.Crate]]) state.Action {
				return state.CratesLoaded{Request: a.Request, Mode: a.Mode, Result: r}
			},
			func(_ context.Context, page domain.Page[domain.Crate]) {
				if q.Pageable.Page == 0 && q.Search == "" {
					e.cacheCrates(page.Content)
				}
			})

	case state.LoadCrate:
		if !s.Crates.Detail.Accepts(a.Request) {
			return
		}
		fetch(e, s, "crate",
			func(ctx context.Context) (domain.Crate, error) {
				return e.api.GetCrate(ctx, a.ID)
			},
			func(r domain.Result[domain.Crate]) state.Action {
				return state.CrateLoaded{Request: a.Request, ID: a.ID, Result: r}
			})

	case state.CreateCrate:
		fetch(e, s, "",
			func(ctx context.Context) (domain.Crate, error) {
				return e.api.CreateCrate(ctx, a.Name)
			},
			func(r domain.Result[domain.Crate]) state.Action {
				return state.CrateCreated{Request: a.Request, Result: r}
			})

	case state.UpdateCrate:
		fetchThen(e, s, "",
			func(ctx context.Context) (domain.Crate, error) {
				return e.api.UpdateCrate(ctx, a.ID, a.Update)
			},
			func(r domain.Result[domain.Crate]) state.Action {
				return state.CrateUpdated{Request: a.Request, ID: a.ID, Result: r}
			},
			func(ctx context.Context, _ domain.Crate) {
				e.invalidateCrate(a.ID)
				e.emit(ctx, state.LoadCrate{Request: state.NewRequestID(), ID: a.ID})
			})

	case state.AddAlbumsToCrate:
		fetchThen(e, s, "",
			func(ctx context.Context) (domain.Crate, error) {
				return e.api.AddAlbumsToCrate(ctx, a.CrateID, a.Albums)
			},
			func(r domain.Result[domain.Crate]) state.Action {
				return state.AlbumsAddedToCrate{Request: a.Request, CrateID: a.CrateID, Albums: a.Albums, Result: r}
			},
			func(ctx context.Context, _ domain.Crate) {
				e.invalidateCrate(a.CrateID)
				e.emit(ctx, state.LoadCrateAlbums{
					Request:  state.NewRequestID(),
					CrateID:  a.CrateID,
					Mode:     state.Replace,
					Pageable: domain.FirstPage(e.store.State().PageSize),
				})
			})

	case state.RemoveAlbumFromCrate:
		fetchThen(e, s, "",
			func(ctx context.Context) (domain.Crate, error) {
				return e.api.RemoveAlbumFromCrate(ctx, a.CrateID, a.AlbumID)
			},
			func(r domain.Result[domain.Crate]) state.Action {
				return state.AlbumRemovedFromCrate{Request: a.Request, CrateID: a.CrateID, AlbumID: a.AlbumID, Result: r}
			},
			func(ctx context.Context, _ domain.Crate) {
				e.invalidateCrate(a.CrateID)
				e.emit(ctx, state.LoadCrate{Request: state.NewRequestID(), ID: a.CrateID})
				// the album is no longer crated, so the filtered library may show it again
				e.reloadLibraryAlbums(ctx)
			})

	case state.LoadCrateAlbums:
		albums, ok := s.Crates.Albums[a.CrateID]
		if !ok || !albums.Accepts(a.Request) {
			return
		}
		if albums.Value.Items.Len() == 0 {
			e.restoreCrateAlbums(a.CrateID)
		}
		fetchThen(e, s, fmt.Sprintf("crate-albums:%d", a.CrateID),
			func(ctx context.Context) (domain.Page[domain.Album], error) {
				return e.api.GetCrateAlbums(ctx, a.CrateID, a.Pageable)
			},
			func(r domain.Result[domain.Page[domain.Album]]) state.Action {
				return state.CrateAlbumsLoaded{Request: a.Request, CrateID: a.CrateID, Mode: a.Mode, Result: r}
			},
			func(_ context.Context, page domain.Page[domain.Album]) {
				if a.Pageable.Page == 0 && e.cfg.Cache != nil {
					if err := e.cfg.Cache.SaveCrateAlbums(a.CrateID, page.Content); err != nil {
						e.logger.Warn("failed to cache crate albums", "crate", a.CrateID, "error", err)
					}
				}
			})
	}
}

func (e *Effects) cacheCrates(crates []domain.Crate) {
	if e.cfg.Cache == nil {
		return
	}
	if err := e.cfg.Cache.SaveCrates(crates); err != nil {
		e.logger.Warn("failed to cache crates", "error", err)
	}
}

func (e *Effects) invalidateCrate(id int64) {
	if e.cfg.Cache != nil {
		e.cfg.Cache.InvalidateCrate(id)
	}
}

// restoreCrateAlbums seeds an empty crate album listing from the cache
func (e *Effects) restoreCrateAlbums(crateID int64) {
	if e.cfg.Cache == nil {
		return
	}
	albums, ok := e.cfg.Cache.GetCrateAlbums(crateID)
	if !ok {
		return
	}
	e.background(func(ctx context.Context) {
		e.emit(ctx, state.SnapshotRestored{CrateID: crateID, CrateAlbums: albums})
	})
}
