package effects

import (
	"context"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

func (e *Effects) handleSession(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.LoadCurrentUser:
		if !s.Session.User.Accepts(a.Request) {
			return
		}
		fetchThen(e, s, "user",
			e.api.GetCurrentUser,
			func(r domain.Result[domain.User]) state.Action {
				return state.CurrentUserLoaded{Request: a.Request, Result: r}
			},
			func(_ context.Context, u domain.User) {
				if e.cfg.Cache != nil {
					if err := e.cfg.Cache.SaveUser(u); err != nil {
						e.logger.Warn("failed to cache user", "error", err)
					}
				}
			})

	case state.UpdateProfile:
		fetch(e, s, "",
			func(ctx context.Context) (domain.User, error) {
				return e.api.UpdateProfile(ctx, a.Update)
			},
			func(r domain.Result[domain.User]) state.Action {
				return state.ProfileUpdated{Request: a.Request, Result: r}
			})
	}
}

// Restore dispatches whatever the cache holds for the signed-in user so
// views can render before the first page arrives
func (e *Effects) Restore() {
	c := e.cfg.Cache
	if c == nil {
		return
	}
	var snap state.SnapshotRestored
	found := false
	if u, ok := c.GetUser(); ok {
		snap.User = &u
		found = true
	}
	if crates, ok := c.GetCrates(); ok {
		snap.Crates = crates
		found = true
	}
	if albums, ok := c.GetLibraryAlbums(); ok {
		snap.LibraryAlbums = albums
		found = true
	}
	if found {
		e.logger.Debug("restored cached snapshot", "crates", len(snap.Crates), "albums", len(snap.LibraryAlbums))
		e.store.Dispatch(snap)
	}
}
