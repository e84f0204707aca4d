package effects

import (
	"context"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
	"golang.org/x/sync/errgroup"
)

func (e *Effects) handleDiscover(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.LoadPublicCrates:
		if !s.Discover.PublicCrates.Accepts(a.Request) {
			return
		}
		q := domain.ListQuery{Pageable: a.Pageable, Search: a.Search}
		fetch(e, s, "public-crates",
			func(ctx context.Context) (domain.Page[domain.Crate], error) {
				return e.api.GetPublicCrates(ctx, q)
			},
			func(r domain.Result[domain.Page[domain.Crate]]) state.Action {
				return state.PublicCratesLoaded{Request: a.Request, Mode: a.Mode, Result: r}
			})

	case state.OpenProfile:
		if !s.Discover.Profile.Accepts(a.Request) {
			return
		}
		e.openProfile(a, s)

	case state.LoadUserCrates:
		if !s.Discover.UserCrates.Accepts(a.Request) {
			return
		}
		fetch(e, s, "user-crates",
			func(ctx context.Context) (domain.Page[domain.Crate], error) {
				return e.api.GetUserCrates(ctx, a.UserID, a.Pageable)
			},
			func(r domain.Result[domain.Page[domain.Crate]]) state.Action {
				return state.UserCratesLoaded{Request: a.Request, UserID: a.UserID, Mode: a.Mode, Result: r}
			})

	case state.LoadTrending:
		list, lane, call := s.Trending.Trending, "trending", e.api.GetTrendingCrates
		if a.List == state.RecentCrates {
			list, lane, call = s.Trending.Recent, "recent", e.api.GetRecentCrates
		}
		if !list.Accepts(a.Request) {
			return
		}
		fetch(e, s, lane,
			func(ctx context.Context) (domain.Page[domain.Crate], error) {
				return call(ctx, a.Pageable)
			},
			func(r domain.Result[domain.Page[domain.Crate]]) state.Action {
				return state.TrendingLoaded{Request: a.Request, List: a.List, Mode: a.Mode, Result: r}
			})

	case state.RecordCrateView:
		e.background(func(ctx context.Context) {
			if err := e.api.RecordView(ctx, a.CrateID); err != nil {
				e.logger.Debug("crate view not recorded", "crate", a.CrateID, "error", err)
			}
		})
	}
}

// openProfile resolves the identifier, then fetches the user's first page
// of crates, their stats and (for other users) the follow status
// concurrently. One result action carries everything.
func (e *Effects) openProfile(a state.OpenProfile, s state.State) {
	me, pageSize := s.Session.User.Value.ID, s.PageSize
	fetch(e, s, "profile",
		func(ctx context.Context) (state.ProfileLoaded, error) {
			user, err := e.api.GetUserProfile(ctx, a.Identifier)
			if err != nil {
				return state.ProfileLoaded{}, err
			}
			loaded := state.ProfileLoaded{Request: a.Request, Result: domain.Ok(user)}

			// each branch records its own outcome; one failing does not
			// cancel the others, so the group has no shared context
			var g errgroup.Group
			g.Go(func() error {
				page, err := e.api.GetUserCrates(ctx, user.ID, domain.FirstPage(pageSize))
				r := domain.From(page, err)
				loaded.Crates = &r
				return err
			})
			g.Go(func() error {
				stats, err := e.api.GetUserStats(ctx, user.ID)
				r := domain.From(stats, err)
				loaded.Stats = &r
				return err
			})
			if user.ID != me {
				g.Go(func() error {
					status, err := e.api.GetFollowStatus(ctx, user.ID)
					r := domain.From(status, err)
					loaded.Follow = &r
					return err
				})
			}
			if err := g.Wait(); err != nil {
				e.logger.Warn("profile partially loaded", "user", user.ID, "error", err)
			}
			return loaded, nil
		},
		func(r domain.Result[state.ProfileLoaded]) state.Action {
			if !r.OK() {
				return state.ProfileLoaded{Request: a.Request, Result: domain.Fail[domain.PublicUser](r.Err)}
			}
			return r.Value
		})
}
