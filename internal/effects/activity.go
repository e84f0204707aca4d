package effects

import (
	"context"
	"time"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

// RefreshWindow is how far back a feed refresh looks
const RefreshWindow = 24 * time.Hour

const feedMoreLane = "feed-more"

func (e *Effects) handleActivity(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.LoadFeed:
		if !s.Activity.Feed.Accepts(a.Request) {
			return
		}
		e.lanes.get(feedMoreLane).Supersede(s.Version)
		p := a.Pageable
		if p.Size == 0 {
			p = domain.FirstPage(s.PageSize)
		}
		fetch(e, s, "feed",
			func(ctx context.Context) (domain.Page[domain.CrateEvent], error) {
				return e.api.GetFeed(ctx, p)
			},
			func(r domain.Result[domain.Page[domain.CrateEvent]]) state.Action {
				return state.FeedLoaded{Request: a.Request, At: e.now(), Result: r}
			})

	case state.LoadMoreFeed:
		if !s.Activity.More.Accepts(a.Request) {
			return
		}
		fetch(e, s, feedMoreLane,
			func(ctx context.Context) ([]domain.CrateEvent, error) {
				return e.api.GetFeedBefore(ctx, a.Before, state.ActivityPageSize)
			},
			func(r domain.Result[[]domain.CrateEvent]) state.Action {
				return state.MoreFeedLoaded{Request: a.Request, Result: r}
			})

	case state.RefreshFeed:
		if !s.Activity.Refresh.Accepts(a.Request) {
			return
		}
		since := a.Since
		if since.IsZero() {
			since = e.now().Add(-RefreshWindow)
		}
		fetch(e, s, "feed-refresh",
			func(ctx context.Context) ([]domain.CrateEvent, error) {
				return e.api.GetFeedSince(ctx, since)
			},
			func(r domain.Result[[]domain.CrateEvent]) state.Action {
				return state.FeedRefreshed{Request: a.Request, At: e.now(), Result: r}
			})

	case state.CheckNewActivity:
		if !s.Activity.Probe.Accepts(a.Request) {
			return
		}
		since := a.Since
		if since.IsZero() {
			since = s.Activity.LastRefresh
		}
		fetch(e, s, "feed-probe",
			func(ctx context.Context) (bool, error) {
				return e.api.HasNewActivity(ctx, since)
			},
			func(r domain.Result[bool]) state.Action {
				return state.NewActivityChecked{Request: a.Request, Result: r}
			})
	}
}
