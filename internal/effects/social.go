package effects

import (
	"context"
	"fmt"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

func (e *Effects) handleSocial(a state.Action, s state.State) {
	switch a := a.(type) {
	// collection
	case state.AddToCollection:
		fetch(e, s, "",
			func(ctx context.Context) (domain.CollectionStatus, error) {
				return e.api.AddToCollection(ctx, a.CrateID)
			},
			func(r domain.Result[domain.CollectionStatus]) state.Action {
				return state.CollectionToggled{Op: a.Op, CrateID: a.CrateID, Result: r}
			})

	case state.RemoveFromCollection:
		fetch(e, s, "",
			func(ctx context.Context) (domain.CollectionStatus, error) {
				return e.api.RemoveFromCollection(ctx, a.CrateID)
			},
			func(r domain.Result[domain.CollectionStatus]) state.Action {
				return state.CollectionToggled{Op: a.Op, CrateID: a.CrateID, Result: r}
			})

	case state.LoadCollectionStatus:
		if s.Collection.Probes[a.CrateID] != a.Request {
			return
		}
		fetch(e, s, "",
			func(ctx context.Context) (domain.CollectionStatus, error) {
				return probe(e, fmt.Sprintf("collection:%d", a.CrateID), func() (domain.CollectionStatus, error) {
					return e.api.GetCollectionStatus(ctx, a.CrateID)
				})
			},
			func(r domain.Result[domain.CollectionStatus]) state.Action {
				return state.CollectionStatusLoaded{Request: a.Request, CrateID: a.CrateID, Result: r}
			})

	case state.LoadMyCollection:
		if !s.Collection.Mine.Accepts(a.Request) {
			return
		}
		q := domain.ListQuery{Pageable: a.Pageable, Search: a.Search}
		fetch(e, s, "my-collection",
			func(ctx context.Context) (domain.Page[domain.Crate], error) {
				return e.api.GetMyCollection(ctx, q)
			},
			func(r domain.Result[domain.Page[domain.Crate]]) state.Action {
				return state.MyCollectionLoaded{Request: a.Request, Mode: a.Mode, Result: r}
			})

	// follow graph
	case state.FollowUser:
		fetch(e, s, "",
			func(ctx context.Context) (domain.FollowStatus, error) {
				return e.api.Follow(ctx, a.UserID)
			},
			func(r domain.Result[domain.FollowStatus]) state.Action {
				return state.FollowToggled{Op: a.Op, UserID: a.UserID, Result: r}
			})

	case state.UnfollowUser:
		fetch(e, s, "",
			func(ctx context.Context) (domain.FollowStatus, error) {
				return e.api.Unfollow(ctx, a.UserID)
			},
			func(r domain.Result[domain.FollowStatus]) state.Action {
				return state.FollowToggled{Op: a.Op, UserID: a.UserID, Result: r}
			})

	case state.LoadFollowStatus:
		if s.Social.Probes[a.UserID] != a.Request {
			return
		}
		fetch(e, s, "",
			func(ctx context.Context) (domain.FollowStatus, error) {
				return probe(e, fmt.Sprintf("follow:%d", a.UserID), func() (domain.FollowStatus, error) {
					return e.api.GetFollowStatus(ctx, a.UserID)
				})
			},
			func(r domain.Result[domain.FollowStatus]) state.Action {
				return state.FollowStatusLoaded{Request: a.Request, UserID: a.UserID, Result: r}
			})

	case state.LoadSocialStats:
		if a.UserID == 0 {
			if !s.Social.MyStats.Accepts(a.Request) {
				return
			}
			fetch(e, s, "my-stats",
				e.api.GetMyStats,
				func(r domain.Result[domain.SocialStats]) state.Action {
					return state.SocialStatsLoaded{Request: a.Request, Result: r}
				})
			return
		}
		if !s.Social.UserStats[a.UserID].Accepts(a.Request) {
			return
		}
		fetch(e, s, fmt.Sprintf("user-stats:%d", a.UserID),
			func(ctx context.Context) (domain.SocialStats, error) {
				return e.api.GetUserStats(ctx, a.UserID)
			},
			func(r domain.Result[domain.SocialStats]) state.Action {
				return state.SocialStatsLoaded{Request: a.Request, UserID: a.UserID, Result: r}
			})

	case state.LoadFollows:
		list, lane, call := s.Social.Following, "following", e.api.GetFollowing
		if a.List == state.Followers {
			list, lane, call = s.Social.Followers, "followers", e.api.GetFollowers
		}
		if !list.Accepts(a.Request) {
			return
		}
		fetch(e, s, lane,
			func(ctx context.Context) (domain.Page[domain.UserFollow], error) {
				return call(ctx, a.Pageable)
			},
			func(r domain.Result[domain.Page[domain.UserFollow]]) state.Action {
				return state.FollowsLoaded{Request: a.Request, List: a.List, Mode: a.Mode, Result: r}
			})

	case state.SearchUsers:
		if !s.Social.Users.Accepts(a.Request) {
			return
		}
		q := domain.ListQuery{Pageable: a.Pageable, Search: a.Query}
		fetch(e, s, "user-search",
			func(ctx context.Context) (domain.Page[domain.PublicUser], error) {
				return e.api.SearchUsers(ctx, q)
			},
			func(r domain.Result[domain.Page[domain.PublicUser]]) state.Action {
				return state.UsersFound{Request: a.Request, Mode: a.Mode, Result: r}
			})
	}
}

// probe collapses concurrent status lookups for the same key into one call
func probe[T any](e *Effects, key string, call func() (T, error)) (T, error) {
	v, err, shared := e.probes.Do(key, func() (interface{}, error) {
		return call()
	})
	if shared {
		e.logger.Debug("status probe shared", "key", key)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
