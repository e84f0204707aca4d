package state

import "github.com/mmcdole/crates/internal/domain"

func reduceDiscover(s State, a Action) State {
	switch a := a.(type) {
	case LoadPublicCrates:
		s.Discover.PublicCrates = beginPage(s.Discover.PublicCrates, a.Request, a.Mode)
		if s.Discover.PublicCrates.Accepts(a.Request) {
			s.Discover.Search = a.Search
		}

	case PublicCratesLoaded:
		s.Discover.PublicCrates = resolvePage(s.Discover.PublicCrates, a.Request, a.Mode, crateKey, a.Result)

	case OpenProfile:
		s.Discover.Profile = s.Discover.Profile.Start(a.Request)

	case ProfileLoaded:
		if !s.Discover.Profile.Accepts(a.Request) {
			break
		}
		s.Discover.Profile = s.Discover.Profile.Resolve(a.Request, a.Result)
		if a.Result.OK() {
			s = applyProfileRelated(s, a)
		}

	case LoadUserCrates:
		if a.UserID != s.Discover.CratesOwner {
			s.Discover.UserCrates = NewPagedList[int64, domain.Crate](s.PageSize)
			s.Discover.CratesOwner = a.UserID
		}
		s.Discover.UserCrates = beginPage(s.Discover.UserCrates, a.Request, a.Mode)

	case UserCratesLoaded:
		if a.UserID != s.Discover.CratesOwner {
			break
		}
		s.Discover.UserCrates = resolvePage(s.Discover.UserCrates, a.Request, a.Mode, crateKey, a.Result)
	}
	return s
}

// applyProfileRelated stores the listings fetched alongside a profile. They
// were requested under the profile's request id, so they start and resolve
// in one step.
func applyProfileRelated(s State, a ProfileLoaded) State {
	u := a.Result.Value
	if a.Crates != nil {
		crates := NewPagedList[int64, domain.Crate](s.PageSize).Start(a.Request)
		s.Discover.UserCrates = resolvePage(crates, a.Request, Replace, crateKey, *a.Crates)
		s.Discover.CratesOwner = u.ID
	}
	if a.Stats != nil {
		stats := Loadable[domain.SocialStats]{}.Start(a.Request).Resolve(a.Request, *a.Stats)
		s.Social.UserStats = withKey(s.Social.UserStats, u.ID, stats)
	}
	if a.Follow != nil && a.Follow.OK() {
		t := s.Social.Follow[u.ID].Confirm(a.Follow.Value.IsFollowing)
		s.Social.Follow = withKey(s.Social.Follow, u.ID, t)
	}
	return s
}

func reduceTrending(s State, a Action) State {
	switch a := a.(type) {
	case LoadTrending:
		if a.List == RecentCrates {
			s.Trending.Recent = beginPage(s.Trending.Recent, a.Request, a.Mode)
		} else {
			s.Trending.Trending = beginPage(s.Trending.Trending, a.Request, a.Mode)
		}

	case TrendingLoaded:
		if a.List == RecentCrates {
			s.Trending.Recent = resolvePage(s.Trending.Recent, a.Request, a.Mode, crateKey, a.Result)
		} else {
			s.Trending.Trending = resolvePage(s.Trending.Trending, a.Request, a.Mode, crateKey, a.Result)
		}
	}
	return s
}
