package state

import "github.com/mmcdole/crates/internal/domain"

func reduceSocial(s State, a Action) State {
	switch a := a.(type) {
	case FollowUser:
		s = toggleFollow(s, a.UserID, func(t Toggle) Toggle { return t.Begin(a.Op, true) })
		s.Social.Err = nil

	case UnfollowUser:
		s = toggleFollow(s, a.UserID, func(t Toggle) Toggle { return t.Begin(a.Op, false) })
		s.Social.Err = nil

	case FollowToggled:
		if a.Result.OK() {
			s = toggleFollow(s, a.UserID, func(t Toggle) Toggle {
				return t.Succeed(a.Op, a.Result.Value.IsFollowing)
			})
		} else {
			s = toggleFollow(s, a.UserID, func(t Toggle) Toggle { return t.Fail(a.Op) })
			s.Social.Err = a.Result.Err
		}

	case LoadFollowStatus:
		s.Social.Probes = withKey(s.Social.Probes, a.UserID, a.Request)

	case FollowStatusLoaded:
		if s.Social.Probes[a.UserID] != a.Request {
			break
		}
		s.Social.Probes = withoutKey(s.Social.Probes, a.UserID)
		if a.Result.OK() {
			t := s.Social.Follow[a.UserID].Confirm(a.Result.Value.IsFollowing)
			s.Social.Follow = withKey(s.Social.Follow, a.UserID, t)
		} else {
			s.Social.Err = a.Result.Err
		}

	case LoadSocialStats:
		if a.UserID == 0 {
			s.Social.MyStats = s.Social.MyStats.Start(a.Request)
		} else {
			s.Social.UserStats = withKey(s.Social.UserStats, a.UserID, s.Social.UserStats[a.UserID].Start(a.Request))
		}

	case SocialStatsLoaded:
		if a.UserID == 0 {
			s.Social.MyStats = s.Social.MyStats.Resolve(a.Request, a.Result)
		} else if stats, ok := s.Social.UserStats[a.UserID]; ok {
			s.Social.UserStats = withKey(s.Social.UserStats, a.UserID, stats.Resolve(a.Request, a.Result))
		}

	case LoadFollows:
		if a.List == Followers {
			s.Social.Followers = beginPage(s.Social.Followers, a.Request, a.Mode)
		} else {
			s.Social.Following = beginPage(s.Social.Following, a.Request, a.Mode)
		}

	case FollowsLoaded:
		if a.List == Followers {
			s.Social.Followers = resolvePage(s.Social.Followers, a.Request, a.Mode, followKey, a.Result)
		} else {
			s.Social.Following = resolvePage(s.Social.Following, a.Request, a.Mode, followKey, a.Result)
		}

	case SearchUsers:
		s.Social.Users = beginPage(s.Social.Users, a.Request, a.Mode)
		if s.Social.Users.Accepts(a.Request) {
			s.Social.UsersQuery = a.Query
		}

	case UsersFound:
		s.Social.Users = resolvePage(s.Social.Users, a.Request, a.Mode, publicUserKey, a.Result)
	}
	return s
}

// toggleFollow moves a user's follow toggle and shifts the counts tied to
// it: the user's follower count and the signed-in user's following count
func toggleFollow(s State, userID int64, fn func(Toggle) Toggle) State {
	before := s.Social.Follow[userID]
	after := fn(before)
	s.Social.Follow = withKey(s.Social.Follow, userID, after)

	d := countDelta(before, after)
	if d == 0 {
		return s
	}
	if stats, ok := s.Social.UserStats[userID]; ok {
		s.Social.UserStats = withKey(s.Social.UserStats, userID, stats.Update(func(st domain.SocialStats) domain.SocialStats {
			st.FollowerCount += d
			return st
		}))
	}
	s.Social.MyStats = s.Social.MyStats.Update(func(st domain.SocialStats) domain.SocialStats {
		st.FollowingCount += d
		return st
	})
	if s.Discover.Profile.Value.ID == userID {
		s.Discover.Profile = s.Discover.Profile.Update(func(u domain.PublicUser) domain.PublicUser {
			u.FollowerCount += d
			return u
		})
	}
	return s
}
