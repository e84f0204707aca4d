package state

import (
	"time"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
)

// State is an immutable snapshot of the whole client. Reducers return a new
// State for every action; nothing reachable from a published snapshot is
// ever written again.
type State struct {
	// Version increases by one for every dispatched action
	Version uint64

	// PageSize is used for every first-page request
	PageSize int

	Session    SessionState
	Crates     CrateState
	Library    LibraryState
	Collection CollectionState
	Social     SocialState
	Search     SearchState
	Discover   DiscoverState
	Trending   TrendingState
	Activity   ActivityState
	Navigation navigation.State
}

// SessionState holds the signed-in user
type SessionState struct {
	SignedIn bool
	User     Loadable[domain.User]
	Profile  Mutation
}

// CrateState holds the signed-in user's crates
type CrateState struct {
	List     PagedList[int64, domain.Crate]
	Search   string
	Detail   Loadable[domain.Crate]
	Albums   map[int64]PagedList[int64, domain.Album]
	Mutation Mutation
}

// LibraryState holds imported library albums and sync status
type LibraryState struct {
	Albums    PagedList[string, domain.Album]
	Filters   LibraryFilters
	Selection []string // spotify ids in selection order
	Library   Loadable[domain.Library]
	Sync      Flight
}

// CollectionState holds saved-crate flags and the saved-crate listing
type CollectionState struct {
	Status map[int64]Toggle
	Probes map[int64]string
	Mine   PagedList[int64, domain.Crate]
	Search string
	Err    error
}

// SocialState holds follow flags, counts and follow listings
type SocialState struct {
	Follow     map[int64]Toggle
	Probes     map[int64]string
	MyStats    Loadable[domain.SocialStats]
	UserStats  map[int64]Loadable[domain.SocialStats]
	Following  PagedList[int64, domain.UserFollow]
	Followers  PagedList[int64, domain.UserFollow]
	Users      PagedList[int64, domain.PublicUser]
	UsersQuery string
	Err        error
}

// SearchState holds the unified search
type SearchState struct {
	Input   string // latest raw keystroke value
	Query   string // query of the outstanding or last completed search
	Results Loadable[domain.UnifiedSearchResult]
}

// DiscoverState holds public crates and the viewed profile
type DiscoverState struct {
	PublicCrates PagedList[int64, domain.Crate]
	Search       string
	Profile      Loadable[domain.PublicUser]
	UserCrates   PagedList[int64, domain.Crate]
	CratesOwner  int64
}

// TrendingState holds unauthenticated public listings
type TrendingState struct {
	Trending PagedList[int64, domain.Crate]
	Recent   PagedList[int64, domain.Crate]
}

// ActivityState holds the activity feed
type ActivityState struct {
	Feed        Loadable[EntityMap[int64, domain.CrateEvent]]
	HasNextPage bool
	More        Flight
	Refresh     Flight
	Probe       Flight
	HasNew      bool
	LastRefresh time.Time
	LastRead    time.Time
}

// Initial returns the state of a fresh session
func Initial(pageSize int) State {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return State{
		PageSize: pageSize,
		Crates: CrateState{
			List:   NewPagedList[int64, domain.Crate](pageSize),
			Albums: map[int64]PagedList[int64, domain.Album]{},
		},
		Library: LibraryState{
			Albums:  NewPagedList[string, domain.Album](pageSize),
			Filters: LibraryFilters{HideCrated: true},
		},
		Collection: CollectionState{
			Status: map[int64]Toggle{},
			Probes: map[int64]string{},
			Mine:   NewPagedList[int64, domain.Crate](pageSize),
		},
		Social: SocialState{
			Follow:    map[int64]Toggle{},
			Probes:    map[int64]string{},
			UserStats: map[int64]Loadable[domain.SocialStats]{},
			Following: NewPagedList[int64, domain.UserFollow](pageSize),
			Followers: NewPagedList[int64, domain.UserFollow](pageSize),
			Users:     NewPagedList[int64, domain.PublicUser](pageSize),
		},
		Discover: DiscoverState{
			PublicCrates: NewPagedList[int64, domain.Crate](pageSize),
			UserCrates:   NewPagedList[int64, domain.Crate](pageSize),
		},
		Trending: TrendingState{
			Trending: NewPagedList[int64, domain.Crate](pageSize),
			Recent:   NewPagedList[int64, domain.Crate](pageSize),
		},
	}
}

// Reducer turns a snapshot and an action into the next snapshot
type Reducer func(State, Action) State

// Reduce is the root reducer. Each slice reducer sees the whole snapshot
// so cross-slice effects (counters, hidden albums) stay in one place.
func Reduce(s State, a Action) State {
	if _, ok := a.(LoggedOut); ok {
		next := Initial(s.PageSize)
		next.Version = s.Version
		return next
	}

	if r, ok := a.(SnapshotRestored); ok {
		return restoreSnapshot(s, r)
	}

	s = reduceSession(s, a)
	s = reduceCrates(s, a)
	s = reduceLibrary(s, a)
	s = reduceCollection(s, a)
	s = reduceSocial(s, a)
	s = reduceSearch(s, a)
	s = reduceDiscover(s, a)
	s = reduceTrending(s, a)
	s = reduceActivity(s, a)
	s = reduceNavigation(s, a)
	return s
}

func reduceSession(s State, a Action) State {
	switch a := a.(type) {
	case SignedIn:
		s.Session.SignedIn = true
	case LoadCurrentUser:
		s.Session.User = s.Session.User.Start(a.Request)
	case CurrentUserLoaded:
		s.Session.User = s.Session.User.Resolve(a.Request, a.Result)
		if a.Result.OK() {
			s.Session.SignedIn = true
		}
	case UpdateProfile:
		s.Session.Profile = s.Session.Profile.Begin()
	case ProfileUpdated:
		s.Session.Profile = s.Session.Profile.End(a.Result.Err)
		if a.Result.OK() {
			user := a.Result.Value
			s.Session.User = s.Session.User.Update(func(domain.User) domain.User { return user })
		}
	}
	return s
}

// restoreSnapshot seeds values from the cache. Anything already loaded
// from the network wins; loading flags are left alone.
func restoreSnapshot(s State, r SnapshotRestored) State {
	if r.User != nil && !s.Session.User.IsLoaded {
		user := *r.User
		s.Session.User = s.Session.User.Update(func(domain.User) domain.User { return user })
	}
	if len(r.Crates) > 0 && s.Crates.List.Value.Items.Len() == 0 {
		s.Crates.List.Value.Items = s.Crates.List.Value.Items.SetAll(crateKey, r.Crates)
	}
	if len(r.LibraryAlbums) > 0 && s.Library.Albums.Value.Items.Len() == 0 {
		s.Library.Albums.Value.Items = s.Library.Albums.Value.Items.SetAll(libraryAlbumKey, r.LibraryAlbums)
	}
	if len(r.CrateAlbums) > 0 && r.CrateID != 0 {
		albums, ok := s.Crates.Albums[r.CrateID]
		if !ok {
			albums = NewPagedList[int64, domain.Album](s.PageSize)
		}
		if albums.Value.Items.Len() == 0 {
			albums.Value.Items = albums.Value.Items.SetAll(albumKey, r.CrateAlbums)
			s.Crates.Albums = withKey(s.Crates.Albums, r.CrateID, albums)
		}
	}
	return s
}

func reduceNavigation(s State, a Action) State {
	switch a := a.(type) {
	case SetNavigationContext:
		s.Navigation = s.Navigation.SetContext(a.Context)
	case TrackNavigation:
		from := a.From
		if from == navigation.Unset {
			from = s.Navigation.Current
		}
		s.Navigation = s.Navigation.TrackFrom(a.Subject, from, a.At)
	case ClearNavigation:
		s.Navigation = s.Navigation.Clear()
	}
	return s
}

// updateCrateEverywhere applies fn to crate id in every listing that holds it
func updateCrateEverywhere(s State, id int64, fn func(domain.Crate) domain.Crate) State {
	upd := func(l PagedList[int64, domain.Crate]) PagedList[int64, domain.Crate] {
		if !l.Value.Items.Has(id) {
			return l
		}
		l.Value.Items = l.Value.Items.Update(id, fn)
		return l
	}
	s.Crates.List = upd(s.Crates.List)
	s.Collection.Mine = upd(s.Collection.Mine)
	s.Discover.PublicCrates = upd(s.Discover.PublicCrates)
	s.Discover.UserCrates = upd(s.Discover.UserCrates)
	s.Trending.Trending = upd(s.Trending.Trending)
	s.Trending.Recent = upd(s.Trending.Recent)
	if s.Crates.Detail.Value.ID == id {
		s.Crates.Detail = s.Crates.Detail.Update(fn)
	}
	return s
}

// findCrate looks a crate up in any listing
func findCrate(s State, id int64) (domain.Crate, bool) {
	if s.Crates.Detail.Value.ID == id && id != 0 {
		return s.Crates.Detail.Value, true
	}
	for _, l := range []PagedList[int64, domain.Crate]{
		s.Crates.List, s.Discover.PublicCrates, s.Discover.UserCrates,
		s.Trending.Trending, s.Trending.Recent, s.Collection.Mine,
	} {
		if c, ok := l.Value.Items.Get(id); ok {
			return c, true
		}
	}
	return domain.Crate{}, false
}
