package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/state"
	"github.com/mmcdole/crates/internal/tui/components"
	"github.com/mmcdole/crates/internal/tui/styles"
)

// ViewKind identifies which listing a column shows
type ViewKind int

const (
	ViewMyCrates ViewKind = iota
	ViewCollection
	ViewLibrary
	ViewActivity
	ViewDiscoverMenu
	ViewPublicCrates
	ViewTrending
	ViewRecent
	ViewProfileMenu
	ViewFollowing
	ViewFollowers
	ViewCrateAlbums // ID = crate id
	ViewUserCrates  // ID = user id, Ident = handle or spotify id
	ViewCratePicker
)

// View describes a column's content
type View struct {
	Kind  ViewKind
	ID    int64
	Ident string
	Title string
}

// Menu entry ids
const (
	menuPublic     = "public"
	menuTrending   = "trending"
	menuRecent     = "recent"
	menuCollection = "collection"
	menuFollowing  = "following"
	menuFollowers  = "followers"
)

// rootView returns the first column of a section
func rootView(c navigation.Context) View {
	switch c {
	case navigation.Library:
		return View{Kind: ViewLibrary, Title: "Library"}
	case navigation.Activity:
		return View{Kind: ViewActivity, Title: "Activity"}
	case navigation.Discover:
		return View{Kind: ViewDiscoverMenu, Title: "Discover"}
	case navigation.Profile:
		return View{Kind: ViewProfileMenu, Title: "Profile"}
	default:
		return View{Kind: ViewMyCrates, Title: "My Crates"}
	}
}

// menuView maps a menu entry to the listing it opens
func menuView(id string) (View, bool) {
	switch id {
	case menuPublic:
		return View{Kind: ViewPublicCrates, Title: "Public Crates"}, true
	case menuTrending:
		return View{Kind: ViewTrending, Title: "Trending"}, true
	case menuRecent:
		return View{Kind: ViewRecent, Title: "Recently Released"}, true
	case menuCollection:
		return View{Kind: ViewCollection, Title: "My Collection"}, true
	case menuFollowing:
		return View{Kind: ViewFollowing, Title: "Following"}, true
	case menuFollowers:
		return View{Kind: ViewFollowers, Title: "Followers"}, true
	}
	return View{}, false
}

func crateView(c domain.Crate) View {
	return View{Kind: ViewCrateAlbums, ID: c.ID, Title: c.Name}
}

func userView(u domain.PublicUser) View {
	return View{Kind: ViewUserCrates, ID: u.ID, Ident: u.Identifier(), Title: u.Name()}
}

// listStatus is the footer state of a column
type listStatus struct {
	loading bool
	hasMore bool
	err     error
}

func pagedStatus[K comparable, V any](l state.PagedList[K, V]) listStatus {
	return listStatus{
		loading: l.IsLoading,
		hasMore: l.IsLoaded && l.Value.HasNextPage(),
		err:     l.Err,
	}
}

// rows builds the column content for v from a snapshot
func rows(s state.State, v View) ([]components.ListItem, listStatus) {
	switch v.Kind {
	case ViewMyCrates, ViewCratePicker:
		return crateRows(s, state.MyCrates(s)), pagedStatus(s.Crates.List)
	case ViewCollection:
		return crateRows(s, s.Collection.Mine.Value.Items.Values()), pagedStatus(s.Collection.Mine)
	case ViewPublicCrates:
		return crateRows(s, s.Discover.PublicCrates.Value.Items.Values()), pagedStatus(s.Discover.PublicCrates)
	case ViewTrending:
		return crateRows(s, s.Trending.Trending.Value.Items.Values()), pagedStatus(s.Trending.Trending)
	case ViewRecent:
		return crateRows(s, s.Trending.Recent.Value.Items.Values()), pagedStatus(s.Trending.Recent)

	case ViewLibrary:
		albums := state.LibraryAlbums(s)
		items := make([]components.ListItem, 0, len(albums))
		for _, a := range albums {
			items = append(items, components.AlbumListItem{Album: a, Selected: state.IsAlbumSelected(s, a.SpotifyID)})
		}
		st := pagedStatus(s.Library.Albums)
		if st.err == nil {
			st.err = s.Library.Sync.Err
		}
		return items, st

	case ViewCrateAlbums:
		l, ok := s.Crates.Albums[v.ID]
		if !ok {
			return nil, listStatus{loading: true}
		}
		albums := l.Value.Items.Values()
		items := make([]components.ListItem, 0, len(albums))
		for _, a := range albums {
			items = append(items, components.AlbumListItem{Album: a})
		}
		return items, pagedStatus(l)

	case ViewUserCrates:
		if s.Discover.CratesOwner != v.ID {
			return nil, listStatus{loading: s.Discover.Profile.IsLoading, err: s.Discover.Profile.Err}
		}
		st := pagedStatus(s.Discover.UserCrates)
		if s.Discover.Profile.Err != nil {
			st.err = s.Discover.Profile.Err
		}
		st.loading = st.loading || s.Discover.Profile.IsLoading
		return crateRows(s, s.Discover.UserCrates.Value.Items.Values()), st

	case ViewFollowing:
		return followRows(s, s.Social.Following, func(f domain.UserFollow) domain.PublicUser { return f.Following }),
			pagedStatus(s.Social.Following)
	case ViewFollowers:
		return followRows(s, s.Social.Followers, func(f domain.UserFollow) domain.PublicUser { return f.Follower }),
			pagedStatus(s.Social.Followers)

	case ViewActivity:
		events := s.Activity.Feed.Value.Values()
		items := make([]components.ListItem, 0, len(events))
		for _, e := range events {
			items = append(items, components.EventListItem{Event: e, Unread: e.CreatedAt.After(s.Activity.LastRead)})
		}
		err := s.Activity.Feed.Err
		if err == nil {
			err = s.Activity.More.Err
		}
		return items, listStatus{
			loading: s.Activity.Feed.IsLoading || s.Activity.More.IsLoading || s.Activity.Refresh.IsLoading,
			hasMore: s.Activity.Feed.IsLoaded && s.Activity.HasNextPage,
			err:     err,
		}

	case ViewDiscoverMenu:
		return []components.ListItem{
			components.MenuListItem{ID: menuTrending, Title: "Trending", Subtitle: "most viewed this week"},
			components.MenuListItem{ID: menuRecent, Title: "Recently Released", Subtitle: "newest public crates"},
			components.MenuListItem{ID: menuPublic, Title: "Public Crates", Subtitle: "browse everything"},
		}, listStatus{}

	case ViewProfileMenu:
		following, followers := "", ""
		if st := s.Social.MyStats; st.IsLoaded {
			following = strconv.Itoa(st.Value.FollowingCount)
			followers = strconv.Itoa(st.Value.FollowerCount)
		}
		return []components.ListItem{
			components.MenuListItem{ID: menuCollection, Title: "My Collection", Subtitle: "crates you saved"},
			components.MenuListItem{ID: menuFollowing, Title: "Following", Subtitle: following},
			components.MenuListItem{ID: menuFollowers, Title: "Followers", Subtitle: followers},
		}, listStatus{loading: s.Session.User.IsLoading, err: s.Session.User.Err}
	}
	return nil, listStatus{}
}

func crateRows(s state.State, crates []domain.Crate) []components.ListItem {
	items := make([]components.ListItem, 0, len(crates))
	for _, c := range crates {
		items = append(items, components.CrateListItem{
			Crate: c,
			Saved: state.InCollection(s, c.ID),
			Busy:  state.CollectionBusy(s, c.ID),
			Own:   state.IsOwnCrate(s, c),
		})
	}
	return items
}

func followRows(s state.State, l state.PagedList[int64, domain.UserFollow], pick func(domain.UserFollow) domain.PublicUser) []components.ListItem {
	me := s.Session.User.Value.ID
	follows := l.Value.Items.Values()
	items := make([]components.ListItem, 0, len(follows))
	for _, f := range follows {
		u := pick(f)
		items = append(items, components.UserListItem{
			User:      u,
			Following: state.IsFollowing(s, u.ID),
			Busy:      state.FollowBusy(s, u.ID),
			Me:        u.ID == me,
		})
	}
	return items
}

// loadActions returns the first-page loads for v. Replace mode supersedes
// anything outstanding, so a refresh always wins over a load-more.
func loadActions(s state.State, v View) []state.Action {
	first := domain.FirstPage(s.PageSize)
	switch v.Kind {
	case ViewMyCrates:
		return []state.Action{state.LoadCrates{Request: state.NewRequestID(), Mode: state.Replace, Pageable: first, Search: s.Crates.Search}}
	case ViewCratePicker:
		if s.Crates.List.IsLoaded || s.Crates.List.IsLoading {
			return nil
		}
		return []state.Action{state.LoadCrates{Request: state.NewRequestID(), Mode: state.Replace, Pageable: first, Search: s.Crates.Search}}
	case ViewCollection:
		return []state.Action{state.LoadMyCollection{Request: state.NewRequestID(), Mode: state.Replace, Pageable: first, Search: s.Collection.Search}}
	case ViewLibrary:
		return []state.Action{
			state.LoadLibraryAlbums{Request: state.NewRequestID(), Mode: state.Replace, Pageable: first, Filters: s.Library.Filters},
			state.LoadLibrary{Request: state.NewRequestID()},
		}
	case ViewActivity:
		return []state.Action{state.LoadFeed{Request: state.NewRequestID(), Pageable: domain.FirstPage(state.ActivityPageSize)}}
	case ViewPublicCrates:
		return []state.Action{state.LoadPublicCrates{Request: state.NewRequestID(), Mode: state.Replace, Pageable: first, Search: s.Discover.Search}}
	case ViewTrending:
		return []state.Action{state.LoadTrending{Request: state.NewRequestID(), List: state.TrendingCrates, Mode: state.Replace, Pageable: first}}
	case ViewRecent:
		return []state.Action{state.LoadTrending{Request: state.NewRequestID(), List: state.RecentCrates, Mode: state.Replace, Pageable: first}}
	case ViewFollowing:
		return []state.Action{state.LoadFollows{Request: state.NewRequestID(), List: state.Following, Mode: state.Replace, Pageable: first}}
	case ViewFollowers:
		return []state.Action{state.LoadFollows{Request: state.NewRequestID(), List: state.Followers, Mode: state.Replace, Pageable: first}}
	case ViewProfileMenu:
		return []state.Action{
			state.LoadCurrentUser{Request: state.NewRequestID()},
			state.LoadSocialStats{Request: state.NewRequestID()},
			state.LoadLibrary{Request: state.NewRequestID()},
		}
	case ViewCrateAlbums:
		return []state.Action{state.LoadCrateAlbums{Request: state.NewRequestID(), CrateID: v.ID, Mode: state.Replace, Pageable: first}}
	case ViewUserCrates:
		return []state.Action{state.OpenProfile{Request: state.NewRequestID(), Identifier: v.Ident}}
	}
	return nil
}

// refreshActions reloads v. The activity feed prepends newer events
// instead of starting over once it has loaded.
func refreshActions(s state.State, v View) []state.Action {
	if v.Kind == ViewActivity && s.Activity.Feed.IsLoaded {
		return []state.Action{state.RefreshFeed{Request: state.NewRequestID(), Since: s.Activity.LastRefresh}}
	}
	if v.Kind == ViewCratePicker {
		v.Kind = ViewMyCrates
	}
	return loadActions(s, v)
}

// loadMoreAction returns the next-page load for v, if one may be issued
func loadMoreAction(s state.State, v View) (state.Action, bool) {
	req := state.NewRequestID()
	switch v.Kind {
	case ViewMyCrates, ViewCratePicker:
		if p, ok := state.NextCratesPage(s); ok {
			return state.LoadCrates{Request: req, Mode: state.Append, Pageable: p, Search: s.Crates.Search}, true
		}
	case ViewCollection:
		if p, ok := state.NextCollectionPage(s); ok {
			return state.LoadMyCollection{Request: req, Mode: state.Append, Pageable: p, Search: s.Collection.Search}, true
		}
	case ViewLibrary:
		if p, ok := state.NextLibraryPage(s); ok {
			return state.LoadLibraryAlbums{Request: req, Mode: state.Append, Pageable: p, Filters: s.Library.Filters}, true
		}
	case ViewPublicCrates:
		if p, ok := state.NextPublicCratesPage(s); ok {
			return state.LoadPublicCrates{Request: req, Mode: state.Append, Pageable: p, Search: s.Discover.Search}, true
		}
	case ViewTrending:
		if p, ok := state.NextPage(s.Trending.Trending); ok {
			return state.LoadTrending{Request: req, List: state.TrendingCrates, Mode: state.Append, Pageable: p}, true
		}
	case ViewRecent:
		if p, ok := state.NextPage(s.Trending.Recent); ok {
			return state.LoadTrending{Request: req, List: state.RecentCrates, Mode: state.Append, Pageable: p}, true
		}
	case ViewFollowing:
		if p, ok := state.NextPage(s.Social.Following); ok {
			return state.LoadFollows{Request: req, List: state.Following, Mode: state.Append, Pageable: p}, true
		}
	case ViewFollowers:
		if p, ok := state.NextPage(s.Social.Followers); ok {
			return state.LoadFollows{Request: req, List: state.Followers, Mode: state.Append, Pageable: p}, true
		}
	case ViewCrateAlbums:
		if l, ok := s.Crates.Albums[v.ID]; ok {
			if p, ok := state.NextPage(l); ok {
				return state.LoadCrateAlbums{Request: req, CrateID: v.ID, Mode: state.Append, Pageable: p}, true
			}
		}
	case ViewUserCrates:
		if s.Discover.CratesOwner == v.ID {
			if p, ok := state.NextPage(s.Discover.UserCrates); ok {
				return state.LoadUserCrates{Request: req, UserID: v.ID, Mode: state.Append, Pageable: p}, true
			}
		}
	case ViewActivity:
		a := s.Activity
		if !a.Feed.IsLoaded || !a.HasNextPage || a.More.IsLoading {
			break
		}
		if before, ok := state.OldestEventTime(s); ok {
			return state.LoadMoreFeed{Request: req, Before: before}, true
		}
	}
	return nil, false
}

// inspectorDetail collects the state-derived facts shown next to item
func inspectorDetail(s state.State, item interface{}, publicURL string) components.InspectorDetail {
	var d components.InspectorDetail
	switch v := item.(type) {
	case domain.Crate:
		d.Link = state.CrateLink(publicURL, v)
		switch {
		case state.IsOwnCrate(s, v):
			d.Status = "Your crate"
		case state.CollectionBusy(s, v.ID):
			d.Status = "Saving..."
		case state.InCollection(s, v.ID):
			d.Status = styles.SavedChar + " In your collection"
		}
		if l, ok := s.Crates.Albums[v.ID]; ok && l.IsLoaded {
			d.AlbumCount = l.Value.Items.Len()
			d.HasMore = l.Value.HasNextPage()
		}
	case domain.PublicUser:
		d.Link = state.ProfileLink(publicURL, v)
		if st, ok := s.Social.UserStats[v.ID]; ok && st.IsLoaded {
			stats := st.Value
			d.Stats = &stats
		}
		switch {
		case v.ID == s.Session.User.Value.ID:
			d.Status = "You"
		case state.FollowBusy(s, v.ID):
			d.Status = "Updating..."
		case state.IsFollowing(s, v.ID):
			d.Status = styles.FollowingChar + " Following"
		}
	case domain.User:
		d.Link = state.ProfileLink(publicURL, v.Public())
		if s.Social.MyStats.IsLoaded {
			stats := s.Social.MyStats.Value
			d.Stats = &stats
		}
		if lib := s.Library.Library; lib.IsLoaded {
			d.SyncState = lib.Value.State
			d.LastUpdated = lib.Value.UpdatedAt
		}
	}
	return d
}

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderSpinner returns the spinner glyph for frame
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}

// RenderError formats an error for a single footer line
func RenderError(err error, width int) string {
	return styles.ErrorStyle.Render(styles.Truncate(domain.ErrorMessage(err), width))
}

// RenderBreadcrumb renders the column titles of a stack
func RenderBreadcrumb(parts []string, width int) string {
	return styles.DimStyle.Render(styles.Truncate(strings.Join(parts, " › "), width))
}

// helpSections groups bindings for the help screen
func helpSections() [][]string {
	lines := func(pairs ...string) []string { return pairs }
	return [][]string{
		append(lines("Navigation", "enter/l    open", "h/esc      back", "tab/1-5    switch section"),
			append(components.HelpLines(components.ListKeys.MoveHelp()...),
				components.HelpLines(components.ListKeys.FilterHelp()...)...)...),
		lines("Crates",
			"c          collect crate", "n          new crate", "x          remove album",
			"o          open share link", "r          refresh"),
		lines("Library",
			"space      select album", "a          add selection to crate", "u          clear selection",
			"H          hide crated albums", "S          sync library"),
		lines("Social",
			"f          search users and crates", "F          follow user", "L          sign out",
			"i          toggle info", "J/K        scroll info", "q          quit"),
	}
}

// renderHelp renders the help overlay
func renderHelp(width, height int) string {
	var cols []string
	for _, section := range helpSections() {
		var b strings.Builder
		b.WriteString(styles.TitleStyle.Render(section[0]))
		b.WriteString("\n")
		for _, line := range section[1:] {
			b.WriteString(styles.SubtitleStyle.Render(line))
			b.WriteString("\n")
		}
		cols = append(cols, lipgloss.NewStyle().Width(34).Render(b.String()))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cols[0], cols[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cols[2], cols[3])
	body := lipgloss.JoinVertical(lipgloss.Left, top, "", bottom, "", styles.DimStyle.Render("press ? or esc to close"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(body))
}
