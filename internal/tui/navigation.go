package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/search"
	"github.com/mmcdole/crates/internal/state"
	"github.com/mmcdole/crates/internal/tui/components"
)

// stack returns the column stack of the active section
func (m Model) stack() *ColumnStack {
	return m.Stacks[m.Tabs.Active()]
}

// ensureStack creates the stack for c on first visit and returns the
// loads its root column needs
func (m *Model) ensureStack(c navigation.Context) []state.Action {
	if _, ok := m.Stacks[c]; ok {
		return nil
	}
	root := rootView(c)
	m.Stacks[c] = NewColumnStack(root)
	return loadActions(m.Store.State(), root)
}

// switchTab activates section c, loading its root on first visit
func (m *Model) switchTab(c navigation.Context) {
	prev := m.Tabs.Active()
	if prev == c || !m.Tabs.SelectContext(c) {
		return
	}
	m.enterSection(prev, c)
}

// enterSection records the section change and loads what it needs.
// Leaving the activity feed marks everything shown so far as read.
func (m *Model) enterSection(prev, next navigation.Context) {
	actions := []state.Action{state.SetNavigationContext{Context: next}}
	if prev == navigation.Activity {
		actions = append(actions, state.MarkActivityRead{At: m.now()})
	}
	actions = append(actions, m.ensureStack(next)...)
	m.dispatch(actions...)
	m.refreshColumns()
	m.updateLayout()
	m.updateInspector()
}

// pushView opens v on top of the active stack and starts its loads
func (m *Model) pushView(v View, extra ...state.Action) {
	stack := m.stack()
	if stack == nil {
		return
	}
	stack.Push(v)
	actions := append(loadActions(m.Store.State(), v), extra...)
	m.dispatch(actions...)
	m.refreshColumns()
	m.updateLayout()
	m.updateInspector()
}

// openCrate pushes a crate's albums. Crates the user does not own get a
// collection probe, and public ones count a view.
func (m *Model) openCrate(c domain.Crate) {
	s := m.Store.State()
	extra := []state.Action{state.TrackNavigation{
		Subject: navigation.CrateSubject(c.ID),
		At:      m.now(),
	}}
	if !state.IsOwnCrate(s, c) {
		if _, known := s.Collection.Status[c.ID]; !known {
			extra = append(extra, state.LoadCollectionStatus{Request: state.NewRequestID(), CrateID: c.ID})
		}
		if c.PublicCrate {
			extra = append(extra, state.RecordCrateView{CrateID: c.ID})
		}
	}
	m.pushView(crateView(c), extra...)
}

// openUser pushes a user's profile crates
func (m *Model) openUser(u domain.PublicUser) {
	m.pushView(userView(u), state.TrackNavigation{
		Subject: navigation.UserSubject(u.ID),
		At:      m.now(),
	})
}

// drillSelected opens whatever is under the cursor of the focused column
func (m Model) drillSelected() (tea.Model, tea.Cmd) {
	stack := m.stack()
	if stack == nil {
		return m, nil
	}
	sel := stack.Top().SelectedItem()
	if sel == nil {
		return m, nil
	}

	if stack.TopView().Kind == ViewCratePicker {
		if item, ok := sel.(components.CrateListItem); ok {
			return m.addSelectionTo(item.Crate)
		}
		return m, nil
	}

	switch item := sel.(type) {
	case components.CrateListItem:
		m.openCrate(item.Crate)
	case components.UserListItem:
		m.openUser(item.User)
	case components.EventListItem:
		if item.Event.Crate.ID != 0 {
			m.openCrate(item.Event.Crate)
		}
	case components.MenuListItem:
		if v, ok := menuView(item.ID); ok {
			m.pushView(v)
		}
	}
	return m, nil
}

// handleBack pops the focused column
func (m Model) handleBack() (tea.Model, tea.Cmd) {
	stack := m.stack()
	if stack == nil {
		return m, nil
	}
	if top := stack.Top(); top.IsFiltering() {
		top.ClearFilter()
		return m, nil
	}
	if _, ok := stack.Pop(); ok {
		m.refreshColumns()
		m.updateLayout()
		m.updateInspector()
	}
	return m, nil
}

// openSearchEntry navigates to a search result. Users and crates open in
// the section they were last reached from, falling back to the current one.
func (m Model) openSearchEntry(e components.SearchEntry) (tea.Model, tea.Cmd) {
	m.Omnibar.Hide()
	m.State = StateBrowsing
	m.dispatch(state.ClearSearch{})

	s := m.Store.State()
	now := m.now()
	switch v := e.Value.(type) {
	case domain.PublicUser:
		m.switchTab(state.ContextForUser(s, v.ID, now))
		m.openUser(v)
	case domain.Crate:
		m.switchTab(state.ContextForCrate(s, v, now))
		m.openCrate(v)
	case domain.Album:
		m.switchTab(navigation.Library)
		if stack := m.stack(); stack != nil {
			for stack.CanGoBack() {
				stack.Pop()
			}
			m.refreshColumns()
			if !stack.Top().SelectID(components.AlbumListItem{Album: v}.ItemID()) {
				return m, m.setStatus(fmt.Sprintf("%s is not loaded", v.Name), false)
			}
			m.updateLayout()
			m.updateInspector()
		}
	}
	return m, nil
}

// searchEntries merges server results with local matches. Server entries
// come first; local matches fill in while the query settles and add albums.
func searchEntries(s state.State, local []search.Result) []components.SearchEntry {
	var entries []components.SearchEntry
	seen := make(map[string]bool)

	if s.Search.Results.IsLoaded && strings.TrimSpace(s.Search.Input) != "" {
		res := s.Search.Results.Value
		for _, u := range res.Users {
			item := search.UserItem(u)
			seen[item.Key()] = true
			entries = append(entries, components.SearchEntry{
				Badge: "USER", Title: item.Title, Subtitle: fmt.Sprintf("%d followers", u.FollowerCount), Value: u,
			})
		}
		for _, c := range res.Crates {
			item := search.CrateItem(c)
			seen[item.Key()] = true
			sub := ""
			if c.User != nil {
				sub = "by " + c.User.Name()
			}
			entries = append(entries, components.SearchEntry{Badge: "CRATE", Title: item.Title, Subtitle: sub, Value: c})
		}
	}

	for _, r := range local {
		if seen[r.Item.Key()] {
			continue
		}
		entry := components.SearchEntry{
			Badge:          strings.ToUpper(r.Item.Kind.String()),
			Title:          r.Item.Title,
			MatchedIndexes: r.MatchedIndexes,
			Local:          true,
		}
		switch r.Item.Kind {
		case search.KindCrate:
			entry.Value = *r.Item.Crate
		case search.KindUser:
			entry.Value = *r.Item.User
		case search.KindAlbum:
			entry.Value = *r.Item.Album
			entry.Subtitle = "library"
		}
		entries = append(entries, entry)
	}
	return entries
}

// elapsedLabel renders a coarse "time ago" for the footer
func elapsedLabel(since time.Duration) string {
	switch {
	case since < time.Minute:
		return "just now"
	case since < time.Hour:
		return fmt.Sprintf("%dm ago", int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(since.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(since.Hours()/24))
	}
}
