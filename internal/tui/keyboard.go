package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/state"
	"github.com/mmcdole/crates/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, LogoutCmd(m.opts.Logout)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateSignedOut:
		return m.handleSignedOutKey(msg)
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	stack := m.stack()
	if stack == nil {
		return m, nil
	}

	// Typing into a column filter takes every key
	if stack.Top().IsFilterTyping() {
		return m.forwardToColumn(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		return m.handleBack()

	case key.Matches(msg, Keys.Filter):
		stack.Top().ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.GlobalSearch):
		return m.openSearch()

	case key.Matches(msg, Keys.NextTab):
		prev := m.Tabs.Active()
		m.Tabs.Next()
		m.enterSection(prev, m.Tabs.Active())
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		prev := m.Tabs.Active()
		m.Tabs.Prev()
		m.enterSection(prev, m.Tabs.Active())
		return m, nil

	case key.Matches(msg, Keys.Tab1, Keys.Tab2, Keys.Tab3, Keys.Tab4, Keys.Tab5):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(navigation.Contexts) {
			m.switchTab(navigation.Contexts[idx])
		}
		return m, nil

	case key.Matches(msg, Keys.Back):
		return m.handleBack()

	case key.Matches(msg, Keys.Right, Keys.Enter):
		return m.drillSelected()

	case key.Matches(msg, Keys.Refresh):
		m.dispatch(refreshActions(m.Store.State(), stack.TopView())...)
		return m, m.setStatus("Refreshing...", false)

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.ScrollInspector):
		if msg.String() == "J" {
			m.Inspector.ScrollDown(1)
		} else {
			m.Inspector.ScrollUp(1)
		}
		return m, nil

	case key.Matches(msg, Keys.OpenLink):
		return m.openShareLink()

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil

	case key.Matches(msg, Keys.Collect):
		return m.toggleCollection()

	case key.Matches(msg, Keys.Follow):
		return m.toggleFollow()

	case key.Matches(msg, Keys.Select):
		return m.toggleAlbumSelection()

	case key.Matches(msg, Keys.ClearSelect):
		if len(m.Store.State().Library.Selection) > 0 {
			m.dispatch(state.ClearAlbumSelection{})
			return m, m.setStatus("Selection cleared", false)
		}
		return m, nil

	case key.Matches(msg, Keys.AddToCrate):
		return m.openCratePicker()

	case key.Matches(msg, Keys.RemoveAlbum):
		return m.removeSelectedAlbum()

	case key.Matches(msg, Keys.NewCrate):
		m.InputModal.Show("New crate", "crate name", "")
		m.inputPurpose = inputNewCrate
		m.State = StateInput
		return m, nil

	case key.Matches(msg, Keys.HideCrated):
		return m.toggleHideCrated()

	case key.Matches(msg, Keys.SyncLibrary):
		if state.IsSyncing(m.Store.State()) {
			return m, m.setStatus("Library sync already running", false)
		}
		m.dispatch(state.SyncLibrary{Request: state.NewRequestID()})
		return m, m.setStatus("Syncing library...", false)
	}

	return m.forwardToColumn(msg)
}

// forwardToColumn passes msg to the focused column, then loads the next
// page when the cursor reached the end
func (m Model) forwardToColumn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	stack := m.stack()
	top, cmd := stack.Top().Update(msg)
	if top.AtEnd() && !top.IsLoading() {
		if a, ok := loadMoreAction(m.Store.State(), stack.TopView()); ok {
			m.dispatch(a)
		}
	}
	m.updateInspector()
	return m, cmd
}

// routeToModal sends keys to the search overlay or input modal when shown
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch m.State {
	case StateSearching:
		var (
			cmd    tea.Cmd
			chosen bool
		)
		m.Omnibar, cmd, chosen = m.Omnibar.Update(msg)
		if chosen {
			if entry, ok := m.Omnibar.Selected(); ok {
				next, openCmd := m.openSearchEntry(entry)
				return true, next.(Model), tea.Batch(cmd, openCmd)
			}
		}
		if !m.Omnibar.IsVisible() {
			m.State = StateBrowsing
			m.dispatch(state.ClearSearch{})
			return true, m, cmd
		}
		if m.Omnibar.QueryChanged() {
			query := m.Omnibar.Query()
			m.dispatch(state.SearchQueryChanged{Query: query})
			m.localResults = m.Index.Filter(query)
			m.refreshSearch(m.Store.State())
		}
		return true, m, cmd

	case StateInput:
		var (
			cmd       tea.Cmd
			submitted bool
		)
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			value := strings.TrimSpace(m.InputModal.Value())
			m.InputModal.Hide()
			return true, m, tea.Batch(cmd, m.submitInput(value))
		}
		if !m.InputModal.IsVisible() {
			m.State = StateBrowsing
			if m.inputPurpose == inputToken {
				m.State = StateSignedOut
			}
		}
		return true, m, cmd
	}
	return false, m, nil
}

// submitInput acts on a submitted input modal value
func (m *Model) submitInput(value string) tea.Cmd {
	purpose := m.inputPurpose
	m.inputPurpose = inputNone
	m.State = StateBrowsing

	switch purpose {
	case inputNewCrate:
		if value == "" {
			return nil
		}
		m.dispatch(state.CreateCrate{Request: state.NewRequestID(), Name: value})
		return m.setStatus(fmt.Sprintf("Creating %q...", value), false)

	case inputToken:
		m.State = StateSignedOut
		if value == "" {
			return nil
		}
		return tea.Batch(SaveTokenCmd(m.opts.SaveToken, value), m.setStatus("Signing in...", false))
	}
	return nil
}

// handleSignedOutKey handles the sign-in screen
func (m Model) handleSignedOutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.SignIn):
		m.showTokenPrompt()
		if m.opts.LoginURL == "" || m.launcher == nil {
			return m, nil
		}
		return m, OpenLinkCmd(m.launcher, m.opts.LoginURL)

	case key.Matches(msg, Keys.PasteToken):
		m.showTokenPrompt()
	}
	return m, nil
}

func (m *Model) showTokenPrompt() {
	m.InputModal.ShowSecret("Paste your token", "Copy the token shown after signing in")
	m.inputPurpose = inputToken
	m.State = StateInput
}

// openSearch shows the search overlay over everything loaded so far
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	m.Index.Rebuild(m.Store.State())
	m.localResults = nil
	m.Omnibar.Show()
	m.Omnibar.SetSize(m.Width, m.Height)
	m.State = StateSearching
	return m, nil
}

// selectedCrate returns the crate under the cursor, or the crate whose
// albums are shown
func (m Model) selectedCrate() (domain.Crate, bool) {
	stack := m.stack()
	if sel := stack.Top().SelectedItem(); sel != nil {
		switch item := sel.(type) {
		case components.CrateListItem:
			return item.Crate, true
		case components.EventListItem:
			if item.Event.Crate.ID != 0 {
				return item.Event.Crate, true
			}
		}
	}
	if v := stack.TopView(); v.Kind == ViewCrateAlbums {
		return state.Crate(m.Store.State(), v.ID)
	}
	return domain.Crate{}, false
}

// selectedUser returns the user under the cursor, or the profile shown
func (m Model) selectedUser() (domain.PublicUser, bool) {
	stack := m.stack()
	if sel := stack.Top().SelectedItem(); sel != nil {
		if item, ok := sel.(components.UserListItem); ok {
			return item.User, true
		}
	}
	if v := stack.TopView(); v.Kind == ViewUserCrates {
		s := m.Store.State()
		if p := s.Discover.Profile.Value; p.ID == v.ID {
			return p, true
		}
		return domain.PublicUser{ID: v.ID, DisplayName: v.Title}, true
	}
	return domain.PublicUser{}, false
}

func (m Model) toggleCollection() (tea.Model, tea.Cmd) {
	c, ok := m.selectedCrate()
	if !ok {
		return m, nil
	}
	s := m.Store.State()
	if state.IsOwnCrate(s, c) {
		return m, m.setStatus("That is your own crate", false)
	}

	op := state.NewRequestID()
	if state.InCollection(s, c.ID) {
		m.dispatch(state.RemoveFromCollection{Op: op, CrateID: c.ID})
		return m, m.setStatus("Removed "+c.Name+" from your collection", false)
	}
	m.dispatch(state.AddToCollection{Op: op, CrateID: c.ID})
	return m, m.setStatus("Added "+c.Name+" to your collection", false)
}

func (m Model) toggleFollow() (tea.Model, tea.Cmd) {
	u, ok := m.selectedUser()
	if !ok {
		return m, nil
	}
	s := m.Store.State()
	if u.ID == s.Session.User.Value.ID {
		return m, nil
	}

	op := state.NewRequestID()
	if state.IsFollowing(s, u.ID) {
		m.dispatch(state.UnfollowUser{Op: op, UserID: u.ID})
		return m, m.setStatus("Unfollowed "+u.Name(), false)
	}
	m.dispatch(state.FollowUser{Op: op, UserID: u.ID})
	return m, m.setStatus("Following "+u.Name(), false)
}

func (m Model) toggleAlbumSelection() (tea.Model, tea.Cmd) {
	stack := m.stack()
	if stack.TopView().Kind != ViewLibrary {
		return m, nil
	}
	if item, ok := stack.Top().SelectedItem().(components.AlbumListItem); ok {
		m.dispatch(state.ToggleAlbumSelection{SpotifyID: item.Album.SpotifyID})
	}
	return m, nil
}

// openCratePicker lists the user's crates as targets for the selected
// albums. With nothing selected the album under the cursor is used.
func (m Model) openCratePicker() (tea.Model, tea.Cmd) {
	stack := m.stack()
	if stack.TopView().Kind != ViewLibrary {
		return m, nil
	}
	if len(m.Store.State().Library.Selection) == 0 {
		item, ok := stack.Top().SelectedItem().(components.AlbumListItem)
		if !ok {
			return m, m.setStatus("Select albums with space first", false)
		}
		m.dispatch(state.ToggleAlbumSelection{SpotifyID: item.Album.SpotifyID})
	}
	m.pushView(View{Kind: ViewCratePicker, Title: "Add to crate"})
	return m, nil
}

// addSelectionTo adds the selected albums to c and closes the picker
func (m Model) addSelectionTo(c domain.Crate) (tea.Model, tea.Cmd) {
	albums := state.SelectedAlbums(m.Store.State())
	m.stack().Pop()
	m.refreshColumns()
	m.updateLayout()
	if len(albums) == 0 {
		return m, m.setStatus("Nothing selected", false)
	}
	m.dispatch(state.AddAlbumsToCrate{Request: state.NewRequestID(), CrateID: c.ID, Albums: albums})
	noun := "albums"
	if len(albums) == 1 {
		noun = "album"
	}
	return m, m.setStatus(fmt.Sprintf("Adding %d %s to %s", len(albums), noun, c.Name), false)
}

func (m Model) removeSelectedAlbum() (tea.Model, tea.Cmd) {
	stack := m.stack()
	v := stack.TopView()
	if v.Kind != ViewCrateAlbums {
		return m, nil
	}
	c, ok := state.Crate(m.Store.State(), v.ID)
	if !ok || !state.IsOwnCrate(m.Store.State(), c) {
		return m, m.setStatus("Only your own crates can be edited", false)
	}
	item, ok := stack.Top().SelectedItem().(components.AlbumListItem)
	if !ok {
		return m, nil
	}
	m.dispatch(state.RemoveAlbumFromCrate{Request: state.NewRequestID(), CrateID: c.ID, AlbumID: item.Album.ID})
	return m, m.setStatus("Removed "+item.Album.Name, false)
}

func (m Model) toggleHideCrated() (tea.Model, tea.Cmd) {
	if m.Tabs.Active() != navigation.Library {
		return m, nil
	}
	s := m.Store.State()
	filters := s.Library.Filters
	filters.HideCrated = !filters.HideCrated
	m.dispatch(state.LoadLibraryAlbums{
		Request:  state.NewRequestID(),
		Mode:     state.Replace,
		Pageable: domain.FirstPage(s.PageSize),
		Filters:  filters,
	})
	if filters.HideCrated {
		return m, m.setStatus("Hiding albums already in a crate", false)
	}
	return m, m.setStatus("Showing all albums", false)
}

func (m Model) openShareLink() (tea.Model, tea.Cmd) {
	item := m.inspectedItem()
	link := inspectorDetail(m.Store.State(), item, m.opts.PublicURL).Link
	if link == "" || m.launcher == nil {
		return m, m.setStatus("No share link for this item", false)
	}
	return m, OpenLinkCmd(m.launcher, link)
}

// setStatus shows a footer message and schedules its removal
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 6 * time.Second
	}
	return ClearStatusCmd(delay)
}
