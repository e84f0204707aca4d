package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/search"
	"github.com/mmcdole/crates/internal/state"
	"github.com/mmcdole/crates/internal/tui/components"
	"github.com/mmcdole/crates/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateInput
	StateHelp
	StateConfirmLogout
	StateSignedOut
)

// inputKind records what the input modal was opened for
type inputKind int

const (
	inputNone inputKind = iota
	inputNewCrate
	inputToken
)

const (
	tickInterval = 100 * time.Millisecond

	// DefaultActivityInterval is the pause between new-activity probes
	DefaultActivityInterval = time.Minute
)

// Options wires the model to the rest of the client
type Options struct {
	Store            *state.Store
	Launcher         Launcher
	PublicURL        string
	LoginURL         string
	DefaultTab       navigation.Context
	ActivityInterval time.Duration
	Logger           *slog.Logger

	// SaveToken persists a pasted token and hands it to the API client
	SaveToken func(token string) error
	// Logout clears stored credentials and cached data
	Logout func() error
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	Store    *state.Store
	Index    *search.Index
	observer *StoreObserver
	launcher Launcher
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	// UI Components
	Tabs       components.TabBar
	Stacks     map[navigation.Context]*ColumnStack
	Inspector  components.Inspector
	Omnibar    components.Omnibar
	InputModal components.InputModal

	inputPurpose inputKind
	localResults []search.Result

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	SpinnerFrame  int
	ShowInspector bool

	// Last error text shown per slice, so each failure is announced once
	seenErrs   map[string]string
	wasSyncing bool
	boot       []state.Action
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ActivityInterval <= 0 {
		opts.ActivityInterval = DefaultActivityInterval
	}

	m := Model{
		State:         StateBrowsing,
		Store:         opts.Store,
		Index:         search.NewIndex(logger),
		observer:      NewStoreObserver(opts.Store),
		launcher:      opts.Launcher,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
		Tabs:          components.NewTabBar(navigation.Contexts),
		Stacks:        make(map[navigation.Context]*ColumnStack),
		Inspector:     components.NewInspector(),
		Omnibar:       components.NewOmnibar(),
		InputModal:    components.NewInputModal(),
		ShowInspector: true,
		seenErrs:      make(map[string]string),
	}
	m.Tabs.SelectContext(opts.DefaultTab)

	if !opts.Store.State().Session.SignedIn {
		m.State = StateSignedOut
		return m
	}
	m.boot = m.sessionActions()
	return m
}

// sessionActions are dispatched once a session starts
func (m *Model) sessionActions() []state.Action {
	active := m.Tabs.Active()
	actions := []state.Action{
		state.SetNavigationContext{Context: active},
		state.LoadCurrentUser{Request: state.NewRequestID()},
		state.LoadSocialStats{Request: state.NewRequestID()},
	}
	return append(actions, m.ensureStack(active)...)
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.observer.Wait(),
		TickCmd(tickInterval),
		ActivityCheckCmd(m.opts.ActivityInterval),
		DispatchCmd(m.Store, m.boot...),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StateChangedMsg:
		cmd := m.syncFromState()
		return m, tea.Batch(m.observer.Wait(), cmd)

	case TickMsg:
		m.SpinnerFrame++
		if stack := m.stack(); stack != nil {
			stack.UpdateSpinnerFrame(m.SpinnerFrame)
		}
		m.Tabs.SetSpinner(RenderSpinner(m.SpinnerFrame))
		return m, TickCmd(tickInterval)

	case ActivityCheckMsg:
		s := m.Store.State()
		if s.Session.SignedIn && s.Activity.Feed.IsLoaded && !s.Activity.Probe.IsLoading {
			m.dispatch(state.CheckNewActivity{Request: state.NewRequestID(), Since: s.Activity.LastRefresh})
		}
		return m, ActivityCheckCmd(m.opts.ActivityInterval)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case LinkOpenedMsg:
		if msg.Err != nil {
			m.logger.Warn("open link failed", "link", msg.Link, "error", msg.Err)
			return m, m.setStatus("Could not open browser: "+msg.Link, true)
		}
		return m, m.setStatus("Opened "+msg.Link, false)

	case TokenSavedMsg:
		if msg.Err != nil {
			return m, m.setStatus("Sign in failed: "+msg.Err.Error(), true)
		}
		return m, m.startSession()

	case LogoutCompleteMsg:
		if msg.Err != nil {
			m.logger.Warn("logout cleanup failed", "error", msg.Err)
		}
		m.dispatch(state.LoggedOut{})
		return m, m.setStatus("Signed out", false)
	}

	return m, nil
}

// startSession leaves the sign-in screen and loads the active section
func (m *Model) startSession() tea.Cmd {
	m.State = StateBrowsing
	m.Stacks = make(map[navigation.Context]*ColumnStack)
	actions := append([]state.Action{state.SignedIn{}}, m.sessionActions()...)
	m.dispatch(actions...)
	m.refreshColumns()
	m.updateLayout()
	m.updateInspector()
	return m.setStatus("Signed in", false)
}

// dispatch sends actions to the store in order
func (m Model) dispatch(actions ...state.Action) {
	for _, a := range actions {
		m.Store.Dispatch(a)
	}
}

// syncFromState pulls the latest snapshot into every component
func (m *Model) syncFromState() tea.Cmd {
	s := m.Store.State()

	if !s.Session.SignedIn {
		if m.State != StateSignedOut && !(m.State == StateInput && m.inputPurpose == inputToken) {
			m.State = StateSignedOut
			m.Omnibar.Hide()
			m.InputModal.Hide()
			m.inputPurpose = inputNone
			m.Stacks = make(map[navigation.Context]*ColumnStack)
			m.seenErrs = make(map[string]string)
		}
		return nil
	}

	m.refreshColumns()
	m.refreshTabs(s)
	m.updateInspector()
	if m.State == StateSearching {
		m.refreshSearch(s)
	}
	return m.announce(s)
}

// refreshColumns rebuilds every column of the active section
func (m *Model) refreshColumns() {
	stack := m.stack()
	if stack == nil {
		return
	}
	s := m.Store.State()
	stack.Each(func(col *components.ListColumn, v View) {
		items, st := rows(s, v)
		col.SetItems(items)
		col.SetStatus(st.loading, st.hasMore, st.err)
	})
}

func (m *Model) refreshTabs(s state.State) {
	unread := 0
	if !s.Activity.LastRead.IsZero() {
		unread = state.UnreadCount(s)
	}
	m.Tabs.SetStatus(navigation.Activity, components.TabStatus{
		Badge: unread,
		New:   s.Activity.HasNew,
		Busy:  s.Activity.Refresh.IsLoading,
	})
	m.Tabs.SetStatus(navigation.Library, components.TabStatus{Busy: state.IsSyncing(s)})
	m.Tabs.SetStatus(navigation.Crates, components.TabStatus{Busy: s.Crates.Mutation.Busy()})
}

func (m *Model) refreshSearch(s state.State) {
	m.Omnibar.SetEntries(searchEntries(s, m.localResults))
	m.Omnibar.SetStatus(s.Search.Results.IsLoading, s.Search.Results.Err)
}

// announce flashes new failures and a finished library sync
func (m *Model) announce(s state.State) tea.Cmd {
	var cmd tea.Cmd

	syncing := state.IsSyncing(s)
	if m.wasSyncing && !syncing && s.Library.Sync.Err == nil {
		cmd = m.setStatus("Library synced", false)
	}
	m.wasSyncing = syncing

	errs := []struct {
		slice string
		err   error
	}{
		{"crates", s.Crates.Mutation.Err},
		{"collection", s.Collection.Err},
		{"social", s.Social.Err},
		{"sync", s.Library.Sync.Err},
		{"profile", s.Session.Profile.Err},
	}
	for _, e := range errs {
		text := ""
		if e.err != nil {
			text = e.err.Error()
		}
		if text != "" && text != m.seenErrs[e.slice] {
			cmd = m.setStatus(domain.ErrorMessage(e.err), true)
		}
		m.seenErrs[e.slice] = text
	}
	return cmd
}

// inspectedItem returns the domain object the inspector should describe
func (m Model) inspectedItem() interface{} {
	stack := m.stack()
	if stack == nil {
		return nil
	}
	s := m.Store.State()
	v := stack.TopView()

	sel := stack.Top().SelectedItem()
	if sel == nil {
		if v.Kind == ViewUserCrates && s.Discover.Profile.Value.ID == v.ID {
			return s.Discover.Profile.Value
		}
		return nil
	}
	if _, ok := sel.(components.MenuListItem); ok {
		if v.Kind == ViewProfileMenu && s.Session.User.IsLoaded {
			return s.Session.User.Value
		}
		return nil
	}
	return sel.Unwrap()
}

// updateInspector points the inspector at the focused selection
func (m *Model) updateInspector() {
	item := m.inspectedItem()
	m.Inspector.SetItem(item, inspectorDetail(m.Store.State(), item, m.opts.PublicURL))
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return renderHelp(m.Width, m.Height)
	case StateConfirmLogout:
		return m.renderLogoutConfirmation()
	case StateSignedOut:
		return m.renderSignedOut()
	case StateSearching:
		return m.Omnibar.View()
	case StateInput:
		if m.inputPurpose == inputToken {
			return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.InputModal.View())
		}
	}

	stack := m.stack()
	if stack == nil {
		return "Loading..."
	}

	layout := m.calculateColumnLayout(m.Width)
	var cols []string
	if parent := stack.Parent(); parent != nil && layout.parentWidth > 0 {
		cols = append(cols, parent.View())
	}
	cols = append(cols, stack.Top().View())
	if m.ShowInspector && layout.inspectorWidth > 0 {
		cols = append(cols, m.Inspector.View())
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.Tabs.View(),
		content,
		m.renderFooter(),
	)

	if m.InputModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.InputModal.View())
	}
	return view
}

// renderFooter renders a single-line footer
func (m Model) renderFooter() string {
	s := m.Store.State()

	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case state.IsSyncing(s):
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Syncing library...")
	default:
		if stack := m.stack(); stack != nil {
			left = RenderBreadcrumb(stack.Breadcrumb(), m.Width/2)
		}
	}

	// Context hints
	var hints []string
	if n := len(s.Library.Selection); n > 0 {
		hints = append(hints, styles.AccentStyle.Render(fmt.Sprintf("%d selected", n))+styles.DimStyle.Render(" a add"))
	}
	if m.Tabs.Active() == navigation.Library {
		if lib := s.Library.Library; lib.IsLoaded && !lib.Value.UpdatedAt.IsZero() {
			hints = append(hints, styles.DimStyle.Render("synced "+elapsedLabel(m.now().Sub(lib.Value.UpdatedAt.Time))))
		}
		if s.Library.Filters.HideCrated {
			hints = append(hints, styles.DimStyle.Render("crated hidden"))
		}
	}
	center := strings.Join(hints, styles.DimStyle.Render(" · "))

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")
	if u := s.Session.User; u.IsLoaded {
		right = styles.DimStyle.Render(u.Value.Public().Name()+"  ") + right
	}

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad
	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderSignedOut renders the sign-in screen
func (m Model) renderSignedOut() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("crates"))
	b.WriteString("\n\n")
	b.WriteString(styles.SubtitleStyle.Render("You are not signed in."))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentStyle.Render("l") + styles.DimStyle.Render("  sign in with your browser"))
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Render("t") + styles.DimStyle.Render("  paste a token"))
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Render("q") + styles.DimStyle.Render("  quit"))
	if m.StatusMsg != "" {
		b.WriteString("\n\n")
		if m.StatusIsErr {
			b.WriteString(styles.ErrorStyle.Render(m.StatusMsg))
		} else {
			b.WriteString(styles.DimStyle.Render(m.StatusMsg))
		}
	}

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(b.String()))
}

// renderLogoutConfirmation renders the logout confirmation modal
func (m Model) renderLogoutConfirmation() string {
	modal := `
              Sign out?

  This will clear your token and
  all cached crates and albums.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// Close releases the store subscription
func (m Model) Close() {
	m.observer.Close()
}
