package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/search"
	"github.com/mmcdole/crates/internal/state"
	"github.com/mmcdole/crates/internal/tui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// recorder captures every action the model dispatches
type recorder struct {
	actions []state.Action
}

func (r *recorder) reset() { r.actions = nil }

func recordedOf[T state.Action](r *recorder) []T {
	var out []T
	for _, a := range r.actions {
		if v, ok := a.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func newTestModel(t *testing.T, signedIn bool) (Model, *recorder) {
	t.Helper()
	store := state.NewStore(state.Initial(20), nil)
	if signedIn {
		store.Dispatch(state.SignedIn{})
		store.Dispatch(state.LoadCurrentUser{Request: "me"})
		store.Dispatch(state.CurrentUserLoaded{Request: "me", Result: domain.Ok(domain.User{ID: 1, Handle: "me"})})
	}

	rec := &recorder{}
	unsubscribe := store.Subscribe(func(a state.Action, _ state.State) {
		rec.actions = append(rec.actions, a)
	})
	t.Cleanup(unsubscribe)

	m := NewModel(Options{Store: store, DefaultTab: navigation.Crates})
	m.now = func() time.Time { return testNow }
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), rec
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func ownCrate(id int64, name string) domain.Crate {
	return domain.Crate{ID: id, Name: name, User: &domain.PublicUser{ID: 1, Handle: "me"}}
}

func foreignCrate(id int64, name string) domain.Crate {
	return domain.Crate{ID: id, Name: name, PublicCrate: true, User: &domain.PublicUser{ID: 2, Handle: "miles"}}
}

func loadMyCrates(m *Model, crates ...domain.Crate) {
	m.Store.Dispatch(state.LoadCrates{Request: "mine", Mode: state.Replace, Pageable: domain.FirstPage(20)})
	m.Store.Dispatch(state.CratesLoaded{
		Request: "mine",
		Mode:    state.Replace,
		Result:  domain.Ok(domain.Page[domain.Crate]{Content: crates, Size: 20, Last: true}),
	})
	m.syncFromState()
}

func TestNewModelSignedOut(t *testing.T) {
	m, _ := newTestModel(t, false)

	assert.Equal(t, StateSignedOut, m.State)
	assert.Empty(t, m.boot)
	assert.Contains(t, m.View(), "not signed in")
}

func TestBootLoadsActiveSection(t *testing.T) {
	m, _ := newTestModel(t, true)

	require.NotEmpty(t, m.boot)
	assert.Equal(t, state.SetNavigationContext{Context: navigation.Crates}, m.boot[0])

	var loads int
	for _, a := range m.boot {
		if l, ok := a.(state.LoadCrates); ok {
			loads++
			assert.Equal(t, state.Replace, l.Mode)
			assert.Equal(t, 0, l.Pageable.Page)
		}
	}
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, m.stack().Len())
}

func TestSwitchTabRecordsContextAndMarksRead(t *testing.T) {
	m, rec := newTestModel(t, true)

	m, _ = press(t, m, runes("3"))
	assert.Equal(t, navigation.Activity, m.Tabs.Active())
	assert.Contains(t, rec.actions, state.Action(state.SetNavigationContext{Context: navigation.Activity}))
	assert.Len(t, recordedOf[state.LoadFeed](rec), 1)
	assert.Empty(t, recordedOf[state.MarkActivityRead](rec), "entering the feed does not mark it read")

	rec.reset()
	m, _ = press(t, m, runes("1"))
	assert.Equal(t, navigation.Crates, m.Tabs.Active())
	assert.Contains(t, rec.actions, state.Action(state.SetNavigationContext{Context: navigation.Crates}))
	assert.Equal(t, []state.MarkActivityRead{{At: testNow}}, recordedOf[state.MarkActivityRead](rec))
	assert.Empty(t, recordedOf[state.LoadCrates](rec), "revisited sections keep their columns")
}

func TestNextTabCycles(t *testing.T) {
	m, rec := newTestModel(t, true)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, navigation.Library, m.Tabs.Active())
	assert.NotEmpty(t, recordedOf[state.LoadLibraryAlbums](rec))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, navigation.Profile, m.Tabs.Active())
}

func TestDrillIntoOwnCrate(t *testing.T) {
	m, rec := newTestModel(t, true)
	loadMyCrates(&m, ownCrate(7, "Sunday Records"))
	rec.reset()

	m, _ = press(t, m, enter)

	stack := m.stack()
	require.Equal(t, 2, stack.Len())
	assert.Equal(t, ViewCrateAlbums, stack.TopView().Kind)
	assert.Equal(t, int64(7), stack.TopView().ID)
	assert.Equal(t, []string{"My Crates", "Sunday Records"}, stack.Breadcrumb())

	loads := recordedOf[state.LoadCrateAlbums](rec)
	require.Len(t, loads, 1)
	assert.Equal(t, int64(7), loads[0].CrateID)
	assert.Equal(t, state.Replace, loads[0].Mode)

	tracked := recordedOf[state.TrackNavigation](rec)
	require.Len(t, tracked, 1)
	assert.Equal(t, navigation.CrateSubject(7), tracked[0].Subject)

	assert.Empty(t, recordedOf[state.LoadCollectionStatus](rec), "own crates are never probed")
	assert.Empty(t, recordedOf[state.RecordCrateView](rec))

	m, _ = press(t, m, runes("h"))
	assert.Equal(t, 1, m.stack().Len())
	m, _ = press(t, m, runes("h"))
	assert.Equal(t, 1, m.stack().Len(), "the root column stays")
}

func TestOpenForeignCrateProbesAndCountsView(t *testing.T) {
	m, rec := newTestModel(t, true)

	m.openCrate(foreignCrate(9, "Jazz"))

	probes := recordedOf[state.LoadCollectionStatus](rec)
	require.Len(t, probes, 1)
	assert.Equal(t, int64(9), probes[0].CrateID)
	assert.Equal(t, []state.RecordCrateView{{CrateID: 9}}, recordedOf[state.RecordCrateView](rec))
}

func TestToggleCollection(t *testing.T) {
	m, rec := newTestModel(t, true)
	m.switchTab(navigation.Discover)
	m.pushView(View{Kind: ViewPublicCrates, Title: "Public Crates"})

	loads := recordedOf[state.LoadPublicCrates](rec)
	require.Len(t, loads, 1)
	m.Store.Dispatch(state.PublicCratesLoaded{
		Request: loads[0].Request,
		Mode:    state.Replace,
		Result:  domain.Ok(domain.Page[domain.Crate]{Content: []domain.Crate{foreignCrate(9, "Jazz")}, Size: 20, Last: true}),
	})
	m.syncFromState()
	rec.reset()

	m, cmd := press(t, m, runes("c"))
	assert.NotNil(t, cmd)

	adds := recordedOf[state.AddToCollection](rec)
	require.Len(t, adds, 1)
	assert.Equal(t, int64(9), adds[0].CrateID)
	assert.True(t, state.InCollection(m.Store.State(), 9))
	assert.Contains(t, m.StatusMsg, "Jazz")
}

func TestToggleCollectionIgnoresOwnCrate(t *testing.T) {
	m, rec := newTestModel(t, true)
	loadMyCrates(&m, ownCrate(7, "Sunday Records"))
	rec.reset()

	m, _ = press(t, m, runes("c"))

	assert.Empty(t, recordedOf[state.AddToCollection](rec))
	assert.Equal(t, "That is your own crate", m.StatusMsg)
}

func TestSignedOutTokenPrompt(t *testing.T) {
	m, _ := newTestModel(t, false)
	var saved string
	m.opts.SaveToken = func(token string) error {
		saved = token
		return nil
	}

	m, _ = press(t, m, runes("t"))
	require.Equal(t, StateInput, m.State)
	assert.Equal(t, inputToken, m.inputPurpose)

	m, _ = press(t, m, runes("abc"))
	m, cmd := press(t, m, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, StateSignedOut, m.State)

	msg := SaveTokenCmd(m.opts.SaveToken, "abc")()
	assert.Equal(t, TokenSavedMsg{}, msg)
	assert.Equal(t, "abc", saved)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.Equal(t, StateBrowsing, m.State)
	assert.True(t, m.Store.State().Session.SignedIn)
}

func TestSignedOutTokenPromptCancel(t *testing.T) {
	m, _ := newTestModel(t, false)

	m, _ = press(t, m, runes("t"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateSignedOut, m.State)
}

func TestLoggedOutResetsToSignIn(t *testing.T) {
	m, _ := newTestModel(t, true)
	m.switchTab(navigation.Library)

	next, _ := m.Update(LogoutCompleteMsg{})
	m = next.(Model)
	next, _ = m.Update(StateChangedMsg{})
	m = next.(Model)

	assert.Equal(t, StateSignedOut, m.State)
	assert.Empty(t, m.Stacks)
}

func TestLogoutRequiresConfirmation(t *testing.T) {
	m, _ := newTestModel(t, true)
	called := false
	m.opts.Logout = func() error {
		called = true
		return nil
	}

	m, _ = press(t, m, runes("L"))
	require.Equal(t, StateConfirmLogout, m.State)

	m, cmd := press(t, m, runes("n"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Nil(t, cmd)
	assert.False(t, called)

	m, _ = press(t, m, runes("L"))
	_, cmd = press(t, m, runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, LogoutCompleteMsg{}, cmd())
	assert.True(t, called)
}

func TestSearchEntriesMergesServerAndLocal(t *testing.T) {
	miles := domain.PublicUser{ID: 2, Handle: "miles", FollowerCount: 3}
	jazz := foreignCrate(9, "Jazz")
	album := domain.Album{SpotifyID: "a1", Name: "Kind of Blue"}

	s := state.Initial(20)
	s.Search.Input = "mi"
	s.Search.Results = state.Loadable[domain.UnifiedSearchResult]{
		IsLoaded: true,
		Value:    domain.UnifiedSearchResult{Users: []domain.PublicUser{miles}},
	}
	local := []search.Result{
		{Item: search.UserItem(miles)},
		{Item: search.CrateItem(jazz), MatchedIndexes: []int{0}},
		{Item: search.AlbumItem(album)},
	}

	entries := searchEntries(s, local)

	require.Len(t, entries, 3)
	assert.Equal(t, "USER", entries[0].Badge)
	assert.False(t, entries[0].Local)
	assert.Equal(t, "3 followers", entries[0].Subtitle)

	assert.True(t, entries[1].Local)
	assert.Equal(t, jazz, entries[1].Value)
	assert.Equal(t, []int{0}, entries[1].MatchedIndexes)

	assert.Equal(t, album, entries[2].Value)
	assert.Equal(t, "library", entries[2].Subtitle)
}

func TestSearchEntriesHideStaleServerResults(t *testing.T) {
	s := state.Initial(20)
	s.Search.Results = state.Loadable[domain.UnifiedSearchResult]{
		IsLoaded: true,
		Value:    domain.UnifiedSearchResult{Users: []domain.PublicUser{{ID: 2, Handle: "miles"}}},
	}

	assert.Empty(t, searchEntries(s, nil))
}

func TestLoadMoreAction(t *testing.T) {
	s := state.Initial(2)
	s = state.Reduce(s, state.LoadCrates{Request: "a", Mode: state.Replace, Pageable: domain.FirstPage(2)})
	s = state.Reduce(s, state.CratesLoaded{
		Request: "a",
		Mode:    state.Replace,
		Result:  domain.Ok(domain.Page[domain.Crate]{Content: []domain.Crate{ownCrate(1, "a"), ownCrate(2, "b")}, Size: 2}),
	})

	a, ok := loadMoreAction(s, View{Kind: ViewMyCrates})
	require.True(t, ok)
	load := a.(state.LoadCrates)
	assert.Equal(t, state.Append, load.Mode)
	assert.Equal(t, 1, load.Pageable.Page)

	_, ok = loadMoreAction(s, View{Kind: ViewDiscoverMenu})
	assert.False(t, ok, "menus do not paginate")

	s = state.Reduce(s, load)
	_, ok = loadMoreAction(s, View{Kind: ViewMyCrates})
	assert.False(t, ok, "no second page while one is outstanding")
}

func TestColumnStackRestoresCursor(t *testing.T) {
	cs := NewColumnStack(rootView(navigation.Crates))
	cs.Top().SetItems([]components.ListItem{
		components.CrateListItem{Crate: ownCrate(1, "a")},
		components.CrateListItem{Crate: ownCrate(2, "b")},
		components.CrateListItem{Crate: ownCrate(3, "c")},
	})
	cs.Top().SetSelectedIndex(2)

	cs.Push(View{Kind: ViewCrateAlbums, ID: 3, Title: "c"})
	assert.Equal(t, 2, cs.Len())
	assert.True(t, cs.CanGoBack())
	assert.Same(t, cs.Get(0), cs.Parent())

	v, ok := cs.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(3), v.ID)
	assert.Equal(t, 2, cs.Top().SelectedIndex())

	_, ok = cs.Pop()
	assert.False(t, ok)
	assert.Equal(t, 1, cs.Len())
}

func TestElapsedLabel(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, elapsedLabel(tt.in))
	}
}

func TestHelpOverlayListsColumnKeys(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, _ = press(t, m, runes("?"))
	view := m.View()
	assert.Contains(t, view, "keep matches")
	assert.Contains(t, view, "last loaded row")

	m, _ = press(t, m, runes("?"))
	assert.NotContains(t, m.View(), "keep matches")
}
