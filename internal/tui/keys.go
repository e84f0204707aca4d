package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Enter   key.Binding
	Back    key.Binding
	Right   key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Tab4    key.Binding
	Tab5    key.Binding

	// Actions
	Quit            key.Binding
	Help            key.Binding
	Escape          key.Binding
	Filter          key.Binding
	GlobalSearch    key.Binding
	Refresh         key.Binding
	ToggleInspector key.Binding
	ScrollInspector key.Binding
	OpenLink        key.Binding
	Logout          key.Binding

	// Crates and albums
	Collect     key.Binding
	Follow      key.Binding
	Select      key.Binding
	ClearSelect key.Binding
	AddToCrate  key.Binding
	RemoveAlbum key.Binding
	NewCrate    key.Binding
	HideCrated  key.Binding
	SyncLibrary key.Binding

	// Sign in
	SignIn     key.Binding
	PasteToken key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "back"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "open"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next section"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous section"),
		),
		Tab1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "crates")),
		Tab2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "library")),
		Tab3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "activity")),
		Tab4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "discover")),
		Tab5: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "profile")),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		GlobalSearch: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "search users and crates"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle info"),
		),
		ScrollInspector: key.NewBinding(
			key.WithKeys("J", "K"),
			key.WithHelp("J/K", "scroll info"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open share link"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign out"),
		),

		// Crates and albums
		Collect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collect crate"),
		),
		Follow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "follow user"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select album"),
		),
		ClearSelect: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear selection"),
		),
		AddToCrate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to crate"),
		),
		RemoveAlbum: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove from crate"),
		),
		NewCrate: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new crate"),
		),
		HideCrated: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "hide crated albums"),
		),
		SyncLibrary: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sync library"),
		),

		// Sign in
		SignIn: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l", "sign in with browser"),
		),
		PasteToken: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "paste token"),
		),

		// Confirmations
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// Keys is the active key map
var Keys = DefaultKeyMap()
