package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/crates/internal/state"
)

// Command factories for async operations

// Launcher opens share links and the sign-in page
type Launcher interface {
	Open(link string) error
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ActivityCheckCmd schedules the next new-activity probe
func ActivityCheckCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return ActivityCheckMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// OpenLinkCmd hands link to the launcher off the UI goroutine
func OpenLinkCmd(l Launcher, link string) tea.Cmd {
	return func() tea.Msg {
		return LinkOpenedMsg{Link: link, Err: l.Open(link)}
	}
}

// SaveTokenCmd persists a pasted token
func SaveTokenCmd(save func(string) error, token string) tea.Cmd {
	return func() tea.Msg {
		if save == nil {
			return TokenSavedMsg{}
		}
		return TokenSavedMsg{Err: save(token)}
	}
}

// LogoutCmd clears stored credentials
func LogoutCmd(logout func() error) tea.Cmd {
	return func() tea.Msg {
		if logout == nil {
			return LogoutCompleteMsg{}
		}
		return LogoutCompleteMsg{Err: logout()}
	}
}

// DispatchCmd dispatches actions to the store from a command goroutine.
// Used where an action must not run inside Update, such as the initial loads.
func DispatchCmd(store *state.Store, actions ...state.Action) tea.Cmd {
	if len(actions) == 0 {
		return nil
	}
	return func() tea.Msg {
		for _, a := range actions {
			store.Dispatch(a)
		}
		return nil
	}
}
