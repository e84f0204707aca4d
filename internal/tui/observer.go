package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/crates/internal/state"
)

// StoreObserver adapts store change notifications to Bubble Tea messages.
// Bursts of dispatches coalesce into a single StateChangedMsg; the model
// always reads the latest snapshot when handling it.
type StoreObserver struct {
	ch     <-chan struct{}
	cancel func()
}

// NewStoreObserver subscribes to store changes
func NewStoreObserver(store *state.Store) *StoreObserver {
	ch, cancel := store.Changes()
	return &StoreObserver{ch: ch, cancel: cancel}
}

// Wait returns a command that blocks until the next change
func (o *StoreObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-o.ch; !ok {
			return nil
		}
		return StateChangedMsg{}
	}
}

// Close stops delivering notifications
func (o *StoreObserver) Close() {
	o.cancel()
}
