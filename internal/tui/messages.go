package tui

// Message types for the TUI

// StateChangedMsg signals that the store published at least one new snapshot
type StateChangedMsg struct{}

// TickMsg advances the spinner animation
type TickMsg struct{}

// ActivityCheckMsg triggers a probe for new activity
type ActivityCheckMsg struct{}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// LinkOpenedMsg reports the outcome of handing a link to the browser
type LinkOpenedMsg struct {
	Link string
	Err  error
}

// TokenSavedMsg reports the outcome of storing a pasted token
type TokenSavedMsg struct {
	Err error
}

// LogoutCompleteMsg signals that credentials and cache were cleared
type LogoutCompleteMsg struct {
	Err error
}
