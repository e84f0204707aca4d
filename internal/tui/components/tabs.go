package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/tui/styles"
)

// TabStatus decorates a tab label
type TabStatus struct {
	Badge int  // unread count, hidden when zero
	New   bool // newer items exist upstream
	Busy  bool // background work in progress
}

// TabBar renders the top-level sections
type TabBar struct {
	tabs    []navigation.Context
	active  int
	status  map[navigation.Context]TabStatus
	spinner string
	width   int
}

// NewTabBar creates a tab bar over the given sections
func NewTabBar(tabs []navigation.Context) TabBar {
	return TabBar{
		tabs:   tabs,
		status: make(map[navigation.Context]TabStatus),
	}
}

// Active returns the selected section
func (t TabBar) Active() navigation.Context {
	if len(t.tabs) == 0 {
		return navigation.Unset
	}
	return t.tabs[t.active]
}

// ActiveIndex returns the position of the selected section
func (t TabBar) ActiveIndex() int {
	return t.active
}

// Len returns the number of tabs
func (t TabBar) Len() int {
	return len(t.tabs)
}

// Select activates the tab at index, ignoring out of range values
func (t *TabBar) Select(index int) bool {
	if index < 0 || index >= len(t.tabs) || index == t.active {
		return false
	}
	t.active = index
	return true
}

// SelectContext activates the tab for c
func (t *TabBar) SelectContext(c navigation.Context) bool {
	for i, tab := range t.tabs {
		if tab == c {
			return t.Select(i)
		}
	}
	return false
}

// Next cycles forward
func (t *TabBar) Next() {
	if len(t.tabs) > 0 {
		t.active = (t.active + 1) % len(t.tabs)
	}
}

// Prev cycles backward
func (t *TabBar) Prev() {
	if len(t.tabs) > 0 {
		t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
	}
}

// SetStatus replaces the decoration for a tab
func (t *TabBar) SetStatus(c navigation.Context, s TabStatus) {
	t.status[c] = s
}

// SetSpinner sets the glyph shown on busy tabs
func (t *TabBar) SetSpinner(glyph string) {
	t.spinner = glyph
}

// SetWidth updates the rendered width
func (t *TabBar) SetWidth(width int) {
	t.width = width
}

// View renders the tab bar
func (t TabBar) View() string {
	parts := make([]string, 0, len(t.tabs))
	for i, tab := range t.tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		st := t.status[tab]
		if st.Busy && t.spinner != "" {
			label += " " + t.spinner
		}
		if st.New && st.Badge == 0 {
			label += " " + styles.NewChar
		}

		style := styles.TabStyle
		if i == t.active {
			style = styles.ActiveTabStyle
		}
		rendered := style.Render(label)
		if st.Badge > 0 {
			badge := fmt.Sprintf("%d", st.Badge)
			if st.Badge > 99 {
				badge = "99+"
			}
			rendered += styles.TabBadgeStyle.Render(badge)
		}
		parts = append(parts, rendered)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if pad := t.width - lipgloss.Width(bar); pad > 0 {
		bar += strings.Repeat(" ", pad)
	}
	return bar
}
