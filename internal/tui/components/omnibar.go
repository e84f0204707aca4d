package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/tui/styles"
)

// SearchEntry is one row of the search overlay
type SearchEntry struct {
	Badge          string // USER, CRATE, ALBUM
	Title          string
	Subtitle       string
	MatchedIndexes []int
	Local          bool        // matched against loaded data rather than the server
	Value          interface{} // domain.PublicUser, domain.Crate or domain.Album
}

// Omnibar is the search overlay. Server results arrive through snapshots;
// local matches are shown while the server query is still settling.
type Omnibar struct {
	input     textinput.Model
	entries   []SearchEntry
	cursor    int
	visible   bool
	width     int
	height    int
	loading   bool
	err       error
	prevQuery string
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search users and crates..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{
		input: ti,
	}
}

// Show makes the omnibar visible with an empty query
func (o *Omnibar) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.entries = nil
	o.cursor = 0
	o.loading = false
	o.err = nil
	o.prevQuery = ""
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetEntries replaces the results, keeping the cursor in range
func (o *Omnibar) SetEntries(entries []SearchEntry) {
	o.entries = entries
	if o.cursor >= len(entries) {
		o.cursor = max(len(entries)-1, 0)
	}
}

// SetStatus records whether the server search is outstanding or failed
func (o *Omnibar) SetStatus(loading bool, err error) {
	o.loading = loading
	o.err = err
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width*2/3-10, 20)
}

// Query returns the current search query
func (o Omnibar) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *Omnibar) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// Selected returns the entry under the cursor
func (o Omnibar) Selected() (SearchEntry, bool) {
	if o.cursor >= len(o.entries) {
		return SearchEntry{}, false
	}
	return o.entries[o.cursor], true
}

// Update handles messages, returns (omnibar, cmd, chosen)
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, SearchKeys.Close):
			o.Hide()
			return o, nil, false
		case key.Matches(keyMsg, SearchKeys.Open):
			return o, nil, len(o.entries) > 0
		case key.Matches(keyMsg, SearchKeys.Next):
			if o.cursor < len(o.entries)-1 {
				o.cursor++
			}
			return o, nil, false
		case key.Matches(keyMsg, SearchKeys.Prev):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		}
	}

	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

// View renders the component
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := max(min(o.width*2/3, 90), 40)
	maxResults := max(min(o.height-10, 15), 3)

	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n\n")

	switch {
	case o.err != nil:
		b.WriteString(styles.ErrorStyle.Render(o.err.Error()))
		b.WriteString("\n")
	case o.loading:
		b.WriteString(styles.SpinnerStyle.Render("Searching..."))
		b.WriteString("\n")
	}
	o.renderEntries(&b, modalWidth, maxResults)
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render(HintLine(SearchKeys.Help()...)))

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, modal)
}

func (o Omnibar) renderEntries(b *strings.Builder, modalWidth, maxResults int) {
	if len(o.entries) == 0 {
		if strings.TrimSpace(o.input.Value()) != "" && !o.loading {
			b.WriteString(styles.DimStyle.Render("No results"))
		}
		return
	}

	// Keep the cursor inside the visible window
	start := 0
	if o.cursor >= maxResults {
		start = o.cursor - maxResults + 1
	}
	end := min(start+maxResults, len(o.entries))

	for i := start; i < end; i++ {
		e := o.entries[i]
		selected := i == o.cursor

		var line strings.Builder
		badge := styles.DimBadgeStyle
		if !e.Local {
			badge = styles.BadgeStyle
		}
		line.WriteString(badge.Render(fmt.Sprintf("%-5s", e.Badge)))
		line.WriteString(" ")

		title := styles.Truncate(e.Title, modalWidth-30)
		if title == e.Title {
			title = styles.HighlightMatches(title, e.MatchedIndexes, selected)
		}
		style := styles.NormalItemStyle
		if selected {
			style = styles.SelectedItemStyle
		}
		line.WriteString(style.Render(title))
		if e.Subtitle != "" {
			line.WriteString(styles.DimStyle.Render(" " + styles.Truncate(e.Subtitle, 24)))
		}

		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(o.entries) > end {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.entries)-end)))
	}
}
