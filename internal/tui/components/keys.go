package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// ListKeyMap holds the bindings a focused column understands. The filter
// bindings apply once Filter has opened the filter line under the rows.
type ListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Filter       key.Binding
	AcceptFilter key.Binding
	ClearFilter  key.Binding
}

func newListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous row")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next row")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last loaded row")),
		HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("C-u", "half screen up")),
		HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "half screen down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "screen up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "screen down")),

		Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter rows")),
		AcceptFilter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep matches")),
		ClearFilter:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "show all")),
	}
}

// MoveHelp lists the movement bindings in help overlay order
func (k ListKeyMap) MoveHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Top, k.Bottom, k.HalfDown, k.HalfUp}
}

// FilterHelp lists the bindings that apply while a filter is being typed
func (k ListKeyMap) FilterHelp() []key.Binding {
	return []key.Binding{k.Filter, k.AcceptFilter, k.ClearFilter}
}

// SearchKeyMap holds the bindings of the search overlay. Everything else
// is typed into the query.
type SearchKeyMap struct {
	Close key.Binding
	Open  key.Binding
	Prev  key.Binding
	Next  key.Binding
}

func newSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close search")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open result")),
		Prev:  key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/C-p", "previous result")),
		Next:  key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓/C-n", "next result")),
	}
}

// Help lists the overlay bindings
func (k SearchKeyMap) Help() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Open, k.Close}
}

var (
	ListKeys   = newListKeyMap()
	SearchKeys = newSearchKeyMap()
)

// HelpLines formats bindings as rows of the help overlay
func HelpLines(bindings ...key.Binding) []string {
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("%-10s %s", h.Key, h.Desc))
	}
	return lines
}

// HintLine formats bindings as a one-line footer hint
func HintLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
