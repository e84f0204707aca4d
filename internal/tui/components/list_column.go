package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for list columns
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable, filterable list of rows
type ListColumn struct {
	items []ListItem

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Listing status, owned by the snapshot the rows came from
	loading      bool
	hasMore      bool
	err          error
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
	matched      map[int][]int
}

// NewListColumn creates an empty list column
func NewListColumn(title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		title:       title,
		filterInput: ti,
	}
}

// Update handles navigation and filter input when focused
func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, ListKeys.ClearFilter):
				c.clearFilter()
				return c, nil
			case key.Matches(keyMsg, ListKeys.AcceptFilter):
				c.filterInput.Blur()
				return c, nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	if !isKey {
		return c, nil
	}

	// Filter accepted, navigating the matches
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, ListKeys.ClearFilter):
			c.clearFilter()
			return c, nil
		case key.Matches(keyMsg, ListKeys.Filter):
			c.filterInput.Focus()
			return c, nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Top):
		c.cursor = 0
	case key.Matches(keyMsg, ListKeys.Bottom):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
	case key.Matches(keyMsg, ListKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
	case key.Matches(keyMsg, ListKeys.PageDown):
		c.cursor = min(c.cursor+c.maxVisible, count-1)
	case key.Matches(keyMsg, ListKeys.PageUp):
		c.cursor = max(c.cursor-c.maxVisible, 0)
	}
	c.ensureVisible()

	return c, nil
}

// View renders the column with its border
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent())
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) Width() int  { return c.width }
func (c *ListColumn) Height() int { return c.height }

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }
func (c *ListColumn) IsFocused() bool         { return c.focused }

func (c *ListColumn) Title() string         { return c.title }
func (c *ListColumn) SetTitle(title string) { c.title = title }

// SetItems replaces the rows, keeping the cursor on the same item when it
// is still present. Snapshots arrive often; a reset here would make the
// cursor jump on every load-more.
func (c *ListColumn) SetItems(items []ListItem) {
	var selectedID string
	if sel := c.SelectedItem(); sel != nil {
		selectedID = sel.ItemID()
	}

	c.items = items
	if c.filterActive {
		c.applyFilter()
	}

	if selectedID != "" {
		for i := 0; i < c.ItemCount(); i++ {
			if c.items[c.mapIndex(i)].ItemID() == selectedID {
				c.cursor = i
				c.ensureVisible()
				return
			}
		}
	}
	c.SetSelectedIndex(c.cursor)
}

// SetStatus records the listing's loading, pagination and error state
func (c *ListColumn) SetStatus(loading, hasMore bool, err error) {
	c.loading = loading
	c.hasMore = hasMore
	c.err = err
}

func (c *ListColumn) IsLoading() bool { return c.loading }
func (c *ListColumn) HasMore() bool   { return c.hasMore }

// SetSpinnerFrame updates the spinner animation frame
func (c *ListColumn) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// SelectedItem returns the row under the cursor, or nil
func (c *ListColumn) SelectedItem() ListItem {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return nil
	}
	return c.items[c.mapIndex(c.cursor)]
}

func (c *ListColumn) SelectedIndex() int {
	return c.cursor
}

func (c *ListColumn) SetSelectedIndex(idx int) {
	last := c.ItemCount() - 1
	if last < 0 {
		c.cursor = 0
		c.offset = 0
		return
	}
	c.cursor = max(0, min(idx, last))
	c.ensureVisible()
}

// SelectID moves the cursor to the row with the given id. The filter is
// cleared when it hides that row.
func (c *ListColumn) SelectID(id string) bool {
	for i, item := range c.items {
		if item.ItemID() != id {
			continue
		}
		if c.filteredIdx != nil {
			for fi, idx := range c.filteredIdx {
				if idx == i {
					c.SetSelectedIndex(fi)
					return true
				}
			}
			c.clearFilter()
		}
		c.SetSelectedIndex(i)
		return true
	}
	return false
}

// ItemCount returns the number of visible rows
func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.items)
}

// AtEnd reports whether the cursor is on the last unfiltered row, the
// trigger for loading the next page
func (c *ListColumn) AtEnd() bool {
	return !c.filterActive && len(c.items) > 0 && c.cursor >= len(c.items)-1
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

func (c *ListColumn) recalcMaxVisible() {
	// title line plus both scroll indicators
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.matched = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := c.filterInput.Value()
	changed := query != c.filterQuery
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		c.matched = nil
		return
	}

	values := make([]string, len(c.items))
	for i, it := range c.items {
		values[i] = strings.ToLower(it.FilterValue())
	}

	matches := fuzzy.Find(strings.ToLower(query), values)

	c.filteredIdx = make([]int, len(matches))
	c.matched = make(map[int][]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
		c.matched[match.Index] = match.MatchedIndexes
	}

	if changed {
		c.cursor = 0
		c.offset = 0
	}
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))
	count := c.ItemCount()

	if count == 0 {
		var msg string
		switch {
		case c.loading:
			msg = spinnerFrames[c.spinnerFrame%len(spinnerFrames)] + " Loading..."
		case c.err != nil:
			msg = styles.ErrorStyle.Render(styles.Truncate(c.err.Error(), itemWidth))
		case c.filterActive && c.filterQuery != "":
			msg = "No matches"
		default:
			msg = "Nothing here yet"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg) + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)

	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		idx := c.mapIndex(i)
		lines = append(lines, c.renderItem(c.items[idx], c.matched[idx], i == c.cursor, itemWidth))
	}

	// Header and footer lines are always reserved to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	footer := " "
	switch {
	case c.loading:
		footer = styles.SpinnerStyle.Render(spinnerFrames[c.spinnerFrame%len(spinnerFrames)]) + styles.DimStyle.Render(" loading")
	case c.err != nil:
		footer = styles.ErrorStyle.Render(styles.Truncate(c.err.Error(), itemWidth))
	case end < count:
		footer = styles.DimStyle.Render("↓ more")
	case c.hasMore && !c.filterActive:
		footer = styles.DimStyle.Render("↓ next page")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ListColumn) renderItem(item ListItem, matched []int, selected bool, width int) string {
	marker, markerFg := item.Indicator()
	if marker == "" {
		marker = " "
	}

	subtitle := item.ItemSubtitle()
	// width - marker(1) - space(1) - margins(2)
	available := width - 4
	titleWidth := available
	if subtitle != "" && available > 30 {
		titleWidth = available * 2 / 3
	}

	title := styles.Truncate(item.ItemTitle(), titleWidth)
	if matched != nil && title == item.ItemTitle() && item.FilterValue() == item.ItemTitle() {
		title = styles.HighlightMatches(title, matched, selected)
	}

	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: " " + title},
	}
	if rest := available - lipgloss.Width(title) - 2; subtitle != "" && rest > 3 {
		dim := styles.DimGray
		parts = append(parts, styles.RowPart{Text: "  " + styles.Truncate(subtitle, rest), Foreground: &dim})
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderFilterBar() string {
	bar := c.filterInput.View()
	if c.filterQuery != "" {
		bar += styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.items)))
	}
	if c.filterInput.Focused() {
		hint := HintLine(ListKeys.AcceptFilter, ListKeys.ClearFilter)
		if lipgloss.Width(bar)+lipgloss.Width(hint)+1 < c.width-2 {
			bar += " " + styles.DimStyle.Render(hint)
		}
	}
	return bar
}
