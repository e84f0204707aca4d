package tui

import (
	"github.com/mmcdole/crates/internal/tui/components"
)

// stackEntry pairs a column with the listing it shows
type stackEntry struct {
	col  *components.ListColumn
	view View
}

// ColumnStack manages the navigable columns of one section.
//
// Visual representation:
//
//	Crates:   [My Crates | Inspector]
//	Crate:    [My Crates | Sunday Records | Inspector]
//	Discover: [Discover | Trending | Inspector]
//	Profile:  [Trending | miles | Inspector]
//
// The top of the stack is always focused. Rows are rebuilt from the
// latest snapshot for every entry, so parents stay current too.
type ColumnStack struct {
	entries     []stackEntry
	cursorStack []int // saved cursor positions for back navigation
}

// NewColumnStack creates a stack rooted at view
func NewColumnStack(root View) *ColumnStack {
	cs := &ColumnStack{}
	cs.Reset(root)
	return cs
}

// Len returns the number of columns in the stack
func (cs *ColumnStack) Len() int {
	return len(cs.entries)
}

// Get returns the column at the given index (0 = bottom/oldest)
func (cs *ColumnStack) Get(idx int) *components.ListColumn {
	if idx < 0 || idx >= len(cs.entries) {
		return nil
	}
	return cs.entries[idx].col
}

// ViewAt returns the view at the given index
func (cs *ColumnStack) ViewAt(idx int) View {
	if idx < 0 || idx >= len(cs.entries) {
		return View{}
	}
	return cs.entries[idx].view
}

// Top returns the topmost (current/focused) column
func (cs *ColumnStack) Top() *components.ListColumn {
	if len(cs.entries) == 0 {
		return nil
	}
	return cs.entries[len(cs.entries)-1].col
}

// TopView returns the view of the focused column
func (cs *ColumnStack) TopView() View {
	return cs.ViewAt(len(cs.entries) - 1)
}

// Push opens view in a new focused column, saving the current cursor
func (cs *ColumnStack) Push(view View) *components.ListColumn {
	saved := 0
	if top := cs.Top(); top != nil {
		saved = top.SelectedIndex()
		top.SetFocused(false)
	}
	cs.cursorStack = append(cs.cursorStack, saved)

	col := components.NewListColumn(view.Title)
	col.SetFocused(true)
	cs.entries = append(cs.entries, stackEntry{col: col, view: view})
	return col
}

// Pop removes the top column and restores the parent's cursor.
// The root column is never popped.
func (cs *ColumnStack) Pop() (View, bool) {
	if len(cs.entries) <= 1 {
		return View{}, false
	}

	popped := cs.entries[len(cs.entries)-1]
	popped.col.SetFocused(false)
	cs.entries = cs.entries[:len(cs.entries)-1]

	savedCursor := 0
	if n := len(cs.cursorStack); n > 0 {
		savedCursor = cs.cursorStack[n-1]
		cs.cursorStack = cs.cursorStack[:n-1]
	}

	if top := cs.Top(); top != nil {
		top.SetFocused(true)
		top.SetSelectedIndex(savedCursor)
	}
	return popped.view, true
}

// Reset resets the stack to a single root column
func (cs *ColumnStack) Reset(root View) {
	for _, e := range cs.entries {
		e.col.SetFocused(false)
	}
	col := components.NewListColumn(root.Title)
	col.SetFocused(true)
	cs.entries = []stackEntry{{col: col, view: root}}
	cs.cursorStack = nil
}

// Parent returns the parent column (second from top), or nil if at root
func (cs *ColumnStack) Parent() *components.ListColumn {
	return cs.Get(len(cs.entries) - 2)
}

// CanGoBack returns true if we can navigate back (not at root)
func (cs *ColumnStack) CanGoBack() bool {
	return len(cs.entries) > 1
}

// Each calls fn for every column from the root up
func (cs *ColumnStack) Each(fn func(col *components.ListColumn, view View)) {
	for _, e := range cs.entries {
		fn(e.col, e.view)
	}
}

// Breadcrumb joins the column titles from the root
func (cs *ColumnStack) Breadcrumb() []string {
	out := make([]string, 0, len(cs.entries))
	for _, e := range cs.entries {
		out = append(out, e.col.Title())
	}
	return out
}

// UpdateSpinnerFrame updates the spinner frame for all columns
func (cs *ColumnStack) UpdateSpinnerFrame(frame int) {
	for _, e := range cs.entries {
		e.col.SetSpinnerFrame(frame)
	}
}
