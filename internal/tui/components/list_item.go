package components

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/tui/styles"
)

// ListItem is the interface for rows a ListColumn can display
type ListItem interface {
	// ItemID returns a key that is stable across snapshots
	ItemID() string

	// ItemTitle returns the display title
	ItemTitle() string

	// ItemSubtitle returns secondary text (artists, owner, time)
	ItemSubtitle() string

	// FilterValue returns the string used for fuzzy filtering
	FilterValue() string

	// Indicator returns the leading marker and its color. An empty marker
	// renders as blank space so titles stay aligned.
	Indicator() (string, lipgloss.Color)

	// CanDrillInto returns true if selecting the row opens another column
	CanDrillInto() bool

	// Unwrap returns the underlying domain object
	Unwrap() interface{}
}

// CrateListItem wraps a crate with its collection flags
type CrateListItem struct {
	Crate domain.Crate
	Saved bool
	Busy  bool
	Own   bool
}

func (i CrateListItem) ItemID() string      { return "crate:" + strconv.FormatInt(i.Crate.ID, 10) }
func (i CrateListItem) ItemTitle() string   { return i.Crate.Name }
func (i CrateListItem) FilterValue() string { return i.Crate.Name }
func (i CrateListItem) CanDrillInto() bool  { return true }
func (i CrateListItem) Unwrap() interface{} { return i.Crate }

func (i CrateListItem) ItemSubtitle() string {
	if i.Own || i.Crate.User == nil {
		if i.Crate.PublicCrate {
			return "public"
		}
		return "private"
	}
	return "by " + i.Crate.User.Name()
}

func (i CrateListItem) Indicator() (string, lipgloss.Color) {
	switch {
	case i.Own:
		return "", styles.DimGray
	case i.Busy:
		return styles.PendingChar, styles.DimGray
	case i.Saved:
		return styles.SavedChar, styles.CrateAmber
	default:
		return styles.UnsavedChar, styles.DimGray
	}
}

// AlbumListItem wraps a library or crate album
type AlbumListItem struct {
	Album    domain.Album
	Selected bool
}

func (i AlbumListItem) ItemID() string {
	if i.Album.SpotifyID != "" {
		return "album:" + i.Album.SpotifyID
	}
	return "album:" + strconv.FormatInt(i.Album.ID, 10)
}

func (i AlbumListItem) ItemTitle() string {
	if y := i.Album.Year(); y > 0 {
		return fmt.Sprintf("%s (%d)", i.Album.Name, y)
	}
	return i.Album.Name
}

func (i AlbumListItem) ItemSubtitle() string { return i.Album.ArtistNames() }
func (i AlbumListItem) FilterValue() string  { return i.Album.Name + " " + i.Album.ArtistNames() }
func (i AlbumListItem) CanDrillInto() bool   { return false }
func (i AlbumListItem) Unwrap() interface{}  { return i.Album }

func (i AlbumListItem) Indicator() (string, lipgloss.Color) {
	if i.Selected {
		return styles.SelectedChar, styles.CrateAmber
	}
	return "", styles.DimGray
}

// UserListItem wraps a public user with their follow flags
type UserListItem struct {
	User      domain.PublicUser
	Following bool
	Busy      bool
	Me        bool
}

func (i UserListItem) ItemID() string       { return "user:" + strconv.FormatInt(i.User.ID, 10) }
func (i UserListItem) ItemTitle() string    { return i.User.Name() }
func (i UserListItem) FilterValue() string  { return i.User.Name() + " " + i.User.Handle }
func (i UserListItem) CanDrillInto() bool   { return true }
func (i UserListItem) Unwrap() interface{}  { return i.User }
func (i UserListItem) ItemSubtitle() string { return "@" + i.User.Identifier() }

func (i UserListItem) Indicator() (string, lipgloss.Color) {
	switch {
	case i.Me:
		return "", styles.DimGray
	case i.Busy:
		return styles.PendingChar, styles.DimGray
	case i.Following:
		return styles.FollowingChar, styles.Green
	default:
		return "", styles.DimGray
	}
}

// EventListItem wraps an activity feed event
type EventListItem struct {
	Event  domain.CrateEvent
	Unread bool
}

func (i EventListItem) ItemID() string       { return "event:" + strconv.FormatInt(i.Event.ID, 10) }
func (i EventListItem) ItemTitle() string    { return i.Event.Describe() }
func (i EventListItem) ItemSubtitle() string { return i.Event.CreatedAt.Format("Jan 2 15:04") }
func (i EventListItem) FilterValue() string  { return i.Event.Describe() }
func (i EventListItem) CanDrillInto() bool   { return i.Event.Crate.ID != 0 }
func (i EventListItem) Unwrap() interface{}  { return i.Event }

func (i EventListItem) Indicator() (string, lipgloss.Color) {
	if i.Unread {
		return styles.NewChar, styles.CrateAmber
	}
	return "", styles.DimGray
}

// MenuListItem is a static entry that opens a listing
type MenuListItem struct {
	ID       string
	Title    string
	Subtitle string
}

func (i MenuListItem) ItemID() string                      { return "menu:" + i.ID }
func (i MenuListItem) ItemTitle() string                   { return i.Title }
func (i MenuListItem) ItemSubtitle() string                { return i.Subtitle }
func (i MenuListItem) FilterValue() string                 { return i.Title }
func (i MenuListItem) Indicator() (string, lipgloss.Color) { return "", styles.DimGray }
func (i MenuListItem) CanDrillInto() bool                  { return true }
func (i MenuListItem) Unwrap() interface{}                 { return i }
