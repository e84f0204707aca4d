package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight = 2
	inspectorTitleLines   = 2 // title plus blank line
	inspectorFooterLines  = 1
)

// InspectorDetail carries state-derived facts about the inspected item
// that the domain object itself does not hold.
type InspectorDetail struct {
	Link        string
	Status      string // e.g. "In your collection", "Following"
	Stats       *domain.SocialStats
	AlbumCount  int
	HasMore     bool
	SyncState   domain.LibraryState
	LastUpdated domain.Timestamp
}

// Inspector displays detailed metadata for the selected item
type Inspector struct {
	item   interface{}
	detail InspectorDetail
	width  int
	height int
	vp     viewport.Model
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{vp: viewport.New(0, 0)}
}

// SetItem sets the item to display. Scroll resets only when the item changes.
func (i *Inspector) SetItem(item interface{}, detail InspectorDetail) {
	same := itemKey(i.item) == itemKey(item) && item != nil
	i.item = item
	i.detail = detail
	i.refresh()
	if !same {
		i.vp.GotoTop()
	}
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	i.vp.Width = max(width-3, 10)
	i.vp.Height = max(height-InspectorBorderHeight-inspectorTitleLines-inspectorFooterLines, 1)
	i.refresh()
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.item != nil
}

// ScrollDown moves the body down by n lines
func (i *Inspector) ScrollDown(n int) {
	i.vp.LineDown(n)
}

// ScrollUp moves the body up by n lines
func (i *Inspector) ScrollUp(n int) {
	i.vp.LineUp(n)
}

func (i *Inspector) refresh() {
	i.vp.SetContent(i.render(i.vp.Width))
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	contentWidth := max(i.width-3, 10)

	var parts []string
	parts = append(parts, styles.AccentStyle.Render(styles.Truncate("Info", contentWidth)), "")
	parts = append(parts, i.vp.View())

	footer := " "
	switch {
	case !i.vp.AtTop() && !i.vp.AtBottom():
		footer = styles.DimStyle.Render("↑↓ more")
	case !i.vp.AtBottom():
		footer = styles.DimStyle.Render("↓ more")
	case !i.vp.AtTop():
		footer = styles.DimStyle.Render("↑ more")
	}
	parts = append(parts, footer)

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) string {
	switch v := i.item.(type) {
	case domain.Crate:
		return i.renderCrate(v, width)
	case domain.Album:
		return renderAlbum(v, width)
	case domain.PublicUser:
		return i.renderUser(v, width)
	case domain.CrateEvent:
		return i.renderEvent(v, width)
	case domain.User:
		return i.renderUser(v.Public(), width)
	default:
		return styles.DimStyle.Render("No item selected")
	}
}

func (i Inspector) renderCrate(c domain.Crate, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(c.Name, width)))
	b.WriteString("\n")
	if c.User != nil {
		b.WriteString(styles.SubtitleStyle.Render("by " + styles.Truncate(c.User.Name(), width-3)))
		b.WriteString("\n")
	}

	meta := []string{"private"}
	if c.PublicCrate {
		meta[0] = "public"
	}
	if c.FollowerCount > 0 {
		meta = append(meta, pluralize(c.FollowerCount, "collector"))
	}
	if i.detail.AlbumCount > 0 {
		count := pluralize(i.detail.AlbumCount, "album")
		if i.detail.HasMore {
			count += "+"
		}
		meta = append(meta, count)
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")

	if i.detail.Status != "" {
		b.WriteString(styles.SuccessStyle.Render(i.detail.Status))
		b.WriteString("\n")
	}

	if c.Description != "" {
		b.WriteString("\n")
		b.WriteString(wrapText(c.Description, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if !c.CreatedAt.IsZero() {
		b.WriteString(renderField("Created", c.CreatedAt.Format("Jan 2, 2006")))
	}
	if !c.UpdatedAt.IsZero() {
		b.WriteString(renderField("Updated", c.UpdatedAt.Format("Jan 2, 2006")))
	}
	i.writeLink(&b, width)
	return b.String()
}

func renderAlbum(a domain.Album, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(a.Name, width)))
	b.WriteString("\n")
	if artists := a.ArtistNames(); artists != "" {
		b.WriteString(styles.SubtitleStyle.Render(wrapText(artists, width)))
		b.WriteString("\n")
	}

	var meta []string
	if y := a.Year(); y > 0 {
		meta = append(meta, fmt.Sprintf("%d", y))
	}
	if a.Popularity > 0 {
		meta = append(meta, fmt.Sprintf("popularity %d", a.Popularity))
	}
	if len(meta) > 0 {
		b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")))
		b.WriteString("\n")
	}

	if a.URI != "" {
		b.WriteString("\n")
		b.WriteString(renderField("URI", a.URI))
	}
	if art := a.Images.Best(domain.ImageMedium); art != "" {
		b.WriteString(renderField("Art", styles.Truncate(art, width-6)))
	}
	return b.String()
}

func (i Inspector) renderUser(u domain.PublicUser, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(u.Name(), width)))
	b.WriteString("\n")
	if u.Handle != "" {
		b.WriteString(styles.SubtitleStyle.Render("@" + u.Handle))
		b.WriteString("\n")
	}

	followers, following := u.FollowerCount, u.FollowingCount
	if i.detail.Stats != nil {
		followers, following = i.detail.Stats.FollowerCount, i.detail.Stats.FollowingCount
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s · %d following",
		pluralize(followers, "follower"), following)))
	b.WriteString("\n")

	if u.PrivateProfile {
		b.WriteString(styles.DimStyle.Render("private profile"))
		b.WriteString("\n")
	}
	if i.detail.Status != "" {
		b.WriteString(styles.SuccessStyle.Render(i.detail.Status))
		b.WriteString("\n")
	}
	if i.detail.SyncState != "" {
		line := "library " + strings.ToLower(strings.ReplaceAll(string(i.detail.SyncState), "_", " "))
		if !i.detail.LastUpdated.IsZero() {
			line += ", updated " + i.detail.LastUpdated.Format("Jan 2 15:04")
		}
		b.WriteString(styles.DimStyle.Render(line))
		b.WriteString("\n")
	}

	if u.Bio != "" {
		b.WriteString("\n")
		b.WriteString(wrapText(u.Bio, width))
		b.WriteString("\n")
	}
	i.writeLink(&b, width)
	return b.String()
}

func (i Inspector) renderEvent(e domain.CrateEvent, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(wrapText(e.Describe(), width)))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(e.CreatedAt.Format("Mon Jan 2 15:04")))
	b.WriteString("\n\n")

	b.WriteString(renderField("Crate", e.Crate.Name))
	b.WriteString(renderField("User", e.User.Name()))
	if n := len(e.AlbumIDs); n > 0 {
		b.WriteString(renderField("Albums", fmt.Sprintf("%d", n)))
	}
	return b.String()
}

func (i Inspector) writeLink(b *strings.Builder, width int) {
	if i.detail.Link == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(styles.LinkStyle.Render(styles.Truncate(i.detail.Link, width)))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("o to open"))
	b.WriteString("\n")
}

func renderField(label, value string) string {
	return styles.DimStyle.Render(fmt.Sprintf("%-8s", label)) + " " + value + "\n"
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func wrapText(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func itemKey(item interface{}) string {
	switch v := item.(type) {
	case domain.Crate:
		return fmt.Sprintf("crate:%d", v.ID)
	case domain.Album:
		return fmt.Sprintf("album:%d:%s", v.ID, v.SpotifyID)
	case domain.PublicUser:
		return fmt.Sprintf("user:%d", v.ID)
	case domain.User:
		return fmt.Sprintf("user:%d", v.ID)
	case domain.CrateEvent:
		return fmt.Sprintf("event:%d", v.ID)
	}
	return ""
}
