// Package search filters entities that are already loaded into the client
// state. It never goes to the network; the unified server search lives in
// the effects package.
package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Kind identifies what an indexed item is
type Kind int

const (
	KindCrate Kind = iota
	KindUser
	KindAlbum
)

func (k Kind) String() string {
	switch k {
	case KindCrate:
		return "crate"
	case KindUser:
		return "user"
	case KindAlbum:
		return "album"
	default:
		return "unknown"
	}
}

// Item is one searchable entity. Exactly one of Crate, User or Album is set.
type Item struct {
	Kind  Kind
	Title string
	Crate *domain.Crate
	User  *domain.PublicUser
	Album *domain.Album
}

// Key identifies the entity across sources
func (it Item) Key() string {
	switch it.Kind {
	case KindCrate:
		return fmt.Sprintf("crate:%d", it.Crate.ID)
	case KindUser:
		return fmt.Sprintf("user:%d", it.User.ID)
	case KindAlbum:
		return "album:" + it.Album.SpotifyID
	}
	return it.Title
}

// CrateItem wraps a crate for indexing
func CrateItem(c domain.Crate) Item {
	return Item{Kind: KindCrate, Title: c.Name, Crate: &c}
}

// UserItem wraps a user for indexing. The title carries the handle so
// either the display name or the handle can be typed.
func UserItem(u domain.PublicUser) Item {
	title := u.Name()
	if u.Handle != "" && u.Handle != title {
		title += " @" + u.Handle
	}
	return Item{Kind: KindUser, Title: title, User: &u}
}

// AlbumItem wraps an album for indexing, searchable by name and artists
func AlbumItem(a domain.Album) Item {
	title := a.Name
	if artists := a.ArtistNames(); artists != "" {
		title += " - " + artists
	}
	return Item{Kind: KindAlbum, Title: title, Album: &a}
}

// Result is a match with the positions that matched, for highlighting
type Result struct {
	Item
	MatchedIndexes []int
	Score          int // higher is better
}

// Index implements sahilm/fuzzy.Source over lowercase titles
type Index struct {
	logger *slog.Logger

	mu          sync.RWMutex
	items       []Item
	lowerTitles []string
	seen        map[string]bool
}

// NewIndex returns an empty index
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{logger: logger, seen: make(map[string]bool)}
}

// String returns the lowercase title at i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Add indexes items, skipping any already present
func (idx *Index) Add(items ...Item) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	added := 0
	for _, it := range items {
		k := it.Key()
		if idx.seen[k] {
			continue
		}
		idx.seen[k] = true
		idx.items = append(idx.items, it)
		idx.lowerTitles = append(idx.lowerTitles, strings.ToLower(it.Title))
		added++
	}
	return added
}

// Rebuild replaces the index with every crate, user and album in s
func (idx *Index) Rebuild(s state.State) {
	idx.Clear()

	var items []Item
	crateLists := [][]domain.Crate{
		state.MyCrates(s),
		s.Collection.Mine.Value.Items.Values(),
		s.Discover.PublicCrates.Value.Items.Values(),
		s.Discover.UserCrates.Value.Items.Values(),
		s.Trending.Trending.Value.Items.Values(),
		s.Trending.Recent.Value.Items.Values(),
	}
	for _, crates := range crateLists {
		for _, c := range crates {
			items = append(items, CrateItem(c))
		}
	}
	for _, u := range s.Social.Users.Value.Items.Values() {
		items = append(items, UserItem(u))
	}
	for _, f := range s.Social.Following.Value.Items.Values() {
		items = append(items, UserItem(f.Following))
	}
	for _, f := range s.Social.Followers.Value.Items.Values() {
		items = append(items, UserItem(f.Follower))
	}
	for _, a := range state.LibraryAlbums(s) {
		items = append(items, AlbumItem(a))
	}

	added := idx.Add(items...)
	idx.logger.Debug("rebuilt filter index", "added", added, "skipped", len(items)-added, "version", s.Version)
}

// Filter matches query against every indexed title, best first
func (idx *Index) Filter(query string) []Result {
	query = strings.TrimSpace(query)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := sfuzzy.FindFrom(strings.ToLower(query), idx)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           idx.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// FilterKind is Filter restricted to one kind
func (idx *Index) FilterKind(query string, kind Kind) []Result {
	var out []Result
	for _, r := range idx.Filter(query) {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Clear empties the index
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.items = nil
	idx.lowerTitles = nil
	idx.seen = make(map[string]bool)
}

// Count returns the number of indexed items
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Len()
}

// rank returns the positions of titles matching query, best first.
// Exact and prefix matches beat substring matches, which beat the
// Levenshtein distance of a subsequence match.
func rank(query string, titles []string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	type ranked struct {
		index int
		score int
	}

	var out []ranked
	for _, m := range fuzzy.RankFindFold(query, titles) {
		out = append(out, ranked{index: m.OriginalIndex, score: matchScore(strings.ToLower(m.Target), query, m.Distance)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return len(titles[out[i].index]) < len(titles[out[j].index])
	})

	indexes := make([]int, len(out))
	for i, r := range out {
		indexes[i] = r.index
	}
	return indexes
}

// matchScore is lower for better matches
func matchScore(title, query string, distance int) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	default:
		return 100 + distance
	}
}

// RankCrates returns the crates whose name matches query, best first
func RankCrates(query string, crates []domain.Crate) []domain.Crate {
	titles := make([]string, len(crates))
	for i, c := range crates {
		titles[i] = c.Name
	}
	idx := rank(query, titles)
	out := make([]domain.Crate, len(idx))
	for i, j := range idx {
		out[i] = crates[j]
	}
	return out
}

// RankUsers returns the users whose name or handle matches query, best first
func RankUsers(query string, users []domain.PublicUser) []domain.PublicUser {
	titles := make([]string, len(users))
	for i, u := range users {
		titles[i] = UserItem(u).Title
	}
	idx := rank(query, titles)
	out := make([]domain.PublicUser, len(idx))
	for i, j := range idx {
		out[i] = users[j]
	}
	return out
}
