package state

import "github.com/mmcdole/crates/internal/domain"

// Paged is one paginated listing: the entities loaded so far, the page
// they were last extended with, and whether the server has more.
type Paged[K comparable, V any] struct {
	Items      EntityMap[K, V]
	Pageable   domain.Pageable
	IsLastPage bool
}

// HasNextPage reports whether a load-more may be issued
func (p Paged[K, V]) HasNextPage() bool {
	return !p.IsLastPage
}

// NextPage returns the page a load-more should request
func (p Paged[K, V]) NextPage() domain.Pageable {
	if p.Items.Len() == 0 {
		return domain.FirstPage(p.Pageable.Size)
	}
	return p.Pageable.Next()
}

// Merge folds a page result into the listing according to mode
func (p Paged[K, V]) Merge(key func(V) K, mode LoadMode, page domain.Page[V]) Paged[K, V] {
	var items EntityMap[K, V]
	if mode == Replace {
		items = p.Items.SetAll(key, page.Content)
	} else {
		items = p.Items.UpsertMany(key, page.Content)
	}
	size := page.Size
	if size <= 0 {
		size = p.Pageable.Size
	}
	return Paged[K, V]{
		Items:      items,
		Pageable:   domain.Pageable{Page: page.Number, Size: size},
		IsLastPage: page.Last,
	}
}

// PagedList is a loadable paginated listing
type PagedList[K comparable, V any] = Loadable[Paged[K, V]]

// NewPagedList returns an empty listing addressing page 0
func NewPagedList[K comparable, V any](size int) PagedList[K, V] {
	return PagedList[K, V]{Value: Paged[K, V]{Pageable: domain.FirstPage(size)}}
}

// beginPage starts a page load. A replace resets the pageable to page 0
// so a later load-more continues from the new first page.
func beginPage[K comparable, V any](l PagedList[K, V], req string, mode LoadMode) PagedList[K, V] {
	next := l.Begin(req, mode)
	if mode == Replace && next.Request == req {
		next.Value.Pageable = domain.FirstPage(l.Value.Pageable.Size)
	}
	return next
}

// resolvePage applies a page result if req is still outstanding
func resolvePage[K comparable, V any](l PagedList[K, V], req string, mode LoadMode, key func(V) K, r domain.Result[domain.Page[V]]) PagedList[K, V] {
	if r.Err != nil {
		return l.Fail(req, r.Err)
	}
	return l.Succeed(req, l.Value.Merge(key, mode, r.Value))
}

// Key extractors
func crateKey(c domain.Crate) int64           { return c.ID }
func albumKey(a domain.Album) int64           { return a.ID }
func libraryAlbumKey(a domain.Album) string   { return a.SpotifyID }
func eventKey(e domain.CrateEvent) int64      { return e.ID }
func followKey(f domain.UserFollow) int64     { return f.ID }
func publicUserKey(u domain.PublicUser) int64 { return u.ID }

// withKey returns a copy of m with k set to v
func withKey[K comparable, V any](m map[K]V, k K, v V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for key, val := range m {
		out[key] = val
	}
	out[k] = v
	return out
}

// withoutKey returns a copy of m without k
func withoutKey[K comparable, V any](m map[K]V, k K) map[K]V {
	if _, ok := m[k]; !ok {
		return m
	}
	out := make(map[K]V, len(m))
	for key, val := range m {
		if key != k {
			out[key] = val
		}
	}
	return out
}
