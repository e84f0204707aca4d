package state

import "github.com/mmcdole/crates/internal/domain"

// LoadMode selects how a page result merges into a paged list
type LoadMode int

const (
	// Append upserts the page into the existing entities (infinite scroll).
	// An append while another request is outstanding is ignored.
	Append LoadMode = iota
	// Replace swaps the entities for the page's content (filter change).
	// A replace supersedes any outstanding request.
	Replace
)

func (m LoadMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "append"
}

// Loadable wraps an asynchronously loaded value.
//
// IsLoading and IsLoaded are never both true. Err is cleared when the next
// attempt starts, and a failure keeps the previous Value. Request names the
// one outstanding request whose result will be accepted; results for any
// other request are stale and are ignored.
type Loadable[T any] struct {
	Value     T
	IsLoading bool
	IsLoaded  bool
	Err       error
	Request   string
}

// Start begins req, superseding anything outstanding
func (l Loadable[T]) Start(req string) Loadable[T] {
	l.IsLoading = true
	l.IsLoaded = false
	l.Err = nil
	l.Request = req
	return l
}

// TryStart begins req unless a request is already outstanding
func (l Loadable[T]) TryStart(req string) (Loadable[T], bool) {
	if l.IsLoading {
		return l, false
	}
	return l.Start(req), true
}

// Begin starts req with the policy implied by mode
func (l Loadable[T]) Begin(req string, mode LoadMode) Loadable[T] {
	if mode == Replace {
		return l.Start(req)
	}
	next, _ := l.TryStart(req)
	return next
}

// Accepts reports whether a result for req should be applied
func (l Loadable[T]) Accepts(req string) bool {
	return l.IsLoading && l.Request == req
}

// Succeed stores v if req is the outstanding request
func (l Loadable[T]) Succeed(req string, v T) Loadable[T] {
	if !l.Accepts(req) {
		return l
	}
	return Loadable[T]{Value: v, IsLoaded: true, Request: req}
}

// Fail records err if req is the outstanding request, keeping the old value
func (l Loadable[T]) Fail(req string, err error) Loadable[T] {
	if !l.Accepts(req) {
		return l
	}
	l.IsLoading = false
	l.IsLoaded = false
	l.Err = err
	return l
}

// Resolve applies a tagged result
func (l Loadable[T]) Resolve(req string, r domain.Result[T]) Loadable[T] {
	if r.Err != nil {
		return l.Fail(req, r.Err)
	}
	return l.Succeed(req, r.Value)
}

// Update rewrites the value without touching request state
func (l Loadable[T]) Update(fn func(T) T) Loadable[T] {
	l.Value = fn(l.Value)
	return l
}

// Flight tracks a request that produces no stored value of its own
type Flight struct {
	Request   string
	IsLoading bool
	Err       error
}

// Start begins req, superseding anything outstanding
func (f Flight) Start(req string) Flight {
	return Flight{Request: req, IsLoading: true}
}

// TryStart begins req unless a request is already outstanding
func (f Flight) TryStart(req string) (Flight, bool) {
	if f.IsLoading {
		return f, false
	}
	return f.Start(req), true
}

// Accepts reports whether a result for req should be applied
func (f Flight) Accepts(req string) bool {
	return f.IsLoading && f.Request == req
}

// Done finishes req with an optional error
func (f Flight) Done(req string, err error) Flight {
	if !f.Accepts(req) {
		return f
	}
	return Flight{Request: req, Err: err}
}

// Mutation counts fire-and-apply writes. Unlike loads, every mutation
// result is applied; none supersedes another.
type Mutation struct {
	InFlight int
	Err      error
}

// Begin records a new outstanding write
func (m Mutation) Begin() Mutation {
	return Mutation{InFlight: m.InFlight + 1}
}

// End records a finished write
func (m Mutation) End(err error) Mutation {
	n := m.InFlight - 1
	if n < 0 {
		n = 0
	}
	return Mutation{InFlight: n, Err: err}
}

// Busy reports whether any write is outstanding
func (m Mutation) Busy() bool {
	return m.InFlight > 0
}
