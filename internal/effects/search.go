package effects

import (
	"context"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/state"
)

const searchLane = "search"

func (e *Effects) handleSearch(a state.Action, s state.State) {
	switch a := a.(type) {
	case state.SearchQueryChanged:
		q := normalizeQuery(a.Query)
		if q == "" {
			// the reducer already cleared the results
			e.resetSearch()
			return
		}
		e.search.Push(q)

	case state.SearchRequested:
		if !s.Search.Results.Accepts(a.Request) {
			return
		}
		fetch(e, s, searchLane,
			func(ctx context.Context) (domain.UnifiedSearchResult, error) {
				return e.api.Search(ctx, a.Query, domain.FirstPage(s.PageSize))
			},
			func(r domain.Result[domain.UnifiedSearchResult]) state.Action {
				return state.SearchCompleted{Request: a.Request, Query: a.Query, Result: r}
			})

	case state.SearchCompleted:
		// a failed query may be sent again
		if !a.Result.OK() {
			e.searchMu.Lock()
			if e.lastQuery == a.Query {
				e.lastQuery = ""
			}
			e.searchMu.Unlock()
		}

	case state.ClearSearch:
		e.resetSearch()
	}
}

// querySettled runs when typing pauses. Repeats of the last sent query
// are dropped.
func (e *Effects) querySettled(q string) {
	e.searchMu.Lock()
	if q == e.lastQuery {
		e.searchMu.Unlock()
		return
	}
	e.lastQuery = q
	e.searchMu.Unlock()

	e.background(func(ctx context.Context) {
		e.emit(ctx, state.SearchRequested{Request: state.NewRequestID(), Query: q})
	})
}

// resetSearch drops any pending keystrokes and the request in flight
func (e *Effects) resetSearch() {
	e.search.Cancel()
	e.lanes.get(searchLane).Cancel()
	e.searchMu.Lock()
	e.lastQuery = ""
	e.searchMu.Unlock()
}
