package state

import (
	"strings"

	"github.com/mmcdole/crates/internal/domain"
)

func reduceSearch(s State, a Action) State {
	switch a := a.(type) {
	case SearchQueryChanged:
		s.Search.Input = a.Query
		if strings.TrimSpace(a.Query) == "" {
			s.Search = SearchState{}
		}

	case SearchRequested:
		s.Search.Query = a.Query
		s.Search.Results = s.Search.Results.Start(a.Request)

	case SearchCompleted:
		if a.Query != s.Search.Query {
			break
		}
		s.Search.Results = s.Search.Results.Resolve(a.Request, a.Result)

	case ClearSearch:
		s.Search = SearchState{}
	}
	return s
}

// SearchResults returns the completed unified search results
func SearchResults(s State) domain.UnifiedSearchResult {
	return s.Search.Results.Value
}
