package state

import "github.com/mmcdole/crates/internal/domain"

func reduceCollection(s State, a Action) State {
	switch a := a.(type) {
	case AddToCollection:
		s = toggleCollection(s, a.CrateID, func(t Toggle) Toggle { return t.Begin(a.Op, true) })
		s.Collection.Err = nil

	case RemoveFromCollection:
		s = toggleCollection(s, a.CrateID, func(t Toggle) Toggle { return t.Begin(a.Op, false) })
		s.Collection.Err = nil

	case CollectionToggled:
		if a.Result.OK() {
			s = toggleCollection(s, a.CrateID, func(t Toggle) Toggle {
				return t.Succeed(a.Op, a.Result.Value.InCollection)
			})
			s = syncMyCollection(s, a.CrateID, a.Result.Value.InCollection)
		} else {
			s = toggleCollection(s, a.CrateID, func(t Toggle) Toggle { return t.Fail(a.Op) })
			s.Collection.Err = a.Result.Err
		}

	case LoadCollectionStatus:
		s.Collection.Probes = withKey(s.Collection.Probes, a.CrateID, a.Request)

	case CollectionStatusLoaded:
		if s.Collection.Probes[a.CrateID] != a.Request {
			break
		}
		s.Collection.Probes = withoutKey(s.Collection.Probes, a.CrateID)
		if a.Result.OK() {
			t := s.Collection.Status[a.CrateID].Confirm(a.Result.Value.InCollection)
			s.Collection.Status = withKey(s.Collection.Status, a.CrateID, t)
		} else {
			s.Collection.Err = a.Result.Err
		}

	case LoadMyCollection:
		s.Collection.Mine = beginPage(s.Collection.Mine, a.Request, a.Mode)
		if s.Collection.Mine.Accepts(a.Request) {
			s.Collection.Search = a.Search
		}

	case MyCollectionLoaded:
		s.Collection.Mine = resolvePage(s.Collection.Mine, a.Request, a.Mode, crateKey, a.Result)
		if a.Result.OK() {
			for _, c := range a.Result.Value.Content {
				t := s.Collection.Status[c.ID]
				if !t.Busy() {
					s.Collection.Status = withKey(s.Collection.Status, c.ID, t.Confirm(true))
				}
			}
		}
	}
	return s
}

// toggleCollection moves a crate's collection toggle and shifts the crate's
// follower count by the change in the observable flag
func toggleCollection(s State, crateID int64, fn func(Toggle) Toggle) State {
	before := s.Collection.Status[crateID]
	after := fn(before)
	s.Collection.Status = withKey(s.Collection.Status, crateID, after)
	if d := countDelta(before, after); d != 0 {
		s = updateCrateEverywhere(s, crateID, func(c domain.Crate) domain.Crate {
			c.FollowerCount += d
			return c
		})
	}
	return s
}

// syncMyCollection keeps the saved-crate listing in step with a confirmed toggle
func syncMyCollection(s State, crateID int64, in bool) State {
	items := s.Collection.Mine.Value.Items
	if !in {
		s.Collection.Mine.Value.Items = items.Remove(crateID)
		return s
	}
	if items.Has(crateID) {
		return s
	}
	if c, ok := findCrate(s, crateID); ok {
		s.Collection.Mine.Value.Items = items.Prepend(crateKey, []domain.Crate{c})
	}
	return s
}
