package state

import "github.com/mmcdole/crates/internal/domain"

func reduceCrates(s State, a Action) State {
	switch a := a.(type) {
	case LoadCrates:
		s.Crates.List = beginPage(s.Crates.List, a.Request, a.Mode)
		if s.Crates.List.Accepts(a.Request) {
			s.Crates.Search = a.Search
		}

	case CratesLoaded:
		s.Crates.List = resolvePage(s.Crates.List, a.Request, a.Mode, crateKey, a.Result)

	case LoadCrate:
		s.Crates.Detail = s.Crates.Detail.Start(a.Request)

	case CrateLoaded:
		s.Crates.Detail = s.Crates.Detail.Resolve(a.Request, a.Result)
		if a.Result.OK() {
			s = upsertOwnCrate(s, a.Result.Value)
		}

	case CreateCrate:
		s.Crates.Mutation = s.Crates.Mutation.Begin()

	case CrateCreated:
		s.Crates.Mutation = s.Crates.Mutation.End(a.Result.Err)
		if a.Result.OK() {
			s.Crates.List.Value.Items = s.Crates.List.Value.Items.Prepend(crateKey, []domain.Crate{a.Result.Value})
		}

	case UpdateCrate, AddAlbumsToCrate, RemoveAlbumFromCrate:
		s.Crates.Mutation = s.Crates.Mutation.Begin()

	case CrateUpdated:
		s.Crates.Mutation = s.Crates.Mutation.End(a.Result.Err)
		if a.Result.OK() {
			s = upsertOwnCrate(s, a.Result.Value)
		}

	case AlbumsAddedToCrate:
		s.Crates.Mutation = s.Crates.Mutation.End(a.Result.Err)
		if a.Result.OK() {
			s = upsertOwnCrate(s, a.Result.Value)
		}

	case AlbumRemovedFromCrate:
		s.Crates.Mutation = s.Crates.Mutation.End(a.Result.Err)
		if a.Result.OK() {
			s = upsertOwnCrate(s, a.Result.Value)
			if albums, ok := s.Crates.Albums[a.CrateID]; ok {
				albums.Value.Items = albums.Value.Items.Remove(a.AlbumID)
				s.Crates.Albums = withKey(s.Crates.Albums, a.CrateID, albums)
			}
		}

	case LoadCrateAlbums:
		albums, ok := s.Crates.Albums[a.CrateID]
		if !ok {
			albums = NewPagedList[int64, domain.Album](s.PageSize)
		}
		s.Crates.Albums = withKey(s.Crates.Albums, a.CrateID, beginPage(albums, a.Request, a.Mode))

	case CrateAlbumsLoaded:
		albums, ok := s.Crates.Albums[a.CrateID]
		if !ok {
			break
		}
		s.Crates.Albums = withKey(s.Crates.Albums, a.CrateID, resolvePage(albums, a.Request, a.Mode, albumKey, a.Result))
	}
	return s
}

// upsertOwnCrate stores a server copy of a crate. It joins the user's own
// list only when it belongs to the user; every listing that already shows
// it is refreshed.
func upsertOwnCrate(s State, c domain.Crate) State {
	me := s.Session.User.Value.ID
	if s.Crates.List.Value.Items.Has(c.ID) || (me != 0 && c.OwnedBy(me)) {
		s.Crates.List.Value.Items = s.Crates.List.Value.Items.Upsert(crateKey, c)
	}
	return updateCrateEverywhere(s, c.ID, func(domain.Crate) domain.Crate { return c })
}
