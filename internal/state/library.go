package state

import "github.com/mmcdole/crates/internal/domain"

func reduceLibrary(s State, a Action) State {
	switch a := a.(type) {
	case LoadLibraryAlbums:
		s.Library.Albums = beginPage(s.Library.Albums, a.Request, a.Mode)
		if s.Library.Albums.Accepts(a.Request) {
			s.Library.Filters = a.Filters
			if a.Mode == Replace {
				s.Library.Selection = nil
			}
		}

	case LibraryAlbumsLoaded:
		s.Library.Albums = resolvePage(s.Library.Albums, a.Request, a.Mode, libraryAlbumKey, a.Result)

	case ToggleAlbumSelection:
		s.Library.Selection = toggleSelection(s.Library.Selection, a.SpotifyID)

	case ClearAlbumSelection:
		s.Library.Selection = nil

	case LoadLibrary:
		s.Library.Library = s.Library.Library.Start(a.Request)

	case LibraryLoaded:
		s.Library.Library = s.Library.Library.Resolve(a.Request, a.Result)

	case SyncLibrary:
		sync, started := s.Library.Sync.TryStart(a.Request)
		if started {
			s.Library.Sync = sync
			s.Library.Library = s.Library.Library.Update(func(l domain.Library) domain.Library {
				l.State = domain.LibraryUpdating
				return l
			})
		}

	case LibrarySynced:
		if !s.Library.Sync.Accepts(a.Request) {
			break
		}
		s.Library.Sync = s.Library.Sync.Done(a.Request, a.Result.Err)
		if a.Result.OK() {
			lib := a.Result.Value
			s.Library.Library = s.Library.Library.Update(func(domain.Library) domain.Library { return lib })
		} else {
			s.Library.Library = s.Library.Library.Update(func(l domain.Library) domain.Library {
				l.State = domain.LibraryUpdateFailed
				return l
			})
		}

	case AlbumsAddedToCrate:
		if !a.Result.OK() {
			break
		}
		ids := make([]string, 0, len(a.Albums))
		for _, album := range a.Albums {
			ids = append(ids, album.SpotifyID)
		}
		if s.Library.Filters.HideCrated {
			s.Library.Albums.Value.Items = s.Library.Albums.Value.Items.Remove(ids...)
		}
		s.Library.Selection = removeSelection(s.Library.Selection, ids)
	}
	return s
}

func toggleSelection(sel []string, id string) []string {
	out := make([]string, 0, len(sel)+1)
	found := false
	for _, s := range sel {
		if s == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

func removeSelection(sel []string, ids []string) []string {
	if len(sel) == 0 {
		return sel
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(sel))
	for _, s := range sel {
		if _, ok := drop[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
