package domain

// SnapshotStore is the local warm-start cache (BoltDB + memory).
// It holds the last pages seen so the client can render before the
// first network round-trip completes. It is never authoritative.
type SnapshotStore interface {
	// === Signed-in user ===
	GetUser() (User, bool)
	SaveUser(u User) error

	// === Crates ===
	GetCrates() ([]Crate, bool)
	SaveCrates(crates []Crate) error

	// === Library ===
	GetLibraryAlbums() ([]Album, bool)
	SaveLibraryAlbums(albums []Album) error

	// === Crate albums ===
	GetCrateAlbums(crateID int64) ([]Album, bool)
	SaveCrateAlbums(crateID int64, albums []Album) error

	// === Invalidation ===
	InvalidateCrate(crateID int64)
	InvalidateAll()

	Close() error
}
