package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/crates/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketUser    = []byte("user")
	bucketCrates  = []byte("crates")
	bucketLibrary = []byte("library")
	bucketAlbums  = []byte("crate_albums")

	allBuckets = [][]byte{bucketUser, bucketCrates, bucketLibrary, bucketAlbums}
)

// SnapshotStore implements domain.SnapshotStore using BoltDB with an
// in-memory layer in front of it
type SnapshotStore struct {
	db *bolt.DB
	mu sync.RWMutex // protects memory

	// hot-path reads, promoted on access
	memory map[string][]byte
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)

// Open opens the cache for serverURL under baseDir. Each server gets its
// own database file. An empty baseDir gives a memory-only store.
func Open(baseDir, serverURL string) (*SnapshotStore, error) {
	if baseDir == "" {
		return &SnapshotStore{memory: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "crates.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, memory: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func memoryKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *SnapshotStore) get(bucket []byte, key string, dest interface{}) bool {
	mk := memoryKey(bucket, key)

	s.mu.RLock()
	if data, ok := s.memory[mk]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	s.mu.Lock()
	s.memory[mk] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *SnapshotStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.memory[memoryKey(bucket, key)] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *SnapshotStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.memory, memoryKey(bucket, key))
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// === Signed-in user ===

func (s *SnapshotStore) GetUser() (domain.User, bool) {
	var u domain.User
	ok := s.get(bucketUser, "current", &u)
	return u, ok
}

func (s *SnapshotStore) SaveUser(u domain.User) error {
	return s.set(bucketUser, "current", u)
}

// === Crates (first page of the user's own crates) ===

func (s *SnapshotStore) GetCrates() ([]domain.Crate, bool) {
	var crates []domain.Crate
	ok := s.get(bucketCrates, "list", &crates)
	return crates, ok
}

func (s *SnapshotStore) SaveCrates(crates []domain.Crate) error {
	return s.set(bucketCrates, "list", crates)
}

// === Library (first unfiltered page of albums) ===

func (s *SnapshotStore) GetLibraryAlbums() ([]domain.Album, bool) {
	var albums []domain.Album
	ok := s.get(bucketLibrary, "albums", &albums)
	return albums, ok
}

func (s *SnapshotStore) SaveLibraryAlbums(albums []domain.Album) error {
	return s.set(bucketLibrary, "albums", albums)
}

// === Crate albums (key: crate:{id}) ===

func crateKey(crateID int64) string {
	return fmt.Sprintf("crate:%d", crateID)
}

func (s *SnapshotStore) GetCrateAlbums(crateID int64) ([]domain.Album, bool) {
	var albums []domain.Album
	ok := s.get(bucketAlbums, crateKey(crateID), &albums)
	return albums, ok
}

func (s *SnapshotStore) SaveCrateAlbums(crateID int64, albums []domain.Album) error {
	return s.set(bucketAlbums, crateKey(crateID), albums)
}

// === Invalidation ===

// InvalidateCrate drops a crate's albums and the crate list that shows it
func (s *SnapshotStore) InvalidateCrate(crateID int64) {
	s.delete(bucketAlbums, crateKey(crateID))
	s.delete(bucketCrates, "list")
}

// InvalidateAll wipes every bucket. Called on sign-out.
func (s *SnapshotStore) InvalidateAll() {
	s.mu.Lock()
	s.memory = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			b := tx.Bucket(bucket)
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
