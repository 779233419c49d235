// Package bbolt implements ports.DictionaryStore using bbolt (embedded B+ tree).
// Every dictionary gets its own sub-bucket under "dictionaries" holding a
// binary pair blob and a JSON meta record. Writes are transactional, so a
// crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corey/occ/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketDictionaries = []byte("dictionaries")
	keyPairs           = []byte("pairs")
	keyMeta            = []byte("meta")
)

// Store implements ports.DictionaryStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// metaJSON is the stored summary; the name is the bucket key.
type metaJSON struct {
	Pairs     int       `json:"pairs"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveDictionary replaces all pairs stored under name.
func (s *Store) SaveDictionary(name string, pairs []ports.Pair, source string) error {
	if name == "" {
		return fmt.Errorf("empty dictionary name")
	}
	blob, err := encodePairs(pairs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	meta, err := json.Marshal(metaJSON{
		Pairs:     len(pairs),
		Source:    source,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketDictionaries)
		if err != nil {
			return err
		}
		db, err := root.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if err := db.Put(keyPairs, blob); err != nil {
			return err
		}
		return db.Put(keyMeta, meta)
	})
}

// LoadDictionary retrieves the pairs stored under name.
// Returns nil, nil if the dictionary was never saved.
func (s *Store) LoadDictionary(name string) ([]ports.Pair, error) {
	var blob []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		db := dictBucket(tx, name)
		if db == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := db.Get(keyPairs); v != nil {
			blob = make([]byte, len(v))
			copy(blob, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	pairs, err := decodePairs(blob)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return pairs, nil
}

// ListDictionaries returns every stored dictionary, sorted by name
// (bbolt iterates keys in byte order).
func (s *Store) ListDictionaries() ([]ports.DictionaryInfo, error) {
	var out []ports.DictionaryInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketDictionaries)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			info := ports.DictionaryInfo{Name: string(k)}
			if v := root.Bucket(k).Get(keyMeta); v != nil {
				var m metaJSON
				if err := json.Unmarshal(v, &m); err != nil {
					return fmt.Errorf("unmarshal meta %s: %w", k, err)
				}
				info.Pairs, info.Source, info.UpdatedAt = m.Pairs, m.Source, m.UpdatedAt
			}
			out = append(out, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDictionary removes a dictionary.
// Idempotent: deleting a nonexistent dictionary is not an error.
func (s *Store) DeleteDictionary(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketDictionaries)
		if root == nil {
			return nil
		}
		err := root.DeleteBucket([]byte(name))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		}
		return err
	})
}

func dictBucket(tx *bolt.Tx, name string) *bolt.Bucket {
	root := tx.Bucket(bucketDictionaries)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(name))
}
