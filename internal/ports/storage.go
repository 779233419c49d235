// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"errors"
	"time"
)

// ErrDictionaryNotFound is returned by a DictionarySource when it has no data
// for the requested dictionary.
var ErrDictionaryNotFound = errors.New("dictionary not found")

// Pair is one substitution record of a dictionary: Primary is the key on the
// left of the tab, Variant one of the space-separated values on the right.
type Pair struct {
	Primary string
	Variant string
}

// DictionaryInfo summarizes a stored dictionary.
type DictionaryInfo struct {
	Name      string    `json:"name"`
	Pairs     int       `json:"pairs"`
	Source    string    `json:"source"`     // file path or "import" origin
	UpdatedAt time.Time `json:"updated_at"` // when the pairs were last saved
}

// DictionaryStore persists parsed dictionaries so the converter can start
// without re-reading and re-parsing the text files.
//
// Crash safety: SaveDictionary must be transactional. A crash mid-write must
// not corrupt previously committed data.
type DictionaryStore interface {
	// SaveDictionary replaces all pairs stored under name.
	SaveDictionary(name string, pairs []Pair, source string) error

	// LoadDictionary returns the pairs stored under name, in insertion order.
	// Returns nil, nil if the dictionary was never saved.
	LoadDictionary(name string) ([]Pair, error)

	// ListDictionaries returns a summary of every stored dictionary, sorted by name.
	ListDictionaries() ([]DictionaryInfo, error)

	// DeleteDictionary removes a dictionary.
	// Idempotent: deleting a nonexistent dictionary is not an error.
	DeleteDictionary(name string) error
}

// DictionarySource reads raw dictionary text (one "key<TAB>v1 v2" record per
// line) from wherever dictionaries are shipped.
type DictionarySource interface {
	// Load returns the raw text of the named dictionary, or
	// ErrDictionaryNotFound when the source has none.
	Load(name string) ([]byte, error)

	// Location describes where name is read from (e.g., a file path).
	Location(name string) string
}
