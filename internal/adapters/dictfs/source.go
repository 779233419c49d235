// Package dictfs implements ports.DictionarySource over a directory of
// "<Name>.txt" dictionary files.
package dictfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/corey/occ/internal/domain/dictionary"
	"github.com/corey/occ/internal/ports"
)

// Source reads dictionaries from Dir.
type Source struct {
	Dir string
}

// New returns a Source rooted at dir. The directory is resolved to an
// absolute path so watcher callbacks can be mapped back with NameForPath.
func New(dir string) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dictionary dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dictionary dir: %s is not a directory", abs)
	}
	return &Source{Dir: abs}, nil
}

// Path is the file a dictionary is read from.
func (s *Source) Path(name dictionary.Name) string {
	return filepath.Join(s.Dir, name.FileName())
}

// Location implements ports.DictionarySource.
func (s *Source) Location(name string) string {
	n, err := dictionary.ParseName(name)
	if err != nil {
		return filepath.Join(s.Dir, name)
	}
	return s.Path(n)
}

// Load implements ports.DictionarySource. A missing file yields
// ports.ErrDictionaryNotFound.
func (s *Source) Load(name string) ([]byte, error) {
	n, err := dictionary.ParseName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(n))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", n, ports.ErrDictionaryNotFound)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Available lists the known dictionaries that have a file in Dir, in
// dictionary.Names order.
func (s *Source) Available() []dictionary.Name {
	var out []dictionary.Name
	for _, n := range dictionary.Names() {
		if info, err := os.Stat(s.Path(n)); err == nil && info.Mode().IsRegular() {
			out = append(out, n)
		}
	}
	return out
}

// NameForPath maps a file path inside Dir back to its dictionary.
// It reports false for files in other directories or with unknown names.
func (s *Source) NameForPath(path string) (dictionary.Name, bool) {
	abs, err := filepath.Abs(path)
	if err != nil || filepath.Dir(abs) != s.Dir {
		return "", false
	}
	n, err := dictionary.ParseName(filepath.Base(abs))
	if err != nil {
		return "", false
	}
	return n, true
}
