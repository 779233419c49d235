package app

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"fortio.org/log"

	"github.com/corey/occ/internal/adapters/dictfs"
	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/dictionary"
	"github.com/corey/occ/internal/ports"
)

// Import reads every dictionary file found in dir, persists it and installs
// it in the converter. Dictionaries without a file in dir are left alone.
func (a *App) Import(dir string) (socket.ReloadResult, error) {
	src, err := dictfs.New(dir)
	if err != nil {
		return socket.ReloadResult{}, err
	}
	return a.reloadFrom(src, src.Available())
}

// Reload implements socket.Service. It re-reads name from the configured
// dictionary directory, or every dictionary available there when name is
// empty. A dictionary whose file has disappeared is unloaded and deleted
// from the store.
func (a *App) Reload(name string) (socket.ReloadResult, error) {
	if a.Source == nil {
		return socket.ReloadResult{}, ErrNoDictDir
	}
	if name == "" {
		return a.reloadFrom(a.Source, a.Source.Available())
	}
	n, err := dictionary.ParseName(name)
	if err != nil {
		return socket.ReloadResult{}, err
	}
	return a.reloadFrom(a.Source, []dictionary.Name{n})
}

func (a *App) reloadFrom(src ports.DictionarySource, names []dictionary.Name) (socket.ReloadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	result := socket.ReloadResult{Reloaded: []string{}}
	for _, name := range names {
		pairs, err := a.loadOne(src, name)
		if errors.Is(err, ports.ErrDictionaryNotFound) {
			if err := a.Store.DeleteDictionary(name.String()); err != nil {
				return result, fmt.Errorf("delete %s: %w", name, err)
			}
			a.Converter.RemoveDictionary(name)
			log.S(log.Info, "dictionary removed", log.Str("name", name.String()))
			continue
		}
		if err != nil {
			return result, err
		}
		result.Reloaded = append(result.Reloaded, name.String())
		result.Pairs += pairs
	}
	result.ElapsedMs = time.Since(start).Milliseconds()
	return result, nil
}

// loadOne parses one dictionary, saves it, then swaps it into the converter.
func (a *App) loadOne(src ports.DictionarySource, name dictionary.Name) (int, error) {
	data, err := src.Load(name.String())
	if err != nil {
		return 0, err
	}
	pairs, err := dictionary.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	location := src.Location(name.String())
	if err := a.Store.SaveDictionary(name.String(), pairs, location); err != nil {
		return 0, fmt.Errorf("save %s: %w", name, err)
	}
	a.Converter.SetDictionary(name, pairs)
	log.S(log.Info, "dictionary loaded",
		log.Str("name", name.String()),
		log.Str("source", location),
		log.Attr("pairs", len(pairs)))
	return len(pairs), nil
}

// onFileChanged handles a create/modify/delete event from the watcher.
func (a *App) onFileChanged(absPath string) {
	if a.Source == nil {
		return
	}
	name, ok := a.Source.NameForPath(absPath)
	if !ok {
		log.LogVf("ignoring change to %s", absPath)
		return
	}
	if _, err := a.Reload(name.String()); err != nil {
		log.Errf("reload %s: %v", name, err)
	}
}
