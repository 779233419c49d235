// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the occ daemon: create, start, stop.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/log"

	"github.com/corey/occ/internal/adapters/ahocorasick"
	"github.com/corey/occ/internal/adapters/bbolt"
	"github.com/corey/occ/internal/adapters/dictfs"
	fsw "github.com/corey/occ/internal/adapters/fsnotify"
	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/convert"
	"github.com/corey/occ/internal/domain/dictionary"
	"github.com/corey/occ/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	Store     ports.DictionaryStore
	Watcher   ports.Watcher
	Source    *dictfs.Source // nil when no dictionary directory is configured
	Converter *convert.Converter
	Server    *socket.Server

	// newMatcher builds the term matcher used by Scan.
	newMatcher func() ports.PatternMatcher

	closeStore func() error
	mu         sync.Mutex // serializes imports and reloads
	dbPath     string
	warm       []convert.Conversion
	started    time.Time
}

// Config holds initialization parameters for the App.
type Config struct {
	DBPath     string               // path to bbolt file (default: ~/.occ/occ.db)
	DictDir    string               // dictionary text directory; optional
	SocketPath string               // default: derived from DBPath
	Warm       []convert.Conversion // stages built by Start before serving
}

// New creates an App with all dependencies wired. Does not start services.
//
// Dictionaries already in the store are loaded into the converter. When the
// store is empty and DictDir is set, the directory is imported first.
func New(cfg Config) (*App, error) {
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("db path required: %w", err)
		}
		cfg.DBPath = NewPaths(home).DB
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = socket.SocketPath(cfg.DBPath)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	watcher, err := fsw.NewWatcher()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	a := &App{
		Store:      store,
		Watcher:    watcher,
		Converter:  convert.NewConverter(),
		newMatcher: func() ports.PatternMatcher { return ahocorasick.NewMatcher(false) },
		closeStore: store.Close,
		dbPath:     cfg.DBPath,
		warm:       cfg.Warm,
	}

	if cfg.DictDir != "" {
		src, err := dictfs.New(cfg.DictDir)
		if err != nil {
			a.abort()
			return nil, err
		}
		a.Source = src
	}

	n, err := a.loadStored()
	if err != nil {
		a.abort()
		return nil, fmt.Errorf("load dictionaries: %w", err)
	}
	if n == 0 && a.Source != nil {
		if _, err := a.Reload(""); err != nil {
			a.abort()
			return nil, fmt.Errorf("import %s: %w", a.Source.Dir, err)
		}
	}

	a.Server = socket.NewServer(a, cfg.SocketPath)
	return a, nil
}

func (a *App) abort() {
	_ = a.Close()
}

// loadStored copies every stored dictionary into the converter.
func (a *App) loadStored() (int, error) {
	infos, err := a.Store.ListDictionaries()
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, info := range infos {
		name, err := dictionary.ParseName(info.Name)
		if err != nil {
			log.Warnf("Skipping stored dictionary %q: %v", info.Name, err)
			continue
		}
		pairs, err := a.Store.LoadDictionary(info.Name)
		if err != nil {
			return loaded, err
		}
		a.Converter.SetDictionary(name, pairs)
		loaded++
	}
	log.LogVf("loaded %d dictionaries from %s", loaded, a.dbPath)
	return loaded, nil
}

// Start begins the daemon (socket server + dictionary watcher).
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Converter.Warm(a.warm...); err != nil {
		return fmt.Errorf("warm: %w", err)
	}
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	// Start dictionary watcher, non-fatal if setup fails
	if a.Source != nil {
		if err := a.Watcher.Watch(a.Source.Dir, a.onFileChanged); err != nil {
			log.Warnf("dictionary watcher unavailable: %v", err)
		}
	}
	log.S(log.Info, "occ daemon started",
		log.Str("db", a.dbPath),
		log.Str("socket", a.Server.Addr()),
		log.Attr("dictionaries", len(a.Converter.Dictionaries())))
	return nil
}

// Stop gracefully shuts down all services and closes the store.
func (a *App) Stop() error {
	if !a.started.IsZero() {
		a.Server.Stop()
	}
	return a.Close()
}

// Close releases the watcher and the store without touching the socket.
// Use it for an App that was never started.
func (a *App) Close() error {
	a.Watcher.Stop()
	return a.closeStore()
}

// Convert implements socket.Service.
func (a *App) Convert(params socket.ConvertParams) (socket.ConvertResult, error) {
	conv, err := convert.ParseConversion(params.Conversion)
	if err != nil {
		return socket.ConvertResult{}, err
	}
	out, err := a.Converter.Convert(conv, params.Text)
	if err != nil {
		return socket.ConvertResult{}, err
	}
	return socket.ConvertResult{Text: out, Changed: out != params.Text}, nil
}

// Health implements socket.Service.
func (a *App) Health() socket.HealthResult {
	dicts := a.Converter.Dictionaries()
	pairs := 0
	for _, n := range dicts {
		pairs += n
	}
	return socket.HealthResult{
		Status:       "ok",
		Dictionaries: len(dicts),
		Pairs:        pairs,
		Stages:       len(a.Converter.Built()),
	}
}

// Dictionaries implements socket.Service. Every known dictionary is listed,
// loaded or not, in dictionary.Names order.
func (a *App) Dictionaries() (socket.DictionariesResult, error) {
	infos, err := a.Store.ListDictionaries()
	if err != nil {
		return socket.DictionariesResult{}, err
	}
	stored := make(map[string]ports.DictionaryInfo, len(infos))
	for _, info := range infos {
		stored[info.Name] = info
	}
	loaded := a.Converter.Dictionaries()

	var out []socket.DictionaryInfo
	for _, name := range dictionary.Names() {
		d := socket.DictionaryInfo{Name: name.String()}
		if n, ok := loaded[name]; ok {
			d.Loaded = true
			d.Pairs = n
		}
		if info, ok := stored[name.String()]; ok {
			d.Source = info.Source
			d.UpdatedAt = info.UpdatedAt
		}
		out = append(out, d)
	}
	return socket.DictionariesResult{Dictionaries: out, Count: len(out)}, nil
}

// ErrNoDictDir is returned by Reload when the App has no dictionary directory.
var ErrNoDictDir = errors.New("no dictionary directory configured")
