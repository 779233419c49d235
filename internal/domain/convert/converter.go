package convert

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/corey/occ/internal/domain/dictionary"
	"github.com/corey/occ/internal/domain/replacer"
	"github.com/corey/occ/internal/ports"
)

// Converter holds loaded dictionaries and the stage automata built from them.
// Stages are built on first use and dropped when a dictionary they read
// changes. Safe for concurrent use.
type Converter struct {
	mu     sync.RWMutex
	dicts  map[dictionary.Name][]ports.Pair
	stages map[Stage]*replacer.Automaton
	gen    [numStages]uint64 // bumped when a stage is invalidated

	builds singleflight.Group
	pool   sync.Pool
}

// NewConverter returns a Converter with no dictionaries loaded.
func NewConverter() *Converter {
	return &Converter{
		dicts:  make(map[dictionary.Name][]ports.Pair),
		stages: make(map[Stage]*replacer.Automaton),
		pool: sync.Pool{
			New: func() any { return replacer.New("") },
		},
	}
}

// SetDictionary installs pairs under name, replacing any previous content.
// Built stages that read name are discarded. The slice is not copied.
func (c *Converter) SetDictionary(name dictionary.Name, pairs []ports.Pair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dicts[name] = pairs
	c.invalidate(name)
}

// RemoveDictionary unloads name. Stages that read it are rebuilt without it.
func (c *Converter) RemoveDictionary(name dictionary.Name) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dicts[name]; !ok {
		return
	}
	delete(c.dicts, name)
	c.invalidate(name)
}

func (c *Converter) invalidate(name dictionary.Name) {
	for s := range c.stages {
		if s.Uses(name) {
			delete(c.stages, s)
		}
	}
	for s := range numStages {
		if s.Uses(name) {
			c.gen[s]++
		}
	}
}

// Dictionaries lists loaded dictionaries and their pair counts.
func (c *Converter) Dictionaries() map[dictionary.Name]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[dictionary.Name]int, len(c.dicts))
	for n, p := range c.dicts {
		out[n] = len(p)
	}
	return out
}

// Missing lists the dictionaries conv reads that are not loaded.
func (c *Converter) Missing(conv Conversion) []dictionary.Name {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []dictionary.Name
	for _, n := range conv.Dictionaries() {
		if _, ok := c.dicts[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Stage returns the automaton for s, building it if needed. The returned
// automaton is rebuilt and must not be mutated.
//
// Builds run outside the lock, one per stage at a time. A build that races
// with SetDictionary is returned to its callers but not cached.
func (c *Converter) Stage(s Stage) (*replacer.Automaton, error) {
	if !s.valid() {
		return nil, fmt.Errorf("stage %d out of range", int(s))
	}
	c.mu.RLock()
	a, ok := c.stages[s]
	c.mu.RUnlock()
	if ok {
		return a, nil
	}

	v, _, _ := c.builds.Do(s.String(), func() (any, error) {
		c.mu.RLock()
		if a, ok := c.stages[s]; ok {
			c.mu.RUnlock()
			return a, nil
		}
		gen := c.gen[s]
		entries := stageEntries[s]
		dicts := make(map[dictionary.Name][]ports.Pair, len(entries))
		for _, e := range entries {
			if p, ok := c.dicts[e.Name]; ok {
				dicts[e.Name] = p
			}
		}
		c.mu.RUnlock()

		a := Build(dicts, entries...)

		c.mu.Lock()
		if c.gen[s] == gen {
			c.stages[s] = a
		}
		c.mu.Unlock()
		return a, nil
	})
	return v.(*replacer.Automaton), nil
}

// Built lists the stages currently cached.
func (c *Converter) Built() []Stage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Stage, 0, len(c.stages))
	for s := range c.stages {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Warm builds every stage the given conversions need, in parallel.
func (c *Converter) Warm(convs ...Conversion) error {
	var need []Stage
	for _, conv := range convs {
		if !conv.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownConversion, string(conv))
		}
		for _, s := range conversions[conv].stages {
			if !slices.Contains(need, s) {
				need = append(need, s)
			}
		}
	}
	var g errgroup.Group
	for _, s := range need {
		g.Go(func() error {
			_, err := c.Stage(s)
			return err
		})
	}
	return g.Wait()
}

// Convert runs text through the stage chain of conv.
func (c *Converter) Convert(conv Conversion, text string) (string, error) {
	def, ok := conversions[conv]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownConversion, string(conv))
	}
	if text == "" {
		return text, nil
	}
	passes := make([]*replacer.Automaton, 0, len(def.stages))
	for _, s := range def.stages {
		a, err := c.Stage(s)
		if err != nil {
			return "", err
		}
		passes = append(passes, a)
	}

	r := c.pool.Get().(*replacer.Replacer)
	defer c.pool.Put(r)
	r.Reset(text)
	for _, a := range passes {
		r.ApplyPass(a)
	}
	return r.String(), nil
}
