// Package ahocorasick provides multi-pattern keyword matching.
// Matcher implements ports.PatternMatcher on the incremental automaton from
// internal/domain/automaton, so keywords can be added and removed without a
// full rebuild.
package ahocorasick

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/corey/occ/internal/domain/automaton"
	"github.com/corey/occ/internal/ports"
)

var _ ports.PatternMatcher = (*Matcher)(nil)

// ErrEmptyKeyword is returned when a keyword set contains "".
var ErrEmptyKeyword = errors.New("empty keyword")

// Matcher finds keywords in content. Safe for concurrent use.
type Matcher struct {
	mu   sync.RWMutex
	fold bool
	a    *automaton.Automaton[rune, string]
}

// NewMatcher returns an empty matcher. With foldCase, keywords match
// regardless of letter case and Match reports them lower-cased.
func NewMatcher(foldCase bool) *Matcher {
	m := &Matcher{fold: foldCase}
	m.a = m.newAutomaton()
	return m
}

func (m *Matcher) newAutomaton() *automaton.Automaton[rune, string] {
	if m.fold {
		return automaton.New[rune, string](automaton.WithNormalizer(unicode.ToLower))
	}
	return automaton.New[rune, string]()
}

func (m *Matcher) canonical(kw string) string {
	if m.fold {
		return strings.Map(unicode.ToLower, kw)
	}
	return kw
}

// Build compiles the automaton from the given keywords. Duplicates collapse.
func (m *Matcher) Build(keywords []string) error {
	a := m.newAutomaton()
	for _, kw := range keywords {
		if kw == "" {
			return ErrEmptyKeyword
		}
		if _, _, err := a.InsertOrReplace([]rune(kw), m.canonical(kw)); err != nil {
			return fmt.Errorf("keyword %q: %w", kw, err)
		}
	}
	a.Rebuild()

	m.mu.Lock()
	m.a = a
	m.mu.Unlock()
	return nil
}

// Rebuild replaces the keyword set. On error the previous set stays active.
func (m *Matcher) Rebuild(keywords []string) error {
	return m.Build(keywords)
}

// Add inserts one keyword. It reports false when the keyword was already present.
func (m *Matcher) Add(kw string) (bool, error) {
	if kw == "" {
		return false, ErrEmptyKeyword
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.a.Insert([]rune(kw), m.canonical(kw))
	if errors.Is(err, automaton.ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	m.a.Rebuild()
	return true, nil
}

// Remove deletes one keyword. It reports false when it was not present.
func (m *Matcher) Remove(kw string) bool {
	if kw == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ok, _ := m.a.Remove([]rune(kw))
	if ok {
		m.a.Rebuild()
	}
	return ok
}

// Len returns the number of distinct keywords.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.a.Count()
}

// Match returns the distinct keywords found in content, in order of first
// occurrence (by match end, longest first at equal ends).
func (m *Matcher) Match(content string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.a.Count() == 0 || content == "" {
		return nil
	}

	// Deduplicate by keyword
	seen := make(map[string]bool)
	var result []string
	for hit := range m.a.Search([]rune(content)) {
		if !seen[hit.Value] {
			seen[hit.Value] = true
			result = append(result, hit.Value)
		}
	}
	return result
}
