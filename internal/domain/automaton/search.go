package automaton

import (
	"fmt"
	"iter"
)

// Match is one occurrence of a stored sequence in a scanned input.
// [Start, End) indexes the input; End-Start is the stored sequence length.
type Match[V any] struct {
	Start int
	End   int
	Value V
}

// Len returns the number of symbols covered by the match.
func (m Match[V]) Len() int {
	return m.End - m.Start
}

// Scanner streams every match of the automaton over one input.
// For each input position it yields all sequences ending there, longest
// first. Use it like bufio.Scanner:
//
//	s := a.Scan(input)
//	for s.Next() {
//		m := s.Match()
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner[K comparable, V any] struct {
	a       *Automaton[K, V]
	input   []K
	version uint64

	pos   int    // number of input symbols consumed
	state nodeID // current automaton state
	chain nodeID // next node of the failure chain to report, rootID when done

	match Match[V]
	err   error
}

// Scan starts a scan of input, rebuilding failure links first if needed.
// Mutating the automaton before the scan is exhausted makes Next stop and
// Err return ErrConcurrentModification.
func (a *Automaton[K, V]) Scan(input []K) *Scanner[K, V] {
	a.ensureBuilt()
	return &Scanner[K, V]{
		a:       a,
		input:   input,
		version: a.version,
		state:   rootID,
		chain:   rootID,
	}
}

// Next advances to the next match. It returns false when the input is
// exhausted or an error occurred.
func (s *Scanner[K, V]) Next() bool {
	if s.err != nil {
		return false
	}
	if s.a.version != s.version {
		s.err = ErrConcurrentModification
		return false
	}
	nodes := s.a.nodes
	for {
		for s.chain != rootID {
			n := &nodes[s.chain]
			s.chain = n.failure
			if n.isTip {
				s.match = Match[V]{Start: s.pos - n.depth, End: s.pos, Value: n.value}
				return true
			}
		}
		if s.pos >= len(s.input) {
			return false
		}
		s.state = s.a.step(s.state, s.a.normalize(s.input[s.pos]))
		s.pos++
		s.chain = s.state
	}
}

// Match returns the match found by the last successful Next.
func (s *Scanner[K, V]) Match() Match[V] {
	return s.match
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner[K, V]) Err() error {
	return s.err
}

// step performs one automaton transition on an already normalized symbol.
func (a *Automaton[K, V]) step(state nodeID, k K) nodeID {
	for {
		if next, ok := a.child(state, k); ok {
			return next
		}
		if state == rootID {
			return rootID
		}
		state = a.nodes[state].failure
	}
}

// Search returns a single-use sequence of every match in input, in scan
// order. The automaton must not be mutated while the sequence is being
// consumed; doing so panics with ErrConcurrentModification.
func (a *Automaton[K, V]) Search(input []K) iter.Seq[Match[V]] {
	return func(yield func(Match[V]) bool) {
		s := a.Scan(input)
		for s.Next() {
			if !yield(s.Match()) {
				return
			}
		}
		if err := s.Err(); err != nil {
			panic(fmt.Errorf("search: %w", err))
		}
	}
}

// FindAll collects every match in input.
func (a *Automaton[K, V]) FindAll(input []K) []Match[V] {
	var out []Match[V]
	for m := range a.Search(input) {
		out = append(out, m)
	}
	return out
}
