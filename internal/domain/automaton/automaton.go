// Package automaton implements a mutable Aho-Corasick automaton over sequences
// of comparable symbols.
//
// Sequences can be inserted and removed at any time. Failure links are
// rebuilt lazily: mutations only mark the automaton dirty, and the next read
// that needs failure links (Scan, Search, SearchForReplace, handle Failure)
// rebuilds them once for the whole batch. Lookups and Range walk the trie
// edges only and never rebuild.
//
// An Automaton is not safe for concurrent mutation. A clean automaton (see
// Dirty) is never written by read paths, so it may be scanned from several
// goroutines once Rebuild has been called.
package automaton

// Option configures an Automaton at construction time.
type Option[K comparable] func(*options[K])

type options[K comparable] struct {
	normalize func(K) K
}

// WithNormalizer sets the symbol equality used by every node: two symbols are
// equal when their normalized forms compare equal. Stored keys keep their
// normalized form. The function is fixed for the automaton's lifetime.
func WithNormalizer[K comparable](fn func(K) K) Option[K] {
	return func(o *options[K]) {
		o.normalize = fn
	}
}

// Automaton is a trie of symbol sequences with Aho-Corasick failure links.
// The zero value is not usable; create one with New.
type Automaton[K comparable, V any] struct {
	nodes []node[K, V] // arena; nodes[rootID] is the root
	free  []nodeID

	count   int
	version uint64
	dirty   bool
	serial  uint64

	norm func(K) K
}

// New creates an empty automaton.
func New[K comparable, V any](opts ...Option[K]) *Automaton[K, V] {
	var o options[K]
	for _, opt := range opts {
		opt(&o)
	}
	a := &Automaton[K, V]{norm: o.normalize, serial: 1}
	a.reset(a.serial)
	return a
}

// reset leaves a lone root carrying rootSerial, so root handles survive Clear.
func (a *Automaton[K, V]) reset(rootSerial uint64) {
	a.nodes = append(a.nodes[:0], node[K, V]{
		parent:  noNode,
		failure: rootID,
		serial:  rootSerial,
	})
	a.free = a.free[:0]
	a.count = 0
	a.dirty = false
}

func (a *Automaton[K, V]) normalize(k K) K {
	if a.norm == nil {
		return k
	}
	return a.norm(k)
}

// Count returns the number of stored sequences.
func (a *Automaton[K, V]) Count() int {
	return a.count
}

// Version returns the mutation counter. It increases on every Insert,
// InsertOrReplace, Remove that deleted something, and Clear.
func (a *Automaton[K, V]) Version() uint64 {
	return a.version
}

// Dirty reports whether failure links may be stale.
func (a *Automaton[K, V]) Dirty() bool {
	return a.dirty
}

// Insert stores seq with value v. It returns ErrDuplicateKey, leaving the
// automaton untouched, when seq is already present.
func (a *Automaton[K, V]) Insert(seq []K, v V) error {
	_, _, err := a.insert(seq, v, false)
	return err
}

// InsertOrReplace stores seq with value v, overwriting any existing value.
// It returns the previous value and whether one existed.
func (a *Automaton[K, V]) InsertOrReplace(seq []K, v V) (prev V, replaced bool, err error) {
	return a.insert(seq, v, true)
}

func (a *Automaton[K, V]) insert(seq []K, v V, replace bool) (prev V, replaced bool, err error) {
	if len(seq) == 0 {
		return prev, false, ErrEmptySequence
	}
	// Check for a duplicate before creating edges so a rejected insert
	// leaves no trace.
	if !replace {
		if id, ok := a.walk(seq); ok && a.nodes[id].isTip {
			return prev, false, ErrDuplicateKey
		}
	}
	cur := rootID
	for _, k := range seq {
		cur = a.addOrCreateChild(cur, a.normalize(k))
	}
	n := &a.nodes[cur]
	if n.isTip {
		prev, replaced = n.value, true
	} else {
		a.count++
	}
	n.setValue(v)
	a.dirty = true
	a.version++
	return prev, replaced, nil
}

// Remove deletes seq. It reports false, without mutating anything, when seq
// is not stored. Nodes left without children and without a value are pruned
// back towards the root.
func (a *Automaton[K, V]) Remove(seq []K) (bool, error) {
	if len(seq) == 0 {
		return false, ErrEmptySequence
	}
	cur, ok := a.walk(seq)
	if !ok || !a.nodes[cur].isTip {
		return false, nil
	}
	a.nodes[cur].clearTip()
	a.count--
	for cur != rootID {
		n := &a.nodes[cur]
		if n.isTip || len(n.children) > 0 {
			break
		}
		parent, key := n.parent, n.key
		a.removeChild(parent, key)
		cur = parent
	}
	a.dirty = true
	a.version++
	return true, nil
}

// Contains reports whether seq is stored. An empty sequence is never stored.
func (a *Automaton[K, V]) Contains(seq []K) bool {
	_, ok := a.Get(seq)
	return ok
}

// Get returns the value stored for seq. It never rebuilds failure links.
func (a *Automaton[K, V]) Get(seq []K) (V, bool) {
	var zero V
	if len(seq) == 0 {
		return zero, false
	}
	id, ok := a.walk(seq)
	if !ok || !a.nodes[id].isTip {
		return zero, false
	}
	return a.nodes[id].value, true
}

// Clear removes every sequence. Handles to nodes other than the root that
// were obtained before Clear are detached.
func (a *Automaton[K, V]) Clear() {
	rootSerial := a.nodes[rootID].serial
	clear(a.nodes)
	a.reset(rootSerial)
	a.version++
}
