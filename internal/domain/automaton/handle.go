package automaton

// Handle is a read-only reference to a trie node. It stays valid until the
// node is pruned by Remove or dropped by Clear; after that it is detached.
// Structural reads that rely on it being current (Depth, Failure) fail with
// ErrDetachedNode on a detached handle.
type Handle[K comparable, V any] struct {
	a      *Automaton[K, V]
	id     nodeID
	serial uint64
}

// Root returns a handle to the root node. The root is always attached.
func (a *Automaton[K, V]) Root() Handle[K, V] {
	return a.handle(rootID)
}

// Lookup returns a handle to the node for seq, whether or not seq is a
// stored sequence itself. An empty sequence yields the root.
func (a *Automaton[K, V]) Lookup(seq []K) (Handle[K, V], bool) {
	id, ok := a.walk(seq)
	if !ok {
		return Handle[K, V]{}, false
	}
	return a.handle(id), true
}

func (a *Automaton[K, V]) handle(id nodeID) Handle[K, V] {
	return Handle[K, V]{a: a, id: id, serial: a.nodes[id].serial}
}

// Attached reports whether the node is still part of the trie.
func (h Handle[K, V]) Attached() bool {
	if h.a == nil || h.serial == 0 || int(h.id) >= len(h.a.nodes) {
		return false
	}
	n := &h.a.nodes[h.id]
	return n.live() && n.serial == h.serial
}

func (h Handle[K, V]) node() (*node[K, V], bool) {
	if !h.Attached() {
		return nil, false
	}
	return &h.a.nodes[h.id], true
}

// Key returns the symbol on the edge from the parent. The root's key is the
// zero value.
func (h Handle[K, V]) Key() K {
	if n, ok := h.node(); ok {
		return n.key
	}
	var zero K
	return zero
}

// IsRoot reports whether h is the root of its automaton.
func (h Handle[K, V]) IsRoot() bool {
	return h.Attached() && h.id == rootID
}

// IsTip reports whether a stored sequence ends at this node.
func (h Handle[K, V]) IsTip() bool {
	n, ok := h.node()
	return ok && n.isTip
}

// Value returns the stored value when the node is a tip.
func (h Handle[K, V]) Value() (V, bool) {
	n, ok := h.node()
	if !ok || !n.isTip {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Parent returns the parent handle. The root and detached handles have none.
func (h Handle[K, V]) Parent() (Handle[K, V], bool) {
	n, ok := h.node()
	if !ok || n.parent == noNode {
		return Handle[K, V]{}, false
	}
	return h.a.handle(n.parent), true
}

// Child returns the child reached by symbol k.
func (h Handle[K, V]) Child(k K) (Handle[K, V], bool) {
	if !h.Attached() {
		return Handle[K, V]{}, false
	}
	c, ok := h.a.child(h.id, h.a.normalize(k))
	if !ok {
		return Handle[K, V]{}, false
	}
	return h.a.handle(c), true
}

// Children returns handles to all children, in unspecified order.
func (h Handle[K, V]) Children() []Handle[K, V] {
	n, ok := h.node()
	if !ok {
		return nil
	}
	out := make([]Handle[K, V], 0, len(n.children))
	for _, c := range n.children {
		out = append(out, h.a.handle(c))
	}
	return out
}

// Depth returns the length of the node's path from the root.
func (h Handle[K, V]) Depth() (int, error) {
	n, ok := h.node()
	if !ok {
		return 0, ErrDetachedNode
	}
	return n.depth, nil
}

// Failure returns the node of the longest proper suffix of this node's path
// that is also in the trie. Failure links are rebuilt first if stale.
func (h Handle[K, V]) Failure() (Handle[K, V], error) {
	if !h.Attached() {
		return Handle[K, V]{}, ErrDetachedNode
	}
	h.a.ensureBuilt()
	return h.a.handle(h.a.nodes[h.id].failure), nil
}
