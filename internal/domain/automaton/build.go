package automaton

// Rebuild recomputes every failure link with a breadth-first walk from the
// root. It does nothing when the automaton is not dirty, so calling it twice
// in a row costs one rebuild.
func (a *Automaton[K, V]) Rebuild() {
	if !a.dirty {
		return
	}
	queue := make([]nodeID, 0, len(a.nodes))
	queue = append(queue, rootID)
	for head := 0; head < len(queue); head++ {
		id := queue[head]
		n := &a.nodes[id]
		for _, c := range n.children {
			queue = append(queue, c)
		}
		n.staleVersion = a.version
		if id == rootID {
			n.failure = rootID
			continue
		}
		n.failure = a.fallback(id)
	}
	a.dirty = false
}

// fallback finds the longest proper suffix of id's path that is also a path
// in the trie. Parents are visited first in BFS order, so every failure link
// it follows is already current.
func (a *Automaton[K, V]) fallback(id nodeID) nodeID {
	n := &a.nodes[id]
	if n.parent == rootID {
		return rootID
	}
	f := a.nodes[n.parent].failure
	for {
		if c, ok := a.child(f, n.key); ok && c != id {
			return c
		}
		if f == rootID {
			return rootID
		}
		f = a.nodes[f].failure
	}
}

// ensureBuilt rebuilds failure links before a read path that depends on them.
func (a *Automaton[K, V]) ensureBuilt() {
	if a.dirty {
		a.Rebuild()
	}
}
