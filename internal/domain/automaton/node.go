package automaton

// nodeID addresses a slot in the automaton's node arena.
// IDs are stable for the lifetime of a node; a freed slot may be reused,
// which is why handles also carry the node's serial.
type nodeID int32

const (
	rootID nodeID = 0
	noNode nodeID = -1
)

// node is one prefix of some stored sequence.
//
// Ownership runs parent -> children only. parent and failure are plain
// indices and are never used to free a slot.
type node[K comparable, V any] struct {
	key      K
	parent   nodeID
	children map[K]nodeID
	depth    int

	isTip bool
	value V

	failure nodeID
	// staleVersion records the automaton version at which failure was last
	// computed: Rebuild stamps it, newNode seeds it. Reads decide staleness
	// from the automaton's dirty flag, not from this field.
	staleVersion uint64

	serial uint64 // unique per allocation, 0 for a free slot
}

// setValue stores v and marks the node as a tip.
func (n *node[K, V]) setValue(v V) {
	n.value = v
	n.isTip = true
}

// clearTip drops the tip flag together with its value.
func (n *node[K, V]) clearTip() {
	var zero V
	n.value = zero
	n.isTip = false
}

func (n *node[K, V]) live() bool {
	return n.serial != 0
}

// newNode allocates a slot for a child of parent labeled key.
// The caller links it into parent.children.
func (a *Automaton[K, V]) newNode(parent nodeID, key K) nodeID {
	a.serial++
	n := node[K, V]{
		key:          key,
		parent:       parent,
		depth:        a.nodes[parent].depth + 1,
		failure:      rootID,
		staleVersion: a.version,
		serial:       a.serial,
	}
	if last := len(a.free) - 1; last >= 0 {
		id := a.free[last]
		a.free = a.free[:last]
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

// freeNode returns the slot of a childless node to the free list.
// Only the owning parent calls this, right after unlinking the child.
func (a *Automaton[K, V]) freeNode(id nodeID) {
	a.nodes[id] = node[K, V]{parent: noNode, failure: noNode}
	a.free = append(a.free, id)
}

// child returns the child of id labeled by the already normalized key k.
func (a *Automaton[K, V]) child(id nodeID, k K) (nodeID, bool) {
	c, ok := a.nodes[id].children[k]
	return c, ok
}

// addOrCreateChild walks one edge, creating it when missing.
func (a *Automaton[K, V]) addOrCreateChild(id nodeID, k K) nodeID {
	if c, ok := a.child(id, k); ok {
		return c
	}
	c := a.newNode(id, k)
	// newNode may have grown the arena; index again.
	n := &a.nodes[id]
	if n.children == nil {
		n.children = make(map[K]nodeID, 1)
	}
	n.children[k] = c
	return c
}

// removeChild unlinks and frees the child of parent labeled k.
func (a *Automaton[K, V]) removeChild(parent nodeID, k K) {
	c, ok := a.nodes[parent].children[k]
	if !ok {
		return
	}
	delete(a.nodes[parent].children, k)
	a.freeNode(c)
}

// walk follows seq from the root without creating anything.
func (a *Automaton[K, V]) walk(seq []K) (nodeID, bool) {
	cur := rootID
	for _, k := range seq {
		next, ok := a.child(cur, a.normalize(k))
		if !ok {
			return noNode, false
		}
		cur = next
	}
	return cur, true
}

// keyOf reconstructs the stored sequence ending at id.
func (a *Automaton[K, V]) keyOf(id nodeID) []K {
	key := make([]K, a.nodes[id].depth)
	for i := len(key) - 1; id != rootID; i-- {
		key[i] = a.nodes[id].key
		id = a.nodes[id].parent
	}
	return key
}
