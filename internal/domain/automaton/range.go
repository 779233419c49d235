package automaton

// Range calls fn for every stored sequence and its value until fn returns
// false. Keys are freshly allocated and may be retained. Order is
// unspecified.
//
// Range returns ErrConcurrentModification if the automaton is mutated before
// the enumeration finishes, including from inside fn.
func (a *Automaton[K, V]) Range(fn func(key []K, value V) bool) error {
	version := a.version
	stack := []nodeID{rootID}
	for len(stack) > 0 {
		if a.version != version {
			return ErrConcurrentModification
		}
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &a.nodes[id]
		for _, c := range n.children {
			stack = append(stack, c)
		}
		if !n.isTip {
			continue
		}
		if !fn(a.keyOf(id), n.value) {
			return nil
		}
	}
	if a.version != version {
		return ErrConcurrentModification
	}
	return nil
}

// Keys returns every stored sequence.
func (a *Automaton[K, V]) Keys() ([][]K, error) {
	keys := make([][]K, 0, a.count)
	err := a.Range(func(key []K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys, err
}

// Values returns every stored value, without reconstructing keys.
func (a *Automaton[K, V]) Values() []V {
	values := make([]V, 0, a.count)
	stack := []nodeID{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &a.nodes[id]
		for _, c := range n.children {
			stack = append(stack, c)
		}
		if n.isTip {
			values = append(values, n.value)
		}
	}
	return values
}
