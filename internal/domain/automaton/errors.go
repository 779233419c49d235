package automaton

import "errors"

// Sentinel errors. Absence of a key is never an error; lookups and Remove
// report it through their bool result.
var (
	// ErrDuplicateKey is returned by Insert when the sequence is already stored.
	ErrDuplicateKey = errors.New("automaton: sequence already exists")

	// ErrEmptySequence is returned when a nil or empty sequence is passed to a mutation.
	ErrEmptySequence = errors.New("automaton: empty sequence")

	// ErrConcurrentModification is reported when the automaton changes while a
	// scan or enumeration derived from it is still in progress.
	ErrConcurrentModification = errors.New("automaton: modified during iteration")

	// ErrDetachedNode is returned when reading structural data through a handle
	// whose node was pruned or cleared.
	ErrDetachedNode = errors.New("automaton: node has been detached")
)
