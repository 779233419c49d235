package automaton

import "iter"

// SelectForReplace reduces matches, given in the order Scan produces them
// (grouped by increasing End, longest first within a group), to an ordered
// set of disjoint matches suitable for substitution.
//
// The result prefers the earliest start and then the longest extent, which
// is greedy leftmost-longest tokenization:
//   - a match ending at or before the last accepted end is already covered;
//   - a match overlapping an accepted match that starts before it loses;
//   - a match starting at or before overlapping accepted matches replaces them.
func SelectForReplace[V any](matches iter.Seq[Match[V]]) []Match[V] {
	var accepted []Match[V]
	lastEnd, seen := 0, false
	for m := range matches {
		if seen && lastEnd >= m.End {
			continue
		}
		cut, rejected := len(accepted), false
		for i := len(accepted) - 1; i >= 0; i-- {
			top := accepted[i]
			if top.End <= m.Start {
				break
			}
			if top.Start < m.Start {
				rejected = true
				break
			}
			cut = i
		}
		if rejected {
			continue
		}
		accepted = append(accepted[:cut], m)
		lastEnd, seen = m.End, true
	}
	return accepted
}

// SearchForReplace scans input and returns the disjoint matches to
// substitute, sorted by Start.
func (a *Automaton[K, V]) SearchForReplace(input []K) []Match[V] {
	return SelectForReplace(a.Search(input))
}
