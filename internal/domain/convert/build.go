// Package convert composes dictionaries into substitution automata and chains
// them into named script conversions (simplified to traditional, Taiwan and
// Hong Kong standards, Japanese shinjitai).
package convert

import (
	"fortio.org/sets"

	"github.com/corey/occ/internal/domain/automaton"
	"github.com/corey/occ/internal/domain/dictionary"
	"github.com/corey/occ/internal/domain/replacer"
	"github.com/corey/occ/internal/ports"
)

// Entry selects one dictionary and the direction it is applied in.
// Forward maps Primary to Variant; Reverse maps Variant back to Primary.
type Entry struct {
	Name    dictionary.Name
	Reverse bool
}

// Build merges the entries, in order, into one automaton and rebuilds it so
// it can be shared by concurrent readers.
//
// Forward entries keep the first variant seen for a primary key across all
// contributing dictionaries. Reverse entries overwrite whatever is stored for
// the variant. Dictionaries absent from dicts are skipped.
func Build(dicts map[dictionary.Name][]ports.Pair, entries ...Entry) *replacer.Automaton {
	a := automaton.New[rune, string]()
	seen := sets.New[string]()
	for _, e := range entries {
		for _, p := range dicts[e.Name] {
			if p.Primary == "" || p.Variant == "" {
				continue
			}
			if e.Reverse {
				_, _, _ = a.InsertOrReplace([]rune(p.Variant), p.Primary)
				continue
			}
			if seen.Has(p.Primary) {
				continue
			}
			seen.Add(p.Primary)
			_, _, _ = a.InsertOrReplace([]rune(p.Primary), p.Variant)
		}
	}
	a.Rebuild()
	return a
}
