package convert

import (
	"slices"

	d "github.com/corey/occ/internal/domain/dictionary"
)

// Stage is one substitution pass: a fixed list of dictionary entries merged
// into a single automaton.
type Stage int

const (
	STPhrasesCharacters Stage = iota
	TSPhrasesCharacters
	HKVariantsRevPhrases
	HKVariants
	TWRevPhrasesVariants
	TWRevPhrases
	TWPhrases
	TWVariants
	TWRevVariants
	JPRevPhrasesCharacters
	JPVariants
	numStages
)

var stageNames = [numStages]string{
	"st-phrases-characters",
	"ts-phrases-characters",
	"hk-variants-rev-phrases",
	"hk-variants",
	"tw-rev-phrases-variants",
	"tw-rev-phrases",
	"tw-phrases",
	"tw-variants",
	"tw-rev-variants",
	"jp-rev-phrases-characters",
	"jp-variants",
}

func fwd(n d.Name) Entry { return Entry{Name: n} }
func rev(n d.Name) Entry { return Entry{Name: n, Reverse: true} }

var stageEntries = [numStages][]Entry{
	STPhrasesCharacters:  {fwd(d.STPhrases), fwd(d.STCharacters)},
	TSPhrasesCharacters:  {fwd(d.TSPhrases), fwd(d.TSCharacters)},
	HKVariantsRevPhrases: {fwd(d.HKVariantsRevPhrases), rev(d.HKVariants)},
	HKVariants:           {fwd(d.HKVariants)},
	TWRevPhrasesVariants: {
		rev(d.TWPhrasesIT), rev(d.TWPhrasesName), rev(d.TWPhrasesOther),
		fwd(d.TWVariantsRevPhrases), rev(d.TWVariants),
	},
	TWRevPhrases:  {fwd(d.TWVariantsRevPhrases), rev(d.TWVariants)},
	TWPhrases:     {fwd(d.TWPhrasesIT), fwd(d.TWPhrasesName), fwd(d.TWPhrasesOther)},
	TWVariants:    {fwd(d.TWVariants)},
	TWRevVariants: {fwd(d.TWVariantsRevPhrases), rev(d.TWVariants)},
	JPRevPhrasesCharacters: {
		fwd(d.JPShinjitaiPhrases), fwd(d.JPShinjitaiCharacters), rev(d.JPVariants),
	},
	JPVariants: {fwd(d.JPVariants)},
}

// Stages lists every stage.
func Stages() []Stage {
	out := make([]Stage, numStages)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}

func (s Stage) valid() bool { return s >= 0 && s < numStages }

func (s Stage) String() string {
	if !s.valid() {
		return "stage(?)"
	}
	return stageNames[s]
}

// Entries returns a copy of the stage's dictionary entries, in merge order.
func (s Stage) Entries() []Entry {
	if !s.valid() {
		return nil
	}
	return slices.Clone(stageEntries[s])
}

// Uses reports whether the stage reads dictionary n in either direction.
func (s Stage) Uses(n d.Name) bool {
	if !s.valid() {
		return false
	}
	for _, e := range stageEntries[s] {
		if e.Name == n {
			return true
		}
	}
	return false
}
