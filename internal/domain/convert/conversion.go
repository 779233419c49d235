package convert

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fortio.org/sets"

	"github.com/corey/occ/internal/domain/dictionary"
)

// Conversion names a chain of stages applied in order.
type Conversion string

const (
	S2T   Conversion = "s2t"
	T2S   Conversion = "t2s"
	S2TW  Conversion = "s2tw"
	TW2S  Conversion = "tw2s"
	S2HK  Conversion = "s2hk"
	HK2S  Conversion = "hk2s"
	S2TWP Conversion = "s2twp"
	TW2SP Conversion = "tw2sp"
	T2TW  Conversion = "t2tw"
	HK2T  Conversion = "hk2t"
	T2HK  Conversion = "t2hk"
	JP2T  Conversion = "jp2t"
	T2JP  Conversion = "t2jp"
	TW2T  Conversion = "tw2t"
)

type conversionDef struct {
	stages      []Stage
	description string
}

var conversions = map[Conversion]conversionDef{
	S2T:   {[]Stage{STPhrasesCharacters}, "Simplified Chinese to Traditional Chinese"},
	T2S:   {[]Stage{TSPhrasesCharacters}, "Traditional Chinese to Simplified Chinese"},
	S2TW:  {[]Stage{STPhrasesCharacters, TWVariants}, "Simplified Chinese to Traditional Chinese (Taiwan standard)"},
	TW2S:  {[]Stage{TWRevPhrases, TSPhrasesCharacters}, "Traditional Chinese (Taiwan standard) to Simplified Chinese"},
	S2HK:  {[]Stage{STPhrasesCharacters, HKVariants}, "Simplified Chinese to Traditional Chinese (Hong Kong variant)"},
	HK2S:  {[]Stage{HKVariantsRevPhrases, TSPhrasesCharacters}, "Traditional Chinese (Hong Kong variant) to Simplified Chinese"},
	S2TWP: {[]Stage{STPhrasesCharacters, TWPhrases, TWVariants}, "Simplified Chinese to Traditional Chinese (Taiwan standard) with Taiwanese idioms"},
	TW2SP: {[]Stage{TWRevPhrasesVariants, TSPhrasesCharacters}, "Traditional Chinese (Taiwan standard) to Simplified Chinese with Mainland idioms"},
	T2TW:  {[]Stage{TWVariants}, "Traditional Chinese (OpenCC standard) to Taiwan standard"},
	HK2T:  {[]Stage{HKVariantsRevPhrases}, "Traditional Chinese (Hong Kong variant) to Traditional Chinese"},
	T2HK:  {[]Stage{HKVariants}, "Traditional Chinese (OpenCC standard) to Hong Kong variant"},
	JP2T:  {[]Stage{JPRevPhrasesCharacters}, "New Japanese Kanji (Shinjitai) to Traditional Chinese characters (Kyujitai)"},
	T2JP:  {[]Stage{JPVariants}, "Traditional Chinese characters (Kyujitai) to New Japanese Kanji (Shinjitai)"},
	TW2T:  {[]Stage{TWRevVariants}, "Traditional Chinese (Taiwan standard) to Traditional Chinese (OpenCC standard)"},
}

// ErrUnknownConversion is returned for a conversion name with no chain.
var ErrUnknownConversion = errors.New("unknown conversion")

// Conversions lists every conversion, sorted by name.
func Conversions() []Conversion {
	out := make([]Conversion, 0, len(conversions))
	for c := range conversions {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// ParseConversion resolves a conversion name, ignoring case and surrounding
// space.
func ParseConversion(s string) (Conversion, error) {
	c := Conversion(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := conversions[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownConversion, s)
	}
	return c, nil
}

func (c Conversion) String() string { return string(c) }

// Valid reports whether c names a known conversion.
func (c Conversion) Valid() bool {
	_, ok := conversions[c]
	return ok
}

// Stages returns the stage chain, in application order.
func (c Conversion) Stages() []Stage {
	return slices.Clone(conversions[c].stages)
}

// Description is a human readable summary of c.
func (c Conversion) Description() string {
	return conversions[c].description
}

// Dictionaries lists the distinct dictionaries c reads, in first-use order.
func (c Conversion) Dictionaries() []dictionary.Name {
	seen := sets.New[dictionary.Name]()
	var out []dictionary.Name
	for _, s := range conversions[c].stages {
		for _, e := range stageEntries[s] {
			if seen.Has(e.Name) {
				continue
			}
			seen.Add(e.Name)
			out = append(out, e.Name)
		}
	}
	return out
}
