// Package dictionary names the conversion dictionaries and parses their text
// format: one record per line, the primary form, a tab, then one or more
// space-separated variants.
//
//	头发	頭髮
//	干	幹 乾 干
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/corey/occ/internal/ports"
)

// Name identifies one dictionary.
type Name string

// Known dictionaries.
const (
	HKVariants            Name = "HKVariants"
	HKVariantsRevPhrases  Name = "HKVariantsRevPhrases"
	JPVariants            Name = "JPVariants"
	JPShinjitaiPhrases    Name = "JPShinjitaiPhrases"
	JPShinjitaiCharacters Name = "JPShinjitaiCharacters"
	STCharacters          Name = "STCharacters"
	STPhrases             Name = "STPhrases"
	TSCharacters          Name = "TSCharacters"
	TSPhrases             Name = "TSPhrases"
	TWPhrasesIT           Name = "TWPhrasesIT"
	TWPhrasesName         Name = "TWPhrasesName"
	TWPhrasesOther        Name = "TWPhrasesOther"
	TWVariants            Name = "TWVariants"
	TWVariantsRevPhrases  Name = "TWVariantsRevPhrases"
)

var names = []Name{
	HKVariants,
	HKVariantsRevPhrases,
	JPVariants,
	JPShinjitaiPhrases,
	JPShinjitaiCharacters,
	STCharacters,
	STPhrases,
	TSCharacters,
	TSPhrases,
	TWPhrasesIT,
	TWPhrasesName,
	TWPhrasesOther,
	TWVariants,
	TWVariantsRevPhrases,
}

// Names returns every known dictionary.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// ParseName resolves s case-insensitively. A trailing ".txt" is ignored.
func ParseName(s string) (Name, error) {
	s = strings.TrimSuffix(s, ".txt")
	for _, n := range names {
		if strings.EqualFold(string(n), s) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown dictionary %q", s)
}

// FileName is the conventional file name of the dictionary text.
func (n Name) FileName() string {
	return string(n) + ".txt"
}

func (n Name) String() string {
	return string(n)
}

// ParseLine splits one record into pairs. Lines without a tab, or starting
// with one, yield nothing. Empty variants are skipped.
func ParseLine(line string) []ports.Pair {
	line = strings.TrimSuffix(line, "\r")
	idx := strings.IndexByte(line, '\t')
	if idx <= 0 {
		return nil
	}
	primary := line[:idx]
	var pairs []ports.Pair
	for _, variant := range strings.Split(line[idx+1:], " ") {
		if variant == "" {
			continue
		}
		pairs = append(pairs, ports.Pair{Primary: primary, Variant: variant})
	}
	return pairs
}

// Parse reads every record from r.
func Parse(r io.Reader) ([]ports.Pair, error) {
	var pairs []ports.Pair
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024) // 1MB max line
	for scanner.Scan() {
		pairs = append(pairs, ParseLine(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return pairs, nil
}

// ParseString parses dictionary text already held in memory.
func ParseString(text string) []ports.Pair {
	var pairs []ports.Pair
	for line := range strings.Lines(text) {
		pairs = append(pairs, ParseLine(strings.TrimSuffix(line, "\n"))...)
	}
	return pairs
}
