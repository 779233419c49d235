// Package replacer applies chains of substitution automata to text.
//
// A Replacer owns two rune buffers. Each pass reads the current buffer and,
// when it finds something to substitute, writes into the other one and swaps
// them, so a chain of passes allocates only while the text grows.
//
// Bytes that are not valid UTF-8 are carried as negative symbols. They never
// match a key and are written back unchanged.
package replacer

import (
	"unicode/utf8"

	"github.com/corey/occ/internal/domain/automaton"
)

// Automaton is the substitution table type a pass consumes.
type Automaton = automaton.Automaton[rune, string]

// Replacer holds the text being converted and its reusable buffers.
// It is not safe for concurrent use; pool Replacers instead of sharing one.
type Replacer struct {
	src     string
	cur     []rune // current content, valid once loaded
	next    []rune // scratch output of the running pass
	loaded  bool   // cur holds src
	changed bool   // some pass substituted something
}

// New returns a Replacer for s.
func New(s string) *Replacer {
	r := &Replacer{}
	r.Reset(s)
	return r
}

// Reset starts over with s, keeping the allocated buffers.
func (r *Replacer) Reset(s string) {
	r.src = s
	r.cur = r.cur[:0]
	r.next = r.next[:0]
	r.loaded = false
	r.changed = false
}

// ApplyPass substitutes the leftmost-longest disjoint matches of a in the
// current content. Unmatched spans are copied verbatim. A pass without
// matches, or with a nil automaton, leaves the content as it was.
func (r *Replacer) ApplyPass(a *Automaton) *Replacer {
	if a == nil || r.src == "" {
		return r
	}
	r.load()
	matches := a.SearchForReplace(r.cur)
	if len(matches) == 0 {
		return r
	}

	out := r.next[:0]
	offset := 0
	for _, m := range matches {
		out = append(out, r.cur[offset:m.Start]...)
		for _, c := range m.Value {
			out = append(out, c)
		}
		offset = m.End
	}
	out = append(out, r.cur[offset:]...)

	r.cur, r.next = out, r.cur
	r.changed = true
	return r
}

// load decodes the source into the current buffer on first use.
func (r *Replacer) load() {
	if r.loaded {
		return
	}
	r.cur = r.cur[:0]
	for i := 0; i < len(r.src); {
		c, size := utf8.DecodeRuneInString(r.src[i:])
		if c == utf8.RuneError && size == 1 {
			c = rawByte(r.src[i])
		}
		r.cur = append(r.cur, c)
		i += size
	}
	r.loaded = true
}

// rawByte maps an invalid byte to a symbol outside the Unicode range.
func rawByte(b byte) rune { return -1 - rune(b) }

// Changed reports whether any pass substituted something.
func (r *Replacer) Changed() bool {
	return r.changed
}

// Len returns the current content length in runes.
func (r *Replacer) Len() int {
	if !r.loaded {
		return utf8.RuneCountInString(r.src)
	}
	return len(r.cur)
}

// String materializes the current content. When no pass matched, the
// original string is returned without copying.
func (r *Replacer) String() string {
	if !r.changed {
		return r.src
	}
	buf := make([]byte, 0, len(r.src)+utf8.UTFMax*len(r.cur)/2)
	for _, c := range r.cur {
		if c < 0 {
			buf = append(buf, byte(-1-c))
			continue
		}
		buf = utf8.AppendRune(buf, c)
	}
	return string(buf)
}

// Replace runs s through every pass in order.
func Replace(s string, passes ...*Automaton) string {
	r := New(s)
	for _, a := range passes {
		r.ApplyPass(a)
	}
	return r.String()
}
