package replacer

import (
	"testing"

	"github.com/corey/occ/internal/domain/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Buffered replacer: single pass, chained passes, buffer reuse
// =============================================================================

func table(t *testing.T, pairs ...string) *Automaton {
	t.Helper()
	require.Zero(t, len(pairs)%2, "pairs must be key/value")
	a := automaton.New[rune, string]()
	for i := 0; i < len(pairs); i += 2 {
		require.NoError(t, a.Insert([]rune(pairs[i]), pairs[i+1]))
	}
	a.Rebuild()
	return a
}

func TestApplyPass_LongestCover(t *testing.T) {
	a := table(t, "ab", "X", "abc", "Y", "bc", "Z")
	assert.Equal(t, "xYx", New("xabcx").ApplyPass(a).String())
}

func TestApplyPass_OverlapPrecedence(t *testing.T) {
	a := table(t, "he", "1", "hers", "2", "his", "3")
	assert.Equal(t, "us2", New("ushers").ApplyPass(a).String())
}

func TestApplyPass_ChainedPasses(t *testing.T) {
	first := table(t, "x", "y")
	second := table(t, "y", "z")
	assert.Equal(t, "zz", New("xx").ApplyPass(first).ApplyPass(second).String())
	assert.Equal(t, "zz", Replace("xx", first, second))
}

func TestApplyPass_NoMatchReturnsOriginal(t *testing.T) {
	a := table(t, "q", "r")
	src := "hello, 世界"
	rp := New(src).ApplyPass(a)
	assert.False(t, rp.Changed())
	assert.Equal(t, src, rp.String())
	assert.Equal(t, 9, rp.Len())
}

func TestApplyPass_UnmatchedPassKeepsEarlierResult(t *testing.T) {
	first := table(t, "a", "b")
	none := table(t, "q", "r")
	rp := New("aaa").ApplyPass(first).ApplyPass(none)
	assert.True(t, rp.Changed())
	assert.Equal(t, "bbb", rp.String())
}

func TestApplyPass_GrowAndShrink(t *testing.T) {
	grow := table(t, "a", "xyz")
	shrink := table(t, "xyz", "")
	rp := New("1a2a3").ApplyPass(grow)
	assert.Equal(t, "1xyz2xyz3", rp.String())
	assert.Equal(t, 9, rp.Len())
	rp.ApplyPass(shrink)
	assert.Equal(t, "123", rp.String())
}

func TestApplyPass_ChineseConversion(t *testing.T) {
	phrases := table(t, "头发", "頭髮", "发现", "發現")
	chars := table(t, "头", "頭", "发", "發", "现", "現", "们", "們", "我", "我")
	s2t := func(s string) string { return Replace(s, phrases, chars) }

	assert.Equal(t, "我們發現頭髮", s2t("我们发现头发"))
}

func TestApplyPass_KeepsInvalidUTF8Verbatim(t *testing.T) {
	a := table(t, "x", "y")
	assert.Equal(t, "\xffy\xfe", Replace("\xffx\xfe", a))

	rp := New("\xe6\xb1x\xc0").ApplyPass(a)
	assert.Equal(t, 4, rp.Len(), "each invalid byte is one symbol")
	assert.Equal(t, "\xe6\xb1y\xc0", rp.String())

	second := table(t, "y", "z")
	assert.Equal(t, "\xffz\xfe", Replace("\xffx\xfe", a, second), "survives chained passes")
}

func TestApplyPass_RealReplacementCharIsKept(t *testing.T) {
	a := table(t, "\uFFFD", "?", "x", "y")
	assert.Equal(t, "?y\xff", Replace("\uFFFDx\xff", a), "encoded U+FFFD matches, a raw byte does not")
}

func TestApplyPass_NilAndEmpty(t *testing.T) {
	a := table(t, "a", "b")
	assert.Equal(t, "", New("").ApplyPass(a).String())
	assert.Equal(t, "a", New("a").ApplyPass(nil).String())
}

func TestReset_ReusesBuffers(t *testing.T) {
	a := table(t, "a", "bb")
	rp := New("aaaa").ApplyPass(a)
	require.Equal(t, "bbbbbbbb", rp.String())
	capCur, capNext := cap(rp.cur), cap(rp.next)

	rp.Reset("a")
	assert.False(t, rp.Changed())
	assert.Equal(t, "a", rp.String())
	rp.ApplyPass(a)
	assert.Equal(t, "bb", rp.String())
	assert.LessOrEqual(t, capCur+capNext, cap(rp.cur)+cap(rp.next), "buffers are kept, not reallocated smaller")
}

func BenchmarkReplaceChain(b *testing.B) {
	phrases := automaton.New[rune, string]()
	chars := automaton.New[rune, string]()
	_ = phrases.Insert([]rune("头发"), "頭髮")
	_ = chars.Insert([]rune("发"), "發")
	_ = chars.Insert([]rune("们"), "們")
	phrases.Rebuild()
	chars.Rebuild()
	rp := New("")
	for b.Loop() {
		rp.Reset("我们的头发和我们的发现")
		_ = rp.ApplyPass(phrases).ApplyPass(chars).String()
	}
}
