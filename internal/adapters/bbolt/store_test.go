package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/occ/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// bbolt DictionaryStore: save/load pairs, listing, crash recovery
// Expectation: parsed dictionaries survive restarts without re-reading files.
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestPairs returns a small slice mixing phrases, single characters and
// a repeated primary with two variants.
func makeTestPairs() []ports.Pair {
	return []ports.Pair{
		{Primary: "头发", Variant: "頭髮"},
		{Primary: "干", Variant: "幹"},
		{Primary: "干", Variant: "乾"},
		{Primary: "汉", Variant: "漢"},
		{Primary: "𠮷", Variant: "吉"},
	}
}

func TestStore_SaveLoadDictionary_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	original := makeTestPairs()

	require.NoError(t, store.SaveDictionary("STPhrases", original, "/dicts/STPhrases.txt"))

	loaded, err := store.LoadDictionary("STPhrases")
	require.NoError(t, err)
	assert.Equal(t, original, loaded, "pairs keep their order")
}

func TestStore_LoadMissing_ReturnsNilNil(t *testing.T) {
	store, _ := newTestStore(t)

	pairs, err := store.LoadDictionary("TWVariants")
	assert.NoError(t, err)
	assert.Nil(t, pairs)

	require.NoError(t, store.SaveDictionary("STPhrases", makeTestPairs(), "x"))
	pairs, err = store.LoadDictionary("TWVariants")
	assert.NoError(t, err)
	assert.Nil(t, pairs, "other dictionaries do not leak")
}

func TestStore_SaveEmptyDictionary(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDictionary("JPVariants", nil, "x"))

	pairs, err := store.LoadDictionary("JPVariants")
	require.NoError(t, err)
	assert.NotNil(t, pairs, "saved but empty is distinct from absent")
	assert.Empty(t, pairs)
}

func TestStore_SaveRejectsEmptyName(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveDictionary("", makeTestPairs(), "x"))
}

func TestStore_SaveReplaces(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDictionary("TWVariants", makeTestPairs(), "a"))
	require.NoError(t, store.SaveDictionary("TWVariants", []ports.Pair{{Primary: "裏", Variant: "裡"}}, "b"))

	pairs, err := store.LoadDictionary("TWVariants")
	require.NoError(t, err)
	assert.Equal(t, []ports.Pair{{Primary: "裏", Variant: "裡"}}, pairs)

	infos, err := store.ListDictionaries()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "b", infos[0].Source)
	assert.Equal(t, 1, infos[0].Pairs)
}

func TestStore_ListDictionaries_SortedWithMeta(t *testing.T) {
	store, _ := newTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	for _, name := range []string{"TWVariants", "HKVariants", "STPhrases"} {
		require.NoError(t, store.SaveDictionary(name, makeTestPairs(), "/d/"+name+".txt"))
	}

	infos, err := store.ListDictionaries()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "HKVariants", infos[0].Name)
	assert.Equal(t, "STPhrases", infos[1].Name)
	assert.Equal(t, "TWVariants", infos[2].Name)
	for _, info := range infos {
		assert.Equal(t, 5, info.Pairs)
		assert.Equal(t, "/d/"+info.Name+".txt", info.Source)
		assert.True(t, fixed.Equal(info.UpdatedAt))
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	infos, err := store.ListDictionaries()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestStore_DeleteDictionary(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDictionary("STPhrases", makeTestPairs(), "x"))
	require.NoError(t, store.SaveDictionary("TSPhrases", makeTestPairs(), "x"))

	require.NoError(t, store.DeleteDictionary("STPhrases"))
	pairs, err := store.LoadDictionary("STPhrases")
	require.NoError(t, err)
	assert.Nil(t, pairs)

	pairs, err = store.LoadDictionary("TSPhrases")
	require.NoError(t, err)
	assert.Len(t, pairs, 5, "siblings survive")

	// Idempotent, including before the root bucket exists.
	assert.NoError(t, store.DeleteDictionary("STPhrases"))
	fresh, _ := newTestStore(t)
	assert.NoError(t, fresh.DeleteDictionary("anything"))
}

func TestStore_CrashRecovery(t *testing.T) {
	// Write data, close, reopen. Data from the last committed transaction
	// is intact (bbolt fsyncs on commit).
	dir := t.TempDir()
	path := filepath.Join(dir, "crash.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveDictionary("STCharacters", makeTestPairs(), "x"))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.LoadDictionary("STCharacters")
	require.NoError(t, err)
	assert.Equal(t, makeTestPairs(), loaded)
	assert.Equal(t, path, store2.Path())
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDictionary("STPhrases", makeTestPairs(), "x"))

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			pairs, err := store.LoadDictionary("STPhrases")
			assert.NoError(t, err)
			assert.Len(t, pairs, 5)
		})
	}
	wg.Wait()
}

func TestStore_LargeDictionary(t *testing.T) {
	store, _ := newTestStore(t)
	pairs := make([]ports.Pair, 50_000)
	for i := range pairs {
		pairs[i] = ports.Pair{Primary: fmt.Sprintf("词%d", i), Variant: fmt.Sprintf("詞%d", i)}
	}

	start := time.Now()
	require.NoError(t, store.SaveDictionary("STPhrases", pairs, "x"))
	loaded, err := store.LoadDictionary("STPhrases")
	require.NoError(t, err)
	elapsed := time.Since(start)

	assert.Equal(t, pairs, loaded)
	assert.Less(t, elapsed, 5*time.Second)
}

// =============================================================================
// Pair blob encoding: corrupt data must error, not panic
// =============================================================================

func TestDecodePairs_RejectsCorruptBlobs(t *testing.T) {
	good, err := encodePairs(makeTestPairs())
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":        {},
		"bad version":  append([]byte{9}, good[1:]...),
		"truncated":    good[:len(good)-2],
		"trailing":     append(append([]byte{}, good...), 0),
		"huge count":   {pairsFormatV1, 0xff, 0xff, 0xff, 0x0f},
		"bad uvarint":  {pairsFormatV1, 0xff},
		"huge str len": {pairsFormatV1, 1, 0xff, 0xff, 0x03, 'a'},
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := decodePairs(blob)
				assert.Error(t, err)
			})
		})
	}
}

func TestEncodePairs_Empty(t *testing.T) {
	blob, err := encodePairs(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{pairsFormatV1, 0}, blob)

	pairs, err := decodePairs(blob)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

// =============================================================================
// Lock contention tests: verify the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// When another holder has the bbolt exclusive lock, a second open should
	// time out in ~1 second, not hang forever.
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2, "store should be nil on timeout")
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "should wait ~1s for the configured timeout")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveDictionary("HKVariants", makeTestPairs(), "x"))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.NoError(t, err, "open after close should succeed")
	require.NotNil(t, store2)
	defer store2.Close()
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")

	pairs, err := store2.LoadDictionary("HKVariants")
	require.NoError(t, err)
	assert.Len(t, pairs, 5)
}
