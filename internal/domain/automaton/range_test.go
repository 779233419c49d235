package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Enumeration: key reconstruction and concurrent modification
// =============================================================================

func TestRange_ReconstructsKeys(t *testing.T) {
	dict := map[string]string{"he": "1", "she": "2", "his": "3", "hers": "4", "h": "5"}
	a := buildDict(t, dict)

	got := map[string]string{}
	err := a.Range(func(key []rune, v string) bool {
		got[string(key)] = v
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, dict, got)

	keys, err := a.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, len(dict))
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5"}, a.Values())
}

func TestRange_StopsEarly(t *testing.T) {
	a := buildDict(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	n := 0
	err := a.Range(func([]rune, string) bool {
		n++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRange_LeavesDirtyAutomatonAlone(t *testing.T) {
	a := buildDict(t, map[string]string{"ab": "1", "b": "2"})
	require.True(t, a.Dirty())
	version := a.Version()

	n := 0
	require.NoError(t, a.Range(func([]rune, string) bool {
		n++
		return true
	}))
	assert.Equal(t, 2, n)
	assert.True(t, a.Dirty(), "enumeration does not rebuild failure links")
	assert.Equal(t, version, a.Version())
}

func TestRange_DetectsMutationFromCallback(t *testing.T) {
	a := buildDict(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	err := a.Range(func(key []rune, _ string) bool {
		_, rmErr := a.Remove(key)
		require.NoError(t, rmErr)
		return true
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestRange_Empty(t *testing.T) {
	a := New[rune, string]()
	keys, err := a.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, a.Values())
}
