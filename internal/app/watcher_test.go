package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/dictionary"
)

// =============================================================================
// Dictionary file changes: reload on write, unload on delete
// =============================================================================

func TestOnFileChanged_ReloadsDictionary(t *testing.T) {
	a, dictDir := newTestApp(t)
	path := filepath.Join(dictDir, "TWVariants.txt")
	require.NoError(t, os.WriteFile(path, []byte("裏\t裡\n着\t著\n"), 0644))

	a.onFileChanged(path)
	assert.Equal(t, 2, a.Converter.Dictionaries()[dictionary.TWVariants])
}

func TestOnFileChanged_IgnoresUnknownFiles(t *testing.T) {
	a, dictDir := newTestApp(t)
	before := a.Converter.Dictionaries()

	a.onFileChanged(filepath.Join(dictDir, "README.txt"))
	a.onFileChanged(filepath.Join(t.TempDir(), "TWVariants.txt"))
	assert.Equal(t, before, a.Converter.Dictionaries())
}

func TestOnFileChanged_DeletedFileUnloads(t *testing.T) {
	a, dictDir := newTestApp(t)
	path := filepath.Join(dictDir, "TWVariants.txt")
	require.NoError(t, os.Remove(path))

	a.onFileChanged(path)
	_, loaded := a.Converter.Dictionaries()[dictionary.TWVariants]
	assert.False(t, loaded)
}

func TestOnFileChanged_BadFileKeepsPrevious(t *testing.T) {
	a, dictDir := newTestApp(t)
	path := filepath.Join(dictDir, "TWVariants.txt")
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755)) // unreadable as a file

	a.onFileChanged(path)
	assert.Equal(t, 1, a.Converter.Dictionaries()[dictionary.TWVariants])
}

func TestStart_WatchesDictDir(t *testing.T) {
	a, dictDir := newTestApp(t)
	require.NoError(t, a.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dictDir, "TWVariants.txt"), []byte("裏\t裡\n着\t著\n"), 0644))

	assert.Eventually(t, func() bool {
		res, err := a.Convert(socket.ConvertParams{Conversion: "t2tw", Text: "着"})
		return err == nil && res.Text == "著"
	}, 3*time.Second, 20*time.Millisecond)
}
