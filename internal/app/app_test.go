package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/convert"
	"github.com/corey/occ/internal/domain/dictionary"
)

// =============================================================================
// App wiring: store, converter, import, reload, socket service
// =============================================================================

// testDicts is a tiny but realistic dictionary set covering s2t, t2s and tw.
var testDicts = map[string]string{
	"STPhrases.txt":    "头发\t頭髮\n里面\t裏面\n",
	"STCharacters.txt": "汉\t漢\n语\t語\n头\t頭\n发\t發 髮\n里\t裏 里\n",
	"TSCharacters.txt": "漢\t汉\n語\t语\n頭\t头\n髮\t发\n裏\t里\n",
	"TWVariants.txt":   "裏\t裡\n",
}

func writeDicts(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
}

// newTestApp creates an App over a temp database and a temp dictionary dir.
func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	root := t.TempDir()
	dictDir := filepath.Join(root, "dicts")
	require.NoError(t, os.Mkdir(dictDir, 0755))
	writeDicts(t, dictDir, testDicts)

	a, err := New(Config{
		DBPath:     filepath.Join(root, "db", "occ.db"),
		DictDir:    dictDir,
		SocketPath: filepath.Join(root, "occ.sock"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Stop() })
	return a, dictDir
}

func TestNew_ImportsDictDirIntoEmptyStore(t *testing.T) {
	a, dictDir := newTestApp(t)

	assert.Len(t, a.Converter.Dictionaries(), 4)
	infos, err := a.Store.ListDictionaries()
	require.NoError(t, err)
	require.Len(t, infos, 4)
	for _, info := range infos {
		assert.Equal(t, dictDir, filepath.Dir(info.Source))
	}

	res, err := a.Convert(socket.ConvertParams{Conversion: "s2t", Text: "汉语头发"})
	require.NoError(t, err)
	assert.Equal(t, "漢語頭髮", res.Text)
	assert.True(t, res.Changed)
}

func TestNew_LoadsFromStoreWithoutDictDir(t *testing.T) {
	root := t.TempDir()
	dictDir := filepath.Join(root, "dicts")
	require.NoError(t, os.Mkdir(dictDir, 0755))
	writeDicts(t, dictDir, testDicts)
	dbPath := filepath.Join(root, "occ.db")

	first, err := New(Config{DBPath: dbPath, DictDir: dictDir, SocketPath: filepath.Join(root, "a.sock")})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(Config{DBPath: dbPath, SocketPath: filepath.Join(root, "b.sock")})
	require.NoError(t, err)
	defer second.Close()

	assert.Nil(t, second.Source)
	res, err := second.Convert(socket.ConvertParams{Conversion: "s2tw", Text: "里面"})
	require.NoError(t, err)
	assert.Equal(t, "裡面", res.Text)

	_, err = second.Reload("")
	assert.ErrorIs(t, err, ErrNoDictDir)
}

func TestNew_BadDictDir(t *testing.T) {
	root := t.TempDir()
	_, err := New(Config{DBPath: filepath.Join(root, "occ.db"), DictDir: filepath.Join(root, "missing")})
	require.Error(t, err)

	// The store was released: a second open does not hit the lock timeout.
	a, err := New(Config{DBPath: filepath.Join(root, "occ.db")})
	require.NoError(t, err)
	a.Close()
}

func TestConvert_Errors(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.Convert(socket.ConvertParams{Conversion: "x2y", Text: "汉"})
	assert.ErrorIs(t, err, convert.ErrUnknownConversion)

	res, err := a.Convert(socket.ConvertParams{Conversion: "S2T", Text: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "plain", res.Text)
	assert.False(t, res.Changed)
}

func TestReload_SingleDictionary(t *testing.T) {
	a, dictDir := newTestApp(t)
	writeDicts(t, dictDir, map[string]string{"TWVariants.txt": "裏\t裡\n着\t著\n"})

	res, err := a.Reload("twvariants")
	require.NoError(t, err)
	assert.Equal(t, []string{"TWVariants"}, res.Reloaded)
	assert.Equal(t, 2, res.Pairs)

	out, err := a.Convert(socket.ConvertParams{Conversion: "t2tw", Text: "着裏"})
	require.NoError(t, err)
	assert.Equal(t, "著裡", out.Text)

	_, err = a.Reload("Bogus")
	assert.Error(t, err)
}

func TestReload_RemovedFileUnloads(t *testing.T) {
	a, dictDir := newTestApp(t)
	require.NoError(t, os.Remove(filepath.Join(dictDir, "TWVariants.txt")))

	res, err := a.Reload("TWVariants")
	require.NoError(t, err)
	assert.Empty(t, res.Reloaded)

	_, loaded := a.Converter.Dictionaries()[dictionary.TWVariants]
	assert.False(t, loaded)
	pairs, err := a.Store.LoadDictionary("TWVariants")
	require.NoError(t, err)
	assert.Nil(t, pairs)
}

func TestImport_OtherDirectory(t *testing.T) {
	a, _ := newTestApp(t)
	other := t.TempDir()
	writeDicts(t, other, map[string]string{"JPVariants.txt": "氣\t気\n", "notes.txt": "x\ty\n"})

	res, err := a.Import(other)
	require.NoError(t, err)
	assert.Equal(t, []string{"JPVariants"}, res.Reloaded)

	out, err := a.Convert(socket.ConvertParams{Conversion: "t2jp", Text: "空氣"})
	require.NoError(t, err)
	assert.Equal(t, "空気", out.Text)

	_, err = a.Import(filepath.Join(other, "missing"))
	assert.Error(t, err)
}

func TestHealthAndDictionaries(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.Converter.Warm(convert.S2T))

	h := a.Health()
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 4, h.Dictionaries)
	assert.Equal(t, 2+7+5+1, h.Pairs)
	assert.Equal(t, 1, h.Stages)

	dicts, err := a.Dictionaries()
	require.NoError(t, err)
	assert.Equal(t, len(dictionary.Names()), dicts.Count)
	byName := map[string]socket.DictionaryInfo{}
	for _, d := range dicts.Dictionaries {
		byName[d.Name] = d
	}
	assert.True(t, byName["STPhrases"].Loaded)
	assert.Equal(t, 2, byName["STPhrases"].Pairs)
	assert.False(t, byName["HKVariants"].Loaded)
	assert.Empty(t, byName["HKVariants"].Source)
	assert.False(t, byName["STPhrases"].UpdatedAt.IsZero())
}

// =============================================================================
// Scan: per-stage substitutions and term lookup
// =============================================================================

func TestScan_StagesAndTerms(t *testing.T) {
	a, _ := newTestApp(t)

	res, err := a.Scan(socket.ScanParams{Conversion: "s2tw", Text: "汉语里面", Terms: []string{"里面", "头发", "汉"}})
	require.NoError(t, err)
	assert.Equal(t, "s2tw", res.Conversion)
	assert.Equal(t, "漢語裡面", res.Output)
	assert.Equal(t, []string{"汉", "里面"}, res.Terms)

	require.Len(t, res.Stages, 2)
	assert.Equal(t, convert.STPhrasesCharacters.String(), res.Stages[0].Stage)
	assert.Equal(t, []socket.ScanHit{
		{Start: 0, End: 1, Source: "汉", Target: "漢"},
		{Start: 1, End: 2, Source: "语", Target: "語"},
		{Start: 2, End: 4, Source: "里面", Target: "裏面"},
	}, res.Stages[0].Hits)
	assert.Equal(t, []socket.ScanHit{
		{Start: 2, End: 3, Source: "裏", Target: "裡"},
	}, res.Stages[1].Hits, "offsets refer to the stage input")
}

func TestScan_Errors(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.Scan(socket.ScanParams{Conversion: "nope", Text: "x"})
	assert.ErrorIs(t, err, convert.ErrUnknownConversion)

	_, err = a.Scan(socket.ScanParams{Conversion: "s2t", Text: "x", Terms: []string{""}})
	assert.Error(t, err)
}

// =============================================================================
// Daemon: socket round trip through a started App
// =============================================================================

func TestStart_ServesOverSocket(t *testing.T) {
	a, _ := newTestApp(t)
	a.warm = []convert.Conversion{convert.S2T}
	require.NoError(t, a.Start())

	client := socket.NewClient(a.Server.Addr())
	require.True(t, client.Ping())

	res, err := client.Convert("s2t", "头发")
	require.NoError(t, err)
	assert.Equal(t, "頭髮", res.Text)

	h, err := client.Health()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, h.Stages, 1, "warm builds stages before serving")
}
