package catx

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadResolved builds a resolved namespace from pairs already on disk.
func loadResolved(t *testing.T, pairs ...CatalogPair) map[string]Resolved {
	t.Helper()
	catalogs := make([]*Catalog, 0, len(pairs))
	for _, pair := range pairs {
		cat, err := LoadCatalog(pair, nil)
		require.NoError(t, err)
		catalogs = append(catalogs, cat)
	}
	return Resolve(catalogs)
}

func TestExtractFiltersByType(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat",
		fixtureEntry{"a.xml", "0123456789"},
		fixtureEntry{"b.lua", "01234"},
	)

	x := NewExtractor(dest, ExtractWithFilter(NewFilter("xml")))
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, "0123456789", string(readDest(t, dest, "a.xml")))
	_, err = os.Stat(filepath.Join(dest, "b.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractByteRanges(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat",
		fixtureEntry{"index/macros.xml", "first"},
		fixtureEntry{"libraries/wares.xml", "second entry content"},
		fixtureEntry{"ui/core.lua", "third"},
	)

	x := NewExtractor(dest)
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Extracted)

	assert.Equal(t, "first", string(readDest(t, dest, "index/macros.xml")))
	assert.Equal(t, "second entry content", string(readDest(t, dest, "libraries/wares.xml")))
	assert.Equal(t, "third", string(readDest(t, dest, "ui/core.lua")))
}

func TestExtractTruncatedBlobIsolated(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat",
		fixtureEntry{"a.xml", "aaaa"},
		fixtureEntry{"b.xml", "bbbb"},
	)
	// Truncate the blob below b.xml's range but keep a.xml intact.
	require.NoError(t, os.Truncate(pair.DataPath, 6))

	x := NewExtractor(dest)
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "b.xml", summary.Failures[0].Path)
	assert.ErrorIs(t, summary.Failures[0].Err, ErrTruncatedData)

	assert.Equal(t, "aaaa", string(readDest(t, dest, "a.xml")))
}

func TestExtractOnlyAllowList(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat",
		fixtureEntry{"a.xml", "aa"},
		fixtureEntry{"b.xml", "bb"},
	)

	x := NewExtractor(dest, ExtractOnly("A.XML"))
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "aa", string(readDest(t, dest, "a.xml")))
}

func TestExtractOverwritesExisting(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat", fixtureEntry{"a.xml", "fresh"})
	require.NoError(t, os.WriteFile(filepath.Join(dest, "a.xml"), []byte("stale and longer"), 0o644))

	x := NewExtractor(dest)
	defer x.Close()

	_, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(readDest(t, dest, "a.xml")))
}

func TestExtractIdempotent(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat",
		fixtureEntry{"a.xml", "alpha"},
		fixtureEntry{"dir/b.xml", "beta"},
	)

	for i := 0; i < 2; i++ {
		x := NewExtractor(dest)
		summary, err := x.Extract(context.Background(), loadResolved(t, pair))
		require.NoError(t, x.Close())
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Extracted)
	}

	assert.Equal(t, "alpha", string(readDest(t, dest, "a.xml")))
	assert.Equal(t, "beta", string(readDest(t, dest, "dir/b.xml")))
}

func TestExtractCanceledContext(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat", fixtureEntry{"a.xml", "aa"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := NewExtractor(dest)
	defer x.Close()

	summary, err := x.Extract(ctx, loadResolved(t, pair))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Extracted)
}

func TestExtractRejectsEscapingPaths(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	dest := filepath.Join(base, "out")
	require.NoError(t, os.Mkdir(dest, 0o755))

	pair := writePair(t, src, "01.cat",
		fixtureEntry{`..\evil.xml`, "escapes via backslash"},
		fixtureEntry{"a/../../evil2.xml", "escapes via dotdot element"},
		fixtureEntry{"ok.xml", "contained"},
	)

	x := NewExtractor(dest)
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Failures, 2)
	for _, failure := range summary.Failures {
		assert.ErrorIs(t, failure.Err, ErrInvalidPath)
	}

	// Nothing may land outside the destination root.
	_, statErr := os.Stat(filepath.Join(base, "evil.xml"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
	_, statErr = os.Stat(filepath.Join(base, "evil2.xml"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
	assert.Equal(t, "contained", string(readDest(t, dest, "ok.xml")))
}

func TestExtractWriteErrorChain(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat", fixtureEntry{"a/b.xml", "content"})
	// A file where a directory is needed makes MkdirAll fail.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "a"), []byte("in the way"), 0o644))

	x := NewExtractor(dest)
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	require.Len(t, summary.Failures, 1)
	assert.ErrorIs(t, summary.Failures[0].Err, ErrDestinationWrite)

	// The OS error stays on the chain for callers to inspect.
	var pathErr *fs.PathError
	assert.True(t, errors.As(summary.Failures[0].Err, &pathErr))
}

func TestExtractZeroSizeEntry(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	pair := writePair(t, src, "01.cat",
		fixtureEntry{"empty.xml", ""},
		fixtureEntry{"a.xml", "aa"},
	)

	x := NewExtractor(dest)
	defer x.Close()

	summary, err := x.Extract(context.Background(), loadResolved(t, pair))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Extracted)
	assert.Empty(t, readDest(t, dest, "empty.xml"))
}
