package catx

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureEntry is one file to pack into a test catalog pair.
type fixtureEntry struct {
	path    string
	content string
}

// writePair writes a catalog file and its paired data blob under dir.
// The blob is the raw concatenation of entry content in listed order.
func writePair(t *testing.T, dir, name string, entries ...fixtureEntry) CatalogPair {
	t.Helper()

	var cat strings.Builder
	var dat bytes.Buffer
	for _, e := range entries {
		sum := md5.Sum([]byte(e.content))
		fmt.Fprintf(&cat, "%s %d %d %x\n", e.path, len(e.content), 1715600000, sum)
		dat.WriteString(e.content)
	}

	stem := strings.TrimSuffix(name, ".cat")
	pair := CatalogPair{
		Name:     name,
		Path:     filepath.Join(dir, name),
		DataPath: filepath.Join(dir, stem+".dat"),
	}
	require.NoError(t, os.WriteFile(pair.Path, []byte(cat.String()), 0o644))
	require.NoError(t, os.WriteFile(pair.DataPath, dat.Bytes(), 0o644))
	return pair
}

// readDest reads an extracted file from the destination tree.
func readDest(t *testing.T, destDir, virtualPath string) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(virtualPath)))
	require.NoError(t, err)
	return content
}
