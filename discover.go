package catx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	catalogExt = ".cat"
	dataExt    = ".dat"

	// Signature catalogs ship alongside content catalogs and hold no
	// extractable entries.
	signatureSuffix = "_sig"

	// expansionsDir is the subdirectory holding expansion archive pairs.
	expansionsDir = "extensions"
)

// Discover enumerates catalog pairs in sourceDir, in ascending name order.
//
// A pair is any "<name>.cat" file with its sibling "<name>.dat"; signature
// catalogs ("*_sig.cat") are skipped. The data blob is not required to exist
// at discovery time — a missing blob is detected and warned about at load.
//
// When expansions is true, subdirectories of sourceDir/extensions are also
// scanned, in directory name order, and their pairs appended after the base
// set so expansion content overrides base content. Directories without
// catalog files contribute nothing; unreadable ones are silently ignored.
func Discover(sourceDir string, expansions bool) ([]CatalogPair, error) {
	pairs, err := discoverDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}
	if !expansions {
		return pairs, nil
	}

	subs, err := os.ReadDir(filepath.Join(sourceDir, expansionsDir))
	if err != nil {
		// Best-effort: an installation without an extensions
		// directory is not an error.
		return pairs, nil
	}
	for _, sub := range subs {
		if !sub.IsDir() {
			continue
		}
		more, err := discoverDir(filepath.Join(sourceDir, expansionsDir, sub.Name()))
		if err != nil {
			continue
		}
		pairs = append(pairs, more...)
	}
	return pairs, nil
}

// discoverDir lists the catalog pairs directly inside dir.
// os.ReadDir returns entries sorted by name, which gives numbered catalogs
// their ascending override order.
func discoverDir(dir string) ([]CatalogPair, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var pairs []CatalogPair
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		stem, ok := strings.CutSuffix(name, catalogExt)
		if !ok || strings.HasSuffix(stem, signatureSuffix) {
			continue
		}
		pairs = append(pairs, CatalogPair{
			Name:     name,
			Path:     filepath.Join(dir, name),
			DataPath: filepath.Join(dir, stem+dataExt),
		})
	}
	return pairs, nil
}
