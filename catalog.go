package catx

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/meigma/catx/internal/catparse"
)

// LoadCatalog parses the catalog file of a pair.
//
// Entries are returned in storage order with offsets computed as the running
// sum of preceding sizes. The paired data blob is not opened; blobs are
// opened lazily on first read during extraction.
func LoadCatalog(pair CatalogPair, logger *slog.Logger) (*Catalog, error) {
	f, err := os.Open(pair.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", pair.Name, err)
	}
	defer f.Close()

	entries, err := catparse.Parse(f, catparse.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", pair.Name, err)
	}

	return &Catalog{Pair: pair, Entries: entries}, nil
}
