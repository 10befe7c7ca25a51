package catx

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Run extracts matching files from the catalog pairs under sourceDir into
// destDir and returns a summary of extracted, skipped, and failed entries.
//
// The pipeline is strictly sequential: discover pairs, parse catalogs,
// resolve the layered namespace, filter, extract. Run aborts before any
// extraction when the source directory is inaccessible, no catalog pairs
// are found, or a catalog is malformed. A pair whose data blob is missing
// is skipped with a warning. Per-entry failures during extraction never
// abort the run; they are reported in the summary.
//
// Canceling ctx stops extraction and releases all open data blob handles.
func Run(ctx context.Context, sourceDir, destDir string, opts ...Option) (Summary, error) {
	cfg := runConfig{types: DefaultTypes}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log()

	pairs, err := Discover(sourceDir, cfg.expansions)
	if err != nil {
		return Summary{}, err
	}
	if len(cfg.include) > 0 {
		pairs = includePairs(pairs, cfg.include)
	}
	if len(pairs) == 0 {
		return Summary{}, fmt.Errorf("%w in %s", ErrNoCatalogs, sourceDir)
	}
	log.Info("discovered catalog pairs", "count", len(pairs))

	catalogs := make([]*Catalog, 0, len(pairs))
	for _, pair := range pairs {
		if _, err := os.Stat(pair.DataPath); err != nil {
			log.Warn("skipping catalog pair", "catalog", pair.Name,
				"error", fmt.Sprintf("%v: %s", ErrMissingData, pair.DataPath))
			continue
		}
		cat, err := LoadCatalog(pair, cfg.logger)
		if err != nil {
			return Summary{}, err
		}
		log.Info("loaded catalog", "name", pair.Name, "entries", len(cat.Entries))
		catalogs = append(catalogs, cat)
	}

	resolved := Resolve(catalogs)
	log.Info("resolved namespace", "paths", len(resolved))

	extractOpts := []ExtractOption{
		ExtractWithFilter(NewFilter(cfg.types...)),
		ExtractWithLogger(cfg.logger),
	}
	if len(cfg.paths) > 0 {
		extractOpts = append(extractOpts, ExtractOnly(cfg.paths...))
	}
	x := NewExtractor(destDir, extractOpts...)
	defer x.Close()

	summary, err := x.Extract(ctx, resolved)
	log.Info("run complete",
		"extracted", summary.Extracted,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, err
}

// includePairs keeps the pairs whose catalog name is in the include list,
// preserving discovery order. Names match with or without the ".cat" suffix.
func includePairs(pairs []CatalogPair, include []string) []CatalogPair {
	names := make(map[string]struct{}, len(include))
	for _, n := range include {
		names[strings.TrimSuffix(n, catalogExt)] = struct{}{}
	}

	kept := pairs[:0]
	for _, pair := range pairs {
		if _, ok := names[strings.TrimSuffix(pair.Name, catalogExt)]; ok {
			kept = append(kept, pair)
		}
	}
	return kept
}
