package catx

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/meigma/catx/internal/datasrc"
	"github.com/meigma/catx/internal/pathutil"
)

// Extractor copies resolved entries out of their data blobs.
//
// One read handle is shared per data blob, opened lazily on first entry and
// released by Close. Per-entry failures (truncated blob, write error) are
// recorded in the Summary and do not stop the run.
type Extractor struct {
	destDir string
	filter  Filter
	only    map[string]struct{} // folded allow-list; nil means all
	sources *datasrc.Cache
	logger  *slog.Logger
}

// ExtractOption configures an Extractor.
type ExtractOption func(*Extractor)

// ExtractWithFilter sets the extension filter. Default: DefaultTypes.
func ExtractWithFilter(f Filter) ExtractOption {
	return func(x *Extractor) {
		x.filter = f
	}
}

// ExtractOnly restricts extraction to the named virtual paths.
// Paths are matched the same way the namespace is keyed: normalized and
// case-folded.
func ExtractOnly(paths ...string) ExtractOption {
	return func(x *Extractor) {
		x.only = make(map[string]struct{}, len(paths))
		for _, p := range paths {
			x.only[pathutil.Key(p)] = struct{}{}
		}
	}
}

// ExtractWithLogger sets the logger for per-entry diagnostics.
func ExtractWithLogger(logger *slog.Logger) ExtractOption {
	return func(x *Extractor) {
		x.logger = logger
	}
}

// NewExtractor creates an Extractor writing under destDir.
func NewExtractor(destDir string, opts ...ExtractOption) *Extractor {
	x := &Extractor{
		destDir: destDir,
		filter:  NewFilter(DefaultTypes...),
		sources: datasrc.NewCache(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *Extractor) log() *slog.Logger {
	if x.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return x.logger
}

// Close releases all data blob handles. Safe to call more than once.
func (x *Extractor) Close() error {
	return x.sources.CloseAll()
}

// Extract copies every passing entry of the resolved namespace to the
// destination tree and returns a summary of the run.
//
// Entries are processed in sorted key order so runs over the same inputs
// are deterministic. Extraction stops early only when ctx is canceled, in
// which case the context error is returned alongside the partial summary.
func (x *Extractor) Extract(ctx context.Context, resolved map[string]Resolved) (Summary, error) {
	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var summary Summary
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		r := resolved[key]
		if x.only != nil {
			if _, ok := x.only[key]; !ok {
				summary.Skipped++
				continue
			}
		}
		if !x.filter.Match(r.Entry.Path) {
			x.log().Debug("skipping entry", "path", r.Entry.Path)
			summary.Skipped++
			continue
		}

		if err := x.extractEntry(&r); err != nil {
			x.log().Warn("entry failed", "path", r.Entry.Path, "error", err)
			summary.Failed++
			summary.Failures = append(summary.Failures, EntryError{Path: r.Entry.Path, Err: err})
			continue
		}
		x.log().Debug("extracted entry", "path", r.Entry.Path, "size", r.Entry.Size)
		summary.Extracted++
	}
	return summary, nil
}

// extractEntry copies one entry's byte range to its destination path.
func (x *Extractor) extractEntry(r *Resolved) error {
	// The destination is root + virtual path; an entry with "." or ".."
	// elements could escape the root, so it is rejected, not written.
	if r.Entry.Path == "." || !fs.ValidPath(r.Entry.Path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, r.Entry.Path)
	}

	src, err := x.sources.Get(r.DataPath)
	if err != nil {
		return err
	}
	if r.Entry.Offset+r.Entry.Size > src.Size() {
		return fmt.Errorf("%w: %s needs bytes [%d, %d) of %d",
			ErrTruncatedData, filepath.Base(r.DataPath),
			r.Entry.Offset, r.Entry.Offset+r.Entry.Size, src.Size())
	}

	destPath := filepath.Join(x.destDir, filepath.FromSlash(r.Entry.Path))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}

	section := io.NewSectionReader(src, r.Entry.Offset, r.Entry.Size)
	if _, err := io.Copy(f, section); err != nil {
		_ = f.Close()           //nolint:errcheck // write already failed
		_ = os.Remove(destPath) //nolint:errcheck // best-effort cleanup of partial file
		return fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	return nil
}
