package catx

import (
	"errors"

	"github.com/meigma/catx/internal/catparse"
)

// ErrMalformedCatalog is returned when a catalog line cannot be parsed.
// A malformed catalog aborts the run during the load phase: a bad line
// invalidates the computed offsets of every entry after it.
var ErrMalformedCatalog = catparse.ErrMalformed

var (
	// ErrNoCatalogs is returned when discovery finds no catalog pairs.
	ErrNoCatalogs = errors.New("catx: no catalog files found")

	// ErrMissingData marks a catalog whose paired data blob is absent.
	// The pair is skipped with a warning; the run continues.
	ErrMissingData = errors.New("catx: missing data file")

	// ErrTruncatedData is returned when a data blob is shorter than an
	// entry's offset plus size. Per-entry, non-fatal.
	ErrTruncatedData = errors.New("catx: truncated data file")

	// ErrInvalidPath marks an entry whose virtual path cannot be contained
	// under the destination root, such as one with ".." elements.
	// Per-entry, non-fatal.
	ErrInvalidPath = errors.New("catx: invalid entry path")

	// ErrDestinationWrite marks a failure writing an extracted file.
	// Per-entry, non-fatal.
	ErrDestinationWrite = errors.New("catx: destination write")
)
