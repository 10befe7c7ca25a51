package catx

import "github.com/meigma/catx/internal/catparse"

// Entry represents a file packed in a catalog archive.
type Entry = catparse.Entry

// HashAlgorithm is the digest algorithm catalogs record for entry content.
const HashAlgorithm = catparse.HashAlgorithm

// CatalogPair locates one catalog file and its paired data blob on disk.
type CatalogPair struct {
	// Name is the catalog file name, e.g. "01.cat". Include-lists match
	// against it.
	Name string

	// Path is the filesystem path of the catalog file.
	Path string

	// DataPath is the filesystem path of the paired data blob.
	DataPath string
}

// Catalog is one parsed catalog with a reference to its data blob.
// Entries are in storage order with computed offsets.
type Catalog struct {
	Pair    CatalogPair
	Entries []Entry
}

// Resolved binds a winning entry to the data blob that holds its content.
type Resolved struct {
	Entry    Entry
	DataPath string
}

// Summary reports the outcome of a run.
//
// Per-entry failures do not abort extraction; they are collected here.
type Summary struct {
	Extracted int
	Skipped   int
	Failed    int
	Failures  []EntryError
}

// EntryError records a single entry that failed to extract.
type EntryError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e EntryError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e EntryError) Unwrap() error {
	return e.Err
}
