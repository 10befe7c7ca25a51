// Package catparse parses text catalog files into ordered entries.
//
// Each catalog line records one packed file:
//
//	<path> <size> <timestamp> <hash>
//
// Fields are space separated, but the path itself may contain spaces. The
// rightmost three tokens are therefore taken as size, timestamp, and hash;
// everything before them is the path. Entry offsets are not stored in the
// catalog — they are the running sum of the sizes of preceding entries.
package catparse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ErrMalformed is returned when a catalog line cannot be parsed.
var ErrMalformed = errors.New("catx: malformed catalog")

// HashAlgorithm is the digest algorithm catalogs record for entry content.
// The hash is carried as metadata and never verified during extraction.
const HashAlgorithm = digest.Algorithm("md5")

// progressInterval controls how often Parse reports line progress.
const progressInterval = 10000

// Entry describes one packed file as listed by a catalog.
type Entry struct {
	// Path is the virtual path recorded in the catalog, forward slashes.
	Path string

	// Size is the entry's byte count in the data blob.
	Size int64

	// Offset is the entry's byte position in the data blob. It is derived
	// during parsing, not stored in the catalog.
	Offset int64

	// Timestamp is the recorded modification time in Unix seconds.
	// Zero when the catalog field is not numeric.
	Timestamp int64

	// Hash is the recorded content digest, carried but never verified.
	Hash digest.Digest
}

// Option configures Parse.
type Option func(*parser)

// WithLogger sets the logger used for progress reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

type parser struct {
	logger *slog.Logger
}

func (p *parser) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.logger
}

// Parse reads a text catalog and returns its entries in storage order with
// computed offsets.
//
// Parse fails with an error wrapping ErrMalformed when a line has fewer than
// four tokens or its size token is not a non-negative integer. The error
// names the offending line number.
func Parse(r io.Reader, opts ...Option) ([]Entry, error) {
	p := parser{}
	for _, opt := range opts {
		opt(&p)
	}

	var entries []Entry
	var offset int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if lineno%progressInterval == 0 {
			p.log().Info("parsing catalog", "lines", lineno)
		}

		entry, err := parseLine(strings.TrimRight(scanner.Text(), "\r"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		entry.Offset = offset
		offset += entry.Size
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return entries, nil
}

// parseLine splits one catalog line per the rightmost-three-tokens rule.
// Interior spaces in the path are preserved exactly.
func parseLine(line string) (Entry, error) {
	rest := line
	var tokens [3]string // size, timestamp, hash
	for i := len(tokens) - 1; i >= 0; i-- {
		rest = strings.TrimRight(rest, " \t")
		cut := strings.LastIndexAny(rest, " \t")
		if cut < 0 {
			return Entry{}, fmt.Errorf("%w: expected path, size, timestamp, hash", ErrMalformed)
		}
		tokens[i] = rest[cut+1:]
		rest = rest[:cut]
	}
	path := strings.TrimRight(rest, " \t")
	if path == "" {
		return Entry{}, fmt.Errorf("%w: expected path, size, timestamp, hash", ErrMalformed)
	}

	size, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil || size < 0 {
		return Entry{}, fmt.Errorf("%w: invalid size %q", ErrMalformed, tokens[0])
	}

	// Timestamp and hash are carried as recorded. A non-numeric timestamp
	// is kept as zero rather than rejecting the line.
	ts, _ := strconv.ParseInt(tokens[1], 10, 64)

	return Entry{
		Path:      path,
		Size:      size,
		Timestamp: ts,
		Hash:      digest.NewDigestFromEncoded(HashAlgorithm, tokens[2]),
	}, nil
}
