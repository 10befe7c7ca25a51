// Package pathutil normalizes catalog virtual paths.
package pathutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize canonicalizes a catalog-recorded virtual path.
//
// It converts backslashes to forward slashes, strips leading and trailing
// slashes, and collapses consecutive slashes. Catalogs in the wild were
// written on a platform that accepts either separator.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return p
	}

	parts := strings.Split(p, "/")
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	return strings.Join(result, "/")
}

// Key returns the namespace key for a virtual path: normalized and Unicode
// case-folded. The catalog format's native platform is case-insensitive, so
// override resolution must match paths that differ only in case.
func Key(p string) string {
	return cases.Fold().String(Normalize(p))
}
