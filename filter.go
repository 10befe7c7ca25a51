package catx

import (
	"path"
	"strings"
)

// DefaultTypes is the extension allow-set used when none is configured.
var DefaultTypes = []string{"xml", "xsd", "html", "js", "css", "lua"}

// Filter matches virtual paths against an extension allow-set.
//
// Matching is case-insensitive and considers the substring after the last
// "." in the path's final element. Paths without an extension never match;
// extension-less files are excluded unconditionally.
type Filter struct {
	exts map[string]struct{}
}

// NewFilter builds a Filter from extension names. Leading dots and
// surrounding whitespace are tolerated; empty names are ignored.
func NewFilter(types ...string) Filter {
	exts := make(map[string]struct{}, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if t == "" {
			continue
		}
		exts[t] = struct{}{}
	}
	return Filter{exts: exts}
}

// Match reports whether the virtual path's extension is in the allow-set.
func (f Filter) Match(virtualPath string) bool {
	ext := path.Ext(virtualPath)
	if ext == "" {
		return false
	}
	_, ok := f.exts[strings.ToLower(ext[1:])]
	return ok
}
