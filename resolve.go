package catx

import "github.com/meigma/catx/internal/pathutil"

// Resolve folds catalogs, in the order given, into a single virtual-path
// namespace.
//
// Catalogs must be ordered ascending by override priority (base pairs first,
// expansion pairs last). When two catalogs list the same virtual path the
// later entry wins, modeling patch and DLC layering. Keys are normalized and
// case-folded; the first-seen spelling of a path is kept so the extraction
// destination is stable across overrides that differ only in case.
//
// The fold is deterministic: the same catalog order produces the same
// mapping. Cost is O(total entries).
func Resolve(catalogs []*Catalog) map[string]Resolved {
	resolved := make(map[string]Resolved)
	for _, cat := range catalogs {
		for _, entry := range cat.Entries {
			key := pathutil.Key(entry.Path)
			entry.Path = pathutil.Normalize(entry.Path)
			if prev, ok := resolved[key]; ok {
				entry.Path = prev.Entry.Path
			}
			resolved[key] = Resolved{Entry: entry, DataPath: cat.Pair.DataPath}
		}
	}
	return resolved
}
