// Package catx extracts files from cat/dat catalog archives.
//
// An archive is a pair of sibling files: a text catalog (.cat) listing
// entries in storage order, and a data blob (.dat) holding the raw
// concatenation of entry content in that same order. Content is stored
// uncompressed; an entry's offset is the running sum of the sizes of the
// entries listed before it.
//
// A game installation ships several numbered pairs plus optional expansion
// pairs. Pairs are layered: when two catalogs list the same virtual path,
// the later pair in load order wins. This models patch and DLC overrides.
//
// The package resolves the layered namespace, filters by file extension,
// and copies the selected byte ranges verbatim to a destination tree.
package catx
