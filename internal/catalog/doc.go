// Package catalog loads and validates the universe of named thread colors a
// pattern may use.
//
// A catalog is an ordered list of ThreadColor values in which codes, names and
// colors are each unique. Loading is all-or-nothing: the first malformed
// record or any uniqueness collision fails the whole load and no partial
// catalog is returned. Once built, a Catalog is never modified; subsets are
// new catalogs.
//
// Catalog files are JSON arrays or YAML lists of {code, name, color} records
// where color is "#RRGGBB". A default DMC catalog is compiled into the binary.
package catalog
