// Package catalog loads the three raw datasets (games, reviews,
// completion times) into the in-memory record model the normalization
// engine consumes.
//
// The loader owns everything the engine treats as an external concern:
// CSV decoding, embedded-JSON column parsing (developer/publisher/genre/
// category lists, the tag vote map), flattening of the dotted author
// columns in the reviews export, and type coercion. Rows that fail to
// parse are dropped and counted, never fatal.
//
// Sources are read from local disk or, when the file is absent locally,
// from the configured object-storage bucket. Each load also returns a
// SourceInfo (name, size, sha256) for the engine's cache fingerprint.
package catalog
