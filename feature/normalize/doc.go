// Package normalize turns the three raw catalog datasets into a fully
// normalized, immutable snapshot with deterministic surrogate keys.
//
// The hard requirement is that a dimension row receives the same integer
// ID on every run, on every machine, and for every target store, with no
// coordination at write time. The engine achieves this with a pure
// allocation function: collect the complete canonical name set for a
// dimension, sort it byte-wise, and assign IDs by sorted rank. No counter,
// no registry, no discovery-order dependence.
//
// # Pipeline
//
// Normalize -> Aggregate -> SimulatePriceHistory, all single-pass and
// single-threaded so that fixed iteration and summation orders make the
// output byte-for-byte reproducible. Build runs the whole pipeline;
// Store.LoadOrBuild wraps it with a fingerprint-keyed on-disk cache so
// repeated runs over unchanged inputs skip recomputation entirely.
//
// # Determinism contract
//
//   - Dimension IDs depend only on the set of canonical names, never on
//     the order names were observed.
//   - Aggregates sum in ascending primary-key order, so floats reproduce
//     bit-identically.
//   - The price simulator seeds one PRNG per game from the app id alone;
//     game iteration order cannot perturb any game's sequence.
//   - Every output table is sorted by its primary key.
//
// The snapshot is immutable once built and may be read concurrently by
// any number of import adapters.
package normalize
