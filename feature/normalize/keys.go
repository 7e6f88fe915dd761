package normalize

import (
	"sort"
	"strings"
)

// CanonicalName trims the raw spelling and collapses internal whitespace
// runs to single spaces. It reports false for names that are empty after
// trimming; such entries are skipped during extraction.
//
// Canonicalization must happen before allocation: two spellings that
// canonicalize differently are two dimension rows, case-sensitively.
func CanonicalName(raw string) (string, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", false
	}
	return strings.Join(fields, " "), true
}

// AllocateIDs assigns deterministic surrogate IDs to a set of canonical
// names. The assignment is a bijection onto {1..n}: names are sorted
// byte-wise lexicographically and numbered by rank. The result depends
// only on the set of names, never on the order they were collected, so
// independent runs and independent target stores agree without any
// shared registry.
//
// Duplicates in the input are collapsed. Note the accepted boundary:
// determinism is scoped to "same input set"; growing the set with a name
// that sorts early shifts the ranks behind it.
func AllocateIDs(names []string) map[string]int {
	uniq := make(map[string]struct{}, len(names))
	for _, n := range names {
		uniq[n] = struct{}{}
	}

	sorted := make([]string, 0, len(uniq))
	for n := range uniq {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	ids := make(map[string]int, len(sorted))
	for rank, n := range sorted {
		ids[n] = rank + 1
	}
	return ids
}
