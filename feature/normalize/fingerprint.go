package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"time"
)

// SourceInfo identifies one raw input to the pipeline. Identity, size and
// content checksum all participate in the fingerprint so any change to a
// source forces a rebuild.
type SourceInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Fingerprint derives the cache key for one engine run: a digest over the
// raw input sources and every option that affects output. Source order
// does not matter.
func Fingerprint(sources []SourceInfo, opts Options) string {
	sorted := make([]SourceInfo, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := sha256.New()
	for _, s := range sorted {
		fmt.Fprintf(h, "src|%s|%d|%s\n", s.Name, s.Size, s.SHA256)
	}
	fmt.Fprintf(h, "opts|limit=%d|games=%t|reviews=%t|completions=%t|ref=%s\n",
		opts.ReviewLimit, opts.SkipGames, opts.SkipReviews, opts.SkipCompletions,
		opts.ReferenceDate.UTC().Format(time.RFC3339))

	return hex.EncodeToString(h.Sum(nil))
}

// HashReader checksums a raw source stream for use in a SourceInfo.
func HashReader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, fmt.Errorf("hashing source: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
