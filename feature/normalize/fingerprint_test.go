package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	sources := []SourceInfo{
		{Name: "games.csv", Size: 100, SHA256: "aaa"},
		{Name: "reviews.csv", Size: 200, SHA256: "bbb"},
	}
	opts := testOptions()

	t.Run("SourceOrderIrrelevant", func(t *testing.T) {
		reversed := []SourceInfo{sources[1], sources[0]}
		assert.Equal(t, Fingerprint(sources, opts), Fingerprint(reversed, opts))
	})

	t.Run("ContentChangeChangesKey", func(t *testing.T) {
		changed := []SourceInfo{
			{Name: "games.csv", Size: 100, SHA256: "ccc"},
			sources[1],
		}
		assert.NotEqual(t, Fingerprint(sources, opts), Fingerprint(changed, opts))
	})

	t.Run("OptionChangeChangesKey", func(t *testing.T) {
		limited := opts
		limited.ReviewLimit = 5000
		assert.NotEqual(t, Fingerprint(sources, opts), Fingerprint(sources, limited))

		skipped := opts
		skipped.SkipCompletions = true
		assert.NotEqual(t, Fingerprint(sources, opts), Fingerprint(sources, skipped))

		shifted := opts
		shifted.ReferenceDate = opts.ReferenceDate.AddDate(0, 1, 0)
		assert.NotEqual(t, Fingerprint(sources, opts), Fingerprint(sources, shifted))
	})

	t.Run("StableHexDigest", func(t *testing.T) {
		fp := Fingerprint(sources, opts)
		assert.Len(t, fp, 64)
		assert.Equal(t, strings.ToLower(fp), fp)
		assert.Equal(t, fp, Fingerprint(sources, opts))
	})
}

func TestHashReader(t *testing.T) {
	sum, n, err := HashReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)
}
