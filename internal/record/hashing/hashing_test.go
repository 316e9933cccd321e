package hashing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"triad/internal/record/hashing"
	"triad/internal/record/models"
	"triad/pkg/testutil"
)

func TestEnrich(t *testing.T) {
	r := testutil.SealedRecord(t, testutil.MetricTech("requests", 42))

	t.Run("captures every dimension hash", func(t *testing.T) {
		enriched, err := hashing.Enrich(r)
		require.NoError(t, err)

		tech, err := hashing.HashTech(r.Tech)
		require.NoError(t, err)
		people, err := hashing.HashPeople(r.People)
		require.NoError(t, err)
		spirit, err := hashing.HashSpirit(r.Spirit)
		require.NoError(t, err)

		assert.Equal(t, tech.String(), enriched.Hashes.Tech)
		assert.Equal(t, people.String(), enriched.Hashes.People)
		assert.Equal(t, spirit.String(), enriched.Hashes.Spirit)
		assert.Equal(t, hashing.Combine(tech, people, spirit).String(), enriched.Hashes.Combined)
		assert.Equal(t, enriched.Hashes.Combined, enriched.IntegrityHash)
	})

	t.Run("is idempotent", func(t *testing.T) {
		first, err := hashing.Enrich(r)
		require.NoError(t, err)
		second, err := hashing.Enrich(first.EncodingRecord)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		tampered := r.Clone()
		tampered.People.Narrative = "edited"
		original := tampered.IntegrityHash

		_, err := hashing.Enrich(tampered)
		require.NoError(t, err)
		assert.Equal(t, original, tampered.IntegrityHash)
	})
}

func TestDetect(t *testing.T) {
	r := testutil.SealedRecord(t, testutil.MetricTech("requests", 42))

	t.Run("sealed record is clean", func(t *testing.T) {
		corrupted, err := hashing.Detect(r)
		require.NoError(t, err)
		assert.False(t, corrupted)
	})

	for _, d := range models.Dimensions {
		t.Run("mutated "+d.String()+" is flagged", func(t *testing.T) {
			mutated := r.Clone()
			testutil.Corrupt(&mutated, d)
			corrupted, err := hashing.Detect(mutated)
			require.NoError(t, err)
			assert.True(t, corrupted)
		})
	}

	t.Run("resealing clears the flag", func(t *testing.T) {
		mutated := r.Clone()
		mutated.People.Narrative = "a legitimate edit"
		sealed, err := hashing.Seal(mutated)
		require.NoError(t, err)
		corrupted, err := hashing.Detect(sealed)
		require.NoError(t, err)
		assert.False(t, corrupted)
	})
}

func TestDomainSeparation(t *testing.T) {
	// The same empty payload shape hashes differently per dimension.
	tech, err := hashing.HashTech(models.TechPayload{})
	require.NoError(t, err)
	fp, err := hashing.Fingerprint(models.TechPayload{})
	require.NoError(t, err)
	assert.NotEqual(t, tech, fp)
}

func TestParseDigest(t *testing.T) {
	d, err := hashing.Fingerprint("input")
	require.NoError(t, err)

	parsed, err := hashing.ParseDigest(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = hashing.ParseDigest("zz")
	assert.Error(t, err)
	_, err = hashing.ParseDigest(strings.Repeat("ab", 16))
	assert.Error(t, err)
}

func TestHashDimension_UnknownDimension(t *testing.T) {
	_, err := hashing.HashDimension(models.EncodingRecord{}, "soul")
	assert.Error(t, err)
}

func TestProperty_FreshlyEnrichedIsNeverCorrupted(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := testutil.RecordGen().Draw(rt, "record")
		enriched, err := hashing.Enrich(r)
		require.NoError(rt, err)

		corrupted, err := hashing.Detect(enriched.EncodingRecord)
		require.NoError(rt, err)
		assert.False(rt, corrupted)
	})
}

func TestProperty_SingleMutationChangesOnlyThatHash(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := testutil.RecordGen().Draw(rt, "record")
		d := testutil.DimensionGen().Draw(rt, "dimension")

		before, err := hashing.Compute(r)
		require.NoError(rt, err)
		testutil.Corrupt(&r, d)
		after, err := hashing.Compute(r)
		require.NoError(rt, err)

		for _, other := range models.Dimensions {
			if other == d {
				assert.NotEqual(rt, before.For(other), after.For(other))
			} else {
				assert.Equal(rt, before.For(other), after.For(other))
			}
		}
		assert.NotEqual(rt, before.Combined, after.Combined)
	})
}
