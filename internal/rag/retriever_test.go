package rag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(name string, rating int) Provider {
	return Provider{
		ProviderID:           name,
		ProviderName:         name,
		ProviderCity:         "SPRINGFIELD",
		ProviderState:        "IL",
		ProviderZipCode:      "62701",
		MSDRGDefinition:      470,
		StarRating:           rating,
		AverageTotalPayments: 10000,
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-3, 0}), 1e-9)

	t.Run("degenerate inputs score zero", func(t *testing.T) {
		assert.Zero(t, CosineSimilarity(nil, nil))
		assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
		assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 0}))
	})
}

func TestTopKBySimilarity(t *testing.T) {
	query := []float32{1, 0}

	t.Run("never returns more than k", func(t *testing.T) {
		var providers []Provider
		var vecs [][]float32
		for i := 0; i < 20; i++ {
			providers = append(providers, testProvider(fmt.Sprintf("P%02d", i), 5))
			vecs = append(vecs, []float32{1, float32(i)})
		}

		scored := TopKBySimilarity(query, providers, vecs, 5)
		require.Len(t, scored, 5)
	})

	t.Run("descending score with ranks", func(t *testing.T) {
		providers := []Provider{testProvider("A", 5), testProvider("B", 5), testProvider("C", 5)}
		vecs := [][]float32{
			{0, 1},   // orthogonal
			{1, 0},   // identical direction
			{1, 1},   // in between
		}

		scored := TopKBySimilarity(query, providers, vecs, 5)
		require.Len(t, scored, 3)
		assert.Equal(t, "B", scored[0].Provider.ProviderName)
		assert.Equal(t, "C", scored[1].Provider.ProviderName)
		assert.Equal(t, "A", scored[2].Provider.ProviderName)
		for i, s := range scored {
			assert.Equal(t, i+1, s.Rank)
			if i > 0 {
				assert.GreaterOrEqual(t, scored[i-1].Score, s.Score)
			}
		}
	})

	t.Run("ties keep corpus order", func(t *testing.T) {
		providers := []Provider{testProvider("FIRST", 5), testProvider("SECOND", 5), testProvider("THIRD", 5)}
		vecs := [][]float32{{1, 0}, {2, 0}, {3, 0}} // all cosine 1.0

		scored := TopKBySimilarity(query, providers, vecs, 5)
		require.Len(t, scored, 3)
		assert.Equal(t, "FIRST", scored[0].Provider.ProviderName)
		assert.Equal(t, "SECOND", scored[1].Provider.ProviderName)
		assert.Equal(t, "THIRD", scored[2].Provider.ProviderName)
	})

	t.Run("zero-magnitude vectors are excluded", func(t *testing.T) {
		providers := []Provider{testProvider("ZERO", 5), testProvider("OK", 5)}
		vecs := [][]float32{{0, 0}, {1, 0}}

		scored := TopKBySimilarity(query, providers, vecs, 5)
		require.Len(t, scored, 1)
		assert.Equal(t, "OK", scored[0].Provider.ProviderName)
	})

	t.Run("fewer than k returns all", func(t *testing.T) {
		providers := []Provider{testProvider("ONLY", 5)}
		vecs := [][]float32{{1, 1}}

		scored := TopKBySimilarity(query, providers, vecs, 5)
		assert.Len(t, scored, 1)
	})
}

func TestKeywordMatch(t *testing.T) {
	hospitals := []Provider{
		testProvider("GENERAL HOSPITAL", 5),
		testProvider("MERCY MEDICAL CENTER", 8),
		testProvider("GENERAL HOSPITAL EAST", 3),
	}

	t.Run("substring match in first-match order", func(t *testing.T) {
		scored := KeywordMatch("general hospital costs", hospitals, 5)
		require.Len(t, scored, 2)
		assert.Equal(t, "GENERAL HOSPITAL", scored[0].Provider.ProviderName)
		assert.Equal(t, "GENERAL HOSPITAL EAST", scored[1].Provider.ProviderName)
		assert.Equal(t, 1, scored[0].Rank)
		assert.Equal(t, 2, scored[1].Rank)
	})

	t.Run("respects k", func(t *testing.T) {
		scored := KeywordMatch("general hospital", hospitals, 1)
		require.Len(t, scored, 1)
		assert.Equal(t, "GENERAL HOSPITAL", scored[0].Provider.ProviderName)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		scored := KeywordMatch("sunshine bakery", hospitals, 5)
		assert.Empty(t, scored)
	})
}
