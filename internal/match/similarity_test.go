package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadrank-cli/internal/model"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact after normalization", "Acme Studios, Inc.", "Acme Studios", 100},
		{"identical raw", "Supercell Oy", "Supercell", 100},
		{"unrelated", "Acme Studio", "Alpha Gaming", 0},
		{"length gate rejects", "ab", "abcdefgh", 0},
		{"empty side", "", "acme", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Similarity(tc.a, tc.b))
		})
	}
}

func TestSimilarityNormalized_Containment(t *testing.T) {
	// One side contained in the other, both long enough and close in length.
	assert.Equal(t, 97.0, SimilarityNormalized("kabam austin", "kabam austi"))

	// Containment with a short fragment does not qualify.
	assert.Equal(t, 0.0, SimilarityNormalized("ab", "abc"))
}

func TestSimilarityNormalized_NearMiss(t *testing.T) {
	// One typo in a long name clears the alignment-ratio floor.
	a := "international game technology north america division"
	b := "international game technology north america divizion"
	got := SimilarityNormalized(a, b)
	assert.Greater(t, got, 90.0)
	assert.Less(t, got, 100.0)

	// The same edit distance in a short name falls below it and scores 0.
	assert.Equal(t, 0.0, SimilarityNormalized("zynga", "zenga"))
	assert.Equal(t, 0.0, SimilarityNormalized("miniclip internatia", "miniclip internatio"))
}

func TestMatcherBest(t *testing.T) {
	companies := []model.Company{
		{Name: "Acme Studios", Score: 92},
		{Name: "Alpha Gaming", Score: 40},
		{Name: "Supercell", Score: 88},
	}
	m := NewMatcher(companies, 0)

	t.Run("suffix variant accepted", func(t *testing.T) {
		res, ok := m.Best("Acme Studios, Inc.")
		require.True(t, ok)
		assert.Equal(t, "Acme Studios", res.CompanyName)
		assert.GreaterOrEqual(t, res.Confidence, 90.0)
		assert.Equal(t, 92.0, res.CompanyScore)
	})

	t.Run("unrelated rejected", func(t *testing.T) {
		_, ok := m.Best("Quantum Forge Labs")
		assert.False(t, ok)
	})

	t.Run("blank employer", func(t *testing.T) {
		_, ok := m.Best("   ")
		assert.False(t, ok)
	})

	t.Run("suffix-only employer", func(t *testing.T) {
		_, ok := m.Best("Games Studio LLC")
		assert.False(t, ok)
	})
}

func TestMatcherBest_TieBreakDeterministic(t *testing.T) {
	// Two candidates normalize to the same name. The lexically smallest raw
	// name must win no matter the construction order.
	a := []model.Company{{Name: "Acme Inc"}, {Name: "Acme GmbH"}}
	b := []model.Company{{Name: "Acme GmbH"}, {Name: "Acme Inc"}}

	resA, okA := NewMatcher(a, 0).Best("Acme")
	resB, okB := NewMatcher(b, 0).Best("Acme")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, "Acme GmbH", resA.CompanyName)
	assert.Equal(t, resA.CompanyName, resB.CompanyName)
}
