package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineageThroughTime_KnownTree(t *testing.T) {
	// ((a:1,b:2)ab:1,c:3): speciations at 0 (root) and 1 (ab); extinction of
	// a at depth 2; b and c reach the height and are not extinctions.
	tr := extinctTestTree()
	times, counts := LineageThroughTime(tr)

	require.Equal(t, []float64{0, 1, 2}, times)
	require.Equal(t, []int{2, 3, 2}, counts)
}

func TestLineageThroughTime_ZeroDepthTree(t *testing.T) {
	times, counts := LineageThroughTime(NewTree())
	assert.Empty(t, times)
	assert.Empty(t, counts)
}

func TestLineageThroughTime_PureBirthMonotone(t *testing.T) {
	s := NewSimulator(NewConstantRateBirth(1), rand.New(rand.NewSource(42)))
	tree, err := s.Simulate(ModelConfig{TreeSize: 20})
	require.NoError(t, err)

	times, counts := LineageThroughTime(tree)
	require.Len(t, times, 19) // 19 speciations take 1 lineage to 20

	prev := 1
	for i, c := range counts {
		assert.Equal(t, prev+1, c, "pure-birth counts must only increment")
		if i > 0 {
			assert.GreaterOrEqual(t, times[i], times[i-1], "times must be sorted")
		}
		prev = c
	}
	assert.Equal(t, 20, counts[len(counts)-1])
}

func TestLineageThroughTime_RoundTrip(t *testing.T) {
	// Reconstructed counts move by exactly +-1 per event, and the final
	// count equals the number of alive tips (terminal pseudo-extinctions
	// are discarded).
	s := NewSimulator(NewConstantRateBirthDeath(1, 0.5), rand.New(rand.NewSource(7)))
	for i := 0; i < 200; i++ {
		tree, err := s.Simulate(ModelConfig{TreeSize: 15})
		require.NoError(t, err)

		times, counts := LineageThroughTime(tree)
		if len(times) == 0 {
			continue // zero-depth or single-lineage trajectory
		}
		prev := 1
		for _, c := range counts {
			diff := c - prev
			if diff != 1 && diff != -1 {
				t.Fatalf("draw %d: count stepped by %d, want +-1", i, diff)
			}
			prev = c
		}
		assert.Equal(t, len(tree.AliveTips()), counts[len(counts)-1],
			"draw %d: final LTT count must equal alive tip count", i)
	}
}
