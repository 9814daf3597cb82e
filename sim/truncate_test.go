package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateTime_FreezesAtAge(t *testing.T) {
	// Freezing ((a:1,b:2)ab:1,c:3) at age 1.5 clamps every branch spanning
	// that instant, so all three tips end up at depth 1.5.
	tr := extinctTestTree()
	TruncateTime(tr, 1.5)

	assert.InDelta(t, 1.5, tr.Height(), 1e-12)
	for _, tip := range tr.Tips() {
		assert.InDelta(t, 1.5, tip.Depth(), 1e-12)
	}
}

func TestTruncateTime_PreservesExtinctTips(t *testing.T) {
	tr := extinctTestTree()
	// Age 2.5 lies beyond a's extinction at depth 2: a keeps its length,
	// while b and c are clamped.
	TruncateTime(tr, 2.5)

	depths := map[string]float64{}
	for _, tip := range tr.Tips() {
		depths[tip.Name] = tip.Depth()
	}
	assert.InDelta(t, 2.0, depths["a"], 1e-12)
	assert.InDelta(t, 2.5, depths["b"], 1e-12)
	assert.InDelta(t, 2.5, depths["c"], 1e-12)
}

func TestTruncateTime_DropsSubtreesPastAge(t *testing.T) {
	// Freezing at 0.5 cuts inside ab's branch: its subtree disappears and
	// ab itself becomes a terminal.
	tr := extinctTestTree()
	TruncateTime(tr, 0.5)

	assert.Equal(t, []string{"ab", "c"}, tipNames(tr))
	assert.InDelta(t, 0.5, tr.Height(), 1e-12)
}

func TestTruncateTime_MatchesLTTCount(t *testing.T) {
	// The number of alive tips after freezing at time x must equal the LTT
	// count at x.
	s := newTestSimulator(t, NewConstantRateBirthDeath(1, 0.5), 11)
	for i := 0; i < 100; i++ {
		tree := s.mustSimulate(t, ModelConfig{TreeSize: 14})
		times, counts := LineageThroughTime(tree)
		if len(times) < 2 {
			continue
		}
		rng := s.rng
		// Pick an instant strictly inside a random LTT interval.
		k := rng.Intn(len(times) - 1)
		if times[k+1]-times[k] < 1e-5 {
			continue
		}
		x := times[k] + (times[k+1]-times[k])*0.5

		frozen := tree.Clone()
		TruncateTime(frozen, x)
		assert.Equal(t, counts[k], len(frozen.AliveTips()),
			"draw %d: alive tips after freeze at %v", i, x)
	}
}

func TestTruncateSize_ExactAliveCount(t *testing.T) {
	// truncate_tree_size(t, k) on a tree with n >= k alive tips leaves
	// exactly k alive tips and never touches extinct ones.
	s := newTestSimulator(t, NewConstantRateBirthDeath(1, 0.4), 5)
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 100; i++ {
		tree := s.mustSimulate(t, ModelConfig{TreeSize: 12})
		alive := len(tree.AliveTips())
		extinct := len(tree.Tips()) - alive
		if alive <= 4 {
			continue
		}

		TruncateSize(tree, 4, rng)
		assert.Equal(t, 4, len(tree.AliveTips()), "draw %d", i)
		assert.Equal(t, extinct, len(tree.Tips())-len(tree.AliveTips()),
			"draw %d: extinct tips must be untouched", i)
	}
}

func TestTruncateSize_NoopWhenSmallEnough(t *testing.T) {
	tr := balancedTestTree()
	TruncateSize(tr, 10, rand.New(rand.NewSource(1)))
	assert.Len(t, tr.Tips(), 4)
}

func TestRemoveExtinct_KeepsOnlyAliveTips(t *testing.T) {
	tr := extinctTestTree()
	RemoveExtinct(tr)

	assert.ElementsMatch(t, []string{"b", "c"}, tipNames(tr))
	assert.True(t, tr.IsUltrametric())
}

func TestRemoveExtinct_UltrametricTreeUnchanged(t *testing.T) {
	tr := balancedTestTree()
	RemoveExtinct(tr)
	assert.Len(t, tr.Tips(), 4)
}

// testSimulator bundles a simulator with its rng for tests that need
// both.
type testSimulator struct {
	*Simulator
	rng *rand.Rand
}

func newTestSimulator(t *testing.T, policy RatePolicy, seed int64) *testSimulator {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	return &testSimulator{Simulator: NewSimulator(policy, rng), rng: rng}
}

func (s *testSimulator) mustSimulate(t *testing.T, cfg ModelConfig) *Tree {
	t.Helper()
	tree, err := s.Simulate(cfg)
	require.NoError(t, err)
	return tree
}
