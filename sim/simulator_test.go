package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_NoTerminationCondition(t *testing.T) {
	s := NewSimulator(NewConstantRateBirth(1), rand.New(rand.NewSource(42)))
	_, err := s.Simulate(ModelConfig{})
	assert.ErrorIs(t, err, ErrNoTerminationCondition)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSimulate_ConstantRateBirthDeathScenario(t *testing.T) {
	// birth=1, death=0, tree_size=5: exactly 5 tips at equal depth and 4
	// speciation nodes.
	s := NewSimulator(NewConstantRateBirthDeath(1, 0), rand.New(rand.NewSource(42)))
	tree, err := s.Simulate(ModelConfig{TreeSize: 5})
	require.NoError(t, err)

	assert.Len(t, tree.Tips(), 5)
	assert.Len(t, tree.InternalNodes(), 4)
	assert.True(t, tree.IsUltrametric())
}

func TestSimulate_PureBirthUltrametricity(t *testing.T) {
	// Every pure-birth trajectory must be ultrametric within tolerance.
	s := NewSimulator(NewConstantRateBirth(0.7), rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		tree, err := s.Simulate(ModelConfig{TreeSize: 8})
		require.NoError(t, err)
		require.Len(t, tree.Tips(), 8)
		if !tree.IsUltrametric() {
			t.Fatalf("draw %d: pure-birth tree is not ultrametric", i)
		}
	}
}

func TestSimulate_TreeSizeNeverExceeded(t *testing.T) {
	// For every model and any seed, the number of alive lineages never
	// exceeds the size cap.
	models := map[string]RatePolicy{
		"constant_rate_birth":       NewConstantRateBirth(1),
		"constant_rate_birth_death": NewConstantRateBirthDeath(1, 0.4),
		"diversity_dependent":       NewDiversityDependent(1, 0.2, 20),
		"evolving_rate":             NewEvolvingRate(1, 0.1, 0.3),
		"beta_split":                NewBetaSplit(1, 0.1, 1.5),
		"temporal_shift": NewTemporalShift(Rates{Birth: 1, Death: 0.1},
			[]RateShift{{At: 0.5, To: Rates{Birth: 2, Death: 0.5}}}),
		"clade_shift": NewCladeShift(Rates{Birth: 1, Death: 0.1},
			[]RateShift{{At: 0.5, To: Rates{Birth: 3, Death: 0.2}}}),
	}
	for name, model := range models {
		t.Run(name, func(t *testing.T) {
			s := NewSimulator(model, rand.New(rand.NewSource(42)))
			for i := 0; i < 100; i++ {
				tree, err := s.Simulate(ModelConfig{TreeSize: 10})
				require.NoError(t, err)
				assert.LessOrEqual(t, len(tree.AliveTips()), 10)
			}
		})
	}
}

func TestSimulate_TreeAgeNeverExceeded(t *testing.T) {
	const age = 2.5
	models := []RatePolicy{
		NewConstantRateBirth(1),
		NewConstantRateBirthDeath(1.5, 0.5),
		NewEvolvingRate(1, 0, 0.2),
	}
	for _, model := range models {
		s := NewSimulator(model, rand.New(rand.NewSource(7)))
		for i := 0; i < 100; i++ {
			tree, err := s.Simulate(ModelConfig{TreeAge: age})
			require.NoError(t, err)
			assert.LessOrEqual(t, tree.Height(), age*(1+1e-12))
		}
	}
}

func TestSimulate_AgeTerminatedPureBirthIsUltrametric(t *testing.T) {
	// With no extinction every lineage survives to the age cap, so the
	// clipped tree is ultrametric with height == age.
	s := NewSimulator(NewConstantRateBirth(2), rand.New(rand.NewSource(3)))
	tree, err := s.Simulate(ModelConfig{TreeAge: 1.5})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, tree.Height(), 1e-9)
	assert.True(t, tree.IsUltrametric())
}

func TestSimulate_ExtinctionLeavesFixedLeaves(t *testing.T) {
	// Heavy extinction: the trajectory dies out, leaving a small tree whose
	// tips all sit strictly inside the final height except the last ones.
	s := NewSimulator(NewConstantRateBirthDeath(0.1, 5), rand.New(rand.NewSource(42)))
	tree, err := s.Simulate(ModelConfig{TreeSize: 50})
	require.NoError(t, err)
	// Global extinction before 50 lineages is essentially certain here.
	assert.Less(t, len(tree.Tips()), 50)
}

func TestSimulate_DiversityDependentStallsAtCapacity(t *testing.T) {
	// With death 0 and carrying capacity K, the birth rate hits zero at K
	// live lineages and the trajectory stalls; Simulate must return instead
	// of spinning.
	s := NewSimulator(NewDiversityDependent(1, 0, 6), rand.New(rand.NewSource(42)))
	tree, err := s.Simulate(ModelConfig{TreeSize: 50})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(tree.AliveTips()), 6)
}

func TestSimulate_RootEdgeDelaysFirstSplit(t *testing.T) {
	// Without a root edge the first split is at time zero, so the root's
	// children subtend the full height. With a root edge the root itself
	// carries a positive branch.
	s := NewSimulator(NewConstantRateBirth(1), rand.New(rand.NewSource(42)))

	tree, err := s.Simulate(ModelConfig{TreeSize: 4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, tree.Root.Length)

	tree, err = s.Simulate(ModelConfig{TreeSize: 4, RootEdge: true})
	require.NoError(t, err)
	assert.Greater(t, tree.Root.Length, 0.0)
}

func TestSimulate_SizeOneReturnsSingleLineage(t *testing.T) {
	s := NewSimulator(NewConstantRateBirth(1), rand.New(rand.NewSource(42)))
	tree, err := s.Simulate(ModelConfig{TreeSize: 1})
	require.NoError(t, err)
	assert.Len(t, tree.Tips(), 1)
}

func TestSimulate_DeterministicForSeed(t *testing.T) {
	run := func() *Tree {
		s := NewSimulator(NewConstantRateBirthDeath(1, 0.3), rand.New(rand.NewSource(99)))
		tree, err := s.Simulate(ModelConfig{TreeSize: 12})
		require.NoError(t, err)
		return tree
	}
	t1, t2 := run(), run()
	require.Equal(t, len(t1.Nodes()), len(t2.Nodes()))
	assert.InDelta(t, t1.Height(), t2.Height(), 0)
}

func TestSimulate_InvalidConfigSurfacesBeforeSimulation(t *testing.T) {
	s := NewSimulator(NewConstantRateBirth(1), rand.New(rand.NewSource(42)))
	_, err := s.Simulate(ModelConfig{TreeSize: 0, TreeAge: 0})
	if !errors.Is(err, ErrNoTerminationCondition) {
		t.Fatalf("err = %v, want ErrNoTerminationCondition", err)
	}
}
