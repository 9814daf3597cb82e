package sim

import (
	"context"
	"fmt"
	"math"
)

// SampleConstantRateBD draws unbiased constant-rate birth-death trees of the
// target size without simulating: the tree age and the treeSize-1 speciation
// ages come straight from their closed-form inverse CDFs, and the topology is
// assembled coalescent-style by repeatedly merging the adjacent pair of
// lineages separated by the smallest speciation age. The equal-rates case is
// a removable singularity of the general formulas and is special-cased.
//
// No model is consulted; BirthRate and DeathRate come from the algorithm
// configuration.
func (s *Sampler) SampleConstantRateBD(ctx context.Context, sampleSize int) (*SampleResult, error) {
	res := &SampleResult{}
	for len(res.Trees) < sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Trees = append(res.Trees, s.drawConstantRateBD())
		res.Expected = append(res.Expected, 1)
		s.report(len(res.Trees))
	}
	return res, nil
}

// drawConstantRateBD builds one tree from closed-form draws.
func (s *Sampler) drawConstantRateBD() *Tree {
	birth, death := s.alg.BirthRate, s.alg.DeathRate
	n := s.treeSize

	origin := s.originAge(birth, death, n)
	ages := make([]float64, n-1)
	for i := range ages {
		ages[i] = speciationAge(birth, death, origin, uniformNonZero(s.rng))
	}
	return buildCoalescentTree(ages, origin, n)
}

// originAge draws the age of the process origin conditioned on n extant
// species, inverting the known age CDF.
func (s *Sampler) originAge(birth, death float64, n int) float64 {
	r := uniformNonZero(s.rng)
	if death > birth {
		// With death exceeding birth the conditioned age CDF saturates at
		// (birth/death)^n; draws outside that range have no preimage, so the
		// uniform is rescaled into it.
		r *= math.Pow(birth/death, float64(n))
	}
	rn := math.Pow(r, 1/float64(n))
	if birth == death {
		return 1 / (birth * (1/rn - 1))
	}
	return math.Log((1-death/birth*rn)/(1-rn)) / (birth - death)
}

// speciationAge draws one speciation age (time before present) conditioned on
// the origin age, inverting the speciation-time CDF.
func speciationAge(birth, death, origin, r float64) float64 {
	if birth == death {
		return r * origin / (1 + birth*origin*(1-r))
	}
	e := math.Exp((death - birth) * origin)
	num := birth - death*e - death*(1-e)*r
	den := birth - death*e - birth*(1-e)*r
	return math.Log(num/den) / (birth - death)
}

// buildCoalescentTree assembles a binary tree of n tips from n-1 speciation
// ages. The ages fill the gaps between n ordered present-day lineages; the
// adjacent pair with the smallest gap age merges first, and branch lengths
// fall out of the age differences. The root keeps an edge reaching back to
// the origin.
func buildCoalescentTree(ages []float64, origin float64, n int) *Tree {
	type lineage struct {
		node *Node
		age  float64
	}

	lineages := make([]lineage, n)
	for i := range lineages {
		lineages[i] = lineage{node: &Node{Name: fmt.Sprintf("n%d", i+1)}}
	}
	gaps := append([]float64(nil), ages...)

	nextID := n + 1
	for len(lineages) > 1 {
		g := 0
		for i := 1; i < len(gaps); i++ {
			if gaps[i] < gaps[g] {
				g = i
			}
		}
		age := gaps[g]
		left, right := lineages[g], lineages[g+1]

		parent := &Node{Name: fmt.Sprintf("n%d", nextID)}
		nextID++
		left.node.Length = age - left.age
		right.node.Length = age - right.age
		left.node.Parent = parent
		right.node.Parent = parent
		parent.Children = []*Node{left.node, right.node}

		lineages[g] = lineage{node: parent, age: age}
		lineages = append(lineages[:g+1], lineages[g+2:]...)
		gaps = append(gaps[:g], gaps[g+1:]...)
	}

	root := lineages[0].node
	root.Length = origin - lineages[0].age
	return &Tree{Root: root}
}
