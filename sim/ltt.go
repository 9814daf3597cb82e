package sim

import "sort"

// LineageThroughTime extracts the LTT curve of a trajectory: the step
// function mapping elapsed time to the number of live lineages.
//
// Every internal node's depth is a speciation time; every tip's depth is an
// extinction time, except tips at the final maximum depth, which are still
// alive and are discarded. The two sorted lists are merged ascending and a
// running count is emitted, starting at 1, +1 at each speciation and -1 at
// each extinction. counts[i] holds during [times[i], times[i+1]).
//
// A tree of zero total depth yields empty lists.
func LineageThroughTime(t *Tree) (times []float64, counts []int) {
	if t == nil || t.Root == nil {
		return nil, nil
	}
	height := t.Height()
	if height == 0 {
		return nil, nil
	}

	var speciations, extinctions []float64
	var walk func(n *Node, upstream float64)
	walk = func(n *Node, upstream float64) {
		depth := upstream + n.Length
		if n.IsTip() {
			if !sameDepth(depth, height) {
				extinctions = append(extinctions, depth)
			}
			return
		}
		speciations = append(speciations, depth)
		for _, c := range n.Children {
			walk(c, depth)
		}
	}
	walk(t.Root, 0)

	sort.Float64s(speciations)
	sort.Float64s(extinctions)

	count := 1
	si, ei := 0, 0
	for si < len(speciations) || ei < len(extinctions) {
		// Ties resolve speciation-first so the count never dips spuriously.
		if ei >= len(extinctions) || (si < len(speciations) && speciations[si] <= extinctions[ei]) {
			count++
			times = append(times, speciations[si])
			si++
		} else {
			count--
			times = append(times, extinctions[ei])
			ei++
		}
		counts = append(counts, count)
	}
	return times, counts
}
