package cluster

// Greedy partitions points into groups of at most maxSize members where every
// pair within a group is at most maxDistanceMiles apart.
//
// Points with no neighbor at all within maxDistanceMiles are isolated first,
// each as its own singleton group, consuming the lowest ids. The remaining
// points are grouped greedily: the first unassigned point seeds a group, then
// the group repeatedly absorbs the unassigned point whose worst-case distance
// to every current member is smallest, provided that worst case stays within
// maxDistanceMiles. Ties break toward input order. A group closes when it
// reaches maxSize or no candidate satisfies the all-members check, so groups
// can end up smaller than maxSize when the geometry does not permit full
// packing.
//
// The function performs no I/O and never fails: every index is assigned
// exactly one group id, contiguous from 0.
func Greedy(points []Point, maxSize int, maxDistanceMiles float64) Assignment {
	n := len(points)
	if n == 0 {
		return Assignment{}
	}
	if n == 1 {
		return Assignment{0}
	}

	dist := NewMatrix(points)

	isOutlier := make([]bool, n)
	for i := 0; i < n; i++ {
		hasNeighbor := false
		for j := 0; j < n && !hasNeighbor; j++ {
			if i != j && dist.At(i, j) <= maxDistanceMiles {
				hasNeighbor = true
			}
		}
		isOutlier[i] = !hasNeighbor
	}

	assigned := make([]bool, n)
	assignment := make(Assignment, n)
	group := 0

	for i := 0; i < n; i++ {
		if isOutlier[i] {
			assignment[i] = group
			assigned[i] = true
			group++
		}
	}

	remaining := n - countTrue(assigned)
	for remaining > 0 {
		seed := -1
		for i := 0; i < n; i++ {
			if !assigned[i] {
				seed = i
				break
			}
		}

		members := []int{seed}
		assignment[seed] = group
		assigned[seed] = true
		remaining--

		for len(members) < maxSize {
			best := -1
			bestDist := 0.0

			for i := 0; i < n; i++ {
				if assigned[i] {
					continue
				}

				// The candidate must be within range of every current
				// member; rank candidates by their worst member distance.
				valid := true
				maxToGroup := 0.0
				for _, m := range members {
					d := dist.At(m, i)
					if d > maxDistanceMiles {
						valid = false
						break
					}
					if d > maxToGroup {
						maxToGroup = d
					}
				}

				if valid && (best == -1 || maxToGroup < bestDist) {
					best = i
					bestDist = maxToGroup
				}
			}

			if best == -1 {
				break
			}
			assignment[best] = group
			assigned[best] = true
			members = append(members, best)
			remaining--
		}

		group++
	}

	return assignment
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
