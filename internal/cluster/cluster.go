// Package cluster partitions geocoded delivery points into deliverer groups.
//
// Two strategies are supported: a constrained greedy grouping that bounds both
// group size and intra-group distance (isolating unreachable points as
// singleton groups), and a plain K-means alternative that always yields a
// fixed number of groups but enforces neither bound.
package cluster

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Point is a geocoded delivery location. Category is an optional label
// (a language, in practice) used only by Partition; the clustering
// algorithms themselves are unaware of it.
type Point struct {
	ID       string
	Lat      float64
	Lng      float64
	Category string
}

// Strategy selects the clustering algorithm.
type Strategy int

const (
	// StrategyGreedy is the constrained nearest-neighbor grouping.
	StrategyGreedy Strategy = iota
	// StrategyKMeans always yields exactly Options.Deliverers groups but
	// does not enforce the max-size or max-distance bounds.
	StrategyKMeans
)

// ParseStrategy parses a strategy name from config or a flag.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "greedy", "":
		return StrategyGreedy, nil
	case "kmeans":
		return StrategyKMeans, nil
	default:
		return 0, eris.Errorf("cluster: unknown strategy %q (want greedy or kmeans)", s)
	}
}

func (s Strategy) String() string {
	if s == StrategyKMeans {
		return "kmeans"
	}
	return "greedy"
}

// Options bound the clustering algorithms.
type Options struct {
	Strategy         Strategy
	MaxGroupSize     int     // greedy: hard cap on members per group
	MaxDistanceMiles float64 // greedy: max pairwise distance within a group
	Deliverers       int     // kmeans: number of groups
}

// Assignment maps each input point index to a group id. Group ids are
// contiguous starting at 0 and every index is assigned exactly once.
type Assignment []int

// Groups returns the number of distinct groups in the assignment.
func (a Assignment) Groups() int {
	max := -1
	for _, g := range a {
		if g > max {
			max = g
		}
	}
	return max + 1
}

// Partition splits points by category, clusters each category independently,
// and offsets the per-category group ids by a running counter so ids are
// globally unique. Categories are processed in sorted order. The returned
// assignment is parallel to the input slice, so every group is
// category-homogeneous by construction.
//
// The offset advances by the number of groups actually produced for each
// category, which keeps ids collision-free even when outlier isolation
// produces more groups than a size-based estimate would predict.
func Partition(points []Point, opts Options) (Assignment, error) {
	byCategory := make(map[string][]int)
	for i, p := range points {
		byCategory[p.Category] = append(byCategory[p.Category], i)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	assignment := make(Assignment, len(points))
	offset := 0
	for _, c := range categories {
		idxs := byCategory[c]
		sub := make([]Point, len(idxs))
		for j, i := range idxs {
			sub[j] = points[i]
		}

		subAssign, err := Assign(sub, opts)
		if err != nil {
			return nil, err
		}

		for j, i := range idxs {
			assignment[i] = subAssign[j] + offset
		}
		offset += subAssign.Groups()
	}

	return assignment, nil
}

// Assign clusters points with the configured strategy.
func Assign(points []Point, opts Options) (Assignment, error) {
	switch opts.Strategy {
	case StrategyKMeans:
		return KMeans(points, opts.Deliverers)
	default:
		return Greedy(points, opts.MaxGroupSize, opts.MaxDistanceMiles), nil
	}
}
