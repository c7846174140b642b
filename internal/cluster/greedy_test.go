package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedy_Empty(t *testing.T) {
	assert.Empty(t, Greedy(nil, 2, 5))
}

func TestGreedy_SinglePoint(t *testing.T) {
	a := Greedy([]Point{{Lat: 35, Lng: -97}}, 2, 5)
	assert.Equal(t, Assignment{0}, a)
}

// Five points: 0 and 1 close together, 2 near 1, and 3 and 4 both isolated
// more than five miles from everything else. With max size 2 the isolated
// points take ids 0 and 1 first, {0,1} pack into group 2, and 2 is left on
// its own as group 3 because group 2 is already full.
func TestGreedy_OutliersFirstThenPacking(t *testing.T) {
	points := []Point{
		{ID: "0", Lat: 35.000, Lng: -97.0},
		{ID: "1", Lat: 35.010, Lng: -97.0},
		{ID: "2", Lat: 35.020, Lng: -97.0},
		{ID: "3", Lat: 35.200, Lng: -97.0},
		{ID: "4", Lat: 34.800, Lng: -97.0},
	}

	a := Greedy(points, 2, 5)

	require.Len(t, a, 5)
	assert.Equal(t, Assignment{2, 2, 3, 0, 1}, a)
	assert.Equal(t, 4, a.Groups())
}

func TestGreedy_EveryIndexAssignedOnce(t *testing.T) {
	points := []Point{
		{Lat: 35.00, Lng: -97.00},
		{Lat: 35.01, Lng: -97.01},
		{Lat: 35.02, Lng: -97.00},
		{Lat: 35.03, Lng: -97.02},
		{Lat: 35.50, Lng: -97.50},
		{Lat: 35.51, Lng: -97.50},
		{Lat: 36.00, Lng: -96.00},
	}

	a := Greedy(points, 3, 5)

	require.Len(t, a, len(points))
	counts := make(map[int]int)
	for _, g := range a {
		assert.GreaterOrEqual(t, g, 0)
		counts[g]++
	}
	// Contiguous ids from 0.
	for g := 0; g < a.Groups(); g++ {
		assert.Contains(t, counts, g)
	}
}

func TestGreedy_RespectsMaxSize(t *testing.T) {
	// Six points all within a mile of each other.
	points := make([]Point, 6)
	for i := range points {
		points[i] = Point{Lat: 35.0 + float64(i)*0.001, Lng: -97.0}
	}

	a := Greedy(points, 2, 5)

	counts := make(map[int]int)
	for _, g := range a {
		counts[g]++
	}
	for g, c := range counts {
		assert.LessOrEqual(t, c, 2, "group %d exceeds max size", g)
	}
}

func TestGreedy_PairwiseDistanceWithinGroups(t *testing.T) {
	points := []Point{
		{Lat: 35.00, Lng: -97.00},
		{Lat: 35.02, Lng: -97.01},
		{Lat: 35.04, Lng: -97.00},
		{Lat: 35.06, Lng: -97.02},
		{Lat: 35.08, Lng: -97.00},
		{Lat: 36.00, Lng: -96.00},
	}
	const maxDist = 5.0

	a := Greedy(points, 3, maxDist)

	for i := range points {
		for j := range points {
			if i != j && a[i] == a[j] {
				d := HaversineMiles(points[i].Lat, points[i].Lng, points[j].Lat, points[j].Lng)
				assert.LessOrEqual(t, d, maxDist)
			}
		}
	}
}

func TestGreedy_IsolatedPointIsSingleton(t *testing.T) {
	points := []Point{
		{Lat: 35.00, Lng: -97.00},
		{Lat: 35.01, Lng: -97.00},
		{Lat: 38.00, Lng: -95.00}, // far from everything
	}

	a := Greedy(points, 3, 5)

	for i := range points {
		if i == 2 {
			continue
		}
		assert.NotEqual(t, a[2], a[i])
	}
	// Outliers take the lowest ids.
	assert.Equal(t, 0, a[2])
}

// A group's diameter constraint tightens as it grows: a candidate in range of
// the seed but out of range of a later member is blocked entirely, so groups
// can close under max size.
func TestGreedy_GroupsCanCloseUnderMaxSize(t *testing.T) {
	// A chain: 0 -- 4mi -- 1 -- 4mi -- 2. Points 0 and 2 are ~8mi apart.
	points := []Point{
		{Lat: 35.000, Lng: -97.0},
		{Lat: 35.058, Lng: -97.0},
		{Lat: 35.116, Lng: -97.0},
	}

	a := Greedy(points, 3, 5)

	// 0 seeds, absorbs 1; 2 is rejected against 0, leaving group {0,1}.
	assert.Equal(t, a[0], a[1])
	assert.NotEqual(t, a[0], a[2])
}
