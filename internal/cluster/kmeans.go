package cluster

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
)

const (
	kmeansSeed     = 42
	kmeansRestarts = 10
	kmeansMaxIter  = 300
)

// KMeans clusters points into exactly k groups using Lloyd's algorithm over
// raw lat/lng coordinates. It runs a fixed number of seeded restarts and
// keeps the lowest-inertia result, so output is deterministic for a given
// input. Unlike Greedy it enforces neither a group-size nor a distance bound.
func KMeans(points []Point, k int) (Assignment, error) {
	n := len(points)
	if k < 1 {
		return nil, eris.Errorf("cluster: kmeans needs at least 1 group, got %d", k)
	}
	if n == 0 {
		return Assignment{}, nil
	}
	if k >= n {
		// One point per group; ids stay contiguous.
		a := make(Assignment, n)
		for i := range a {
			a[i] = i
		}
		return a, nil
	}

	rng := rand.New(rand.NewSource(kmeansSeed))

	var best Assignment
	bestInertia := math.Inf(1)

	for restart := 0; restart < kmeansRestarts; restart++ {
		assign, inertia := kmeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = assign
		}
	}

	return relabel(best), nil
}

func kmeansOnce(points []Point, k int, rng *rand.Rand) (Assignment, float64) {
	n := len(points)

	// Initialize centroids from distinct random points.
	perm := rng.Perm(n)
	cLat := make([]float64, k)
	cLng := make([]float64, k)
	for c := 0; c < k; c++ {
		cLat[c] = points[perm[c]].Lat
		cLng[c] = points[perm[c]].Lng
	}

	assign := make(Assignment, n)
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			bestC := 0
			bestD := math.Inf(1)
			for c := 0; c < k; c++ {
				d := sqDist(p.Lat, p.Lng, cLat[c], cLng[c])
				if d < bestD {
					bestD = d
					bestC = c
				}
			}
			if iter == 0 || assign[i] != bestC {
				changed = true
				assign[i] = bestC
			}
		}

		// Recompute centroids; reseed any emptied cluster with the point
		// farthest from its centroid so exactly k groups survive.
		sumLat := make([]float64, k)
		sumLng := make([]float64, k)
		count := make([]int, k)
		for i, p := range points {
			c := assign[i]
			sumLat[c] += p.Lat
			sumLng[c] += p.Lng
			count[c]++
		}
		for c := 0; c < k; c++ {
			if count[c] == 0 {
				far := farthestPoint(points, assign, cLat, cLng)
				assign[far] = c
				cLat[c] = points[far].Lat
				cLng[c] = points[far].Lng
				changed = true
				continue
			}
			cLat[c] = sumLat[c] / float64(count[c])
			cLng[c] = sumLng[c] / float64(count[c])
		}

		if !changed {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p.Lat, p.Lng, cLat[assign[i]], cLng[assign[i]])
	}
	return assign, inertia
}

func farthestPoint(points []Point, assign Assignment, cLat, cLng []float64) int {
	far, farD := 0, -1.0
	for i, p := range points {
		d := sqDist(p.Lat, p.Lng, cLat[assign[i]], cLng[assign[i]])
		if d > farD {
			farD = d
			far = i
		}
	}
	return far
}

func sqDist(lat1, lng1, lat2, lng2 float64) float64 {
	dlat := lat1 - lat2
	dlng := lng1 - lng2
	return dlat*dlat + dlng*dlng
}

// relabel renumbers group ids to be contiguous from 0 in order of first
// appearance.
func relabel(a Assignment) Assignment {
	next := 0
	seen := make(map[int]int)
	out := make(Assignment, len(a))
	for i, g := range a {
		id, ok := seen[g]
		if !ok {
			id = next
			seen[g] = id
			next++
		}
		out[i] = id
	}
	return out
}
