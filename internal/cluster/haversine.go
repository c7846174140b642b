package cluster

import "math"

// earthRadiusMiles is the mean radius of the earth in miles.
const earthRadiusMiles = 3956

// HaversineMiles returns the great-circle distance in miles between two
// points given in decimal degrees. Symmetric, and zero for identical points.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusMiles
}

// Matrix holds pairwise haversine distances in miles. It is symmetric with a
// zero diagonal and is built once per clustering call.
type Matrix struct {
	n int
	d []float64
}

// NewMatrix computes the full pairwise distance matrix for points.
func NewMatrix(points []Point) *Matrix {
	n := len(points)
	m := &Matrix{n: n, d: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := HaversineMiles(points[i].Lat, points[i].Lng, points[j].Lat, points[j].Lng)
			m.d[i*n+j] = d
			m.d[j*n+i] = d
		}
	}
	return m
}

// At returns the distance between points i and j in miles.
func (m *Matrix) At(i, j int) float64 {
	return m.d[i*m.n+j]
}

// Len returns the number of points the matrix was built over.
func (m *Matrix) Len() int {
	return m.n
}
