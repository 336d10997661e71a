// Package grid implements the hex spatial index (C2): containment, k-ring
// neighbors, centroid/boundary, and point/line/polygon aggregation onto the
// study region's ~250 m cells. No geo/hex library appears anywhere in the
// example corpus this repo was grounded on, so this package is implemented
// on the standard library only — see DESIGN.md's C2 entry.
package grid

import "math"

const earthRadiusM = 6371000.0

// Cell is a flat-top axial hex coordinate. Axial (q, r) are exact integers:
// containment, neighbor, and ring computations never touch floating point,
// per spec §4.2's determinism rule.
type Cell struct {
	Q, R int
}

// Index converts lat/lon points to hex cells at a fixed resolution using a
// local equirectangular projection centered on a reference point, matched
// to the region covered by one run (Colorado/Utah/Idaho, spec §1).
type Index struct {
	edgeM   float64 // hex edge length in meters
	refLat  float64
	refLon  float64
	cosRef  float64
}

// NewIndex builds an Index for the given edge length (meters) and a
// reference latitude/longitude used as the projection origin.
func NewIndex(edgeMeters, refLat, refLon float64) *Index {
	return &Index{
		edgeM:  edgeMeters,
		refLat: refLat,
		refLon: refLon,
		cosRef: math.Cos(refLat * math.Pi / 180),
	}
}

// project converts lat/lon to local planar meters (x east, y north).
func (idx *Index) project(lat, lon float64) (x, y float64) {
	x = (lon - idx.refLon) * math.Pi / 180 * earthRadiusM * idx.cosRef
	y = (lat - idx.refLat) * math.Pi / 180 * earthRadiusM
	return x, y
}

// unproject is the inverse of project.
func (idx *Index) unproject(x, y float64) (lat, lon float64) {
	lat = idx.refLat + y/earthRadiusM*180/math.Pi
	lon = idx.refLon + x/(earthRadiusM*idx.cosRef)*180/math.Pi
	return lat, lon
}

// CellOf returns the hex cell containing (lat, lon).
func (idx *Index) CellOf(lat, lon float64) Cell {
	x, y := idx.project(lat, lon)
	return idx.cellAtXY(x, y)
}

// cellAtXY performs axial rounding of a point in planar meters onto the
// flat-top hex grid with edge length edgeM.
func (idx *Index) cellAtXY(x, y float64) Cell {
	size := idx.edgeM
	qf := (2.0/3.0*x)/size
	rf := (-1.0/3.0*x + math.Sqrt(3)/3.0*y) / size
	return axialRound(qf, rf)
}

func axialRound(qf, rf float64) Cell {
	xf := qf
	zf := rf
	yf := -xf - zf

	x := math.Round(xf)
	y := math.Round(yf)
	z := math.Round(zf)

	dx := math.Abs(x - xf)
	dy := math.Abs(y - yf)
	dz := math.Abs(z - zf)

	if dx > dy && dx > dz {
		x = -y - z
	} else if dy > dz {
		y = -x - z
	} else {
		z = -x - y
	}
	return Cell{Q: int(x), R: int(z)}
}

// Centroid returns the lat/lon of a cell's center.
func (idx *Index) Centroid(c Cell) (lat, lon float64) {
	size := idx.edgeM
	x := size * (3.0 / 2.0 * float64(c.Q))
	y := size * (math.Sqrt(3)/2.0*float64(c.Q) + math.Sqrt(3)*float64(c.R))
	return idx.unproject(x, y)
}

// Boundary returns the six corner lat/lon points of a cell, in order.
func (idx *Index) Boundary(c Cell) [][2]float64 {
	cx, cy := idx.centerXY(c)
	size := idx.edgeM
	corners := make([][2]float64, 6)
	for i := 0; i < 6; i++ {
		angle := math.Pi / 180 * float64(60*i)
		x := cx + size*math.Cos(angle)
		y := cy + size*math.Sin(angle)
		lat, lon := idx.unproject(x, y)
		corners[i] = [2]float64{lat, lon}
	}
	return corners
}

func (idx *Index) centerXY(c Cell) (x, y float64) {
	size := idx.edgeM
	x = size * (3.0 / 2.0 * float64(c.Q))
	y = size * (math.Sqrt(3)/2.0*float64(c.Q) + math.Sqrt(3)*float64(c.R))
	return x, y
}

// cubeDistance is the exact integer hex distance between two axial cells.
func cubeDistance(a, b Cell) int {
	aq, ar, as := a.Q, a.R, -a.Q-a.R
	bq, br, bs := b.Q, b.R, -b.Q-b.R
	dq := abs(aq - bq)
	dr := abs(ar - br)
	ds := abs(as - bs)
	return max3(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// Neighbors returns the exact k-ring of cells around c (all cells at hex
// distance <= k, including c itself at k=0).
func Neighbors(c Cell, k int) []Cell {
	if k < 0 {
		return nil
	}
	var result []Cell
	for dq := -k; dq <= k; dq++ {
		rLo := max(-k, -dq-k)
		rHi := min(k, -dq+k)
		for dr := rLo; dr <= rHi; dr++ {
			result = append(result, Cell{Q: c.Q + dq, R: c.R + dr})
		}
	}
	return result
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
