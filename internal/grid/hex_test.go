package grid

import "testing"

func TestCellOf_Deterministic(t *testing.T) {
	idx := NewIndex(250, 39.7392, -104.9903) // Denver
	c1 := idx.CellOf(39.7400, -104.9900)
	c2 := idx.CellOf(39.7400, -104.9900)
	if c1 != c2 {
		t.Fatalf("expected identical cell for identical input, got %v != %v", c1, c2)
	}
}

func TestNeighbors_RingSizes(t *testing.T) {
	c := Cell{Q: 0, R: 0}
	for k := 0; k <= 3; k++ {
		n := Neighbors(c, k)
		expected := 3*k*k + 3*k + 1
		if len(n) != expected {
			t.Fatalf("k=%d: expected %d cells, got %d", k, expected, len(n))
		}
	}
}

func TestNeighbors_ContainsSelf(t *testing.T) {
	c := Cell{Q: 5, R: -2}
	n := Neighbors(c, 2)
	found := false
	for _, x := range n {
		if x == c {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ring to contain the origin cell")
	}
}

func TestCentroidRoundTrip_ApproximatelyInCell(t *testing.T) {
	idx := NewIndex(250, 39.7392, -104.9903)
	c := idx.CellOf(39.80, -105.05)
	lat, lon := idx.Centroid(c)
	back := idx.CellOf(lat, lon)
	if back != c {
		t.Fatalf("centroid of cell %v mapped back to %v", c, back)
	}
}

func TestAggregatePoints_CountsAndWeights(t *testing.T) {
	idx := NewIndex(250, 39.7392, -104.9903)
	pts := []Point{
		{Lat: 39.7392, Lon: -104.9903, Weight: 1},
		{Lat: 39.7393, Lon: -104.9904, Weight: 2},
		{Lat: 40.5, Lon: -106.0, Weight: 5},
	}
	agg := idx.AggregatePoints(pts)
	total := 0
	for _, a := range agg {
		total += a.Count
	}
	if total != 3 {
		t.Fatalf("expected 3 total points, got %d", total)
	}
}

func TestAggregatePolygon_AreaConserved(t *testing.T) {
	idx := NewIndex(250, 39.7392, -104.9903)
	poly := [][2]float64{
		{39.70, -105.00},
		{39.70, -104.90},
		{39.80, -104.90},
		{39.80, -105.00},
	}
	result := idx.AggregatePolygon(poly, 1000.0, 6)
	sum := 0.0
	for _, v := range result {
		sum += v
	}
	if sum < 900 || sum > 1100 {
		t.Fatalf("expected aggregated attribute close to 1000, got %v", sum)
	}
}
