package quality

import "math"

const earthRadiusKm = 6371.0

// applyBrandProximityDedup applies the multiplicative brand-proximity
// penalty (spec §4.6): for each amenity, find same-brand amenities within
// radiusKm, apply factor 1 - exp(-beta * d_km) using the mean distance to
// those neighbors, then rescale the whole category so total Q mass before
// and after the penalty is preserved (invariant 4: removing a neighbor
// weakly increases Q_a).
func applyBrandProximityDedup(amenities []Amenity, out []Breakdown, beta, radiusKm float64) {
	n := len(amenities)
	if n == 0 || beta <= 0 {
		return
	}

	preTotal := 0.0
	for _, b := range out {
		preTotal += b.Quality
	}

	penalized := make([]float64, n)
	for i := range out {
		penalized[i] = out[i].Quality
	}

	for i, a := range amenities {
		if a.BrandKey == "" {
			continue
		}
		var distances []float64
		for j, other := range amenities {
			if j == i || other.BrandKey != a.BrandKey {
				continue
			}
			d := haversineKm(a.Lat, a.Lon, other.Lat, other.Lon)
			if d <= radiusKm {
				distances = append(distances, d)
			}
		}
		if len(distances) == 0 {
			continue
		}
		var sum float64
		for _, d := range distances {
			sum += d
		}
		meanKm := sum / float64(len(distances))
		factor := 1 - math.Exp(-beta*meanKm)
		out[i].BrandPenalty = factor
		penalized[i] = out[i].Quality * factor
	}

	postTotal := 0.0
	for _, v := range penalized {
		postTotal += v
	}

	if postTotal <= 0 || preTotal <= 0 {
		for i := range out {
			out[i].Quality = penalized[i]
		}
		return
	}

	scale := preTotal / postTotal
	for i := range out {
		out[i].Quality = penalized[i] * scale
	}
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
