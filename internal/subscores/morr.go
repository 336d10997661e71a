package subscores

// MORRInputs are the raw measurements behind the five MORR components
// (spec §4.8 MORR).
type MORRInputs struct {
	StopsWithin500m         int
	FrequentStops           int     // peak headway < 15 min, within 500m
	AvgServiceSpanHours     float64 // weighted service-hours-per-day at nearby stops
	OnTimeShare             float64 // in [0,1]; scheduleProxyOnTime used if no realtime data
	HasRealtimeOnTime       bool
	ScheduleProxyOnTime     float64
	DistinctTransitRoutes   int // within 800m
	DistinctAltRoadPaths    int
	MicromobilityDensity    float64 // already rescaled to [0, 100]
}

// Weights are the five component weights w_1..w_5, summing to 1.
type MORRWeights struct {
	W1, W2, W3, W4, W5 float64
}

// C1 is the fraction of nearby stops with frequent peak headway, in [0,100].
func c1FrequentStopExposure(in MORRInputs) float64 {
	if in.StopsWithin500m == 0 {
		return 0
	}
	return 100 * float64(in.FrequentStops) / float64(in.StopsWithin500m)
}

// C2 interpolates service-hours-per-day linearly onto [0,100]: 24h -> 100,
// 12h -> 50, 6h -> 25 (spec §4.8 MORR, S5).
func c2Span(avgHours float64) float64 {
	v := avgHours / 24 * 100
	return clip(v, 0, 100)
}

// C3 is the frequency-weighted on-time share, or the schedule-proxy
// fallback when realtime data is unavailable.
func c3Reliability(in MORRInputs) float64 {
	if in.HasRealtimeOnTime {
		return clip(in.OnTimeShare*100, 0, 100)
	}
	return clip(in.ScheduleProxyOnTime*100, 0, 100)
}

// C4 is 1 - 1/(1+R) scaled to [0,100], where R is the combined route/path
// redundancy count.
func c4Redundancy(in MORRInputs) float64 {
	r := float64(in.DistinctTransitRoutes + in.DistinctAltRoadPaths)
	return 100 * (1 - 1/(1+r))
}

// C5 is the micromobility station density, already rescaled to [0,100].
func c5Micromobility(in MORRInputs) float64 {
	return clip(in.MicromobilityDensity, 0, 100)
}

// MORR computes the five components and their weighted sum (spec §4.8, S5).
func MORR(in MORRInputs, w MORRWeights) Result {
	c1 := c1FrequentStopExposure(in)
	c2 := c2Span(in.AvgServiceSpanHours)
	c3 := c3Reliability(in)
	c4 := c4Redundancy(in)
	c5 := c5Micromobility(in)

	value := w.W1*c1 + w.W2*c2 + w.W3*c3 + w.W4*c4 + w.W5*c5

	contribs := []Contributor{
		{Category: "frequent_stop_exposure", Contribution: c1},
		{Category: "span", Contribution: c2},
		{Category: "on_time_reliability", Contribution: c3},
		{Category: "redundancy", Contribution: c4},
		{Category: "micromobility", Contribution: c5},
	}
	return Result{Value: clip(value, 0, 100), Contributors: contribs}
}
