package params

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonicalize produces a stable textual form of the snapshot (fixed key
// ordering, fixed float formatting) and stamps ParamHash with its SHA-256,
// the same content-hash-as-identity pattern used for artifact IDs in the
// run manifest.
func Canonicalize(s *Snapshot) error {
	var b strings.Builder

	writeFloatMap(&b, "subscores", s.Subscores)

	b.WriteString("time_slices:\n")
	for _, ts := range s.TimeSlices {
		fmt.Fprintf(&b, "  %s weight=%s vot=%s\n", ts.Name, fmtFloat(ts.Weight), fmtFloat(ts.ValueOfTime))
	}

	b.WriteString("modes:\n")
	for _, name := range sortedKeys(modeKeys(s.Modes)) {
		m := s.Modes[name]
		fmt.Fprintf(&b, "  %s halflife=%s beta0=%s vot_mult=%s carry=%s ivt_cap=%s useful=%s\n",
			name, fmtFloat(m.DecayHalfLifeMin), fmtFloat(m.Beta0), fmtFloat(m.VOTMultiplier),
			fmtFloat(m.CarryPenalty), fmtFloat(m.MaxIVTCapMin), fmtFloat(m.MaxUsefulTimeMin))
	}

	b.WriteString("nests:\n")
	for _, name := range sortedKeys(nestKeys(s.Nests)) {
		n := s.Nests[name]
		fmt.Fprintf(&b, "  %s scale=%s modes=%s\n", name, fmtFloat(n.NestScale), strings.Join(n.Modes, ","))
	}

	fmt.Fprintf(&b, "quality: size=%s pop=%s brand=%s heritage=%s xi=%s beta=%s radius=%s\n",
		fmtFloat(s.Quality.WeightSize), fmtFloat(s.Quality.WeightPopularity), fmtFloat(s.Quality.WeightBrand),
		fmtFloat(s.Quality.WeightHeritage), fmtFloat(s.Quality.HoursBlendXi), fmtFloat(s.Quality.BrandProximityBeta),
		fmtFloat(s.Quality.BrandProximityRadiusKm))
	writeFloatMap(&b, "quality.hours_uplift", s.Quality.HoursUplift)

	b.WriteString("categories:\n")
	for _, name := range sortedKeys(categoryKeys(s.Categories)) {
		c := s.Categories[name]
		fmt.Fprintf(&b, "  %s rho=%s kappa=%s div_w=%s div_min=%s div_max=%s min_thr=%s nov_w=%s nov_cap=%s\n",
			name, fmtFloat(c.Rho), fmtFloat(c.ResolvedKappa()), fmtFloat(c.DiversityWeight),
			fmtFloat(c.DiversityMin), fmtFloat(c.DiversityMax), fmtFloat(c.MinThreshold),
			fmtFloat(c.NoveltyWeight), fmtFloat(c.NoveltyZCap))
	}

	fmt.Fprintf(&b, "hubs_airports: pop=%s gdp=%s poi=%s culture=%s alpha=%s hub_w=%s air_w=%s\n",
		fmtFloat(s.HubsAirports.WeightPop), fmtFloat(s.HubsAirports.WeightGDP), fmtFloat(s.HubsAirports.WeightPOI),
		fmtFloat(s.HubsAirports.WeightCulture), fmtFloat(s.HubsAirports.AlphaHub),
		fmtFloat(s.HubsAirports.HubWeight), fmtFloat(s.HubsAirports.AirWeight))

	fmt.Fprintf(&b, "morr: freq=%s span=%s rel=%s red=%s micro=%s\n",
		fmtFloat(s.MORR.WeightFrequentStop), fmtFloat(s.MORR.WeightSpan), fmtFloat(s.MORR.WeightReliability),
		fmtFloat(s.MORR.WeightRedundancy), fmtFloat(s.MORR.WeightMicromobility))

	fmt.Fprintf(&b, "corridor: delta_max=%s buf=%s topk=%d\n",
		fmtFloat(s.Corridor.DetourCapDeltaMax), fmtFloat(s.Corridor.StopBufferM), s.Corridor.TopK)

	b.WriteString("seasonality:\n")
	for _, w := range s.Seasonality.MonthWeights {
		fmt.Fprintf(&b, "  %s", fmtFloat(w))
	}
	fmt.Fprintf(&b, "\n  temp=[%s,%s] precip=%s wind=%s\n",
		fmtFloat(s.Seasonality.ComfortTempLoC), fmtFloat(s.Seasonality.ComfortTempHiC),
		fmtFloat(s.Seasonality.MaxPrecipInPerDay), fmtFloat(s.Seasonality.MaxWindMph))

	b.WriteString("normalization:\n")
	for _, name := range sortedKeys(normKeys(s.Normalization)) {
		n := s.Normalization[name]
		fmt.Fprintf(&b, "  %s mode=%s plo=%s phi=%s alo=%s ahi=%s all_metros=%t\n",
			name, n.Mode, fmtFloat(n.PLo), fmtFloat(n.PHi), fmtFloat(n.AnchorLo), fmtFloat(n.AnchorHi), n.ScopeAllMetros)
	}

	sum := sha256.Sum256([]byte(b.String()))
	s.ParamHash = fmt.Sprintf("%x", sum)
	return nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 17, 64)
}

func writeFloatMap(b *strings.Builder, label string, m map[string]float64) {
	fmt.Fprintf(b, "%s:\n", label)
	for _, k := range sortedKeys(mapKeys(m)) {
		fmt.Fprintf(b, "  %s=%s\n", k, fmtFloat(m[k]))
	}
}

func sortedKeys(keys []string) []string {
	sort.Strings(keys)
	return keys
}

func mapKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func modeKeys(m map[string]ModeParams) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func nestKeys(m map[string]NestParams) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func categoryKeys(m map[string]CategoryParams) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func normKeys(m map[string]NormalizeParams) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
