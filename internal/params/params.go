// Package params is the typed, versioned, hash-stamped parameter snapshot
// covering every knob of the scoring pipeline (spec §3 "Parameters", §4.1).
// A Snapshot is loaded once per run, validated, canonicalized, and passed by
// reference; subscore code never reaches into an untyped map.
package params

import "sort"

// Snapshot is the immutable parameter document for one run.
type Snapshot struct {
	Grid           GridParams                `yaml:"grid"`
	Subscores      map[string]float64        `yaml:"subscores"` // weight per subscore key, must sum to 100
	TimeSlices     []TimeSlice               `yaml:"time_slices"`
	Modes          map[string]ModeParams      `yaml:"modes"`
	Nests          map[string]NestParams      `yaml:"nests"`
	Quality        QualityParams              `yaml:"quality"`
	Categories     map[string]CategoryParams  `yaml:"categories"`
	HubsAirports   HubsAirportsParams         `yaml:"hubs_airports"`
	MORR           MORRParams                 `yaml:"morr"`
	Corridor       CorridorParams             `yaml:"corridor"`
	Seasonality    SeasonalityParams          `yaml:"seasonality"`
	Normalization  map[string]NormalizeParams `yaml:"normalization"`

	// ParamHash is computed by Canonicalize, never set by hand.
	ParamHash string `yaml:"-"`
}

// GridParams configures the hex spatial index (C2).
type GridParams struct {
	ResolutionMeters float64 `yaml:"resolution_meters"`
}

// TimeSlice is one ordered entry of the day partition used for time-of-day
// weighted accessibility. Weights across all slices must sum to 1.
type TimeSlice struct {
	Name          string  `yaml:"name"`
	Weight        float64 `yaml:"weight"`
	ValueOfTime   float64 `yaml:"value_of_time"` // $/minute
}

// ModeParams configures one of {walk, bike, car, transit}.
type ModeParams struct {
	DecayHalfLifeMin float64 `yaml:"decay_half_life_min"`
	Beta0            float64 `yaml:"beta0"`
	VOTMultiplier    float64 `yaml:"vot_multiplier"`
	CarryPenalty     float64 `yaml:"carry_penalty"`
	MaxIVTCapMin     float64 `yaml:"max_ivt_cap_min"`
	MaxUsefulTimeMin float64 `yaml:"max_useful_time_min"` // for skim-store pruning, §4.3
}

// NestParams configures one nest of the two-level nested logit (C5).
type NestParams struct {
	Modes    []string `yaml:"modes"`
	NestScale float64 `yaml:"nest_scale"` // theta_n in (0, 1]
}

// QualityParams configures the C6 quality model.
type QualityParams struct {
	WeightSize      float64            `yaml:"weight_size"`
	WeightPopularity float64           `yaml:"weight_popularity"`
	WeightBrand     float64            `yaml:"weight_brand"`
	WeightHeritage  float64            `yaml:"weight_heritage"`
	HoursUplift     map[string]float64 `yaml:"hours_uplift"` // regime -> multiplier
	HoursBlendXi    float64            `yaml:"hours_blend_xi"`
	BrandProximityBeta float64         `yaml:"brand_proximity_beta"`
	BrandProximityRadiusKm float64     `yaml:"brand_proximity_radius_km"`
}

// CategoryParams configures the C7 CES/satiation/diversity aggregator for
// one amenity category.
type CategoryParams struct {
	Rho               float64 `yaml:"rho"`
	Kappa             *float64 `yaml:"kappa,omitempty"`
	AnchorV           *float64 `yaml:"anchor_v,omitempty"`
	AnchorS           *float64 `yaml:"anchor_s,omitempty"`
	DiversityWeight   float64 `yaml:"diversity_weight"`
	DiversityMin      float64 `yaml:"diversity_min"`
	DiversityMax      float64 `yaml:"diversity_max"`
	MinThreshold      float64 `yaml:"min_threshold"` // S_min, used by EA shortfall
	NoveltyWeight     float64 `yaml:"novelty_weight"`
	NoveltyZCap       float64 `yaml:"novelty_z_cap"`
}

// HubsAirportsParams configures MUHAA (C8).
type HubsAirportsParams struct {
	WeightPop     float64 `yaml:"weight_pop"`
	WeightGDP     float64 `yaml:"weight_gdp"`
	WeightPOI     float64 `yaml:"weight_poi"`
	WeightCulture float64 `yaml:"weight_culture"`
	AlphaHub      float64 `yaml:"alpha_hub"`
	HubWeight     float64 `yaml:"hub_weight"`
	AirWeight     float64 `yaml:"air_weight"`
}

// MORRParams holds the five component weights C1..C5 of MORR.
type MORRParams struct {
	WeightFrequentStop float64 `yaml:"weight_frequent_stop"`
	WeightSpan         float64 `yaml:"weight_span"`
	WeightReliability  float64 `yaml:"weight_reliability"`
	WeightRedundancy   float64 `yaml:"weight_redundancy"`
	WeightMicromobility float64 `yaml:"weight_micromobility"`
	FrequentHeadwayMaxMin float64 `yaml:"frequent_headway_max_min"`
	FrequentStopRadiusM float64 `yaml:"frequent_stop_radius_m"`
	RedundancyRadiusM  float64 `yaml:"redundancy_radius_m"`
	MicromobilityRadiusM float64 `yaml:"micromobility_radius_m"`
	ScheduleProxyOnTime float64 `yaml:"schedule_proxy_on_time"`
}

// CorridorParams configures CTE (C8).
type CorridorParams struct {
	DetourCapDeltaMax float64  `yaml:"detour_cap_delta_max"`
	StopBufferM       float64  `yaml:"stop_buffer_m"`
	PairWhitelist     [][2]string `yaml:"pair_whitelist"`
	TopK              int      `yaml:"top_k"`
}

// SeasonalityParams configures SOU (C8).
type SeasonalityParams struct {
	MonthWeights     [12]float64 `yaml:"month_weights"`
	ComfortTempLoC   float64     `yaml:"comfort_temp_lo_c"`
	ComfortTempHiC   float64     `yaml:"comfort_temp_hi_c"`
	MaxPrecipInPerDay float64    `yaml:"max_precip_in_per_day"`
	MaxWindMph       float64     `yaml:"max_wind_mph"`
}

// NormalizeParams configures C9 for one subscore.
type NormalizeParams struct {
	Mode       string  `yaml:"mode"` // "percentile" | "anchor"
	PLo        float64 `yaml:"p_lo"`
	PHi        float64 `yaml:"p_hi"`
	AnchorLo   float64 `yaml:"anchor_lo"`
	AnchorHi   float64 `yaml:"anchor_hi"`
	ScopeAllMetros bool `yaml:"scope_all_metros"`
}

// CategoryNames returns the fixed crosswalk keys in deterministic order.
func (s *Snapshot) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for k := range s.Categories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
