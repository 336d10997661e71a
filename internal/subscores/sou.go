package subscores

// ClimateMonth holds the three rescaled-to-[0,1] climate factors for one
// month, already compared against the comfort thresholds (spec §4.8 SOU).
type ClimateMonth struct {
	TempRescaled   float64
	PrecipRescaled float64
	WindRescaled   float64
	Weight         float64 // w_m
}

// Sigma returns sigma_m = temp * precip * wind for this month.
func (m ClimateMonth) Sigma() float64 {
	return m.TempRescaled * m.PrecipRescaled * m.WindRescaled
}

// SOU computes SOU_i = ParksScore_i * sigma_out, where sigma_out is the
// weighted-average monthly climate scalar. Cells with parksScore == 0 (no
// parks) score 0 regardless of sigma_out (spec §4.8 SOU, S6).
func SOU(parksScore float64, months []ClimateMonth, contributors []Contributor) Result {
	if parksScore <= 0 {
		return Result{Value: 0}
	}

	var sigmaOut float64
	for _, m := range months {
		sigmaOut += m.Weight * m.Sigma()
	}

	return Result{Value: clip(parksScore*sigmaOut, 0, 100), Contributors: contributors}
}
