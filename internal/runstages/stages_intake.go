package runstages

import (
	"context"
	"fmt"

	"github.com/akerscore/aucs/internal/contracts"
	"github.com/akerscore/aucs/internal/gtc"
	"github.com/akerscore/aucs/internal/params"
	"github.com/akerscore/aucs/internal/pipeline"
	"github.com/akerscore/aucs/internal/quality"
	"github.com/akerscore/aucs/internal/skim"
)

// ParameterLoadStage validates and stamps the loaded snapshot (spec §4.11's
// first stage). Grounded on internal/params.Validate.
func (rc *RunContext) ParameterLoadStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "parameter_load",
		InputHash: func() (string, error) { return rc.Snap.ParamHash, nil },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			if issues := params.Validate(rc.Snap); len(issues) > 0 {
				return pipeline.StageOutput{}, fmt.Errorf("%w: %v", contracts.ErrValidation, issues)
			}
			hash, path, size, err := writeArtifact(rc.stageDir("parameter_load"), "snapshot", rc.Snap)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

// SkimMaterializeStage seals every cell's skim rows into a write-once
// skim.Store, the boundary past which skim data is read-only for the rest
// of the run (spec §3 "write-once skim store").
func (rc *RunContext) SkimMaterializeStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "skim_materialize",
		InputHash: func() (string, error) { return hashJSON(rc.Scenario.Cells) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			store := skim.NewStore()
			var all []skim.Entry
			for _, c := range rc.Scenario.Cells {
				all = append(all, c.SkimEntries...)
			}
			store.Load(all)
			store.Seal()

			summary := map[string]interface{}{"total_entries": store.Len()}
			hash, path, size, err := writeArtifact(rc.stageDir("skim_materialize"), "summary", summary)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

// GTCStage computes the generalized travel cost for every skim row, per
// mode, accumulating the unreachable-share QA counters spec §4.4 checks
// against a critical threshold.
func (rc *RunContext) GTCStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "gtc",
		InputHash: func() (string, error) { return hashJSON(rc.Scenario.Cells) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			timeSliceVOT := func(mode params.ModeParams) func(string) float64 {
				return func(slice string) float64 {
					for _, ts := range rc.Snap.TimeSlices {
						if ts.Name == slice {
							return ts.ValueOfTime * mode.VOTMultiplier
						}
					}
					return 1
				}
			}

			for _, cell := range rc.Scenario.Cells {
				byMode := make(map[string][]skim.Entry)
				for _, e := range cell.SkimEntries {
					byMode[e.Mode] = append(byMode[e.Mode], e)
				}
				var cellResults []gtc.Result
				for modeName, entries := range byMode {
					modeParams, ok := rc.Snap.Modes[modeName]
					if !ok {
						continue
					}
					carryPenalty := func(string) float64 { return modeParams.CarryPenalty }
					results, counters := gtc.ComputeBatch(entries, modeParams, timeSliceVOT(modeParams), carryPenalty,
						alphaAccess, alphaEgress, alphaWait, gammaTransfers, rhoRel)
					cellResults = append(cellResults, results...)
					rc.gtcCounters.Rows += counters.Rows
					rc.gtcCounters.Unreachable += counters.Unreachable
					rc.gtcCounters.ClampedInputs += counters.ClampedInputs
				}
				rc.gtcByCell[cell.CellID] = cellResults
			}

			hash, path, size, err := writeArtifact(rc.stageDir("gtc"), "results", rc.gtcByCell)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

// LogsumStage folds each amenity's per-slice, per-mode GTC into w_{i,a} via
// the nested-logit kernel (spec §4.5).
func (rc *RunContext) LogsumStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "logsum",
		InputHash: func() (string, error) { return hashJSON(rc.gtcByCell) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			timeSliceWeight := make(map[string]float64, len(rc.Snap.TimeSlices))
			for _, ts := range rc.Snap.TimeSlices {
				timeSliceWeight[ts.Name] = ts.Weight
			}

			for cellID, results := range rc.gtcByCell {
				byAmenity := make(map[string]map[string]map[string]float64) // amenity -> slice -> mode -> minutes
				for _, r := range results {
					if !r.Reachable {
						continue
					}
					if byAmenity[r.AmenityID] == nil {
						byAmenity[r.AmenityID] = make(map[string]map[string]float64)
					}
					if byAmenity[r.AmenityID][r.TimeSlice] == nil {
						byAmenity[r.AmenityID][r.TimeSlice] = make(map[string]float64)
					}
					byAmenity[r.AmenityID][r.TimeSlice][r.Mode] = r.Minutes
				}

				weights := make(map[string]float64, len(byAmenity))
				for amenityID, bySlice := range byAmenity {
					weights[amenityID] = rc.kernel.Weight(bySlice, timeSliceWeight)
				}
				rc.weightByCell[cellID] = weights
			}

			hash, path, size, err := writeArtifact(rc.stageDir("logsum"), "weights", rc.weightByCell)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

// QualityStage rescales every amenity's raw features into Q_a per category
// (spec §4.6).
func (rc *RunContext) QualityStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "quality",
		InputHash: func() (string, error) { return hashJSON(rc.Scenario.Cells) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			return rc.computeQuality()
		},
	}
}

func (rc *RunContext) computeQuality() (pipeline.StageOutput, error) {
	for _, cell := range rc.Scenario.Cells {
		byCategory := make(map[string][]quality.Breakdown, len(cell.Amenities))
		for category, amenities := range cell.Amenities {
			byCategory[category] = quality.ComputeCategory(amenities, rc.Snap.Quality)
		}
		rc.qualityByCell[cell.CellID] = byCategory
	}

	hash, path, size, err := writeArtifact(rc.stageDir("quality"), "breakdowns", rc.qualityByCell)
	if err != nil {
		return pipeline.StageOutput{}, err
	}
	return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
}
