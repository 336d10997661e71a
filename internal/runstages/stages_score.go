package runstages

import (
	"context"
	"fmt"

	"github.com/akerscore/aucs/internal/aggregate"
	"github.com/akerscore/aucs/internal/explain"
	"github.com/akerscore/aucs/internal/normalize"
	"github.com/akerscore/aucs/internal/pipeline"
	"github.com/akerscore/aucs/internal/quality"
	"github.com/akerscore/aucs/internal/subscores"
)

// CategoryValueStage collapses each category's (Q_a, w_{i,a}) pairs into
// the CES/satiation/diversity category value and bounded score (spec §4.7).
func (rc *RunContext) CategoryValueStage() pipeline.Stage {
	return pipeline.Stage{
		Name: "category_value",
		InputHash: func() (string, error) {
			return hashJSON(struct {
				Weights map[string]map[string]float64
				Quality map[string]map[string][]quality.Breakdown
			}{rc.weightByCell, rc.qualityByCell})
		},
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			for _, cell := range rc.Scenario.Cells {
				weights := rc.weightByCell[cell.CellID]
				byCategory := make(map[string]aggregate.CategoryResult, len(cell.Amenities))
				for category, breakdowns := range rc.qualityByCell[cell.CellID] {
					cp, ok := rc.Snap.Categories[category]
					if !ok {
						continue
					}
					contribs := make([]aggregate.Contribution, 0, len(breakdowns))
					for _, b := range breakdowns {
						subtype := cell.AmenitySubtype[b.AmenityID]
						if subtype == "" {
							subtype = category
						}
						contribs = append(contribs, aggregate.Contribution{
							AmenityID: b.AmenityID,
							Subtype:   subtype,
							Quality:   b.Quality,
							Weight:    weights[b.AmenityID],
						})
					}
					byCategory[category] = aggregate.Compute(contribs, cp.Rho, cp.ResolvedKappa(), cp.DiversityWeight, cp.DiversityMin, cp.DiversityMax)
				}
				rc.categoryByCell[cell.CellID] = byCategory
			}

			hash, path, size, err := writeArtifact(rc.stageDir("category_value"), "categories", rc.categoryByCell)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

func contributorsFromZ(category string, z map[string]float64) []subscores.Contributor {
	contribs := make([]subscores.Contributor, 0, len(z))
	for amenityID, v := range z {
		contribs = append(contribs, subscores.Contributor{AmenityID: amenityID, Category: category, Contribution: v})
	}
	return contribs
}

// SubscoresStage fans the seven independent subscore computations out as a
// single pipeline.NewConcurrentStage (spec §4.11's "subscores run
// concurrently").
func (rc *RunContext) SubscoresStage() pipeline.Stage {
	tasks := []pipeline.Task{
		{Name: "EA", Run: rc.runEA},
		{Name: "LCA", Run: rc.runLCA},
		{Name: "MUHAA", Run: rc.runMUHAA},
		{Name: "JEA", Run: rc.runJEA},
		{Name: "MORR", Run: rc.runMORR},
		{Name: "CTE", Run: rc.runCTE},
		{Name: "SOU", Run: rc.runSOU},
	}
	inputHash := func() (string, error) { return hashJSON(rc.categoryByCell) }
	return pipeline.NewConcurrentStage("subscores", inputHash, tasks)
}

func (rc *RunContext) storeSubscore(key string, results map[string]subscores.Result) (pipeline.StageOutput, error) {
	rc.rawSubscore[key] = results
	hash, path, size, err := writeArtifact(rc.stageDir("subscores"), key, results)
	if err != nil {
		return pipeline.StageOutput{}, err
	}
	return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
}

func (rc *RunContext) runEA(ctx context.Context) (pipeline.StageOutput, error) {
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for cellID, categories := range rc.categoryByCell {
		var scores []subscores.CategoryScore
		var sMinSum float64
		var sMinN int
		for _, name := range subscores.EACategories {
			cat, ok := categories[name]
			if !ok {
				continue
			}
			scores = append(scores, subscores.CategoryScore{
				Category: name, Score: cat.Score, Contributors: contributorsFromZ(name, cat.ContributionZ),
			})
			if cp, ok := rc.Snap.Categories[name]; ok {
				sMinSum += cp.MinThreshold
				sMinN++
			}
		}
		sMin := 50.0
		if sMinN > 0 {
			sMin = sMinSum / float64(sMinN)
		}
		results[cellID] = subscores.EA(scores, sMin, eaPMiss, eaPMax)
	}
	return rc.storeSubscore("EA", results)
}

func (rc *RunContext) runLCA(ctx context.Context) (pipeline.StageOutput, error) {
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for cellID, categories := range rc.categoryByCell {
		cell := rc.cellByID(cellID)
		var lcaCats []subscores.LCACategory
		for name, cat := range categories {
			if isEACategory(name) {
				continue
			}
			cp := rc.Snap.Categories[name]
			lcaCats = append(lcaCats, subscores.LCACategory{
				Category:     name,
				Score:        cat.Score,
				NoveltyZ:     cell.LCANoveltyZ[name],
				NoveltyNu:    cp.NoveltyWeight,
				NoveltyZCap:  cp.NoveltyZCap,
				Contributors: contributorsFromZ(name, cat.ContributionZ),
			})
		}
		results[cellID] = subscores.LCA(lcaCats, lcaRhoCross)
	}
	return rc.storeSubscore("LCA", results)
}

func isEACategory(name string) bool {
	for _, c := range subscores.EACategories {
		if c == name {
			return true
		}
	}
	return false
}

func (rc *RunContext) runMUHAA(ctx context.Context) (pipeline.StageOutput, error) {
	p := rc.Snap.HubsAirports
	nc := rc.Scenario.NormConstants
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for _, cell := range rc.Scenario.Cells {
		results[cell.CellID] = subscores.MUHAA(cell.Hubs, cell.Airports,
			p.WeightPop, p.WeightGDP, p.WeightPOI, p.WeightCulture, p.AlphaHub,
			nc.HubNorm, nc.AirNorm, p.HubWeight, p.AirWeight)
	}
	return rc.storeSubscore("MUHAA", results)
}

func (rc *RunContext) runJEA(ctx context.Context) (pipeline.StageOutput, error) {
	nc := rc.Scenario.NormConstants
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for _, cell := range rc.Scenario.Cells {
		results[cell.CellID] = subscores.JEA(cell.Jobs, cell.Universities, nc.JobsNorm, nc.EduNorm, jeaJobsWeight, jeaEduWeight)
	}
	return rc.storeSubscore("JEA", results)
}

func (rc *RunContext) runMORR(ctx context.Context) (pipeline.StageOutput, error) {
	p := rc.Snap.MORR
	w := subscores.MORRWeights{W1: p.WeightFrequentStop, W2: p.WeightSpan, W3: p.WeightReliability, W4: p.WeightRedundancy, W5: p.WeightMicromobility}
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for _, cell := range rc.Scenario.Cells {
		results[cell.CellID] = subscores.MORR(cell.MORR, w)
	}
	return rc.storeSubscore("MORR", results)
}

func (rc *RunContext) runCTE(ctx context.Context) (pipeline.StageOutput, error) {
	p := rc.Snap.Corridor
	nc := rc.Scenario.NormConstants
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for _, cell := range rc.Scenario.Cells {
		results[cell.CellID] = subscores.CTE(cell.Corridors, p.DetourCapDeltaMax, p.TopK, nc.CTENormConstant)
	}
	return rc.storeSubscore("CTE", results)
}

func (rc *RunContext) runSOU(ctx context.Context) (pipeline.StageOutput, error) {
	results := make(map[string]subscores.Result, len(rc.cellOrder))
	for _, cell := range rc.Scenario.Cells {
		results[cell.CellID] = subscores.SOU(cell.ParksScore, cell.ClimateMonths, cell.SOUContributors)
	}
	return rc.storeSubscore("SOU", results)
}

// NormalizeStage rescales each subscore's raw values across every cell in
// the run (spec §4.9: percentile clip or fixed anchor, per subscore).
func (rc *RunContext) NormalizeStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "normalize",
		InputHash: func() (string, error) { return hashJSON(rc.rawSubscore) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			for _, key := range SubscoreKeys {
				cfg, ok := rc.Snap.Normalization[key]
				if !ok {
					continue
				}
				raw := make([]float64, len(rc.cellOrder))
				for i, cellID := range rc.cellOrder {
					raw[i] = rc.rawSubscore[key][cellID].Value
				}
				out, err := normalize.Normalize(raw, cfg)
				if err != nil {
					return pipeline.StageOutput{}, fmt.Errorf("runstages: normalize %s: %w", key, err)
				}
				byCell := make(map[string]float64, len(rc.cellOrder))
				for i, cellID := range rc.cellOrder {
					byCell[cellID] = out[i]
				}
				rc.normalized[key] = byCell
			}

			hash, path, size, err := writeArtifact(rc.stageDir("normalize"), "normalized", rc.normalized)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

// ComposeStage weight-averages the seven normalized subscores into AUCS
// (spec §4.9).
func (rc *RunContext) ComposeStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "compose",
		InputHash: func() (string, error) { return hashJSON(rc.normalized) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			for _, cellID := range rc.cellOrder {
				subscoreValues := make(map[string]float64, len(SubscoreKeys))
				for _, key := range SubscoreKeys {
					subscoreValues[key] = rc.normalized[key][cellID]
				}
				rc.composition[cellID] = normalize.Compose(subscoreValues, rc.Snap.Subscores)
			}

			hash, path, size, err := writeArtifact(rc.stageDir("compose"), "aucs", rc.composition)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{path}, TotalBytes: size}, nil
		},
	}
}

// ExplainStage assembles the per-cell explainability report (spec §4.10).
func (rc *RunContext) ExplainStage() pipeline.Stage {
	return pipeline.Stage{
		Name:      "explain",
		InputHash: func() (string, error) { return hashJSON(rc.composition) },
		Run: func(ctx context.Context) (pipeline.StageOutput, error) {
			explainer := explain.NewExplainer(5)
			cells := make([]explain.CellExplanation, 0, len(rc.cellOrder))
			for _, cellID := range rc.cellOrder {
				resultsByKey := make(map[string]subscores.Result, len(SubscoreKeys))
				for _, key := range SubscoreKeys {
					r := rc.rawSubscore[key][cellID]
					r.Value = rc.normalized[key][cellID]
					resultsByKey[key] = r
				}
				cells = append(cells, explainer.ExplainCell(cellID, rc.composition[cellID], resultsByKey, nil))
			}
			report := explain.BuildReport(rc.RunID, rc.Snap.ParamHash, cells)
			rc.explainReport = report

			jsonPath := rc.stageDir("explain") + "/report.json"
			tablePath := rc.stageDir("explain") + "/report.table.json"
			if err := explain.WriteJSON(jsonPath, report); err != nil {
				return pipeline.StageOutput{}, err
			}
			if err := explain.WriteTable(tablePath, report); err != nil {
				return pipeline.StageOutput{}, err
			}

			hash, err := hashJSON(report)
			if err != nil {
				return pipeline.StageOutput{}, err
			}
			return pipeline.StageOutput{OutputHash: hash, Paths: []string{jsonPath, tablePath}}, nil
		},
	}
}
