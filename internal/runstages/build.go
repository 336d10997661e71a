package runstages

import "github.com/akerscore/aucs/internal/pipeline"

// BuildStages returns the ten stages in spec §4.11's fixed order, ready to
// hand to pipeline.Driver.RunSequence.
func (rc *RunContext) BuildStages() []pipeline.Stage {
	return []pipeline.Stage{
		rc.ParameterLoadStage(),
		rc.SkimMaterializeStage(),
		rc.GTCStage(),
		rc.LogsumStage(),
		rc.QualityStage(),
		rc.CategoryValueStage(),
		rc.SubscoresStage(),
		rc.NormalizeStage(),
		rc.ComposeStage(),
		rc.ExplainStage(),
	}
}
