package subscores

// JobBlock is one census block's job gravity contribution.
type JobBlock struct {
	BlockID       string
	Jobs          float64
	IndustryWeight float64 // 1.0 if no industry weighting configured
	Weight        float64 // w_{i,b}, accessibility weight to this block
}

// University is one education destination weighted by Carnegie tier.
type University struct {
	ID          string
	TierFactor  float64
	Weight      float64 // w_{i,university}
}

// JEA computes the gravity-weighted jobs term and the Carnegie-tier
// weighted education term, combined by jobsWeight/eduWeight (spec §4.8
// JEA), each normalized to [0, 100] by the supplied norm constants.
func JEA(jobs []JobBlock, universities []University, jobsNorm, eduNorm, jobsWeight, eduWeight float64) Result {
	var rawJobs float64
	var contribs []Contributor
	for _, b := range jobs {
		term := b.Jobs * b.IndustryWeight * b.Weight
		rawJobs += term
		contribs = append(contribs, Contributor{AmenityID: b.BlockID, Category: "jobs", Contribution: term})
	}

	var rawEdu float64
	for _, u := range universities {
		term := u.TierFactor * u.Weight
		rawEdu += term
		contribs = append(contribs, Contributor{AmenityID: u.ID, Category: "education", Contribution: term})
	}

	jobsScore := normalizeToHundred(rawJobs, jobsNorm)
	eduScore := normalizeToHundred(rawEdu, eduNorm)

	value := clip(jobsWeight*jobsScore+eduWeight*eduScore, 0, 100)
	return Result{Value: value, Contributors: contribs}
}
