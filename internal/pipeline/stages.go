package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
)

// NewConcurrentStage wraps a set of Tasks (e.g. the seven subscores) into a
// single Stage so the driver's sequential RunStage/manifest bookkeeping
// applies uniformly, while the tasks themselves run via RunConcurrent.
func NewConcurrentStage(name string, inputHash InputHashFunc, tasks []Task) Stage {
	return Stage{
		Name:      name,
		InputHash: inputHash,
		Run: func(ctx context.Context) (StageOutput, error) {
			results, err := RunConcurrent(ctx, name, tasks)
			if err != nil {
				return StageOutput{}, err
			}
			return mergeTaskResults(results), nil
		},
	}
}

// mergeTaskResults combines every task's output into one StageOutput, with
// a deterministic combined hash regardless of goroutine completion order.
func mergeTaskResults(results []TaskResult) StageOutput {
	sorted := make([]TaskResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := sha256.New()
	var paths []string
	var total int64
	for _, r := range sorted {
		fmt.Fprintf(h, "%s:%s;", r.Name, r.Output.OutputHash)
		paths = append(paths, r.Output.Paths...)
		total += r.Output.TotalBytes
	}
	return StageOutput{
		OutputHash: fmt.Sprintf("%x", h.Sum(nil))[:32],
		Paths:      paths,
		TotalBytes: total,
	}
}
