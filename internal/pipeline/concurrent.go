package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// TaskResult pairs a Task's name with its outcome, for callers that need to
// know which partition produced which output.
type TaskResult struct {
	Name   string
	Output StageOutput
	Err    error
}

// RunConcurrent runs tasks in parallel (spec §4.11: "subscore stages are
// independent and may run concurrently; within a stage, partitioning is by
// metro or by a balanced cell-range"). On the first task error, the shared
// context is cancelled so the remaining tasks finish their current
// micro-batch and return early; RunConcurrent then returns that error and
// discards every task's output — no partial commit (spec §5: "partitions
// finish current micro-batches and discard in-flight partial outputs").
func RunConcurrent(ctx context.Context, name string, tasks []Task) ([]TaskResult, error) {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]TaskResult, len(tasks))
	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			out, err := t.Run(taskCtx)
			results[i] = TaskResult{Name: t.Name, Output: out, Err: err}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("pipeline: task %s in stage %s: %w", t.Name, name, err)
					cancel()
				}
				mu.Unlock()
			}
		}(i, t)
	}
	wg.Wait()

	if firstErr != nil {
		log.Error().Str("stage", name).Err(firstErr).Msg("concurrent stage failed, discarding all partition outputs")
		return nil, firstErr
	}
	return results, nil
}
