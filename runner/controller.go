package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"ytdigest/pipeline"
	"ytdigest/selector"
)

const (
	defaultMaxRetries = 2 // 3 attempts total
	defaultPause      = 5 * time.Second
)

// PipelineRunner abstracts the acquisition pipeline for the controller.
type PipelineRunner interface {
	Run(ctx context.Context, url, workPrefix string) (*pipeline.Result, error)
}

// Controller wraps the pipeline with a fixed bounded-retry policy. Every
// failure is retried identically up to the cap; classification is recorded
// but never consulted. Before each attempt, including the first, all
// artifacts sharing the working-file prefix are deleted so an attempt never
// reuses possibly-corrupt intermediate files.
type Controller struct {
	Pipeline PipelineRunner
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// Pause is the fixed delay between attempts. There is no backoff.
	Pause time.Duration
	// Log receives per-attempt diagnostics.
	Log zerolog.Logger
}

// RunWithRetries processes item through up to 1+MaxRetries pipeline attempts
// and returns the outcome fragment: the result on success, the ordered
// attempt records, and the final classified failure on exhaustion.
func (c *Controller) RunWithRetries(ctx context.Context, item *selector.Candidate, workPrefix string) (*pipeline.Result, []AttemptRecord, *Failure) {
	maxRetries := c.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	attemptsTotal := 1 + maxRetries

	var attempts []AttemptRecord
	for attempt := 1; attempt <= attemptsTotal; attempt++ {
		// Always fresh: stale partial files must not mask transient
		// upstream failures.
		if err := wipeWorkFiles(workPrefix); err != nil {
			c.Log.Warn().Err(err).Str("prefix", workPrefix).Msg("failed to wipe work files")
		}

		result, err := c.Pipeline.Run(ctx, item.WatchURL, workPrefix)
		if err == nil {
			return result, attempts, nil
		}

		record := recordAttempt(attempt, err)
		attempts = append(attempts, record)
		c.Log.Warn().
			Int("attempt", attempt).
			Str("stage", string(record.Stage)).
			Str("label", string(record.Label)).
			Str("reason", record.Reason).
			Msg("pipeline attempt failed")

		if attempt < attemptsTotal {
			time.Sleep(c.pause())
		}
	}

	last := attempts[len(attempts)-1]
	return nil, attempts, &Failure{
		Stage:  last.Stage,
		Label:  last.Label,
		Reason: last.Reason,
		Detail: last.Detail,
	}
}

func (c *Controller) pause() time.Duration {
	if c.Pause > 0 {
		return c.Pause
	}
	return defaultPause
}

// recordAttempt classifies a pipeline error into an attempt record.
func recordAttempt(attempt int, err error) AttemptRecord {
	label, reason := Classify(err.Error())
	return AttemptRecord{
		Attempt: attempt,
		Stage:   stageOf(err),
		Label:   label,
		Reason:  reason,
		Detail:  err.Error(),
	}
}

// stageOf maps typed pipeline errors to their stage.
func stageOf(err error) Stage {
	var fetchErr *pipeline.FetchError
	if errors.As(err, &fetchErr) {
		return StageDownload
	}
	var normErr *pipeline.NormalizeError
	if errors.As(err, &normErr) {
		return StageNormalize
	}
	var splitErr *pipeline.SplitError
	if errors.As(err, &splitErr) {
		return StageSplit
	}
	return StageTranscribe
}

// wipeWorkFiles removes every artifact sharing the working-file prefix.
func wipeWorkFiles(prefix string) error {
	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		return err
	}
	var firstErr error
	for _, path := range matches {
		if err := os.Remove(path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
