package runner

import (
	"ytdigest/selector"
)

// Status is the terminal state of one channel run.
type Status string

const (
	// StatusSuccess means a transcript was produced.
	StatusSuccess Status = "SUCCESS"
	// StatusNoVideo means no entry qualified within the window. This is a
	// normal outcome, never conflated with a failure.
	StatusNoVideo Status = "NO_VIDEO"
	// StatusFailed means resolution, listing, or all pipeline attempts
	// failed.
	StatusFailed Status = "FAILED"
)

// Stage identifies where in a channel run a failure occurred. Resolve and
// Fetch are pre-pipeline and never retried; the remaining stages belong to
// retried pipeline attempts.
type Stage string

const (
	StageResolve    Stage = "RESOLVE"
	StageFetch      Stage = "FETCH"
	StageDownload   Stage = "DOWNLOAD"
	StageNormalize  Stage = "NORMALIZE"
	StageSplit      Stage = "SPLIT"
	StageTranscribe Stage = "TRANSCRIBE"
)

// AttemptRecord describes one failed pipeline attempt. Records are
// append-only and ordered by attempt number.
type AttemptRecord struct {
	// Attempt is the 1-based attempt number.
	Attempt int
	// Stage is the pipeline stage that failed.
	Stage Stage
	// Label is the diagnostic classification of the failure.
	Label Label
	// Reason is the human-readable explanation for the label.
	Reason string
	// Detail is the rendered error text.
	Detail string
}

// Failure is the classified final failure surfaced in an outcome.
type Failure struct {
	Stage  Stage
	Label  Label
	Reason string
	Detail string
}

// ChannelOutcome is the result of processing one configured channel.
// It is immutable once the run for that channel completes.
type ChannelOutcome struct {
	// ChannelName is the configured display name.
	ChannelName string
	// Reference is the configured channel reference.
	Reference string
	// ChannelID is the resolved canonical ID, when resolution succeeded.
	ChannelID string

	// Status is the terminal state.
	Status Status
	// Item is the qualifying candidate, when one was selected.
	Item *selector.Candidate
	// TranscriptChars is the transcript length in runes on success.
	TranscriptChars int
	// Transcript is the produced transcript text on success.
	Transcript string
	// Attempts are the failed pipeline attempts, in order.
	Attempts []AttemptRecord
	// Final is the classified failure when Status is StatusFailed.
	Final *Failure
}
