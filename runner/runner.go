// Package runner drives one digest run: for each configured channel it
// resolves the identity, selects the qualifying item, and pushes it through
// the retried acquisition pipeline, collecting one outcome per channel.
package runner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ytdigest/selector"
	"ytdigest/youtube"
)

// ChannelSpec names one configured channel.
type ChannelSpec struct {
	Name      string
	Reference string
}

// Runner processes channels sequentially in configuration order. Channels
// are independent: one channel's failure never aborts the rest.
type Runner struct {
	Resolver   *youtube.Resolver
	Selector   *selector.Selector
	Controller *Controller

	// WorkDir hosts per-channel-run working files.
	WorkDir string
	// Log receives per-channel diagnostics.
	Log zerolog.Logger
	// Now supplies the reference instant for window checks. Defaults to
	// time.Now.
	Now func() time.Time
}

// Run processes all channels and returns one outcome per channel, in input
// order.
func (r *Runner) Run(ctx context.Context, channels []ChannelSpec) []ChannelOutcome {
	outcomes := make([]ChannelOutcome, 0, len(channels))
	for _, channel := range channels {
		outcome := r.runChannel(ctx, channel)
		r.logOutcome(outcome)
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// runChannel produces the outcome for a single channel.
func (r *Runner) runChannel(ctx context.Context, channel ChannelSpec) ChannelOutcome {
	outcome := ChannelOutcome{
		ChannelName: channel.Name,
		Reference:   channel.Reference,
	}

	// Resolution and listing failures are channel-level: they abort the
	// channel immediately and are not subject to pipeline retries.
	channelID, err := r.Resolver.Resolve(ctx, channel.Reference)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Final = failureFor(StageResolve, err)
		return outcome
	}
	outcome.ChannelID = channelID

	item, err := r.Selector.SelectQualifying(ctx, channelID, r.now())
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Final = failureFor(StageFetch, err)
		return outcome
	}
	if item == nil {
		outcome.Status = StatusNoVideo
		return outcome
	}
	outcome.Item = item

	result, attempts, final := r.Controller.RunWithRetries(ctx, item, r.workPrefix(channel))
	outcome.Attempts = attempts
	if final != nil {
		outcome.Status = StatusFailed
		outcome.Final = final
		return outcome
	}

	outcome.Status = StatusSuccess
	outcome.Transcript = result.Transcript
	outcome.TranscriptChars = result.CharCount
	return outcome
}

// workPrefix builds an isolated working-file namespace for one channel run.
// The unique suffix keeps concurrent or repeated runs from colliding on
// intermediate files.
func (r *Runner) workPrefix(channel ChannelSpec) string {
	name := sanitizeName(channel.Name)
	return filepath.Join(r.WorkDir, name+"-"+uuid.NewString()[:8])
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logOutcome(outcome ChannelOutcome) {
	event := r.Log.Info()
	if outcome.Status == StatusFailed {
		event = r.Log.Error()
	}
	event = event.
		Str("channel", outcome.ChannelName).
		Str("status", string(outcome.Status)).
		Int("attempts", len(outcome.Attempts))
	if outcome.Status == StatusSuccess {
		event = event.Int("transcript_chars", outcome.TranscriptChars)
	}
	if outcome.Final != nil {
		event = event.
			Str("stage", string(outcome.Final.Stage)).
			Str("label", string(outcome.Final.Label)).
			Str("reason", outcome.Final.Reason)
	}
	event.Msg("channel processed")
}

// failureFor classifies a pre-pipeline error into a final failure.
func failureFor(stage Stage, err error) *Failure {
	label, reason := Classify(err.Error())
	return &Failure{
		Stage:  stage,
		Label:  label,
		Reason: reason,
		Detail: err.Error(),
	}
}

// sanitizeName reduces a channel name to a filesystem-safe token.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "channel"
	}
	return b.String()
}
