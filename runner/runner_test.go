package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ytdigest/selector"
	"ytdigest/youtube"
)

const (
	runnerChannelID = "UCAuUUnT6oDeKwE6v1NGQxug"
	otherChannelID  = "UC_x5XG1OV2P6uZZ5FSM9Ttw"
)

var runnerNow = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

// channelLister serves canned listings keyed by channel ID.
type channelLister struct {
	entries map[string][]youtube.Entry
	errs    map[string]error
}

func (l *channelLister) ListRecent(ctx context.Context, channel string, maxCount int) ([]youtube.Entry, error) {
	if err := l.errs[channel]; err != nil {
		return nil, err
	}
	return l.entries[channel], nil
}

func newRunner(t *testing.T, lister youtube.RecentLister, p PipelineRunner) *Runner {
	t.Helper()
	return &Runner{
		Resolver:   youtube.NewResolver(lister, nil),
		Selector:   &selector.Selector{Lister: lister, Window: 12 * time.Hour},
		Controller: newController(p),
		WorkDir:    t.TempDir(),
		Log:        zerolog.Nop(),
		Now:        func() time.Time { return runnerNow },
	}
}

func freshEntry(id, channelID string) youtube.Entry {
	return youtube.Entry{
		ID:        id,
		Title:     "Morning Update",
		ChannelID: channelID,
		Published: runnerNow.Add(-2 * time.Hour),
		LiveState: youtube.LiveStateNone,
	}
}

func TestRun_Success(t *testing.T) {
	lister := &channelLister{entries: map[string][]youtube.Entry{
		runnerChannelID: {freshEntry("vid1", runnerChannelID)},
	}}
	p := &fakePipeline{results: []error{nil}}
	r := newRunner(t, lister, p)

	outcomes := r.Run(context.Background(), []ChannelSpec{
		{Name: "CNBC Television", Reference: runnerChannelID},
	})

	if len(outcomes) != 1 {
		t.Fatalf("len(outcomes) = %d, want 1", len(outcomes))
	}
	got := outcomes[0]
	if got.Status != StatusSuccess {
		t.Fatalf("Status = %s, want %s (final: %+v)", got.Status, StatusSuccess, got.Final)
	}
	if got.ChannelID != runnerChannelID {
		t.Errorf("ChannelID = %q, want %q", got.ChannelID, runnerChannelID)
	}
	if got.Item == nil || got.Item.ID != "vid1" {
		t.Errorf("Item = %+v, want vid1", got.Item)
	}
	if got.Transcript == "" || got.TranscriptChars == 0 {
		t.Errorf("Transcript = %q (%d chars), want pipeline result", got.Transcript, got.TranscriptChars)
	}
}

func TestRun_ResolveFailure(t *testing.T) {
	lister := &channelLister{errs: map[string]error{
		"@gone": youtube.ErrChannelNotFound,
	}}
	p := &fakePipeline{}
	r := newRunner(t, lister, p)

	outcomes := r.Run(context.Background(), []ChannelSpec{
		{Name: "Gone Channel", Reference: "@gone"},
	})

	got := outcomes[0]
	if got.Status != StatusFailed {
		t.Fatalf("Status = %s, want %s", got.Status, StatusFailed)
	}
	if got.Final == nil || got.Final.Stage != StageResolve {
		t.Errorf("Final = %+v, want stage %s", got.Final, StageResolve)
	}
	if p.calls != 0 {
		t.Errorf("pipeline ran %d times; resolution failures are never retried", p.calls)
	}
	if len(got.Attempts) != 0 {
		t.Errorf("Attempts = %d, want 0", len(got.Attempts))
	}
}

func TestRun_ListingFailure(t *testing.T) {
	lister := &channelLister{errs: map[string]error{
		runnerChannelID: youtube.ErrRateLimited,
	}}
	p := &fakePipeline{}
	r := newRunner(t, lister, p)

	outcomes := r.Run(context.Background(), []ChannelSpec{
		{Name: "CNBC Television", Reference: runnerChannelID},
	})

	got := outcomes[0]
	if got.Status != StatusFailed {
		t.Fatalf("Status = %s, want %s", got.Status, StatusFailed)
	}
	if got.Final == nil || got.Final.Stage != StageFetch {
		t.Errorf("Final = %+v, want stage %s", got.Final, StageFetch)
	}
	if p.calls != 0 {
		t.Errorf("pipeline ran %d times; listing failures are never retried", p.calls)
	}
}

func TestRun_NoQualifyingItem(t *testing.T) {
	stale := freshEntry("old", runnerChannelID)
	stale.Published = runnerNow.Add(-48 * time.Hour)
	lister := &channelLister{entries: map[string][]youtube.Entry{
		runnerChannelID: {stale},
	}}
	p := &fakePipeline{}
	r := newRunner(t, lister, p)

	outcomes := r.Run(context.Background(), []ChannelSpec{
		{Name: "CNBC Television", Reference: runnerChannelID},
	})

	got := outcomes[0]
	if got.Status != StatusNoVideo {
		t.Fatalf("Status = %s, want %s", got.Status, StatusNoVideo)
	}
	if got.Final != nil {
		t.Errorf("Final = %+v, want nil: an empty window is not a failure", got.Final)
	}
	if p.calls != 0 {
		t.Errorf("pipeline ran %d times, want 0", p.calls)
	}
}

func TestRun_ChannelsAreIndependent(t *testing.T) {
	lister := &channelLister{
		entries: map[string][]youtube.Entry{
			otherChannelID: {freshEntry("vid2", otherChannelID)},
		},
		errs: map[string]error{
			runnerChannelID: youtube.ErrRateLimited,
		},
	}
	p := &fakePipeline{results: []error{nil}}
	r := newRunner(t, lister, p)

	outcomes := r.Run(context.Background(), []ChannelSpec{
		{Name: "CNBC Television", Reference: runnerChannelID},
		{Name: "Bloomberg Television", Reference: otherChannelID},
	})

	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d, want 2", len(outcomes))
	}
	// Outcomes stay in configuration order regardless of per-channel results.
	if outcomes[0].ChannelName != "CNBC Television" || outcomes[1].ChannelName != "Bloomberg Television" {
		t.Errorf("outcome order = %q, %q", outcomes[0].ChannelName, outcomes[1].ChannelName)
	}
	if outcomes[0].Status != StatusFailed {
		t.Errorf("outcomes[0].Status = %s, want %s", outcomes[0].Status, StatusFailed)
	}
	if outcomes[1].Status != StatusSuccess {
		t.Errorf("outcomes[1].Status = %s, want %s: one failure must not abort the rest", outcomes[1].Status, StatusSuccess)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CNBC Television", "cnbc-television"},
		{"Bloomberg  TV", "bloomberg--tv"},
		{"Yahoo! Finance", "yahoo-finance"},
		{"日本語", "channel"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFailureFor(t *testing.T) {
	f := failureFor(StageResolve, errors.New("HTTP Error 429: Too Many Requests"))
	if f.Stage != StageResolve {
		t.Errorf("Stage = %s, want %s", f.Stage, StageResolve)
	}
	if f.Label != LabelHTTP429 {
		t.Errorf("Label = %s, want %s", f.Label, LabelHTTP429)
	}
}
