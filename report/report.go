// Package report assembles the per-channel status report for a digest run.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ytdigest/runner"
)

// Build renders the digest report for one run. Channels appear in outcome
// order, which matches configuration order.
func Build(outcomes []runner.ChannelOutcome, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "US Market Commentary Digest (%s)\n", date.Format("2006-01-02"))
	b.WriteString(strings.Repeat("-", 30))
	b.WriteString("\n")

	for i, outcome := range outcomes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, outcome.ChannelName)
		writeOutcome(&b, outcome)
		if i < len(outcomes)-1 {
			b.WriteString("\n")
		}
	}

	success, noVideo, failed := tally(outcomes)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Processed %d channel(s): %d transcribed, %d without recent video, %d failed\n",
		len(outcomes), success, noVideo, failed)

	return b.String()
}

func writeOutcome(b *strings.Builder, outcome runner.ChannelOutcome) {
	switch outcome.Status {
	case runner.StatusSuccess:
		fmt.Fprintf(b, "- %q transcribed (%d chars", outcome.Item.Title, outcome.TranscriptChars)
		if n := len(outcome.Attempts); n > 0 {
			fmt.Fprintf(b, ", after %d failed attempt(s)", n)
		}
		b.WriteString(")\n")
	case runner.StatusNoVideo:
		b.WriteString("- no recent video within window\n")
	case runner.StatusFailed:
		if outcome.Final != nil {
			fmt.Fprintf(b, "- failed at %s [%s]: %s\n",
				outcome.Final.Stage, outcome.Final.Label, outcome.Final.Reason)
		} else {
			b.WriteString("- failed\n")
		}
		if n := len(outcome.Attempts); n > 0 {
			fmt.Fprintf(b, "- attempts: %d\n", n)
		}
	}
}

func tally(outcomes []runner.ChannelOutcome) (success, noVideo, failed int) {
	for _, outcome := range outcomes {
		switch outcome.Status {
		case runner.StatusSuccess:
			success++
		case runner.StatusNoVideo:
			noVideo++
		case runner.StatusFailed:
			failed++
		}
	}
	return success, noVideo, failed
}

// Write renders the report and writes it to path.
func Write(path string, outcomes []runner.ChannelOutcome, date time.Time) error {
	text := Build(outcomes, date)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
