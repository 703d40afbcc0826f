// Package pipeline turns a selected item's reference into transcript text
// through a fixed stage sequence: fetch media, normalize, segment,
// transcribe. Stages run strictly in order and fail fast with typed errors.
package pipeline

import (
	"context"
	"strings"
)

// Fetcher is the media-download capability.
type Fetcher interface {
	// DownloadAudio retrieves best-available audio for url into a file
	// named with destPrefix and returns its path.
	DownloadAudio(ctx context.Context, url, destPrefix string) (string, error)
}

// Processor is the audio-preparation capability.
type Processor interface {
	// Normalize converts path to a canonical mono fixed-sample-rate
	// waveform and returns the new path.
	Normalize(ctx context.Context, path string) (string, error)
	// Split partitions path into fixed-duration segments in order.
	Split(ctx context.Context, path string, segmentSeconds int) ([]string, error)
}

// Transcriber is the speech-to-text capability.
type Transcriber interface {
	Transcribe(ctx context.Context, segmentPath string) (string, error)
}

// Result is the pipeline output for one successful attempt.
type Result struct {
	// Transcript is the concatenated per-segment text, newline separated,
	// in segment order.
	Transcript string
	// CharCount is the rune length of the transcript.
	CharCount int
	// Segments is the number of segments transcribed.
	Segments int
}

const defaultSegmentSeconds = 900 // 15 minutes

// Pipeline drives one acquisition-and-transcription attempt.
type Pipeline struct {
	Fetcher     Fetcher
	Processor   Processor
	Transcriber Transcriber

	// SegmentSeconds is the fixed split duration. Defaults to 15 minutes,
	// bounding per-call transcription memory and time.
	SegmentSeconds int
}

// Run executes the full stage sequence for one item. workPrefix names every
// intermediate artifact so a retry controller can wipe them between attempts.
func (p *Pipeline) Run(ctx context.Context, url, workPrefix string) (*Result, error) {
	audioPath, err := p.Fetcher.DownloadAudio(ctx, url, workPrefix)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	normPath, err := p.Processor.Normalize(ctx, audioPath)
	if err != nil {
		return nil, &NormalizeError{Err: err}
	}

	segmentSeconds := p.SegmentSeconds
	if segmentSeconds <= 0 {
		segmentSeconds = defaultSegmentSeconds
	}
	segments, err := p.Processor.Split(ctx, normPath, segmentSeconds)
	if err != nil {
		return nil, &SplitError{Err: err}
	}
	if len(segments) == 0 {
		// Shorter inputs than one segment produce no split output; the
		// normalized file stands in as the only segment.
		segments = []string{normPath}
	}

	var parts []string
	for _, segment := range segments {
		text, err := p.Transcriber.Transcribe(ctx, segment)
		if err != nil {
			return nil, &TranscribeError{Segment: segment, Err: err}
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
	}

	transcript := strings.Join(parts, "\n")
	if strings.TrimSpace(transcript) == "" {
		return nil, &EmptyTranscriptError{Segments: len(segments)}
	}

	return &Result{
		Transcript: transcript,
		CharCount:  len([]rune(transcript)),
		Segments:   len(segments),
	}, nil
}
