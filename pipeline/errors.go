package pipeline

import "fmt"

// FetchError reports a failed media download. Detail carries the rendered
// tool diagnostics for later classification.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NormalizeError reports a failed waveform conversion.
type NormalizeError struct {
	Err error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize: %v", e.Err)
}

func (e *NormalizeError) Unwrap() error {
	return e.Err
}

// SplitError reports a failed segment partitioning. Producing zero segments
// is not a SplitError; the whole file is used as one segment instead.
type SplitError struct {
	Err error
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split: %v", e.Err)
}

func (e *SplitError) Unwrap() error {
	return e.Err
}

// EmptyTranscriptError reports that the concatenated transcript was empty
// after trimming. An empty transcript almost always indicates silent,
// blocked, or corrupted audio rather than a genuinely silent source, so it
// is never treated as success.
type EmptyTranscriptError struct {
	Segments int
}

func (e *EmptyTranscriptError) Error() string {
	return fmt.Sprintf("empty transcript after %d segment(s)", e.Segments)
}

// TranscribeError reports a failed speech-to-text call on one segment.
type TranscribeError struct {
	Segment string
	Err     error
}

func (e *TranscribeError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.Segment, e.Err)
}

func (e *TranscribeError) Unwrap() error {
	return e.Err
}
