package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	defaultFFmpegTimeout = 10 * time.Minute
	defaultSampleRate    = 16000
)

// FFmpeg converts downloaded audio to a canonical waveform and partitions it
// into fixed-duration segments.
type FFmpeg struct {
	// Path is the path to the ffmpeg executable. Defaults to "ffmpeg".
	Path string
	// Timeout is the maximum duration for a single ffmpeg call.
	Timeout time.Duration
	// SampleRate is the canonical sample rate in Hz.
	SampleRate int
}

// NewFFmpeg creates an ffmpeg wrapper with default settings.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		Path:       "ffmpeg",
		Timeout:    defaultFFmpegTimeout,
		SampleRate: defaultSampleRate,
	}
}

// Normalize converts path to a mono fixed-sample-rate WAV file next to the
// input and returns the new path.
func (f *FFmpeg) Normalize(ctx context.Context, path string) (string, error) {
	sampleRate := f.SampleRate
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	outPath := stripExt(path) + ".norm.wav"

	args := []string{
		"-y",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		outPath,
	}
	if err := f.run(ctx, args); err != nil {
		return "", fmt.Errorf("normalize audio: %w", err)
	}
	return outPath, nil
}

// Split partitions a normalized waveform into segments of segmentSeconds and
// returns the segment paths in order. It returns an empty slice, not an
// error, when ffmpeg produces no segment files.
func (f *FFmpeg) Split(ctx context.Context, path string, segmentSeconds int) ([]string, error) {
	if segmentSeconds <= 0 {
		return nil, fmt.Errorf("split audio: invalid segment duration %d", segmentSeconds)
	}
	pattern := stripExt(path) + ".seg%03d.wav"

	args := []string{
		"-y",
		"-i", path,
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%d", segmentSeconds),
		"-c", "copy",
		pattern,
	}
	if err := f.run(ctx, args); err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}

	segments, err := filepath.Glob(stripExt(path) + ".seg*.wav")
	if err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}
	sort.Strings(segments)
	return segments, nil
}

// run executes ffmpeg with the given arguments under the configured timeout.
func (f *FFmpeg) run(ctx context.Context, args []string) error {
	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultFFmpegTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := f.Path
	if path == "" {
		path = "ffmpeg"
	}
	cmd := exec.CommandContext(cmdCtx, path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("timed out after %s", timeout)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return fmt.Errorf("%w: %s", err, tail(stderrStr, 500))
		}
		return err
	}
	return nil
}

// stripExt removes the file extension from path.
func stripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// tail returns the last n bytes of s. ffmpeg diagnostics put the failure
// reason at the end of a long banner.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
