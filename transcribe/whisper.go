// Package transcribe runs speech-to-text over audio segments.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTranscribeTimeout = 30 * time.Minute

// WhisperCLI transcribes audio segments through a whisper.cpp-style
// command-line binary that prints transcript text to stdout.
type WhisperCLI struct {
	// Path is the path to the whisper executable.
	Path string
	// ModelPath is the path to the model file passed via -m.
	ModelPath string
	// Language is the spoken-language hint passed via -l. Empty means
	// auto-detection.
	Language string
	// Timeout is the maximum duration for transcribing one segment.
	Timeout time.Duration
	// ExtraArgs are additional arguments to pass to the binary.
	ExtraArgs []string
}

// NewWhisperCLI creates a transcriber with default settings.
func NewWhisperCLI(path, modelPath string) *WhisperCLI {
	return &WhisperCLI{
		Path:      path,
		ModelPath: modelPath,
		Timeout:   defaultTranscribeTimeout,
	}
}

// Transcribe runs the model over one audio segment and returns the raw
// transcript text. Whitespace-only output is returned as-is; judging
// emptiness is the caller's concern.
func (w *WhisperCLI) Transcribe(ctx context.Context, segmentPath string) (string, error) {
	args := []string{
		"-m", w.ModelPath,
		"-f", segmentPath,
		"--no-timestamps",
	}
	if w.Language != "" {
		args = append(args, "-l", w.Language)
	}
	args = append(args, w.ExtraArgs...)

	timeout := w.Timeout
	if timeout == 0 {
		timeout = defaultTranscribeTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, w.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("transcribe segment: timed out after %s", timeout)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("transcribe segment: %w: %s", err, stderrStr)
		}
		return "", fmt.Errorf("transcribe segment: %w", err)
	}

	return stdout.String(), nil
}
