// Package media acquires and prepares audio through yt-dlp and ffmpeg
// subprocesses.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultDownloadTimeout = 15 * time.Minute
	defaultAudioQuality    = 128
)

// Downloader fetches best-available audio using yt-dlp.
type Downloader struct {
	// YtdlpPath is the path to the yt-dlp executable. Defaults to "yt-dlp".
	YtdlpPath string
	// Timeout is the maximum duration for a single download.
	Timeout time.Duration
	// AudioQuality is the extracted audio quality in kbps.
	AudioQuality int
	// ExtraArgs are additional arguments to pass to yt-dlp.
	ExtraArgs []string
}

// NewDownloader creates a downloader with default settings.
func NewDownloader() *Downloader {
	return &Downloader{
		YtdlpPath:    "yt-dlp",
		Timeout:      defaultDownloadTimeout,
		AudioQuality: defaultAudioQuality,
	}
}

// DownloadAudio downloads the best-available audio for url into a file named
// with destPrefix. It returns the path of the downloaded file. A non-zero
// tool exit or a missing output file is an error carrying the rendered tool
// diagnostics.
func (d *Downloader) DownloadAudio(ctx context.Context, url, destPrefix string) (string, error) {
	quality := d.AudioQuality
	if quality <= 0 {
		quality = defaultAudioQuality
	}

	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", fmt.Sprintf("%d", quality),
		"--no-warnings",
		"--no-playlist",
		"-o", destPrefix + ".%(ext)s",
		"--print", "after_move:filepath",
	}
	args = append(args, d.ExtraArgs...)
	args = append(args, url)

	timeout := d.Timeout
	if timeout == 0 {
		timeout = defaultDownloadTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, d.path(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("download audio: timed out after %s", timeout)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("download audio: %w: %s", err, stderrStr)
		}
		return "", fmt.Errorf("download audio: %w", err)
	}

	outputPath := lastPathLine(stdout.String())
	if outputPath == "" {
		outputPath = destPrefix + ".mp3"
	}
	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("download audio: output file missing: %w", err)
	}
	return outputPath, nil
}

func (d *Downloader) path() string {
	if d.YtdlpPath != "" {
		return d.YtdlpPath
	}
	return "yt-dlp"
}

// lastPathLine extracts the final filepath printed by yt-dlp. The output may
// contain multiple lines; the filepath is the last non-empty path-like line.
func lastPathLine(output string) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && (strings.HasPrefix(line, "/") || strings.Contains(line, string(os.PathSeparator))) {
			return line
		}
	}
	return ""
}
