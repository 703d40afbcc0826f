// Package config manages application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ChannelSpec names one channel to process. The reference may be a channel
// URL, an @handle, or a bare canonical channel ID.
type ChannelSpec struct {
	Name      string `toml:"name"`
	Reference string `toml:"reference"`
}

// Config holds all application configuration. Durations are expressed in
// seconds or hours in the TOML file and converted on access.
type Config struct {
	// Channels are processed sequentially in this order.
	Channels []ChannelSpec `toml:"channels"`

	// Selection settings
	WindowHours int `toml:"window_hours"`
	MaxEntries  int `toml:"max_entries"`

	// Retry settings
	MaxRetries        int `toml:"max_retries"`
	RetryPauseSeconds int `toml:"retry_pause_seconds"`

	// Tool settings
	YtdlpPath    string `toml:"ytdlp_path"`
	FFmpegPath   string `toml:"ffmpeg_path"`
	WhisperPath  string `toml:"whisper_path"`
	WhisperModel string `toml:"whisper_model"`
	Language     string `toml:"language"`

	// Pipeline settings
	SegmentSeconds           int `toml:"segment_seconds"`
	ListTimeoutSeconds       int `toml:"list_timeout_seconds"`
	DownloadTimeoutSeconds   int `toml:"download_timeout_seconds"`
	ProcessTimeoutSeconds    int `toml:"process_timeout_seconds"`
	TranscribeTimeoutSeconds int `toml:"transcribe_timeout_seconds"`

	// Listing backend settings. When an API key is set, the Data API
	// backend is used for listing; yt-dlp remains the media backend.
	YouTubeAPIKey string  `toml:"youtube_api_key"`
	ListRPS       float64 `toml:"list_rps"`

	// Paths
	WorkDir    string `toml:"work_dir"`
	CachePath  string `toml:"cache_path"`
	ReportPath string `toml:"report_path"`

	// Logging
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		WindowHours:              12,
		MaxEntries:               12,
		MaxRetries:               2,
		RetryPauseSeconds:        5,
		YtdlpPath:                "yt-dlp",
		FFmpegPath:               "ffmpeg",
		WhisperPath:              "whisper-cli",
		SegmentSeconds:           900,
		ListTimeoutSeconds:       120,
		DownloadTimeoutSeconds:   900,
		ProcessTimeoutSeconds:    600,
		TranscribeTimeoutSeconds: 1800,
		ListRPS:                  2.0,
		WorkDir:                  filepath.Join(os.TempDir(), "ytdigest"),
		CachePath:                "ytdigest-cache.json",
		ReportPath:               "report.txt",
		LogLevel:                 "info",
	}
}

// Load loads configuration from a TOML file and environment variables.
// Priority: env vars > config file > defaults. An empty path tries
// ytdigest.toml in the working directory and the user config directory;
// a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(path); err != nil {
		if path != "" || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile parses TOML config from path, or from the default locations
// when path is empty.
func (c *Config) loadFromFile(path string) error {
	paths := []string{path}
	if path == "" {
		paths = []string{"ytdigest.toml"}
		if dir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(dir, "ytdigest", "ytdigest.toml"))
		}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && path == "" {
				continue
			}
			return err
		}
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTDIGEST_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTDIGEST_FFMPEG_PATH"); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv("YTDIGEST_WHISPER_PATH"); v != "" {
		c.WhisperPath = v
	}
	if v := os.Getenv("YTDIGEST_WHISPER_MODEL"); v != "" {
		c.WhisperModel = v
	}
	if v := os.Getenv("YTDIGEST_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("YTDIGEST_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("YTDIGEST_CACHE_PATH"); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv("YTDIGEST_REPORT_PATH"); v != "" {
		c.ReportPath = v
	}
	if v := os.Getenv("YTDIGEST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("YTDIGEST_WINDOW_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WindowHours = n
		}
	}
	if v := os.Getenv("YTDIGEST_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.WindowHours <= 0 {
		return fmt.Errorf("window_hours must be positive")
	}
	if c.MaxEntries <= 0 {
		return fmt.Errorf("max_entries must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.SegmentSeconds <= 0 {
		return fmt.Errorf("segment_seconds must be positive")
	}
	for i, ch := range c.Channels {
		if ch.Name == "" {
			return fmt.Errorf("channel %d: name required", i)
		}
		if ch.Reference == "" {
			return fmt.Errorf("channel %q: reference required", ch.Name)
		}
	}
	return nil
}

// Window returns the recency window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}

// RetryPause returns the fixed inter-attempt pause as a duration.
func (c *Config) RetryPause() time.Duration {
	return time.Duration(c.RetryPauseSeconds) * time.Second
}

// ListTimeout returns the listing call timeout as a duration.
func (c *Config) ListTimeout() time.Duration {
	return time.Duration(c.ListTimeoutSeconds) * time.Second
}

// DownloadTimeout returns the media download timeout as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutSeconds) * time.Second
}

// ProcessTimeout returns the normalize/split timeout as a duration.
func (c *Config) ProcessTimeout() time.Duration {
	return time.Duration(c.ProcessTimeoutSeconds) * time.Second
}

// TranscribeTimeout returns the per-segment transcription timeout.
func (c *Config) TranscribeTimeout() time.Duration {
	return time.Duration(c.TranscribeTimeoutSeconds) * time.Second
}
