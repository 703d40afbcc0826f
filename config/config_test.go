package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WindowHours != 12 {
		t.Errorf("WindowHours = %d, want 12", cfg.WindowHours)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if cfg.Window() != 12*time.Hour {
		t.Errorf("Window() = %v, want 12h", cfg.Window())
	}
	if cfg.RetryPause() != 5*time.Second {
		t.Errorf("RetryPause() = %v, want 5s", cfg.RetryPause())
	}
	if cfg.SegmentSeconds != 900 {
		t.Errorf("SegmentSeconds = %d, want 900", cfg.SegmentSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytdigest.toml")
	content := `
window_hours = 6
max_retries = 1
ytdlp_path = "/opt/bin/yt-dlp"
log_level = "debug"

[[channels]]
name = "CNBC Television"
reference = "https://www.youtube.com/@CNBCtelevision"

[[channels]]
name = "Bloomberg Television"
reference = "UCIALMKvObZNtJ6AmdCLP7Lg"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WindowHours != 6 {
		t.Errorf("WindowHours = %d, want 6", cfg.WindowHours)
	}
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1", cfg.MaxRetries)
	}
	if cfg.YtdlpPath != "/opt/bin/yt-dlp" {
		t.Errorf("YtdlpPath = %q", cfg.YtdlpPath)
	}
	// Unset fields keep defaults.
	if cfg.MaxEntries != 12 {
		t.Errorf("MaxEntries = %d, want default 12", cfg.MaxEntries)
	}
	if len(cfg.Channels) != 2 {
		t.Fatalf("len(Channels) = %d, want 2", len(cfg.Channels))
	}
	if cfg.Channels[0].Name != "CNBC Television" {
		t.Errorf("Channels[0].Name = %q", cfg.Channels[0].Name)
	}
	if cfg.Channels[1].Reference != "UCIALMKvObZNtJ6AmdCLP7Lg" {
		t.Errorf("Channels[1].Reference = %q", cfg.Channels[1].Reference)
	}
}

func TestLoad_UserConfigDirFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME has no effect on windows")
	}
	confDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confDir)
	// Empty working directory, so only the user config dir can satisfy the
	// lookup.
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	dir := filepath.Join(confDir, "ytdigest")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ytdigest.toml"), []byte(`window_hours = 8`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WindowHours != 8 {
		t.Errorf("WindowHours = %d, want 8 from user config dir", cfg.WindowHours)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load(missing explicit path) error = nil, want error")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytdigest.toml")
	if err := os.WriteFile(path, []byte(`window_hours = 6`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("YTDIGEST_WINDOW_HOURS", "24")
	t.Setenv("YTDIGEST_API_KEY", "test-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WindowHours != 24 {
		t.Errorf("WindowHours = %d, want env override 24", cfg.WindowHours)
	}
	if cfg.YouTubeAPIKey != "test-key" {
		t.Errorf("YouTubeAPIKey = %q, want env value", cfg.YouTubeAPIKey)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytdigest.toml")
	if err := os.WriteFile(path, []byte("window_hours = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(malformed TOML) error = nil, want parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero window", func(c *Config) { c.WindowHours = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"zero retries ok", func(c *Config) { c.MaxRetries = 0 }, false},
		{"zero segment seconds", func(c *Config) { c.SegmentSeconds = 0 }, true},
		{"channel without name", func(c *Config) {
			c.Channels = []ChannelSpec{{Reference: "ref"}}
		}, true},
		{"channel without reference", func(c *Config) {
			c.Channels = []ChannelSpec{{Name: "CNBC"}}
		}, true},
		{"valid channel", func(c *Config) {
			c.Channels = []ChannelSpec{{Name: "CNBC", Reference: "@CNBCtelevision"}}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
