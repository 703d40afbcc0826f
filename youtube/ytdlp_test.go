package youtube

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseFlatPlaylist(t *testing.T) {
	data := []byte(`{
		"id": "UCAuUUnT6oDeKwE6v1NGQxug",
		"title": "Some Channel - Videos",
		"channel_id": "UCAuUUnT6oDeKwE6v1NGQxug",
		"entries": [
			{"id": "vid1", "title": "Morning Update", "live_status": "not_live", "timestamp": 1756210000},
			{"id": "vid2", "title": "Live Show", "live_status": "was_live", "release_timestamp": 1756200000, "duration": 3600},
			{"id": "vid3", "title": "Happening Now", "live_status": "is_live"},
			{"id": "vid4", "title": "Coming Soon", "live_status": "is_upcoming", "release_timestamp": 1756300000}
		]
	}`)

	entries, err := parseFlatPlaylist(data)
	if err != nil {
		t.Fatalf("parseFlatPlaylist() error = %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	if entries[0].LiveState != LiveStateNone {
		t.Errorf("entries[0].LiveState = %s, want %s", entries[0].LiveState, LiveStateNone)
	}
	if got := entries[0].Published.Unix(); got != 1756210000 {
		t.Errorf("entries[0].Published = %d, want 1756210000", got)
	}
	if entries[0].ChannelID != "UCAuUUnT6oDeKwE6v1NGQxug" {
		t.Errorf("entries[0].ChannelID = %q: playlist channel_id should backfill entries", entries[0].ChannelID)
	}

	if entries[1].LiveState != LiveStateEnded {
		t.Errorf("entries[1].LiveState = %s, want %s", entries[1].LiveState, LiveStateEnded)
	}
	wantEnd := time.Unix(1756200000, 0).UTC().Add(time.Hour)
	if !entries[1].LiveEndedAt.Equal(wantEnd) {
		t.Errorf("entries[1].LiveEndedAt = %v, want start+duration = %v", entries[1].LiveEndedAt, wantEnd)
	}

	if entries[2].LiveState != LiveStateOngoing {
		t.Errorf("entries[2].LiveState = %s, want %s", entries[2].LiveState, LiveStateOngoing)
	}
	if !entries[2].LiveEndedAt.IsZero() {
		t.Error("ongoing broadcast must carry no conclusion instant")
	}

	if entries[3].LiveState != LiveStateUpcoming {
		t.Errorf("entries[3].LiveState = %s, want %s", entries[3].LiveState, LiveStateUpcoming)
	}
}

func TestParseFlatPlaylist_Invalid(t *testing.T) {
	if _, err := parseFlatPlaylist([]byte("not json")); err == nil {
		t.Error("parseFlatPlaylist(garbage) error = nil, want parse error")
	}
}

func TestLiveStateFromStatus(t *testing.T) {
	tests := []struct {
		status string
		want   LiveState
	}{
		{"not_live", LiveStateNone},
		{"was_live", LiveStateEnded},
		{"post_live", LiveStateEnded},
		{"is_live", LiveStateOngoing},
		{"is_upcoming", LiveStateUpcoming},
		{"", LiveStateUnknown},
		{"something_else", LiveStateUnknown},
	}
	for _, tt := range tests {
		if got := liveStateFromStatus(tt.status); got != tt.want {
			t.Errorf("liveStateFromStatus(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestFlatEntryPublished(t *testing.T) {
	tests := []struct {
		name string
		raw  flatEntry
		want time.Time
	}{
		{"timestamp preferred", flatEntry{Timestamp: 1756210000, ReleaseTimestamp: 1756200000, UploadDate: "20260820"},
			time.Unix(1756210000, 0).UTC()},
		{"release timestamp fallback", flatEntry{ReleaseTimestamp: 1756200000, UploadDate: "20260820"},
			time.Unix(1756200000, 0).UTC()},
		{"upload date fallback", flatEntry{UploadDate: "20260820"},
			time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{"nothing known", flatEntry{}, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flatEntryPublished(tt.raw); !got.Equal(tt.want) {
				t.Errorf("flatEntryPublished() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTabURL(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		tab     string
		want    string
	}{
		{"bare id videos", "UCAuUUnT6oDeKwE6v1NGQxug", "videos",
			"https://www.youtube.com/channel/UCAuUUnT6oDeKwE6v1NGQxug/videos"},
		{"bare id streams", "UCAuUUnT6oDeKwE6v1NGQxug", "streams",
			"https://www.youtube.com/channel/UCAuUUnT6oDeKwE6v1NGQxug/streams"},
		{"handle", "@SomeHandle", "videos",
			"https://www.youtube.com/@SomeHandle/videos"},
		{"handle streams", "@SomeHandle", "streams",
			"https://www.youtube.com/@SomeHandle/streams"},
		{"channel root url", "https://www.youtube.com/@SomeHandle", "videos",
			"https://www.youtube.com/@SomeHandle/videos"},
		{"trailing slash", "https://www.youtube.com/@SomeHandle/", "streams",
			"https://www.youtube.com/@SomeHandle/streams"},
		{"videos url retargeted", "https://www.youtube.com/@SomeHandle/videos", "streams",
			"https://www.youtube.com/@SomeHandle/streams"},
		{"streams url retargeted", "https://www.youtube.com/@SomeHandle/streams", "videos",
			"https://www.youtube.com/@SomeHandle/videos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tabURL(tt.channel, tt.tab); got != tt.want {
				t.Errorf("tabURL(%q, %q) = %q, want %q", tt.channel, tt.tab, got, tt.want)
			}
		})
	}
}

// Every listing URL must name an explicit tab: flat extraction of a bare
// channel root serves the channel page, whose entries lack live_status and
// timestamps and so can never qualify for selection.
func TestTabURL_NeverBareChannelRoot(t *testing.T) {
	channels := []string{
		"UCAuUUnT6oDeKwE6v1NGQxug",
		"@SomeHandle",
		"https://www.youtube.com/@SomeHandle",
		"https://www.youtube.com/channel/UCAuUUnT6oDeKwE6v1NGQxug",
	}
	for _, channel := range channels {
		for _, tab := range channelTabs {
			got := tabURL(channel, tab)
			if !strings.HasSuffix(got, "/"+tab) {
				t.Errorf("tabURL(%q, %q) = %q, want explicit /%s suffix", channel, tab, got, tab)
			}
		}
	}
}

func TestListErrorFromStderr(t *testing.T) {
	base := errors.New("exit status 1")
	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{"missing streams tab", "ERROR: [youtube:tab] This channel does not have a streams tab", errTabMissing},
		{"channel not found", "ERROR: This channel does not exist", ErrChannelNotFound},
		{"rate limited", "ERROR: HTTP Error 429: Too Many Requests", ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listErrorFromStderr(base, tt.stderr); !errors.Is(got, tt.want) {
				t.Errorf("listErrorFromStderr(%q) = %v, want %v", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestValidChannelID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"UCAuUUnT6oDeKwE6v1NGQxug", true},
		{"UC_x5XG1OV2P6uZZ5FSM9Ttw", true},
		{"@SomeHandle", false},
		{"UCtooShort", false},
		{"", false},
		{"ucAuUUnT6oDeKwE6v1NGQxug", false},
	}
	for _, tt := range tests {
		if got := ValidChannelID(tt.id); got != tt.want {
			t.Errorf("ValidChannelID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
