// Package youtube provides channel listing and identity resolution.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Sentinel errors for listing and resolution operations.
var (
	ErrChannelNotFound   = errors.New("youtube: channel not found")
	ErrRateLimited       = errors.New("youtube: rate limited")
	ErrNetworkTimeout    = errors.New("youtube: network timeout")
	ErrInvalidReference  = errors.New("youtube: invalid channel reference")
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
)

// LiveState describes the broadcast state of a listed entry.
type LiveState string

const (
	// LiveStateNone marks a regular upload that was never a live broadcast.
	LiveStateNone LiveState = "not_live"
	// LiveStateEnded marks a live broadcast that has concluded.
	LiveStateEnded LiveState = "ended"
	// LiveStateOngoing marks a broadcast that is currently live.
	LiveStateOngoing LiveState = "ongoing"
	// LiveStateUpcoming marks a scheduled broadcast that has not started.
	LiveStateUpcoming LiveState = "upcoming"
	// LiveStateUnknown is used when the listing source carries no live markers.
	LiveStateUnknown LiveState = "unknown"
)

// Concluded reports whether the entry's content is complete and safe to
// process. Ongoing and upcoming broadcasts are never complete.
func (s LiveState) Concluded() bool {
	return s != LiveStateOngoing && s != LiveStateUpcoming
}

// Entry is one recently-published item from a channel listing.
type Entry struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string
	// Title is the video title.
	Title string
	// ChannelID is the canonical channel ID the entry belongs to.
	ChannelID string
	// Published is the publish instant. Zero when the source has none.
	Published time.Time
	// LiveState is the broadcast state derived from the listing source.
	LiveState LiveState
	// LiveEndedAt is the conclusion instant for ended broadcasts.
	// Zero for regular uploads or when the source has no end marker.
	LiveEndedAt time.Time
}

// URL returns the watch URL for the entry.
func (e Entry) URL() string {
	return "https://www.youtube.com/watch?v=" + e.ID
}

// RecentLister is the listing capability consumed by the resolver and the
// candidate selector. Implementations fetch up to maxCount of the most
// recent entries for a channel reference or canonical channel ID.
type RecentLister interface {
	ListRecent(ctx context.Context, channel string, maxCount int) ([]Entry, error)
}

// ListerError wraps errors from a listing backend with its source and the
// channel that was being listed.
type ListerError struct {
	Source  string
	Channel string
	Err     error
}

func (e *ListerError) Error() string {
	return fmt.Sprintf("list %s via %s: %v", e.Channel, e.Source, e.Err)
}

func (e *ListerError) Unwrap() error {
	return e.Err
}

// channelIDRegex matches YouTube channel IDs (UC followed by 22 base64 chars).
var channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)

// ValidChannelID reports whether s has the canonical channel ID shape.
func ValidChannelID(s string) bool {
	return channelIDRegex.MatchString(s)
}
