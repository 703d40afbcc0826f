// Package selector chooses the single qualifying item for a channel run.
//
// Channel listings are frequently returned in non-strict chronological order
// and may include broadcasts still in progress. Selection therefore works on
// each entry's effective time — the conclusion instant for ended broadcasts,
// the publish instant otherwise — with ongoing and upcoming broadcasts
// excluded unconditionally.
package selector

import (
	"context"
	"fmt"
	"time"

	"ytdigest/youtube"
)

// Candidate is the single entry selected for processing in a channel run.
type Candidate struct {
	youtube.Entry

	// EffectiveTime is the instant used to test recency.
	EffectiveTime time.Time
	// WatchURL is the resolved reference consumed by the pipeline.
	WatchURL string
}

// ListingError reports a failed listing fetch during selection. It is a
// channel-level failure, distinct from the normal no-candidate outcome.
type ListingError struct {
	Channel string
	Err     error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list recent entries for %s: %v", e.Channel, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// Selector retrieves recent entries for a channel and picks at most one
// qualifying candidate within the recency window.
type Selector struct {
	// Lister is the listing capability.
	Lister youtube.RecentLister
	// Window is the recency window measured against effective time.
	Window time.Duration
	// MaxEntries bounds the listing fetch. Older entries are never
	// considered, even if they would otherwise qualify.
	MaxEntries int
}

// SelectQualifying fetches recent entries for channelID and returns the
// qualifying candidate, or nil when no entry qualifies. A nil result is a
// normal outcome, not an error.
func (s *Selector) SelectQualifying(ctx context.Context, channelID string, now time.Time) (*Candidate, error) {
	maxEntries := s.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 12
	}

	entries, err := s.Lister.ListRecent(ctx, channelID, maxEntries)
	if err != nil {
		return nil, &ListingError{Channel: channelID, Err: err}
	}

	return Select(entries, s.Window, now), nil
}

// Select picks the eligible entry with the latest effective time within the
// window, ties broken by listing order. It returns nil when no entry
// qualifies.
func Select(entries []youtube.Entry, window time.Duration, now time.Time) *Candidate {
	var best *Candidate
	for _, entry := range entries {
		if !entry.LiveState.Concluded() {
			continue
		}
		eff, ok := effectiveTime(entry)
		if !ok {
			continue
		}
		if now.Sub(eff) > window {
			continue
		}
		// Strictly-later wins; an equal effective time keeps the
		// earlier-listed entry.
		if best == nil || eff.After(best.EffectiveTime) {
			candidate := &Candidate{
				Entry:         entry,
				EffectiveTime: eff,
				WatchURL:      entry.URL(),
			}
			best = candidate
		}
	}
	return best
}

// effectiveTime returns the instant used to test recency: the conclusion
// instant for ended broadcasts, the publish instant otherwise. The second
// return is false when no instant can be determined.
func effectiveTime(entry youtube.Entry) (time.Time, bool) {
	if entry.LiveState == youtube.LiveStateEnded {
		// A concluded broadcast is only as recent as its end; without a
		// conclusion instant its recency cannot be established.
		if entry.LiveEndedAt.IsZero() {
			return time.Time{}, false
		}
		return entry.LiveEndedAt, true
	}
	if !entry.Published.IsZero() {
		return entry.Published, true
	}
	return time.Time{}, false
}
