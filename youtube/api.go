package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// APILister implements RecentLister using the YouTube Data API v3.
// Unlike flat yt-dlp extractions, the API exposes liveStreamingDetails,
// which carries the actual conclusion instant for ended broadcasts.
type APILister struct {
	service *youtube.Service

	// Limiter throttles API calls when set.
	Limiter *rate.Limiter
}

// NewAPILister creates a Data API backed lister with the given API key.
func NewAPILister(ctx context.Context, apiKey string) (*APILister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &APILister{service: service}, nil
}

// ListRecent fetches up to maxCount of the most recent uploads for the
// channel, enriched with live-state markers and conclusion instants.
func (a *APILister) ListRecent(ctx context.Context, channel string, maxCount int) ([]Entry, error) {
	if maxCount <= 0 {
		maxCount = 1
	}
	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return nil, &ListerError{Source: "api", Channel: channel, Err: err}
		}
	}

	channelID := channel
	if !ValidChannelID(channelID) {
		resolved, err := a.channelIDForReference(ctx, channel)
		if err != nil {
			return nil, &ListerError{Source: "api", Channel: channel, Err: err}
		}
		channelID = resolved
	}

	playlistID, err := a.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, &ListerError{Source: "api", Channel: channel, Err: err}
	}

	ids, err := a.recentVideoIDs(ctx, playlistID, maxCount)
	if err != nil {
		return nil, &ListerError{Source: "api", Channel: channel, Err: err}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	entries, err := a.videoEntries(ctx, channelID, ids)
	if err != nil {
		return nil, &ListerError{Source: "api", Channel: channel, Err: err}
	}
	return entries, nil
}

// channelIDForReference resolves a handle or channel URL to a channel ID.
func (a *APILister) channelIDForReference(ctx context.Context, reference string) (string, error) {
	if handle, ok := handleFromReference(reference); ok {
		call := a.service.Channels.List([]string{"id"}).
			ForHandle(handle).
			Context(ctx)
		resp, err := call.Do()
		if err != nil {
			return "", apiError(ctx, err)
		}
		if len(resp.Items) == 0 {
			return "", ErrChannelNotFound
		}
		return resp.Items[0].Id, nil
	}

	if strings.Contains(reference, "/channel/") {
		parts := strings.Split(reference, "/channel/")
		id := strings.Split(parts[1], "/")[0]
		id = strings.Split(id, "?")[0]
		if ValidChannelID(id) {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: cannot resolve %q", ErrInvalidReference, reference)
}

// handleFromReference extracts an @handle from a bare handle or handle URL.
func handleFromReference(reference string) (string, bool) {
	if strings.HasPrefix(reference, "@") {
		return reference, true
	}
	idx := strings.Index(reference, "youtube.com/@")
	if idx < 0 {
		return "", false
	}
	handle := reference[idx+len("youtube.com/"):]
	handle = strings.Split(handle, "/")[0]
	handle = strings.Split(handle, "?")[0]
	return handle, true
}

// uploadsPlaylistID returns the uploads playlist for a channel.
func (a *APILister) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	call := a.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return "", apiError(ctx, err)
	}
	if len(resp.Items) == 0 {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// recentVideoIDs returns the newest maxCount video IDs from a playlist.
func (a *APILister) recentVideoIDs(ctx context.Context, playlistID string, maxCount int) ([]string, error) {
	call := a.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(int64(maxCount)).
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, apiError(ctx, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		ids = append(ids, item.ContentDetails.VideoId)
	}
	return ids, nil
}

// videoEntries fetches snippet and live-streaming details for the given IDs,
// preserving the input order.
func (a *APILister) videoEntries(ctx context.Context, channelID string, ids []string) ([]Entry, error) {
	call := a.service.Videos.List([]string{"snippet", "liveStreamingDetails"}).
		Id(ids...).
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, apiError(ctx, err)
	}

	byID := make(map[string]*youtube.Video, len(resp.Items))
	for _, v := range resp.Items {
		byID[v.Id] = v
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			continue
		}
		entry := Entry{
			ID:        v.Id,
			ChannelID: channelID,
			LiveState: LiveStateNone,
		}
		if v.Snippet != nil {
			entry.Title = v.Snippet.Title
			if t, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
				entry.Published = t
			}
			switch v.Snippet.LiveBroadcastContent {
			case "live":
				entry.LiveState = LiveStateOngoing
			case "upcoming":
				entry.LiveState = LiveStateUpcoming
			}
		}
		if d := v.LiveStreamingDetails; d != nil && entry.LiveState == LiveStateNone {
			// A video with streaming details and no ongoing/upcoming marker
			// is a concluded broadcast.
			entry.LiveState = LiveStateEnded
			if d.ActualEndTime != "" {
				if t, err := time.Parse(time.RFC3339, d.ActualEndTime); err == nil {
					entry.LiveEndedAt = t
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// apiError maps API call failures to sentinel errors where possible.
func apiError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrNetworkTimeout
	}
	msg := err.Error()
	if strings.Contains(msg, "quotaExceeded") || strings.Contains(msg, "rateLimitExceeded") {
		return ErrRateLimited
	}
	return err
}
