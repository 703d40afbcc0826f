package ytdigest

import (
	"ytdigest/pipeline"
	"ytdigest/selector"
	"ytdigest/storage"
	"ytdigest/youtube"
)

// Type aliases for convenient error handling across package boundaries.
type (
	// ResolutionError wraps a failed channel identity resolution.
	ResolutionError = youtube.ResolutionError
	// ListerError wraps errors from a listing backend.
	ListerError = youtube.ListerError
	// ListingError wraps a failed listing fetch during candidate selection.
	ListingError = selector.ListingError
	// FetchError wraps a failed media download.
	FetchError = pipeline.FetchError
	// NormalizeError wraps a failed waveform conversion.
	NormalizeError = pipeline.NormalizeError
	// SplitError wraps a failed segment partitioning.
	SplitError = pipeline.SplitError
	// EmptyTranscriptError reports a transcript empty after trimming.
	EmptyTranscriptError = pipeline.EmptyTranscriptError
	// StorageError wraps errors during cache persistence.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrChannelNotFound indicates the channel does not exist upstream.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrRateLimited indicates the listing operation was rate limited.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrInvalidReference indicates the channel reference is unusable.
	ErrInvalidReference = youtube.ErrInvalidReference
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = youtube.ErrYtdlpNotInstalled

	// ErrStorageCorrupt indicates cache data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring the cache file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)
