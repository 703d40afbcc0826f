// Package ytdigest produces a daily market-commentary digest from a fixed
// set of video channels.
//
// For each configured channel, a run resolves the channel reference to its
// canonical identifier, selects at most one qualifying item published within
// the recency window, and drives a retried acquisition-and-transcription
// pipeline over it, collecting one outcome per channel into the final
// report.
//
// # Overview
//
// The run proceeds through the sub-packages in dependency order:
//
//   - youtube: channel listing backends and identity resolution
//   - selector: effective-time candidate selection with live-state exclusion
//   - media, transcribe: yt-dlp/ffmpeg/whisper subprocess capabilities
//   - pipeline: the fixed fetch → normalize → split → transcribe sequence
//   - runner: the bounded-retry controller and per-channel run driver
//   - report: the per-channel status report
//
// # Selection rules
//
// Listings are frequently non-chronological and may include broadcasts still
// in progress. Selection therefore excludes ongoing and upcoming broadcasts
// unconditionally and ranks the remaining entries by effective time: the
// conclusion instant for ended broadcasts, the publish instant otherwise.
// A channel with no entry inside the window yields the normal NO_VIDEO
// outcome, distinct from any failure.
//
// # Error handling
//
// All operations return errors supporting the standard patterns.
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytdigest.ErrChannelNotFound) {
//		fmt.Println("channel not found")
//	}
//
// Extracting wrapped error details:
//
//	var resErr *ytdigest.ResolutionError
//	if errors.As(err, &resErr) {
//		fmt.Printf("resolving %s failed: %v\n", resErr.Reference, resErr.Err)
//	}
//
// Pipeline failures are additionally classified into diagnostic labels
// (HTTP_403, GEO_BLOCK, TIMEOUT, ...) for reporting; classification is
// advisory and never changes retry behavior.
//
// # Dependencies
//
// ytdigest requires yt-dlp and ffmpeg on the PATH (or configured paths), and
// a whisper.cpp-style transcription binary with a model file. Channel
// listing can alternatively use the YouTube Data API v3 when an API key is
// configured.
package ytdigest
