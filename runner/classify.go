package runner

import "strings"

// Label is a diagnostic tag assigned to a failure for reporting purposes
// only. Classification never changes retry behavior.
type Label string

const (
	LabelHTTP403           Label = "HTTP_403"
	LabelHTTP404           Label = "HTTP_404"
	LabelHTTP429           Label = "HTTP_429"
	LabelGeoBlock          Label = "GEO_BLOCK"
	LabelAgeRestricted     Label = "AGE_RESTRICTED"
	LabelPrivateVideo      Label = "PRIVATE_VIDEO"
	LabelLive              Label = "LIVE"
	LabelFormatUnavailable Label = "FORMAT_UNAVAILABLE"
	LabelTimeout           Label = "TIMEOUT"
	LabelEmptyTranscript   Label = "EMPTY_TRANSCRIPT"
	LabelUnknown           Label = "UNKNOWN"
)

// classifyRule maps substrings of rendered error text to a label.
type classifyRule struct {
	label    Label
	reason   string
	patterns []string
}

// classifyRules are evaluated in order; the first match wins. The table is
// best-effort: tools change their wording, and an unmatched failure simply
// stays UNKNOWN.
var classifyRules = []classifyRule{
	{LabelEmptyTranscript, "transcription produced no text", []string{
		"empty transcript",
	}},
	{LabelGeoBlock, "content blocked in this region", []string{
		"not available in your country",
		"geo restricted",
		"geo-restricted",
	}},
	{LabelAgeRestricted, "content requires age verification", []string{
		"age-restricted",
		"age restricted",
		"confirm your age",
	}},
	{LabelPrivateVideo, "content is private", []string{
		"private video",
		"video is private",
		"video unavailable. this video is private",
	}},
	{LabelLive, "content is a live broadcast", []string{
		"this live event will begin",
		"premieres in",
		"is a live",
		"live event",
	}},
	{LabelFormatUnavailable, "no usable media format", []string{
		"requested format is not available",
		"no video formats",
		"no audio formats",
	}},
	{LabelHTTP429, "upstream rate limit", []string{
		"429",
		"too many requests",
	}},
	{LabelHTTP403, "upstream access denied", []string{
		"403",
		"forbidden",
	}},
	{LabelHTTP404, "content not found", []string{
		"404",
		"not found",
	}},
	{LabelTimeout, "operation timed out", []string{
		"timed out",
		"timeout",
		"deadline exceeded",
	}},
}

// Classify maps rendered error text to a diagnostic label and reason.
// It operates only on text so it stays decoupled from backend error types.
func Classify(text string) (Label, string) {
	lower := strings.ToLower(text)
	for _, rule := range classifyRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.label, rule.reason
			}
		}
	}
	return LabelUnknown, "unclassified failure"
}
