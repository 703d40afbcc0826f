package youtube

import (
	"context"
	"fmt"
	"strings"
)

// IDCache is the write-back cache the resolver consults before any network
// lookup. Keys are normalized references; values are canonical channel IDs.
type IDCache interface {
	Get(reference string) (string, bool)
	Put(reference, channelID string)
}

// ResolutionError reports a failed identity resolution for a reference.
type ResolutionError struct {
	Reference string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Reference, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver maps human-supplied channel references (URLs, handles, bare IDs)
// to canonical channel IDs. Resolution is idempotent: the same reference
// always yields the same ID, and a cache hit short-circuits all I/O.
type Resolver struct {
	Lister RecentLister
	Cache  IDCache
}

// NewResolver creates a resolver over the given listing backend and cache.
func NewResolver(lister RecentLister, cache IDCache) *Resolver {
	return &Resolver{Lister: lister, Cache: cache}
}

// Resolve returns the canonical channel ID for reference. On a cache miss it
// performs exactly one single-entry listing request, validates the ID shape,
// and writes the result back into the cache.
func (r *Resolver) Resolve(ctx context.Context, reference string) (string, error) {
	key := NormalizeReference(reference)
	if key == "" {
		return "", &ResolutionError{Reference: reference, Err: ErrInvalidReference}
	}

	if r.Cache != nil {
		if id, ok := r.Cache.Get(key); ok {
			return id, nil
		}
	}

	// A bare canonical ID needs no lookup.
	if ValidChannelID(key) {
		if r.Cache != nil {
			r.Cache.Put(key, key)
		}
		return key, nil
	}

	entries, err := r.Lister.ListRecent(ctx, key, 1)
	if err != nil {
		return "", &ResolutionError{Reference: reference, Err: err}
	}
	if len(entries) == 0 {
		return "", &ResolutionError{Reference: reference, Err: fmt.Errorf("listing returned no entries")}
	}

	id := entries[0].ChannelID
	if !ValidChannelID(id) {
		return "", &ResolutionError{Reference: reference, Err: fmt.Errorf("listing returned invalid channel id %q", id)}
	}

	if r.Cache != nil {
		r.Cache.Put(key, id)
	}
	return id, nil
}

// NormalizeReference canonicalizes a channel reference for cache keying:
// whitespace and trailing slashes are stripped and mobile host variants are
// folded into the desktop host.
func NormalizeReference(reference string) string {
	ref := strings.TrimSpace(reference)
	ref = strings.TrimSuffix(ref, "/")
	for _, mobile := range []string{"m.youtube.com", "mobile.youtube.com"} {
		ref = strings.Replace(ref, mobile, "www.youtube.com", 1)
	}
	ref = strings.Replace(ref, "://youtube.com", "://www.youtube.com", 1)
	return ref
}
