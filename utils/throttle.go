package utils

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out outgoing requests so that at most one starts per
// interval. A zero interval disables pacing.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a Throttle allowing one request every interval.
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may start or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// URLSet is an insertion-ordered set of URLs.
type URLSet struct {
	seen  map[string]struct{}
	order []string
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// Contains returns true if the URL is in the set.
func (s *URLSet) Contains(url string) bool {
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	return len(s.order)
}

// Slice returns the URLs in the order they were first added.
func (s *URLSet) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
