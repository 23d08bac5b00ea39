package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	assert.True(t, s.Add("https://example.com/1"), "first Add should return true")
	assert.False(t, s.Add("https://example.com/1"), "second Add of same URL should return false")
	assert.Equal(t, 1, s.Size())
	assert.True(t, s.Contains("https://example.com/1"))
	assert.False(t, s.Contains("https://example.com/2"))
}

func TestURLSetKeepsFirstSeenOrder(t *testing.T) {
	s := NewURLSet()
	for _, u := range []string{"c", "a", "c", "b", "a"} {
		s.Add(u)
	}

	assert.Equal(t, []string{"c", "a", "b"}, s.Slice())
}

func TestThrottleSpacesRequests(t *testing.T) {
	interval := 50 * time.Millisecond
	th := NewThrottle(interval)
	ctx := context.Background()

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		require.NoError(t, th.Wait(ctx))
		timestamps = append(timestamps, time.Now())
	}

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		// allow a little scheduler slack
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond, "gap between request %d and %d", i-1, i)
	}
}

func TestThrottleZeroIntervalDoesNotBlock(t *testing.T) {
	th := NewThrottle(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	calls := 0
	err := r.Do(context.Background(), "op", func() error {
		calls++
		if calls < 2 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("still failing")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}

	err := r.Do(context.Background(), "fetch", func() error { return sentinel })

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "fetch failed after 2 attempts")
}

func TestRetrySingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	sentinel := errors.New("nope")
	r := &RetryConfig{}

	err := r.Do(context.Background(), "fetch", func() error { return sentinel })

	assert.Equal(t, sentinel, err)
}
