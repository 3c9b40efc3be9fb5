package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowDrainsAndRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1).WithClock(func() time.Time { return now })

	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"), "keys are independent")

	now = now.Add(1500 * time.Millisecond)
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"), "refill is capped at capacity")
}

func TestAllowEvictsRefilledBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1).WithClock(func() time.Time { return now })

	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"))
	require.True(t, l.Allow("10.0.0.2"))
	require.Equal(t, 2, l.size())

	now = now.Add(2 * time.Minute)
	require.True(t, l.Allow("10.0.0.3"))
	require.Equal(t, 1, l.size(), "idle buckets are dropped once full")

	require.True(t, l.Allow("10.0.0.2"))
	require.True(t, l.Allow("10.0.0.2"))
	require.False(t, l.Allow("10.0.0.2"), "an evicted key starts full, not fresh beyond capacity")
}

func TestAllowKeepsDrainedBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 0).WithClock(func() time.Time { return now })

	require.True(t, l.Allow("10.0.0.1"))
	now = now.Add(2 * time.Minute)
	require.True(t, l.Allow("10.0.0.2"))
	require.False(t, l.Allow("10.0.0.1"), "a bucket that never refills is not evicted")
}
