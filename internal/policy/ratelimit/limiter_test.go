package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 1, Burst: 2, SweepInterval: time.Hour})
	defer l.Close()

	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"), "third request within the same minute must be denied")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 1, Burst: 1, SweepInterval: time.Hour})
	defer l.Close()

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"), "a different client has its own bucket")
}

func TestLimiter_UnlimitedWhenRateZero(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 0, Burst: 1, SweepInterval: time.Hour})
	defer l.Close()

	for range 100 {
		require.True(t, l.Allow("10.0.0.1"))
	}
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	t.Parallel()

	l := New(Config{
		RequestsPerMinute: 60,
		Burst:             1,
		IdleTTL:           10 * time.Millisecond,
		SweepInterval:     time.Hour,
	})
	defer l.Close()

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	require.Equal(t, 2, l.Len())

	l.evictIdle(time.Now().Add(time.Second))
	require.Zero(t, l.Len())
}

func TestLimiter_EvictionKeepsActiveClients(t *testing.T) {
	t.Parallel()

	l := New(Config{
		RequestsPerMinute: 60,
		Burst:             1,
		IdleTTL:           time.Minute,
		SweepInterval:     time.Hour,
	})
	defer l.Close()

	l.Allow("10.0.0.1")
	l.evictIdle(time.Now())
	require.Equal(t, 1, l.Len())
}

func TestLimiter_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 60, Burst: 1})
	l.Close()
	l.Close()
}
