package poolx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntryPendingLifecycle(t *testing.T) {
	e := newPendingEntry[int]()
	require.True(t, e.isPending())
	require.True(t, e.isClosed())
	require.Equal(t, int32(0), e.usageCount())

	require.False(t, e.tryAcquire(1, -1), "pending entries must never be acquirable")
}

func TestEntryTryAcquireRespectsMaxMultiplex(t *testing.T) {
	e := newPendingEntry[int]()
	e.state.Store(0, 0) // open, idle
	e.pooled = 42

	require.True(t, e.tryAcquire(2, -1))
	require.True(t, e.tryAcquire(2, -1))
	require.False(t, e.tryAcquire(2, -1), "third acquire exceeds maxMultiplex=2")

	hi, lo := e.state.Load()
	require.Equal(t, int32(2), hi)
	require.Equal(t, int32(2), lo)
}

func TestEntryTryAcquireRespectsMaxUsageCount(t *testing.T) {
	e := newPendingEntry[int]()
	e.state.Store(0, 0)

	require.True(t, e.tryAcquire(5, 2)) // hi 0 -> 1
	reusable, err := e.tryRelease(2)
	require.NoError(t, err)
	require.True(t, reusable)

	require.True(t, e.tryAcquire(5, 2)) // hi 1 -> 2, now at cap
	reusable, err = e.tryRelease(2)
	require.NoError(t, err)
	require.False(t, reusable, "entry must retire once hi reaches maxUsageCount")

	require.False(t, e.tryAcquire(5, 2), "retired entry is never acquirable again")
}

func TestEntryTryReleaseDoubleReleaseIsAnError(t *testing.T) {
	e := newPendingEntry[int]()
	e.state.Store(0, 0)

	_, err := e.tryRelease(-1)
	require.ErrorIs(t, err, ErrDoubleRelease)
}

func TestEntryTryReleaseOnClosedReturnsFalseNoError(t *testing.T) {
	e := newPendingEntry[int]()
	e.state.Store(-1, 1) // closed but one outstanding holder

	reusable, err := e.tryRelease(-1)
	require.NoError(t, err)
	require.False(t, reusable)
}

func TestEntryTryRemoveIsIdempotent(t *testing.T) {
	e := newPendingEntry[int]()
	e.state.Store(0, 0) // open, idle

	token, wasPending := e.tryRemove()
	require.True(t, token)
	require.False(t, wasPending)

	// A second tryRemove on the now-finalized entry must not re-grant the
	// delete token, or callers would double-dispose the pooled value.
	token, _ = e.tryRemove()
	require.False(t, token)
}

func TestEntryTryRemoveDrainsMultiplexedEntryAcrossMultipleCalls(t *testing.T) {
	e := newPendingEntry[int]()
	e.state.Store(0, 0)
	require.True(t, e.tryAcquire(3, -1))
	require.True(t, e.tryAcquire(3, -1))
	require.True(t, e.tryAcquire(3, -1)) // lo == 3

	token, _ := e.tryRemove() // lo 3 -> 2
	require.False(t, token)
	token, _ = e.tryRemove() // lo 2 -> 1
	require.False(t, token)
	token, _ = e.tryRemove() // lo 1 -> 0
	require.True(t, token, "the last-out caller must win the delete token")

	token, _ = e.tryRemove() // already finalized
	require.False(t, token)
}

func TestEntryTryRemoveOnPendingReportsWasPending(t *testing.T) {
	e := newPendingEntry[int]()
	token, wasPending := e.tryRemove()
	require.True(t, token)
	require.True(t, wasPending)
}

func TestEntryUsageCountNeverNegative(t *testing.T) {
	e := newPendingEntry[int]()
	require.Equal(t, int32(0), e.usageCount())
	e.state.Store(math.MinInt32, 0)
	require.Equal(t, int32(0), e.usageCount())
}
