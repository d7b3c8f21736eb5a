package poolx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReservationEnablePublishesValue(t *testing.T) {
	p, err := New[*int](2, 0)
	require.NoError(t, err)
	defer p.Close()

	r, ok := p.Reserve(-1)
	require.True(t, ok)

	v := 7
	require.NoError(t, r.Enable(&v))

	entry, ok := p.Acquire()
	require.True(t, ok)
	require.Equal(t, &v, entry.Pooled())
}

func TestReservationEnableTwiceFails(t *testing.T) {
	p, err := New[*int](1, 0)
	require.NoError(t, err)
	defer p.Close()

	r, ok := p.Reserve(-1)
	require.True(t, ok)

	v := 1
	require.NoError(t, r.Enable(&v))
	require.ErrorIs(t, r.Enable(&v), ErrNotPending)
}

func TestReservationEnableMissingValueFails(t *testing.T) {
	p, err := New[*int](1, 0)
	require.NoError(t, err)
	defer p.Close()

	r, ok := p.Reserve(-1)
	require.True(t, ok)
	require.ErrorIs(t, r.Enable(nil), ErrMissingValue)
}

func TestReservationAcquireIsAtomicEnableAndAcquire(t *testing.T) {
	p, err := New[*int](1, 0)
	require.NoError(t, err)
	defer p.Close()

	r, ok := p.Reserve(-1)
	require.True(t, ok)

	v := 9
	entry, err := r.Acquire(&v)
	require.NoError(t, err)
	require.Equal(t, &v, entry.Pooled())
	require.Equal(t, int32(1), entry.UsageCount())

	// No other acquire should succeed: maxMultiplex defaults to 1 and the
	// entry is already held by the caller of Reservation.Acquire.
	_, ok = p.Acquire()
	require.False(t, ok)
}

func TestReservationRemoveResolvesPendingEntry(t *testing.T) {
	p, err := New[*int](3, 0)
	require.NoError(t, err)
	defer p.Close()

	r1, _ := p.Reserve(-1)
	r2, _ := p.Reserve(-1)
	r3, _ := p.Reserve(-1)

	r2.Remove()
	require.Equal(t, 2, p.Size())
	require.Equal(t, 2, p.PendingCount())

	v1, v3 := 1, 3
	require.NoError(t, r1.Enable(&v1))
	require.NoError(t, r3.Enable(&v3))
	require.Equal(t, 0, p.PendingCount())
}
