package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []int
}

func (r *recorder) record(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.calls))
	copy(out, r.calls)
	return out
}

const delay = 500 * time.Millisecond

func TestDebouncer_CoalescesBurstIntoLastCall(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	d := New(delay, rec.record, WithClock(clock))

	for i := 1; i <= 5; i++ {
		d.Call(i)
		clock.Advance(delay / 2)
	}
	require.Empty(t, rec.snapshot())
	require.True(t, d.Pending())

	clock.Advance(delay)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []int{5}, rec.snapshot())
	require.False(t, d.Pending())

	// nothing else fires later
	clock.Advance(10 * delay)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, []int{5}, rec.snapshot())
}

func TestDebouncer_SeparateWindowsFireSeparately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	d := New(delay, rec.record, WithClock(clock))

	d.Call(1)
	clock.Advance(delay)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Call(2)
	clock.Advance(delay)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []int{1, 2}, rec.snapshot())
}

func TestDebouncer_CancelDropsPendingCall(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	d := New(delay, rec.record, WithClock(clock))

	d.Call(7)
	require.True(t, d.Cancel())
	require.False(t, d.Cancel())

	clock.Advance(2 * delay)
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, rec.snapshot())
}

func TestDebouncer_StopPreventsFurtherCalls(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	d := New(delay, rec.record, WithClock(clock))

	d.Call(1)
	d.Stop()
	d.Call(2)
	require.False(t, d.Pending())

	clock.Advance(2 * delay)
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, rec.snapshot())
}

func TestDebouncer_RealClock(t *testing.T) {
	done := make(chan string, 1)
	d := New(20*time.Millisecond, func(s string) { done <- s })

	d.Call("a")
	d.Call("b")

	select {
	case got := <-done:
		require.Equal(t, "b", got)
	case <-time.After(time.Second):
		t.Fatal("debounced function was not called")
	}
}
