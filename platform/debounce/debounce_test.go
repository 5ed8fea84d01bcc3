package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCallCoalesces(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Close()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Call("k", func() { calls.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	d := New(20 * time.Millisecond)
	defer d.Close()

	var a, b atomic.Int32
	d.Call("a", func() { a.Add(1) })
	d.Call("b", func() { b.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if a.Load() != 1 || b.Load() != 1 {
		t.Errorf("expected one call per key, got a=%d b=%d", a.Load(), b.Load())
	}
}

func TestFlushRunsImmediately(t *testing.T) {
	d := New(time.Hour)
	defer d.Close()

	var calls atomic.Int32
	d.Call("k", func() { calls.Add(1) })
	d.Flush("k")

	if got := calls.Load(); got != 1 {
		t.Errorf("expected flush to run the pending call, got %d", got)
	}

	// Flushing again must not re-run anything.
	d.Flush("k")
	if got := calls.Load(); got != 1 {
		t.Errorf("expected no second call after flush, got %d", got)
	}
}

func TestCancelDropsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	defer d.Close()

	var calls atomic.Int32
	d.Call("k", func() { calls.Add(1) })
	d.Cancel("k")

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected cancel to drop the call, got %d", got)
	}
}

// No callback may fire after Close, even if its timer was already scheduled.
func TestCloseSuppressesPending(t *testing.T) {
	d := New(20 * time.Millisecond)

	var calls atomic.Int32
	d.Call("k", func() { calls.Add(1) })
	d.Close()

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after Close, got %d", got)
	}

	d.Call("k", func() { calls.Add(1) })
	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected Call after Close to be a no-op, got %d", got)
	}
}
