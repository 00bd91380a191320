package clock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/vango-dev/toaster/pkg/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualFiresInDeadlineOrder(t *testing.T) {
	c := clock.NewVirtual(epoch)
	var order []string

	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(99 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}

	c.Advance(time.Second)
	if got := len(order); got != 3 {
		t.Fatalf("fired %d timers, want 3", got)
	}
	if order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
	if !c.Now().Equal(epoch.Add(1099 * time.Millisecond)) {
		t.Errorf("Now() = %v", c.Now())
	}
}

func TestVirtualNowDuringCallback(t *testing.T) {
	c := clock.NewVirtual(epoch)
	var at time.Time
	c.AfterFunc(250*time.Millisecond, func() { at = c.Now() })
	c.Advance(time.Second)

	if !at.Equal(epoch.Add(250 * time.Millisecond)) {
		t.Errorf("callback saw %v, want deadline time", at)
	}
}

func TestVirtualNestedTimers(t *testing.T) {
	c := clock.NewVirtual(epoch)
	var fired []time.Duration

	c.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, c.Now().Sub(epoch))
		c.AfterFunc(100*time.Millisecond, func() {
			fired = append(fired, c.Now().Sub(epoch))
		})
	})

	c.Advance(150 * time.Millisecond)
	if len(fired) != 1 {
		t.Fatalf("fired = %v, want only the first timer", fired)
	}
	c.Advance(50 * time.Millisecond)
	if len(fired) != 2 || fired[1] != 200*time.Millisecond {
		t.Errorf("fired = %v, want [100ms 200ms]", fired)
	}
}

func TestVirtualStop(t *testing.T) {
	c := clock.NewVirtual(epoch)
	var n atomic.Int32
	timer := c.AfterFunc(time.Second, func() { n.Add(1) })

	if c.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", c.Pending())
	}
	if !timer.Stop() {
		t.Error("first Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}

	c.Advance(2 * time.Second)
	if n.Load() != 0 {
		t.Error("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestVirtualStopAfterFire(t *testing.T) {
	c := clock.NewVirtual(epoch)
	timer := c.AfterFunc(time.Millisecond, func() {})
	c.Advance(time.Millisecond)
	if timer.Stop() {
		t.Error("Stop after fire should report false")
	}
}

func TestRealClock(t *testing.T) {
	c := clock.Real()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real timer did not fire")
	}
	if c.Now().IsZero() {
		t.Error("Now() returned zero time")
	}
}
