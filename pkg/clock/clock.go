// Package clock abstracts the time source used by the toast lifecycle.
//
// Real delegates to the time package. Virtual is a manually advanced clock
// whose timers fire synchronously, in deadline order, from inside Advance,
// which keeps lifecycle tests and the simulator deterministic.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a pending AfterFunc call.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was already stopped.
	Stop() bool
}

// Clock is the time source for scheduling.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Virtual is a Clock that only moves when Advance is called.
// It is safe for concurrent use.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*virtualTimer
}

// NewVirtual creates a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules fn to run when the virtual time reaches now+d.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()

	if d < 0 {
		d = 0
	}
	v.seq++
	t := &virtualTimer{clock: v, at: v.now.Add(d), seq: v.seq, fn: fn}
	v.timers = append(v.timers, t)
	return t
}

// Advance moves the clock forward by d, running every timer that comes due.
// Timers scheduled by callbacks also run if they fall inside the window.
// Callbacks run on the caller's goroutine without the clock lock held.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		t := v.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	v.mu.Lock()
	if v.now.Before(target) {
		v.now = target
	}
	v.mu.Unlock()
}

// Pending returns the number of timers that have not fired or been stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// popDue removes and returns the earliest timer due at or before target,
// moving the clock to its deadline.
func (v *Virtual) popDue(target time.Time) *virtualTimer {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.timers) == 0 {
		return nil
	}
	sort.Slice(v.timers, func(i, j int) bool {
		a, b := v.timers[i], v.timers[j]
		if a.at.Equal(b.at) {
			return a.seq < b.seq
		}
		return a.at.Before(b.at)
	})
	t := v.timers[0]
	if t.at.After(target) {
		return nil
	}
	v.timers = v.timers[1:]
	if t.at.After(v.now) {
		v.now = t.at
	}
	return t
}

func (v *Virtual) remove(t *virtualTimer) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, other := range v.timers {
		if other == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return true
		}
	}
	return false
}

type virtualTimer struct {
	clock *Virtual
	at    time.Time
	seq   uint64
	fn    func()
}

func (t *virtualTimer) Stop() bool {
	return t.clock.remove(t)
}
