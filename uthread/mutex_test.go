// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import "testing"

// newTestCore builds a core around a fabricated scheduler, for
// exercising mutex.go's non-blocking paths without going through
// Init's real timer and signal plumbing.
func newTestCore(extra ...int) *core {
	return &core{sched: newTestScheduler(extra...)}
}

func TestMutexLockUnlockUncontended(t *testing.T) {
	c := newTestCore()
	if err := c.lock(0); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !c.sched.mutex.locked || c.sched.mutex.holder != 0 {
		t.Fatalf("mutex state after lock: locked=%v holder=%d", c.sched.mutex.locked, c.sched.mutex.holder)
	}
	if err := c.unlock(0); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if c.sched.mutex.locked {
		t.Fatal("mutex still locked after unlock")
	}
}

func TestMutexDoubleLockByHolderErrors(t *testing.T) {
	c := newTestCore()
	if err := c.lock(0); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := c.lock(0); err == nil {
		t.Fatal("relocking by the current holder did not error")
	}
}

func TestMutexUnlockWithoutHoldingErrors(t *testing.T) {
	c := newTestCore()
	if err := c.unlock(0); err == nil {
		t.Fatal("unlock without holding the mutex did not error")
	}

	c.sched.mutex.locked = true
	c.sched.mutex.holder = 1
	if err := c.unlock(0); err == nil {
		t.Fatal("unlock by a non-holder did not error")
	}
}
