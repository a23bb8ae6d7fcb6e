// SPDX-License-Identifier: Unlicense OR MIT

package uthread

// noHolder is the sentinel "no thread" holder value, mirroring the
// original C++ source's locking_thread == -1 convention.
const noHolder = -1

// Mutex is the library's single, process-wide binary mutex (spec
// §3, §4.5). Its contention policy is integrated with the scheduler
// through the mutexWait set rather than any OS-level primitive —
// only one logical thread ever runs at a time, so there is nothing
// for an OS mutex to arbitrate.
type Mutex struct {
	locked bool
	holder int
}

// lock is the core of MutexLock (spec §4.5), called with the
// preemption signal masked. The re-check loop tolerates the awakened
// waiter finding the mutex re-taken before it runs again; under this
// single-runner scheduler the loop in practice iterates at most once,
// but the structure is kept — as the original source keeps it — as a
// correctness hedge and a documentation of the real race a
// multi-runner implementation would have to handle.
func (c *core) lock(id int) error {
	if c.sched.mutex.locked && c.sched.mutex.holder == id {
		return usageErrorf("mutex_lock: thread %d already holds the mutex", id)
	}
	for c.sched.mutex.locked {
		if !c.sched.isRunnableWaiting() {
			return usageErrorf("mutex_lock: thread %d has no other runnable thread to wait for the mutex", id)
		}
		c.switchMidQuantum(func(outgoing int) {
			c.sched.waitForMutex(outgoing)
		})
	}
	c.sched.mutex.locked = true
	c.sched.mutex.holder = id
	return nil
}

// unlock is the core of MutexUnlock (spec §4.5).
func (c *core) unlock(id int) error {
	if !c.sched.mutex.locked || c.sched.mutex.holder != id {
		return usageErrorf("mutex_unlock: thread %d does not hold the mutex", id)
	}
	c.sched.mutex.locked = false
	c.sched.mutex.holder = noHolder
	c.sched.advanceMutexLine()
	return nil
}
