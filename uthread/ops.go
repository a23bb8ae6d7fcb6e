// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import (
	"os"
	"runtime"
	"time"
)

// withMasked runs fn with the preemption signal masked for the
// duration, per spec §5: every public operation is a masked critical
// section. Using defer here means the mask is always lifted — even if
// fn panics, returns a UsageError, or blocks and is later resumed by a
// jumpContext back into this exact call frame.
func withMasked(fn func() error) error {
	lib.mask()
	defer lib.unmask()
	return fn()
}

// Init prepares the scheduler and arms the preemption timer with the
// given quantum. It must be called exactly once, from what becomes
// thread 0, before any other operation. Matches uthread_init in the
// original source and spec §4.7's Init row.
//
// Init pins the calling goroutine to its OS thread and restricts the
// process to one active P: the manually-switched stacks this package
// installs are only ever safe to run on the single real OS thread that
// owns them (see DESIGN.md, "Timer signal delivery in a hosted Go
// runtime").
func Init(quantum time.Duration) error {
	if lib != nil {
		return usageErrorf("init: already initialized")
	}
	if quantum <= 0 {
		return usageErrorf("init: quantum must be positive, got %s", quantum)
	}
	runtime.LockOSThread()
	runtime.GOMAXPROCS(1)

	lib = &core{
		sched: newScheduler(),
		timer: newPreemptionTimer(quantum),
	}
	lib.timer.install()
	return nil
}

// Spawn allocates a new logical thread running entry and places it on
// the ready queue. Returns its ID. Matches uthread_spawn.
func Spawn(entry func()) (id int, err error) {
	err = withMasked(func() error {
		newID, ok := lib.sched.ids.allocate()
		if !ok {
			return usageErrorf("spawn: at capacity (%d threads)", MaxThreads)
		}
		t, terr := newSpawnedThread(newID, entry)
		if terr != nil {
			lib.sched.ids.release(newID)
			return terr
		}
		lib.sched.threads[newID] = t
		lib.sched.enqueueReady(newID)
		id = newID
		return nil
	})
	if err != nil {
		return -1, err
	}
	return id, nil
}

// Terminate ends thread id. Terminating thread 0 ends the process
// successfully and does not return. Terminating the current thread
// otherwise switches away and does not return to its caller;
// terminating any other thread returns normally. Matches
// uthread_terminate. The preemption timer's handler never calls
// Terminate, so terminating a thread from inside that handler has no
// defined behavior.
func Terminate(id int) error {
	return withMasked(func() error {
		return terminate(id)
	})
}

// terminateSelfFromTrampoline is called by threadEntryTrampoline when
// a spawned thread's entry function returns normally — the defined
// termination path spec §4.2 requires, as opposed to
// threadExitTrampoline's fatal fallback for a raw return into the
// bootstrap slot. id is never 0 here: thread 0 never runs through the
// trampoline.
//
//go:nosplit
func terminateSelfFromTrampoline(id int) {
	withMasked(func() error {
		return terminate(id)
	})
	fatalf("thread %d: resumed after self-termination", id)
}

// terminate is the shared body of Terminate and
// terminateSelfFromTrampoline, called with the preemption signal
// masked.
func terminate(id int) error {
	if id == 0 {
		os.Exit(0)
	}
	if _, ok := lib.sched.threads[id]; !ok {
		return usageErrorf("terminate: no thread with id %d", id)
	}
	if id != int(lib.sched.currentID.load()) {
		lib.sched.terminate(id)
		return nil
	}
	if !lib.sched.isRunnableWaiting() {
		fatalf("terminate: thread %d terminated with no other runnable thread", id)
	}
	lib.switchMidQuantum(func(outgoing int) {
		lib.sched.terminate(outgoing)
	})
	return nil
}

// Block marks id as blocked, removing it from the ready queue. Blocking
// the current thread switches away; if no other thread is ready, it
// returns a UsageError instead. Thread 0 may not be blocked.
// Matches uthread_block.
func Block(id int) error {
	return withMasked(func() error {
		if id == 0 {
			return usageErrorf("block: thread 0 cannot be blocked")
		}
		if _, ok := lib.sched.threads[id]; !ok {
			return usageErrorf("block: no thread with id %d", id)
		}
		if id != int(lib.sched.currentID.load()) {
			lib.sched.block(id)
			return nil
		}
		if !lib.sched.isRunnableWaiting() {
			return usageErrorf("block: thread %d has no other runnable thread to yield to", id)
		}
		// The mutation for the outgoing thread runs inside afterSave,
		// after the context save and after current_id has advanced —
		// spec §9's self-blocking ordering contract.
		lib.switchMidQuantum(func(outgoing int) {
			lib.sched.block(outgoing)
		})
		return nil
	})
}

// Resume moves a blocked thread back onto the ready queue. It is not
// an error to resume a thread that is not blocked. Matches
// uthread_resume.
func Resume(id int) error {
	return withMasked(func() error {
		return lib.sched.resume(id)
	})
}

// MutexLock acquires the library's single process-wide mutex,
// blocking the caller if it is already held. If it is held and no
// other thread is ready, it returns a UsageError instead of blocking.
// Matches uthread_mutex_lock.
func MutexLock() error {
	return withMasked(func() error {
		return lib.lock(int(lib.sched.currentID.load()))
	})
}

// MutexUnlock releases the mutex and hands it to the next eligible
// waiter, if any. Matches uthread_mutex_unlock.
func MutexUnlock() error {
	return withMasked(func() error {
		return lib.unlock(int(lib.sched.currentID.load()))
	})
}

// GetTid returns the calling thread's ID. It does not mask the
// preemption signal: current_id is read through an atomic load, and a
// tick landing between the load and the return changes nothing about
// the value already captured. Matches uthread_get_tid.
func GetTid() int {
	return int(lib.sched.currentID.load())
}

// GetTotalQuantums returns the number of quantums elapsed since Init,
// counting the first. Matches uthread_get_total_quantums.
func GetTotalQuantums() uint64 {
	return uint64(lib.sched.totalQuantums.load())
}

// GetQuantums returns the number of quantums thread id has been the
// running thread. Thread 0's count includes the init quantum; a
// spawned thread starts at 0 and is counted each time it is scheduled.
// Matches uthread_get_quantums.
func GetQuantums(id int) (n uint64, err error) {
	err = withMasked(func() error {
		t, ok := lib.sched.threads[id]
		if !ok {
			return usageErrorf("get_quantums: no thread with id %d", id)
		}
		n = t.quantumsRun
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
