// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import (
	"strings"

	"golang.org/x/exp/slices"
)

// scheduler holds the process-wide scheduling state described in spec
// §3: the thread table, the three non-running queues, the mutex and
// the running/quantum counters. Every field is mutated only while the
// preemption signal is masked or from within the timer handler — see
// §5; currentID and totalQuantums are also read without masking
// (GetTid, GetTotalQuantums), which is why they are atomic.
//
// Grounded on the teacher's threads/schedule split (kernel/
// thread_amd64.go's `threads` and `(*threads).schedule`), generalized
// from a round-robin-over-interrupt-conditions loop to the spec's
// explicit READY/BLOCKED/MUTEX-WAIT sets.
type scheduler struct {
	threads map[int]*Thread
	ids     *idAllocator

	ready     []int
	blocked   []int
	mutexWait []int

	mutex Mutex

	currentID     atomicInt
	totalQuantums atomicInt
}

func newScheduler() *scheduler {
	main := newMainThread()
	s := &scheduler{
		threads: map[int]*Thread{0: main},
		ids:     newIDAllocator(),
	}
	s.currentID.store(0)
	s.totalQuantums.store(1)
	runningThread = main
	return s
}

func (s *scheduler) current() *Thread {
	return s.threads[int(s.currentID.load())]
}

// enqueueReady appends id to the tail of ready, deduplicating against
// the current runner and every other queue — spec §4.3.
func (s *scheduler) enqueueReady(id int) {
	if id == int(s.currentID.load()) {
		return
	}
	if slices.Contains(s.ready, id) || slices.Contains(s.mutexWait, id) || slices.Contains(s.blocked, id) {
		return
	}
	s.ready = append(s.ready, id)
}

// popNextRunning removes the head of ready and makes it current.
// Precondition: ready is non-empty.
func (s *scheduler) popNextRunning() int {
	id := s.ready[0]
	s.ready = s.ready[1:]
	s.currentID.store(int64(id))
	return id
}

// block moves id into blocked and out of ready. Does not touch
// mutexWait: a thread can be both mutex-waiting and blocked at once
// (spec §4.3's advanceMutexLine skip rule depends on this).
func (s *scheduler) block(id int) {
	if !slices.Contains(s.blocked, id) {
		s.blocked = append(s.blocked, id)
	}
	if i := slices.Index(s.ready, id); i >= 0 {
		s.ready = slices.Delete(s.ready, i, i+1)
	}
}

// resume moves id out of blocked and, unless it is current, already
// ready, or mutex-waiting, onto ready. Fails only if id is unknown.
func (s *scheduler) resume(id int) error {
	if _, ok := s.threads[id]; !ok {
		return usageErrorf("resume: no thread with id %d", id)
	}
	if i := slices.Index(s.blocked, id); i >= 0 {
		s.blocked = slices.Delete(s.blocked, i, i+1)
	}
	s.enqueueReady(id)
	return nil
}

// waitForMutex inserts id into mutexWait. Precondition: the caller is
// about to context-switch away.
func (s *scheduler) waitForMutex(id int) {
	if !slices.Contains(s.mutexWait, id) {
		s.mutexWait = append(s.mutexWait, id)
	}
}

// advanceMutexLine hands the mutex line forward: the first waiter that
// is not also blocked is made ready; if every waiter is blocked, the
// head waiter is dropped from the line unready, matching spec §4.3's
// "avoid a stuck mutex" policy (also documented in spec §9 and
// DESIGN.md as a deliberate, non-default choice).
func (s *scheduler) advanceMutexLine() {
	if len(s.mutexWait) == 0 {
		return
	}
	for i, id := range s.mutexWait {
		if slices.Contains(s.blocked, id) {
			continue
		}
		s.mutexWait = slices.Delete(s.mutexWait, i, i+1)
		s.enqueueReady(id)
		return
	}
	s.mutexWait = slices.Delete(s.mutexWait, 0, 1)
}

// terminate removes id from every set and the thread table, releases
// its ID, and — if it held the mutex — releases the mutex and advances
// the mutex line.
func (s *scheduler) terminate(id int) {
	delete(s.threads, id)
	if i := slices.Index(s.ready, id); i >= 0 {
		s.ready = slices.Delete(s.ready, i, i+1)
	}
	if i := slices.Index(s.blocked, id); i >= 0 {
		s.blocked = slices.Delete(s.blocked, i, i+1)
	}
	if i := slices.Index(s.mutexWait, id); i >= 0 {
		s.mutexWait = slices.Delete(s.mutexWait, i, i+1)
	}
	s.ids.release(id)
	if s.mutex.locked && s.mutex.holder == id {
		s.mutex.locked = false
		s.mutex.holder = noHolder
		s.advanceMutexLine()
	}
}

func (s *scheduler) isRunnableWaiting() bool {
	return len(s.ready) > 0
}

// dump renders the scheduler state for diagnostics (spec §4.9). Never
// called on a hot path.
func (s *scheduler) dump() string {
	var b strings.Builder
	b.WriteString("current=")
	b.WriteString(itoa(int(s.currentID.load())))
	b.WriteString(" total_quantums=")
	b.WriteString(itoa(int(s.totalQuantums.load())))
	b.WriteString(" ready=")
	b.WriteString(formatIDs(s.ready))
	b.WriteString(" blocked=")
	b.WriteString(formatIDs(s.blocked))
	b.WriteString(" mutex_wait=")
	b.WriteString(formatIDs(s.mutexWait))
	b.WriteString(" mutex=")
	if s.mutex.locked {
		b.WriteString("locked(by=" + itoa(s.mutex.holder) + ")")
	} else {
		b.WriteString("unlocked")
	}
	return b.String()
}
