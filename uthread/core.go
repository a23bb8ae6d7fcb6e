// SPDX-License-Identifier: Unlicense OR MIT

package uthread

// core ties the scheduler state to the context-switch engine and the
// timer. There is exactly one instance, built by Init and torn down
// only by process exit — mirroring the original source's static
// globals (total_quantums, timer, threadsCollectionManager, mutex) and
// the teacher's single global scheduler (kernel.globalThreads).
type core struct {
	sched *scheduler
	timer *preemptionTimer
}

var lib *core

// doSwitch is the Context Switch Engine (spec §4.4). It must be called
// with the preemption signal masked (public ops mask it; the timer
// handler runs with it implicitly masked).
//
// Steps, matching spec §4.4 exactly:
//  1. total_quantums++
//  2. save the outgoing thread's context in place
//  3. advance current_id to the next ready thread
//  4. run afterSave, which mutates scheduler state for the outgoing
//     thread — called only after steps 2 and 3, so that if it
//     terminates the outgoing thread the freed stack is not in use
//  5. bump the new thread's quantums_run
//  6. jump to the new thread's context
//
// When a later jumpContext targets the outgoing thread's context, step
// 2's saveContext returns 1 here and doSwitch returns to its caller —
// this function is the thread's own resume point.
func (c *core) doSwitch(afterSave func(outgoingID int)) {
	c.sched.totalQuantums.add(1)
	outgoing := c.sched.current()
	if saveContext(&outgoing.ctx) == 1 {
		return
	}
	nextID := c.sched.popNextRunning()
	afterSave(outgoing.id)
	next := c.sched.threads[nextID]
	next.quantumsRun++
	runningThread = next
	jumpContext(&next.ctx) // never returns
}

// switchMidQuantum rearms the timer for a full quantum before
// switching, used for every context switch initiated outside the
// timer handler so the newly running thread gets a full slice — spec
// §4.4's "mid-quantum switch".
func (c *core) switchMidQuantum(afterSave func(outgoingID int)) {
	c.timer.rearm()
	c.doSwitch(afterSave)
}

// mask begins a masked critical section (spec §5): every public
// operation runs its body inside one. Pair with unmask via defer so
// the mask is lifted on every exit path, including a UsageError
// return or a mid-quantum switch-and-resume.
func (c *core) mask() {
	c.timer.mask()
}

// unmask ends a masked critical section and drains any preemption
// ticks that arrived while masked, running the timer handler for each
// — the point in this design where a pending SIGVTALRM is actually
// acted on. See preemptionTimer's doc comment (timer_amd64.go) for why draining happens
// here instead of inside a true signal handler.
//
// If handleTick triggers a switch away, this call does not return
// until the outgoing thread — this same call stack — is resumed by a
// later jumpContext, at which point the loop continues exactly where
// it left off.
func (c *core) unmask() {
	for c.timer.pending.load() > 0 {
		c.timer.pending.add(-1)
		c.handleTick()
	}
	c.timer.unmask()
}

// handleTick is the Timer / Preemption Hook body (spec §4.6). With
// nothing else runnable it just advances the counters in place;
// otherwise it performs a full context switch, enqueueing the outgoing
// thread as ready.
func (c *core) handleTick() {
	if !c.sched.isRunnableWaiting() {
		c.sched.totalQuantums.add(1)
		c.sched.current().quantumsRun++
		return
	}
	c.doSwitch(func(outgoing int) {
		c.sched.enqueueReady(outgoing)
	})
}
