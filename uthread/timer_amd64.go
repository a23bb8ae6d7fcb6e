// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// preemptionTimer is the Timer / Preemption Hook (spec §4.6) and the
// Signal & Timer Plumbing (SPEC_FULL §4.8). It arms a real
// ITIMER_VIRTUAL interval timer and funnels the resulting SIGVTALRM
// deliveries into the scheduler through a small, non-blocking tick
// counter — see the "Timer signal delivery in a hosted Go runtime"
// entry in DESIGN.md for why delivery is drained at unmask time rather
// than handled inside a true asynchronous signal handler, which a
// non-cgo Go program cannot install.
//
// Grounded on kernel/timer_amd64.go's set_timer/init_timer split and
// kernel/interrupt_amd64.go's install-then-mask-then-enable sequencing,
// translated from HPET one-shot registers and APIC vectors to
// setitimer(2) and SIGVTALRM.
type preemptionTimer struct {
	quantum time.Duration
	sigset  unix.Sigset_t

	signals chan os.Signal
	pending atomicInt
}

func newPreemptionTimer(quantum time.Duration) *preemptionTimer {
	return &preemptionTimer{
		quantum: quantum,
		sigset:  sigsetWith(syscall.SIGVTALRM),
		signals: make(chan os.Signal, 64),
	}
}

// install registers SIGVTALRM, starts the tick-counting watcher and
// arms the first quantum. Any failure here is an OS/system failure
// per spec §7.
func (p *preemptionTimer) install() {
	signal.Notify(p.signals, syscall.SIGVTALRM)
	go p.watch()
	if err := p.arm(p.quantum); err != nil {
		fatalf("arming preemption timer: %v", err)
	}
}

// watch counts SIGVTALRM deliveries. It never touches scheduler state
// directly — only core.unmask, which drains pending ticks and calls
// core.handleTick for each one on the scheduler's own goroutine, is
// allowed to act on a tick, preserving the single-runner
// critical-section discipline of spec §5.
func (p *preemptionTimer) watch() {
	for range p.signals {
		p.pending.add(1)
	}
}

// rearm re-arms a full quantum from now. Used for every context switch
// other than a timer expiry (spec §4.4's "mid-quantum switch"), so the
// newly running thread gets a fresh slice.
func (p *preemptionTimer) rearm() {
	if err := p.arm(p.quantum); err != nil {
		fatalf("re-arming preemption timer: %v", err)
	}
}

func (p *preemptionTimer) arm(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	it := unix.Itimerval{Value: tv, Interval: tv}
	_, err := unix.Setitimer(unix.ITIMER_VIRTUAL, it)
	return err
}

// mask blocks SIGVTALRM for the calling thread, the Go-runtime
// equivalent of the original source's mask_time_signal(SIG_BLOCK).
func (p *preemptionTimer) mask() {
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &p.sigset, nil); err != nil {
		fatalf("masking preemption signal: %v", err)
	}
}

// unmask unblocks SIGVTALRM, matching mask_time_signal(SIG_UNBLOCK).
func (p *preemptionTimer) unmask() {
	if err := unix.PthreadSigmask(unix.SIG_UNBLOCK, &p.sigset, nil); err != nil {
		fatalf("unmasking preemption signal: %v", err)
	}
}

// sigsetWith builds a signal set containing exactly the given signals,
// the Go equivalent of sigemptyset + sigaddset in uthreads.cpp's
// uthread_init.
func sigsetWith(sigs ...syscall.Signal) unix.Sigset_t {
	var set unix.Sigset_t
	for _, sig := range sigs {
		n := uint(sig) - 1
		set.Val[n/64] |= 1 << (n % 64)
	}
	return set
}
