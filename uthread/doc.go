// SPDX-License-Identifier: Unlicense OR MIT

// Package uthread implements a user-space thread library: a
// cooperative-by-API, preemptive-by-timer scheduler that multiplexes
// many logical threads onto a single OS thread inside one process.
//
// The scheduler hands out small integer thread IDs, round-robins them
// under a virtual-time quantum, supports voluntary blocking and
// resuming, and provides a single process-wide mutex whose contention
// policy is integrated with scheduling. At most one logical thread
// executes at any instant; there is no multi-CPU parallelism.
package uthread
