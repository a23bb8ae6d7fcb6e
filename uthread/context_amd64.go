// SPDX-License-Identifier: Unlicense OR MIT

package uthread

// Context is the opaque saved execution state of a suspended logical
// thread: the callee-saved register file needed to resume it. The
// preemption signal mask is process-wide (timer_amd64.go), not
// per-thread, so it is not part of this record. The field layout and
// order are known to saveContext and jumpContext (context_amd64.s) —
// do not reorder.
type Context struct {
	sp  uintptr
	pc  uintptr
	bp  uintptr
	bx  uintptr
	r12 uintptr
	r13 uintptr
	r14 uintptr
	r15 uintptr
}

// saveContext captures the caller's execution context into ctx and
// returns 0. If a later jumpContext(ctx) transfers control back here,
// saveContext appears to return a second time, this time with 1 — the
// same two-return discipline as sigsetjmp/siglongjmp, which the
// original C implementation of this library used directly.
//
//go:noescape
func saveContext(ctx *Context) uint64

// jumpContext restores ctx and resumes execution at the point of the
// saveContext call that produced it, causing that call to return 1.
// jumpContext never returns to its own caller.
//
//go:noescape
func jumpContext(ctx *Context)
