// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import (
	"fmt"
	"os"
)

// UsageError reports a library-misuse error (spec §7): a bad init
// argument, spawning at capacity, an unknown ID, blocking thread 0, a
// double mutex lock by the holder, or unlocking a mutex not held. It
// is always recoverable — the caller simply gets -1/error back, the
// scheduler state is left consistent, and the signal mask is restored
// before the call returns.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

// usageErrorf builds and logs a UsageError, matching the original
// source's "thread library error: <message>" diagnostic convention
// (uthreads.cpp's LIB_ERROR_MSG prefix).
func usageErrorf(format string, args ...any) *UsageError {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, "thread library error: "+msg)
	return &UsageError{msg: msg}
}

// fatalf reports an OS/system failure (spec §7) and terminates the
// process with failure status, matching the original's
// "system error: <message>" + exit(EXIT_FAILURE) policy. These
// failures — a broken signal mask, a timer that won't arm, stack
// allocation failure — leave the scheduler in a state that cannot be
// recovered in a signal-safe way, so there is no return from fatalf.
func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, "system error: "+msg)
	os.Exit(1)
}
