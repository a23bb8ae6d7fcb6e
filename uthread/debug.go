// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import "strconv"

// itoa and formatIDs back scheduler.dump's diagnostic string. Kept
// tiny and dependency-free — this is debug-only output on a path the
// spec explicitly excludes from the fast path (spec §4.9).
func itoa(v int) string {
	return strconv.Itoa(v)
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	s := "["
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		s += itoa(id)
	}
	return s + "]"
}

// Dump returns a snapshot of the scheduler's internal state as a
// single line, for tests and troubleshooting. It is not part of the
// original source's surface — the pack's kernel.Verify and
// kernel.(*thread).dump helpers establish the precedent of a
// debug-only introspection entry point sitting alongside the "real"
// API.
func Dump() string {
	if lib == nil {
		return "uthread: not initialized"
	}
	var out string
	withMasked(func() error {
		out = lib.sched.dump()
		return nil
	})
	return out
}
