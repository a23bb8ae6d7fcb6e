// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import (
	"testing"
	"time"
)

// TestLifecycle exercises Init/Spawn/GetTid/GetQuantums/GetTotalQuantums
// end to end. It deliberately never blocks or terminates thread 0 and
// never contends the mutex across threads, so it never forces a real
// context switch away from thread 0 — see preemptionTimer's doc
// comment (timer_amd64.go) for why that boundary matters here. Since uthread's state is
// process-wide, this is the package's only test that calls Init, and
// every other test in the package must tolerate lib being non-nil
// once it has run.
func TestLifecycle(t *testing.T) {
	if err := Init(0); err == nil {
		t.Fatal("Init with a non-positive quantum did not error")
	}

	if err := Init(5 * time.Millisecond); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := Init(5 * time.Millisecond); err == nil {
		t.Fatal("second Init did not error")
	}

	if got := GetTid(); got != 0 {
		t.Fatalf("GetTid() = %d, want 0 before any Spawn", got)
	}
	if got := GetTotalQuantums(); got < 1 {
		t.Fatalf("GetTotalQuantums() = %d, want at least 1", got)
	}

	if _, err := Spawn(nil); err == nil {
		t.Fatal("Spawn(nil) did not error")
	}

	first, err := Spawn(func() {})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	second, err := Spawn(func() {})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if second != first+1 {
		t.Fatalf("Spawn ids = %d, %d, want consecutive", first, second)
	}

	n, err := GetQuantums(first)
	if err != nil {
		t.Fatalf("GetQuantums: %v", err)
	}
	if n != 0 {
		t.Fatalf("GetQuantums(%d) = %d, want 0 for a never-scheduled thread", first, n)
	}

	if _, err := GetQuantums(9999); err == nil {
		t.Fatal("GetQuantums of an unknown id did not error")
	}

	if err := Terminate(second); err != nil {
		t.Fatalf("Terminate of a non-current thread: %v", err)
	}
	if err := Terminate(second); err == nil {
		t.Fatal("Terminate of an already-terminated thread did not error")
	}

	if err := Resume(first); err != nil {
		t.Fatalf("Resume of an already-ready thread: %v", err)
	}

	if err := Block(0); err == nil {
		t.Fatal("Block of thread 0 did not error")
	}
}
