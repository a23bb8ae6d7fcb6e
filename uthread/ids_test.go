// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import "testing"

func TestIDAllocatorLowestFirst(t *testing.T) {
	a := newIDAllocator()

	first, ok := a.allocate()
	if !ok || first != 1 {
		t.Fatalf("allocate() = %d, %v, want 1, true", first, ok)
	}
	second, ok := a.allocate()
	if !ok || second != 2 {
		t.Fatalf("allocate() = %d, %v, want 2, true", second, ok)
	}

	a.release(first)
	third, ok := a.allocate()
	if !ok || third != first {
		t.Fatalf("allocate() after release = %d, %v, want %d, true", third, ok, first)
	}
}

func TestIDAllocatorExhaustion(t *testing.T) {
	a := newIDAllocator()
	for i := 1; i < MaxThreads; i++ {
		if _, ok := a.allocate(); !ok {
			t.Fatalf("allocate() failed before exhaustion at i=%d", i)
		}
	}
	if _, ok := a.allocate(); ok {
		t.Fatal("allocate() succeeded after exhausting the pool")
	}
}
