// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import "sync/atomic"

// atomicInt mirrors the teacher's thin atomic-op wrappers
// (kernel/atomic_amd64.go's LoadUint8/StoreUint8/OrUint8), but backed
// by sync/atomic instead of hand-written asm: a hosted user-space
// program has no reason to hand-roll what the standard library
// already provides correctly and portably. Used for the two fields
// the public API reads without masking the preemption signal
// (current_id, total_quantums — spec §4.7).
type atomicInt struct {
	v int64
}

func (a *atomicInt) load() int64      { return atomic.LoadInt64(&a.v) }
func (a *atomicInt) store(v int64)    { atomic.StoreInt64(&a.v, v) }
func (a *atomicInt) add(d int64) int64 {
	return atomic.AddInt64(&a.v, d)
}
