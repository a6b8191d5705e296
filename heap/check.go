// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"fmt"
	"unsafe"
)

// CheckHeap walks the block chain and verifies every structural invariant
// the manager is expected to hold between public calls: the prologue and
// epilogue sentinels are present and allocated, every ordinary block's
// header matches its footer, every block is at least minBlockSize and a
// multiple of DSize, every payload pointer is 8-byte aligned, no two
// adjacent blocks are both free, and the chain reaches the epilogue with
// no gap or overlap. It returns the first violation found, or nil if the
// heap is consistent. It never panics, so it is safe to call from a CLI
// diagnostics command as well as from tests.
func (m *Manager) CheckHeap() error {
	prologueHdr := hdrp(m.heapListp)
	if getSize(prologueHdr) != DSize || getAlloc(prologueHdr) == 0 {
		return fmt.Errorf("heap: prologue header corrupt: size=%d alloc=%d", getSize(prologueHdr), getAlloc(prologueHdr))
	}
	if get(prologueHdr) != get(m.heapListp) {
		return fmt.Errorf("heap: prologue header/footer mismatch")
	}

	bp := nextBlkp(m.heapListp)
	prevAlloc := uint32(1) // the prologue, always allocated
	for {
		size := getSize(hdrp(bp))
		if size == 0 {
			if getAlloc(hdrp(bp)) == 0 {
				return fmt.Errorf("heap: epilogue at %p marked free", hdrp(bp))
			}
			return nil
		}

		if size < minBlockSize || size%DSize != 0 {
			return fmt.Errorf("heap: block at %p has illegal size %d", bp, size)
		}
		if uintptr(bp)%DSize != 0 {
			return fmt.Errorf("heap: block at %p is not %d-byte aligned", bp, DSize)
		}
		if get(hdrp(bp)) != get(ftrp(bp)) {
			return fmt.Errorf("heap: block at %p header/footer mismatch: %#x != %#x", bp, get(hdrp(bp)), get(ftrp(bp)))
		}

		alloc := getAlloc(hdrp(bp))
		if prevAlloc == 0 && alloc == 0 {
			return fmt.Errorf("heap: adjacent free blocks at and before %p were not coalesced", bp)
		}

		if lo, hi := m.HeapLo(), m.HeapHi(); lo != nil && hi != nil {
			if uintptr(bp) < uintptr(lo) || uintptr(bp) > uintptr(hi) {
				return fmt.Errorf("heap: block pointer %p outside heap range [%p, %p]", bp, lo, hi)
			}
		}

		prevAlloc = alloc
		bp = nextBlkp(bp)
	}
}

// Bytes returns a byte slice view of the n bytes starting at p, for
// reading or writing a payload returned by Malloc/Calloc. It does not
// copy; mutations through the slice mutate the heap in place.
func Bytes(p unsafe.Pointer, n int) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// UsableSize reports the number of payload bytes available at p, which
// must point to the first byte of a block returned by Malloc or Calloc.
// This can be larger than the size originally requested.
func (m *Manager) UsableSize(p unsafe.Pointer) int {
	if p == nil {
		return 0
	}
	return int(getSize(hdrp(p))) - DSize
}
