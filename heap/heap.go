// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heap implements a first-fit, implicit-free-list heap allocator
// with boundary-tag coalescing over a simulated backing store. It is a
// deliberately small baseline allocator: no segregated lists, no best-fit,
// no thread safety, no shrinking. See memlib for the backing store it
// grows into.
package heap

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/Mishors/Dynamic-Memory-Allocator/memlib"
)

var trace = false

// SetTrace turns the package's per-operation stderr diagnostics on or off.
// It is not safe to call while a Manager is concurrently in use.
func SetTrace(on bool) { trace = on }

// ErrOutOfMemory is returned by Init and reported as a nil pointer from
// Malloc when the backing store cannot satisfy a growth request.
var ErrOutOfMemory = errors.New("heap: out of memory")

// Manager owns the layout of one heap: the padding word, prologue and
// epilogue sentinels, and the chain of ordinary blocks between them. Its
// zero value is not ready for use; call Init first. Multiple independent
// Managers may coexist, each with its own backing Store.
type Manager struct {
	store     memlib.Store
	heapListp unsafe.Pointer // address of the prologue's footer
}

// Init acquires the backing store and lays out an empty heap: the padding
// word, the prologue and epilogue sentinels, and one Chunk-sized free
// block. It returns ErrOutOfMemory (wrapped) if the backing store cannot
// be acquired or extended.
func (m *Manager) Init() error {
	if err := m.store.Init(); err != nil {
		return fmt.Errorf("heap: init: %w: %w", ErrOutOfMemory, err)
	}

	base, err := m.store.Sbrk(4 * WSize)
	if err != nil {
		return fmt.Errorf("heap: init: %w: %w", ErrOutOfMemory, err)
	}

	put(base, 0) // alignment padding, value is never inspected
	prologueHdr := unsafe.Add(base, WSize)
	prologueFtr := unsafe.Add(base, 2*WSize)
	epilogueHdr := unsafe.Add(base, 3*WSize)
	put(prologueHdr, pack(DSize, 1))
	put(prologueFtr, pack(DSize, 1))
	put(epilogueHdr, pack(0, 1))
	m.heapListp = prologueFtr

	if _, err := m.extendHeap(Chunk / WSize); err != nil {
		return fmt.Errorf("heap: init: %w: %w", ErrOutOfMemory, err)
	}
	return nil
}

// Deinit releases the backing store. The Manager must not be used again
// without a fresh call to Init.
func (m *Manager) Deinit() error {
	return m.store.Deinit()
}

// HeapLo, HeapHi and HeapSize expose the backing store's inspection
// helpers, for diagnostics and tests.
func (m *Manager) HeapLo() unsafe.Pointer { return m.store.HeapLo() }
func (m *Manager) HeapHi() unsafe.Pointer { return m.store.HeapHi() }
func (m *Manager) HeapSize() int          { return m.store.HeapSize() }

// Malloc allocates size bytes and returns a pointer to the first byte of
// the payload, 8-byte aligned, or nil if size is zero or the request
// cannot be satisfied. Malloc panics if size is negative. The payload is
// not zero-initialized; use Calloc for that.
func (m *Manager) Malloc(size int) (r unsafe.Pointer) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "heap: Malloc(%#x) -> %p\n", size, r) }()
	}
	if size < 0 {
		panic("heap: invalid malloc size")
	}
	if size == 0 {
		return nil
	}

	asize := adjustSize(size)
	if bp := m.findFit(asize); bp != nil {
		m.place(bp, asize)
		return bp
	}

	bp, err := m.extendHeap(max(asize, Chunk) / WSize)
	if err != nil || bp == nil {
		return nil
	}
	m.place(bp, asize)
	return bp
}

// Calloc is like Malloc except the allocated payload is zero-filled.
func (m *Manager) Calloc(size int) unsafe.Pointer {
	p := m.Malloc(size)
	if p == nil {
		return nil
	}
	b := unsafe.Slice((*byte)(p), size)
	for i := range b {
		b[i] = 0
	}
	return p
}

// Free marks the block at p free and immediately coalesces it with any
// free neighbors. Free(nil) is a no-op. Passing a pointer not returned by
// Malloc/Calloc, or already freed, is undefined behavior: Free performs
// no validation.
func (m *Manager) Free(p unsafe.Pointer) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "heap: Free(%p)\n", p) }()
	}
	if p == nil {
		return
	}

	size := getSize(hdrp(p))
	put(hdrp(p), pack(size, 0))
	put(ftrp(p), pack(size, 0))
	m.coalesce(p)
}

// extendHeap requests words (rounded up to an even count, for alignment)
// worth of additional heap space from the backing store, lays out the new
// space as one free block, rewrites the epilogue past it, and coalesces it
// with the previous tail block if that was also free. It returns the
// (possibly merged) block pointer.
func (m *Manager) extendHeap(words int) (unsafe.Pointer, error) {
	if words%2 != 0 {
		words++
	}
	size := words * WSize

	bp, err := m.store.Sbrk(size)
	if err != nil {
		return nil, err
	}

	put(hdrp(bp), pack(uint32(size), 0))
	put(ftrp(bp), pack(uint32(size), 0))
	put(hdrp(nextBlkp(bp)), pack(0, 1)) // new epilogue

	return m.coalesce(bp), nil
}

// findFit performs a first-fit search of the implicit free list, starting
// at the prologue and walking forward block by block until either a large
// enough free block is found or the epilogue (size 0) is reached.
func (m *Manager) findFit(asize int) unsafe.Pointer {
	for bp := m.heapListp; getSize(hdrp(bp)) != 0; bp = nextBlkp(bp) {
		if getAlloc(hdrp(bp)) == 0 && int(getSize(hdrp(bp))) >= asize {
			return bp
		}
	}
	return nil
}

// place carves asize bytes out of the free block at bp. If the remainder
// would be at least minBlockSize, the block is split into an allocated
// block of exactly asize bytes and a new free block holding the rest;
// otherwise the whole block is marked allocated.
func (m *Manager) place(bp unsafe.Pointer, asize int) {
	csize := int(getSize(hdrp(bp)))
	if csize-asize >= minBlockSize {
		put(hdrp(bp), pack(uint32(asize), 1))
		put(ftrp(bp), pack(uint32(asize), 1))
		rest := nextBlkp(bp)
		put(hdrp(rest), pack(uint32(csize-asize), 0))
		put(ftrp(rest), pack(uint32(csize-asize), 0))
		return
	}

	put(hdrp(bp), pack(uint32(csize), 1))
	put(ftrp(bp), pack(uint32(csize), 1))
}

// coalesce merges the just-freed block at bp with any free neighbors,
// using the boundary tags of the adjacent blocks to detect them in O(1).
// The prologue and epilogue sentinels are permanently marked allocated, so
// no special-casing is needed at either end of the heap.
func (m *Manager) coalesce(bp unsafe.Pointer) unsafe.Pointer {
	prev := prevBlkp(bp)
	next := nextBlkp(bp)
	prevAlloc := getAlloc(ftrp(prev))
	nextAlloc := getAlloc(hdrp(next))
	size := getSize(hdrp(bp))

	switch {
	case prevAlloc != 0 && nextAlloc != 0: // Case 1
		return bp
	case prevAlloc != 0 && nextAlloc == 0: // Case 2
		size += getSize(hdrp(next))
		put(hdrp(bp), pack(size, 0))
		put(ftrp(next), pack(size, 0))
		return bp
	case prevAlloc == 0 && nextAlloc != 0: // Case 3
		size += getSize(hdrp(prev))
		put(ftrp(bp), pack(size, 0))
		put(hdrp(prev), pack(size, 0))
		return prev
	default: // Case 4
		size += getSize(hdrp(prev)) + getSize(ftrp(next))
		put(hdrp(prev), pack(size, 0))
		put(ftrp(next), pack(size, 0))
		return prev
	}
}
