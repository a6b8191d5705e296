// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memlib simulates the sbrk-style backing store that a heap
// allocator grows into. It owns a single, fixed-capacity, anonymously
// mapped region of memory and a monotonically advancing break pointer,
// so that an allocator built on top of it can be exercised without
// interfering with the host process's own allocator.
package memlib

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

// MaxHeap is the capacity, in bytes, of the simulated backing region.
const MaxHeap = 20 * (1 << 20) // 20 MiB

// Sentinel errors returned by Store methods.
var (
	// ErrNotInitialized is returned by Sbrk when it is called before Init.
	ErrNotInitialized = errors.New("memlib: store not initialized")

	// ErrInvalidIncrement is returned by Sbrk when incr is negative.
	ErrInvalidIncrement = errors.New("memlib: negative sbrk increment")

	// ErrCapacityExceeded is returned by Sbrk when incr would grow the
	// break past the end of the mapped region.
	ErrCapacityExceeded = errors.New("memlib: backing store capacity exceeded")
)

var trace = false

// SetTrace turns the package's per-operation stderr diagnostics on or off.
// It is not safe to call while a Store is concurrently in use.
func SetTrace(on bool) { trace = on }

// Store is a simulated, fixed-capacity backing heap. Its zero value is not
// ready for use; call Init first. A Store is not safe for concurrent use,
// matching the single-threaded contract of the heap manager built on it.
type Store struct {
	mem []byte // the mapped region, len(mem) == MaxHeap once initialized
	brk int    // offset of the current break within mem
}

// Init acquires the MaxHeap-byte backing region and resets the break to the
// region's base, yielding an empty heap. Callers are expected to invoke Init
// exactly once; Init is not idempotent.
func (s *Store) Init() error {
	mem, err := mapRegion(MaxHeap)
	if err != nil {
		return fmt.Errorf("memlib: init: %w", err)
	}

	s.mem = mem
	s.brk = 0
	if trace {
		fmt.Fprintf(os.Stderr, "memlib: init base=%p size=%#x\n", &s.mem[0], MaxHeap)
	}
	return nil
}

// Sbrk advances the break by incr bytes and returns a pointer to the first
// byte of the newly exposed range (the break's old value). It fails,
// returning a nil pointer and a non-nil error, if incr is negative or if
// advancing the break by incr would exceed the region's capacity; neither
// failure mode changes the break.
func (s *Store) Sbrk(incr int) (unsafe.Pointer, error) {
	if s.mem == nil {
		return nil, ErrNotInitialized
	}
	if incr < 0 {
		return nil, ErrInvalidIncrement
	}
	if s.brk+incr > len(s.mem) {
		return nil, ErrCapacityExceeded
	}

	old := s.brk
	s.brk += incr
	p := unsafe.Pointer(&s.mem[old])
	if trace {
		fmt.Fprintf(os.Stderr, "memlib: sbrk(%#x) -> %p\n", incr, p)
	}
	return p, nil
}

// HeapLo returns the first valid byte of the in-use region, or nil if Init
// has not been called.
func (s *Store) HeapLo() unsafe.Pointer {
	if s.mem == nil {
		return nil
	}
	return unsafe.Pointer(&s.mem[0])
}

// HeapHi returns the last valid byte currently in use, or nil if the heap
// is empty or uninitialized.
func (s *Store) HeapHi() unsafe.Pointer {
	if s.mem == nil || s.brk == 0 {
		return nil
	}
	return unsafe.Pointer(&s.mem[s.brk-1])
}

// HeapSize returns the number of bytes between HeapLo and the current
// break, i.e. the size of the in-use region.
func (s *Store) HeapSize() int { return s.brk }

// PageSize returns the host page size, for callers that want to align
// extension requests to it (the heap manager itself aligns to double
// words, not pages).
func (s *Store) PageSize() int { return os.Getpagesize() }

// ResetBrk resets the break to the region's base without releasing the
// mapping, for use by test harnesses that want a fresh empty heap without
// paying for a new mapping.
func (s *Store) ResetBrk() {
	s.brk = 0
}

// Deinit releases the backing region. The Store must not be used again
// afterward without a fresh call to Init.
func (s *Store) Deinit() error {
	if s.mem == nil {
		return nil
	}

	err := unmapRegion(s.mem)
	s.mem = nil
	s.brk = 0
	return err
}
