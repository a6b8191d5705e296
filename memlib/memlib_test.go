// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memlib

import (
	"errors"
	"testing"
	"unsafe"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := &Store{}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Deinit(); err != nil {
			t.Fatalf("Deinit: %v", err)
		}
	})
	return s
}

func TestInitEmpty(t *testing.T) {
	s := newStore(t)
	if g, e := s.HeapSize(), 0; g != e {
		t.Fatalf("HeapSize() = %v, want %v", g, e)
	}
	if s.HeapHi() != nil {
		t.Fatalf("HeapHi() = %p, want nil on an empty heap", s.HeapHi())
	}
	if s.HeapLo() == nil {
		t.Fatal("HeapLo() = nil after Init")
	}
}

func TestSbrkAdvancesBreak(t *testing.T) {
	s := newStore(t)
	p0, err := s.Sbrk(64)
	if err != nil {
		t.Fatalf("Sbrk(64): %v", err)
	}
	if p0 != s.HeapLo() {
		t.Fatalf("first Sbrk did not return the heap base: %p != %p", p0, s.HeapLo())
	}
	if g, e := s.HeapSize(), 64; g != e {
		t.Fatalf("HeapSize() = %v, want %v", g, e)
	}

	p1, err := s.Sbrk(32)
	if err != nil {
		t.Fatalf("Sbrk(32): %v", err)
	}
	if want := unsafe.Pointer(uintptr(p0) + 64); p1 != want {
		t.Fatalf("second Sbrk returned %p, want %p", p1, want)
	}
	if g, e := s.HeapSize(), 96; g != e {
		t.Fatalf("HeapSize() = %v, want %v", g, e)
	}
}

func TestSbrkRejectsNegativeIncrement(t *testing.T) {
	s := newStore(t)
	if _, err := s.Sbrk(-1); !errors.Is(err, ErrInvalidIncrement) {
		t.Fatalf("Sbrk(-1) error = %v, want ErrInvalidIncrement", err)
	}
	if g, e := s.HeapSize(), 0; g != e {
		t.Fatalf("a rejected Sbrk must not move the break: HeapSize() = %v, want %v", g, e)
	}
}

func TestSbrkRejectsOverCapacity(t *testing.T) {
	s := newStore(t)
	if _, err := s.Sbrk(MaxHeap + 1); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Sbrk(MaxHeap+1) error = %v, want ErrCapacityExceeded", err)
	}

	if _, err := s.Sbrk(MaxHeap); err != nil {
		t.Fatalf("Sbrk(MaxHeap): %v", err)
	}
	if _, err := s.Sbrk(1); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Sbrk(1) past capacity error = %v, want ErrCapacityExceeded", err)
	}
}

func TestResetBrk(t *testing.T) {
	s := newStore(t)
	if _, err := s.Sbrk(4096); err != nil {
		t.Fatalf("Sbrk: %v", err)
	}
	s.ResetBrk()
	if g, e := s.HeapSize(), 0; g != e {
		t.Fatalf("HeapSize() after ResetBrk = %v, want %v", g, e)
	}

	p, err := s.Sbrk(16)
	if err != nil {
		t.Fatalf("Sbrk after ResetBrk: %v", err)
	}
	if p != s.HeapLo() {
		t.Fatalf("Sbrk after ResetBrk returned %p, want heap base %p", p, s.HeapLo())
	}
}

func TestUninitializedStore(t *testing.T) {
	var s Store
	if _, err := s.Sbrk(1); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Sbrk on zero-value Store error = %v, want ErrNotInitialized", err)
	}
	if err := s.Deinit(); err != nil {
		t.Fatalf("Deinit on zero-value Store: %v", err)
	}
}
