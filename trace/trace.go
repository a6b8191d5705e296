// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace replays scripted allocation traces against a heap.Manager
// and reports space utilization (it takes no timings, so it does not
// measure throughput), playing the role the
// CS:APP malloc-lab driver's binary .rep traces play for the allocator
// this package's sibling packages reimplement, in a text-native format
// that needs no bespoke binary reader.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unsafe"

	"github.com/Mishors/Dynamic-Memory-Allocator/heap"
)

// OpKind distinguishes the two operations a trace script can contain.
type OpKind int

const (
	// OpAlloc requests Size bytes and binds the result to ID.
	OpAlloc OpKind = iota
	// OpFree releases the pointer previously bound to ID.
	OpFree
)

// Op is one line of a parsed trace script.
type Op struct {
	Kind OpKind
	ID   string
	Size int
	Line int
}

// Parse reads a trace script from r. Each non-blank, non-comment line is
// either "a <id> <size>" (allocate size bytes, remember the result under
// id) or "f <id>" (free the pointer remembered under id). Lines starting
// with '#', and blank lines, are ignored.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "a":
			if len(fields) != 3 {
				return nil, fmt.Errorf("trace: line %d: want 'a <id> <size>', got %q", lineNo, line)
			}
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: invalid size: %w", lineNo, err)
			}
			ops = append(ops, Op{Kind: OpAlloc, ID: fields[1], Size: size, Line: lineNo})
		case "f":
			if len(fields) != 2 {
				return nil, fmt.Errorf("trace: line %d: want 'f <id>', got %q", lineNo, line)
			}
			ops = append(ops, Op{Kind: OpFree, ID: fields[1], Line: lineNo})
		default:
			return nil, fmt.Errorf("trace: line %d: unknown operation %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: scan: %w", err)
	}
	return ops, nil
}

// Report summarizes one replay of a trace script.
type Report struct {
	Ops           int     // total operations replayed
	Allocs        int     // number of successful allocations
	Frees         int     // number of frees
	FailedAllocs  int     // allocations that returned nil
	PeakHeapBytes int     // largest Manager.HeapSize observed
	PeakLiveBytes int     // largest sum of live payload bytes observed
	Utilization   float64 // PeakLiveBytes / PeakHeapBytes, 0 if PeakHeapBytes is 0
}

// Replay runs ops against m, a freshly Init'd Manager, and returns a
// Report. An "a" operation that reuses an id still bound to a live
// allocation, or an "f" operation naming an unbound or already-freed id,
// is a malformed trace and returns an error — unlike heap.Manager.Free
// itself, which performs no such validation.
func Replay(m *heap.Manager, ops []Op) (Report, error) {
	type entry struct {
		ptr  unsafe.Pointer
		size int
	}
	live := map[string]entry{}
	var liveBytes int
	var rep Report

	for _, op := range ops {
		rep.Ops++
		switch op.Kind {
		case OpAlloc:
			if _, ok := live[op.ID]; ok {
				return rep, fmt.Errorf("trace: line %d: id %q already live", op.Line, op.ID)
			}
			p := m.Malloc(op.Size)
			if p == nil {
				rep.FailedAllocs++
				continue
			}
			live[op.ID] = entry{p, op.Size}
			liveBytes += op.Size
			rep.Allocs++
		case OpFree:
			e, ok := live[op.ID]
			if !ok {
				return rep, fmt.Errorf("trace: line %d: id %q is not live", op.Line, op.ID)
			}
			m.Free(e.ptr)
			delete(live, op.ID)
			liveBytes -= e.size
			rep.Frees++
		}

		if hs := m.HeapSize(); hs > rep.PeakHeapBytes {
			rep.PeakHeapBytes = hs
		}
		if liveBytes > rep.PeakLiveBytes {
			rep.PeakLiveBytes = liveBytes
		}
	}

	if rep.PeakHeapBytes > 0 {
		rep.Utilization = float64(rep.PeakLiveBytes) / float64(rep.PeakHeapBytes)
	}
	return rep, nil
}

// String renders a Report as a short human-readable summary.
func (r Report) String() string {
	return fmt.Sprintf(
		"ops=%d allocs=%d frees=%d failed_allocs=%d peak_heap=%d peak_live=%d utilization=%.2f%%",
		r.Ops, r.Allocs, r.Frees, r.FailedAllocs, r.PeakHeapBytes, r.PeakLiveBytes, r.Utilization*100,
	)
}
