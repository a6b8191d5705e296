// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "unsafe"

// Word and block-size constants. WSize and DSize are word and double-word
// byte counts; Chunk is the default heap-extension granularity;
// minBlockSize is the smallest block the manager will ever create.
const (
	WSize        = 4
	DSize        = 8
	Chunk        = 1 << 12
	minBlockSize = 2 * DSize
)

// get/put read and write a 4-byte word at p. Every boundary tag in the
// heap is one of these words.
func get(p unsafe.Pointer) uint32        { return *(*uint32)(p) }
func put(p unsafe.Pointer, v uint32)     { *(*uint32)(p) = v }
func pack(size uint32, alloc uint32) uint32 {
	return size | alloc
}

func getSize(p unsafe.Pointer) uint32  { return get(p) &^ 0x7 }
func getAlloc(p unsafe.Pointer) uint32 { return get(p) & 0x1 }

// hdrp returns the address of bp's header, one word before the payload.
func hdrp(bp unsafe.Pointer) unsafe.Pointer { return unsafe.Add(bp, -WSize) }

// ftrp returns the address of bp's footer, derived from the size recorded
// in its header.
func ftrp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(bp, int(getSize(hdrp(bp)))-DSize)
}

// nextBlkp returns the payload pointer of the block immediately following
// bp in address order.
func nextBlkp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(bp, int(getSize(hdrp(bp))))
}

// prevBlkp returns the payload pointer of the block immediately preceding
// bp in address order, found via the boundary tag just before bp's header.
func prevBlkp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(bp, -int(getSize(unsafe.Add(bp, -DSize))))
}

// adjustSize rounds a requested payload size up to a legal block size: at
// least minBlockSize, and large enough to reserve one word each for header
// and footer, rounded up to the next double word.
func adjustSize(size int) int {
	if size <= DSize {
		return minBlockSize
	}
	return DSize * ((size + DSize + (DSize - 1)) / DSize)
}
