// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// +build darwin dragonfly freebsd linux openbsd solaris netbsd

// Modifications (c) 2018 The Dynamic-Memory-Allocator Authors.

package memlib

import (
	"syscall"
)

// mapRegion acquires size bytes of anonymous, zero-filled memory that the
// Store treats as its backing heap.
func mapRegion(size int) ([]byte, error) {
	flags := syscall.MAP_SHARED | syscall.MAP_ANON
	prot := syscall.PROT_READ | syscall.PROT_WRITE
	return syscall.Mmap(-1, 0, size, prot, flags)
}

// unmapRegion returns a region acquired by mapRegion to the OS.
func unmapRegion(mem []byte) error {
	return syscall.Munmap(mem)
}
