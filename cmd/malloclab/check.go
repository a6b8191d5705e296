// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"unsafe"

	"github.com/cznic/mathutil"
	"github.com/spf13/cobra"

	"github.com/Mishors/Dynamic-Memory-Allocator/heap"
)

var (
	checkSeed    int
	checkQuota   int
	checkMaxSize int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a randomized alloc/free stress sequence and report heap consistency",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkSeed, "seed", 42, "PRNG seed, for reproducible runs")
	checkCmd.Flags().IntVar(&checkQuota, "quota", 256<<10, "total bytes to request across the run")
	checkCmd.Flags().IntVar(&checkMaxSize, "max-size", 4096, "largest single allocation size")
	rootCmd.AddCommand(checkCmd)
}

func runCheck() error {
	heap.SetTrace(verbose)

	var m heap.Manager
	if err := m.Init(); err != nil {
		return err
	}
	defer m.Deinit()

	rng, err := mathutil.NewFC32(1, checkMaxSize, true)
	if err != nil {
		return err
	}
	rng.Seed(checkSeed)

	var ptrs []unsafe.Pointer
	rem := checkQuota
	var allocated int
	for rem > 0 {
		size := rng.Next()
		p := m.Malloc(size)
		if p == nil {
			break
		}
		ptrs = append(ptrs, p)
		rem -= size
		allocated++
		if err := m.CheckHeap(); err != nil {
			return fmt.Errorf("inconsistent after allocation %d: %w", allocated, err)
		}
	}

	for i := len(ptrs) - 1; i >= 0; i-- {
		m.Free(ptrs[i])
		if err := m.CheckHeap(); err != nil {
			return fmt.Errorf("inconsistent after freeing allocation %d: %w", i, err)
		}
	}

	fmt.Printf("check: ok — %d allocations, %d bytes requested, heap peaked at %d bytes\n", allocated, checkQuota-rem, m.HeapSize())
	return nil
}
