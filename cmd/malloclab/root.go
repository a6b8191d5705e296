// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "malloclab",
	Short: "Drive the first-fit implicit-free-list heap allocator",
	Long: `malloclab exercises the boundary-tag, implicit-free-list heap
allocator over its simulated backing store: a one-shot smoke test, a
scripted allocation-trace replay with a utilization report, and a
randomized consistency check.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print per-operation diagnostics")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
