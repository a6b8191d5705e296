// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mishors/Dynamic-Memory-Allocator/heap"
	"github.com/Mishors/Dynamic-Memory-Allocator/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Replay a scripted allocation trace and report utilization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrace(args[0])
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func runTrace(path string) error {
	heap.SetTrace(verbose)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ops, err := trace.Parse(f)
	if err != nil {
		return err
	}

	var m heap.Manager
	if err := m.Init(); err != nil {
		return err
	}
	defer m.Deinit()

	rep, err := trace.Replay(&m, ops)
	if err != nil {
		return err
	}

	if err := m.CheckHeap(); err != nil {
		return fmt.Errorf("heap inconsistent after replay: %w", err)
	}

	fmt.Println(rep)
	return nil
}
