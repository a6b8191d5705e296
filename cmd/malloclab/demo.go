// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mishors/Dynamic-Memory-Allocator/heap"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the original smoke test: init, allocate 2 bytes, write and print one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo()
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo() error {
	heap.SetTrace(verbose)

	var m heap.Manager
	if err := m.Init(); err != nil {
		return err
	}
	defer m.Deinit()

	p := m.Malloc(2)
	if p == nil {
		return fmt.Errorf("malloc(2) failed")
	}

	b := heap.Bytes(p, 1)
	b[0] = 'R'
	fmt.Printf("Testing .. %c\n", b[0])
	return nil
}
