// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTraceFile(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.trace")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	return path
}

func TestRunTrace(t *testing.T) {
	path := writeTraceFile(t, "a x 16\na y 32\nf x\nf y\n")

	output, err := captureOutput(t, func() error { return runTrace(path) })
	require.NoError(t, err)
	require.Contains(t, output, "ops=4")
	require.Contains(t, output, "allocs=2")
	require.Contains(t, output, "frees=2")
}

func TestRunTraceMissingFile(t *testing.T) {
	err := runTrace(filepath.Join(t.TempDir(), "does-not-exist.trace"))
	require.Error(t, err)
}

func TestRunTraceMalformedScript(t *testing.T) {
	path := writeTraceFile(t, "a x\n")
	err := runTrace(path)
	require.Error(t, err)
}
