// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDemo(t *testing.T) {
	output, err := captureOutput(t, runDemo)
	require.NoError(t, err)
	require.Contains(t, output, "Testing .. R")
}
