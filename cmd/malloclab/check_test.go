// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCheck(t *testing.T) {
	origSeed, origQuota, origMaxSize := checkSeed, checkQuota, checkMaxSize
	t.Cleanup(func() { checkSeed, checkQuota, checkMaxSize = origSeed, origQuota, origMaxSize })

	checkSeed = 42
	checkQuota = 64 << 10
	checkMaxSize = 256

	output, err := captureOutput(t, runCheck)
	require.NoError(t, err)
	require.Contains(t, output, "check: ok")
}

func TestRunCheckDeterministic(t *testing.T) {
	origSeed, origQuota, origMaxSize := checkSeed, checkQuota, checkMaxSize
	t.Cleanup(func() { checkSeed, checkQuota, checkMaxSize = origSeed, origQuota, origMaxSize })

	checkSeed = 7
	checkQuota = 16 << 10
	checkMaxSize = 64

	first, err := captureOutput(t, runCheck)
	require.NoError(t, err)
	second, err := captureOutput(t, runCheck)
	require.NoError(t, err)
	require.Equal(t, first, second, "the same seed must drive the same allocation sequence")
}
