// Copyright 2018 The Dynamic-Memory-Allocator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command malloclab is a small harness around the heap allocator: it can
// reproduce the original smoke test, replay a scripted allocation trace,
// or run a randomized consistency check.
package main

func main() {
	execute()
}
