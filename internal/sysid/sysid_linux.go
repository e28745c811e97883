// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package sysid

import (
	"golang.org/x/sys/unix"
)

// ThreadID returns the kernel thread id of the calling goroutine's
// current OS thread. The value is only stable while the goroutine is
// locked to its thread.
func ThreadID() int {
	return unix.Gettid()
}
