// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux
// +build !linux

package sysid

import (
	"os"
)

// ThreadID returns the process id on platforms without a cheap way to
// name the current kernel thread.
func ThreadID() int {
	return os.Getpid()
}
