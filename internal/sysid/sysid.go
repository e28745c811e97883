// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysid exposes the kernel-level identity of the calling
// thread, for labeling report lines with where they ran.
package sysid
