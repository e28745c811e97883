// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil

import (
	"runtime"
	"time"
)

// ErrorReporter is the subset of testing.TB that NoLeaks reports
// through.
type ErrorReporter interface {
	Errorf(format string, args ...interface{})
}

// NoLeaks helps a test assert that it is not leaving goroutines
// behind. Call it before the code under test and invoke the returned
// function at the end, normally via defer:
//
//	defer testutil.NoLeaks(t, time.Second)()
//
// A goroutine can still be winding down when the test body returns,
// so the check retries until the count is back to its starting value
// or wait has elapsed.
func NoLeaks(t ErrorReporter, wait time.Duration) func() {
	before := runtime.NumGoroutine()
	return func() {
		deadline := time.Now().Add(wait)
		backoff := time.Millisecond
		var now int
		for {
			if now = runtime.NumGoroutine(); now <= before {
				return
			}
			if time.Now().After(deadline) {
				break
			}
			time.Sleep(backoff)
			if backoff *= 2; backoff > 100*time.Millisecond {
				backoff = 100 * time.Millisecond
			}
		}
		buf := make([]byte, 1<<20)
		buf = buf[:runtime.Stack(buf, true)]
		t.Errorf("%d goroutines still running after %v, want %d:\n%s", now, wait, before, buf)
	}
}
