// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file was auto-generated via go generate.
// DO NOT UPDATE MANUALLY

/*
Command banque stresses one shared bank account with a fixed set of deposits and
withdrawals, then compares the final balance with the analytically expected one.

Four bank machines adjust the same account: Montreal +6, Paris -4, Johannesburg
+7 and Bangalore -3. Each machine applies its adjustment --repeat times. The
--lib flag chooses how the machines execute: one after the other (serial), in
child processes (fork), in preemptively scheduled threads (pthread), in
cooperatively scheduled tasks (pth), or in threads serialized by a lock (mutex).
Unsynchronized threads lose updates, which shows up as an end balance below the
expected one.

Usage:
   banque [flags]

The banque flags are:
 -amount=100000000
   Starting balance of the account.
 -lib=serial
   Execution method for the bank machines [ serial | fork | pthread | pth |
   mutex ].
 -repeat=10000000
   Number of times each bank machine applies its adjustment.
 -trials=1
   Number of complete runs. Above one, each run executes in a child process and
   only an aggregate report is printed.

The global flags are:
 -alsologtostderr=true
   log to standard error as well as files
 -log_backtrace_at=:0
   when logging hits line file:N, emit a stack trace
 -log_dir=
   if non-empty, write log files to this directory
 -logtostderr=false
   log to standard error instead of files
 -max_stack_buf_size=4292608
   max size in bytes of the buffer to use for logging stack traces
 -metadata=<just specify -metadata to activate>
   Displays metadata for the program and exits.
 -stderrthreshold=2
   logs at or above this threshold go to stderr
 -time=false
   Dump timing information to stderr before exiting the program.
 -v=0
   log level for V logs
 -vmodule=
   comma-separated list of globpattern=N settings for filename-filtered logging
   (without the .go suffix).  E.g. foo/bar/baz.go is matched by patterns baz or
   *az or b* but not by bar/baz or baz.go or az or b.*
 -vpath=
   comma-separated list of regexppattern=N settings for file pathname-filtered
   logging (without the .go suffix).  E.g. foo/bar/baz.go is matched by patterns
   foo/bar/baz or fo.*az or oo/ba or b.z but not by foo/bar/baz.go or fo*az
*/
package main
