// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package atm implements the teller routine: the repeated, deliberately
// unsynchronized application of one operation to its account, followed
// by a single report line.
package atm

import (
	"fmt"
	"io"
	"os"
	"sync"

	"v.io/x/banque/bank"
	"v.io/x/banque/internal/sysid"
)

// Routine applies an operation to its account a fixed number of times.
// One routine value is shared by all workers of a run and is read-only
// while they execute.
type Routine struct {
	// Repeat is the number of times each worker applies its
	// operation's amount.
	Repeat int64
	// Out receives the one report line each worker writes after its
	// final application.
	Out io.Writer
}

// Run applies op.Amount to op.Account exactly r.Repeat times, each
// application a plain read-modify-write with no synchronization
// against other workers, then reports the balance it observes. The
// process and thread ids in the report only label where the worker
// ran; nothing reads them back.
func (r *Routine) Run(op *bank.Operation) {
	for i := int64(0); i < r.Repeat; i++ {
		op.Account.Deposit(op.Amount)
	}
	r.report(op, op.Account.Balance())
}

// RunLocked is Run with every account access performed under mu. It
// backs the synchronized comparison method and is never called by the
// unguarded ones.
func (r *Routine) RunLocked(op *bank.Operation, mu sync.Locker) {
	for i := int64(0); i < r.Repeat; i++ {
		mu.Lock()
		op.Account.Deposit(op.Amount)
		mu.Unlock()
	}
	mu.Lock()
	balance := op.Account.Balance()
	mu.Unlock()
	r.report(op, balance)
}

func (r *Routine) report(op *bank.Operation, balance int64) {
	fmt.Fprintf(r.Out, "ATM %12s balance: %11d $ (pid=%d, tid=%d)\n",
		op.Name, balance, os.Getpid(), sysid.ThreadID())
}
