// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spawn runs the teller workers of a banque run under one of
// five scheduling models: serially, in child processes, on preemptive
// OS threads, as cooperative tasks, or on OS threads serialized by a
// lock. The unguarded models deliberately carry no synchronization on
// the account; whether their final balance matches the expectation is
// the property under study, not something this package ensures.
package spawn

import (
	"fmt"
	"runtime"
	"sync"

	"v.io/x/banque/atm"
	"v.io/x/banque/bank"
	"v.io/x/banque/coop"
)

// Run executes one worker per live operation under the method's
// scheduling model and returns only after every worker has finished.
// All methods except Fork run the workers against the registry's
// shared account; Fork children deposit into private copies, so the
// shared account is left at its pre-launch balance.
func (m Method) Run(ops bank.Registry, r *atm.Routine) error {
	switch m {
	case Serial:
		return runSerial(ops, r)
	case Fork:
		return runFork(ops, r)
	case Thread:
		return runThread(ops, r)
	case Coop:
		return runCoop(ops, r)
	case Mutex:
		return runMutex(ops, r)
	}
	return fmt.Errorf("unknown spawn method %d", int(m))
}

// runSerial invokes the routine for each operation in registry order.
// Every worker observes exactly the balance its predecessor left.
func runSerial(ops bank.Registry, r *atm.Routine) error {
	for _, op := range ops.Live() {
		r.Run(op)
	}
	return nil
}

// runThread starts every worker at once, each on a dedicated OS
// thread, and joins them all. The threads share the account and the
// deposits are plain read-modify-writes, so concurrent workers can
// interleave mid-deposit and lose updates.
func runThread(ops bank.Registry, r *atm.Routine) error {
	var wg sync.WaitGroup
	for _, op := range ops.Live() {
		wg.Add(1)
		go func(op *bank.Operation) {
			defer wg.Done()
			// Locked for the worker's whole life and never
			// unlocked, so the thread is dedicated to this worker
			// and dies with it.
			runtime.LockOSThread()
			r.Run(op)
		}(op)
	}
	wg.Wait()
	return nil
}

// runCoop runs each worker as a task of a cooperative scheduler. The
// worker loop contains no suspension point, so every task runs to
// completion before the next one starts and the balance comes out as
// in a serial run, even though the tasks share the account.
func runCoop(ops bank.Registry, r *atm.Routine) error {
	s := coop.New()
	defer s.Shutdown()
	tasks := make([]*coop.Task, 0, ops.Count())
	for _, op := range ops.Live() {
		op := op
		tasks = append(tasks, s.Spawn(op.Name, func(*coop.Task) {
			r.Run(op)
		}))
	}
	for _, task := range tasks {
		task.Join()
	}
	return nil
}

// runMutex is runThread with one lock serializing every deposit. It is
// a separate method rather than an option on the others, so that the
// unguarded behavior stays reproducible on its own.
func runMutex(ops bank.Registry, r *atm.Routine) error {
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, op := range ops.Live() {
		wg.Add(1)
		go func(op *bank.Operation) {
			defer wg.Done()
			runtime.LockOSThread()
			r.RunLocked(op, &mu)
		}(op)
	}
	wg.Wait()
	return nil
}
