// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package experiment runs the balance-adjustment workload and compares
// the final account balance with the analytically expected one. A
// single run reports the raw balances; a multi-trial run repeats the
// workload in child processes and reports how often the outcome
// diverged.
package experiment

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"v.io/x/banque/atm"
	"v.io/x/banque/bank"
	"v.io/x/banque/internal/sysinfo"
	"v.io/x/banque/spawn"
	"v.io/x/lib/vlog"
)

// RunIDEnv names the environment variable that carries the run
// identifier. Trial children inherit it so their log lines can be
// correlated with the parent run.
const RunIDEnv = "BANQUE_RUN_ID"

const (
	balanceFormat = "%-21s %15d $\n"
	countFormat   = "%-21s %15d\n"
)

// An Experiment applies the fixed set of balance adjustments to a
// fresh account using one spawn method.
type Experiment struct {
	// ID identifies the run across processes.
	ID uuid.UUID
	// Method selects how the workers execute.
	Method spawn.Method
	// Amount is the starting balance.
	Amount int64
	// Repeat is how many times each worker applies its adjustment.
	Repeat int64
	// Trials is the number of runs. A value above one switches to
	// child-process trials with an aggregate report.
	Trials int
	// Out receives the report.
	Out io.Writer
}

// New returns an experiment with a run identifier, inherited from
// RunIDEnv when set and freshly generated otherwise.
func New(method spawn.Method, amount, repeat int64, trials int, out io.Writer) *Experiment {
	e := &Experiment{
		ID:     uuid.New(),
		Method: method,
		Amount: amount,
		Repeat: repeat,
		Trials: trials,
		Out:    out,
	}
	if s := os.Getenv(RunIDEnv); s != "" {
		if id, err := uuid.Parse(s); err != nil {
			vlog.Errorf("ignoring malformed %s=%q: %v", RunIDEnv, s, err)
		} else {
			e.ID = id
		}
	}
	return e
}

// Run executes the experiment and writes its report to e.Out.
func (e *Experiment) Run() error {
	vlog.VI(1).Infof("run %s: method=%s amount=%d repeat=%d trials=%d",
		e.ID, e.Method, e.Amount, e.Repeat, e.Trials)
	sysinfo.LogEnvironment()
	if e.Trials > 1 {
		return e.runTrials()
	}
	return e.runOnce()
}

// measure applies every adjustment to a fresh account and returns the
// final and expected balances. Worker reports go to out.
func (e *Experiment) measure(out io.Writer) (end, expected int64, err error) {
	account := bank.NewAccount(e.Amount)
	ops := bank.NewRegistry(account)
	expected = bank.Expected(e.Amount, ops, e.Repeat)
	r := &atm.Routine{Repeat: e.Repeat, Out: out}
	if err := e.Method.Run(ops, r); err != nil {
		return 0, 0, err
	}
	return account.Balance(), expected, nil
}

func (e *Experiment) runOnce() error {
	end, expected, err := e.measure(e.Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.Out, balanceFormat, "Start balance:", e.Amount)
	fmt.Fprintf(e.Out, balanceFormat, "End balance:", end)
	fmt.Fprintf(e.Out, balanceFormat, "Expected:", expected)
	if end != expected {
		vlog.VI(1).Infof("run %s: end balance differs from expected by %d $", e.ID, end-expected)
	}
	return nil
}
