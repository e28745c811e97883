// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package experiment

import (
	"fmt"
	"io"
	"strconv"

	"v.io/x/banque/bank"
	"v.io/x/banque/spawn"
	"v.io/x/lib/envvar"
	"v.io/x/lib/gosh"
	"v.io/x/lib/vlog"
)

// trialMain runs one complete measurement in a child process and sends
// the final balance back to the parent. Worker reports are discarded;
// the parent only aggregates outcomes.
var trialMain = gosh.RegisterFunc("trialMain", func(method string, amount, repeat int64) error {
	m, err := spawn.ParseMethod(method)
	if err != nil {
		return err
	}
	e := New(m, amount, repeat, 1, io.Discard)
	vlog.VI(1).Infof("trial %s: method=%s amount=%d repeat=%d", e.ID, e.Method, e.Amount, e.Repeat)
	end, _, err := e.measure(io.Discard)
	if err != nil {
		return err
	}
	gosh.SendVars(map[string]string{"BALANCE": strconv.FormatInt(end, 10)})
	return nil
})

// runTrials repeats the measurement in child processes and counts how
// many runs ended away from the expected balance. Each child starts
// from the same state, so the mismatch count is a direct reading of
// how often scheduling corrupted the result.
func (e *Experiment) runTrials() error {
	sh := gosh.NewShell(nil)
	sh.ContinueOnError = true
	defer sh.Cleanup()

	ops := bank.NewRegistry(bank.NewAccount(e.Amount))
	expected := bank.Expected(e.Amount, ops, e.Repeat)

	mismatches := 0
	for i := 0; i < e.Trials; i++ {
		cmd := sh.FuncCmd(trialMain, e.Method.String(), e.Amount, e.Repeat)
		if sh.Err != nil {
			return fmt.Errorf("building trial %d: %v", i, sh.Err)
		}
		cmd.Vars = envvar.MergeMaps(cmd.Vars, map[string]string{RunIDEnv: e.ID.String()})
		cmd.Start()
		if sh.Err != nil {
			return fmt.Errorf("starting trial %d: %v", i, sh.Err)
		}
		vars := cmd.AwaitVars("BALANCE")
		cmd.Wait()
		if cmd.Err != nil {
			return fmt.Errorf("trial %d failed: %v", i, cmd.Err)
		}
		end, err := strconv.ParseInt(vars["BALANCE"], 10, 64)
		if err != nil {
			return fmt.Errorf("trial %d sent balance %q: %v", i, vars["BALANCE"], err)
		}
		vlog.VI(1).Infof("trial %d of %s: end=%d expected=%d", i, e.ID, end, expected)
		if end != expected {
			mismatches++
		}
	}

	fmt.Fprintf(e.Out, balanceFormat, "Start balance:", e.Amount)
	fmt.Fprintf(e.Out, balanceFormat, "Expected:", expected)
	fmt.Fprintf(e.Out, countFormat, "Trials:", e.Trials)
	fmt.Fprintf(e.Out, countFormat, "Mismatches:", mismatches)
	return nil
}
