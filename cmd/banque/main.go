// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The following enables go generate to generate the doc.go file.
//go:generate go run v.io/x/lib/cmdline/gendoc . -help

package main

import (
	"v.io/x/banque/experiment"
	"v.io/x/banque/spawn"
	"v.io/x/lib/cmdline"
	"v.io/x/lib/gosh"
	"v.io/x/lib/vlog"
)

var (
	flagLib    string
	flagAmount int64
	flagRepeat int64
	flagTrials int

	cmdBanque = &cmdline.Command{
		Runner: cmdline.RunnerFunc(runBanque),
		Name:   "banque",
		Short:  "stresses one bank account with concurrent deposits",
		Long: `
Command banque stresses one shared bank account with a fixed set of deposits
and withdrawals, then compares the final balance with the analytically
expected one.

Four bank machines adjust the same account: Montreal +6, Paris -4,
Johannesburg +7 and Bangalore -3. Each machine applies its adjustment
--repeat times. The --lib flag chooses how the machines execute: one after
the other (serial), in child processes (fork), in preemptively scheduled
threads (pthread), in cooperatively scheduled tasks (pth), or in threads
serialized by a lock (mutex). Unsynchronized threads lose updates, which
shows up as an end balance below the expected one.
`,
	}
)

func init() {
	cmdBanque.Flags.StringVar(&flagLib, "lib", "serial", "Execution method for the bank machines [ serial | fork | pthread | pth | mutex ].")
	cmdBanque.Flags.Int64Var(&flagAmount, "amount", 100000000, "Starting balance of the account.")
	cmdBanque.Flags.Int64Var(&flagRepeat, "repeat", 10000000, "Number of times each bank machine applies its adjustment.")
	cmdBanque.Flags.IntVar(&flagTrials, "trials", 1, "Number of complete runs. Above one, each run executes in a child process and only an aggregate report is printed.")
}

func main() {
	gosh.InitMain()
	cmdline.Main(cmdBanque)
}

func runBanque(env *cmdline.Env, args []string) error {
	vlog.ConfigureLibraryLoggerFromFlags() //nolint:errcheck
	if len(args) > 0 {
		return env.UsageErrorf("banque accepts no arguments")
	}
	method, err := spawn.ParseMethod(flagLib)
	if err != nil {
		return env.UsageErrorf("%v", err)
	}
	if flagRepeat < 0 {
		return env.UsageErrorf("--repeat must not be negative, got %d", flagRepeat)
	}
	if flagTrials < 1 {
		return env.UsageErrorf("--trials must be at least 1, got %d", flagTrials)
	}
	return experiment.New(method, flagAmount, flagRepeat, flagTrials, env.Stdout).Run()
}
