// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spawn

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"v.io/x/banque/atm"
	"v.io/x/banque/bank"
	"v.io/x/lib/gosh"
	"v.io/x/lib/vlog"
)

// forkATM is the body of a Fork child: rebuild a private account at
// the balance the parent saw at spawn time, run one worker against
// it, and exit. The report reaches the parent through stdout.
var forkATM = gosh.RegisterFunc("forkATM", func(name string, amount, balance, repeat int64) {
	account := bank.NewAccount(balance)
	op := &bank.Operation{Account: account, Amount: amount, Name: name}
	r := &atm.Routine{Repeat: repeat, Out: os.Stdout}
	r.Run(op)
})

// runFork starts one child process per operation, all at once, and
// waits for every child to exit, in whatever order they finish. Each
// child copies the balance once at spawn time; nothing it deposits is
// visible to its siblings or to this process. The registry's account
// therefore still holds its pre-launch balance when runFork returns.
//
// The caller's binary must have called gosh.InitMain for the children
// to run.
func runFork(ops bank.Registry, r *atm.Routine) error {
	sh := gosh.NewShell(nil)
	sh.ContinueOnError = true
	defer sh.Cleanup()

	cmds := make([]*gosh.Cmd, 0, ops.Count())
	for _, op := range ops.Live() {
		cmd := sh.FuncCmd(forkATM, op.Name, op.Amount, op.Account.Balance(), r.Repeat)
		cmd.AddStdoutWriter(r.Out)
		cmd.Start()
		if sh.Err != nil {
			return fmt.Errorf("spawning %s teller: %v", op.Name, sh.Err)
		}
		vlog.VI(2).Infof("spawned %s teller in child pid %d", op.Name, cmd.Pid())
		cmds = append(cmds, cmd)
	}

	var group errgroup.Group
	for _, cmd := range cmds {
		cmd := cmd
		group.Go(func() error {
			cmd.Wait()
			return cmd.Err
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("waiting for forked tellers: %v", err)
	}
	return sh.Err
}
