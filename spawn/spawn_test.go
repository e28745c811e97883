// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spawn

import (
	"os"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"

	"v.io/x/banque/atm"
	"v.io/x/banque/bank"
	"v.io/x/banque/internal/testutil"
	"v.io/x/lib/gosh"
)

func TestMain(m *testing.M) {
	gosh.InitMain()
	os.Exit(m.Run())
}

// report is one parsed worker line.
type report struct {
	Name    string
	Balance int64
	PID     int
}

var reportRE = regexp.MustCompile(`ATM +([A-Za-z]+) balance: +(-?\d+) \$ \(pid=(\d+), tid=\d+\)`)

func parseReports(t *testing.T, out string) []report {
	t.Helper()
	matches := reportRE.FindAllStringSubmatch(out, -1)
	reports := make([]report, 0, len(matches))
	for _, m := range matches {
		balance, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			t.Fatalf("bad balance in report %q: %v", m[0], err)
		}
		pid, err := strconv.Atoi(m[3])
		if err != nil {
			t.Fatalf("bad pid in report %q: %v", m[0], err)
		}
		reports = append(reports, report{Name: m[1], Balance: balance, PID: pid})
	}
	return reports
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name string
		want Method
	}{
		{"serial", Serial},
		{"fork", Fork},
		{"pthread", Thread},
		{"pth", Coop},
		{"mutex", Mutex},
	}
	for _, test := range tests {
		got, err := ParseMethod(test.name)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseMethod(%q) got %v, want %v", test.name, got, test.want)
		}
		if got.String() != test.name {
			t.Errorf("Method(%v).String() got %q, want %q", got, got.String(), test.name)
		}
	}
	for _, name := range []string{"", "pthreads", "Serial", "openmp"} {
		if m, err := ParseMethod(name); err == nil {
			t.Errorf("ParseMethod(%q) got %v, want error", name, m)
		}
	}
}

func TestNamesOrder(t *testing.T) {
	want := []string{"serial", "fork", "pthread", "pth", "mutex"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunUnknownMethod(t *testing.T) {
	account := bank.NewAccount(0)
	ops := bank.NewRegistry(account)
	r := &atm.Routine{Repeat: 1, Out: &testutil.Buffer{}}
	if err := Method(99).Run(ops, r); err == nil {
		t.Errorf("Run on an unknown method did not fail")
	}
}

func TestSerialBalances(t *testing.T) {
	account := bank.NewAccount(100)
	ops := bank.NewRegistry(account)
	var out testutil.Buffer
	r := &atm.Routine{Repeat: 10, Out: &out}
	if err := Serial.Run(ops, r); err != nil {
		t.Fatalf("Serial.Run failed: %v", err)
	}
	if got, want := account.Balance(), bank.Expected(100, ops, 10); got != want {
		t.Errorf("balance got %d, want %d", got, want)
	}

	// Each worker observes the balance its predecessor left.
	reports := parseReports(t, out.String())
	want := []report{
		{"Montreal", 160, os.Getpid()},
		{"Paris", 120, os.Getpid()},
		{"Johannesburg", 190, os.Getpid()},
		{"Bangalore", 160, os.Getpid()},
	}
	if len(reports) != len(want) {
		t.Fatalf("got %d reports, want %d:\n%s", len(reports), len(want), out.String())
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("report %d mismatch:\n%s", i, spew.Sdump(reports[i], want[i]))
		}
	}
}

func TestSerialAlwaysMatchesExpected(t *testing.T) {
	rng := testutil.NewRand(t)
	for i := 0; i < 20; i++ {
		amount := rng.Int63n(2000000) - 1000000
		repeat := rng.Int63n(2000)
		account := bank.NewAccount(amount)
		ops := bank.NewRegistry(account)
		r := &atm.Routine{Repeat: repeat, Out: &testutil.Buffer{}}
		if err := Serial.Run(ops, r); err != nil {
			t.Fatalf("Serial.Run failed: %v", err)
		}
		if got, want := account.Balance(), bank.Expected(amount, ops, repeat); got != want {
			t.Errorf("amount=%d repeat=%d: balance got %d, want %d", amount, repeat, got, want)
		}
	}
}

func TestCoopMatchesSerial(t *testing.T) {
	defer testutil.NoLeaks(t, time.Second)()
	account := bank.NewAccount(100)
	ops := bank.NewRegistry(account)
	var out testutil.Buffer
	r := &atm.Routine{Repeat: 10, Out: &out}
	if err := Coop.Run(ops, r); err != nil {
		t.Fatalf("Coop.Run failed: %v", err)
	}
	if got, want := account.Balance(), bank.Expected(100, ops, 10); got != want {
		t.Errorf("balance got %d, want %d", got, want)
	}

	// The workers never yield, so the tasks run to completion in
	// registry order and the reports are identical to a serial run's.
	reports := parseReports(t, out.String())
	want := []report{
		{"Montreal", 160, os.Getpid()},
		{"Paris", 120, os.Getpid()},
		{"Johannesburg", 190, os.Getpid()},
		{"Bangalore", 160, os.Getpid()},
	}
	if len(reports) != len(want) {
		t.Fatalf("got %d reports, want %d:\n%s", len(reports), len(want), out.String())
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("report %d mismatch:\n%s", i, spew.Sdump(reports[i], want[i]))
		}
	}
}

func TestCoopAlwaysMatchesExpected(t *testing.T) {
	rng := testutil.NewRand(t)
	for i := 0; i < 10; i++ {
		amount := rng.Int63n(2000000) - 1000000
		repeat := rng.Int63n(2000)
		account := bank.NewAccount(amount)
		ops := bank.NewRegistry(account)
		r := &atm.Routine{Repeat: repeat, Out: &testutil.Buffer{}}
		if err := Coop.Run(ops, r); err != nil {
			t.Fatalf("Coop.Run failed: %v", err)
		}
		if got, want := account.Balance(), bank.Expected(amount, ops, repeat); got != want {
			t.Errorf("amount=%d repeat=%d: balance got %d, want %d", amount, repeat, got, want)
		}
	}
}

func TestThreadZeroRepeat(t *testing.T) {
	defer testutil.NoLeaks(t, time.Second)()
	account := bank.NewAccount(777)
	ops := bank.NewRegistry(account)
	var out testutil.Buffer
	r := &atm.Routine{Repeat: 0, Out: &out}
	if err := Thread.Run(ops, r); err != nil {
		t.Fatalf("Thread.Run failed: %v", err)
	}
	// Nothing deposits, so there is nothing to race on.
	if got, want := account.Balance(), int64(777); got != want {
		t.Errorf("balance got %d, want %d", got, want)
	}
	reports := parseReports(t, out.String())
	if got, want := len(reports), ops.Count(); got != want {
		t.Fatalf("got %d reports, want %d:\n%s", got, want, out.String())
	}
	for _, rep := range reports {
		if rep.Balance != 777 {
			t.Errorf("%s reported %d, want 777", rep.Name, rep.Balance)
		}
	}
}

func TestThreadSingleWriter(t *testing.T) {
	defer testutil.NoLeaks(t, time.Second)()
	account := bank.NewAccount(10)
	ops := bank.Registry{
		{Account: account, Amount: 5, Name: "Lone"},
		nil,
	}
	r := &atm.Routine{Repeat: 10000, Out: &testutil.Buffer{}}
	if err := Thread.Run(ops, r); err != nil {
		t.Fatalf("Thread.Run failed: %v", err)
	}
	// A single worker has no one to race with.
	if got, want := account.Balance(), int64(50010); got != want {
		t.Errorf("balance got %d, want %d", got, want)
	}
}

func TestMutexMatchesExpected(t *testing.T) {
	defer testutil.NoLeaks(t, time.Second)()
	account := bank.NewAccount(500)
	ops := bank.NewRegistry(account)
	r := &atm.Routine{Repeat: 20000, Out: &testutil.Buffer{}}
	if err := Mutex.Run(ops, r); err != nil {
		t.Fatalf("Mutex.Run failed: %v", err)
	}
	if got, want := account.Balance(), bank.Expected(500, ops, 20000); got != want {
		t.Errorf("balance got %d, want %d", got, want)
	}
}

func TestForkLeavesParentUntouched(t *testing.T) {
	account := bank.NewAccount(1000)
	ops := bank.NewRegistry(account)
	var out testutil.Buffer
	r := &atm.Routine{Repeat: 50, Out: &out}
	if err := Fork.Run(ops, r); err != nil {
		t.Fatalf("Fork.Run failed: %v", err)
	}
	// Children deposit into their own copies; the shared account
	// never moves.
	if got, want := account.Balance(), int64(1000); got != want {
		t.Errorf("parent balance got %d, want %d", got, want)
	}

	// Each child ends at the starting balance plus its own deltas,
	// and none of them ran in this process.
	reports := parseReports(t, out.String())
	if got, want := len(reports), ops.Count(); got != want {
		t.Fatalf("got %d reports, want %d:\n%s", got, want, out.String())
	}
	want := map[string]int64{
		"Montreal":     1300,
		"Paris":        800,
		"Johannesburg": 1350,
		"Bangalore":    850,
	}
	seen := map[string]bool{}
	for _, rep := range reports {
		wantBalance, ok := want[rep.Name]
		if !ok {
			t.Errorf("unexpected report %s", spew.Sdump(rep))
			continue
		}
		if seen[rep.Name] {
			t.Errorf("duplicate report for %s", rep.Name)
		}
		seen[rep.Name] = true
		if rep.Balance != wantBalance {
			t.Errorf("%s child balance got %d, want %d", rep.Name, rep.Balance, wantBalance)
		}
		if rep.PID == os.Getpid() {
			t.Errorf("%s ran in the parent process", rep.Name)
		}
	}
}

func TestForkZeroRepeat(t *testing.T) {
	account := bank.NewAccount(12345)
	ops := bank.NewRegistry(account)
	var out testutil.Buffer
	r := &atm.Routine{Repeat: 0, Out: &out}
	if err := Fork.Run(ops, r); err != nil {
		t.Fatalf("Fork.Run failed: %v", err)
	}
	reports := parseReports(t, out.String())
	if got, want := len(reports), ops.Count(); got != want {
		t.Fatalf("got %d reports, want %d:\n%s", got, want, out.String())
	}
	for _, rep := range reports {
		if rep.Balance != 12345 {
			t.Errorf("%s reported %d, want 12345", rep.Name, rep.Balance)
		}
	}
}
