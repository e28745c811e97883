// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bank models the account shared by a banque run: a single
// mutable balance, the fixed set of teller operations bound to it, and
// the arithmetic for the balance an undisturbed run must end at.
package bank

// Account holds the balance shared by every operation of a run.
// Deposit performs a plain, unsynchronized read-modify-write, so
// concurrent depositors may lose updates.
type Account struct {
	balance int64
}

// NewAccount returns an account holding the given starting balance.
func NewAccount(balance int64) *Account {
	return &Account{balance: balance}
}

// Balance returns the value most recently stored, with no
// synchronization against concurrent Deposit calls.
func (a *Account) Balance() int64 {
	return a.balance
}

// Deposit adds amount to the balance as a plain read-modify-write.
func (a *Account) Deposit(amount int64) {
	a.balance += amount
}

// Operation binds a named per-transaction amount to an account. Several
// operations may share one account; the account outlives them all.
type Operation struct {
	Account *Account
	Amount  int64
	Name    string
}

// Registry is an ordered list of operations terminated by a nil
// sentinel. It is fixed after construction; entries keep their index
// for the lifetime of a run.
type Registry []*Operation

// NewRegistry returns the standard four-teller registry, every entry
// bound to a. The amounts sum to +6 per round, so a lost update shows
// up in the final balance.
func NewRegistry(a *Account) Registry {
	return Registry{
		{Account: a, Amount: 6, Name: "Montreal"},
		{Account: a, Amount: -4, Name: "Paris"},
		{Account: a, Amount: 7, Name: "Johannesburg"},
		{Account: a, Amount: -3, Name: "Bangalore"},
		nil,
	}
}

// Count returns the number of operations before the sentinel.
func (r Registry) Count() int {
	n := 0
	for _, op := range r {
		if op == nil {
			break
		}
		n++
	}
	return n
}

// Live returns the operations before the sentinel, in registry order.
func (r Registry) Live() []*Operation {
	return r[:r.Count()]
}

// Expected returns the balance a run must end at when no updates are
// lost: amount plus every live operation's amount times repeat. It
// never reads the account, so its value is fixed before any spawn
// method touches the balance.
func Expected(amount int64, ops Registry, repeat int64) int64 {
	expected := amount
	for _, op := range ops.Live() {
		expected += op.Amount * repeat
	}
	return expected
}
