// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spawn

import (
	"fmt"
	"strings"
)

// Method selects the scheduling model the teller workers run under.
// The zero value is Serial.
type Method int

const (
	// Serial runs the workers one after another in the calling
	// goroutine.
	Serial Method = iota
	// Fork runs each worker in a child process holding a private
	// copy of the account.
	Fork
	// Thread runs each worker on its own preemptively scheduled OS
	// thread, all sharing the account with no synchronization.
	Thread
	// Coop runs each worker as a cooperatively scheduled task; at
	// most one task executes at any instant.
	Coop
	// Mutex is Thread with every account access serialized by one
	// shared lock. It exists for comparison; the other methods share
	// none of its locking.
	Mutex
)

// methods maps command-line names to methods, in documentation order.
var methods = []struct {
	name   string
	method Method
}{
	{"serial", Serial},
	{"fork", Fork},
	{"pthread", Thread},
	{"pth", Coop},
	{"mutex", Mutex},
}

// Names returns the recognized method names in documentation order.
func Names() []string {
	names := make([]string, len(methods))
	for i, entry := range methods {
		names[i] = entry.name
	}
	return names
}

// ParseMethod maps a command-line name to its Method.
func ParseMethod(name string) (Method, error) {
	for _, entry := range methods {
		if entry.name == name {
			return entry.method, nil
		}
	}
	return 0, fmt.Errorf("unknown spawn method %q, must be one of %s", name, strings.Join(Names(), "|"))
}

// String returns the command-line name of the method.
func (m Method) String() string {
	for _, entry := range methods {
		if entry.method == m {
			return entry.name
		}
	}
	return fmt.Sprintf("Method(%d)", int(m))
}
