// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testutil provides small helpers shared by the banque tests.
package testutil

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// SeedEnv names the environment variable that fixes the seed of
// generators returned by NewRand, for replaying a failed sequence.
const SeedEnv = "BANQUE_RNG_SEED"

// NewRand returns a pseudo-random generator seeded from the clock, or
// from SeedEnv when set. The seed is logged so any failure can be
// reproduced. Each test gets its own generator; there is no shared
// singleton to couple test cases to one another.
func NewRand(t testing.TB) *rand.Rand {
	seed := time.Now().UnixNano()
	if s := os.Getenv(SeedEnv); s != "" {
		var err error
		if seed, err = strconv.ParseInt(s, 0, 64); err != nil {
			t.Fatalf("ParseInt(%q, 0, 64) failed: %v", s, err)
		}
	}
	t.Logf("seeded pseudo-random number generator with %v", seed)
	return rand.New(rand.NewSource(seed))
}
