// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysinfo logs details about the machine an experiment runs on.
package sysinfo

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"v.io/x/lib/vlog"
)

// LogEnvironment writes a snapshot of the host and process to the log
// at verbosity 1. Scheduling artifacts depend heavily on the machine,
// so the snapshot is what makes one run comparable to another.
// Collection errors are not fatal; the affected lines are skipped.
func LogEnvironment() {
	if !vlog.V(1) {
		return
	}
	vlog.Infof("runtime: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	vlog.Infof("scheduler: GOMAXPROCS=%d NumCPU=%d", runtime.GOMAXPROCS(0), runtime.NumCPU())
	if info, err := host.Info(); err == nil {
		vlog.Infof("host: %s %s %s (kernel %s)", info.Hostname, info.Platform, info.PlatformVersion, info.KernelVersion)
	}
	if logical, err := cpu.Counts(true); err == nil {
		if physical, err := cpu.Counts(false); err == nil {
			vlog.Infof("cpu: %d logical, %d physical", logical, physical)
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		vlog.Infof("mem: %d total, %d available", vm.Total, vm.Available)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if threads, err := proc.NumThreads(); err == nil {
			vlog.Infof("process: pid=%d threads=%d", os.Getpid(), threads)
		}
	}
}
