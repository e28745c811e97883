// Copyright 2025 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coop implements a small user-level cooperative scheduler.
//
// Any number of tasks are multiplexed onto one logical execution
// context: at most one task runs at any instant, and control moves to
// another task only when the running one yields or finishes. A task
// that never yields therefore runs to completion before the task
// spawned after it starts, exactly as if the two had been called in
// sequence.
package coop

// TID is the task identifier type.
type TID int

// tidGenerator is used for generating unique task identifiers.
func tidGenerator() func() TID {
	var n int
	return func() TID {
		n++
		return TID(n)
	}
}

// request is a message a task sends to the scheduling loop. Requests
// that give up the execution token carry the channel the loop closes
// to hand the token back.
type request interface{}

type spawnRequest struct {
	task  *Task
	ready chan struct{}
}

type yieldRequest struct {
	task  *Task
	ready chan struct{}
}

type exitRequest struct {
	task *Task
}

type quitRequest struct{}

// runnable pairs a queued task with the channel that resumes it.
type runnable struct {
	task  *Task
	ready chan struct{}
}

// Task is one cooperatively scheduled activity.
type Task struct {
	tid   TID
	name  string
	sched *Scheduler
	done  chan struct{}
}

// ID returns the task identifier.
func (t *Task) ID() TID { return t.tid }

// Name returns the name the task was spawned with.
func (t *Task) Name() string { return t.name }

// Yield suspends the calling task and hands the execution token to
// the next queued task. The caller resumes once every task that was
// queued at the time of the call has had a turn. Yield must only be
// called from the task's own function.
func (t *Task) Yield() {
	ready := make(chan struct{})
	t.sched.requests <- yieldRequest{task: t, ready: ready}
	<-ready
}

// Join blocks until the task's function has returned.
func (t *Task) Join() {
	<-t.done
}

// Scheduler owns the run queue and the execution token. All of its
// state is confined to the scheduling loop; tasks and the spawning
// goroutine talk to the loop through requests only.
type Scheduler struct {
	requests chan request
	quit     chan struct{}
	nextTID  func() TID
}

// New returns a scheduler with a running scheduling loop and no tasks.
func New() *Scheduler {
	s := &Scheduler{
		requests: make(chan request),
		quit:     make(chan struct{}),
		nextTID:  tidGenerator(),
	}
	go s.loop()
	return s
}

// Spawn queues a task that will run fn. fn does not start before every
// task spawned earlier has run up to its first yield or to completion.
// Spawn is not safe for concurrent use; spawn from one goroutine.
func (s *Scheduler) Spawn(name string, fn func(*Task)) *Task {
	t := &Task{
		tid:   s.nextTID(),
		name:  name,
		sched: s,
		done:  make(chan struct{}),
	}
	ready := make(chan struct{})
	go func() {
		<-ready
		fn(t)
		s.requests <- exitRequest{task: t}
	}()
	s.requests <- spawnRequest{task: t, ready: ready}
	return t
}

// Shutdown stops the scheduling loop and waits for it to exit. It
// must not be called before every spawned task has been joined.
func (s *Scheduler) Shutdown() {
	s.requests <- quitRequest{}
	<-s.quit
}

// loop dispatches the execution token. A task executes only between a
// dispatch here and its next request, and the token is handed out
// again only after that request arrives, so no two tasks ever run at
// the same time.
func (s *Scheduler) loop() {
	var runq []runnable
	running := false
	dispatch := func() {
		if running || len(runq) == 0 {
			return
		}
		next := runq[0]
		runq = runq[1:]
		running = true
		close(next.ready)
	}
	for req := range s.requests {
		switch req := req.(type) {
		case spawnRequest:
			runq = append(runq, runnable{req.task, req.ready})
		case yieldRequest:
			running = false
			runq = append(runq, runnable{req.task, req.ready})
		case exitRequest:
			running = false
			close(req.task.done)
		case quitRequest:
			close(s.quit)
			return
		}
		dispatch()
	}
}
