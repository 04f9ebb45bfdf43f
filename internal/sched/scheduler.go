// Package sched is the minimal deferred-task abstraction used for simulated
// asynchronous work (move generation completion). The engine is otherwise
// synchronous and single-writer; the stale-state guard lives in the
// scheduled callback, not here.
package sched

import "time"

// Cancel stops a scheduled task. Reports whether the task was stopped
// before it ran. Safe to call more than once.
type Cancel func() bool

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Cancel
}

type timerScheduler struct{}

// NewTimerScheduler returns the wall-clock Scheduler backed by
// time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return t.Stop
}

// Manual is a Scheduler for tests and embedders that want to drive deferred
// tasks explicitly. Tasks run only when Fire is called.
type Manual struct {
	tasks []*manualTask
}

type manualTask struct {
	fn        func()
	cancelled bool
	fired     bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(_ time.Duration, fn func()) Cancel {
	task := &manualTask{fn: fn}
	m.tasks = append(m.tasks, task)
	return func() bool {
		if task.fired || task.cancelled {
			return false
		}
		task.cancelled = true
		return true
	}
}

// Pending returns the number of scheduled, unfired, uncancelled tasks.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

// Fire runs all pending tasks in scheduling order.
func (m *Manual) Fire() {
	for _, t := range m.tasks {
		if t.fired || t.cancelled {
			continue
		}
		t.fired = true
		t.fn()
	}
}
