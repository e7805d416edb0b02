package choreo

import "time"

// Task is resumable per-frame work. Step runs once per frame and returns
// true when the task has finished.
type Task interface {
	Step(now time.Time) (done bool)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(now time.Time) bool

// Step calls f.
func (f TaskFunc) Step(now time.Time) bool {
	return f(now)
}

// Token controls a scheduled task.
type Token struct {
	cancelled bool
	done      bool
}

// Cancel stops the task before its next step. Cancelling a finished task is
// a no-op.
func (t *Token) Cancel() {
	if t != nil && !t.done {
		t.cancelled = true
	}
}

// Cancelled reports whether Cancel stopped the task.
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled
}

// Done reports whether the task ran to completion.
func (t *Token) Done() bool {
	return t != nil && t.done
}

// Live reports whether the task will step again.
func (t *Token) Live() bool {
	return t != nil && !t.done && !t.cancelled
}

type scheduled struct {
	task  Task
	token *Token
}

// Scheduler runs each live task once per Tick until it finishes or is
// cancelled. Tasks scheduled during a Tick first run on the next one.
type Scheduler struct {
	tasks []scheduled
}

// Schedule adds a task and returns its cancellation token.
func (s *Scheduler) Schedule(t Task) *Token {
	tok := &Token{}
	s.tasks = append(s.tasks, scheduled{task: t, token: tok})
	return tok
}

// Tick steps every live task once.
func (s *Scheduler) Tick(now time.Time) {
	n := len(s.tasks)
	for i := range n {
		e := s.tasks[i]
		if !e.token.Live() {
			continue
		}
		if e.task.Step(now) {
			e.token.done = true
		}
	}
	kept := s.tasks[:0]
	for _, e := range s.tasks {
		if e.token.Live() {
			kept = append(kept, e)
		}
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.tasks {
		if e.token.Live() {
			n++
		}
	}
	return n
}
