package task

import "time"

// Task is the controller's session state. It is a plain value: the decision
// function takes a Task and returns the next one, never mutating shared
// state.
//
// HeldColor is set at the FindBlock->GrabBlock transition and cleared at
// drop and on reset. A progress timeout returns to FindBlock without opening
// the gripper, so HeldColor can survive it. SearchAttempts resets on every
// successful detection and on every state change; it never carries across
// states.
type Task struct {
	State          State
	Prev           State
	EnteredAt      time.Time
	HeldColor      string // color of the currently grasped block
	Completed      int    // blocks placed since startup
	SearchAttempts int    // consecutive empty-detection ticks in this state
}

// NewTask returns the startup session state: searching for a block.
func NewTask(now time.Time) Task {
	return Task{State: FindBlock, Prev: FindBlock, EnteredAt: now}
}

// enter transitions to a new state, stamping the entry time and resetting
// the search counter.
func (t Task) enter(s State, now time.Time) Task {
	t.Prev = t.State
	t.State = s
	t.EnteredAt = now
	t.SearchAttempts = 0
	return t
}

// Holding reports whether a block is currently grasped.
func (t Task) Holding() bool { return t.HeldColor != "" }
