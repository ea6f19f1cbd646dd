package task

import (
	"time"

	"github.com/illufluo/robot-v2/internal/drive"
	"github.com/illufluo/robot-v2/internal/monitoring"
	"github.com/illufluo/robot-v2/internal/timeutil"
	"github.com/illufluo/robot-v2/internal/vision"
)

// Perceiver is the controller's view of the vision system. Each call
// captures one frame; ok=false signals a transient capture failure and the
// tick is skipped after a short backoff.
type Perceiver interface {
	Blocks() ([]vision.DetectedObject, bool)
	Sheets(colors ...string) ([]vision.DetectedObject, bool)
}

// Recorder receives session events for persistence. A nil Recorder disables
// journaling.
type Recorder interface {
	RecordTransition(from, to string, at time.Time) error
	RecordPlacement(color string, completed int, at time.Time) error
}

// Controller runs the perception-decision-action loop. Single-threaded and
// fully synchronous: one tick captures, decides, then blocks on at most one
// actuator schedule before the next tick.
type Controller struct {
	eyes    Perceiver
	exec    *drive.Executor
	clock   timeutil.Clock
	tuning  Tuning
	journal Recorder

	task Task
}

// NewController creates a controller in the FindBlock state. journal may be
// nil.
func NewController(eyes Perceiver, exec *drive.Executor, clock timeutil.Clock, tuning Tuning, journal Recorder) *Controller {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Controller{
		eyes:    eyes,
		exec:    exec,
		clock:   clock,
		tuning:  tuning,
		journal: journal,
		task:    NewTask(clock.Now()),
	}
}

// Task returns a copy of the current session state.
func (c *Controller) Task() Task { return c.task }

// Tick runs one control cycle: observe (if the state needs vision), decide,
// act. It reports false when a capture failure skipped the tick.
func (c *Controller) Tick(sig Signal) bool {
	var obs Observation

	switch c.task.State {
	case FindBlock:
		blocks, ok := c.eyes.Blocks()
		if !ok {
			c.clock.Sleep(c.tuning.CaptureRetry)
			return false
		}
		obs.Blocks = blocks
	case AlignToSheet:
		sheets, ok := c.eyes.Sheets(c.task.HeldColor)
		if !ok {
			c.clock.Sleep(c.tuning.CaptureRetry)
			return false
		}
		obs.Sheets = sheets
	}

	before := c.task
	next, actions := Decide(before, obs, sig, c.clock.Now(), c.tuning)
	c.task = next

	c.record(before, next)
	c.exec.Run(actions)
	return true
}

// record logs and journals the effects of one decision.
func (c *Controller) record(before, after Task) {
	if after.State != before.State {
		monitoring.Logf("state: %s -> %s", before.State, after.State)
		if c.journal != nil {
			if err := c.journal.RecordTransition(before.State.String(), after.State.String(), after.EnteredAt); err != nil {
				monitoring.Logf("journal: record transition: %v", err)
			}
		}
	}

	if after.Completed > before.Completed {
		monitoring.Logf("placed %s block (%d total), idling for operator", before.HeldColor, after.Completed)
		if c.journal != nil {
			if err := c.journal.RecordPlacement(before.HeldColor, after.Completed, after.EnteredAt); err != nil {
				monitoring.Logf("journal: record placement: %v", err)
			}
		}
	}
}

// Run executes ticks until a quit signal arrives or the signal channel is
// closed. Signals are observed between ticks only; a pulse in progress runs
// to completion.
func (c *Controller) Run(signals <-chan Signal) {
	for {
		sig := SignalNone
		select {
		case s, ok := <-signals:
			if !ok {
				return
			}
			sig = s
		default:
		}

		if sig == SignalQuit {
			monitoring.Logf("quit signal received, stopping")
			return
		}

		c.Tick(sig)
		c.clock.Sleep(c.tuning.TickInterval)
	}
}
