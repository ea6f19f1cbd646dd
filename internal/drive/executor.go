package drive

import (
	"time"

	"github.com/illufluo/robot-v2/internal/monitoring"
	"github.com/illufluo/robot-v2/internal/timeutil"
)

// stopSettle is the pause after every stop command so the board processes it
// before the next token arrives.
const stopSettle = 100 * time.Millisecond

// Action is one blocking actuator step produced by the controller's decision
// logic. Decisions are pure values; only the Executor touches the wire and
// the clock.
type Action interface {
	run(e *Executor)
}

// Pulse is a timed open-loop movement: start command, wait, stop. There is
// no feedback during execution; the duration is the entire control.
type Pulse struct {
	Command  string
	Duration time.Duration
}

func (p Pulse) run(e *Executor) {
	if err := e.ch.Send(p.Command); err != nil {
		// Logged and dropped: the next tick re-evaluates and re-issues.
		monitoring.Logf("drive: pulse start failed: %v", err)
	}
	e.clock.Sleep(p.Duration)
	if err := e.ch.Send(CmdStop); err != nil {
		monitoring.Logf("drive: pulse stop failed: %v", err)
	}
	e.clock.Sleep(stopSettle)
}

// Sequence triggers a board-side arm sequence and waits out its fixed
// completion window. No stop command is involved.
type Sequence struct {
	Command string
	Wait    time.Duration
}

func (s Sequence) run(e *Executor) {
	if err := e.ch.Send(s.Command); err != nil {
		monitoring.Logf("drive: sequence %q failed: %v", s.Command, err)
	}
	e.clock.Sleep(s.Wait)
}

// Pause is a plain wait with no command, used to settle after corrective
// pulses and to back off after an exhausted search.
type Pause struct {
	Duration time.Duration
}

func (p Pause) run(e *Executor) {
	e.clock.Sleep(p.Duration)
}

// Executor performs actions against a drive channel. It is the only
// component that blocks on the clock, keeping decision logic free of timing
// side effects.
type Executor struct {
	ch    *Channel
	clock timeutil.Clock
}

// NewExecutor creates an executor over a channel.
func NewExecutor(ch *Channel, clock timeutil.Clock) *Executor {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Executor{ch: ch, clock: clock}
}

// Run executes actions in order, blocking until all complete. Send failures
// inside an action are logged and skipped; the schedule always runs to the
// end so a lost start command cannot leave a stale stop pending.
func (e *Executor) Run(actions []Action) {
	for _, a := range actions {
		a.run(e)
	}
}
