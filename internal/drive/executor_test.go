package drive

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illufluo/robot-v2/internal/timeutil"
)

func newTestExecutor() (*Executor, *TestablePort, *timeutil.MockClock) {
	port := NewTestablePort()
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewExecutor(NewChannel(port, clock), clock), port, clock
}

func TestPulseStartSleepStopSettle(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()

	exec.Run([]Action{Pulse{Command: CmdForward, Duration: 500 * time.Millisecond}})

	assert.Equal(t, []string{CmdForward, CmdStop}, port.Commands())
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		100 * time.Millisecond, // stop settle
	}, clock.Sleeps())
}

func TestSequenceSendsOnceAndWaits(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()

	exec.Run([]Action{Sequence{Command: CmdGrab, Wait: 4 * time.Second}})

	// Board-side sequence: no stop command follows.
	assert.Equal(t, []string{CmdGrab}, port.Commands())
	assert.Equal(t, []time.Duration{4 * time.Second}, clock.Sleeps())
}

func TestPauseOnlySleeps(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()

	exec.Run([]Action{Pause{Duration: 2 * time.Second}})

	assert.Empty(t, port.Commands())
	assert.Equal(t, []time.Duration{2 * time.Second}, clock.Sleeps())
}

func TestRunExecutesScheduleInOrder(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()

	exec.Run([]Action{
		Pulse{Command: CmdRotateClockwise, Duration: 300 * time.Millisecond},
		Pause{Duration: 300 * time.Millisecond},
	})

	assert.Equal(t, []string{CmdRotateClockwise, CmdStop}, port.Commands())
	require.Len(t, clock.Sleeps(), 3)
	assert.Equal(t, 300*time.Millisecond, clock.Sleeps()[2])
}

func TestPulseStartFailureStillStops(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()
	port.WriteError = errors.New("write failed")

	exec.Run([]Action{Pulse{Command: CmdForward, Duration: 500 * time.Millisecond}})

	// The start command was lost but the schedule ran to the end: the stop
	// still goes out so a later successful start cannot run unbounded.
	assert.Equal(t, []string{CmdStop}, port.Commands())
	assert.Len(t, clock.Sleeps(), 2)
}

func TestSequenceSendFailureStillWaits(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()
	port.WriteError = errors.New("write failed")

	exec.Run([]Action{Sequence{Command: CmdRelease, Wait: 1500 * time.Millisecond}})

	assert.Empty(t, port.Commands())
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, clock.Sleeps())
}

func TestRunEmptySchedule(t *testing.T) {
	t.Parallel()

	exec, port, clock := newTestExecutor()

	exec.Run(nil)

	assert.Empty(t, port.Commands())
	assert.Empty(t, clock.Sleeps())
}
