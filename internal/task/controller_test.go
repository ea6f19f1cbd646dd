package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illufluo/robot-v2/internal/drive"
	"github.com/illufluo/robot-v2/internal/timeutil"
	"github.com/illufluo/robot-v2/internal/vision"
)

// fakeEyes is a canned Perceiver: fixed detections, optional capture failure,
// and a record of the color filters requested for sheets.
type fakeEyes struct {
	blocks    []vision.DetectedObject
	sheets    []vision.DetectedObject
	fail      bool
	sheetAsks [][]string
}

func (f *fakeEyes) Blocks() ([]vision.DetectedObject, bool) {
	if f.fail {
		return nil, false
	}
	return f.blocks, true
}

func (f *fakeEyes) Sheets(colors ...string) ([]vision.DetectedObject, bool) {
	f.sheetAsks = append(f.sheetAsks, colors)
	if f.fail {
		return nil, false
	}
	return f.sheets, true
}

type transition struct {
	from, to string
}

type fakeJournal struct {
	transitions []transition
	placements  []string
	err         error
}

func (f *fakeJournal) RecordTransition(from, to string, at time.Time) error {
	f.transitions = append(f.transitions, transition{from, to})
	return f.err
}

func (f *fakeJournal) RecordPlacement(color string, completed int, at time.Time) error {
	f.placements = append(f.placements, color)
	return f.err
}

func newTestController(eyes Perceiver, journal Recorder) (*Controller, *drive.TestablePort, *timeutil.MockClock) {
	clock := timeutil.NewMockClock(t0)
	port := drive.NewTestablePort()
	exec := drive.NewExecutor(drive.NewChannel(port, clock), clock)
	return NewController(eyes, exec, clock, testTuning(), journal), port, clock
}

func TestTickFullCycleDrivesWireAndJournal(t *testing.T) {
	t.Parallel()

	eyes := &fakeEyes{
		blocks: []vision.DetectedObject{blockAt("red", 320, 2000)},
		sheets: []vision.DetectedObject{blockAt("red", 320, 20000)},
	}
	journal := &fakeJournal{}
	ctrl, port, _ := newTestController(eyes, journal)

	// Centered block: transition only, nothing on the wire.
	require.True(t, ctrl.Tick(SignalNone))
	assert.Equal(t, GrabBlock, ctrl.Task().State)
	assert.Empty(t, port.Commands())

	// Grab: one arm sequence.
	require.True(t, ctrl.Tick(SignalNone))
	assert.Equal(t, AlignToSheet, ctrl.Task().State)
	assert.Equal(t, []string{drive.CmdGrab}, port.Commands())

	// In-range sheet of the held color.
	require.True(t, ctrl.Tick(SignalNone))
	assert.Equal(t, DropBlock, ctrl.Task().State)
	require.Len(t, eyes.sheetAsks, 1)
	assert.Equal(t, []string{"red"}, eyes.sheetAsks[0])

	// Drop: release sequence, placement journaled, idle.
	require.True(t, ctrl.Tick(SignalNone))
	assert.Equal(t, Idle, ctrl.Task().State)
	assert.Equal(t, []string{drive.CmdGrab, drive.CmdRelease}, port.Commands())
	assert.Equal(t, 1, ctrl.Task().Completed)

	assert.Equal(t, []transition{
		{"FIND_BLOCK", "GRAB_BLOCK"},
		{"GRAB_BLOCK", "ALIGN_TO_TARGET_SHEET"},
		{"ALIGN_TO_TARGET_SHEET", "DROP_BLOCK"},
		{"DROP_BLOCK", "IDLE"},
	}, journal.transitions)
	assert.Equal(t, []string{"red"}, journal.placements)
}

func TestTickExecutesTurnPulseSchedule(t *testing.T) {
	t.Parallel()

	// Block well off to the right: err=280 earns the clamped 0.5s turn.
	eyes := &fakeEyes{blocks: []vision.DetectedObject{blockAt("red", 600, 2000)}}
	ctrl, port, clock := newTestController(eyes, nil)

	require.True(t, ctrl.Tick(SignalNone))

	assert.Equal(t, []string{drive.CmdTurnRight, drive.CmdStop}, port.Commands())
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond, // turn pulse
		100 * time.Millisecond, // stop settle
		200 * time.Millisecond, // align settle
	}, clock.Sleeps())
}

func TestTickCaptureFailureBacksOff(t *testing.T) {
	t.Parallel()

	eyes := &fakeEyes{fail: true}
	ctrl, port, clock := newTestController(eyes, nil)

	assert.False(t, ctrl.Tick(SignalNone))
	assert.Equal(t, FindBlock, ctrl.Task().State)
	assert.Equal(t, 0, ctrl.Task().SearchAttempts, "a failed capture is not a failed search")
	assert.Empty(t, port.Commands())
	assert.Equal(t, []time.Duration{testTuning().CaptureRetry}, clock.Sleeps())
}

func TestTickIdleSkipsCapture(t *testing.T) {
	t.Parallel()

	// A failing camera must not block an idle robot: Idle needs no vision.
	eyes := &fakeEyes{fail: true}
	ctrl, _, _ := newTestController(eyes, nil)
	ctrl.task = ctrl.task.enter(Idle, t0)

	assert.True(t, ctrl.Tick(SignalNone))
	assert.Equal(t, Idle, ctrl.Task().State)
}

func TestTickJournalErrorDoesNotStall(t *testing.T) {
	t.Parallel()

	eyes := &fakeEyes{blocks: []vision.DetectedObject{blockAt("red", 320, 2000)}}
	journal := &fakeJournal{err: assert.AnError}
	ctrl, _, _ := newTestController(eyes, journal)

	require.True(t, ctrl.Tick(SignalNone))
	assert.Equal(t, GrabBlock, ctrl.Task().State)
}

func TestRunStopsOnQuitSignal(t *testing.T) {
	t.Parallel()

	eyes := &fakeEyes{}
	ctrl, _, _ := newTestController(eyes, nil)

	signals := make(chan Signal, 1)
	signals <- SignalQuit

	done := make(chan struct{})
	go func() {
		ctrl.Run(signals)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on quit signal")
	}
}

func TestRunStopsOnClosedChannel(t *testing.T) {
	t.Parallel()

	eyes := &fakeEyes{}
	ctrl, _, _ := newTestController(eyes, nil)

	signals := make(chan Signal)
	close(signals)

	done := make(chan struct{})
	go func() {
		ctrl.Run(signals)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on closed channel")
	}
}
