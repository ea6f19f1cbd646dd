package task

import (
	"time"

	"github.com/illufluo/robot-v2/internal/config"
	"github.com/illufluo/robot-v2/internal/drive"
	"github.com/illufluo/robot-v2/internal/monitoring"
	"github.com/illufluo/robot-v2/internal/vision"
)

// Proportional turn duration: base plus error/gain, clamped. A larger
// alignment error earns a longer corrective pulse.
const (
	turnBaseSeconds = 0.1
	turnErrorGain   = 500.0
	turnMaxSeconds  = 0.5
)

// Tuning holds the controller's behavioral constants, resolved once at
// startup from config.
type Tuning struct {
	FrameCenterX      int
	DeadZonePx        int
	AlignTolerancePx  int
	ReferenceArea     float64
	MaxSearchAttempts int
	SearchPause       time.Duration
	StateTimeout      time.Duration
	SearchPulse       time.Duration
	SearchSettle      time.Duration
	ApproachPulse     time.Duration
	BackOffPulse      time.Duration
	AlignSettle       time.Duration
	GrabWait          time.Duration
	ReleaseWait       time.Duration
	TickInterval      time.Duration
	CaptureRetry      time.Duration
}

// TuningFromConfig resolves controller tuning from the config layer.
func TuningFromConfig(cfg *config.Tuning) Tuning {
	if cfg == nil {
		cfg = config.Default()
	}
	return Tuning{
		FrameCenterX:      cfg.GetFrameWidth() / 2,
		DeadZonePx:        cfg.GetCenterDeadZonePx(),
		AlignTolerancePx:  cfg.GetAlignTolerancePx(),
		ReferenceArea:     cfg.GetReferenceSheetArea(),
		MaxSearchAttempts: cfg.GetMaxSearchAttempts(),
		SearchPause:       cfg.GetSearchPause(),
		StateTimeout:      cfg.GetStateTimeout(),
		SearchPulse:       cfg.GetSearchPulse(),
		SearchSettle:      cfg.GetSearchPulse(),
		ApproachPulse:     cfg.GetApproachPulse(),
		BackOffPulse:      cfg.GetBackOffPulse(),
		AlignSettle:       cfg.GetAlignSettle(),
		GrabWait:          cfg.GetGrabWait(),
		ReleaseWait:       cfg.GetReleaseWait(),
		TickInterval:      cfg.GetTickInterval(),
		CaptureRetry:      cfg.GetCaptureRetry(),
	}
}

// Observation is the perception input for one tick: the detections relevant
// to the current state. Sheets are already filtered to the held block's
// color by the caller.
type Observation struct {
	Blocks []vision.DetectedObject
	Sheets []vision.DetectedObject
}

// Decide advances the session state by one tick and returns the actuator
// actions to perform. It is a pure function: no clock reads, no I/O.
//
// Evaluation order: operator signal, state timeout, then per-state logic.
func Decide(t Task, obs Observation, sig Signal, now time.Time, tn Tuning) (Task, []drive.Action) {
	// Reset is valid from any state and drops the held block's color.
	// Continue is only honored in Idle.
	switch sig {
	case SignalReset:
		t.HeldColor = ""
		return t.enter(FindBlock, now), nil
	case SignalContinue:
		if t.State == Idle {
			return t.enter(FindBlock, now), nil
		}
	}

	// Timeout forces a return to FindBlock regardless of the in-progress
	// sub-task. The held color is deliberately preserved: a grasped block
	// stays in the gripper, and the sheet search will resume once a block
	// is re-found. Idle never times out.
	if t.State != Idle && now.Sub(t.EnteredAt) > tn.StateTimeout {
		return t.enter(FindBlock, now), nil
	}

	switch t.State {
	case FindBlock:
		return decideFindBlock(t, obs.Blocks, now, tn)
	case GrabBlock:
		t = t.enter(AlignToSheet, now)
		return t, []drive.Action{drive.Sequence{Command: drive.CmdGrab, Wait: tn.GrabWait}}
	case AlignToSheet:
		return decideAlignToSheet(t, obs.Sheets, now, tn)
	case DropBlock:
		t.HeldColor = ""
		t.Completed++
		t = t.enter(Idle, now)
		return t, []drive.Action{drive.Sequence{Command: drive.CmdRelease, Wait: tn.ReleaseWait}}
	case Idle:
		return t, nil
	}
	return t, nil
}

// search handles an empty detection result: rotate to scan, and after the
// attempt bound is exceeded, pause and start over rather than give up.
func search(t Task, tn Tuning) (Task, []drive.Action) {
	t.SearchAttempts++
	if t.SearchAttempts > tn.MaxSearchAttempts {
		monitoring.Logf("nothing found in %s after %d search attempts, pausing before retry", t.State, tn.MaxSearchAttempts)
		t.SearchAttempts = 0
		return t, []drive.Action{drive.Pause{Duration: tn.SearchPause}}
	}
	return t, []drive.Action{
		drive.Pulse{Command: drive.CmdRotateClockwise, Duration: tn.SearchPulse},
		drive.Pause{Duration: tn.SearchSettle},
	}
}

func decideFindBlock(t Task, blocks []vision.DetectedObject, now time.Time, tn Tuning) (Task, []drive.Action) {
	if len(blocks) == 0 {
		return search(t, tn)
	}
	t.SearchAttempts = 0

	// Largest detection is the closest candidate.
	block := blocks[0]
	err, dir := vision.AlignmentError(block, tn.FrameCenterX, tn.DeadZonePx)

	if abs(err) > tn.AlignTolerancePx {
		return t, turnActions(dir, err, tn)
	}

	// Aligned: remember the color and hand off to the grab sequence.
	t.HeldColor = block.Color
	return t.enter(GrabBlock, now), nil
}

func decideAlignToSheet(t Task, sheets []vision.DetectedObject, now time.Time, tn Tuning) (Task, []drive.Action) {
	if len(sheets) == 0 {
		return search(t, tn)
	}
	t.SearchAttempts = 0

	sheet := sheets[0]
	err, dir := vision.AlignmentError(sheet, tn.FrameCenterX, tn.DeadZonePx)

	// Heading first, then distance. Only when both are satisfied in the
	// same tick is the sheet reachable for a drop.
	if abs(err) > tn.AlignTolerancePx {
		return t, turnActions(dir, err, tn)
	}

	switch vision.EstimateDistance(sheet, tn.ReferenceArea) {
	case vision.DistanceTooFar:
		return t, []drive.Action{
			drive.Pulse{Command: drive.CmdForward, Duration: tn.ApproachPulse},
			drive.Pause{Duration: tn.AlignSettle},
		}
	case vision.DistanceTooClose:
		return t, []drive.Action{
			drive.Pulse{Command: drive.CmdBackward, Duration: tn.BackOffPulse},
			drive.Pause{Duration: tn.AlignSettle},
		}
	}

	return t.enter(DropBlock, now), nil
}

// turnActions issues a proportional corrective turn toward the target.
func turnActions(dir vision.Direction, err int, tn Tuning) []drive.Action {
	var cmd string
	switch dir {
	case vision.Left:
		cmd = drive.CmdTurnLeft
	case vision.Right:
		cmd = drive.CmdTurnRight
	default:
		// The tolerance is wider than the dead zone, so a misaligned
		// object always carries a turn direction.
		return nil
	}
	return []drive.Action{
		drive.Pulse{Command: cmd, Duration: turnDuration(err)},
		drive.Pause{Duration: tn.AlignSettle},
	}
}

// turnDuration maps an alignment error to a corrective pulse length.
func turnDuration(err int) time.Duration {
	secs := turnBaseSeconds + float64(abs(err))/turnErrorGain
	if secs > turnMaxSeconds {
		secs = turnMaxSeconds
	}
	return time.Duration(secs * float64(time.Second))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
