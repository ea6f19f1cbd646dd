// Package task implements the robot's finite-state controller.
//
// The per-tick decision logic is a pure function from (session state,
// observation, operator signal, time) to (next session state, actuator
// actions). The Controller wires it to a Perceiver and a drive Executor and
// owns nothing else, so every transition is unit-testable without hardware.
package task

// State is the robot's operational state.
type State int

const (
	// FindBlock scans for a colored block and aligns to the largest one.
	FindBlock State = iota
	// GrabBlock runs the open-loop arm grab sequence.
	GrabBlock
	// AlignToSheet aligns to the target sheet matching the held block's
	// color, correcting heading then distance.
	AlignToSheet
	// DropBlock releases the held block onto the sheet.
	DropBlock
	// Idle waits for the operator to continue or reset.
	Idle
)

func (s State) String() string {
	switch s {
	case FindBlock:
		return "FIND_BLOCK"
	case GrabBlock:
		return "GRAB_BLOCK"
	case AlignToSheet:
		return "ALIGN_TO_TARGET_SHEET"
	case DropBlock:
		return "DROP_BLOCK"
	case Idle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// NeedsVision reports whether the state consumes detections each tick.
func (s State) NeedsVision() bool {
	return s == FindBlock || s == AlignToSheet
}

// Signal is an operator input observed between ticks.
type Signal int

const (
	// SignalNone means no operator input this tick.
	SignalNone Signal = iota
	// SignalContinue resumes from Idle; ignored in any other state.
	SignalContinue
	// SignalReset forces a return to FindBlock from any state, dropping
	// knowledge of any held block.
	SignalReset
	// SignalQuit ends the control loop. Observed between ticks only; a
	// pulse in progress cannot be interrupted.
	SignalQuit
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalContinue:
		return "continue"
	case SignalReset:
		return "reset"
	case SignalQuit:
		return "quit"
	default:
		return "unknown"
	}
}
