// Package drive sends motion and arm commands to the robot's drive board
// over a byte-oriented serial link.
//
// The board consumes single-token commands terminated by a newline. Motion
// commands latch until a stop is sent, so every movement is issued as a
// pulse: start command, timed wait, stop command. The grab and release arm
// sequences run entirely on the board; the host only waits out their fixed
// completion windows.
package drive

// Command tokens understood by the drive board. Case-sensitive.
const (
	CmdForward          = "A"   // drive forward
	CmdBackward         = "B"   // drive backward
	CmdTurnLeft         = "L"   // turn left
	CmdTurnRight        = "R"   // turn right
	CmdRotateClockwise  = "rC"  // rotate in place, clockwise
	CmdRotateCounterCW  = "rA"  // rotate in place, counter-clockwise
	CmdStop             = "S"   // stop all movement
	CmdGrab             = "go"  // arm sequence: approach, clamp, lift
	CmdRelease          = "rel" // arm sequence: open gripper
)

// SpeedTiers are the motor speed settings the board accepts. The tier is
// sent as its own command token.
var SpeedTiers = []string{"30", "50", "80"}

// IsSpeedTier reports whether s is a known speed tier token.
func IsSpeedTier(s string) bool {
	for _, tier := range SpeedTiers {
		if s == tier {
			return true
		}
	}
	return false
}
