package drive

import (
	"fmt"
	"sync"
	"time"

	"github.com/illufluo/robot-v2/internal/monitoring"
	"github.com/illufluo/robot-v2/internal/timeutil"
)

// ErrWriteFailed wraps serial write errors from Send.
var ErrWriteFailed = fmt.Errorf("failed to write to serial port")

// bootSettle is how long the drive board takes to reset after the serial
// port opens. Commands sent earlier than this are lost.
const bootSettle = 2 * time.Second

// Channel serializes command writes to the drive board. At most one command
// is in flight at any time; the control loop is single-threaded but the
// mutex keeps the invariant even if a debug tool shares the channel.
type Channel struct {
	port  Porter
	clock timeutil.Clock
	mu    sync.Mutex
}

// NewChannel wraps an open port. The clock is used only for the boot settle
// in WaitReady; pass timeutil.RealClock{} outside tests.
func NewChannel(port Porter, clock timeutil.Clock) *Channel {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Channel{port: port, clock: clock}
}

// WaitReady blocks until the drive board has finished its post-open reset.
// Call once after opening the port, before the first command.
func (c *Channel) WaitReady() {
	c.clock.Sleep(bootSettle)
}

// Send writes a single command token, newline terminated, to the board.
// A failed send is logged by callers and not retried: the next control tick
// re-evaluates state and issues an equivalent command.
func (c *Channel) Send(command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.port.Write([]byte(command + "\n")); err != nil {
		return fmt.Errorf("%w: command %q: %v", ErrWriteFailed, command, err)
	}
	return nil
}

// SetSpeed sends a motor speed tier. Unknown tiers are sent anyway with a
// warning, matching the board's permissive firmware.
func (c *Channel) SetSpeed(tier string) error {
	if !IsSpeedTier(tier) {
		monitoring.Logf("drive: speed tier %q not in %v, sending anyway", tier, SpeedTiers)
	}
	return c.Send(tier)
}

// Close stops the robot and closes the underlying port.
func (c *Channel) Close() error {
	if err := c.Send(CmdStop); err != nil {
		monitoring.Logf("drive: stop on close failed: %v", err)
	}
	return c.port.Close()
}
