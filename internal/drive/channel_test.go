package drive

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illufluo/robot-v2/internal/monitoring"
	"github.com/illufluo/robot-v2/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestChannelSendFramesWithNewline(t *testing.T) {
	t.Parallel()

	port := NewTestablePort()
	ch := NewChannel(port, timeutil.NewMockClock(time.Now()))

	require.NoError(t, ch.Send(CmdForward))
	require.NoError(t, ch.Send(CmdGrab))

	assert.Equal(t, "A\ngo\n", port.WriteBuffer.String())
	assert.Equal(t, []string{"A", "go"}, port.Commands())
}

func TestChannelSendWrapsWriteErrors(t *testing.T) {
	t.Parallel()

	port := NewTestablePort()
	port.WriteError = errors.New("device unplugged")
	ch := NewChannel(port, timeutil.NewMockClock(time.Now()))

	err := ch.Send(CmdForward)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.Contains(t, err.Error(), "device unplugged")
	assert.Contains(t, err.Error(), `"A"`)

	// Injected error is one-shot; the channel itself holds no failure state.
	require.NoError(t, ch.Send(CmdForward))
}

func TestChannelWaitReadyCoversBootSettle(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	ch := NewChannel(NewTestablePort(), clock)

	ch.WaitReady()

	assert.Equal(t, []time.Duration{2 * time.Second}, clock.Sleeps())
}

func TestChannelSetSpeed(t *testing.T) {
	t.Parallel()

	port := NewTestablePort()
	ch := NewChannel(port, timeutil.NewMockClock(time.Now()))

	require.NoError(t, ch.SetSpeed("80"))

	// Unknown tiers go through anyway: the board ignores what it does not
	// recognize, and a warning beats a dead robot.
	require.NoError(t, ch.SetSpeed("55"))

	assert.Equal(t, []string{"80", "55"}, port.Commands())
}

func TestChannelCloseStopsFirst(t *testing.T) {
	t.Parallel()

	port := NewTestablePort()
	ch := NewChannel(port, timeutil.NewMockClock(time.Now()))

	require.NoError(t, ch.Close())

	assert.Equal(t, []string{CmdStop}, port.Commands())
	assert.True(t, port.Closed)
}

func TestChannelCloseSurvivesFailedStop(t *testing.T) {
	t.Parallel()

	port := NewTestablePort()
	port.WriteError = errors.New("gone")
	ch := NewChannel(port, timeutil.NewMockClock(time.Now()))

	require.NoError(t, ch.Close())
	assert.True(t, port.Closed, "port must close even when the stop command fails")
}

func TestIsSpeedTier(t *testing.T) {
	t.Parallel()

	for _, tier := range SpeedTiers {
		assert.True(t, IsSpeedTier(tier), tier)
	}
	assert.False(t, IsSpeedTier("100"))
	assert.False(t, IsSpeedTier(""))
}

func TestPortOptionsNormalize(t *testing.T) {
	t.Parallel()

	t.Run("zero value gets board defaults", func(t *testing.T) {
		opts, err := PortOptions{}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, PortOptions{BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "N"}, opts)
	})

	t.Run("parity words are canonicalized", func(t *testing.T) {
		opts, err := PortOptions{Parity: "even"}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, "E", opts.Parity)
	})

	t.Run("rejects bad data bits", func(t *testing.T) {
		_, err := PortOptions{DataBits: 9}.Normalize()
		assert.Error(t, err)
	})

	t.Run("rejects bad stop bits", func(t *testing.T) {
		_, err := PortOptions{StopBits: 3}.Normalize()
		assert.Error(t, err)
	})

	t.Run("rejects unknown parity", func(t *testing.T) {
		_, err := PortOptions{Parity: "M"}.Normalize()
		assert.Error(t, err)
	})
}

func TestPortOptionsSerialMode(t *testing.T) {
	t.Parallel()

	mode, err := PortOptions{BaudRate: 9600, Parity: "odd", StopBits: 2}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, 9600, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
}
