package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockNowAndSet(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	assert.Equal(t, start, clock.Now())

	later := start.Add(time.Hour)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestMockClockAdvance(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), clock.Now())
	assert.Equal(t, 90*time.Second, clock.Since(start))
}

func TestMockClockSleepRecordsAndAdvances(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Sleep(500 * time.Millisecond)
	clock.Sleep(100 * time.Millisecond)

	assert.Equal(t, []time.Duration{500 * time.Millisecond, 100 * time.Millisecond}, clock.Sleeps())
	assert.Equal(t, start.Add(600*time.Millisecond), clock.Now())

	clock.ResetSleeps()
	assert.Empty(t, clock.Sleeps())
}

func TestRealClockBasics(t *testing.T) {
	t.Parallel()

	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	assert.False(t, now.Before(before))
	assert.GreaterOrEqual(t, clock.Since(before), time.Duration(0))
}
