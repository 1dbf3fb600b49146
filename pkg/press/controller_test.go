package press

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	channel int
	degrees float64
}

type channelSetup struct {
	minPulseUS     int
	maxPulseUS     int
	actuationRange int
}

// fakeDriver records every call so tests can assert exact write sequences.
type fakeDriver struct {
	writes     []write
	configured map[int]channelSetup
	released   []int

	failAt       int // 1-based SetAngle call index that fails; 0 = never
	setAngleCall int
	configureErr error
	releaseErr   error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{configured: make(map[int]channelSetup)}
}

func (f *fakeDriver) Configure(channel, minPulseUS, maxPulseUS, actuationRange int) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured[channel] = channelSetup{minPulseUS, maxPulseUS, actuationRange}
	return nil
}

func (f *fakeDriver) SetAngle(channel int, degrees float64) error {
	f.setAngleCall++
	if f.failAt != 0 && f.setAngleCall >= f.failAt {
		return fmt.Errorf("bus write failed on call %d", f.setAngleCall)
	}
	f.writes = append(f.writes, write{channel, degrees})
	return nil
}

func (f *fakeDriver) Release(channel int) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, channel)
	return nil
}

func (f *fakeDriver) Close() error { return nil }

func (f *fakeDriver) writesFor(channel int) []float64 {
	var out []float64
	for _, w := range f.writes {
		if w.channel == channel {
			out = append(out, w.degrees)
		}
	}
	return out
}

func (f *fakeDriver) reset() {
	f.writes = nil
	f.setAngleCall = 0
}

// newReady returns a homed controller at full speed with recorded init
// writes discarded.
func newReady(t *testing.T) (*Controller, *fakeDriver) {
	t.Helper()
	drv := newFakeDriver()
	cfg := DefaultConfig()
	cfg.SpeedPercent = 100
	c, err := New(drv, cfg, nil)
	require.NoError(t, err)
	drv.reset()
	return c, drv
}

func TestNewHomesDevice(t *testing.T) {
	drv := newFakeDriver()
	c, err := New(drv, DefaultConfig(), nil)
	require.NoError(t, err)

	// Startup jumps directly: neutral on both servos, actuator out.
	assert.Equal(t, []write{{0, 90}, {1, 90}, {2, 0}}, drv.writes)
	assert.Equal(t, DefaultSpeedPercent, c.Speed())

	want := channelSetup{DefaultPulseMinUS, DefaultPulseMaxUS, 180}
	for _, ch := range []int{0, 1, 2} {
		assert.Equal(t, want, drv.configured[ch], "channel %d", ch)
	}
}

func TestNewConfigureError(t *testing.T) {
	drv := newFakeDriver()
	drv.configureErr = errors.New("no board")
	_, err := New(drv, DefaultConfig(), nil)
	require.Error(t, err)
	assert.Empty(t, drv.writes)
}

func TestMirroredSweepSteps(t *testing.T) {
	c, drv := newReady(t)

	require.NoError(t, c.MoveTo(30))

	primary := drv.writesFor(0)
	secondary := drv.writesFor(1)
	require.Len(t, primary, 60)
	require.Len(t, secondary, 60)

	for i := range primary {
		// One degree closer to the target at every step, starting at 89.
		assert.Equal(t, float64(89-i), primary[i])
		// Mirror invariant holds at every intermediate step.
		assert.Equal(t, 180.0, primary[i]+secondary[i])
	}
	assert.Equal(t, 30.0, primary[len(primary)-1])
}

func TestMirrorInvariantAfterMove(t *testing.T) {
	c, drv := newReady(t)

	for _, target := range []int{0, 45, 120, 180, 90} {
		drv.reset()
		require.NoError(t, c.MoveTo(target))
		primary := drv.writesFor(0)
		secondary := drv.writesFor(1)
		require.NotEmpty(t, primary, "target %d", target)
		assert.Equal(t, float64(target), primary[len(primary)-1])
		assert.Equal(t, float64(180-target), secondary[len(secondary)-1])
	}
}

func TestMoveToIdempotent(t *testing.T) {
	c, drv := newReady(t)

	require.NoError(t, c.MoveTo(30))
	drv.reset()
	require.NoError(t, c.MoveTo(30))
	assert.Empty(t, drv.writes, "repeat move to the same angle must write nothing")
}

func TestMoveToClampsTarget(t *testing.T) {
	c1, d1 := newReady(t)
	c2, d2 := newReady(t)

	require.NoError(t, c1.MoveTo(500))
	require.NoError(t, c2.MoveTo(180))
	assert.Equal(t, d2.writes, d1.writes)

	d1.reset()
	d2.reset()
	require.NoError(t, c1.MoveTo(-10))
	require.NoError(t, c2.MoveTo(0))
	assert.Equal(t, d2.writes, d1.writes)
}

func TestPressUpEndToEnd(t *testing.T) {
	c, drv := newReady(t)

	hold := 100 * time.Millisecond
	start := time.Now()
	require.NoError(t, c.PressUp(hold))
	elapsed := time.Since(start)

	primary := drv.writesFor(0)
	secondary := drv.writesFor(1)
	require.Len(t, primary, 120, "60 steps down plus 60 steps back")
	require.Len(t, secondary, 120)

	// Sweep out: 89..30. Sweep back: 31..90. Mirrored throughout.
	for i := 0; i < 60; i++ {
		assert.Equal(t, float64(89-i), primary[i])
	}
	for i := 0; i < 60; i++ {
		assert.Equal(t, float64(31+i), primary[60+i])
	}
	for i := range primary {
		assert.Equal(t, 180.0, primary[i]+secondary[i])
	}

	// 120 one-degree steps at 1ms each, plus the hold.
	assert.GreaterOrEqual(t, elapsed, hold+120*time.Millisecond)
}

func TestPressReturnsToNeutral(t *testing.T) {
	c, drv := newReady(t)

	require.NoError(t, c.PressDown(0))
	primary := drv.writesFor(0)
	require.NotEmpty(t, primary)
	assert.Equal(t, 90.0, primary[len(primary)-1])
}

func TestMoveToPositionLeavesPair(t *testing.T) {
	c, drv := newReady(t)

	require.NoError(t, c.MoveToPosition(Grip))
	primary := drv.writesFor(0)
	assert.Equal(t, 120.0, primary[len(primary)-1])

	drv.reset()
	require.NoError(t, c.MoveToPosition(Open))
	primary = drv.writesFor(0)
	assert.Equal(t, 0.0, primary[len(primary)-1])
}

func TestWriteFailureKeepsTrackedPosition(t *testing.T) {
	c, drv := newReady(t)

	// Fail on the fifth write: ch0=89 ch1=91 ch0=88 ch1=92 then ch0=87 fails.
	drv.failAt = 5
	err := c.MoveTo(80)
	require.Error(t, err)
	require.Len(t, drv.writes, 4)

	// The controller must resume from the last fully mirrored step, not
	// from the target it never reached.
	drv.failAt = 0
	drv.reset()
	require.NoError(t, c.MoveTo(80))
	assert.Equal(t, write{0, 87}, drv.writes[0])
}

func TestPlateDirectAndSmooth(t *testing.T) {
	c, drv := newReady(t)

	// Direct move writes the target once.
	require.NoError(t, c.PlateIn(false))
	assert.Equal(t, []write{{2, 180}}, drv.writes)

	// Repeating it is a no-op.
	drv.reset()
	require.NoError(t, c.PlateIn(false))
	assert.Empty(t, drv.writes)

	// Smooth move walks one degree at a time.
	drv.reset()
	require.NoError(t, c.PlateOut(true))
	steps := drv.writesFor(2)
	require.Len(t, steps, 180)
	for i := range steps {
		assert.Equal(t, float64(179-i), steps[i])
	}
}

func TestSetSpeedClamps(t *testing.T) {
	c, _ := newReady(t)

	assert.Equal(t, 1, c.SetSpeed(0))
	assert.Equal(t, 1, c.SetSpeed(-10))
	assert.Equal(t, 100, c.SetSpeed(250))
	assert.Equal(t, 60, c.SetSpeed(60))
	assert.Equal(t, 60, c.Speed())
}

func TestShutdownParksAndReleases(t *testing.T) {
	c, drv := newReady(t)

	require.NoError(t, c.MoveTo(30))
	drv.reset()

	c.Shutdown()

	// Parked at neutral before pulses stop.
	primary := drv.writesFor(0)
	require.NotEmpty(t, primary)
	assert.Equal(t, 90.0, primary[len(primary)-1])
	assert.ElementsMatch(t, []int{0, 1, 2}, drv.released)

	// Released is terminal: no operation writes anything anymore.
	drv.reset()
	assert.ErrorIs(t, c.MoveTo(50), ErrReleased)
	assert.ErrorIs(t, c.PressUp(0), ErrReleased)
	assert.ErrorIs(t, c.PressNeutral(), ErrReleased)
	assert.ErrorIs(t, c.PlateIn(true), ErrReleased)
	assert.ErrorIs(t, c.PlateOut(false), ErrReleased)
	assert.Empty(t, drv.writes)

	// Idempotent: a second Shutdown does not release again.
	c.Shutdown()
	assert.Len(t, drv.released, 3)
}

func TestShutdownSwallowsReleaseErrors(t *testing.T) {
	c, drv := newReady(t)

	drv.releaseErr = errors.New("bus gone")
	c.Shutdown()

	assert.ErrorIs(t, c.MoveTo(50), ErrReleased)
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "neutral", Neutral.String())
	assert.Equal(t, "up", Up.String())
	assert.Equal(t, "down", Down.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "grip", Grip.String())
	assert.Equal(t, "closed", Closed.String())
}
