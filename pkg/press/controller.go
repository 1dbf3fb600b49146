// Package press implements the motion controller for the PP96 pressure
// processor: two mirror-mounted servos pressing a three-position rocker as
// one synchronized pair, and a linear actuator moving the well plate.
//
// The driver hardware has no position read-back, so the controller tracks
// the last commanded angle of each actuator itself and walks moves one
// degree at a time to shape speed.
package press

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/filterwell/pp96/pkg/pwm"
)

// ErrReleased is returned by move operations after Shutdown.
var ErrReleased = errors.New("press: controller released")

// Position is a named target for the mirrored servo pair.
type Position int

const (
	Neutral Position = iota
	Up
	Down
	Open
	Grip
	Closed
)

func (p Position) String() string {
	switch p {
	case Neutral:
		return "neutral"
	case Up:
		return "up"
	case Down:
		return "down"
	case Open:
		return "open"
	case Grip:
		return "grip"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// State is a snapshot of the commanded angles, published after every
// successful write.
type State struct {
	Primary   int
	Secondary int
	Actuator  int
	Timestamp time.Time
}

// Controller owns the speed setting and the last-known angle of each
// actuator, and runs the mirrored and single-actuator move algorithms.
// Moves are sequential and blocking: exactly one runs at a time, driven by
// whoever called it.
type Controller struct {
	drv pwm.Driver
	cfg Config
	log *zap.SugaredLogger

	speed int

	// Last commanded angles. The hardware cannot be queried, so these are
	// authoritative; Known is false only before the first write.
	primary       int
	primaryKnown  bool
	actuator      int
	actuatorKnown bool

	released bool

	stateCh chan State
}

// New configures every channel and drives the device to its resting
// configuration: mirrored pair at neutral, actuator at the out position.
// Both are direct jumps so startup does not sweep. A nil log disables
// logging.
func New(drv pwm.Driver, cfg Config, log *zap.SugaredLogger) (*Controller, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.SpeedPercent == 0 {
		cfg.SpeedPercent = DefaultSpeedPercent
	}

	c := &Controller{
		drv:     drv,
		cfg:     cfg,
		log:     log,
		speed:   clampSpeed(cfg.SpeedPercent),
		stateCh: make(chan State, 1),
	}

	for _, ch := range c.channels() {
		if err := drv.Configure(ch, cfg.PulseMinUS, cfg.PulseMaxUS, actuationRange); err != nil {
			return nil, fmt.Errorf("configure channel %d: %w", ch, err)
		}
	}

	if err := c.moveMirrored(cfg.NeutralAngle); err != nil {
		return nil, fmt.Errorf("home servos: %w", err)
	}
	if err := c.moveActuator(cfg.ActuatorOutAngle, false); err != nil {
		return nil, fmt.Errorf("home actuator: %w", err)
	}

	log.Infow("controller ready",
		"neutral", cfg.NeutralAngle,
		"actuator_out", cfg.ActuatorOutAngle,
		"speed", c.speed,
	)
	return c, nil
}

// States returns a channel receiving an angle snapshot after every write.
// Sends never block; stale snapshots are dropped when the consumer lags.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Speed returns the current speed percentage.
func (c *Controller) Speed() int {
	return c.speed
}

// SetSpeed sets the speed percentage for subsequent moves on any actuator,
// clamped to [1,100]. It returns the applied value. A sweep already in
// progress keeps the delay it started with.
func (c *Controller) SetSpeed(percent int) int {
	c.speed = clampSpeed(percent)
	c.log.Debugw("speed set", "percent", c.speed)
	return c.speed
}

// Angle returns the angle a named position resolves to for the primary
// servo.
func (c *Controller) Angle(pos Position) int {
	switch pos {
	case Up:
		return c.cfg.UpAngle
	case Down:
		return c.cfg.DownAngle
	case Open:
		return c.cfg.OpenAngle
	case Grip:
		return c.cfg.GripAngle
	case Closed:
		return c.cfg.ClosedAngle
	}
	return c.cfg.NeutralAngle
}

// Press moves the mirrored pair to a named position, holds it for hold with
// no further writes, then returns to neutral. This models a momentary
// rocker press: the button must be released again after each activation.
func (c *Controller) Press(pos Position, hold time.Duration) error {
	if c.released {
		return ErrReleased
	}
	c.log.Infow("press", "position", pos.String(), "hold", hold)
	if err := c.moveMirrored(c.Angle(pos)); err != nil {
		return err
	}
	time.Sleep(hold)
	return c.moveMirrored(c.cfg.NeutralAngle)
}

// PressUp presses the UP rocker button and returns to neutral.
func (c *Controller) PressUp(hold time.Duration) error {
	return c.Press(Up, hold)
}

// PressDown presses the DOWN rocker button and returns to neutral.
func (c *Controller) PressDown(hold time.Duration) error {
	return c.Press(Down, hold)
}

// PressNeutral moves the pair to neutral with no hold or return.
func (c *Controller) PressNeutral() error {
	return c.MoveTo(c.cfg.NeutralAngle)
}

// MoveToPosition drives the mirrored pair to a named position and leaves it
// there.
func (c *Controller) MoveToPosition(pos Position) error {
	return c.MoveTo(c.Angle(pos))
}

// MoveTo drives the mirrored pair to the given primary angle, one degree at
// a time. The target is clamped to [0,180].
func (c *Controller) MoveTo(angle int) error {
	if c.released {
		return ErrReleased
	}
	return c.moveMirrored(angle)
}

// PlateIn moves the plate under the press.
func (c *Controller) PlateIn(smooth bool) error {
	if c.released {
		return ErrReleased
	}
	c.log.Infow("plate in", "smooth", smooth)
	return c.moveActuator(c.cfg.ActuatorInAngle, smooth)
}

// PlateOut retracts the plate from the press. This is the resting position.
func (c *Controller) PlateOut(smooth bool) error {
	if c.released {
		return ErrReleased
	}
	c.log.Infow("plate out", "smooth", smooth)
	return c.moveActuator(c.cfg.ActuatorOutAngle, smooth)
}

// Shutdown returns the device to its resting configuration, pauses for the
// motion to finish, and detaches the drive signal from every channel. It is
// idempotent, never fails, and leaves the controller unusable: any later
// move returns ErrReleased. Detach failures are logged and swallowed since
// the process is exiting anyway.
func (c *Controller) Shutdown() {
	if c.released {
		return
	}
	c.log.Infow("shutting down")

	if err := c.moveMirrored(c.cfg.NeutralAngle); err != nil {
		c.log.Warnw("park servos", "err", err)
	}
	if err := c.moveActuator(c.cfg.ActuatorOutAngle, true); err != nil {
		c.log.Warnw("park actuator", "err", err)
	}
	time.Sleep(settleDelay)

	for _, ch := range c.channels() {
		if err := c.drv.Release(ch); err != nil {
			c.log.Warnw("release channel", "channel", ch, "err", err)
		}
	}
	c.released = true
	c.log.Infow("released")
}

// settleDelay lets the final mechanical motion finish before pulses stop.
const settleDelay = 200 * time.Millisecond

func (c *Controller) channels() []int {
	return []int{c.cfg.Servo1Channel, c.cfg.Servo2Channel, c.cfg.ActuatorChannel}
}

// moveMirrored walks the primary angle to target one degree at a time,
// writing both channels at every step so the pair stays mirrored at every
// intermediate position, not just the final one. With no tracked position
// yet it jumps directly. The per-degree delay is read once per call.
func (c *Controller) moveMirrored(target int) error {
	target = clampAngle(target)
	if !c.primaryKnown {
		return c.writeMirrored(target)
	}
	if target == c.primary {
		return nil
	}

	step := 1
	if target < c.primary {
		step = -1
	}
	delay := StepDelay(c.speed)

	for a := c.primary; a != target; {
		a += step
		if err := c.writeMirrored(a); err != nil {
			return err
		}
		time.Sleep(delay)
	}
	return nil
}

// moveActuator is the single-channel version of moveMirrored. With smooth
// false it writes the target once, which is used at startup to avoid a slow
// boot sweep.
func (c *Controller) moveActuator(target int, smooth bool) error {
	target = clampAngle(target)
	if !c.actuatorKnown || !smooth {
		if c.actuatorKnown && target == c.actuator {
			return nil
		}
		return c.writeActuator(target)
	}
	if target == c.actuator {
		return nil
	}

	step := 1
	if target < c.actuator {
		step = -1
	}
	delay := StepDelay(c.speed)

	for a := c.actuator; a != target; {
		a += step
		if err := c.writeActuator(a); err != nil {
			return err
		}
		time.Sleep(delay)
	}
	return nil
}

// writeMirrored writes primary and the mirrored secondary angle. The
// tracked position is updated only after both writes succeed, so a failed
// move never claims progress it did not make.
func (c *Controller) writeMirrored(angle int) error {
	if err := c.drv.SetAngle(c.cfg.Servo1Channel, float64(angle)); err != nil {
		return fmt.Errorf("servo 1 to %d: %w", angle, err)
	}
	mirror := actuationRange - angle
	if err := c.drv.SetAngle(c.cfg.Servo2Channel, float64(mirror)); err != nil {
		return fmt.Errorf("servo 2 to %d: %w", mirror, err)
	}
	c.primary = angle
	c.primaryKnown = true
	c.publish()
	return nil
}

func (c *Controller) writeActuator(angle int) error {
	if err := c.drv.SetAngle(c.cfg.ActuatorChannel, float64(angle)); err != nil {
		return fmt.Errorf("actuator to %d: %w", angle, err)
	}
	c.actuator = angle
	c.actuatorKnown = true
	c.publish()
	return nil
}

// publish pushes the current snapshot without blocking, replacing a stale
// one if the consumer has not caught up.
func (c *Controller) publish() {
	s := State{
		Primary:   c.primary,
		Secondary: actuationRange - c.primary,
		Actuator:  c.actuator,
		Timestamp: time.Now(),
	}
	select {
	case c.stateCh <- s:
	default:
		select {
		case <-c.stateCh:
		default:
		}
		select {
		case c.stateCh <- s:
		default:
		}
	}
}

func clampAngle(angle int) int {
	if angle < 0 {
		return 0
	}
	if angle > actuationRange {
		return actuationRange
	}
	return angle
}
