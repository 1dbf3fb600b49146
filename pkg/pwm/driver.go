// Package pwm provides the PWM channel drivers behind the PP96 actuators:
// a live PCA9685 board on I2C, and a dry-run driver for machines without
// hardware.
package pwm

import "errors"

// ErrNoI2C is returned by NewPCA9685 when no usable I2C bus is present.
// Callers check it with errors.Is to fall back to dry-run mode.
var ErrNoI2C = errors.New("pwm: no i2c bus available")

// Driver positions servo-style loads on numbered PWM channels. Channels must
// be configured before the first SetAngle.
type Driver interface {
	// Configure sets a channel's pulse width range in microseconds and its
	// actuation range in degrees.
	Configure(channel, minPulseUS, maxPulseUS, actuationRange int) error

	// SetAngle drives a channel to an angle in degrees. Angles outside the
	// actuation range are clamped.
	SetAngle(channel int, degrees float64) error

	// Release stops driving a channel. The attached servo holds its last
	// mechanical position passively.
	Release(channel int) error

	// Close releases the underlying bus.
	Close() error
}
