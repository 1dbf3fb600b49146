package pwm

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddr is the PCA9685 I2C address with all address jumpers open.
const DefaultAddr = 0x40

// PCA9685 register map (subset).
const (
	regMode1    = 0x00
	regLED0OnL  = 0x06 // each channel has 4 registers: ON_L ON_H OFF_L OFF_H
	regPrescale = 0xFE

	mode1Sleep   = 0x10
	mode1AutoInc = 0x20
	mode1Restart = 0x80

	// Bit 4 of LEDn_OFF_H forces the channel fully off (no pulse driven).
	ledFullOff = 0x10
)

const (
	oscillatorHz = 25_000_000
	counterTicks = 4096
	refreshHz    = 50 // standard analog servo refresh
	periodUS     = 1_000_000 / refreshHz
	numChannels  = 16
)

type channelConfig struct {
	minPulseUS     int
	maxPulseUS     int
	actuationRange int
}

// PCA9685 drives servo channels on a PCA9685 board over I2C.
type PCA9685 struct {
	bus     i2c.BusCloser
	dev     i2c.Dev
	configs map[int]channelConfig
}

// NewPCA9685 opens the named I2C bus (empty string for the first available)
// and initializes the board for 50 Hz servo output. When the host has no
// I2C bus the returned error wraps ErrNoI2C so callers can choose dry-run
// mode instead.
func NewPCA9685(busName string, addr uint16) (*PCA9685, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: init host: %v", ErrNoI2C, err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("%w: open bus %q: %v", ErrNoI2C, busName, err)
	}

	p := &PCA9685{
		bus:     bus,
		dev:     i2c.Dev{Bus: bus, Addr: addr},
		configs: make(map[int]channelConfig),
	}
	if err := p.reset(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("reset pca9685 at %#x: %w", addr, err)
	}
	return p, nil
}

// reset programs the prescaler for the servo refresh rate. The prescaler is
// writable only while the oscillator sleeps.
func (p *PCA9685) reset() error {
	prescale := byte(oscillatorHz/(counterTicks*refreshHz) - 1)

	if err := p.writeReg(regMode1, mode1AutoInc|mode1Sleep); err != nil {
		return err
	}
	if err := p.writeReg(regPrescale, prescale); err != nil {
		return err
	}
	if err := p.writeReg(regMode1, mode1AutoInc); err != nil {
		return err
	}
	// Oscillator startup takes at most 500us per the datasheet.
	time.Sleep(time.Millisecond)
	return p.writeReg(regMode1, mode1AutoInc|mode1Restart)
}

// Configure implements Driver.
func (p *PCA9685) Configure(channel, minPulseUS, maxPulseUS, actuationRange int) error {
	if channel < 0 || channel >= numChannels {
		return fmt.Errorf("channel %d out of range [0,%d)", channel, numChannels)
	}
	if minPulseUS <= 0 || maxPulseUS <= minPulseUS {
		return fmt.Errorf("invalid pulse range %d..%dus", minPulseUS, maxPulseUS)
	}
	if actuationRange <= 0 {
		return fmt.Errorf("invalid actuation range %d", actuationRange)
	}
	p.configs[channel] = channelConfig{
		minPulseUS:     minPulseUS,
		maxPulseUS:     maxPulseUS,
		actuationRange: actuationRange,
	}
	return nil
}

// SetAngle implements Driver.
func (p *PCA9685) SetAngle(channel int, degrees float64) error {
	cfg, ok := p.configs[channel]
	if !ok {
		return fmt.Errorf("channel %d not configured", channel)
	}
	off := offTicks(degrees, cfg)
	buf := []byte{
		regLED0OnL + byte(4*channel),
		0x00, 0x00, // pulse starts at tick 0
		byte(off & 0xFF), byte(off >> 8),
	}
	if err := p.dev.Tx(buf, nil); err != nil {
		return fmt.Errorf("set channel %d angle %.0f: %w", channel, degrees, err)
	}
	return nil
}

// Release implements Driver. It sets the full-off bit so no pulse is driven
// and the servo goes limp.
func (p *PCA9685) Release(channel int) error {
	if channel < 0 || channel >= numChannels {
		return fmt.Errorf("channel %d out of range [0,%d)", channel, numChannels)
	}
	buf := []byte{
		regLED0OnL + byte(4*channel),
		0x00, 0x00, 0x00, ledFullOff,
	}
	if err := p.dev.Tx(buf, nil); err != nil {
		return fmt.Errorf("release channel %d: %w", channel, err)
	}
	return nil
}

// Close implements Driver.
func (p *PCA9685) Close() error {
	return p.bus.Close()
}

func (p *PCA9685) writeReg(reg, val byte) error {
	return p.dev.Tx([]byte{reg, val}, nil)
}

// offTicks converts an angle into the counter tick at which the pulse ends.
// The angle is clamped to the channel's actuation range.
func offTicks(degrees float64, cfg channelConfig) uint16 {
	if degrees < 0 {
		degrees = 0
	}
	if degrees > float64(cfg.actuationRange) {
		degrees = float64(cfg.actuationRange)
	}
	pulseUS := float64(cfg.minPulseUS) +
		degrees/float64(cfg.actuationRange)*float64(cfg.maxPulseUS-cfg.minPulseUS)
	ticks := pulseUS*counterTicks/periodUS + 0.5
	return uint16(ticks)
}
