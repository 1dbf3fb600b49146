package pwm

import "go.uber.org/zap"

// DryRun is a Driver that touches no hardware and logs every call. The CLI
// uses it when no I2C bus is present or when --dry-run is given.
type DryRun struct {
	log *zap.SugaredLogger
}

// NewDryRun returns a dry-run driver logging through log. A nil log
// disables output.
func NewDryRun(log *zap.SugaredLogger) *DryRun {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DryRun{log: log}
}

// Configure implements Driver.
func (d *DryRun) Configure(channel, minPulseUS, maxPulseUS, actuationRange int) error {
	d.log.Infow("[dry-run] configure",
		"channel", channel,
		"pulse_min_us", minPulseUS,
		"pulse_max_us", maxPulseUS,
		"actuation_range", actuationRange,
	)
	return nil
}

// SetAngle implements Driver.
func (d *DryRun) SetAngle(channel int, degrees float64) error {
	d.log.Debugw("[dry-run] set angle", "channel", channel, "degrees", degrees)
	return nil
}

// Release implements Driver.
func (d *DryRun) Release(channel int) error {
	d.log.Infow("[dry-run] release", "channel", channel)
	return nil
}

// Close implements Driver.
func (d *DryRun) Close() error {
	return nil
}
