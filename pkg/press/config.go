package press

// Defaults match the reference PP96 build: PCA9685 at 0x40, rocker servos on
// channels 0 and 1, plate actuator on channel 2, 500..2500us hobby servos.
const (
	DefaultUpAngle      = 30
	DefaultDownAngle    = 150
	DefaultNeutralAngle = 90
	DefaultOpenAngle    = 0
	DefaultGripAngle    = 120
	DefaultClosedAngle  = 180

	DefaultActuatorInAngle  = 180
	DefaultActuatorOutAngle = 0

	DefaultPulseMinUS   = 500
	DefaultPulseMaxUS   = 2500
	DefaultSpeedPercent = 60

	// All three channels are driven as 180-degree servos.
	actuationRange = 180
)

// Config is the construction-time configuration for a Controller. It is
// copied by New and immutable afterwards. Start from DefaultConfig and
// override fields as needed.
type Config struct {
	Servo1Channel   int `mapstructure:"servo1_channel"`
	Servo2Channel   int `mapstructure:"servo2_channel"`
	ActuatorChannel int `mapstructure:"actuator_channel"`

	// Angles for the primary servo; the mirrored servo always gets
	// 180 minus these.
	UpAngle      int `mapstructure:"up_angle"`
	DownAngle    int `mapstructure:"down_angle"`
	NeutralAngle int `mapstructure:"neutral_angle"`
	OpenAngle    int `mapstructure:"open_angle"`
	GripAngle    int `mapstructure:"grip_angle"`
	ClosedAngle  int `mapstructure:"closed_angle"`

	// Which end of the actuator sweep puts the plate under the press
	// differs between builds, so both ends are configuration rather than
	// constants. Out is the resting position.
	ActuatorInAngle  int `mapstructure:"actuator_in_angle"`
	ActuatorOutAngle int `mapstructure:"actuator_out_angle"`

	PulseMinUS int `mapstructure:"pulse_min_us"`
	PulseMaxUS int `mapstructure:"pulse_max_us"`

	SpeedPercent int `mapstructure:"speed_percent"`
}

// DefaultConfig returns the configuration for the reference build.
func DefaultConfig() Config {
	return Config{
		Servo1Channel:    0,
		Servo2Channel:    1,
		ActuatorChannel:  2,
		UpAngle:          DefaultUpAngle,
		DownAngle:        DefaultDownAngle,
		NeutralAngle:     DefaultNeutralAngle,
		OpenAngle:        DefaultOpenAngle,
		GripAngle:        DefaultGripAngle,
		ClosedAngle:      DefaultClosedAngle,
		ActuatorInAngle:  DefaultActuatorInAngle,
		ActuatorOutAngle: DefaultActuatorOutAngle,
		PulseMinUS:       DefaultPulseMinUS,
		PulseMaxUS:       DefaultPulseMaxUS,
		SpeedPercent:     DefaultSpeedPercent,
	}
}
