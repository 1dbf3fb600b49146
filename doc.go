// Package pp96 drives a Waters Positive Pressure-96 filtration processor
// from a Raspberry Pi with a PCA9685 16-channel PWM board.
//
// Two mirror-mounted servos press the processor's rocker buttons
// (up/down/neutral) in synchrony, and a servo-style linear actuator moves
// the well plate in and out from under the press.
//
// # Installation
//
//	go install github.com/filterwell/pp96/cmd/pp96@latest
//
// # Usage
//
// One-shot commands press a button and return to neutral:
//
//	pp96 up
//	pp96 down
//	pp96 plate in
//
// Or start an interactive session:
//
//	pp96 repl
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/pp96: CLI with one-shot commands and an interactive REPL
//   - cmd/pp96-detect: scans I2C buses for the PCA9685 board
//   - pkg/press: motion controller for the mirrored pair and plate actuator
//   - pkg/pwm: PCA9685 channel driver and dry-run fallback
package pp96
