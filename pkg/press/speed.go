package press

import "time"

// StepDelay maps a speed percentage to the per-degree delay used by smooth
// moves: 1% is 30ms per degree, 100% is 1ms per degree, linear in between.
// Values outside [1,100] are clamped, never rejected.
func StepDelay(percent int) time.Duration {
	percent = clampSpeed(percent)
	ms := float64(100-percent)*29.0/99.0 + 1
	return time.Duration(ms * float64(time.Millisecond))
}

func clampSpeed(percent int) int {
	if percent < 1 {
		return 1
	}
	if percent > 100 {
		return 100
	}
	return percent
}
