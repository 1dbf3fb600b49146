package press

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepDelayBoundaries(t *testing.T) {
	assert.Equal(t, 30*time.Millisecond, StepDelay(1))
	assert.Equal(t, time.Millisecond, StepDelay(100))
}

func TestStepDelayClamps(t *testing.T) {
	assert.Equal(t, StepDelay(1), StepDelay(0))
	assert.Equal(t, StepDelay(1), StepDelay(-40))
	assert.Equal(t, StepDelay(100), StepDelay(101))
	assert.Equal(t, StepDelay(100), StepDelay(1000))
}

func TestStepDelayMonotonic(t *testing.T) {
	prev := StepDelay(1)
	for pct := 2; pct <= 100; pct++ {
		cur := StepDelay(pct)
		assert.LessOrEqual(t, cur, prev, "delay must not increase at %d%%", pct)
		prev = cur
	}
}

func TestStepDelayDeterministic(t *testing.T) {
	for pct := 1; pct <= 100; pct++ {
		assert.Equal(t, StepDelay(pct), StepDelay(pct))
	}
}
