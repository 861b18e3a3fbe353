package game

import "math"

// Clock decouples the caller's frame rate from the simulation: wall time
// accumulates until it passes Threshold, then one fixed step fires.
type Clock struct {
	Threshold float64
	Step      float64
	MaxStep   float64

	acc float64
}

func NewClock() *Clock {
	return &Clock{Threshold: ClockThreshold, Step: StepDT, MaxStep: MaxStepDT}
}

// Advance adds wall seconds and reports the step to simulate, if any.
func (c *Clock) Advance(wall float64) (float64, bool) {
	if !(wall > 0) || math.IsInf(wall, 1) {
		return 0, false
	}
	c.acc += wall
	if c.acc <= c.Threshold {
		return 0, false
	}
	c.acc = 0
	return math.Min(c.Step, c.MaxStep), true
}
