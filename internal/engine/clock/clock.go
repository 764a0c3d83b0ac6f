// Package clock measures frame timing.
package clock

import (
	"math"
	"time"
)

// SampleInterval is how often the reported frame rate is recomputed.
const SampleInterval = 500 * time.Millisecond

// FrameTimer tracks per-frame delta time, elapsed time and a sampled frame rate.
type FrameTimer struct {
	now   func() time.Time
	start time.Time
	last  time.Time
	delta time.Duration

	frames     int
	sampleFrom time.Time
	fps        float64
}

// NewFrameTimer creates a timer starting now.
func NewFrameTimer() *FrameTimer {
	return newFrameTimer(time.Now)
}

func newFrameTimer(now func() time.Time) *FrameTimer {
	t := now()
	return &FrameTimer{now: now, start: t, last: t, sampleFrom: t}
}

// Tick marks the start of a new frame and returns the time since the previous one.
func (ft *FrameTimer) Tick() time.Duration {
	t := ft.now()
	ft.delta = t.Sub(ft.last)
	ft.last = t

	ft.frames++
	if span := t.Sub(ft.sampleFrom); span > SampleInterval {
		ft.fps = float64(ft.frames) / span.Seconds()
		ft.frames = 0
		ft.sampleFrom = t
	}
	return ft.delta
}

// Delta returns the duration of the last frame in seconds.
func (ft *FrameTimer) Delta() float32 {
	return float32(ft.delta.Seconds())
}

// Elapsed returns the time since the timer was created, in seconds.
func (ft *FrameTimer) Elapsed() float64 {
	return ft.last.Sub(ft.start).Seconds()
}

// FrameRate returns the last sampled frame rate rounded to precision decimals.
func (ft *FrameTimer) FrameRate(precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(ft.fps*p) / p
}
