package roids

import "time"

// TimerMode selects whether a timer stops or rewinds when it finishes.
type TimerMode uint8

const (
	Once TimerMode = iota
	Repeating
)

// Timer counts simulated time towards a duration. It is a plain value meant
// to be embedded in components and resources.
type Timer struct {
	Duration time.Duration
	Mode     TimerMode

	elapsed  time.Duration
	finished bool
	times    int
}

// NewTimer returns a timer of the given duration and mode.
func NewTimer(d time.Duration, mode TimerMode) Timer {
	return Timer{Duration: d, Mode: mode}
}

// Tick advances the timer by dt and reports whether it finished during
// this call. A repeating timer rewinds and may finish several times in one
// call; TimesFinished reports how many.
func (t *Timer) Tick(dt time.Duration) bool {
	t.times = 0
	if t.Mode == Once {
		if t.finished {
			return false
		}
		t.elapsed += dt
		if t.elapsed >= t.Duration {
			t.elapsed = t.Duration
			t.finished = true
			t.times = 1
		}
		return t.finished
	}

	t.finished = false
	t.elapsed += dt
	if t.Duration <= 0 {
		t.elapsed = 0
		t.finished = true
		t.times = 1
		return true
	}
	for t.elapsed >= t.Duration {
		t.elapsed -= t.Duration
		t.times++
		t.finished = true
	}
	return t.finished
}

// Finished reports whether the timer completed on its last Tick. For a
// Once timer it stays true until Reset.
func (t *Timer) Finished() bool {
	return t.finished
}

// TimesFinished returns how many times the timer completed on its last Tick.
func (t *Timer) TimesFinished() int {
	return t.times
}

// Elapsed returns the time accumulated since the last start or rewind.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining returns the time left until the timer next finishes.
func (t *Timer) Remaining() time.Duration {
	return max(t.Duration-t.elapsed, 0)
}

// Fraction returns elapsed/duration in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return min(float64(t.elapsed)/float64(t.Duration), 1)
}

// Reset rewinds the timer to zero.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.times = 0
}
