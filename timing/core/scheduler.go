package core

import "time"

// Scheduler splits the CPU clock into timer-rate slices. When ClockHz is not
// a multiple of TimerHz the remainder is carried so that every TimerHz
// slices execute exactly ClockHz cycles.
type Scheduler struct {
	clockHz int
	timerHz int
	carry   int
}

// NewScheduler creates a Scheduler. Both rates must be positive.
func NewScheduler(clockHz, timerHz int) *Scheduler {
	return &Scheduler{clockHz: clockHz, timerHz: timerHz}
}

// Next returns the number of CPU cycles to run before the next timer tick.
func (s *Scheduler) Next() int {
	total := s.clockHz + s.carry
	s.carry = total % s.timerHz
	return total / s.timerHz
}

// Reset drops any carried fraction.
func (s *Scheduler) Reset() {
	s.carry = 0
}

// FrameDuration returns the wall-clock length of one slice.
func (s *Scheduler) FrameDuration() time.Duration {
	return time.Second / time.Duration(s.timerHz)
}

// ClockHz returns the CPU rate.
func (s *Scheduler) ClockHz() int {
	return s.clockHz
}

// TimerHz returns the timer rate.
func (s *Scheduler) TimerHz() int {
	return s.timerHz
}
