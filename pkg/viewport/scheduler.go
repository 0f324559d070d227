package viewport

import "time"

// Timer is a pending delayed call.
type Timer interface {
	// Stop cancels the call. It reports false if the call already ran or
	// was stopped.
	Stop() bool
}

// Scheduler arms delayed calls.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimeScheduler schedules with time.AfterFunc.
type TimeScheduler struct{}

// AfterFunc calls f on its own goroutine after d.
func (TimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
