package clock

import (
	"time"
)

// Clock abstracts waiting and deadline scheduling so that callers can be tested without real delays.
type Clock interface {
	// Sleep pauses the current goroutine for at least the duration d. A negative or zero duration causes Sleep to return immediately.
	Sleep(duration time.Duration)
	// AfterFunc waits for the duration to elapse and then calls f in its own goroutine.
	AfterFunc(duration time.Duration, f func()) Timer
	// Now returns the current time.
	Now() time.Time
}

// Timer is a scheduled call created by AfterFunc.
type Timer interface {
	// Stop prevents the Timer from firing. It returns false if the call has already fired or been stopped.
	Stop() bool
}

type clock struct{}

// New creates a new instance of Clock.
func New() Clock {
	return clock{}
}

func (clock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}

func (clock) AfterFunc(duration time.Duration, f func()) Timer {
	return time.AfterFunc(duration, f)
}

func (clock) Now() time.Time {
	return time.Now()
}
