// Package testclock wraps clock.Mock so that Sleep advances mock time
// instead of blocking, which lets single-threaded pacing loops run to
// completion in tests without real time passing.
package testclock

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is a clock.Clock whose Sleep is an instant time jump.
type Clock struct {
	*clock.Mock
}

// New returns an auto-advancing mock clock.
func New() *Clock {
	return &Clock{Mock: clock.NewMock()}
}

// Sleep advances the mock by d and returns immediately.
func (c *Clock) Sleep(d time.Duration) {
	c.Mock.Add(d)
}
