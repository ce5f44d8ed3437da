// Package clockface renders the alternate clock display.
package clockface

import (
	"context"
	"time"

	"go.viam.com/rdk/logging"

	"gifbox/internal/display"
	"gifbox/internal/timesync"
)

// FormatTime renders t as 12-hour time with an AM/PM suffix; midnight
// reads "12:00:00 AM".
func FormatTime(t time.Time) string {
	return t.Format("03:04:05 PM")
}

// FormatDate renders t as an ISO date.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Face keeps the two persistent clock labels current.
type Face struct {
	disp   display.Display
	wall   timesync.WallClock
	logger logging.Logger
}

// New returns a Face reading time from wall.
func New(disp display.Display, wall timesync.WallClock, logger logging.Logger) *Face {
	return &Face{disp: disp, wall: wall, logger: logger}
}

// Show switches the display to the clock layout.
func (f *Face) Show(ctx context.Context) error {
	return f.disp.ShowClock(ctx)
}

// Render updates the labels in place. A failure is logged and leaves
// the previously displayed text unchanged.
func (f *Face) Render(ctx context.Context) {
	now := f.wall.Now()
	if err := f.disp.UpdateClock(ctx, FormatTime(now), FormatDate(now)); err != nil {
		f.logger.Warnw("unable to update clock", "error", err)
	}
}
