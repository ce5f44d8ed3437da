// Package anim defines the animation decoding contract consumed by the
// player, plus the GIF decoder backing it.
package anim

import (
	"image"
	"time"

	"github.com/pkg/errors"
)

// ErrNoMoreFrames is returned by NextFrame when a finite animation has
// used up its loop budget.
var ErrNoMoreFrames = errors.New("no more frames")

// Animation is one open playback source. Not safe for concurrent use;
// a session owns its Animation exclusively.
type Animation interface {
	// Bounds is the canvas size of the animation.
	Bounds() image.Rectangle
	// NextFrame decodes the next frame and its on-screen delay,
	// honoring the asset's own loop metadata across passes.
	NextFrame() (image.Image, time.Duration, error)
	// Rewind restarts from the first frame and restores the loop budget.
	Rewind()
	// Close releases decoding resources.
	Close() error
}

// Opener opens one animation by path.
type Opener func(path string) (Animation, error)
