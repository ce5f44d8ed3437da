package player

import (
	"context"
	"image"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"gifbox/internal/anim"
	"gifbox/internal/display"
)

// InterstitialDuration is how long the transition visual holds the
// screen between two playback sessions.
const InterstitialDuration = 2 * time.Second

// fallbackText is shown when the filler animation is missing or broken.
const fallbackText = "Please wait..."

// Interstitial shows the transition visual: the filler animation looped
// for a fixed duration, or a static text fallback. It is a deliberate
// dead zone; button input is never consulted.
type Interstitial struct {
	open   anim.Opener
	disp   display.Display
	clk    clock.Clock
	logger logging.Logger
	path   string
}

// NewInterstitial returns an Interstitial playing the animation at path.
func NewInterstitial(open anim.Opener, disp display.Display, clk clock.Clock, logger logging.Logger, path string) *Interstitial {
	return &Interstitial{open: open, disp: disp, clk: clk, logger: logger, path: path}
}

// Show blocks for the fixed duration. Only context cancellation cuts it
// short. Resources are released before returning.
func (i *Interstitial) Show(ctx context.Context) {
	a, err := i.open(i.path)
	if err != nil {
		i.logger.Debugw("no interstitial animation, using text", "path", i.path, "error", err)
		i.fallback(ctx)
		return
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			i.logger.Warnw("unable to release interstitial", "error", cerr)
		}
	}()

	frame, delay, err := a.NextFrame()
	if err != nil {
		i.logger.Warnw("unable to decode interstitial", "path", i.path, "error", err)
		i.fallback(ctx)
		return
	}
	if err := i.disp.ShowFrame(ctx, frame, image.Point{}); err != nil {
		i.logger.Warnw("unable to render interstitial", "error", err)
		i.fallback(ctx)
		return
	}

	start := i.clk.Now()
	frameStart := start
	for i.clk.Since(start) < InterstitialDuration {
		if ctx.Err() != nil {
			return
		}
		if i.clk.Since(frameStart) >= delay {
			frame, delay, err = a.NextFrame()
			if errors.Is(err, anim.ErrNoMoreFrames) {
				a.Rewind()
				frame, delay, err = a.NextFrame()
			}
			if err != nil {
				i.logger.Warnw("unable to decode interstitial", "error", err)
				i.fallback(ctx)
				return
			}
			if err := i.disp.ShowFrame(ctx, frame, image.Point{}); err != nil {
				i.logger.Warnw("unable to render interstitial", "error", err)
				i.fallback(ctx)
				return
			}
			frameStart = i.clk.Now()
		} else {
			i.clk.Sleep(pollYield)
		}
	}
}

// fallback holds the static text for the full duration.
func (i *Interstitial) fallback(ctx context.Context) {
	if err := i.disp.ShowText(ctx, fallbackText); err != nil {
		i.logger.Warnw("unable to show fallback text", "error", err)
	}
	if ctx.Err() == nil {
		i.clk.Sleep(InterstitialDuration)
	}
}
