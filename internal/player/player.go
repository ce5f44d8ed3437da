package player

import (
	"context"
	"image"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"gifbox/internal/anim"
	"gifbox/internal/buttons"
	"gifbox/internal/catalog"
	"gifbox/internal/display"
)

// pollYield keeps input latency around a millisecond without spinning
// the processor between frame deadlines.
const pollYield = time.Millisecond

// Player runs one playback session at a time, pacing frames by their
// individual delays while polling for interrupting input.
type Player struct {
	open   anim.Opener
	disp   display.Display
	in     InputSource
	clk    clock.Clock
	logger logging.Logger
}

// New returns a Player over the given collaborators.
func New(open anim.Opener, disp display.Display, in InputSource, clk clock.Clock, logger logging.Logger) *Player {
	return &Player{open: open, disp: disp, in: in, clk: clk, logger: logger}
}

// Play drives one session of asset. It returns on the first accepted
// button event (the frame in progress is abandoned), on loop-budget
// exhaustion, on context cancellation, or on a decode/render failure.
// Decoding resources are released on every path.
func (p *Player) Play(ctx context.Context, asset catalog.Asset) Result {
	a, err := p.open(asset.Path)
	if err != nil {
		p.logger.Warnw("unable to open asset", "asset", asset.Name, "error", err)
		return Failed
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			p.logger.Warnw("unable to release asset", "asset", asset.Name, "error", cerr)
		}
	}()

	origin := centerOffset(p.disp.Bounds(), a.Bounds())

	frame, delay, err := a.NextFrame()
	if err != nil {
		return p.decodeResult(asset, err)
	}
	if err := p.disp.ShowFrame(ctx, frame, origin); err != nil {
		p.logger.Warnw("unable to render frame", "asset", asset.Name, "error", err)
		return Failed
	}
	frameStart := p.clk.Now()

	for {
		if ctx.Err() != nil {
			return Completed
		}
		if id, ok := p.in.Poll(ctx); ok {
			switch id {
			case buttons.Next:
				return AdvanceNext
			case buttons.Previous:
				return AdvancePrevious
			case buttons.Mode:
				return SwitchMode
			}
		}
		if p.clk.Since(frameStart) >= delay {
			frame, delay, err = a.NextFrame()
			if err != nil {
				return p.decodeResult(asset, err)
			}
			if err := p.disp.ShowFrame(ctx, frame, origin); err != nil {
				p.logger.Warnw("unable to render frame", "asset", asset.Name, "error", err)
				return Failed
			}
			frameStart = p.clk.Now()
		} else {
			p.clk.Sleep(pollYield)
		}
	}
}

func (p *Player) decodeResult(asset catalog.Asset, err error) Result {
	if errors.Is(err, anim.ErrNoMoreFrames) {
		return Completed
	}
	p.logger.Warnw("unable to decode frame", "asset", asset.Name, "error", err)
	return Failed
}

// centerOffset centers a frame smaller than the visible area; frames as
// large or larger anchor at the origin and render as-is.
func centerOffset(visible, frame image.Rectangle) image.Point {
	var at image.Point
	if frame.Dx() < visible.Dx() {
		at.X = (visible.Dx() - frame.Dx()) / 2
	}
	if frame.Dy() < visible.Dy() {
		at.Y = (visible.Dy() - frame.Dy()) / 2
	}
	return at
}
