// Package controller holds the top-level state machine selecting
// between playback and clock modes.
package controller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/rdk/logging"

	"gifbox/internal/buttons"
	"gifbox/internal/catalog"
	"gifbox/internal/display"
	"gifbox/internal/player"
)

const (
	// settleDelay gives the buttons an init period before the first tick.
	settleDelay = time.Second
	// clockRefresh is the clock-mode render cadence.
	clockRefresh = time.Second
	// errorHold is how long the transient error message stays visible.
	errorHold = 2 * time.Second

	errorText = "Fatal error, resetting"
)

// Mode is the top-level state.
type Mode int32

const (
	ModePlayback Mode = iota
	ModeClock
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePlayback:
		return "Playback"
	case ModeClock:
		return "Clock"
	default:
		return "Unknown"
	}
}

// Session runs one playback session of an asset.
type Session interface {
	Play(ctx context.Context, asset catalog.Asset) player.Result
}

// Transition blocks for the fixed interstitial duration.
type Transition interface {
	Show(ctx context.Context)
}

// ClockFace owns the clock layout and its in-place updates.
type ClockFace interface {
	Show(ctx context.Context) error
	Render(ctx context.Context)
}

// Controller owns the mode, the navigation index, and the tick loop.
// All former appliance globals live here as explicit fields.
type Controller struct {
	cat    *catalog.Catalog
	sess   Session
	trans  Transition
	face   ClockFace
	in     player.InputSource
	disp   display.Display
	clk    clock.Clock
	logger logging.Logger

	// mode and index are atomic only so the status command can read
	// them from the RPC goroutine; the loop is the sole writer.
	mode  atomic.Int32
	index atomic.Int32
}

// New returns a Controller starting in playback mode at index 0.
func New(cat *catalog.Catalog, sess Session, trans Transition, face ClockFace,
	in player.InputSource, disp display.Display, clk clock.Clock, logger logging.Logger,
) *Controller {
	return &Controller{
		cat:    cat,
		sess:   sess,
		trans:  trans,
		face:   face,
		in:     in,
		disp:   disp,
		clk:    clk,
		logger: logger,
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode { return Mode(c.mode.Load()) }

// Index returns the navigation index.
func (c *Controller) Index() int { return int(c.index.Load()) }

// Run drives the appliance until ctx is cancelled. An empty catalog is
// terminal: the error message is shown once and the loop parks, issuing
// no playback calls. Every other failure is absorbed by the tick.
func (c *Controller) Run(ctx context.Context) {
	if c.cat.Len() == 0 {
		c.logger.Errorf("no assets in %s, idling", c.cat.Dir())
		if err := c.disp.ShowText(ctx, "No GIFs in "+c.cat.Dir()); err != nil {
			c.logger.Warnw("unable to show empty-catalog message", "error", err)
		}
		<-ctx.Done()
		return
	}

	c.logger.Infof("found %d assets in %s", c.cat.Len(), c.cat.Dir())
	c.clk.Sleep(settleDelay)

	for ctx.Err() == nil {
		c.tick(ctx)
	}
}

// tick runs one mode step with failure isolation: a panic is logged,
// a transient error message is shown, the index resets to 0, and the
// loop continues in playback mode.
func (c *Controller) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorw("tick failed", "panic", fmt.Sprint(r))
			c.recoverTick(ctx)
		}
	}()

	switch c.Mode() {
	case ModePlayback:
		c.playbackTick(ctx)
	case ModeClock:
		c.clockTick(ctx)
	}
}

func (c *Controller) playbackTick(ctx context.Context) {
	idx := c.Index()
	asset := c.cat.Asset(idx)
	c.logger.Debugf("playing %s (%d/%d)", asset.Name, idx+1, c.cat.Len())

	res := c.sess.Play(ctx, asset)
	if ctx.Err() != nil {
		return
	}

	switch res {
	case player.SwitchMode:
		c.mode.Store(int32(ModeClock))
		c.logger.Info("switched to clock mode")
		if err := c.face.Show(ctx); err != nil {
			c.logger.Warnw("unable to show clock layout", "error", err)
		}
		c.face.Render(ctx)
	case player.AdvancePrevious:
		c.trans.Show(ctx)
		c.index.Store(int32(c.cat.Advance(idx, -1)))
	default:
		// AdvanceNext, Completed and Failed all move forward.
		if res == player.Failed {
			c.logger.Warnf("asset %s failed, advancing", asset.Name)
		}
		c.trans.Show(ctx)
		c.index.Store(int32(c.cat.Advance(idx, 1)))
	}
}

func (c *Controller) clockTick(ctx context.Context) {
	c.face.Render(ctx)
	c.clk.Sleep(clockRefresh)
	if ctx.Err() != nil {
		return
	}
	if id, ok := c.in.Poll(ctx); ok && id == buttons.Mode {
		c.mode.Store(int32(ModePlayback))
		c.logger.Info("switched to playback mode")
	}
}

func (c *Controller) recoverTick(ctx context.Context) {
	if err := c.disp.ShowText(ctx, errorText); err != nil {
		c.logger.Warnw("unable to show error message", "error", err)
	}
	if ctx.Err() == nil {
		c.clk.Sleep(errorHold)
	}
	c.index.Store(0)
	c.mode.Store(int32(ModePlayback))
}
