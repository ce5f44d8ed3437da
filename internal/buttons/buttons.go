// Package buttons turns raw GPIO levels into debounced navigation events.
package buttons

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/rdk/logging"
)

// Cooldown is the minimum spacing between two accepted events, shared
// across all buttons and sources.
const Cooldown = 500 * time.Millisecond

// ID identifies a logical navigation button.
type ID int

const (
	None ID = iota
	Next
	Previous
	Mode
)

// String returns the button name.
func (id ID) String() string {
	switch id {
	case None:
		return "None"
	case Next:
		return "Next"
	case Previous:
		return "Previous"
	case Mode:
		return "Mode"
	default:
		return "Unknown"
	}
}

// Pin reads one instantaneous logical level. Satisfied by an adapter
// over board.GPIOPin.
type Pin interface {
	Get(ctx context.Context) (bool, error)
}

// edge is a falling-edge detector for one pull-up wired button:
// pressed means previous sample HIGH and current sample LOW.
type edge struct {
	pin    Pin
	prev   bool
	primed bool
}

// sample reads the pin once and reports whether a press edge occurred.
// The first sample only primes the stored level.
func (e *edge) sample(ctx context.Context) (bool, error) {
	if e.pin == nil {
		return false, nil
	}
	level, err := e.pin.Get(ctx)
	if err != nil {
		return false, err
	}
	if !e.primed {
		e.primed = true
		e.prev = level
		return false, nil
	}
	pressed := e.prev && !level
	e.prev = level
	return pressed, nil
}

// Debouncer samples a set of buttons and emits at most one accepted
// event per Cooldown window, from hardware edges or injected events.
type Debouncer struct {
	clk    clock.Clock
	logger logging.Logger

	next     edge
	prev     edge
	mode     edge
	injected chan ID

	lastAccepted time.Time
	everAccepted bool
}

// New returns a Debouncer over the three navigation pins. A nil pin is
// never sampled; a Debouncer with only nil pins still serves injected
// events, which is how the CLI harness runs without hardware.
func New(clk clock.Clock, logger logging.Logger, next, prev, mode Pin) *Debouncer {
	return &Debouncer{
		clk:      clk,
		logger:   logger,
		next:     edge{pin: next},
		prev:     edge{pin: prev},
		mode:     edge{pin: mode},
		injected: make(chan ID, 1),
	}
}

// Inject queues one software navigation event, delivered through the
// same cooldown gate as hardware presses. Returns false when an
// injected event is already pending.
func (d *Debouncer) Inject(id ID) bool {
	if id == None {
		return false
	}
	select {
	case d.injected <- id:
		return true
	default:
		return false
	}
}

// Poll samples every button once and returns at most one new press.
// During the cooldown window nothing is sampled, so stored edge state
// is left untouched and a held transition is still seen next poll.
func (d *Debouncer) Poll(ctx context.Context) (ID, bool) {
	if d.everAccepted && d.clk.Since(d.lastAccepted) < Cooldown {
		return None, false
	}

	select {
	case id := <-d.injected:
		d.accept()
		return id, true
	default:
	}

	nextPressed, err := d.next.sample(ctx)
	if err != nil {
		d.logger.Warnw("button read failed", "button", Next, "error", err)
		return None, false
	}
	prevPressed, err := d.prev.sample(ctx)
	if err != nil {
		d.logger.Warnw("button read failed", "button", Previous, "error", err)
		return None, false
	}
	modePressed, err := d.mode.sample(ctx)
	if err != nil {
		d.logger.Warnw("button read failed", "button", Mode, "error", err)
		return None, false
	}

	switch {
	case modePressed:
		d.accept()
		return Mode, true
	case nextPressed && !prevPressed:
		d.accept()
		return Next, true
	case prevPressed && !nextPressed:
		d.accept()
		return Previous, true
	}
	// next+previous together is ambiguous and suppressed.
	return None, false
}

func (d *Debouncer) accept() {
	d.lastAccepted = d.clk.Now()
	d.everAccepted = true
}
