package controller

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.viam.com/rdk/logging"

	"gifbox/internal/buttons"
	"gifbox/internal/catalog"
	"gifbox/internal/display"
	"gifbox/internal/player"
	"gifbox/internal/testclock"
)

// fakeSession plays scripted results; once the script is exhausted it
// cancels the run and reports Completed, ending the loop.
type fakeSession struct {
	results []player.Result
	cancel  context.CancelFunc
	played  []string
	panicAt int // 1-based call number that panics; 0 disables
	calls   int
}

func (f *fakeSession) Play(_ context.Context, asset catalog.Asset) player.Result {
	f.calls++
	f.played = append(f.played, asset.Name)
	if f.panicAt == f.calls {
		panic("decoder blew up")
	}
	if len(f.results) == 0 {
		f.cancel()
		return player.Completed
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r
}

type fakeTransition struct {
	shown int
}

func (f *fakeTransition) Show(context.Context) { f.shown++ }

type fakeFace struct {
	shown    int
	rendered int
}

func (f *fakeFace) Show(context.Context) error { return nil }

func (f *fakeFace) Render(context.Context) { f.rendered++ }

// queueInput pops one scripted event per poll.
type queueInput struct {
	events []buttons.ID
}

func (q *queueInput) Poll(context.Context) (buttons.ID, bool) {
	if len(q.events) == 0 {
		return buttons.None, false
	}
	id := q.events[0]
	q.events = q.events[1:]
	return id, id != buttons.None
}

type textDisplay struct {
	texts []string
}

func (d *textDisplay) Bounds() image.Rectangle { return image.Rect(0, 0, display.Width, display.Height) }

func (d *textDisplay) ShowFrame(context.Context, image.Image, image.Point) error { return nil }

func (d *textDisplay) ShowText(_ context.Context, text string) error {
	d.texts = append(d.texts, text)
	return nil
}

func (d *textDisplay) ShowClock(context.Context) error { return nil }

func (d *textDisplay) UpdateClock(context.Context, string, string) error { return nil }

func testCatalog(t *testing.T, names ...string) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	cat, err := catalog.Load(dir)
	require.NoError(t, err)
	return cat
}

type fixture struct {
	ctrl  *Controller
	sess  *fakeSession
	trans *fakeTransition
	face  *fakeFace
	in    *queueInput
	disp  *textDisplay
}

func newFixture(t *testing.T, cat *catalog.Catalog, results ...player.Result) (*fixture, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{
		sess:  &fakeSession{results: results, cancel: cancel},
		trans: &fakeTransition{},
		face:  &fakeFace{},
		in:    &queueInput{},
		disp:  &textDisplay{},
	}
	f.ctrl = New(cat, f.sess, f.trans, f.face, f.in, f.disp, testclock.New(), logging.NewTestLogger(t))
	return f, ctx
}

func TestRun_AdvanceNext(t *testing.T) {
	cat := testCatalog(t, "a.gif", "b.gif", "c.gif")
	f, ctx := newFixture(t, cat, player.AdvanceNext)

	f.ctrl.Run(ctx)

	assert.Equal(t, []string{"a.gif", "b.gif"}, f.sess.played)
	assert.Equal(t, 1, f.trans.shown, "interstitial between navigations")
	assert.Equal(t, 1, f.ctrl.Index())
}

func TestRun_AdvancePreviousWraps(t *testing.T) {
	cat := testCatalog(t, "a.gif", "b.gif", "c.gif")
	f, ctx := newFixture(t, cat, player.AdvancePrevious)

	f.ctrl.Run(ctx)

	assert.Equal(t, []string{"a.gif", "c.gif"}, f.sess.played)
	assert.Equal(t, 1, f.trans.shown)
	assert.Equal(t, 2, f.ctrl.Index())
}

func TestRun_FailedAssetAdvances(t *testing.T) {
	// An undecodable asset at index k must move the controller to
	// (k+1) mod N with an interstitial, never to a halt.
	cat := testCatalog(t, "a.gif", "b.gif", "c.gif")
	f, ctx := newFixture(t, cat, player.Failed, player.Failed, player.Failed, player.Failed)

	f.ctrl.Run(ctx)

	// Four failures walk the whole cycle and wrap.
	assert.Equal(t, []string{"a.gif", "b.gif", "c.gif", "a.gif", "b.gif"}, f.sess.played)
	assert.Equal(t, 4, f.trans.shown)
	assert.Equal(t, 1, f.ctrl.Index())
	assert.Equal(t, ModePlayback, f.ctrl.Mode())
}

func TestRun_CompletedAdvances(t *testing.T) {
	cat := testCatalog(t, "a.gif", "b.gif")
	f, ctx := newFixture(t, cat, player.Completed)

	f.ctrl.Run(ctx)

	assert.Equal(t, []string{"a.gif", "b.gif"}, f.sess.played)
	assert.Equal(t, 1, f.trans.shown)
}

func TestRun_ModeRoundTripKeepsIndex(t *testing.T) {
	cat := testCatalog(t, "a.gif", "b.gif", "c.gif")
	f, ctx := newFixture(t, cat,
		player.AdvanceNext, // move off index 0 first
		player.SwitchMode,
	)
	f.in.events = []buttons.ID{buttons.Mode} // pressed during the clock tick

	f.ctrl.Run(ctx)

	// b.gif plays, the mode round trip happens, then b.gif again.
	assert.Equal(t, []string{"a.gif", "b.gif", "b.gif"}, f.sess.played)
	assert.Equal(t, 1, f.ctrl.Index(), "index survives the mode round trip")
	assert.GreaterOrEqual(t, f.face.rendered, 2, "render on entry plus clock ticks")
}

func TestRun_ClockModeIgnoresOtherButtons(t *testing.T) {
	cat := testCatalog(t, "a.gif")
	f, ctx := newFixture(t, cat, player.SwitchMode)
	f.in.events = []buttons.ID{buttons.Next, buttons.Previous, buttons.Mode}

	f.ctrl.Run(ctx)

	// Next/Previous in clock mode change nothing; only Mode exits.
	assert.Equal(t, []string{"a.gif", "a.gif"}, f.sess.played)
	assert.Equal(t, 0, f.ctrl.Index())
	assert.Equal(t, 0, f.trans.shown)
}

func TestRun_TickPanicRecovers(t *testing.T) {
	cat := testCatalog(t, "a.gif", "b.gif", "c.gif")
	f, ctx := newFixture(t, cat, player.AdvanceNext)
	f.sess.panicAt = 2 // blow up while playing b.gif

	f.ctrl.Run(ctx)

	assert.Contains(t, f.disp.texts, "Fatal error, resetting")
	// The loop continued from index 0 in playback mode.
	assert.Equal(t, []string{"a.gif", "b.gif", "a.gif"}, f.sess.played)
	assert.Equal(t, 0, f.ctrl.Index())
	assert.Equal(t, ModePlayback, f.ctrl.Mode())
}

func TestRun_EmptyCatalogIdles(t *testing.T) {
	cat := testCatalog(t)
	f, ctx := newFixture(t, cat)

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.ctrl.Run(ctx)
	}()
	f.sess.cancel()
	<-done

	assert.Zero(t, f.sess.calls, "no playback calls on an empty catalog")
	require.Len(t, f.disp.texts, 1)
	assert.True(t, strings.HasPrefix(f.disp.texts[0], "No GIFs in "), f.disp.texts[0])
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "Playback", ModePlayback.String())
	assert.Equal(t, "Clock", ModeClock.String())
	assert.Equal(t, "Unknown", Mode(9).String())
}
