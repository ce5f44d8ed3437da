package anim

import (
	"image"
	"image/draw"
	"image/gif"
	"os"
	"time"

	"github.com/pkg/errors"
)

// minFrameDelay is substituted for a zero frame delay; hardware-targeted
// GIFs use 0 to mean "as fast as possible".
const minFrameDelay = 10 * time.Millisecond

const loopForever = -1

// gifAnimation holds the fully composited frames of a decoded GIF and a
// cursor over them with the remaining loop budget.
type gifAnimation struct {
	bounds    image.Rectangle
	frames    []image.Image
	delays    []time.Duration
	index     int
	plays     int
	playsLeft int
}

// OpenGIF decodes the GIF at path. Frames are composited eagerly onto a
// persistent canvas so NextFrame never touches the filesystem.
func OpenGIF(path string) (Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %q", path)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %q", path)
	}
	if len(g.Image) == 0 {
		return nil, errors.Errorf("no frames in %q", path)
	}
	return newGIFAnimation(g), nil
}

// newGIFAnimation composites the decoded frames. Per-frame bounds and
// disposal are honored: background disposal clears the frame rect,
// previous disposal is treated as none.
func newGIFAnimation(g *gif.GIF) *gifAnimation {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	a := &gifAnimation{
		bounds: bounds,
		frames: make([]image.Image, 0, len(g.Image)),
		delays: make([]time.Duration, 0, len(g.Image)),
	}
	switch {
	case g.LoopCount == 0:
		a.plays = loopForever
	case g.LoopCount < 0:
		a.plays = 1
	default:
		a.plays = g.LoopCount + 1
	}
	a.playsLeft = a.plays

	canvas := image.NewRGBA(bounds)
	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(bounds)
		copy(snapshot.Pix, canvas.Pix)
		a.frames = append(a.frames, snapshot)

		delay := minFrameDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		a.delays = append(a.delays, delay)

		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}
	return a
}

func (a *gifAnimation) Bounds() image.Rectangle { return a.bounds }

func (a *gifAnimation) NextFrame() (image.Image, time.Duration, error) {
	if a.frames == nil {
		return nil, 0, errors.New("animation closed")
	}
	if a.index >= len(a.frames) {
		if a.playsLeft != loopForever {
			a.playsLeft--
			if a.playsLeft <= 0 {
				return nil, 0, ErrNoMoreFrames
			}
		}
		a.index = 0
	}
	frame, delay := a.frames[a.index], a.delays[a.index]
	a.index++
	return frame, delay, nil
}

func (a *gifAnimation) Rewind() {
	a.index = 0
	a.playsLeft = a.plays
}

func (a *gifAnimation) Close() error {
	a.frames = nil
	a.delays = nil
	return nil
}
