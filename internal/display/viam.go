package display

import (
	"context"
	"encoding/base64"
	"image"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
)

// Viam drives the OLED through a generic component's DoCommand, the way
// the appliance reaches all of its hardware. The +2px hardware offset is
// applied here, uniformly, so the core only ever thinks in the 128x64
// visible area.
type Viam struct {
	res    resource.Resource
	logger logging.Logger
}

// NewViam wraps the display component resource.
func NewViam(res resource.Resource, logger logging.Logger) *Viam {
	return &Viam{res: res, logger: logger}
}

func (v *Viam) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (v *Viam) ShowFrame(ctx context.Context, frame image.Image, at image.Point) error {
	// The frame position is baked into the packed canvas; x/y place the
	// canvas itself on the panel.
	_, err := v.res.DoCommand(ctx, map[string]any{
		"show_frame": map[string]any{
			"x":      XOffset,
			"y":      0,
			"width":  Width,
			"height": Height,
			"format": "mono1-msb",
			"pixels": base64.StdEncoding.EncodeToString(Pack(frame, at)),
		},
	})
	return errors.Wrap(err, "show_frame")
}

func (v *Viam) ShowText(ctx context.Context, text string) error {
	v.logger.Debugf("showing text: %s", text)
	_, err := v.res.DoCommand(ctx, map[string]any{
		"show_text": map[string]any{"text": text},
	})
	return errors.Wrap(err, "show_text")
}

func (v *Viam) ShowClock(ctx context.Context) error {
	_, err := v.res.DoCommand(ctx, map[string]any{
		"show_clock": map[string]any{"time": "00:00:00", "date": "YYYY-MM-DD"},
	})
	return errors.Wrap(err, "show_clock")
}

func (v *Viam) UpdateClock(ctx context.Context, timeText, dateText string) error {
	_, err := v.res.DoCommand(ctx, map[string]any{
		"set_clock": map[string]any{"time": timeText, "date": dateText},
	})
	return errors.Wrap(err, "set_clock")
}
