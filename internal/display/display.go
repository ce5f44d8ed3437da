// Package display defines the rendering backend contract and the frame
// format pushed to the OLED component.
package display

import (
	"context"
	"image"
)

// Panel geometry of the appliance: the SH1106 controller addresses 130
// columns of which 128 are visible, shifted right by two.
const (
	HardwareWidth = 130
	Width         = 128
	Height        = 64
	XOffset       = 2
)

// Display is the rendering surface the core draws on. Frame and text
// calls clear and replace the visible content; clock updates mutate two
// persistent labels in place so the clock never flickers.
type Display interface {
	// Bounds is the visible area.
	Bounds() image.Rectangle
	// ShowFrame replaces the visible content with frame anchored at `at`.
	ShowFrame(ctx context.Context, frame image.Image, at image.Point) error
	// ShowText replaces the visible content with a short message.
	ShowText(ctx context.Context, text string) error
	// ShowClock switches to the persistent clock layout.
	ShowClock(ctx context.Context) error
	// UpdateClock rewrites the clock labels in place.
	UpdateClock(ctx context.Context, timeText, dateText string) error
}
