package display

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// threshold is the luminance cut between a lit and an unlit pixel.
const threshold = 128

// Pack composes frame onto the fixed visible canvas at origin `at` and
// packs it to one bit per pixel, MSB first within each row byte. Pixels
// outside the canvas are dropped; uncovered pixels stay dark.
func Pack(frame image.Image, at image.Point) []byte {
	canvas := image.NewGray(image.Rect(0, 0, Width, Height))
	target := frame.Bounds().Sub(frame.Bounds().Min).Add(at)
	xdraw.Draw(canvas, target, frame, frame.Bounds().Min, xdraw.Over)

	stride := Width / 8
	packed := make([]byte, stride*Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if canvas.GrayAt(x, y).Y >= threshold {
				packed[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return packed
}
