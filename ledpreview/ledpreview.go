// Package ledpreview renders a coarse live preview of a decoding PNG onto
// a WS2812 LED strip, one LED per output column, sampling the row's
// mid-height pixel for each column already seen.
package ledpreview

import (
	"image/color"

	"tinygo.org/x/pngstream/ws2812"
)

// Strip is a live preview sink: WriteRow matches png.RowFunc, so it can
// be passed directly as the row callback, or tee'd alongside another
// sink with a small wrapper.
type Strip struct {
	dev    ws2812.Device
	height int
	mid    int
	colors []color.RGBA
}

// New returns a preview sink for an image height rows tall, driving a
// WS2812 strip with one LED per output column.
func New(dev ws2812.Device, width, height int) *Strip {
	return &Strip{
		dev:    dev,
		height: height,
		mid:    height / 2,
		colors: make([]color.RGBA, width),
	}
}

// WriteRow samples the mid-height row of the image and lights the strip
// from it, unpacking RGB565 back to 8-bit RGB column by column.
func (s *Strip) WriteRow(y, width int, pixels []uint16) error {
	if y != s.mid {
		return nil
	}
	for x, p := range pixels {
		if x >= len(s.colors) {
			break
		}
		s.colors[x] = unpack565(p)
	}
	return s.dev.WriteColors(s.colors)
}

func unpack565(p uint16) color.RGBA {
	r := byte((p>>11)&0x1F) << 3
	g := byte((p>>5)&0x3F) << 2
	b := byte(p&0x1F) << 3
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
