// Package ws2812 drives WS2812/SK6812 RGB LED strips, used here as a
// coarse, low-memory live preview of a PNG being decoded row by row: see
// ledpreview.Strip.
package ws2812

import (
	"image/color"
	"machine"
)

type deviceType uint8

const (
	WS2812 deviceType = iota // RGB, uses 3 bytes
	SK6812                   // RGBA / RGBW, uses 4 bytes
)

// Device wraps a pin object for an easy driver interface.
type Device struct {
	Pin        machine.Pin
	deviceType deviceType
}

// deprecated, use NewWS2812 or NewSK6812 depending on which device you want.
// calls NewWS2812() to avoid breaking everyone's existing code.
func New(pin machine.Pin) Device {
	return NewWS2812(pin)
}

// NewWS2812 returns a new WS2812(RGB) driver.
// It does not touch the pin object: you have
// to configure it as an output pin before calling NewWS2812.
func NewWS2812(pin machine.Pin) Device {
	return Device{
		Pin:        pin,
		deviceType: WS2812,
	}
}

// NewSK6812 returns a new SK6812(RGBA) driver.
// It does not touch the pin object: you have
// to configure it as an output pin before calling NewSK6812.
func NewSK6812(pin machine.Pin) Device {
	return Device{
		Pin:        pin,
		deviceType: SK6812,
	}
}

// Write the raw bitstring out using the WS2812 protocol.
func (d Device) Write(buf []byte) (n int, err error) {
	for _, c := range buf {
		d.WriteByte(c)
	}
	return len(buf), nil
}

// Write the given color slice out using the WS2812 protocol.
// Colors are sent out in the usual GRB(A) format.
func (d Device) WriteColors(buf []color.RGBA) (err error) {
	switch d.deviceType {
	case WS2812:
		err = d.writeColorsRGB(buf)
	case SK6812:
		err = d.writeColorsRGBA(buf)
	}
	return
}

func (d Device) writeColorsRGB(buf []color.RGBA) (err error) {
	for _, color := range buf {
		d.WriteByte(color.G)       // green
		d.WriteByte(color.R)       // red
		err = d.WriteByte(color.B) // blue
	}
	return
}

func (d Device) writeColorsRGBA(buf []color.RGBA) (err error) {
	for _, color := range buf {
		d.WriteByte(color.G)       // green
		d.WriteByte(color.R)       // red
		d.WriteByte(color.B)       // blue
		err = d.WriteByte(color.A) // alpha
	}
	return
}

// WriteByte bit-bangs one byte MSB-first using the WS2812 one-wire
// timing (roughly 0.4us/0.8us high time for a 0/1 bit at 800kHz). This
// is a portable busy-wait fallback rather than the cycle-counted,
// per-architecture assembly a production driver would use; it's good
// enough for a coarse decode preview, where exact timing margins don't
// matter as much as they do for a full strip refresh.
func (d Device) WriteByte(b byte) error {
	for i := 7; i >= 0; i-- {
		d.Pin.High()
		if b&(1<<uint(i)) != 0 {
			spin(ws2812OneHighNanos)
			d.Pin.Low()
			spin(ws2812OneLowNanos)
		} else {
			spin(ws2812ZeroHighNanos)
			d.Pin.Low()
			spin(ws2812ZeroLowNanos)
		}
	}
	return nil
}

const (
	ws2812ZeroHighNanos = 400
	ws2812ZeroLowNanos  = 850
	ws2812OneHighNanos  = 800
	ws2812OneLowNanos   = 450
)

// spin busy-waits for approximately nanos nanoseconds. Real boards calibrate
// this per clock speed (see the teacher driver's per-arch generated
// files); here it's a single portable approximation.
func spin(nanos int) {
	for i := 0; i < nanos; i++ {
	}
}
