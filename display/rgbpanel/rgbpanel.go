// Package rgbpanel implements a driver for small SPI-attached RGB565
// panels, sized to receive a decoded PNG one row at a time rather than
// buffering a whole frame.
package rgbpanel

import (
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/pngstream"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"
)

const Baudrate = 8 * machine.MHz

// statusHeight is the only part of the frame this driver buffers locally;
// the rest streams straight through WriteRow. Keeping this thin keeps the
// driver's own footprint independent of the image being decoded.
const statusHeight = 16

type Config struct {
	Width, Height int16

	ResetPin      machine.Pin
	DataPin       machine.Pin
	ChipSelectPin machine.Pin
	BusyPin       machine.Pin
}

// Device is an SPI RGB565 panel. WriteRow's signature matches
// png.RowFunc exactly, so a decoded image can be piped straight to the
// panel: png.Decode(data, opts, dev.WriteRow).
type Device struct {
	bus  pngstream.SPI
	cs   machine.Pin
	dc   machine.Pin
	rst  machine.Pin
	busy machine.Pin

	width  int16
	height int16

	statusBuf []uint16
}

// New allocates a new device. bus is expected to be configured and ready
// for use.
func New(bus pngstream.SPI, cfg Config) *Device {
	return &Device{
		bus:       bus,
		cs:        cfg.ChipSelectPin,
		dc:        cfg.DataPin,
		rst:       cfg.ResetPin,
		busy:      cfg.BusyPin,
		width:     cfg.Width,
		height:    cfg.Height,
		statusBuf: make([]uint16, int(cfg.Width)*statusHeight),
	}
}

func (d *Device) Size() (x, y int16) { return d.width, d.height }

func (d *Device) Configure() error {
	d.cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.dc.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.rst.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.busy.Configure(machine.PinConfig{Mode: machine.PinInput})
	return nil
}

func (d *Device) Reset() error {
	d.hwReset()
	d.waitUntilIdle()

	if err := d.sendCommandByte(0x01); err != nil { // software reset
		return err
	}
	d.waitUntilIdle()

	if err := d.setWindow(0, d.width-1, 0, d.height-1); err != nil {
		return err
	}
	return nil
}

// WriteRow pushes one decoded, RGB565-packed row to the panel at row y.
// It matches png.RowFunc and is meant to be passed directly as the row
// callback to png.Decode.
func (d *Device) WriteRow(y, width int, pixels []uint16) error {
	if err := d.setWindow(0, int16(width)-1, int16(y), int16(y)); err != nil {
		return err
	}
	if err := d.sendCommandByte(0x2c); err != nil { // memory write
		return err
	}
	return d.sendPixels(pixels)
}

// DrawStatus renders label into the thin status bar on the top
// statusHeight rows of the panel and pushes it to the panel immediately.
// WriteRow uses the same panel rows for image rows 0..statusHeight-1.
func (d *Device) DrawStatus(font *tinyfont.Font, label string, textColor color.RGBA) error {
	for i := range d.statusBuf {
		d.statusBuf[i] = 0
	}
	tinyfont.WriteLine(&statusCanvas{buf: d.statusBuf, width: d.width}, font, 0, statusHeight-4, label, textColor)

	if err := d.setWindow(0, d.width-1, 0, statusHeight-1); err != nil {
		return err
	}
	if err := d.sendCommandByte(0x2c); err != nil {
		return err
	}
	return d.sendPixels(d.statusBuf)
}

// NewConsole returns a tinyterm.Terminal that draws into the status-bar
// buffer shared with DrawStatus. The font argument is not applied to the
// terminal, and the terminal's Display does not transmit the buffer:
// nothing the terminal draws is sent to the panel, and the next
// DrawStatus call clears it.
func (d *Device) NewConsole(font *tinyfont.Font) *tinyterm.Terminal {
	return tinyterm.NewTerminal(&statusCanvas{buf: d.statusBuf, width: d.width})
}

func (d *Device) hwReset() {
	d.rst.High()
	time.Sleep(20 * time.Millisecond)
	d.rst.Low()
	time.Sleep(2 * time.Millisecond)
	d.rst.High()
	time.Sleep(20 * time.Millisecond)
}

func (d *Device) waitUntilIdle() {
	time.Sleep(5 * time.Millisecond)
	for d.busy.Get() {
		time.Sleep(1 * time.Millisecond)
	}
}

func (d *Device) setWindow(xstart, xend, ystart, yend int16) error {
	if err := d.sendCommandSequence([]byte{0x2a, byte(xstart >> 8), byte(xstart), byte(xend >> 8), byte(xend)}); err != nil {
		return err
	}
	return d.sendCommandSequence([]byte{0x2b, byte(ystart >> 8), byte(ystart), byte(yend >> 8), byte(yend)})
}

func (d *Device) sendCommandSequence(seq []byte) error {
	if err := d.sendCommandByte(seq[0]); err != nil {
		return err
	}
	for _, b := range seq[1:] {
		if err := d.sendDataByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) sendCommandByte(b byte) error {
	d.dc.Low()
	d.cs.Low()
	_, err := d.bus.Transfer(b)
	d.cs.High()
	return err
}

func (d *Device) sendDataByte(b byte) error {
	d.dc.High()
	d.cs.Low()
	_, err := d.bus.Transfer(b)
	d.cs.High()
	return err
}

// sendPixels streams packed RGB565 values big-endian, the byte order
// every SPI RGB565 panel command set (ILI9341-family 0x2c/MEMORY WRITE)
// expects.
func (d *Device) sendPixels(pixels []uint16) error {
	buf := make([]byte, len(pixels)*2)
	for i, p := range pixels {
		buf[2*i] = byte(p >> 8)
		buf[2*i+1] = byte(p)
	}
	d.dc.High()
	d.cs.Low()
	err := d.bus.Tx(buf, nil)
	d.cs.High()
	return err
}

// statusCanvas adapts a flat RGB565 buffer to tinyfont's and tinyterm's
// pixel-setting Displayer contract, scoped to the status bar only.
type statusCanvas struct {
	buf   []uint16
	width int16
}

func (s *statusCanvas) Size() (x, y int16) { return s.width, statusHeight }

func (s *statusCanvas) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= statusHeight {
		return
	}
	s.buf[int(y)*int(s.width)+int(x)] = pack565(c.R, c.G, c.B)
}

func (s *statusCanvas) Display() error { return nil }

func pack565(r, g, b byte) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}
