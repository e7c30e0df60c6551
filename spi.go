// Package pngstream ties together a streaming PNG decoder (image/png) with
// a set of small output sinks meant for memory-constrained devices: an SPI
// RGB565 panel, a coarse WS2812 LED preview strip, and MQTT-based decode
// telemetry.
package pngstream

// SPI is the minimal bus contract display/rgbpanel needs. It mirrors
// tinygo.org/x/drivers.SPI's Tx/Transfer shape so board-specific SPI
// implementations (machine.SPI0, machine.SPI1, ...) satisfy it without
// adapters.
type SPI interface {
	// Transfer writes one byte and returns the byte simultaneously read.
	Transfer(w byte) (byte, error)

	// Tx transmits the w buffer and, if r is non-nil and the same length,
	// fills it with the bytes read back. Either may be nil.
	Tx(w, r []byte) error
}
