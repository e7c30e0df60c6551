// Package png implements a streaming PNG decoder for memory-constrained
// devices whose output sink is a 16-bit RGB565 framebuffer.
//
// Unlike the standard library's image/png, this decoder never materializes
// a full image in memory. It parses chunks, pulls decompressed IDAT bytes
// through a pluggable Decompressor, reconstructs one scanline at a time,
// and hands packed RGB565 rows to a caller-supplied RowFunc as soon as
// they're ready. Optional 1/2/4 box-average downscaling keeps the output
// buffer small without buffering more than one accumulator row.
package png

import (
	"io"

	"github.com/pkg/errors"
)

// RowFunc receives one decoded, RGB565-packed row. y is the output row
// index (0-based, strictly increasing across a single Decode call). pixels
// has exactly width entries and must not be retained past the call: the
// decoder reuses its backing array for the next row.
//
// A non-nil return aborts Decode immediately with that error.
type RowFunc func(y, width int, pixels []uint16) error

// Header holds the dimensions and format of a PNG, as reported by Info or
// populated internally before Decode begins streaming rows.
type Header struct {
	Width, Height int
	BitDepth      int
	ColorType     ColorType
}

// ColorType mirrors the PNG IHDR color type byte.
type ColorType uint8

const (
	ColorGray      ColorType = 0
	ColorRGB       ColorType = 2
	ColorPalette   ColorType = 3
	ColorGrayAlpha ColorType = 4
	ColorRGBA      ColorType = 6
)

// Options configures Decode. The zero value decodes at full resolution
// using the default zlib-backed Decompressor.
type Options struct {
	// Scale downsamples the image by this factor using box averaging.
	// Must be 1, 2, or 4; 0 is treated as 1.
	Scale int

	// NewDecompressor, if set, overrides the default
	// klauspost/compress/zlib-backed Decompressor. Embedded targets that
	// need a smaller decompressor can plug one in here.
	NewDecompressor func(io.Reader) (Decompressor, error)
}

// Decompressor is the pluggable streaming DEFLATE/zlib primitive C3 (the
// inflate driver) is built on. spec.md treats the decompressor as an
// external black box; this is the seam that lets a concrete
// implementation be swapped in per Decode call (Options.NewDecompressor)
// instead of relying on inheritance or a global.
type Decompressor interface {
	io.Reader
}

// Info validates the signature and IHDR chunk and returns the image's
// dimensions without decoding any pixel data.
func Info(image []byte) (Header, error) {
	s := chunkScanner{data: image}
	if err := s.scanHeader(); err != nil {
		return Header{}, err
	}
	return parseIHDR(s.ihdrData)
}

// Decode streams a complete in-memory PNG image through row, which is
// called once per output row in increasing y order. opts.Scale selects
// 1x/2x/4x box-average downscaling.
func Decode(image []byte, opts Options, row RowFunc) error {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale != 1 && scale != 2 && scale != 4 {
		return errors.Wrap(ErrUnsupported, "scale must be 1, 2, or 4")
	}

	s := chunkScanner{data: image}
	if err := s.scanAll(); err != nil {
		return err
	}

	hdr, err := parseIHDR(s.ihdrData)
	if err != nil {
		return err
	}
	if len(s.idats) == 0 {
		return errors.WithStack(ErrNoImageData)
	}

	outW := hdr.Width / scale
	outH := hdr.Height / scale
	if outW == 0 || outH == 0 {
		return errors.Wrap(ErrUnsupported, "downscale collapses image to zero size")
	}

	bpc := hdr.BitDepth / 8
	bpp, err := bytesPerPixel(hdr.ColorType, bpc)
	if err != nil {
		return err
	}
	stride := hdr.Width * bpp

	newDecomp := opts.NewDecompressor
	if newDecomp == nil {
		newDecomp = newZlibDecompressor
	}

	dec, err := newDecomp(newIDATReader(s.idats))
	if err != nil {
		return errors.Wrap(ErrDecompressFailed, err.Error())
	}
	if closer, ok := dec.(io.Closer); ok {
		defer closer.Close()
	}

	asm := newScanlineAssembler(stride, bpp, hdr.Height)
	pk := newPacker(hdr, scale, s.palette)

	asm.onRow = func(cur []byte) error {
		return pk.process(asm.row, cur, row)
	}

	buf := make([]byte, 4096)
	for {
		n, readErr := dec.Read(buf)
		if n > 0 {
			done, err := asm.feed(buf[:n])
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrap(ErrDecompressFailed, readErr.Error())
		}
	}

	if asm.row < hdr.Height {
		return errors.WithStack(ErrTruncated)
	}
	return nil
}

func bytesPerPixel(ct ColorType, bpc int) (int, error) {
	switch ct {
	case ColorGray:
		return 1 * bpc, nil
	case ColorRGB:
		return 3 * bpc, nil
	case ColorPalette:
		return 1, nil
	case ColorGrayAlpha:
		return 2 * bpc, nil
	case ColorRGBA:
		return 4 * bpc, nil
	default:
		return 0, errors.Wrap(ErrUnsupported, "unknown color type")
	}
}
