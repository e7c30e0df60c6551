package png

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// maxDimension bounds width/height so stride*height computations stay
// well within int range. There's no equivalent NULL-check in Go — make()
// panics rather than returning an error — so this is the allocation-size
// guard that stands in for spec.md §7's AllocFailed kind.
const maxDimension = 1 << 20

// parseIHDR is the header validator (C2): it extracts width, height, bit
// depth, and color type from a 13-byte IHDR payload and rejects anything
// spec.md §4.2 lists as unsupported.
func parseIHDR(b []byte) (Header, error) {
	if len(b) != 13 {
		return Header{}, errors.WithStack(ErrMalformedHeader)
	}

	w := binary.BigEndian.Uint32(b[0:4])
	h := binary.BigEndian.Uint32(b[4:8])
	depth := b[8]
	colorType := ColorType(b[9])
	compression := b[10]
	filterMethod := b[11]
	interlace := b[12]

	if compression != 0 || filterMethod != 0 {
		return Header{}, errors.Wrap(ErrUnsupported, "unsupported compression or filter method")
	}
	if interlace != 0 {
		return Header{}, errors.Wrap(ErrUnsupported, "interlacing is not supported")
	}
	if depth != 8 && depth != 16 {
		return Header{}, errors.Wrap(ErrUnsupported, "unsupported bit depth")
	}
	if depth == 16 && colorType == ColorPalette {
		return Header{}, errors.Wrap(ErrUnsupported, "16-bit indexed color does not exist")
	}
	switch colorType {
	case ColorGray, ColorRGB, ColorPalette, ColorGrayAlpha, ColorRGBA:
	default:
		return Header{}, errors.Wrap(ErrUnsupported, "unsupported color type")
	}
	if w == 0 || h == 0 {
		return Header{}, errors.Wrap(ErrUnsupported, "zero image dimension")
	}
	if w > maxDimension || h > maxDimension {
		return Header{}, errors.Wrap(ErrAllocFailed, "image dimension too large")
	}

	return Header{
		Width:     int(w),
		Height:    int(h),
		BitDepth:  int(depth),
		ColorType: colorType,
	}, nil
}
