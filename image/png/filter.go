package png

import "github.com/pkg/errors"

// Filter types, as per the PNG spec (spec.md §4.5).
const (
	filterNone  = 0
	filterSub   = 1
	filterUp    = 2
	filterAvg   = 3
	filterPaeth = 4
)

// unfilterRow is the filter reconstructor (C5): it reverses one of the
// five PNG scanline filters in place, using prev as read-only context.
// bpp is the filter's lookback distance (bytes per pixel).
//
// spec.md §9 flags filter values outside 0..4 as a place where
// "tightening is recommended" over the original's silent identity
// treatment; this implementation takes that recommendation and rejects
// them with ErrUnsupported instead.
func unfilterRow(filter byte, cur, prev []byte, bpp int) error {
	switch filter {
	case filterNone:
		// no-op
	case filterSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case filterUp:
		for i := range cur {
			cur[i] += prev[i]
		}
	case filterAvg:
		for i := 0; i < len(cur); i++ {
			var a byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			cur[i] += byte((int(a) + int(prev[i])) / 2)
		}
	case filterPaeth:
		for i := 0; i < len(cur); i++ {
			var a, c byte
			if i >= bpp {
				a = cur[i-bpp]
				c = prev[i-bpp]
			}
			cur[i] += paeth(a, prev[i], c)
		}
	default:
		return errors.Wrap(ErrUnsupported, "unsupported scanline filter type")
	}
	return nil
}

// paeth is the Paeth predictor used by filter type 4.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
