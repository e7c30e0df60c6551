package png

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPaethCorners(t *testing.T) {
	c := qt.New(t)
	for a := 0; a < 256; a += 37 {
		for b := 0; b < 256; b += 53 {
			av, bv := byte(a), byte(b)
			c.Assert(paeth(av, av, av), qt.Equals, av)
			c.Assert(paeth(av, bv, bv), qt.Equals, av)
			c.Assert(paeth(av, bv, av), qt.Equals, bv)
		}
	}
}

// applyFilter is the forward transform, used only to build fixtures for
// the round-trip property below. Encoding is out of spec.md's scope
// (§1 Non-goals), so this stays test-local rather than living in filter.go.
func applyFilter(filter byte, cur, prev []byte, bpp int) []byte {
	out := make([]byte, len(cur))
	copy(out, cur)
	switch filter {
	case filterNone:
	case filterSub:
		for i := bpp; i < len(out); i++ {
			out[i] = cur[i] - cur[i-bpp]
		}
	case filterUp:
		for i := range out {
			out[i] = cur[i] - prev[i]
		}
	case filterAvg:
		for i := 0; i < len(out); i++ {
			var a byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			out[i] = cur[i] - byte((int(a)+int(prev[i]))/2)
		}
	case filterPaeth:
		for i := 0; i < len(out); i++ {
			var a, c byte
			if i >= bpp {
				a = cur[i-bpp]
				c = prev[i-bpp]
			}
			out[i] = cur[i] - paeth(a, prev[i], c)
		}
	}
	return out
}

func TestFilterRoundTrip(t *testing.T) {
	c := qt.New(t)
	bpp := 3
	prev := []byte{10, 20, 30, 200, 210, 220, 1, 2, 3}
	original := []byte{5, 250, 128, 64, 64, 64, 0, 255, 17}

	for _, f := range []byte{filterNone, filterSub, filterUp, filterAvg, filterPaeth} {
		encoded := applyFilter(f, original, prev, bpp)
		decoded := make([]byte, len(encoded))
		copy(decoded, encoded)
		err := unfilterRow(f, decoded, prev, bpp)
		c.Assert(err, qt.IsNil)
		c.Assert(decoded, qt.DeepEquals, original)
	}
}

func TestUnfilterRejectsUnknownFilterType(t *testing.T) {
	c := qt.New(t)
	cur := make([]byte, 6)
	prev := make([]byte, 6)
	err := unfilterRow(5, cur, prev, 3)
	c.Assert(err, qt.ErrorIs, ErrUnsupported)
}
