package png

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	stdpng "image/png"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

// encodePNG renders img with the standard library's encoder, which this
// package's decoder is then checked against — the same cross-check
// fumin-png's reader_test.go performs.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeAll(t *testing.T, data []byte, opts Options) [][]uint16 {
	t.Helper()
	var rows [][]uint16
	err := Decode(data, opts, func(y, w int, pix []uint16) error {
		if y != len(rows) {
			t.Fatalf("row callback out of order: got y=%d, expected %d", y, len(rows))
		}
		row := make([]uint16, w)
		copy(row, pix)
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rows
}

func TestScenario2x2RGBScale1(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})

	data := encodePNG(t, img)
	rows := decodeAll(t, data, Options{Scale: 1})

	c.Assert(rows, qt.DeepEquals, [][]uint16{
		{0xF800, 0x07E0},
		{0x001F, 0xFFFF},
	})
}

func TestScenario2x2RGBScale2(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})

	data := encodePNG(t, img)
	rows := decodeAll(t, data, Options{Scale: 2})

	// R=G=B sum to 510 over the 2x2 block; §4.7's floor division by
	// scale*scale=4 gives 127, not the rounded 128 spec.md §8 scenario 2
	// illustrates (see DESIGN.md's "Open Questions resolved" entry on this).
	want := pack565(127, 127, 127)
	c.Assert(rows, qt.DeepEquals, [][]uint16{{want}})
	c.Assert(want, qt.Equals, uint16(0x7BEF))
}

func TestScenario1x1Indexed(t *testing.T) {
	c := qt.New(t)
	// A palette of >16 entries forces the standard encoder to choose an
	// 8-bit-per-index PLTE chunk; this decoder only supports bit depth 8
	// or 16 (spec.md §4.2), so the fixture must avoid the 1/2/4-bit PLTE
	// encodings the stdlib encoder uses for smaller palettes.
	pal := make(color.Palette, 32)
	for i := range pal {
		pal[i] = color.NRGBA{uint8(i), uint8(i), uint8(i), 255}
	}
	pal[0] = color.NRGBA{10, 20, 30, 255}
	img := image.NewPaletted(image.Rect(0, 0, 1, 1), pal)
	img.SetColorIndex(0, 0, 0)

	data := encodePNG(t, img)
	rows := decodeAll(t, data, Options{Scale: 1})

	c.Assert(rows, qt.DeepEquals, [][]uint16{{pack565(10, 20, 30)}})
}

func Test16BitMatchesHighByteOf8Bit(t *testing.T) {
	c := qt.New(t)
	const w, h = 6, 5

	img8 := image.NewNRGBA(image.Rect(0, 0, w, h))
	img16 := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8((x*31 + y*7) % 256)
			g := uint8((x*17 + y*53) % 256)
			b := uint8((x*89 + y*3) % 256)
			img8.Set(x, y, color.NRGBA{r, g, b, 255})
			// Low byte varies per spec.md scenario 4 ("arbitrary") but must
			// not affect the decoded result, since only the high byte is kept.
			lo := uint8((x + y) % 256)
			img16.Set(x, y, color.NRGBA64{
				R: uint16(r)<<8 | uint16(lo),
				G: uint16(g)<<8 | uint16(lo^0xAA),
				B: uint16(b)<<8 | uint16(lo^0x55),
				A: 0xFFFF,
			})
		}
	}

	rows8 := decodeAll(t, encodePNG(t, img8), Options{Scale: 1})
	rows16 := decodeAll(t, encodePNG(t, img16), Options{Scale: 1})

	if diff := cmp.Diff(rows8, rows16); diff != "" {
		c.Fatalf("16-bit decode diverged from 8-bit truncation (-8bit +16bit):\n%s", diff)
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 20), uint8(y * 30), uint8(x + y), 255})
		}
	}
	data := encodePNG(t, img)

	a := decodeAll(t, data, Options{Scale: 1})
	b := decodeAll(t, data, Options{Scale: 1})
	c.Assert(a, qt.DeepEquals, b)
}

// --- chunk-splitting helpers, used by the split-IDAT and truncation tests ---

type rawChunk struct {
	typ  string
	data []byte
}

func splitChunks(t *testing.T, data []byte) (sig []byte, chunks []rawChunk) {
	t.Helper()
	sig = append([]byte(nil), data[:8]...)
	off := 8
	for off+12 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		body := append([]byte(nil), data[off+8:off+8+length]...)
		chunks = append(chunks, rawChunk{typ: typ, data: body})
		off += 12 + length
		if typ == "IEND" {
			break
		}
	}
	return sig, chunks
}

func buildChunks(sig []byte, chunks []rawChunk) []byte {
	buf := append([]byte(nil), sig...)
	for _, ch := range chunks {
		hdr := make([]byte, 8)
		binary.BigEndian.PutUint32(hdr[0:4], uint32(len(ch.data)))
		copy(hdr[4:8], ch.typ)
		buf = append(buf, hdr...)
		buf = append(buf, ch.data...)
		buf = append(buf, 0, 0, 0, 0) // CRC is never checked by this decoder
	}
	return buf
}

func TestSplitIDATMatchesSingleIDAT(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 40), uint8(y * 40), 99, 255})
		}
	}
	original := encodePNG(t, img)
	want := decodeAll(t, original, Options{Scale: 1})

	sig, chunks := splitChunks(t, original)
	var split []rawChunk
	for _, ch := range chunks {
		if ch.typ != "IDAT" || len(ch.data) < 2 {
			split = append(split, ch)
			continue
		}
		mid := len(ch.data) / 3
		if mid == 0 {
			mid = 1
		}
		split = append(split, rawChunk{typ: "IDAT", data: ch.data[:mid]})
		split = append(split, rawChunk{typ: "IDAT", data: ch.data[mid:]})
	}
	splitData := buildChunks(sig, split)

	got := decodeAll(t, splitData, Options{Scale: 1})
	c.Assert(got, qt.DeepEquals, want)
}

func TestInterlaceIsRejectedWithoutCallbacks(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	original := encodePNG(t, img)

	sig, chunks := splitChunks(t, original)
	c.Assert(chunks[0].typ, qt.Equals, "IHDR")
	chunks[0].data[12] = 1 // interlace method
	data := buildChunks(sig, chunks)

	called := false
	err := Decode(data, Options{Scale: 1}, func(y, w int, pix []uint16) error {
		called = true
		return nil
	})
	c.Assert(err, qt.ErrorIs, ErrUnsupported)
	c.Assert(called, qt.IsFalse)
}

func TestFewerScanlinesThanDeclaredFailsWithoutPartialRow(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	original := encodePNG(t, img)

	sig, chunks := splitChunks(t, original)
	c.Assert(chunks[0].typ, qt.Equals, "IHDR")
	binary.BigEndian.PutUint32(chunks[0].data[4:8], 6) // claim 6 rows, IDAT only has 4
	data := buildChunks(sig, chunks)

	var rowsSeen int
	err := Decode(data, Options{Scale: 1}, func(y, w int, pix []uint16) error {
		rowsSeen++
		return nil
	})
	c.Assert(err, qt.ErrorIs, ErrTruncated)
	c.Assert(rowsSeen, qt.Equals, 4)
}

func TestInfoReturnsDimensionsWithoutDecoding(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 12, 9))
	data := encodePNG(t, img)

	hdr, err := Info(data)
	c.Assert(err, qt.IsNil)
	c.Assert(hdr.Width, qt.Equals, 12)
	c.Assert(hdr.Height, qt.Equals, 9)
}

func TestDecodeRejectsBadScale(t *testing.T) {
	c := qt.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	data := encodePNG(t, img)

	err := Decode(data, Options{Scale: 3}, func(int, int, []uint16) error { return nil })
	c.Assert(err, qt.ErrorIs, ErrUnsupported)
}

func TestInfoRejectsBadSignature(t *testing.T) {
	c := qt.New(t)
	_, err := Info(make([]byte, 40))
	c.Assert(err, qt.ErrorIs, ErrMalformedSignature)
}
