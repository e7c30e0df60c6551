package png

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// maxIDATChunks bounds how many IDAT chunks a single image may contribute.
// Images with more are silently truncated at this ceiling (spec.md §4.1:
// "subsequent IDATs are silently dropped"). If that cuts the zlib stream
// before every row is decoded, the decompressor reports an unexpected end
// of input and Decode fails with ErrDecompressFailed.
const maxIDATChunks = 64

type idatChunk struct {
	data []byte
}

// chunkScanner is the chunk scanner (C1): it validates the signature and
// IHDR placement, then walks the remaining chunk list collecting PLTE,
// tRNS, and IDAT payloads.
type chunkScanner struct {
	data []byte

	ihdrData     []byte
	palette      [][3]byte
	paletteAlpha [256]byte
	idats        []idatChunk
}

// scanHeader validates only the signature and IHDR chunk, for Info.
func (s *chunkScanner) scanHeader() error {
	if len(s.data) < 33 {
		return errors.WithStack(ErrMalformedSignature)
	}
	if !equalSig(s.data[:8]) {
		return errors.WithStack(ErrMalformedSignature)
	}
	length := binary.BigEndian.Uint32(s.data[8:12])
	if length != 13 || string(s.data[12:16]) != "IHDR" {
		return errors.WithStack(ErrMalformedHeader)
	}
	s.ihdrData = s.data[16:29]
	return nil
}

// scanAll validates the signature+IHDR and walks every chunk after it,
// collecting PLTE, tRNS, and IDAT descriptors until IEND. A chunk that
// would read past the end of the buffer stops scanning silently rather
// than failing — spec.md §4.1 and §9 both call this out as intentional,
// lenient behavior to preserve, not a bug. PLTE/tRNS ordering relative to
// IDAT is likewise not checked, also per spec.md §9.
func (s *chunkScanner) scanAll() error {
	if err := s.scanHeader(); err != nil {
		return err
	}
	for i := range s.paletteAlpha {
		s.paletteAlpha[i] = 255
	}
	colorType := ColorType(s.ihdrData[9])

	// 8 (signature) + 4 (IHDR length) + 4 (IHDR type) + 13 (IHDR data) + 4 (IHDR crc)
	off := 8 + 4 + 4 + 13 + 4
	for off+12 <= len(s.data) {
		length := int(binary.BigEndian.Uint32(s.data[off : off+4]))
		if length < 0 || off+12+length > len(s.data) {
			break
		}
		typ := string(s.data[off+4 : off+8])
		body := s.data[off+8 : off+8+length]

		switch typ {
		case "PLTE":
			n := length / 3
			if n > 256 {
				n = 256
			}
			s.palette = make([][3]byte, n)
			for i := 0; i < n; i++ {
				s.palette[i] = [3]byte{body[i*3], body[i*3+1], body[i*3+2]}
			}
		case "tRNS":
			if colorType == ColorPalette {
				n := length
				if n > 256 {
					n = 256
				}
				copy(s.paletteAlpha[:n], body[:n])
			}
		case "IDAT":
			if len(s.idats) < maxIDATChunks {
				s.idats = append(s.idats, idatChunk{data: body})
			}
		case "IEND":
			return nil
		}

		off += 12 + length
	}
	return nil
}

func equalSig(b []byte) bool {
	for i, v := range pngSignature {
		if b[i] != v {
			return false
		}
	}
	return true
}
