package png

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

// newZlibDecompressor is the default Decompressor factory. It wraps
// klauspost/compress/zlib, a lighter-footprint drop-in for the standard
// library's compress/zlib (the same substitution other_examples' go-openexr
// codec makes). The 32 KiB sliding dictionary spec.md §3/§4.3 describes is
// owned entirely by this dependency — spec.md §1 treats the DEFLATE/zlib
// decompressor as an out-of-scope black box, so it is not reimplemented
// here.
func newZlibDecompressor(r io.Reader) (Decompressor, error) {
	return zlib.NewReader(r)
}
