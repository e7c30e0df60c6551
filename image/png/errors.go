package png

import "github.com/pkg/errors"

// Internal error kinds from spec.md §7. All are surfaced to callers of
// Decode/Info as plain errors; callers that need to distinguish a kind can
// use errors.Is against these sentinels.
var (
	ErrMalformedSignature = errors.New("png: malformed signature")
	ErrMalformedHeader    = errors.New("png: malformed or missing IHDR")
	ErrUnsupported        = errors.New("png: unsupported feature")
	ErrNoImageData        = errors.New("png: no IDAT chunks")
	ErrDecompressFailed   = errors.New("png: decompression failed")
	ErrAllocFailed        = errors.New("png: buffer size too large to allocate")
	ErrTruncated          = errors.New("png: truncated before all scanlines were decoded")
)
