package png

// extractPixel is the pixel extractor (C6): given a reconstructed,
// unfiltered scanline, it returns the 8-bit R, G, B for column x under the
// image's color type and bytes-per-channel (spec.md §4.6). For 16-bit
// channels, only the high (even-offset) byte of each channel is used.
func extractPixel(cur []byte, x int, ct ColorType, bpc int, palette [][3]byte) (r, g, b byte) {
	switch ct {
	case ColorGray:
		v := cur[x*bpc]
		return v, v, v
	case ColorRGB:
		o := x * 3 * bpc
		return cur[o], cur[o+bpc], cur[o+2*bpc]
	case ColorPalette:
		idx := int(cur[x])
		if idx < len(palette) {
			p := palette[idx]
			return p[0], p[1], p[2]
		}
		// Out-of-range indices can't be detected without the PLTE length
		// (spec.md §4.6); treat as black rather than indexing out of bounds.
		return 0, 0, 0
	case ColorGrayAlpha:
		v := cur[x*2*bpc]
		return v, v, v
	case ColorRGBA:
		o := x * 4 * bpc
		return cur[o], cur[o+bpc], cur[o+2*bpc]
	default:
		return 0, 0, 0
	}
}
