package blend

// MulDiv255 multiplies two bytes and divides by 255, rounding to nearest.
//
// Uses Alvy Ray Smith's exact division so that a*255/255 == a for every a;
// compositing over a fully opaque or fully transparent pixel must be lossless.
func MulDiv255(a, b byte) byte {
	return byte(div255(uint16(a)*uint16(b) + 128))
}

// div255 divides x by 255 without a division instruction.
// Formula: (x + (x >> 8)) >> 8. With the +128 bias applied by the caller the
// result equals round(v / 255) for every product v of two bytes.
func div255(x uint16) uint16 {
	return (x + (x >> 8)) >> 8
}

// addClamp adds two byte values with clamping to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// Premultiply converts a straight-alpha channel value to premultiplied.
func Premultiply(c, a byte) byte {
	return MulDiv255(c, a)
}
