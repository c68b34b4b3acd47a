package common

// RGBToYCbCr converts an RGB pixel to YCbCr.
//
// To avoid floating point math this scales everything by 2^16 which
// gives a precision of approximately 4 digits.
//
// Non scaled conversion:
//
//	Y  =  0.29900 * R + 0.58700 * G + 0.11400 * B
//	Cb = -0.16874 * R - 0.33126 * G + 0.50000 * B + 128
//	Cr =  0.50000 * R - 0.41869 * G - 0.08131 * B + 128
func RGBToYCbCr(r, g, b byte) (byte, byte, byte) {
	r1 := int32(r)
	g1 := int32(g)
	b1 := int32(b)

	y := 19595*r1 + 38470*g1 + 7471*b1
	cb := -11059*r1 - 21709*g1 + 32768*b1 + (128 << 16)
	cr := 32768*r1 - 27439*g1 - 5329*b1 + (128 << 16)

	y = (y + 0x7FFF) >> 16
	cb = (cb + 0x7FFF) >> 16
	cr = (cr + 0x7FFF) >> 16

	return byte(y), byte(cb), byte(cr)
}

// CMYKToYCCK converts a CMYK pixel to YCCK (YCbCrK). The K channel is
// stored inverted per the Adobe convention.
func CMYKToYCCK(c, m, y, k byte) (byte, byte, byte, byte) {
	y1, cb, cr := RGBToYCbCr(c, m, y)
	return y1, cb, cr, 255 - k
}
