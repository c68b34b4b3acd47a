package common

// Block holds an 8x8 block of samples or DCT coefficients in natural
// (row-major) order.
type Block [64]int32

// Fixed point constants for the scaled integer DCT, 13 bits of precision.
const (
	constBits = 13
	pass1Bits = 2

	fix0_298631336 = 2446
	fix0_390180644 = 3196
	fix0_541196100 = 4433
	fix0_765366865 = 6270
	fix0_899976223 = 7373
	fix1_175875602 = 9633
	fix1_501321110 = 12299
	fix1_847759065 = 15137
	fix1_961570560 = 16069
	fix2_053119869 = 16819
	fix2_562915447 = 20995
	fix3_072711026 = 25172
)

// descale right shifts with rounding
func descale(x int32, n uint) int32 {
	return (x + (1 << (n - 1))) >> n
}

// ForwardDCT performs a forward DCT on a level shifted 8x8 block.
//
// This is the "slow but accurate" integer implementation based on
// C. Loeffler, A. Ligtenberg and G. Moschytz, "Practical Fast 1-D DCT
// Algorithms with 11 Multiplications", ICASSP '89, pp. 988-991, using
// their alternate method with 12 multiplies and 32 adds so that no data
// path contains more than one multiplication.
//
// The output is scaled up by an overall factor of 8 compared to a true
// DCT. Quantization tables must account for this scale.
func ForwardDCT(data *Block) {
	// Pass 1: process rows.
	// Results are scaled up by sqrt(8) compared to a true DCT and
	// additionally by 2**pass1Bits.
	for y := 0; y < 8; y++ {
		off := y * 8

		tmp0 := data[off+0] + data[off+7]
		tmp7 := data[off+0] - data[off+7]
		tmp1 := data[off+1] + data[off+6]
		tmp6 := data[off+1] - data[off+6]
		tmp2 := data[off+2] + data[off+5]
		tmp5 := data[off+2] - data[off+5]
		tmp3 := data[off+3] + data[off+4]
		tmp4 := data[off+3] - data[off+4]

		// Even part per LL&M figure 1. Note that the published figure
		// is faulty; rotator "sqrt(2)*c1" should be "sqrt(2)*c6".
		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		data[off+0] = (tmp10 + tmp11) << pass1Bits
		data[off+4] = (tmp10 - tmp11) << pass1Bits

		z1 := (tmp12 + tmp13) * fix0_541196100
		data[off+2] = descale(z1+tmp13*fix0_765366865, constBits-pass1Bits)
		data[off+6] = descale(z1-tmp12*fix1_847759065, constBits-pass1Bits)

		// Odd part per figure 8. The paper omits the factor of sqrt(2).
		// cK represents cos(K*pi/16).
		z1 = tmp4 + tmp7
		z2 := tmp5 + tmp6
		z3 := tmp4 + tmp6
		z4 := tmp5 + tmp7
		z5 := (z3 + z4) * fix1_175875602 // sqrt(2) * c3

		tmp4 *= fix0_298631336  // sqrt(2) * (-c1+c3+c5-c7)
		tmp5 *= fix2_053119869  // sqrt(2) * ( c1+c3-c5+c7)
		tmp6 *= fix3_072711026  // sqrt(2) * ( c1+c3+c5-c7)
		tmp7 *= fix1_501321110  // sqrt(2) * ( c1+c3-c5-c7)
		z1 *= -fix0_899976223   // sqrt(2) * ( c7-c3)
		z2 *= -fix2_562915447   // sqrt(2) * (-c1-c3)
		z3 *= -fix1_961570560   // sqrt(2) * (-c3-c5)
		z4 *= -fix0_390180644   // sqrt(2) * ( c5-c3)

		z3 += z5
		z4 += z5

		data[off+7] = descale(tmp4+z1+z3, constBits-pass1Bits)
		data[off+5] = descale(tmp5+z2+z4, constBits-pass1Bits)
		data[off+3] = descale(tmp6+z2+z3, constBits-pass1Bits)
		data[off+1] = descale(tmp7+z1+z4, constBits-pass1Bits)
	}

	// Pass 2: process columns.
	// Removes the pass1Bits scaling but leaves the results scaled up by
	// an overall factor of 8.
	for x := 0; x < 8; x++ {
		tmp0 := data[8*0+x] + data[8*7+x]
		tmp7 := data[8*0+x] - data[8*7+x]
		tmp1 := data[8*1+x] + data[8*6+x]
		tmp6 := data[8*1+x] - data[8*6+x]
		tmp2 := data[8*2+x] + data[8*5+x]
		tmp5 := data[8*2+x] - data[8*5+x]
		tmp3 := data[8*3+x] + data[8*4+x]
		tmp4 := data[8*3+x] - data[8*4+x]

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		data[8*0+x] = descale(tmp10+tmp11, pass1Bits)
		data[8*4+x] = descale(tmp10-tmp11, pass1Bits)

		z1 := (tmp12 + tmp13) * fix0_541196100
		data[8*2+x] = descale(z1+tmp13*fix0_765366865, constBits+pass1Bits)
		data[8*6+x] = descale(z1-tmp12*fix1_847759065, constBits+pass1Bits)

		z1 = tmp4 + tmp7
		z2 := tmp5 + tmp6
		z3 := tmp4 + tmp6
		z4 := tmp5 + tmp7
		z5 := (z3 + z4) * fix1_175875602

		tmp4 *= fix0_298631336
		tmp5 *= fix2_053119869
		tmp6 *= fix3_072711026
		tmp7 *= fix1_501321110
		z1 *= -fix0_899976223
		z2 *= -fix2_562915447
		z3 *= -fix1_961570560
		z4 *= -fix0_390180644

		z3 += z5
		z4 += z5

		data[8*7+x] = descale(tmp4+z1+z3, constBits+pass1Bits)
		data[8*5+x] = descale(tmp5+z2+z4, constBits+pass1Bits)
		data[8*3+x] = descale(tmp6+z2+z3, constBits+pass1Bits)
		data[8*1+x] = descale(tmp7+z1+z4, constBits+pass1Bits)
	}
}
