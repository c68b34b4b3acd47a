package common

// ZigZag maps zig-zag sequence positions to natural (row-major) block
// positions, Figure A.6.
var ZigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10, 17, 24, 32, 25, 18, 11, 4, 5, 12, 19, 26, 33, 40, 48, 41, 34, 27, 20,
	13, 6, 7, 14, 21, 28, 35, 42, 49, 56, 57, 50, 43, 36, 29, 22, 15, 23, 30, 37, 44, 51, 58, 59,
	52, 45, 38, 31, 39, 46, 53, 60, 61, 54, 47, 55, 62, 63,
}

// QuantTableType selects one of the quantization table presets.
//
// The preset tables are based on the tables shipped with mozjpeg
// (jcparam.c).
type QuantTableType int

const (
	// QuantDefault uses the sample tables given in Annex K (Clause K.1)
	// of Recommendation ITU-T T.81 (1992) | ISO/IEC 10918-1:1994.
	QuantDefault QuantTableType = iota

	// QuantFlat uses a flat table of 16s
	QuantFlat

	// QuantMsSsim is tuned for MS-SSIM
	QuantMsSsim

	// QuantPsnrHvs is tuned for PSNR-HVS
	QuantPsnrHvs

	// QuantImageMagick is the ImageMagick table by N. Robidoux
	QuantImageMagick

	// QuantKleinSilversteinCarney is from "Relevance of human vision to
	// JPEG-DCT compression" (1992) Klein, Silverstein and Carney
	QuantKleinSilversteinCarney

	// QuantDentalXRays is from "DCTune perceptual optimization of
	// compressed dental X-Rays" (1997) Watson, Taylor, Borthwick
	QuantDentalXRays

	// QuantVisualDetectionModel is from "A visual detection model for
	// DCT coefficient quantization" (1993) Ahumada, Watson, Peterson
	QuantVisualDetectionModel

	// QuantImprovedDetectionModel is from "An improved detection model
	// for DCT coefficient quantization" (1993) Peterson, Ahumada and
	// Watson
	QuantImprovedDetectionModel
)

var lumaQuantTables = [...][64]uint16{
	QuantDefault: {
		16, 11, 10, 16, 24, 40, 51, 61,
		12, 12, 14, 19, 26, 58, 60, 55,
		14, 13, 16, 24, 40, 57, 69, 56,
		14, 17, 22, 29, 51, 87, 80, 62,
		18, 22, 37, 56, 68, 109, 103, 77,
		24, 35, 55, 64, 81, 104, 113, 92,
		49, 64, 78, 87, 103, 121, 120, 101,
		72, 92, 95, 98, 112, 100, 103, 99,
	},
	QuantFlat: {
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
	},
	QuantMsSsim: {
		12, 17, 20, 21, 30, 34, 56, 63,
		18, 20, 20, 26, 28, 51, 61, 55,
		19, 20, 21, 26, 33, 58, 69, 55,
		26, 26, 26, 30, 46, 87, 86, 66,
		31, 33, 36, 40, 46, 96, 100, 73,
		40, 35, 46, 62, 81, 100, 111, 91,
		46, 66, 76, 86, 102, 121, 120, 101,
		68, 90, 90, 96, 113, 102, 105, 103,
	},
	QuantPsnrHvs: {
		9, 10, 12, 14, 27, 32, 51, 62,
		11, 12, 14, 19, 27, 44, 59, 73,
		12, 14, 18, 25, 42, 59, 79, 78,
		17, 18, 25, 42, 61, 92, 87, 92,
		23, 28, 42, 75, 79, 112, 112, 99,
		40, 42, 59, 84, 88, 124, 132, 111,
		42, 64, 78, 95, 105, 126, 125, 99,
		70, 75, 100, 102, 116, 100, 107, 98,
	},
	QuantImageMagick: {
		16, 16, 16, 18, 25, 37, 56, 85,
		16, 17, 20, 27, 34, 40, 53, 75,
		16, 20, 24, 31, 43, 62, 91, 135,
		18, 27, 31, 40, 53, 74, 106, 156,
		25, 34, 43, 53, 69, 94, 131, 189,
		37, 40, 62, 74, 94, 124, 169, 238,
		56, 53, 91, 106, 131, 169, 226, 311,
		85, 75, 135, 156, 189, 238, 311, 418,
	},
	QuantKleinSilversteinCarney: {
		10, 12, 14, 19, 26, 38, 57, 86,
		12, 18, 21, 28, 35, 41, 54, 76,
		14, 21, 25, 32, 44, 63, 92, 136,
		19, 28, 32, 41, 54, 75, 107, 157,
		26, 35, 44, 54, 70, 95, 132, 190,
		38, 41, 63, 75, 95, 125, 170, 239,
		57, 54, 92, 107, 132, 170, 227, 312,
		86, 76, 136, 157, 190, 239, 312, 419,
	},
	QuantDentalXRays: {
		7, 8, 10, 14, 23, 44, 95, 241,
		8, 8, 11, 15, 25, 47, 102, 255,
		10, 11, 13, 19, 31, 58, 127, 255,
		14, 15, 19, 27, 44, 83, 181, 255,
		23, 25, 31, 44, 72, 136, 255, 255,
		44, 47, 58, 83, 136, 255, 255, 255,
		95, 102, 127, 181, 255, 255, 255, 255,
		241, 255, 255, 255, 255, 255, 255, 255,
	},
	QuantVisualDetectionModel: {
		15, 11, 11, 12, 15, 19, 25, 32,
		11, 13, 10, 10, 12, 15, 19, 24,
		11, 10, 14, 14, 16, 18, 22, 27,
		12, 10, 14, 18, 21, 24, 28, 33,
		15, 12, 16, 21, 26, 31, 36, 42,
		19, 15, 18, 24, 31, 38, 45, 53,
		25, 19, 22, 28, 36, 45, 55, 65,
		32, 24, 27, 33, 42, 53, 65, 77,
	},
	QuantImprovedDetectionModel: {
		14, 10, 11, 14, 19, 25, 34, 45,
		10, 11, 11, 12, 15, 20, 26, 33,
		11, 11, 15, 18, 21, 25, 31, 38,
		14, 12, 18, 24, 28, 33, 39, 47,
		19, 15, 21, 28, 36, 43, 51, 59,
		25, 20, 25, 33, 43, 54, 64, 74,
		34, 26, 31, 39, 51, 64, 77, 91,
		45, 33, 38, 47, 59, 74, 91, 108,
	},
}

var chromaQuantTables = [...][64]uint16{
	QuantDefault: {
		17, 18, 24, 47, 99, 99, 99, 99,
		18, 21, 26, 66, 99, 99, 99, 99,
		24, 26, 56, 99, 99, 99, 99, 99,
		47, 66, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	},
	QuantFlat: {
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
		16, 16, 16, 16, 16, 16, 16, 16,
	},
	QuantMsSsim: {
		8, 12, 15, 15, 86, 96, 96, 98,
		13, 13, 15, 26, 90, 96, 99, 98,
		12, 15, 18, 96, 99, 99, 99, 99,
		17, 16, 90, 96, 99, 99, 99, 99,
		96, 96, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	},
	QuantPsnrHvs: {
		9, 10, 17, 19, 62, 89, 91, 97,
		12, 13, 18, 29, 84, 91, 88, 98,
		14, 19, 29, 93, 95, 95, 98, 97,
		20, 26, 84, 88, 95, 95, 98, 94,
		26, 86, 91, 93, 97, 99, 98, 99,
		99, 100, 98, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		97, 97, 99, 99, 99, 99, 97, 99,
	},
	QuantImageMagick: {
		16, 16, 16, 18, 25, 37, 56, 85,
		16, 17, 20, 27, 34, 40, 53, 75,
		16, 20, 24, 31, 43, 62, 91, 135,
		18, 27, 31, 40, 53, 74, 106, 156,
		25, 34, 43, 53, 69, 94, 131, 189,
		37, 40, 62, 74, 94, 124, 169, 238,
		56, 53, 91, 106, 131, 169, 226, 311,
		85, 75, 135, 156, 189, 238, 311, 418,
	},
	QuantKleinSilversteinCarney: {
		10, 12, 14, 19, 26, 38, 57, 86,
		12, 18, 21, 28, 35, 41, 54, 76,
		14, 21, 25, 32, 44, 63, 92, 136,
		19, 28, 32, 41, 54, 75, 107, 157,
		26, 35, 44, 54, 70, 95, 132, 190,
		38, 41, 63, 75, 95, 125, 170, 239,
		57, 54, 92, 107, 132, 170, 227, 312,
		86, 76, 136, 157, 190, 239, 312, 419,
	},
	QuantDentalXRays: {
		7, 8, 10, 14, 23, 44, 95, 241,
		8, 8, 11, 15, 25, 47, 102, 255,
		10, 11, 13, 19, 31, 58, 127, 255,
		14, 15, 19, 27, 44, 83, 181, 255,
		23, 25, 31, 44, 72, 136, 255, 255,
		44, 47, 58, 83, 136, 255, 255, 255,
		95, 102, 127, 181, 255, 255, 255, 255,
		241, 255, 255, 255, 255, 255, 255, 255,
	},
	QuantVisualDetectionModel: {
		15, 11, 11, 12, 15, 19, 25, 32,
		11, 13, 10, 10, 12, 15, 19, 24,
		11, 10, 14, 14, 16, 18, 22, 27,
		12, 10, 14, 18, 21, 24, 28, 33,
		15, 12, 16, 21, 26, 31, 36, 42,
		19, 15, 18, 24, 31, 38, 45, 53,
		25, 19, 22, 28, 36, 45, 55, 65,
		32, 24, 27, 33, 42, 53, 65, 77,
	},
	QuantImprovedDetectionModel: {
		14, 10, 11, 14, 19, 25, 34, 45,
		10, 11, 11, 12, 15, 20, 26, 33,
		11, 11, 15, 18, 21, 25, 31, 38,
		14, 12, 18, 24, 28, 33, 39, 47,
		19, 15, 21, 28, 36, 43, 51, 59,
		25, 20, 25, 33, 43, 54, 64, 74,
		34, 26, 31, 39, 51, 64, 77, 91,
		45, 33, 38, 47, 59, 74, 91, 108,
	},
}

// quantShift is the fixed point precision of the reciprocal multiply
const quantShift = 2*8 - 1

// computeReciprocal returns a reciprocal and correction term so that
// (|v| + correction) * reciprocal >> quantShift divides |v| by divisor
// with round-to-nearest semantics.
func computeReciprocal(divisor uint32) (int32, int32) {
	if divisor <= 1 {
		return 1, 0
	}

	reciprocal := uint32(1<<quantShift) / divisor
	fractional := uint32(1<<quantShift) % divisor

	correction := divisor / 2

	if fractional != 0 {
		if fractional <= correction {
			correction++
		} else {
			reciprocal++
		}
	}

	return int32(reciprocal), int32(correction)
}

// QuantTable is a quantization table prepared for encoding. The stored
// divisors are premultiplied by 8 to cancel the scale of ForwardDCT.
type QuantTable struct {
	table       [64]uint16
	reciprocals [64]int32
	corrections [64]int32
}

// NewQuantTable builds a quantization table from a preset scaled for
// the given quality (1-100, clamped).
func NewQuantTable(preset QuantTableType, quality int, luma bool) *QuantTable {
	var base *[64]uint16
	if luma {
		base = &lumaQuantTables[preset]
	} else {
		base = &chromaQuantTables[preset]
	}
	return prepareQuantTable(scaleQuantTable(base, quality))
}

// NewCustomQuantTable builds a quantization table from user supplied
// values. Values are clamped to [1, 2048] and not quality scaled.
func NewCustomQuantTable(values *[64]uint16) *QuantTable {
	var table [64]uint16
	for i, v := range values {
		if v < 1 {
			v = 1
		}
		if v > 2<<10 {
			v = 2 << 10
		}
		table[i] = v << 3
	}
	return prepareQuantTable(table)
}

func scaleQuantTable(base *[64]uint16, quality int) [64]uint16 {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	var scale uint32
	if quality < 50 {
		scale = 5000 / uint32(quality)
	} else {
		scale = 200 - uint32(quality)*2
	}

	var table [64]uint16
	for i, v := range base {
		scaled := (uint32(v)*scale + 50) / 100
		if scaled < 1 {
			scaled = 1
		}
		if scaled > 255 {
			scaled = 255
		}
		// Premultiplied by 8 because the DCT output is scaled by 8
		table[i] = uint16(scaled) << 3
	}
	return table
}

func prepareQuantTable(table [64]uint16) *QuantTable {
	q := &QuantTable{table: table}
	for i, v := range table {
		q.reciprocals[i], q.corrections[i] = computeReciprocal(uint32(v))
	}
	return q
}

// Get returns the table value at index without the premultiplied DCT
// scale, as written into the DQT segment.
func (q *QuantTable) Get(index int) byte {
	return byte(q.table[index] >> 3)
}

// Quantize divides a DCT coefficient by the table divisor at index,
// rounding half away from zero.
func (q *QuantTable) Quantize(value int32, index int) int32 {
	abs := value
	if abs < 0 {
		abs = -abs
	}

	product := (abs + q.corrections[index]) * q.reciprocals[index] >> quantShift

	if value < 0 {
		product = -product
	}

	return product
}

// QuantizeBlock quantizes a transformed block into zig-zag order.
func (q *QuantTable) QuantizeBlock(block *Block, out *Block) {
	for i := 0; i < 64; i++ {
		z := ZigZag[i]
		out[i] = q.Quantize(block[z], z)
	}
}
