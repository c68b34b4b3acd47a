package encoder

import "github.com/cocosip/go-jpeg-encoder/jpeg/common"

// SamplingFactor is the chroma subsampling applied to an image. The
// factors describe the luminance sampling relative to chrominance, so
// F2x2 halves the chroma resolution in both directions.
type SamplingFactor int

const (
	// F1x1 keeps full chroma resolution (4:4:4)
	F1x1 SamplingFactor = iota

	// F2x1 halves the horizontal chroma resolution (4:2:2)
	F2x1

	// F1x2 halves the vertical chroma resolution (4:4:0)
	F1x2

	// F2x2 halves the chroma resolution in both directions (4:2:0)
	F2x2

	// F4x1 quarters the horizontal chroma resolution (4:1:1)
	F4x1

	// F4x2 quarters horizontally and halves vertically (4:1:0)
	F4x2

	// F1x4 quarters the vertical chroma resolution
	F1x4

	// F2x4 halves horizontally and quarters vertically
	F2x4
)

// Aliases using the common subsampling ratio notation.
const (
	R4x4x4 = F1x1
	R4x2x2 = F2x1
	R4x4x0 = F1x2
	R4x2x0 = F2x2
	R4x1x1 = F4x1
	R4x1x0 = F4x2
)

// SamplingFactorFromRatio returns the sampling factor for horizontal
// and vertical luminance factors.
func SamplingFactorFromRatio(horizontal, vertical int) (SamplingFactor, error) {
	switch [2]int{horizontal, vertical} {
	case [2]int{1, 1}:
		return F1x1, nil
	case [2]int{2, 1}:
		return F2x1, nil
	case [2]int{1, 2}:
		return F1x2, nil
	case [2]int{2, 2}:
		return F2x2, nil
	case [2]int{4, 1}:
		return F4x1, nil
	case [2]int{4, 2}:
		return F4x2, nil
	case [2]int{1, 4}:
		return F1x4, nil
	case [2]int{2, 4}:
		return F2x4, nil
	default:
		return 0, common.ErrInvalidSamplingMode
	}
}

// Ratio returns the horizontal and vertical luminance sampling factors
func (f SamplingFactor) Ratio() (int, int) {
	switch f {
	case F2x1:
		return 2, 1
	case F1x2:
		return 1, 2
	case F2x2:
		return 2, 2
	case F4x1:
		return 4, 1
	case F4x2:
		return 4, 2
	case F1x4:
		return 1, 4
	case F2x4:
		return 2, 4
	default:
		return 1, 1
	}
}

// SupportsInterleaved reports whether a single interleaved scan may be
// used. Baseline MCUs are limited to sampling factors of at most two.
func (f SamplingFactor) SupportsInterleaved() bool {
	h, v := f.Ratio()
	return h <= 2 && v <= 2
}

// SubsamplingMode selects how chroma samples are reduced
type SubsamplingMode int

const (
	// SubsampleAverage averages each box of samples (default)
	SubsampleAverage SubsamplingMode = iota

	// SubsampleDrop keeps the top-left sample of each box
	SubsampleDrop
)
