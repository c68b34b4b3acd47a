package baseline

import (
	"bytes"
	"fmt"

	"github.com/cocosip/go-jpeg-encoder/jpeg/common"
	"github.com/cocosip/go-jpeg-encoder/jpeg/encoder"
)

// Encode compresses 8-bit pixel data as baseline JPEG with the given
// quality (1-100). The pixel layout is derived from the component
// count: 1 grayscale, 3 RGB, 4 CMYK.
func Encode(pixelData []byte, width, height, components, quality int) ([]byte, error) {
	opts := DefaultOptions()
	opts.Quality = quality
	return EncodeWithOptions(pixelData, width, height, components, opts)
}

// EncodeWithOptions compresses 8-bit pixel data as baseline JPEG
func EncodeWithOptions(pixelData []byte, width, height, components int, opts *Options) ([]byte, error) {
	colorType, err := resolveColorType(components, opts.ColorType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := encoder.New(&buf, opts.Quality)
	if opts.SamplingFactor != nil {
		enc.SetSamplingFactor(*opts.SamplingFactor)
	}
	enc.SetOptimizedHuffmanTables(opts.OptimizeHuffman)
	enc.SetRestartInterval(opts.RestartInterval)

	if err := enc.Encode(pixelData, width, height, colorType); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resolveColorType(components int, override *encoder.ColorType) (encoder.ColorType, error) {
	if override != nil {
		if override.BytesPerPixel() != components {
			return 0, fmt.Errorf("%w: color type needs %d components, got %d",
				common.ErrInvalidComponents, override.BytesPerPixel(), components)
		}
		return *override, nil
	}

	switch components {
	case 1:
		return encoder.ColorLuma, nil
	case 3:
		return encoder.ColorRgb, nil
	case 4:
		return encoder.ColorCmyk, nil
	default:
		return 0, fmt.Errorf("%w: %d", common.ErrInvalidComponents, components)
	}
}
