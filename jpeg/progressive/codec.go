package progressive

import (
	"bytes"
	"fmt"

	"github.com/cocosip/go-jpeg-encoder/codec"
	"github.com/cocosip/go-jpeg-encoder/jpeg/common"
	"github.com/cocosip/go-jpeg-encoder/jpeg/encoder"
)

// Codec implements the codec.Codec interface for progressive JPEG
// (DCT, Huffman coding, spectral selection and successive
// approximation).
type Codec struct{}

// NewCodec creates a new progressive JPEG codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode encodes pixel data as progressive JPEG
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	opts := DefaultOptions()
	if params.Options != nil {
		if o, ok := params.Options.(*Options); ok {
			if err := o.Validate(); err != nil {
				return nil, err
			}
			opts = o
		}
	}

	return EncodeWithOptions(
		params.PixelData,
		params.Width,
		params.Height,
		params.Components,
		opts,
	)
}

// UID returns the DICOM Transfer Syntax UID for JPEG Extended
// Progressive (Process 10).
func (c *Codec) UID() string {
	return "1.2.840.10008.1.2.4.55"
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "jpeg-progressive"
}

// Options contains encoding options for progressive JPEG
type Options struct {
	codec.BaseOptions

	// ColorType selects the input pixel layout. When nil it is derived
	// from the component count: 1 grayscale, 3 RGB, 4 CMYK.
	ColorType *encoder.ColorType

	// SamplingFactor overrides the quality based chroma subsampling
	// default when set.
	SamplingFactor *encoder.SamplingFactor

	// Scans selects spectral selection with the given number of scans
	// per component (2-64). Zero uses the standard scan sequence
	// combining spectral selection with successive approximation.
	Scans int

	// ScanScript uses a custom scan sequence. Takes precedence over
	// Scans.
	ScanScript encoder.ScanScript

	// OptimizeHuffman generates Huffman tables from the image
	// statistics in an extra pass.
	OptimizeHuffman bool

	// RestartInterval inserts a restart marker every n MCUs. Zero
	// disables restart markers.
	RestartInterval int
}

// DefaultOptions returns options with default quality 85 and the
// standard scan sequence.
func DefaultOptions() *Options {
	return &Options{
		BaseOptions: codec.BaseOptions{Quality: 85},
	}
}

// Validate validates the options
func (o *Options) Validate() error {
	if err := o.BaseOptions.Validate(); err != nil {
		return err
	}
	if o.Scans != 0 && (o.Scans < 2 || o.Scans > 64) {
		return fmt.Errorf("%w: %d scans per component", common.ErrInvalidScanScript, o.Scans)
	}
	return nil
}

// Encode compresses 8-bit pixel data as progressive JPEG with the
// given quality (1-100) and the standard scan sequence. The pixel
// layout is derived from the component count: 1 grayscale, 3 RGB,
// 4 CMYK.
func Encode(pixelData []byte, width, height, components, quality int) ([]byte, error) {
	opts := DefaultOptions()
	opts.Quality = quality
	return EncodeWithOptions(pixelData, width, height, components, opts)
}

// EncodeWithOptions compresses 8-bit pixel data as progressive JPEG
func EncodeWithOptions(pixelData []byte, width, height, components int, opts *Options) ([]byte, error) {
	colorType, err := resolveColorType(components, opts.ColorType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := encoder.New(&buf, opts.Quality)
	enc.SetProgressive(true)
	if opts.ScanScript != nil {
		enc.SetScanScript(opts.ScanScript)
	} else if opts.Scans != 0 {
		enc.SetProgressiveScans(opts.Scans)
	}
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

// Register registers this codec with the global registry
func init() {
	codec.Register(NewCodec())
}
