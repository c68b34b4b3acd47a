package baseline

import (
	"github.com/cocosip/go-jpeg-encoder/codec"
	"github.com/cocosip/go-jpeg-encoder/jpeg/encoder"
)

// Codec implements the codec.Codec interface for baseline sequential
// JPEG (DCT, Huffman coding, 8-bit precision).
type Codec struct{}

// NewCodec creates a new baseline JPEG codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode encodes pixel data as baseline JPEG
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

// UID returns the DICOM Transfer Syntax UID for JPEG Baseline
// (Process 1).
func (c *Codec) UID() string {
	return "1.2.840.10008.1.2.4.50"
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "jpeg-baseline"
}

// Options contains encoding options for baseline JPEG
type Options struct {
	codec.BaseOptions

	// ColorType selects the input pixel layout. When nil it is derived
	// from the component count: 1 grayscale, 3 RGB, 4 CMYK.
	ColorType *encoder.ColorType

	// SamplingFactor overrides the quality based chroma subsampling
	// default when set.
	SamplingFactor *encoder.SamplingFactor

	// OptimizeHuffman generates Huffman tables from the image
	// statistics in an extra pass.
	OptimizeHuffman bool

	// RestartInterval inserts a restart marker every n MCUs. Zero
	// disables restart markers.
	RestartInterval int
}

// DefaultOptions returns options with default quality 85
func DefaultOptions() *Options {
	return &Options{
		BaseOptions: codec.BaseOptions{Quality: 85},
	}
}

// Validate validates the options
func (o *Options) Validate() error {
	// Quality is validated in BaseOptions
	return o.BaseOptions.Validate()
}

// Register registers this codec with the global registry
func init() {
	codec.Register(NewCodec())
}
