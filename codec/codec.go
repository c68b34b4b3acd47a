package codec

// Codec is the universal interface for all image encoders
type Codec interface {
	// Encode encodes pixel data into a compressed bitstream
	Encode(params EncodeParams) ([]byte, error)

	// UID returns the unique identifier (typically DICOM Transfer Syntax UID)
	UID() string

	// Name returns a human-readable name
	Name() string
}

// EncodeParams contains parameters for encoding
type EncodeParams struct {
	PixelData  []byte  // Raw pixel data
	Width      int     // Image width
	Height     int     // Image height
	Components int     // Number of color components (1=grayscale, 3=RGB, 4=CMYK)
	BitDepth   int     // Bits per sample (always 8 for DCT based processes)
	Options    Options // Codec-specific options
}

// Options is an interface for codec-specific encoding options
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// BaseOptions provides common options for all codecs
type BaseOptions struct {
	// Quality factor (1-100, higher is better)
	Quality int
}

// Validate validates base options
func (o *BaseOptions) Validate() error {
	if o.Quality < 1 || o.Quality > 100 {
		return ErrInvalidQuality
	}
	return nil
}
