package progressive

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure JPEGProgressiveParameters implements codec.Parameters
var _ codec.Parameters = (*JPEGProgressiveParameters)(nil)

// JPEGProgressiveParameters contains parameters for JPEG Progressive
// compression
type JPEGProgressiveParameters struct {
	// Quality controls the JPEG compression quality (1-100)
	Quality int

	// Scans selects spectral selection with the given number of scans
	// per component (2-64). Zero uses the standard scan sequence.
	Scans int

	// OptimizeHuffman generates Huffman tables from the image
	// statistics instead of using the default tables
	OptimizeHuffman bool

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewProgressiveParameters creates a new JPEGProgressiveParameters
// with default values
func NewProgressiveParameters() *JPEGProgressiveParameters {
	return &JPEGProgressiveParameters{
		Quality: 85, // Default high quality
		params:  make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *JPEGProgressiveParameters) GetParameter(name string) interface{} {
	switch name {
	case "quality":
		return p.Quality
	case "scans":
		return p.Scans
	case "optimizeHuffman":
		return p.OptimizeHuffman
	default:
		// Check custom parameters
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *JPEGProgressiveParameters) SetParameter(name string, value interface{}) {
	switch name {
	case "quality":
		if v, ok := value.(int); ok {
			p.Quality = v
		}
	case "scans":
		if v, ok := value.(int); ok {
			p.Scans = v
		}
	case "optimizeHuffman":
		if v, ok := value.(bool); ok {
			p.OptimizeHuffman = v
		}
	default:
		// Store as custom parameter
		p.params[name] = value
	}
}

// Validate checks if the parameters are valid
func (p *JPEGProgressiveParameters) Validate() error {
	if p.Quality < 1 || p.Quality > 100 {
		p.Quality = 85 // Reset to default
	}
	if p.Scans != 0 && (p.Scans < 2 || p.Scans > 64) {
		p.Scans = 0 // Reset to the standard scan sequence
	}
	return nil
}

// WithQuality sets the quality and returns the parameters for chaining
func (p *JPEGProgressiveParameters) WithQuality(quality int) *JPEGProgressiveParameters {
	p.Quality = quality
	return p
}

// WithScans sets the scans per component and returns the parameters
// for chaining
func (p *JPEGProgressiveParameters) WithScans(scans int) *JPEGProgressiveParameters {
	p.Scans = scans
	return p
}

// ToOptions converts the parameters to encoder options
func (p *JPEGProgressiveParameters) ToOptions() *Options {
	opts := DefaultOptions()
	opts.Quality = p.Quality
	opts.Scans = p.Scans
	opts.OptimizeHuffman = p.OptimizeHuffman
	return opts
}
