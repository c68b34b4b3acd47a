package codec

import "errors"

// Common codec errors
var (
	ErrCodecNotFound     = errors.New("codec not found")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidQuality    = errors.New("invalid quality factor")
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
)
