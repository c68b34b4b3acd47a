package common

import "errors"

// Common errors
var (
	ErrInvalidDimensions   = errors.New("invalid image dimensions")
	ErrUnsupportedColor    = errors.New("unsupported color type")
	ErrInvalidComponents   = errors.New("invalid number of components")
	ErrInvalidQuality      = errors.New("invalid quality factor")
	ErrInvalidConfig       = errors.New("invalid encoder configuration")
	ErrInvalidScanScript   = errors.New("invalid scan script")
	ErrInvalidAppSegment   = errors.New("invalid app segment number")
	ErrAppSegmentTooLarge  = errors.New("app segment data too large")
	ErrIccProfileTooLarge  = errors.New("ICC profile data too large")
	ErrBufferTooSmall      = errors.New("image data buffer too small")
	ErrInvalidSamplingMode = errors.New("invalid sampling factor")
)
