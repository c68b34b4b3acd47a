package encoder

import (
	"github.com/cocosip/go-jpeg-encoder/jpeg/common"
)

// JpegColorType is the colorspace used inside the encoded image
type JpegColorType int

const (
	// JpegLuma is one component grayscale
	JpegLuma JpegColorType = iota

	// JpegYCbCr is the three component YCbCr colorspace
	JpegYCbCr

	// JpegCmyk is the four component inverted CMYK colorspace
	JpegCmyk

	// JpegYcck is the four component YCbCrK colorspace
	JpegYcck
)

// Components returns the number of color components
func (c JpegColorType) Components() int {
	switch c {
	case JpegLuma:
		return 1
	case JpegYCbCr:
		return 3
	default:
		return 4
	}
}

// ColorType describes the pixel layout of input image data
type ColorType int

const (
	// ColorLuma is grayscale with 1 byte per pixel
	ColorLuma ColorType = iota

	// ColorRgb is RGB with 3 bytes per pixel
	ColorRgb

	// ColorRgba is RGBA with 4 bytes per pixel. The alpha channel is
	// ignored during encoding.
	ColorRgba

	// ColorBgr is BGR with 3 bytes per pixel
	ColorBgr

	// ColorBgra is BGRA with 4 bytes per pixel. The alpha channel is
	// ignored during encoding.
	ColorBgra

	// ColorYcbcr is YCbCr with 3 bytes per pixel
	ColorYcbcr

	// ColorCmyk is CMYK with 4 bytes per pixel
	ColorCmyk

	// ColorCmykAsYcck is CMYK with 4 bytes per pixel, encoded as YCCK
	ColorCmykAsYcck

	// ColorYcck is YCCK (YCbCrK) with 4 bytes per pixel
	ColorYcck
)

// BytesPerPixel returns the input bytes per pixel
func (c ColorType) BytesPerPixel() int {
	switch c {
	case ColorLuma:
		return 1
	case ColorRgb, ColorBgr, ColorYcbcr:
		return 3
	default:
		return 4
	}
}

// ImageBuffer supplies pixel rows to the encoder. Implement it to
// encode pixel layouts not covered by the packaged ColorType values.
type ImageBuffer interface {
	// JpegColorType returns the colorspace used for encoding
	JpegColorType() JpegColorType

	// Width returns the image width in pixels
	Width() int

	// Height returns the image height in pixels
	Height() int

	// FillRow appends the color component samples of row y to the
	// per-component buffers. Unused components are left untouched.
	FillRow(y int, buffers *[4][]byte)
}

// NewImageBuffer wraps raw pixel data in an ImageBuffer for one of the
// packaged color types.
func NewImageBuffer(data []byte, width, height int, color ColorType) (ImageBuffer, error) {
	required := width * height * color.BytesPerPixel()
	if len(data) < required {
		return nil, common.ErrBufferTooSmall
	}

	switch color {
	case ColorLuma:
		return &grayImage{data, width, height}, nil
	case ColorRgb:
		return &rgbImage{data, width, height, 3, 0, 1, 2}, nil
	case ColorRgba:
		return &rgbImage{data, width, height, 4, 0, 1, 2}, nil
	case ColorBgr:
		return &rgbImage{data, width, height, 3, 2, 1, 0}, nil
	case ColorBgra:
		return &rgbImage{data, width, height, 4, 2, 1, 0}, nil
	case ColorYcbcr:
		return &ycbcrImage{data, width, height}, nil
	case ColorCmyk:
		return &cmykImage{data, width, height}, nil
	case ColorCmykAsYcck:
		return &cmykAsYcckImage{data, width, height}, nil
	case ColorYcck:
		return &ycckImage{data, width, height}, nil
	default:
		return nil, common.ErrUnsupportedColor
	}
}

func rowSlice(data []byte, y, width, bytesPerPixel int) []byte {
	start := y * width * bytesPerPixel
	return data[start : start+width*bytesPerPixel]
}

type grayImage struct {
	data          []byte
	width, height int
}

func (img *grayImage) JpegColorType() JpegColorType { return JpegLuma }
func (img *grayImage) Width() int                   { return img.width }
func (img *grayImage) Height() int                  { return img.height }

func (img *grayImage) FillRow(y int, buffers *[4][]byte) {
	buffers[0] = append(buffers[0], rowSlice(img.data, y, img.width, 1)...)
}

// rgbImage covers the RGB byte orders. Offsets select the red, green
// and blue positions inside each pixel.
type rgbImage struct {
	data             []byte
	width, height    int
	bytesPerPixel    int
	rOff, gOff, bOff int
}

func (img *rgbImage) JpegColorType() JpegColorType { return JpegYCbCr }
func (img *rgbImage) Width() int                   { return img.width }
func (img *rgbImage) Height() int                  { return img.height }

func (img *rgbImage) FillRow(y int, buffers *[4][]byte) {
	row := rowSlice(img.data, y, img.width, img.bytesPerPixel)

	for x := 0; x < img.width; x++ {
		pixel := row[x*img.bytesPerPixel:]
		y1, cb, cr := common.RGBToYCbCr(pixel[img.rOff], pixel[img.gOff], pixel[img.bOff])

		buffers[0] = append(buffers[0], y1)
		buffers[1] = append(buffers[1], cb)
		buffers[2] = append(buffers[2], cr)
	}
}

type ycbcrImage struct {
	data          []byte
	width, height int
}

func (img *ycbcrImage) JpegColorType() JpegColorType { return JpegYCbCr }
func (img *ycbcrImage) Width() int                   { return img.width }
func (img *ycbcrImage) Height() int                  { return img.height }

func (img *ycbcrImage) FillRow(y int, buffers *[4][]byte) {
	row := rowSlice(img.data, y, img.width, 3)

	for x := 0; x < img.width; x++ {
		buffers[0] = append(buffers[0], row[x*3])
		buffers[1] = append(buffers[1], row[x*3+1])
		buffers[2] = append(buffers[2], row[x*3+2])
	}
}

// cmykImage stores the channels inverted per the Adobe convention
type cmykImage struct {
	data          []byte
	width, height int
}

func (img *cmykImage) JpegColorType() JpegColorType { return JpegCmyk }
func (img *cmykImage) Width() int                   { return img.width }
func (img *cmykImage) Height() int                  { return img.height }

func (img *cmykImage) FillRow(y int, buffers *[4][]byte) {
	row := rowSlice(img.data, y, img.width, 4)

	for x := 0; x < img.width; x++ {
		buffers[0] = append(buffers[0], 255-row[x*4])
		buffers[1] = append(buffers[1], 255-row[x*4+1])
		buffers[2] = append(buffers[2], 255-row[x*4+2])
		buffers[3] = append(buffers[3], 255-row[x*4+3])
	}
}

type cmykAsYcckImage struct {
	data          []byte
	width, height int
}

func (img *cmykAsYcckImage) JpegColorType() JpegColorType { return JpegYcck }
func (img *cmykAsYcckImage) Width() int                   { return img.width }
func (img *cmykAsYcckImage) Height() int                  { return img.height }

func (img *cmykAsYcckImage) FillRow(y int, buffers *[4][]byte) {
	row := rowSlice(img.data, y, img.width, 4)

	for x := 0; x < img.width; x++ {
		y1, cb, cr, k := common.CMYKToYCCK(row[x*4], row[x*4+1], row[x*4+2], row[x*4+3])

		buffers[0] = append(buffers[0], y1)
		buffers[1] = append(buffers[1], cb)
		buffers[2] = append(buffers[2], cr)
		buffers[3] = append(buffers[3], k)
	}
}

type ycckImage struct {
	data          []byte
	width, height int
}

func (img *ycckImage) JpegColorType() JpegColorType { return JpegYcck }
func (img *ycckImage) Width() int                   { return img.width }
func (img *ycckImage) Height() int                  { return img.height }

func (img *ycckImage) FillRow(y int, buffers *[4][]byte) {
	row := rowSlice(img.data, y, img.width, 4)

	for x := 0; x < img.width; x++ {
		buffers[0] = append(buffers[0], row[x*4])
		buffers[1] = append(buffers[1], row[x*4+1])
		buffers[2] = append(buffers[2], row[x*4+2])
		buffers[3] = append(buffers[3], row[x*4+3])
	}
}
