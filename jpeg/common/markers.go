package common

// JPEG marker constants
const (
	// Start of Image
	MarkerSOI = 0xFFD8

	// End of Image
	MarkerEOI = 0xFFD9

	// Start of Frame markers
	MarkerSOF0 = 0xFFC0 // Baseline DCT
	MarkerSOF1 = 0xFFC1 // Extended Sequential DCT
	MarkerSOF2 = 0xFFC2 // Progressive DCT

	// Define Huffman Table
	MarkerDHT = 0xFFC4

	// Define Quantization Table
	MarkerDQT = 0xFFDB

	// Define Restart Interval
	MarkerDRI = 0xFFDD

	// Start of Scan
	MarkerSOS = 0xFFDA

	// Application segments
	MarkerAPP0  = 0xFFE0
	MarkerAPP1  = 0xFFE1
	MarkerAPP2  = 0xFFE2
	MarkerAPP14 = 0xFFEE

	// Comment
	MarkerCOM = 0xFFFE

	// Restart markers
	MarkerRST0 = 0xFFD0
	MarkerRST7 = 0xFFD7
)

// MarkerAPP returns the APPn marker for segment number n (0-15)
func MarkerAPP(n int) uint16 {
	return MarkerAPP0 + uint16(n&0x0F)
}

// MarkerRST returns the restart marker for counter n (0-7)
func MarkerRST(n int) uint16 {
	return MarkerRST0 + uint16(n&0x07)
}

// IsRST returns true if the marker is a Restart marker
func IsRST(marker uint16) bool {
	return marker >= MarkerRST0 && marker <= MarkerRST7
}

// HasLength returns true if the marker is followed by a length field
func HasLength(marker uint16) bool {
	if marker == MarkerSOI || marker == MarkerEOI {
		return false
	}
	return !IsRST(marker)
}
