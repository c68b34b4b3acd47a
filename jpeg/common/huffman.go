package common

import "math/bits"

// CodingClass selects between DC and AC Huffman tables
type CodingClass int

const (
	CodingClassDC CodingClass = 0
	CodingClassAC CodingClass = 1
)

// The default tables are taken from section K.3 "Typical Huffman tables
// for 8-bit precision luminance and chrominance".

var defaultLumaDCLengths = [16]byte{
	0x00, 0x01, 0x05, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

var defaultLumaDCValues = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0A, 0x0B,
}

var defaultChromaDCLengths = [16]byte{
	0x00, 0x03, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
}

var defaultChromaDCValues = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0A, 0x0B,
}

var defaultLumaACLengths = [16]byte{
	0x00, 0x02, 0x01, 0x03, 0x03, 0x02, 0x04, 0x03,
	0x05, 0x05, 0x04, 0x04, 0x00, 0x00, 0x01, 0x7D,
}

var defaultLumaACValues = []byte{
	0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
	0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
	0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xA1, 0x08,
	0x23, 0x42, 0xB1, 0xC1, 0x15, 0x52, 0xD1, 0xF0,
	0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0A, 0x16,
	0x17, 0x18, 0x19, 0x1A, 0x25, 0x26, 0x27, 0x28,
	0x29, 0x2A, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
	0x3A, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
	0x4A, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
	0x5A, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
	0x6A, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
	0x7A, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
	0x8A, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
	0x99, 0x9A, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7,
	0xA8, 0xA9, 0xAA, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6,
	0xB7, 0xB8, 0xB9, 0xBA, 0xC2, 0xC3, 0xC4, 0xC5,
	0xC6, 0xC7, 0xC8, 0xC9, 0xCA, 0xD2, 0xD3, 0xD4,
	0xD5, 0xD6, 0xD7, 0xD8, 0xD9, 0xDA, 0xE1, 0xE2,
	0xE3, 0xE4, 0xE5, 0xE6, 0xE7, 0xE8, 0xE9, 0xEA,
	0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, 0xF8,
	0xF9, 0xFA,
}

var defaultChromaACLengths = [16]byte{
	0x00, 0x02, 0x01, 0x02, 0x04, 0x04, 0x03, 0x04,
	0x07, 0x05, 0x04, 0x04, 0x00, 0x01, 0x02, 0x77,
}

var defaultChromaACValues = []byte{
	0x00, 0x01, 0x02, 0x03, 0x11, 0x04, 0x05, 0x21,
	0x31, 0x06, 0x12, 0x41, 0x51, 0x07, 0x61, 0x71,
	0x13, 0x22, 0x32, 0x81, 0x08, 0x14, 0x42, 0x91,
	0xA1, 0xB1, 0xC1, 0x09, 0x23, 0x33, 0x52, 0xF0,
	0x15, 0x62, 0x72, 0xD1, 0x0A, 0x16, 0x24, 0x34,
	0xE1, 0x25, 0xF1, 0x17, 0x18, 0x19, 0x1A, 0x26,
	0x27, 0x28, 0x29, 0x2A, 0x35, 0x36, 0x37, 0x38,
	0x39, 0x3A, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48,
	0x49, 0x4A, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58,
	0x59, 0x5A, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68,
	0x69, 0x6A, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78,
	0x79, 0x7A, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
	0x88, 0x89, 0x8A, 0x92, 0x93, 0x94, 0x95, 0x96,
	0x97, 0x98, 0x99, 0x9A, 0xA2, 0xA3, 0xA4, 0xA5,
	0xA6, 0xA7, 0xA8, 0xA9, 0xAA, 0xB2, 0xB3, 0xB4,
	0xB5, 0xB6, 0xB7, 0xB8, 0xB9, 0xBA, 0xC2, 0xC3,
	0xC4, 0xC5, 0xC6, 0xC7, 0xC8, 0xC9, 0xCA, 0xD2,
	0xD3, 0xD4, 0xD5, 0xD6, 0xD7, 0xD8, 0xD9, 0xDA,
	0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7, 0xE8, 0xE9,
	0xEA, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, 0xF8,
	0xF9, 0xFA,
}

// HuffmanCode is an assigned code for one symbol
type HuffmanCode struct {
	Size int
	Code uint16
}

// HuffmanTable holds a canonical Huffman table in the form written to
// DHT segments plus a per-symbol code lookup for encoding.
type HuffmanTable struct {
	lengths [16]byte
	values  []byte
	codes   [256]HuffmanCode
}

// NewHuffmanTable builds a table from code lengths and symbol values in
// DHT segment order.
func NewHuffmanTable(lengths [16]byte, values []byte) *HuffmanTable {
	return &HuffmanTable{
		lengths: lengths,
		values:  values,
		codes:   buildCodeLookup(lengths, values),
	}
}

// DefaultLumaDC returns the typical luminance DC table
func DefaultLumaDC() *HuffmanTable {
	return NewHuffmanTable(defaultLumaDCLengths, defaultLumaDCValues)
}

// DefaultLumaAC returns the typical luminance AC table
func DefaultLumaAC() *HuffmanTable {
	return NewHuffmanTable(defaultLumaACLengths, defaultLumaACValues)
}

// DefaultChromaDC returns the typical chrominance DC table
func DefaultChromaDC() *HuffmanTable {
	return NewHuffmanTable(defaultChromaDCLengths, defaultChromaDCValues)
}

// DefaultChromaAC returns the typical chrominance AC table
func DefaultChromaAC() *HuffmanTable {
	return NewHuffmanTable(defaultChromaACLengths, defaultChromaACValues)
}

// NewOptimizedHuffmanTable generates a table from observed symbol
// frequencies as described in Annex K, section K.2. Slot 256 of freq
// must hold a count of one for the reserved pseudo-symbol; it ensures
// no real symbol is ever assigned a code of all one bits.
func NewOptimizedHuffmanTable(freq [257]uint32) *HuffmanTable {
	others := [257]int{}
	codesize := [257]int{}
	for i := range others {
		others[i] = -1
	}

	// Find Huffman code sizes, Figure K.1
	for {
		// Find the largest value with the least nonzero frequency
		v1 := -1
		v1Min := uint32(1<<32 - 1)
		for i, f := range freq {
			if f > 0 && f <= v1Min {
				v1Min = f
				v1 = i
			}
		}
		if v1 < 0 {
			break
		}

		// Find the next largest value with the least nonzero frequency
		v2 := -1
		v2Min := uint32(1<<32 - 1)
		for i, f := range freq {
			if f > 0 && f <= v2Min && i != v1 {
				v2Min = f
				v2 = i
			}
		}
		if v2 < 0 {
			break
		}

		freq[v1] += freq[v2]
		freq[v2] = 0

		codesize[v1]++
		for others[v1] >= 0 {
			v1 = others[v1]
			codesize[v1]++
		}

		others[v1] = v2

		codesize[v2]++
		for others[v2] >= 0 {
			v2 = others[v2]
			codesize[v2]++
		}
	}

	// Find the number of codes of each size, Figure K.2
	var counts [33]int
	for _, size := range codesize {
		if size > 0 {
			if size > 32 {
				panic("huffman: code size out of range")
			}
			counts[size]++
		}
	}

	// Limit code lengths to 16 bits, Figure K.3
	i := 32
	for i > 16 {
		for counts[i] > 0 {
			j := i - 2
			for counts[j] == 0 {
				j--
			}

			counts[i] -= 2
			counts[i-1]++
			counts[j+1] += 2
			counts[j]--
		}
		i--
	}

	// Remove the reserved pseudo-symbol from the code counts
	for counts[i] == 0 {
		i--
	}
	counts[i]--

	// Sort input values by code size, Figure K.4
	values := make([]byte, 0, 256)
	for size := 1; size <= 32; size++ {
		for symbol := 0; symbol <= 255; symbol++ {
			if codesize[symbol] == size {
				values = append(values, byte(symbol))
			}
		}
	}

	var lengths [16]byte
	for i := range lengths {
		lengths[i] = byte(counts[i+1])
	}

	return NewHuffmanTable(lengths, values)
}

// Code returns the assigned code for a symbol. The returned size is
// zero for symbols without a code.
func (t *HuffmanTable) Code(symbol byte) HuffmanCode {
	return t.codes[symbol]
}

// Lengths returns the 16 code length counts in DHT segment order
func (t *HuffmanTable) Lengths() [16]byte {
	return t.lengths
}

// Values returns the symbol values in DHT segment order
func (t *HuffmanTable) Values() []byte {
	return t.values
}

// buildCodeLookup assigns canonical codes per Figures C.1 to C.3
func buildCodeLookup(lengths [16]byte, values []byte) [256]HuffmanCode {
	var codes [256]HuffmanCode

	code := uint16(0)
	k := 0
	for size := 1; size <= 16; size++ {
		for n := byte(0); n < lengths[size-1]; n++ {
			codes[values[k]] = HuffmanCode{Size: size, Code: code}
			code++
			k++
		}
		code <<= 1
	}

	return codes
}

// Category returns the SSSS magnitude category of a coefficient value
// and its appended bits per Table F.1.
func Category(value int32) (int, uint32) {
	temp := value
	if value < 0 {
		temp--
	}

	abs := value
	if abs < 0 {
		abs = -abs
	}

	nbits := bits.Len32(uint32(abs))

	return nbits, uint32(temp) & (1<<uint(nbits) - 1)
}
