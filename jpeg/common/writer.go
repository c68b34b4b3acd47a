package common

import "io"

// Writer emits JPEG markers, segments and entropy-coded data. Entropy
// bits are accumulated MSB-first and written with 0xFF byte stuffing.
type Writer struct {
	w     io.Writer
	buf   [16]byte
	bits  uint32
	nBits uint32
}

// NewWriter creates a writer emitting to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes raw bytes
func (w *Writer) Write(data []byte) error {
	_, err := w.w.Write(data)
	return err
}

// WriteByte writes a single raw byte
func (w *Writer) WriteByte(value byte) error {
	w.buf[0] = value
	_, err := w.w.Write(w.buf[:1])
	return err
}

// WriteUint16 writes a big-endian 16-bit value
func (w *Writer) WriteUint16(value uint16) error {
	w.buf[0] = byte(value >> 8)
	w.buf[1] = byte(value)
	_, err := w.w.Write(w.buf[:2])
	return err
}

// WriteMarker writes a marker (0xFF prefix included in the constant)
func (w *Writer) WriteMarker(marker uint16) error {
	return w.WriteUint16(marker)
}

// WriteSegment writes a marker segment. The emitted length field covers
// the data plus the two length bytes.
func (w *Writer) WriteSegment(marker uint16, data []byte) error {
	if err := w.WriteMarker(marker); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(data) + 2)); err != nil {
		return err
	}
	return w.Write(data)
}

// WriteBits appends size bits (at most 16 per call) to the entropy
// coded data stream, most significant bit first. Emitted 0xFF bytes are
// followed by a stuffed 0x00.
func (w *Writer) WriteBits(value uint32, size int) error {
	nBits := w.nBits + uint32(size)
	bits := value<<(32-nBits) | w.bits

	for nBits >= 8 {
		b := byte(bits >> 24)
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if b == 0xFF {
			if err := w.WriteByte(0x00); err != nil {
				return err
			}
		}
		bits <<= 8
		nBits -= 8
	}

	w.bits = bits
	w.nBits = nBits
	return nil
}

// WriteCode writes a Huffman code
func (w *Writer) WriteCode(code HuffmanCode) error {
	return w.WriteBits(uint32(code.Code), code.Size)
}

// FlushBits pads the entropy coded data to a byte boundary with one
// bits and resets the bit buffer. Called at the end of a scan and
// before restart markers.
func (w *Writer) FlushBits() error {
	if err := w.WriteBits(0x7F, 7); err != nil {
		return err
	}
	w.bits = 0
	w.nBits = 0
	return nil
}

// WriteDQT writes a quantization table segment in zig-zag order
// with 8-bit precision.
func (w *Writer) WriteDQT(dest byte, table *QuantTable) error {
	data := make([]byte, 1+64)
	data[0] = dest
	for i, z := range ZigZag {
		data[1+i] = table.Get(z)
	}
	return w.WriteSegment(MarkerDQT, data)
}

// WriteDHT writes a Huffman table segment
func (w *Writer) WriteDHT(class CodingClass, dest byte, table *HuffmanTable) error {
	lengths := table.Lengths()
	values := table.Values()

	data := make([]byte, 0, 1+16+len(values))
	data = append(data, byte(class)<<4|dest)
	data = append(data, lengths[:]...)
	data = append(data, values...)

	return w.WriteSegment(MarkerDHT, data)
}

// WriteDRI writes a restart interval segment
func (w *Writer) WriteDRI(interval uint16) error {
	if err := w.WriteMarker(MarkerDRI); err != nil {
		return err
	}
	if err := w.WriteUint16(4); err != nil {
		return err
	}
	return w.WriteUint16(interval)
}
