package encoder

import (
	"fmt"
	mathbits "math/bits"

	"github.com/cocosip/go-jpeg-encoder/jpeg/common"
)

// ScanParams describes a single scan of a progressive image
type ScanParams struct {
	// Components holds the frame component indexes coded by this scan
	Components []int

	// Ss and Se select the spectral band in zig-zag order. A DC scan
	// has Ss = Se = 0, AC scans cover 1 to 63.
	Ss, Se int

	// Ah and Al are the successive approximation bit positions. The
	// first scan for a band has Ah = 0; refinement scans have
	// Ah = Al + 1.
	Ah, Al int
}

// ScanScript is the full sequence of scans for a progressive image
type ScanScript []ScanParams

// DefaultScanScript returns the standard progressive scan sequence
// for the given component count, combining spectral selection with
// successive approximation.
func DefaultScanScript(components int) ScanScript {
	switch components {
	case 1:
		return ScanScript{
			{Components: []int{0}, Ss: 0, Se: 0, Ah: 0, Al: 1},
			{Components: []int{0}, Ss: 1, Se: 5, Ah: 0, Al: 2},
			{Components: []int{0}, Ss: 6, Se: 63, Ah: 0, Al: 2},
			{Components: []int{0}, Ss: 1, Se: 63, Ah: 2, Al: 1},
			{Components: []int{0}, Ss: 0, Se: 0, Ah: 1, Al: 0},
			{Components: []int{0}, Ss: 1, Se: 63, Ah: 1, Al: 0},
		}
	case 3:
		return ScanScript{
			{Components: []int{0, 1, 2}, Ss: 0, Se: 0, Ah: 0, Al: 1},
			{Components: []int{0}, Ss: 1, Se: 5, Ah: 0, Al: 2},
			{Components: []int{2}, Ss: 1, Se: 63, Ah: 0, Al: 1},
			{Components: []int{1}, Ss: 1, Se: 63, Ah: 0, Al: 1},
			{Components: []int{0}, Ss: 6, Se: 63, Ah: 0, Al: 2},
			{Components: []int{0}, Ss: 1, Se: 63, Ah: 2, Al: 1},
			{Components: []int{0, 1, 2}, Ss: 0, Se: 0, Ah: 1, Al: 0},
			{Components: []int{2}, Ss: 1, Se: 63, Ah: 1, Al: 0},
			{Components: []int{1}, Ss: 1, Se: 63, Ah: 1, Al: 0},
			{Components: []int{0}, Ss: 1, Se: 63, Ah: 1, Al: 0},
		}
	default:
		// All purpose sequence for other component counts
		all := make([]int, components)
		for i := range all {
			all[i] = i
		}

		script := ScanScript{{Components: all, Ss: 0, Se: 0, Ah: 0, Al: 1}}
		for c := 0; c < components; c++ {
			script = append(script, ScanParams{Components: []int{c}, Ss: 1, Se: 5, Ah: 0, Al: 2})
			script = append(script, ScanParams{Components: []int{c}, Ss: 6, Se: 63, Ah: 0, Al: 2})
		}
		for c := 0; c < components; c++ {
			script = append(script, ScanParams{Components: []int{c}, Ss: 1, Se: 63, Ah: 2, Al: 1})
		}
		script = append(script, ScanParams{Components: all, Ss: 0, Se: 0, Ah: 1, Al: 0})
		for c := 0; c < components; c++ {
			script = append(script, ScanParams{Components: []int{c}, Ss: 1, Se: 63, Ah: 1, Al: 0})
		}
		return script
	}
}

// SpectralScanScript returns a scan sequence using spectral selection
// only: one DC scan per component followed by evenly split AC bands at
// full precision. scans counts the scans per component, from 2 to 64.
func SpectralScanScript(components, scans int) (ScanScript, error) {
	if scans < 2 || scans > 64 {
		return nil, fmt.Errorf("%w: %d scans per component, must be 2 to 64", common.ErrInvalidScanScript, scans)
	}

	var script ScanScript
	for c := 0; c < components; c++ {
		script = append(script, ScanParams{Components: []int{c}})
	}

	bands := scans - 1
	for band := 0; band < bands; band++ {
		start := band*63/bands + 1
		end := (band + 1) * 63 / bands
		for c := 0; c < components; c++ {
			script = append(script, ScanParams{Components: []int{c}, Ss: start, Se: end})
		}
	}

	return script, nil
}

// ValidateScanScript checks a progressive scan script: scan headers
// must be well formed and the scans together must transmit every
// coefficient of every component exactly once at full precision.
func ValidateScanScript(script ScanScript, components int) error {
	if len(script) == 0 {
		return fmt.Errorf("%w: empty script", common.ErrInvalidScanScript)
	}

	// low[c][k] is the lowest bit position transmitted so far for
	// coefficient k of component c, or -1 before its first scan.
	low := make([][64]int, components)
	for c := range low {
		for k := range low[c] {
			low[c][k] = -1
		}
	}

	for i, scan := range script {
		if len(scan.Components) < 1 || len(scan.Components) > 4 {
			return fmt.Errorf("%w: scan %d codes %d components", common.ErrInvalidScanScript, i, len(scan.Components))
		}
		seen := map[int]bool{}
		for _, c := range scan.Components {
			if c < 0 || c >= components {
				return fmt.Errorf("%w: scan %d references component %d", common.ErrInvalidScanScript, i, c)
			}
			if seen[c] {
				return fmt.Errorf("%w: scan %d repeats component %d", common.ErrInvalidScanScript, i, c)
			}
			seen[c] = true
		}

		if scan.Ss < 0 || scan.Se > 63 || scan.Ss > scan.Se {
			return fmt.Errorf("%w: scan %d band %d..%d", common.ErrInvalidScanScript, i, scan.Ss, scan.Se)
		}
		if scan.Ss == 0 && scan.Se != 0 {
			return fmt.Errorf("%w: scan %d mixes DC and AC coefficients", common.ErrInvalidScanScript, i)
		}
		if scan.Ss > 0 && len(scan.Components) != 1 {
			return fmt.Errorf("%w: scan %d is an interleaved AC scan", common.ErrInvalidScanScript, i)
		}
		if scan.Ah < 0 || scan.Ah > 13 || scan.Al < 0 || scan.Al > 13 {
			return fmt.Errorf("%w: scan %d approximation %d/%d", common.ErrInvalidScanScript, i, scan.Ah, scan.Al)
		}
		if scan.Ah != 0 && scan.Ah != scan.Al+1 {
			return fmt.Errorf("%w: scan %d refines more than one bit", common.ErrInvalidScanScript, i)
		}

		for _, c := range scan.Components {
			if scan.Ss > 0 && low[c][0] == -1 {
				return fmt.Errorf("%w: scan %d codes AC before DC of component %d", common.ErrInvalidScanScript, i, c)
			}
			for k := scan.Ss; k <= scan.Se; k++ {
				if scan.Ah == 0 {
					if low[c][k] != -1 {
						return fmt.Errorf("%w: scan %d recodes coefficient %d of component %d", common.ErrInvalidScanScript, i, k, c)
					}
				} else if low[c][k] != scan.Ah {
					return fmt.Errorf("%w: scan %d refines coefficient %d of component %d out of order", common.ErrInvalidScanScript, i, k, c)
				}
				low[c][k] = scan.Al
			}
		}
	}

	for c := range low {
		for k := range low[c] {
			if low[c][k] != 0 {
				return fmt.Errorf("%w: coefficient %d of component %d is not fully transmitted", common.ErrInvalidScanScript, k, c)
			}
		}
	}

	return nil
}

// entropySink receives the symbol and bit stream of a scan. The writer
// sink produces the output bitstream; the frequency sink only counts
// symbols for the Huffman optimization pass. Running the scan coders
// against both keeps the two passes in lockstep.
type entropySink interface {
	symbol(class common.CodingClass, dest byte, symbol byte) error
	bits(value uint32, size int) error
	restart(marker int) error
	endScan() error
}

type writerSink struct {
	w      *common.Writer
	tables *[2][2]*common.HuffmanTable
}

func (s *writerSink) symbol(class common.CodingClass, dest byte, symbol byte) error {
	code := s.tables[class][dest].Code(symbol)
	if code.Size == 0 {
		return fmt.Errorf("%w: no code for symbol %#x", common.ErrInvalidConfig, symbol)
	}
	return s.w.WriteCode(code)
}

func (s *writerSink) bits(value uint32, size int) error {
	if size == 0 {
		return nil
	}
	return s.w.WriteBits(value, size)
}

func (s *writerSink) restart(marker int) error {
	if err := s.w.FlushBits(); err != nil {
		return err
	}
	return s.w.WriteMarker(common.MarkerRST(marker))
}

func (s *writerSink) endScan() error {
	return s.w.FlushBits()
}

type freqSink struct {
	freq *[2][2][257]uint32
}

func (s *freqSink) symbol(class common.CodingClass, dest byte, symbol byte) error {
	s.freq[class][dest][symbol]++
	return nil
}

func (s *freqSink) bits(uint32, int) error { return nil }
func (s *freqSink) restart(int) error      { return nil }
func (s *freqSink) endScan() error         { return nil }

// Buffered refinement bits are flushed early once this many have
// accumulated against a pending end-of-band run.
const maxBufferedBits = 937

// scanCoder turns quantized coefficient blocks into entropy symbols.
// It tracks the DC predictors, the end-of-band run and the buffered
// refinement bits of the scan in progress.
type scanCoder struct {
	sink    entropySink
	prevDC  [4]int32
	eobRun  uint32
	eobBits []byte // refinement bits owned by the pending end-of-band run
	runBits []byte // refinement bits of the zero run in progress
}

func newScanCoder(sink entropySink) *scanCoder {
	return &scanCoder{sink: sink}
}

// startScan clears all state carried between blocks
func (c *scanCoder) startScan() {
	c.prevDC = [4]int32{}
	c.eobRun = 0
	c.eobBits = c.eobBits[:0]
	c.runBits = c.runBits[:0]
}

// restart terminates the entropy coded segment, emits a restart marker
// and resets the predictors. acScan must be set in AC scans of a
// progressive image so the pending end-of-band run is coded first.
func (c *scanCoder) restart(marker int, acScan bool, dest byte) error {
	if acScan {
		if err := c.emitEOBRun(dest); err != nil {
			return err
		}
	}
	if err := c.sink.restart(marker); err != nil {
		return err
	}
	c.startScan()
	return nil
}

// encodeBlock codes one block of a sequential scan
func (c *scanCoder) encodeBlock(block *common.Block, ci int, dcDest, acDest byte) error {
	if err := c.encodeDC(block[0], ci, dcDest); err != nil {
		return err
	}

	zeroRun := 0
	for k := 1; k < 64; k++ {
		value := block[k]
		if value == 0 {
			zeroRun++
			continue
		}

		for zeroRun > 15 {
			if err := c.sink.symbol(common.CodingClassAC, acDest, 0xF0); err != nil {
				return err
			}
			zeroRun -= 16
		}

		nbits, bits := common.Category(value)
		if err := c.sink.symbol(common.CodingClassAC, acDest, byte(zeroRun<<4|nbits)); err != nil {
			return err
		}
		if err := c.sink.bits(bits, nbits); err != nil {
			return err
		}
		zeroRun = 0
	}

	if zeroRun > 0 {
		return c.sink.symbol(common.CodingClassAC, acDest, 0x00)
	}
	return nil
}

func (c *scanCoder) encodeDC(value int32, ci int, dest byte) error {
	diff := value - c.prevDC[ci]
	c.prevDC[ci] = value

	nbits, bits := common.Category(diff)
	if err := c.sink.symbol(common.CodingClassDC, dest, byte(nbits)); err != nil {
		return err
	}
	return c.sink.bits(bits, nbits)
}

// encodeDCFirst codes the high order DC bits of one block in the first
// DC scan of a progressive image.
func (c *scanCoder) encodeDCFirst(block *common.Block, ci int, dest byte, al int) error {
	return c.encodeDC(block[0]>>uint(al), ci, dest)
}

// encodeDCRefine codes one refinement bit of the DC coefficient
func (c *scanCoder) encodeDCRefine(block *common.Block, al int) error {
	return c.sink.bits(uint32(block[0]>>uint(al))&1, 1)
}

// encodeACFirst codes the high order bits of an AC band in its first
// scan. Runs of blocks whose band is entirely zero are collected into
// an end-of-band run that may span restart-free block sequences.
func (c *scanCoder) encodeACFirst(block *common.Block, dest byte, ss, se, al int) error {
	run := 0
	for k := ss; k <= se; k++ {
		value := block[k]
		abs := value
		if abs < 0 {
			abs = -abs
		}
		shifted := abs >> uint(al)
		if shifted == 0 {
			run++
			continue
		}

		if c.eobRun > 0 {
			if err := c.emitEOBRun(dest); err != nil {
				return err
			}
		}
		for run > 15 {
			if err := c.sink.symbol(common.CodingClassAC, dest, 0xF0); err != nil {
				return err
			}
			run -= 16
		}

		signed := shifted
		if value < 0 {
			signed = -shifted
		}
		nbits, bits := common.Category(signed)
		if err := c.sink.symbol(common.CodingClassAC, dest, byte(run<<4|nbits)); err != nil {
			return err
		}
		if err := c.sink.bits(bits, nbits); err != nil {
			return err
		}
		run = 0
	}

	if run > 0 {
		c.eobRun++
		if c.eobRun == 0x7FFF {
			return c.emitEOBRun(dest)
		}
	}
	return nil
}

// encodeACRefine codes one refinement bit for each AC coefficient of
// the band. Coefficients that become nonzero in this scan are coded
// with run length symbols; bits of previously nonzero coefficients are
// buffered and emitted after the symbol that flushes them.
func (c *scanCoder) encodeACRefine(block *common.Block, dest byte, ss, se, al int) error {
	var absValues [64]int32
	eob := ss - 1
	for k := ss; k <= se; k++ {
		abs := block[k]
		if abs < 0 {
			abs = -abs
		}
		abs >>= uint(al)
		absValues[k] = abs
		if abs == 1 {
			eob = k
		}
	}

	run := 0
	for k := ss; k <= se; k++ {
		value := absValues[k]
		if value == 0 {
			run++
			continue
		}

		for run > 15 && k <= eob {
			if err := c.emitEOBRun(dest); err != nil {
				return err
			}
			if err := c.sink.symbol(common.CodingClassAC, dest, 0xF0); err != nil {
				return err
			}
			run -= 16
			if err := c.emitBufferedBits(&c.runBits); err != nil {
				return err
			}
		}

		if value > 1 {
			c.runBits = append(c.runBits, byte(value&1))
			continue
		}

		if err := c.emitEOBRun(dest); err != nil {
			return err
		}
		if err := c.sink.symbol(common.CodingClassAC, dest, byte(run<<4|1)); err != nil {
			return err
		}
		sign := uint32(1)
		if block[k] < 0 {
			sign = 0
		}
		if err := c.sink.bits(sign, 1); err != nil {
			return err
		}
		if err := c.emitBufferedBits(&c.runBits); err != nil {
			return err
		}
		run = 0
	}

	if run > 0 || len(c.runBits) > 0 {
		c.eobRun++
		c.eobBits = append(c.eobBits, c.runBits...)
		c.runBits = c.runBits[:0]
		if c.eobRun == 0x7FFF || len(c.eobBits) > maxBufferedBits {
			return c.emitEOBRun(dest)
		}
	}
	return nil
}

// emitEOBRun codes the pending end-of-band run followed by the
// refinement bits it owns.
func (c *scanCoder) emitEOBRun(dest byte) error {
	if c.eobRun > 0 {
		nbits := mathbits.Len32(c.eobRun) - 1
		if err := c.sink.symbol(common.CodingClassAC, dest, byte(nbits<<4)); err != nil {
			return err
		}
		if nbits > 0 {
			if err := c.sink.bits(c.eobRun&(1<<uint(nbits)-1), nbits); err != nil {
				return err
			}
		}
		c.eobRun = 0

		if err := c.emitBufferedBits(&c.eobBits); err != nil {
			return err
		}
	}
	return nil
}

func (c *scanCoder) emitBufferedBits(buffer *[]byte) error {
	for _, bit := range *buffer {
		if err := c.sink.bits(uint32(bit), 1); err != nil {
			return err
		}
	}
	*buffer = (*buffer)[:0]
	return nil
}
