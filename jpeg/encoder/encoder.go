package encoder

import (
	"fmt"
	"io"

	"github.com/cocosip/go-jpeg-encoder/jpeg/common"
)

// DensityUnit is the unit of the pixel density written to the JFIF
// header.
type DensityUnit byte

const (
	// DensityAspectRatio means the density values give an aspect ratio
	DensityAspectRatio DensityUnit = 0

	// DensityInches means pixels per inch
	DensityInches DensityUnit = 1

	// DensityCentimeters means pixels per centimeter
	DensityCentimeters DensityUnit = 2
)

// PixelDensity is the pixel density written to the JFIF header
type PixelDensity struct {
	X, Y uint16
	Unit DensityUnit
}

// DPI returns a pixel density in dots per inch
func DPI(density uint16) PixelDensity {
	return PixelDensity{X: density, Y: density, Unit: DensityInches}
}

// QuantTableSelection picks a quantization table, either one of the
// packaged presets or custom values.
type QuantTableSelection struct {
	preset common.QuantTableType
	custom *[64]uint16
}

// PresetQuantTable selects a packaged quantization table preset,
// scaled by the encoder quality.
func PresetQuantTable(preset common.QuantTableType) QuantTableSelection {
	return QuantTableSelection{preset: preset}
}

// CustomQuantTable selects user supplied quantization values. Custom
// values are used as given and not scaled by the encoder quality.
func CustomQuantTable(values [64]uint16) QuantTableSelection {
	return QuantTableSelection{custom: &values}
}

func (s QuantTableSelection) build(quality int, luma bool) *common.QuantTable {
	if s.custom != nil {
		return common.NewCustomQuantTable(s.custom)
	}
	return common.NewQuantTable(s.preset, quality, luma)
}

type appSegment struct {
	nr   int
	data []byte
}

// Largest payload of an application data segment. The two length bytes
// count towards the 65535 segment limit.
const maxAppSegmentData = 65535 - 2

// ICC profile chunks carry the 12 byte identifier plus chunk sequence
// and chunk count bytes.
const maxIccChunkData = maxAppSegmentData - 12 - 2

var iccProfileHeader = []byte("ICC_PROFILE\x00")

var exifHeader = []byte{0x45, 0x78, 0x69, 0x66, 0x00, 0x00}

// component is one color component of the frame. The destination
// selects the quantization and Huffman tables (0 luminance,
// 1 chrominance).
type component struct {
	id   byte
	dest byte
	h, v int

	// MCU aligned block grid dimensions
	blockCols, blockRows int

	// Block dimensions covering only the component data, used by
	// non-interleaved scans.
	scanCols, scanRows int
}

// Encoder writes baseline or progressive JPEG images to an output
// stream. The zero value is not usable; construct with New.
type Encoder struct {
	out     io.Writer
	quality int

	density       PixelDensity
	sampling      SamplingFactor
	subsampleMode SubsamplingMode

	lumaQuant   QuantTableSelection
	chromaQuant QuantTableSelection

	progressive   bool
	spectralScans int
	scanScript    ScanScript

	restartInterval int
	optimize        bool

	appSegments []appSegment
}

// New creates an encoder writing to out with the given quality (1-100,
// clamped). Chroma subsampling defaults to 2x2 below quality 90 and is
// disabled at quality 90 and above.
func New(out io.Writer, quality int) *Encoder {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	sampling := F2x2
	if quality >= 90 {
		sampling = F1x1
	}

	return &Encoder{
		out:      out,
		quality:  quality,
		density:  PixelDensity{X: 1, Y: 1, Unit: DensityAspectRatio},
		sampling: sampling,
	}
}

// SetDensity sets the pixel density written to the JFIF header
func (e *Encoder) SetDensity(density PixelDensity) {
	e.density = density
}

// SetSamplingFactor sets the chroma subsampling factor
func (e *Encoder) SetSamplingFactor(sampling SamplingFactor) {
	e.sampling = sampling
}

// SetSubsamplingMode selects how chroma samples are reduced
func (e *Encoder) SetSubsamplingMode(mode SubsamplingMode) {
	e.subsampleMode = mode
}

// SetQuantizationTables sets the luminance and chrominance
// quantization tables.
func (e *Encoder) SetQuantizationTables(luma, chroma QuantTableSelection) {
	e.lumaQuant = luma
	e.chromaQuant = chroma
}

// SetProgressive switches between progressive and baseline encoding.
// Progressive images use the standard scan sequence unless a scan
// script is set.
func (e *Encoder) SetProgressive(progressive bool) {
	e.progressive = progressive
}

// SetProgressiveScans enables progressive encoding with the given
// number of spectral selection scans per component (2-64).
func (e *Encoder) SetProgressiveScans(scans int) {
	e.progressive = true
	e.spectralScans = scans
}

// SetScanScript enables progressive encoding with a custom scan
// sequence. The script is validated when encoding starts.
func (e *Encoder) SetScanScript(script ScanScript) {
	e.progressive = true
	e.scanScript = script
}

// SetRestartInterval sets the restart marker interval in MCUs. Zero
// disables restart markers.
func (e *Encoder) SetRestartInterval(interval int) {
	e.restartInterval = interval
}

// SetOptimizedHuffmanTables enables generation of Huffman tables from
// the image statistics in an extra counting pass.
func (e *Encoder) SetOptimizedHuffmanTables(optimize bool) {
	e.optimize = optimize
}

// AddAppSegment appends an application data segment (APP1 to APP15)
// to the file header.
func (e *Encoder) AddAppSegment(nr int, data []byte) error {
	if nr < 1 || nr > 15 {
		return fmt.Errorf("%w: %d", common.ErrInvalidAppSegment, nr)
	}
	if len(data) > maxAppSegmentData {
		return common.ErrAppSegmentTooLarge
	}
	e.appSegments = append(e.appSegments, appSegment{nr: nr, data: data})
	return nil
}

// AddICCProfile appends an ICC color profile, split over as many APP2
// segments as needed.
func (e *Encoder) AddICCProfile(data []byte) error {
	chunks := (len(data) + maxIccChunkData - 1) / maxIccChunkData
	if chunks > 255 {
		return common.ErrIccProfileTooLarge
	}

	for i := 0; i < chunks; i++ {
		end := (i + 1) * maxIccChunkData
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i*maxIccChunkData : end]

		payload := make([]byte, 0, len(iccProfileHeader)+2+len(chunk))
		payload = append(payload, iccProfileHeader...)
		payload = append(payload, byte(i+1), byte(chunks))
		payload = append(payload, chunk...)

		e.appSegments = append(e.appSegments, appSegment{nr: 2, data: payload})
	}
	return nil
}

// AddExifMetadata appends Exif data as an APP1 segment
func (e *Encoder) AddExifMetadata(data []byte) error {
	if len(data) > maxAppSegmentData-len(exifHeader) {
		return common.ErrAppSegmentTooLarge
	}

	payload := make([]byte, 0, len(exifHeader)+len(data))
	payload = append(payload, exifHeader...)
	payload = append(payload, data...)

	return e.AddAppSegment(1, payload)
}

// Encode encodes raw pixel data with the given dimensions and layout
func (e *Encoder) Encode(data []byte, width, height int, color ColorType) error {
	img, err := NewImageBuffer(data, width, height, color)
	if err != nil {
		return err
	}
	return e.EncodeImage(img)
}

// EncodeImage encodes an image supplied through the ImageBuffer
// interface.
func (e *Encoder) EncodeImage(img ImageBuffer) error {
	width, height := img.Width(), img.Height()
	if width < 1 || height < 1 || width > 65535 || height > 65535 {
		return common.ErrInvalidDimensions
	}
	if e.restartInterval < 0 || e.restartInterval > 65535 {
		return fmt.Errorf("%w: restart interval %d", common.ErrInvalidConfig, e.restartInterval)
	}

	color := img.JpegColorType()
	ncomp := color.Components()

	quantTables := [2]*common.QuantTable{
		e.lumaQuant.build(e.quality, true),
		e.chromaQuant.build(e.quality, false),
	}

	hSample, vSample := e.sampling.Ratio()
	comps := initComponents(color, hSample, vSample)

	scans, err := e.buildScans(comps)
	if err != nil {
		return err
	}

	maxH, maxV := 1, 1
	for _, c := range comps {
		if c.h > maxH {
			maxH = c.h
		}
		if c.v > maxV {
			maxV = c.v
		}
	}

	mcuCols := ceilDiv(width, 8*maxH)
	mcuRows := ceilDiv(height, 8*maxV)
	paddedW := mcuCols * 8 * maxH
	paddedH := mcuRows * 8 * maxV

	for i := range comps {
		c := &comps[i]
		c.blockCols = mcuCols * c.h
		c.blockRows = mcuRows * c.v
		c.scanCols = ceilDiv(ceilDiv(width*c.h, maxH), 8)
		c.scanRows = ceilDiv(ceilDiv(height*c.v, maxV), 8)
	}

	planes := buildPlanes(img, ncomp, width, height, paddedW, paddedH)
	blocks := e.buildBlocks(&planes, comps, &quantTables, maxH, maxV, paddedW)

	tableCount := 1
	if ncomp > 1 {
		tableCount = 2
	}

	huffTables := [2][2]*common.HuffmanTable{
		{common.DefaultLumaDC(), common.DefaultChromaDC()},
		{common.DefaultLumaAC(), common.DefaultChromaAC()},
	}
	if e.optimize {
		if err := e.optimizeHuffmanTables(&huffTables, comps, blocks, scans, mcuCols, mcuRows, tableCount); err != nil {
			return err
		}
	}

	w := common.NewWriter(e.out)

	if err := e.writeHeaders(w, color); err != nil {
		return err
	}
	if err := e.writeFrameHeader(w, comps, &quantTables, &huffTables, width, height, tableCount); err != nil {
		return err
	}

	sink := &writerSink{w: w, tables: &huffTables}
	coder := newScanCoder(sink)
	for _, scan := range scans {
		if err := writeScanHeader(w, comps, scan); err != nil {
			return err
		}
		if err := e.encodeScan(coder, scan, comps, blocks, mcuCols, mcuRows); err != nil {
			return err
		}
	}

	return w.WriteMarker(common.MarkerEOI)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// initComponents builds the frame component list. The component
// carrying the most detail gets the sampling factor: luminance for
// YCbCr and YCCK, black for CMYK. CMYK color channels use the
// chrominance tables.
func initComponents(color JpegColorType, h, v int) []component {
	switch color {
	case JpegLuma:
		return []component{
			{id: 0, dest: 0, h: 1, v: 1},
		}
	case JpegYCbCr:
		return []component{
			{id: 0, dest: 0, h: h, v: v},
			{id: 1, dest: 1, h: 1, v: 1},
			{id: 2, dest: 1, h: 1, v: 1},
		}
	case JpegCmyk:
		return []component{
			{id: 0, dest: 1, h: 1, v: 1},
			{id: 1, dest: 1, h: 1, v: 1},
			{id: 2, dest: 1, h: 1, v: 1},
			{id: 3, dest: 0, h: h, v: v},
		}
	default: // JpegYcck
		return []component{
			{id: 0, dest: 0, h: h, v: v},
			{id: 1, dest: 1, h: 1, v: 1},
			{id: 2, dest: 1, h: 1, v: 1},
			{id: 3, dest: 0, h: h, v: v},
		}
	}
}

// buildScans resolves the scan sequence for the selected mode. A
// baseline image uses a single interleaved scan where the sampling
// factor allows it; Huffman optimization and sampling factors above
// two fall back to one scan per component.
func (e *Encoder) buildScans(comps []component) (ScanScript, error) {
	if e.progressive {
		script := e.scanScript
		if script == nil {
			if e.spectralScans > 0 {
				var err error
				script, err = SpectralScanScript(len(comps), e.spectralScans)
				if err != nil {
					return nil, err
				}
			} else {
				script = DefaultScanScript(len(comps))
			}
		}
		if err := ValidateScanScript(script, len(comps)); err != nil {
			return nil, err
		}
		return script, nil
	}

	if len(comps) > 1 && !e.optimize && e.sampling.SupportsInterleaved() {
		all := make([]int, len(comps))
		for i := range all {
			all[i] = i
		}
		return ScanScript{{Components: all, Ss: 0, Se: 63}}, nil
	}

	script := make(ScanScript, len(comps))
	for i := range comps {
		script[i] = ScanParams{Components: []int{i}, Ss: 0, Se: 63}
	}
	return script, nil
}

// buildPlanes converts the image into one sample plane per component,
// padded to the MCU grid by replicating the edge samples.
func buildPlanes(img ImageBuffer, ncomp, width, height, paddedW, paddedH int) [4][]byte {
	var planes [4][]byte
	for i := 0; i < ncomp; i++ {
		planes[i] = make([]byte, 0, paddedW*paddedH)
	}

	for y := 0; y < paddedH; y++ {
		srcY := y
		if srcY > height-1 {
			srcY = height - 1
		}
		img.FillRow(srcY, &planes)

		for i := 0; i < ncomp; i++ {
			last := planes[i][len(planes[i])-1]
			for x := width; x < paddedW; x++ {
				planes[i] = append(planes[i], last)
			}
		}
	}

	return planes
}

// buildBlocks downsamples, transforms and quantizes every block of
// every component. Blocks are stored in zig-zag coefficient order on
// an MCU aligned grid.
func (e *Encoder) buildBlocks(planes *[4][]byte, comps []component, quantTables *[2]*common.QuantTable, maxH, maxV, stride int) [][]common.Block {
	blocks := make([][]common.Block, len(comps))

	for ci := range comps {
		c := &comps[ci]
		hScale := maxH / c.h
		vScale := maxV / c.v
		q := quantTables[c.dest]

		grid := make([]common.Block, c.blockCols*c.blockRows)
		for by := 0; by < c.blockRows; by++ {
			for bx := 0; bx < c.blockCols; bx++ {
				var block common.Block
				e.extractBlock(planes[ci], &block, bx*8*hScale, by*8*vScale, hScale, vScale, stride)
				common.ForwardDCT(&block)
				q.QuantizeBlock(&block, &grid[by*c.blockCols+bx])
			}
		}
		blocks[ci] = grid
	}

	return blocks
}

// extractBlock copies one 8x8 block out of a sample plane, downsampled
// by the given scale factors and level shifted to signed values.
func (e *Encoder) extractBlock(plane []byte, block *common.Block, startX, startY, hScale, vScale, stride int) {
	if hScale == 1 && vScale == 1 {
		for y := 0; y < 8; y++ {
			row := plane[(startY+y)*stride+startX:]
			for x := 0; x < 8; x++ {
				block[y*8+x] = int32(row[x]) - 128
			}
		}
		return
	}

	if e.subsampleMode == SubsampleDrop {
		for y := 0; y < 8; y++ {
			row := plane[(startY+y*vScale)*stride+startX:]
			for x := 0; x < 8; x++ {
				block[y*8+x] = int32(row[x*hScale]) - 128
			}
		}
		return
	}

	n := hScale * vScale
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0
			for sy := 0; sy < vScale; sy++ {
				row := plane[(startY+y*vScale+sy)*stride+startX+x*hScale:]
				for sx := 0; sx < hScale; sx++ {
					sum += int(row[sx])
				}
			}
			block[y*8+x] = int32((sum+n/2)/n) - 128
		}
	}
}

// optimizeHuffmanTables runs all scans against a frequency counting
// sink and replaces the default tables with tables generated from the
// observed symbol statistics.
func (e *Encoder) optimizeHuffmanTables(tables *[2][2]*common.HuffmanTable, comps []component, blocks [][]common.Block, scans ScanScript, mcuCols, mcuRows, tableCount int) error {
	var freq [2][2][257]uint32

	coder := newScanCoder(&freqSink{freq: &freq})
	for _, scan := range scans {
		if err := e.encodeScan(coder, scan, comps, blocks, mcuCols, mcuRows); err != nil {
			return err
		}
	}

	for class := 0; class < 2; class++ {
		for dest := 0; dest < tableCount; dest++ {
			used := false
			for _, f := range freq[class][dest] {
				if f > 0 {
					used = true
					break
				}
			}
			if !used {
				continue
			}
			freq[class][dest][256] = 1
			tables[class][dest] = common.NewOptimizedHuffmanTable(freq[class][dest])
		}
	}

	return nil
}

func (e *Encoder) writeHeaders(w *common.Writer, color JpegColorType) error {
	if err := w.WriteMarker(common.MarkerSOI); err != nil {
		return err
	}

	jfif := []byte{
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x02,
		byte(e.density.Unit),
		byte(e.density.X >> 8), byte(e.density.X),
		byte(e.density.Y >> 8), byte(e.density.Y),
		0x00, 0x00,
	}
	if err := w.WriteSegment(common.MarkerAPP0, jfif); err != nil {
		return err
	}

	// Adobe APP14 tells decoders whether four component data is plain
	// inverted CMYK (transform 0) or YCCK (transform 2).
	switch color {
	case JpegCmyk:
		if err := w.WriteSegment(common.MarkerAPP14, []byte("Adobe\x00\x00\x00\x00\x00\x00\x00")); err != nil {
			return err
		}
	case JpegYcck:
		if err := w.WriteSegment(common.MarkerAPP14, []byte("Adobe\x00\x00\x00\x00\x00\x00\x02")); err != nil {
			return err
		}
	}

	for _, seg := range e.appSegments {
		if err := w.WriteSegment(common.MarkerAPP(seg.nr), seg.data); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) writeFrameHeader(w *common.Writer, comps []component, quantTables *[2]*common.QuantTable, huffTables *[2][2]*common.HuffmanTable, width, height, tableCount int) error {
	for dest := 0; dest < tableCount; dest++ {
		if err := w.WriteDQT(byte(dest), quantTables[dest]); err != nil {
			return err
		}
	}

	sof := uint16(common.MarkerSOF0)
	if e.progressive {
		sof = common.MarkerSOF2
	}

	body := make([]byte, 0, 6+3*len(comps))
	body = append(body, 8)
	body = append(body, byte(height>>8), byte(height))
	body = append(body, byte(width>>8), byte(width))
	body = append(body, byte(len(comps)))
	for _, c := range comps {
		body = append(body, c.id, byte(c.h<<4|c.v), c.dest)
	}
	if err := w.WriteSegment(sof, body); err != nil {
		return err
	}

	for dest := 0; dest < tableCount; dest++ {
		if err := w.WriteDHT(common.CodingClassDC, byte(dest), huffTables[common.CodingClassDC][dest]); err != nil {
			return err
		}
		if err := w.WriteDHT(common.CodingClassAC, byte(dest), huffTables[common.CodingClassAC][dest]); err != nil {
			return err
		}
	}

	if e.restartInterval > 0 {
		return w.WriteDRI(uint16(e.restartInterval))
	}
	return nil
}

func writeScanHeader(w *common.Writer, comps []component, scan ScanParams) error {
	body := make([]byte, 0, 4+2*len(scan.Components))
	body = append(body, byte(len(scan.Components)))
	for _, ci := range scan.Components {
		c := &comps[ci]
		body = append(body, c.id, c.dest<<4|c.dest)
	}
	body = append(body, byte(scan.Ss), byte(scan.Se), byte(scan.Ah<<4|scan.Al))

	return w.WriteSegment(common.MarkerSOS, body)
}

// encodeScan drives one scan over the block grids, handling restart
// intervals. Interleaved scans walk the MCU grid; single component
// scans walk only the blocks covering the component data.
func (e *Encoder) encodeScan(coder *scanCoder, scan ScanParams, comps []component, blocks [][]common.Block, mcuCols, mcuRows int) error {
	coder.startScan()

	acScan := e.progressive && scan.Ss > 0
	acDest := comps[scan.Components[0]].dest

	restartsToGo := e.restartInterval
	marker := 0
	maybeRestart := func() error {
		if e.restartInterval == 0 {
			return nil
		}
		if restartsToGo == 0 {
			if err := coder.restart(marker, acScan, acDest); err != nil {
				return err
			}
			marker = (marker + 1) & 7
			restartsToGo = e.restartInterval
		}
		restartsToGo--
		return nil
	}

	if len(scan.Components) > 1 {
		for my := 0; my < mcuRows; my++ {
			for mx := 0; mx < mcuCols; mx++ {
				if err := maybeRestart(); err != nil {
					return err
				}
				for _, ci := range scan.Components {
					c := &comps[ci]
					for vy := 0; vy < c.v; vy++ {
						for hx := 0; hx < c.h; hx++ {
							block := &blocks[ci][(my*c.v+vy)*c.blockCols+mx*c.h+hx]
							if err := e.encodeScanBlock(coder, scan, block, ci, c); err != nil {
								return err
							}
						}
					}
				}
			}
		}
	} else {
		ci := scan.Components[0]
		c := &comps[ci]
		for by := 0; by < c.scanRows; by++ {
			for bx := 0; bx < c.scanCols; bx++ {
				if err := maybeRestart(); err != nil {
					return err
				}
				block := &blocks[ci][by*c.blockCols+bx]
				if err := e.encodeScanBlock(coder, scan, block, ci, c); err != nil {
					return err
				}
			}
		}
	}

	if acScan {
		if err := coder.emitEOBRun(acDest); err != nil {
			return err
		}
	}
	return coder.sink.endScan()
}

func (e *Encoder) encodeScanBlock(coder *scanCoder, scan ScanParams, block *common.Block, ci int, c *component) error {
	if !e.progressive {
		return coder.encodeBlock(block, ci, c.dest, c.dest)
	}
	if scan.Ss == 0 {
		if scan.Ah == 0 {
			return coder.encodeDCFirst(block, ci, c.dest, scan.Al)
		}
		return coder.encodeDCRefine(block, scan.Al)
	}
	if scan.Ah == 0 {
		return coder.encodeACFirst(block, c.dest, scan.Ss, scan.Se, scan.Al)
	}
	return coder.encodeACRefine(block, c.dest, scan.Ss, scan.Se, scan.Al)
}
