package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"

	"github.com/cocosip/go-jpeg-encoder/jpeg/common"
)

func encodeBytes(t *testing.T, data []byte, width, height int, colorType ColorType, setup func(*Encoder)) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := New(&buf, 75)
	if setup != nil {
		setup(enc)
	}
	if err := enc.Encode(data, width, height, colorType); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func grayGradient(width, height int) []byte {
	data := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = byte((x*3 + y*2) & 0xFF)
		}
	}
	return data
}

func noisyRGB(width, height int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, width*height*3)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	return data
}

func comparePixels(t *testing.T, got, want image.Image, tolerance int) {
	t.Helper()

	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds: got %v, want %v", got.Bounds(), want.Bounds())
	}

	for y := got.Bounds().Min.Y; y < got.Bounds().Max.Y; y++ {
		for x := got.Bounds().Min.X; x < got.Bounds().Max.X; x++ {
			gr, gg, gb, _ := got.At(x, y).RGBA()
			wr, wg, wb, _ := want.At(x, y).RGBA()
			for _, d := range []int{
				int(gr>>8) - int(wr>>8),
				int(gg>>8) - int(wg>>8),
				int(gb>>8) - int(wb>>8),
			} {
				if d < -tolerance || d > tolerance {
					t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got.At(x, y), want.At(x, y))
				}
			}
		}
	}
}

// markerList walks the marker structure of an encoded file, skipping
// over entropy coded data.
func markerList(t *testing.T, data []byte) []uint16 {
	t.Helper()

	var markers []uint16
	entropy := false
	i := 0
	for i+1 < len(data) {
		if entropy && (data[i] != 0xFF || data[i+1] == 0x00) {
			i++
			continue
		}
		if data[i] != 0xFF {
			t.Fatalf("expected marker at offset %d, found %#x", i, data[i])
		}

		marker := uint16(0xFF00) | uint16(data[i+1])
		markers = append(markers, marker)
		i += 2

		switch {
		case marker == common.MarkerSOI:
		case marker == common.MarkerEOI:
			return markers
		case common.IsRST(marker):
		default:
			length := int(data[i])<<8 | int(data[i+1])
			i += length
			entropy = marker == common.MarkerSOS
		}
	}

	t.Fatal("no EOI marker found")
	return nil
}

func countMarkers(markers []uint16, marker uint16) int {
	n := 0
	for _, m := range markers {
		if m == marker {
			n++
		}
	}
	return n
}

func TestEncodeFlatGrayIsExact(t *testing.T) {
	// A flat 128 image has all-zero coefficients after level shift, so
	// the round trip is exact at any quality.
	const width, height = 20, 14
	data := make([]byte, width*height)
	for i := range data {
		data[i] = 128
	}

	for _, quality := range []int{5, 50, 95} {
		var buf bytes.Buffer
		if err := New(&buf, quality).Encode(data, width, height, ColorLuma); err != nil {
			t.Fatal(err)
		}

		img := decodeImage(t, buf.Bytes())
		gray, ok := img.(*image.Gray)
		if !ok {
			t.Fatalf("quality %d: decoded as %T", quality, img)
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if got := gray.GrayAt(x, y).Y; got != 128 {
					t.Fatalf("quality %d: pixel (%d,%d) = %d", quality, x, y, got)
				}
			}
		}
	}
}

func TestEncodeGrayGradientQuality100(t *testing.T) {
	const width, height = 32, 24
	data := grayGradient(width, height)

	var buf bytes.Buffer
	if err := New(&buf, 100).Encode(data, width, height, ColorLuma); err != nil {
		t.Fatal(err)
	}

	gray := decodeImage(t, buf.Bytes()).(*image.Gray)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			got := int(gray.GrayAt(x, y).Y)
			want := int(data[y*width+x])
			if d := got - want; d < -2 || d > 2 {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestEncodeRGBQuadrantsQuality100(t *testing.T) {
	// Each 8x8 quadrant is a flat primary color, so every block holds
	// only a DC coefficient and survives quality 100 nearly unchanged.
	const width, height = 16, 16
	colors := [2][2][3]byte{
		{{255, 0, 0}, {0, 255, 0}},
		{{0, 0, 255}, {255, 255, 255}},
	}

	data := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := colors[y/8][x/8]
			copy(data[(y*width+x)*3:], c[:])
		}
	}

	var buf bytes.Buffer
	if err := New(&buf, 100).Encode(data, width, height, ColorRgb); err != nil {
		t.Fatal(err)
	}

	img := decodeImage(t, buf.Bytes())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := colors[y/8][x/8]
			r, g, b, _ := img.At(x, y).RGBA()
			for i, got := range []int{int(r >> 8), int(g >> 8), int(b >> 8)} {
				if d := got - int(c[i]); d < -3 || d > 3 {
					t.Fatalf("pixel (%d,%d) channel %d: got %d, want %d", x, y, i, got, c[i])
				}
			}
		}
	}
}

func TestEncodeTinyFourColorQuality100(t *testing.T) {
	// A 2x2 image, one pixel per primary plus white, encoded at quality
	// 100 without chroma subsampling. The single padded block must
	// survive the round trip within 2 per channel.
	colors := [4][3]byte{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 255},
	}

	data := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		data = append(data, c[:]...)
	}

	var buf bytes.Buffer
	enc := New(&buf, 100)
	enc.SetSamplingFactor(F1x1)
	if err := enc.Encode(data, 2, 2, ColorRgb); err != nil {
		t.Fatal(err)
	}

	markers := markerList(t, buf.Bytes())
	if n := countMarkers(markers, common.MarkerSOF0); n != 1 {
		t.Errorf("SOF0 count %d", n)
	}

	img := decodeImage(t, buf.Bytes())
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	for i, c := range colors {
		r, g, b, _ := img.At(i%2, i/2).RGBA()
		for ch, got := range []int{int(r >> 8), int(g >> 8), int(b >> 8)} {
			if d := got - int(c[ch]); d < -2 || d > 2 {
				t.Errorf("pixel %d channel %d: got %d, want %d", i, ch, got, c[ch])
			}
		}
	}
}

func TestBaselineMarkerStructure(t *testing.T) {
	data := noisyRGB(40, 32, 1)
	out := encodeBytes(t, data, 40, 32, ColorRgb, nil)

	markers := markerList(t, out)

	if markers[0] != common.MarkerSOI {
		t.Errorf("first marker %#x", markers[0])
	}
	if markers[1] != common.MarkerAPP0 {
		t.Errorf("second marker %#x", markers[1])
	}
	if markers[len(markers)-1] != common.MarkerEOI {
		t.Errorf("last marker %#x", markers[len(markers)-1])
	}
	if n := countMarkers(markers, common.MarkerSOF0); n != 1 {
		t.Errorf("SOF0 count %d", n)
	}
	if n := countMarkers(markers, common.MarkerSOF2); n != 0 {
		t.Errorf("SOF2 count %d", n)
	}
	if n := countMarkers(markers, common.MarkerDQT); n != 2 {
		t.Errorf("DQT count %d", n)
	}
	if n := countMarkers(markers, common.MarkerDHT); n != 4 {
		t.Errorf("DHT count %d", n)
	}
	if n := countMarkers(markers, common.MarkerSOS); n != 1 {
		t.Errorf("SOS count %d", n)
	}
}

func TestProgressiveMarkerStructure(t *testing.T) {
	data := noisyRGB(40, 32, 2)
	out := encodeBytes(t, data, 40, 32, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
	})

	markers := markerList(t, out)

	if n := countMarkers(markers, common.MarkerSOF2); n != 1 {
		t.Errorf("SOF2 count %d", n)
	}
	if n := countMarkers(markers, common.MarkerSOS); n != len(DefaultScanScript(3)) {
		t.Errorf("SOS count %d, want %d", n, len(DefaultScanScript(3)))
	}
}

func TestProgressiveMatchesBaseline(t *testing.T) {
	// Progressive mode reorders the same quantized coefficients, so
	// both files must decode to identical pixels.
	const width, height = 37, 23
	data := noisyRGB(width, height, 3)

	baseline := encodeBytes(t, data, width, height, ColorRgb, nil)
	progressive := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
	})

	comparePixels(t, decodeImage(t, progressive), decodeImage(t, baseline), 0)
}

func TestSpectralScansMatchBaseline(t *testing.T) {
	const width, height = 33, 17
	data := grayGradient(width, height)

	baseline := encodeBytes(t, data, width, height, ColorLuma, nil)
	progressive := encodeBytes(t, data, width, height, ColorLuma, func(e *Encoder) {
		e.SetProgressiveScans(4)
	})

	comparePixels(t, decodeImage(t, progressive), decodeImage(t, baseline), 0)
}

func TestOptimizedTablesMatchDefault(t *testing.T) {
	const width, height = 48, 40
	data := noisyRGB(width, height, 4)

	plain := encodeBytes(t, data, width, height, ColorRgb, nil)
	optimized := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetOptimizedHuffmanTables(true)
	})

	comparePixels(t, decodeImage(t, optimized), decodeImage(t, plain), 0)
	t.Logf("default %d bytes, optimized %d bytes", len(plain), len(optimized))
}

func TestOptimizedTablesProgressive(t *testing.T) {
	const width, height = 32, 32
	data := noisyRGB(width, height, 5)

	plain := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
	})
	optimized := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
		e.SetOptimizedHuffmanTables(true)
	})

	comparePixels(t, decodeImage(t, optimized), decodeImage(t, plain), 0)
}

func TestRestartInterval(t *testing.T) {
	const width, height = 64, 64
	data := grayGradient(width, height)

	plain := encodeBytes(t, data, width, height, ColorLuma, nil)
	restarted := encodeBytes(t, data, width, height, ColorLuma, func(e *Encoder) {
		e.SetRestartInterval(4)
	})

	markers := markerList(t, restarted)
	if countMarkers(markers, common.MarkerDRI) != 1 {
		t.Error("no DRI segment")
	}
	// 64 MCUs in intervals of 4: a restart marker between each group
	rst := 0
	for _, m := range markers {
		if common.IsRST(m) {
			rst++
		}
	}
	if rst != 15 {
		t.Errorf("restart marker count %d, want 15", rst)
	}

	comparePixels(t, decodeImage(t, restarted), decodeImage(t, plain), 0)
}

func TestRestartIntervalProgressive(t *testing.T) {
	const width, height = 40, 24
	data := noisyRGB(width, height, 6)

	plain := encodeBytes(t, data, width, height, ColorRgb, nil)
	restarted := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
		e.SetRestartInterval(2)
	})

	comparePixels(t, decodeImage(t, restarted), decodeImage(t, plain), 0)
}

func TestEncodeCMYKFlat(t *testing.T) {
	const width, height = 24, 16
	want := [4]byte{64, 128, 192, 32}

	data := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		copy(data[i*4:], want[:])
	}

	var buf bytes.Buffer
	if err := New(&buf, 100).Encode(data, width, height, ColorCmyk); err != nil {
		t.Fatal(err)
	}

	markers := markerList(t, buf.Bytes())
	if countMarkers(markers, common.MarkerAPP14) != 1 {
		t.Error("no Adobe APP14 segment")
	}

	img := decodeImage(t, buf.Bytes())
	cmyk, ok := img.(*image.CMYK)
	if !ok {
		t.Fatalf("decoded as %T", img)
	}
	got := cmyk.CMYKAt(width/2, height/2)
	if got != (color.CMYK{C: want[0], M: want[1], Y: want[2], K: want[3]}) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEncodeYCCKFlat(t *testing.T) {
	const width, height = 16, 16
	want := [4]byte{64, 128, 192, 32}

	data := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		copy(data[i*4:], want[:])
	}

	var buf bytes.Buffer
	if err := New(&buf, 100).Encode(data, width, height, ColorCmykAsYcck); err != nil {
		t.Fatal(err)
	}

	cmyk, ok := decodeImage(t, buf.Bytes()).(*image.CMYK)
	if !ok {
		t.Fatal("not decoded as CMYK")
	}
	got := cmyk.CMYKAt(width/2, height/2)
	for i, g := range [4]byte{got.C, got.M, got.Y, got.K} {
		if d := int(g) - int(want[i]); d < -2 || d > 2 {
			t.Errorf("channel %d: got %d, want %d", i, g, want[i])
		}
	}
}

func TestPixelLayoutsAgree(t *testing.T) {
	const width, height = 16, 8
	rgb := noisyRGB(width, height, 7)

	bgr := make([]byte, len(rgb))
	for i := 0; i < width*height; i++ {
		bgr[i*3], bgr[i*3+1], bgr[i*3+2] = rgb[i*3+2], rgb[i*3+1], rgb[i*3]
	}
	rgba := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		copy(rgba[i*4:], rgb[i*3:i*3+3])
		rgba[i*4+3] = 0xFF
	}

	fromRGB := encodeBytes(t, rgb, width, height, ColorRgb, nil)
	fromBGR := encodeBytes(t, bgr, width, height, ColorBgr, nil)
	fromRGBA := encodeBytes(t, rgba, width, height, ColorRgba, nil)

	if !bytes.Equal(fromRGB, fromBGR) {
		t.Error("BGR input produced different output")
	}
	if !bytes.Equal(fromRGB, fromRGBA) {
		t.Error("RGBA input produced different output")
	}
}

func TestSubsamplingModes(t *testing.T) {
	const width, height = 32, 32
	data := noisyRGB(width, height, 8)

	averaged := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetSamplingFactor(F2x2)
	})
	dropped := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetSamplingFactor(F2x2)
		e.SetSubsamplingMode(SubsampleDrop)
	})

	if bytes.Equal(averaged, dropped) {
		t.Error("averaging and dropping produced identical output for noisy chroma")
	}
	decodeImage(t, averaged)
	decodeImage(t, dropped)
}

func TestSamplingFactorFour(t *testing.T) {
	// Factors above two cannot be coded interleaved, so the encoder
	// falls back to one scan per component.
	const width, height = 35, 19
	data := noisyRGB(width, height, 9)

	out := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetSamplingFactor(F4x1)
	})

	markers := markerList(t, out)
	if n := countMarkers(markers, common.MarkerSOS); n != 3 {
		t.Errorf("SOS count %d, want 3", n)
	}
	decodeImage(t, out)
}

func TestDensityWrittenToJFIFHeader(t *testing.T) {
	data := make([]byte, 8*8)
	out := encodeBytes(t, data, 8, 8, ColorLuma, func(e *Encoder) {
		e.SetDensity(DPI(300))
	})

	// SOI, APP0 marker, length, "JFIF\0", version
	if out[13] != byte(DensityInches) {
		t.Errorf("unit byte %d", out[13])
	}
	if x := int(out[14])<<8 | int(out[15]); x != 300 {
		t.Errorf("x density %d", x)
	}
	if y := int(out[16])<<8 | int(out[17]); y != 300 {
		t.Errorf("y density %d", y)
	}
}

func TestCustomQuantizationTables(t *testing.T) {
	const width, height = 24, 24
	data := grayGradient(width, height)

	var ones [64]uint16
	for i := range ones {
		ones[i] = 1
	}

	out := encodeBytes(t, data, width, height, ColorLuma, func(e *Encoder) {
		e.SetQuantizationTables(CustomQuantTable(ones), CustomQuantTable(ones))
	})

	gray := decodeImage(t, out).(*image.Gray)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			got := int(gray.GrayAt(x, y).Y)
			want := int(data[y*width+x])
			if d := got - want; d < -2 || d > 2 {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestQualityAffectsSize(t *testing.T) {
	const width, height = 64, 64
	data := noisyRGB(width, height, 10)

	var low, high bytes.Buffer
	if err := New(&low, 10).Encode(data, width, height, ColorRgb); err != nil {
		t.Fatal(err)
	}
	if err := New(&high, 95).Encode(data, width, height, ColorRgb); err != nil {
		t.Fatal(err)
	}

	if low.Len() >= high.Len() {
		t.Errorf("quality 10 produced %d bytes, quality 95 produced %d", low.Len(), high.Len())
	}
}

func TestQualityReducesError(t *testing.T) {
	// Raising the quality must not raise the mean squared error of the
	// decoded pixels against the source.
	const width, height = 64, 64
	data := noisyRGB(width, height, 14)

	mse := func(quality int) float64 {
		var buf bytes.Buffer
		if err := New(&buf, quality).Encode(data, width, height, ColorRgb); err != nil {
			t.Fatal(err)
		}
		img := decodeImage(t, buf.Bytes())

		var sum float64
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				for ch, got := range []int{int(r >> 8), int(g >> 8), int(b >> 8)} {
					d := float64(got - int(data[(y*width+x)*3+ch]))
					sum += d * d
				}
			}
		}
		return sum / float64(width*height*3)
	}

	qualities := []int{10, 30, 50, 90, 100}
	prev := mse(qualities[0])
	t.Logf("quality %d: mse %.2f", qualities[0], prev)
	for _, q := range qualities[1:] {
		cur := mse(q)
		t.Logf("quality %d: mse %.2f", q, cur)
		if cur > prev {
			t.Errorf("mse rose from %.2f to %.2f at quality %d", prev, cur, q)
		}
		prev = cur
	}
}

func TestEncodeDeterministic(t *testing.T) {
	const width, height = 40, 24
	data := noisyRGB(width, height, 11)

	first := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
		e.SetOptimizedHuffmanTables(true)
	})
	second := encodeBytes(t, data, width, height, ColorRgb, func(e *Encoder) {
		e.SetProgressive(true)
		e.SetOptimizedHuffmanTables(true)
	})

	if !bytes.Equal(first, second) {
		t.Error("repeated encodes differ")
	}
}

func TestAppSegments(t *testing.T) {
	data := make([]byte, 8*8)

	out := encodeBytes(t, data, 8, 8, ColorLuma, func(e *Encoder) {
		if err := e.AddExifMetadata([]byte{0x4D, 0x4D, 0x00, 0x2A}); err != nil {
			t.Fatal(err)
		}
		if err := e.AddICCProfile(make([]byte, 100000)); err != nil {
			t.Fatal(err)
		}
		if err := e.AddAppSegment(13, []byte("comment")); err != nil {
			t.Fatal(err)
		}
	})

	markers := markerList(t, out)
	if countMarkers(markers, common.MarkerAPP1) != 1 {
		t.Error("APP1 count")
	}
	// 100000 bytes split into 65519 byte chunks
	if n := countMarkers(markers, common.MarkerAPP2); n != 2 {
		t.Errorf("APP2 count %d, want 2", n)
	}
	if countMarkers(markers, common.MarkerAPP(13)) != 1 {
		t.Error("APP13 count")
	}
	decodeImage(t, out)
}

func TestAppSegmentErrors(t *testing.T) {
	enc := New(&bytes.Buffer{}, 75)

	if err := enc.AddAppSegment(0, nil); !errors.Is(err, common.ErrInvalidAppSegment) {
		t.Errorf("nr 0: %v", err)
	}
	if err := enc.AddAppSegment(16, nil); !errors.Is(err, common.ErrInvalidAppSegment) {
		t.Errorf("nr 16: %v", err)
	}
	if err := enc.AddAppSegment(1, make([]byte, 65534)); !errors.Is(err, common.ErrAppSegmentTooLarge) {
		t.Errorf("oversized: %v", err)
	}
	if err := enc.AddExifMetadata(make([]byte, 65534)); !errors.Is(err, common.ErrAppSegmentTooLarge) {
		t.Errorf("oversized exif: %v", err)
	}
	if err := enc.AddICCProfile(make([]byte, 256*65519)); !errors.Is(err, common.ErrIccProfileTooLarge) {
		t.Errorf("oversized icc: %v", err)
	}
}

func TestEncodeValidation(t *testing.T) {
	data := make([]byte, 64*64*3)

	if err := New(&bytes.Buffer{}, 75).Encode(data, 0, 64, ColorRgb); !errors.Is(err, common.ErrInvalidDimensions) {
		t.Errorf("zero width: %v", err)
	}
	if err := New(&bytes.Buffer{}, 75).Encode(data, 70000, 1, ColorRgb); !errors.Is(err, common.ErrInvalidDimensions) {
		t.Errorf("oversized width: %v", err)
	}
	if err := New(&bytes.Buffer{}, 75).Encode(data[:10], 64, 64, ColorRgb); !errors.Is(err, common.ErrBufferTooSmall) {
		t.Errorf("short buffer: %v", err)
	}

	enc := New(&bytes.Buffer{}, 75)
	enc.SetRestartInterval(70000)
	if err := enc.Encode(data, 64, 64, ColorRgb); !errors.Is(err, common.ErrInvalidConfig) {
		t.Errorf("restart interval: %v", err)
	}

	enc = New(&bytes.Buffer{}, 75)
	enc.SetScanScript(ScanScript{{Components: []int{0}, Ss: 1, Se: 63}})
	if err := enc.Encode(data, 64, 64, ColorRgb); !errors.Is(err, common.ErrInvalidScanScript) {
		t.Errorf("bad script: %v", err)
	}
}

type gradientBuffer struct {
	width, height int
}

func (b *gradientBuffer) JpegColorType() JpegColorType { return JpegLuma }
func (b *gradientBuffer) Width() int                   { return b.width }
func (b *gradientBuffer) Height() int                  { return b.height }

func (b *gradientBuffer) FillRow(y int, buffers *[4][]byte) {
	for x := 0; x < b.width; x++ {
		buffers[0] = append(buffers[0], byte((x+y)*4))
	}
}

func TestEncodeImageCustomBuffer(t *testing.T) {
	var buf bytes.Buffer
	enc := New(&buf, 85)
	if err := enc.EncodeImage(&gradientBuffer{width: 30, height: 22}); err != nil {
		t.Fatal(err)
	}

	img := decodeImage(t, buf.Bytes())
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 22 {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func BenchmarkEncodeBaseline(b *testing.B) {
	data := noisyRGB(256, 256, 12)
	b.SetBytes(256 * 256 * 3)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := New(&buf, 75).Encode(data, 256, 256, ColorRgb); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeProgressive(b *testing.B) {
	data := noisyRGB(256, 256, 13)
	b.SetBytes(256 * 256 * 3)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		enc := New(&buf, 75)
		enc.SetProgressive(true)
		if err := enc.Encode(data, 256, 256, ColorRgb); err != nil {
			b.Fatal(err)
		}
	}
}
