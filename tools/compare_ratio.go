// Command compare_ratio compares JPEG compression against general
// purpose zstd compression of the raw pixels for a given image file.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"runtime"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-jpeg-encoder/jpeg/encoder"
)

func main() {
	quality := flag.Int("quality", 85, "JPEG quality (1-100)")
	progressive := flag.Bool("progressive", false, "use progressive encoding")
	optimize := flag.Bool("optimize", true, "optimize Huffman tables")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	pixels := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := rgba.PixOffset(x, y)
			copy(pixels[(y*width+x)*3:], rgba.Pix[p:p+3])
		}
	}

	var jpegOut bytes.Buffer
	enc := encoder.New(&jpegOut, *quality)
	enc.SetProgressive(*progressive)
	enc.SetOptimizedHuffmanTables(*optimize)
	if err := enc.Encode(pixels, width, height, encoder.ColorRgb); err != nil {
		log.Fatal(err)
	}

	zstdOut, err := compressZstd(pixels)
	if err != nil {
		log.Fatal(err)
	}

	raw := len(pixels)
	fmt.Printf("input:      %s %dx%d (%s)\n", flag.Arg(0), width, height, format)
	fmt.Printf("raw pixels: %d bytes\n", raw)
	fmt.Printf("jpeg q%d:   %d bytes (%.2f:1)\n", *quality, jpegOut.Len(), ratio(raw, jpegOut.Len()))
	fmt.Printf("zstd:       %d bytes (%.2f:1)\n", len(zstdOut), ratio(raw, len(zstdOut)))
}

func compressZstd(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ratio(raw, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(raw) / float64(compressed)
}
