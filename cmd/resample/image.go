package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	resampler "github.com/tphakala/go-grid-resampler"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// readImage decodes a png, tiff or bmp file.
func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("empty %s image: %s", format, path)
	}
	return img, nil
}

// writeImage encodes img in the format named by the path extension and
// returns the number of bytes written.
func writeImage(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	w := bufio.NewWriter(f)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		err = png.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		err = bmp.Encode(w, img)
	default:
		err = fmt.Errorf("unsupported output format %q", ext)
	}
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}

	info, err := f.Stat()
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// detectLayout picks the channel count: gray stays single channel and
// alpha is kept only when some pixel is not opaque.
func detectLayout(img image.Image) int {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return grayChannels
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != opaqueAlpha {
				return rgbaChannels
			}
		}
	}
	return rgbChannels
}

// imageChannels splits img into 16-bit non-premultiplied channel grids.
func imageChannels(img image.Image, channels int) ([]*resampler.Grid[uint16], error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	samples := make([]uint16, 0, w*h*channels)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if channels == grayChannels {
				g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
				samples = append(samples, g.Y)
				continue
			}
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			samples = append(samples, c.R, c.G, c.B)
			if channels == rgbaChannels {
				samples = append(samples, c.A)
			}
		}
	}
	return resampler.DeinterleaveChannels(w, h, channels, samples)
}

// channelsImage merges resampled channels back into an image, saturating
// values outside the 16-bit range.
func channelsImage(grids []*resampler.Grid[float64], channels int) (image.Image, error) {
	if len(grids) != channels {
		return nil, fmt.Errorf("expected %d channels, got %d", channels, len(grids))
	}
	converted := make([]*resampler.Grid[uint16], len(grids))
	for c, g := range grids {
		converted[c] = resampler.Convert[uint16](g)
	}
	samples, err := resampler.InterleaveChannels(converted)
	if err != nil {
		return nil, err
	}

	w, h := grids[0].Width(), grids[0].Height()
	rect := image.Rect(0, 0, w, h)

	if channels == grayChannels {
		img := image.NewGray16(rect)
		for i, v := range samples {
			img.SetGray16(i%w, i/w, color.Gray16{Y: v})
		}
		return img, nil
	}

	img := image.NewNRGBA64(rect)
	for i := range w * h {
		base := i * channels
		px := color.NRGBA64{R: samples[base], G: samples[base+1], B: samples[base+2], A: opaqueAlpha}
		if channels == rgbaChannels {
			px.A = samples[base+3]
		}
		img.SetNRGBA64(i%w, i/w, px)
	}
	return img, nil
}
