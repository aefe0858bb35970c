package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	resampler "github.com/tphakala/go-grid-resampler"
)

func testRGBA(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * x), G: uint8(20 * y), B: 200, A: alpha})
		}
	}
	return img
}

func TestDetectLayout(t *testing.T) {
	assert.Equal(t, grayChannels, detectLayout(image.NewGray(image.Rect(0, 0, 2, 2))))
	assert.Equal(t, grayChannels, detectLayout(image.NewGray16(image.Rect(0, 0, 2, 2))))
	assert.Equal(t, rgbChannels, detectLayout(testRGBA(3, 3, 255)))
	assert.Equal(t, rgbaChannels, detectLayout(testRGBA(3, 3, 128)))
}

func TestImageChannels_RoundTrip(t *testing.T) {
	for _, alpha := range []uint8{255, 128} {
		src := testRGBA(5, 4, alpha)
		layout := detectLayout(src)
		grids, err := imageChannels(src, layout)
		require.NoError(t, err)
		require.Len(t, grids, layout)
		assert.Equal(t, 5, grids[0].Width())
		assert.Equal(t, 4, grids[0].Height())

		floats := make([]*resampler.Grid[float64], len(grids))
		for c, g := range grids {
			floats[c] = g.Float64()
		}
		back, err := channelsImage(floats, layout)
		require.NoError(t, err)
		for y := range 4 {
			for x := range 5 {
				want := color.NRGBA64Model.Convert(src.At(x, y))
				assert.Equal(t, want, back.At(x, y), "alpha %d at (%d, %d)", alpha, x, y)
			}
		}
	}
}

func TestChannelsImage_Gray(t *testing.T) {
	g, err := resampler.NewGridFromData(2, 1, []float64{-5, 70000})
	require.NoError(t, err)
	img, err := channelsImage([]*resampler.Grid[float64]{g}, grayChannels)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray16)
	require.True(t, ok)
	assert.Equal(t, uint16(0), gray.Gray16At(0, 0).Y)
	assert.Equal(t, uint16(0xffff), gray.Gray16At(1, 0).Y)

	_, err = channelsImage([]*resampler.Grid[float64]{g}, rgbChannels)
	require.Error(t, err)
}

func TestWriteReadImage(t *testing.T) {
	dir := t.TempDir()
	src := testRGBA(6, 3, 255)

	for _, name := range []string{"out.png", "out.tiff", "out.bmp"} {
		path := filepath.Join(dir, name)
		size, err := writeImage(path, src)
		require.NoError(t, err, name)
		assert.Positive(t, size)

		img, err := readImage(path)
		require.NoError(t, err, name)
		assert.Equal(t, src.Bounds(), img.Bounds())
		r, g, b, _ := img.At(2, 1).RGBA()
		wr, wg, wb, _ := src.At(2, 1).RGBA()
		assert.Equal(t, []uint32{wr, wg, wb}, []uint32{r, g, b}, name)
	}

	_, err := writeImage(filepath.Join(dir, "out.gif"), src)
	require.Error(t, err)
	_, err = readImage(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

func TestResizeConfig(t *testing.T) {
	cfg, err := resizeConfig(100, 50, options{zoom: 1, quality: resampler.QualityHigh})
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = resizeConfig(100, 50, options{zoom: 1, width: 40, quality: resampler.QualityHigh})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	w, h, err := resampler.OutputSize(100, 50, cfg)
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)

	cfg, err = resizeConfig(100, 50, options{zoom: 2, antisym: true})
	require.NoError(t, err)
	assert.True(t, cfg.AllowEnlarge)
	assert.Equal(t, resampler.BoundaryAntisymmetric, cfg.Boundary)

	_, err = resizeConfig(100, 50, options{zoom: 1, height: 10, invertible: true})
	require.Error(t, err)
}

func TestProcess(t *testing.T) {
	const w, h = 16, 12
	data := make([]uint16, w*h)
	for i := range data {
		data[i] = 1000
	}
	g, err := resampler.NewGridFromData(w, h, data)
	require.NoError(t, err)

	out, err := process([]*resampler.Grid[uint16]{g, g}, options{
		zoom:    0.5,
		degree:  3,
		quality: resampler.QualityHigh,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 8, out[1].Width())
	assert.Equal(t, 6, out[1].Height())
	for _, v := range out[0].Data() {
		assert.InDelta(t, 1000.0, v, 1e-9)
	}

	rotated, err := process([]*resampler.Grid[uint16]{g}, options{zoom: 1, rotate: 90, degree: 3})
	require.NoError(t, err)
	assert.Equal(t, w, rotated[0].Width())

	_, err = process([]*resampler.Grid[uint16]{g}, options{zoom: 1, rotate: 10, degree: 12})
	require.ErrorIs(t, err, resampler.ErrUnsupportedDegree)
}

