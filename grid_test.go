package resampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid[uint16](5, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Len(t, g.Data(), 15)

	for _, size := range [][2]int{{0, 3}, {3, 0}, {-1, 1}} {
		_, err := NewGrid[float32](size[0], size[1])
		require.ErrorIs(t, err, ErrIncompatibleShape, "size %v", size)
	}
}

func TestNewGridFromData_Copies(t *testing.T) {
	data := []int16{1, 2, 3, 4, 5, 6}
	g, err := NewGridFromData(3, 2, data)
	require.NoError(t, err)

	data[0] = 99
	assert.Equal(t, int16(1), g.At(0, 0))
	assert.Equal(t, int16(6), g.At(2, 1))

	out := g.Data()
	out[1] = 42
	assert.Equal(t, int16(2), g.At(1, 0))

	_, err = NewGridFromData(3, 3, data)
	require.ErrorIs(t, err, ErrIncompatibleShape)
}

func TestGrid_SetAndClone(t *testing.T) {
	g, err := NewGrid[int32](4, 4)
	require.NoError(t, err)
	g.Set(3, 2, -7)
	assert.Equal(t, int32(-7), g.At(3, 2))

	c := g.Clone()
	c.Set(3, 2, 5)
	assert.Equal(t, int32(-7), g.At(3, 2))
	assert.Equal(t, int32(5), c.At(3, 2))

	assert.Panics(t, func() { g.At(4, 0) })
	assert.Panics(t, func() { g.Set(0, -1, 1) })
}

func TestGrid_Float64(t *testing.T) {
	g, err := NewGridFromData(2, 2, []int8{-128, 0, 1, 127})
	require.NoError(t, err)
	f := g.Float64()
	assert.Equal(t, []float64{-128, 0, 1, 127}, f.Data())
}

func TestConvert(t *testing.T) {
	src, err := NewGridFromData(7, 1, []float64{-3.2, 0.4, 127.5, 254.6, 300, math.NaN(), math.Inf(-1)})
	require.NoError(t, err)

	assert.Equal(t, []uint8{0, 0, 128, 255, 255, 0, 0}, Convert[uint8](src).Data())
	assert.Equal(t, []int8{-3, 0, 127, 127, 127, 0, -128}, Convert[int8](src).Data())
	assert.Equal(t, []int16{-3, 0, 128, 255, 300, 0, math.MinInt16}, Convert[int16](src).Data())
	assert.Equal(t, []uint32{0, 0, 128, 255, 300, 0, 0}, Convert[uint32](src).Data())

	halves, err := NewGridFromData(4, 1, []float64{-0.5, 0.5, -1.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 1, -2, 2}, Convert[int32](halves).Data())

	f := Convert[float32](src).Data()
	assert.InDelta(t, -3.2, float64(f[0]), 1e-6)
	assert.True(t, math.IsNaN(float64(f[5])))
}
