package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantFrame(width, height int, value float32) []float32 {
	frame := make([]float32, width*height*4)
	for i := range frame {
		frame[i] = value
	}
	return frame
}

func TestNewAccumulatorValidation(t *testing.T) {
	_, err := NewAccumulator(0, 10, 0.95)
	assert.Error(t, err, "zero width")

	_, err = NewAccumulator(10, 10, 0)
	assert.Error(t, err, "zero max weight")

	_, err = NewAccumulator(10, 10, 1.5)
	assert.Error(t, err, "max weight above one")

	_, err = NewAccumulator(10, 10, 1)
	assert.NoError(t, err, "max weight of exactly one is valid")
}

func TestAccumulatorWeightSchedule(t *testing.T) {
	a, err := NewAccumulator(2, 2, 0.8)
	require.NoError(t, err)

	// n/(n+1) until the cap takes over
	assert.Equal(t, float32(0), a.Weight(), "first frame replaces the buffer")

	frame := constantFrame(2, 2, 0.5)
	require.NoError(t, a.AddFrame(frame))
	assert.Equal(t, float32(0.5), a.Weight())

	require.NoError(t, a.AddFrame(frame))
	assert.InDelta(t, float32(2.0/3.0), a.Weight(), 1e-6)

	for i := 0; i < 10; i++ {
		require.NoError(t, a.AddFrame(frame))
	}
	assert.Equal(t, float32(0.8), a.Weight(), "weight is capped")
	assert.Equal(t, 12, a.FrameCount())
}

func TestAccumulatorFirstFrameReplaces(t *testing.T) {
	a, err := NewAccumulator(2, 2, 0.95)
	require.NoError(t, err)

	require.NoError(t, a.AddFrame(constantFrame(2, 2, 0.25)))
	for _, v := range a.target {
		assert.Equal(t, float32(0.25), v)
	}
}

func TestAccumulatorRunningMean(t *testing.T) {
	// With the cap at 1 the blend is an exact running arithmetic mean
	a, err := NewAccumulator(2, 2, 1)
	require.NoError(t, err)

	for _, v := range []float32{1, 2, 3, 4} {
		require.NoError(t, a.AddFrame(constantFrame(2, 2, v)))
	}
	for _, v := range a.target {
		assert.InDelta(t, float32(2.5), v, 1e-5)
	}
}

func TestAccumulatorAdaptsToChange(t *testing.T) {
	a, err := NewAccumulator(2, 2, 0.5)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, a.AddFrame(constantFrame(2, 2, 0)))
	}
	// The scene "changes": the capped weight lets new content win
	for i := 0; i < 30; i++ {
		require.NoError(t, a.AddFrame(constantFrame(2, 2, 1)))
	}
	for _, v := range a.target {
		assert.InDelta(t, float32(1), v, 1e-6)
	}
}

func TestAccumulatorReset(t *testing.T) {
	a, err := NewAccumulator(2, 2, 0.95)
	require.NoError(t, err)
	require.NoError(t, a.AddFrame(constantFrame(2, 2, 0.5)))

	a.Reset()
	assert.Equal(t, 0, a.FrameCount())
	assert.Equal(t, float32(0), a.Weight())
	for _, v := range a.target {
		assert.Equal(t, float32(0), v)
	}
}

func TestAccumulatorRejectsWrongSizes(t *testing.T) {
	a, err := NewAccumulator(2, 2, 0.95)
	require.NoError(t, err)

	assert.Error(t, a.AddFrame(make([]float32, 3)))
	assert.Error(t, a.EncodeSRGB(make([]byte, 3)))
}

func TestAccumulatorEncodeSRGB(t *testing.T) {
	a, err := NewAccumulator(2, 2, 0.95)
	require.NoError(t, err)
	require.NoError(t, a.AddFrame(constantFrame(2, 2, 1)))

	dst := make([]byte, 2*2*4)
	require.NoError(t, a.EncodeSRGB(dst))
	for i := 0; i < len(dst); i += 4 {
		assert.Equal(t, byte(255), dst[i], "full linear white encodes to 255")
		assert.Equal(t, byte(255), dst[i+3], "alpha is opaque")
	}
}

func TestLinearToSRGB32MatchesFloat64(t *testing.T) {
	for i := 0; i <= 20; i++ {
		c := float64(i) / 20
		assert.InDelta(t, linearToSRGB(c), float64(linearToSRGB32(float32(c))), 1e-4)
	}
}
