package renderer

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Accumulator blends successive noisy frames into a running weighted
// average for temporal noise reduction. Two linear float32 RGBA buffers
// are swapped every completed frame; the previous accumulation is mixed
// with each new frame at a weight that grows with the frame count but is
// capped below one, so the image keeps adapting if the scene changes.
type Accumulator struct {
	width, height int
	maxWeight     float32
	frameCount    int
	target        []float32
	secondary     []float32
}

// NewAccumulator creates an accumulator. maxWeight must be in (0, 1].
func NewAccumulator(width, height int, maxWeight float32) (*Accumulator, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("accumulator dimensions must be positive, got %dx%d", width, height)
	}
	if maxWeight <= 0 || maxWeight > 1 {
		return nil, fmt.Errorf("max weight must be in (0,1], got %g", maxWeight)
	}
	n := width * height * 4
	return &Accumulator{
		width:     width,
		height:    height,
		maxWeight: maxWeight,
		target:    make([]float32, n),
		secondary: make([]float32, n),
	}, nil
}

// Weight returns the blend weight of the previous accumulation for the
// next frame: min(maxWeight, n/(n+1)) with n the running frame count
func (a *Accumulator) Weight() float32 {
	n := float32(a.frameCount)
	return math32.Min(a.maxWeight, n/(n+1))
}

// FrameCount returns the number of frames blended so far
func (a *Accumulator) FrameCount() int {
	return a.frameCount
}

// AddFrame blends a new linear float32 RGBA frame into the accumulation:
// result = mix(frame, previous, weight). The buffers swap afterwards.
func (a *Accumulator) AddFrame(frame []float32) error {
	if len(frame) != len(a.target) {
		return fmt.Errorf("frame has %d values, want %d", len(frame), len(a.target))
	}

	weight := a.Weight()
	for i, c := range frame {
		a.secondary[i] = c*(1-weight) + a.target[i]*weight
	}
	a.target, a.secondary = a.secondary, a.target
	a.frameCount++
	return nil
}

// Reset discards the accumulation, e.g. after a scene or camera change
func (a *Accumulator) Reset() {
	a.frameCount = 0
	clear(a.target)
	clear(a.secondary)
}

// EncodeSRGB writes the accumulated image into dst as 8-bit sRGB RGBA
// bytes, A always 255. dst must hold width*height*4 bytes.
func (a *Accumulator) EncodeSRGB(dst []byte) error {
	if len(dst) != len(a.target) {
		return fmt.Errorf("destination has %d bytes, want %d", len(dst), len(a.target))
	}
	for i := 0; i < len(a.target); i += 4 {
		dst[i] = quantize32(linearToSRGB32(a.target[i]))
		dst[i+1] = quantize32(linearToSRGB32(a.target[i+1]))
		dst[i+2] = quantize32(linearToSRGB32(a.target[i+2]))
		dst[i+3] = 255
	}
	return nil
}

// linearToSRGB32 is the float32 variant of the sRGB transfer function,
// matching what the shader path computes
func linearToSRGB32(c float32) float32 {
	c = math32.Max(0, math32.Min(1, c))
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math32.Pow(c, 1.0/2.4) - 0.055
}

func quantize32(s float32) byte {
	return byte(math32.Max(0, math32.Min(255, s*256)))
}
