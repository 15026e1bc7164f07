package renderer

import (
	"math/rand"

	"github.com/avass/go-live-raytracer/pkg/core"
	"github.com/avass/go-live-raytracer/pkg/geometry"
)

// RealtimeConfig configures the progressive-refinement variant
type RealtimeConfig struct {
	SamplesPerFrame int     // Small fixed sample count per frame
	MaxDepth        int     // Maximum ray bounce depth
	MaxWeight       float32 // Cap on the accumulation weight, in (0,1]
	Seed            int64   // Seeds the per-frame seed shuffle
}

// DefaultRealtimeConfig returns sensible default values
func DefaultRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		SamplesPerFrame: 1,
		MaxDepth:        50,
		MaxWeight:       0.95,
		Seed:            42,
	}
}

// RealtimeRenderer renders low-sample frames and blends them into a
// temporal accumulation. Each frame draws a fresh seed, decorrelating
// noise across frames so the blend converges toward the full render
// instead of reinforcing fixed-pattern noise.
type RealtimeRenderer struct {
	raytracer *Raytracer
	accum     *Accumulator
	seeds     *rand.Rand
	frame     []float32
}

// NewRealtimeRenderer creates a realtime renderer for fixed dimensions
func NewRealtimeRenderer(scene Scene, cameraConfig geometry.CameraConfig, width, height int, config RealtimeConfig) (*RealtimeRenderer, error) {
	raytracer, err := NewRaytracer(scene, cameraConfig, width, height, SamplingConfig{
		SamplesPerPixel: config.SamplesPerFrame,
		MaxDepth:        config.MaxDepth,
	})
	if err != nil {
		return nil, err
	}
	accum, err := NewAccumulator(width, height, config.MaxWeight)
	if err != nil {
		return nil, err
	}

	return &RealtimeRenderer{
		raytracer: raytracer,
		accum:     accum,
		seeds:     rand.New(rand.NewSource(config.Seed)),
		frame:     make([]float32, width*height*4),
	}, nil
}

// RenderNext renders one frame with a reshuffled seed and accumulates it
func (rr *RealtimeRenderer) RenderNext() error {
	sampler := core.NewSeededSampler(rr.seeds.Int63())
	if err := rr.raytracer.RenderIntoLinear(rr.frame, sampler); err != nil {
		return err
	}
	return rr.accum.AddFrame(rr.frame)
}

// EncodeSRGB writes the accumulated image into dst as 8-bit sRGB bytes
func (rr *RealtimeRenderer) EncodeSRGB(dst []byte) error {
	return rr.accum.EncodeSRGB(dst)
}

// FrameCount returns the number of accumulated frames
func (rr *RealtimeRenderer) FrameCount() int {
	return rr.accum.FrameCount()
}

// Reset discards the accumulation after a scene or camera change
func (rr *RealtimeRenderer) Reset() {
	rr.accum.Reset()
}
