package renderer

import (
	"fmt"
	"math"

	"github.com/avass/go-live-raytracer/pkg/core"
	"github.com/avass/go-live-raytracer/pkg/geometry"
	"github.com/avass/go-live-raytracer/pkg/material"
)

// Intersection lower bound, just above zero to avoid self-intersection
const tHitMin = 0.001

// Scene interface to avoid circular imports
type Scene interface {
	GetSpheres() []geometry.Sphere
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
}

// SamplingConfig contains per-frame rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Raytracer renders a scene through a camera at fixed dimensions.
// The scene is read-only, so one raytracer can be shared by the
// synchronous API or cloned per worker by the progressive scheduler.
type Raytracer struct {
	scene         Scene
	camera        *Camera
	width, height int
	config        SamplingConfig
}

// NewRaytracer creates a raytracer, validating camera and dimensions
func NewRaytracer(scene Scene, cameraConfig geometry.CameraConfig, width, height int, config SamplingConfig) (*Raytracer, error) {
	camera, err := NewCamera(cameraConfig, width, height)
	if err != nil {
		return nil, err
	}
	if config.SamplesPerPixel <= 0 {
		return nil, fmt.Errorf("samples per pixel must be positive, got %d", config.SamplesPerPixel)
	}
	if config.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must be non-negative, got %d", config.MaxDepth)
	}

	return &Raytracer{
		scene:  scene,
		camera: camera,
		width:  width,
		height: height,
		config: config,
	}, nil
}

// hitScene finds the closest intersection via a linear scan,
// shrinking the valid upper bound as closer hits are found
func (rt *Raytracer) hitScene(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, sphere := range rt.scene.GetSpheres() {
		if hit, isHit := sphere.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// backgroundGradient returns the environment color for a ray that missed
// everything: a vertical blend between the scene's bottom and top colors
func (rt *Raytracer) backgroundGradient(ray core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.GetBackgroundColors()

	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)

	return bottomColor.Lerp(topColor, t)
}

// RayColor traces a ray recursively and returns its linear-space color.
// depth bounds the recursion: at zero the path terminates black.
func (rt *Raytracer) RayColor(ray core.Ray, sampler core.Sampler, depth int) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.hitScene(ray, tHitMin, math.Inf(1))
	if !isHit {
		return rt.backgroundGradient(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{} // Absorbed
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, sampler, depth-1))
}

// renderPixel averages the configured number of jittered samples for
// pixel (x, y) and returns the clamped linear color
func (rt *Raytracer) renderPixel(x, y int, sampler core.Sampler) core.Vec3 {
	var accum core.Vec3

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		jitter := sampler.Get2D()
		u := (float64(x) + jitter.X) / float64(rt.width)
		v := (float64(y) + jitter.Y) / float64(rt.height)

		ray := rt.camera.RayThrough(u, v)
		accum = accum.Add(rt.RayColor(ray, sampler, rt.config.MaxDepth).Clamp(0, 1))
	}

	return accum.Multiply(1.0 / float64(rt.config.SamplesPerPixel))
}

// RenderInto renders the whole image into dst as tightly packed RGBA rows,
// top-to-bottom, A always 255. dst must hold width*height*4 bytes.
func (rt *Raytracer) RenderInto(dst []byte, sampler core.Sampler) error {
	if len(dst) != rt.width*rt.height*4 {
		return fmt.Errorf("destination buffer has %d bytes, want %d", len(dst), rt.width*rt.height*4)
	}

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			pixel := encodeSRGB(rt.renderPixel(x, y, sampler))
			copy(dst[(y*rt.width+x)*4:], pixel[:])
		}
	}
	return nil
}

// RenderIntoLinear renders the whole image into dst as linear float32 RGBA,
// the format consumed by the temporal accumulator. A is always 1.
func (rt *Raytracer) RenderIntoLinear(dst []float32, sampler core.Sampler) error {
	if len(dst) != rt.width*rt.height*4 {
		return fmt.Errorf("destination buffer has %d values, want %d", len(dst), rt.width*rt.height*4)
	}

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			color := rt.renderPixel(x, y, sampler)
			i := (y*rt.width + x) * 4
			dst[i] = float32(color.X)
			dst[i+1] = float32(color.Y)
			dst[i+2] = float32(color.Z)
			dst[i+3] = 1
		}
	}
	return nil
}

// RenderFrame renders a full frame synchronously. The output is
// deterministic given identical scene, camera, dimensions, sampling
// configuration and seed.
func RenderFrame(scene Scene, cameraConfig geometry.CameraConfig, width, height, samplesPerPixel, maxDepth int, seed int64) ([]byte, error) {
	rt, err := NewRaytracer(scene, cameraConfig, width, height, SamplingConfig{
		SamplesPerPixel: samplesPerPixel,
		MaxDepth:        maxDepth,
	})
	if err != nil {
		return nil, err
	}

	dst := make([]byte, width*height*4)
	if err := rt.RenderInto(dst, core.NewSeededSampler(seed)); err != nil {
		return nil, err
	}
	return dst, nil
}
