package scene

import (
	"encoding/binary"
	"math"

	"github.com/avass/go-live-raytracer/pkg/geometry"
	"github.com/avass/go-live-raytracer/pkg/material"
)

// The GPU-shader encoding path consumes the scene as typed tables keyed by
// material variant. Each packed struct is 16 bytes so the byte output
// satisfies uniform-buffer alignment rules without an explicit layout pass.

// SphereData is the flattened form of one sphere primitive
type SphereData struct {
	Center [3]float32
	Radius float32
}

// LambertianData is the flattened parameter block of a Lambertian material
type LambertianData struct {
	Albedo [3]float32
	// Padded to 16 bytes when packed
}

// MetalData is the flattened parameter block of a Metal material
type MetalData struct {
	Albedo [3]float32
	Fuzz   float32
}

// VariantRange is an index range into the flattened sphere list,
// covering all spheres of one material variant
type VariantRange struct {
	Offset uint32
	Count  uint32
}

// FlatScene is the scene flattened for typed-buffer consumers.
// Spheres are grouped by material variant; MaterialIndex maps each sphere
// to its row in the variant's parameter table.
type FlatScene struct {
	Spheres       []SphereData
	MaterialIndex []uint32
	Lambertians   []LambertianData
	Metals        []MetalData

	LambertianRange VariantRange
	MetalRange      VariantRange
}

// Flatten produces the typed-buffer representation of the scene.
// In-variant primitive order follows scene order, so the flattening is
// stable across calls for an unchanged scene.
func (s *Scene) Flatten() FlatScene {
	var flat FlatScene

	appendSphere := func(sphere geometry.Sphere, materialRow uint32) {
		flat.Spheres = append(flat.Spheres, SphereData{
			Center: vec3To32(sphere.Center.X, sphere.Center.Y, sphere.Center.Z),
			Radius: float32(sphere.Radius),
		})
		flat.MaterialIndex = append(flat.MaterialIndex, materialRow)
	}

	flat.LambertianRange.Offset = 0
	for _, sphere := range s.Spheres {
		if sphere.Material.Kind != material.Lambertian {
			continue
		}
		appendSphere(sphere, uint32(len(flat.Lambertians)))
		flat.Lambertians = append(flat.Lambertians, LambertianData{
			Albedo: vec3To32(sphere.Material.Albedo.X, sphere.Material.Albedo.Y, sphere.Material.Albedo.Z),
		})
	}
	flat.LambertianRange.Count = uint32(len(flat.Spheres))

	flat.MetalRange.Offset = uint32(len(flat.Spheres))
	for _, sphere := range s.Spheres {
		if sphere.Material.Kind != material.Metal {
			continue
		}
		appendSphere(sphere, uint32(len(flat.Metals)))
		flat.Metals = append(flat.Metals, MetalData{
			Albedo: vec3To32(sphere.Material.Albedo.X, sphere.Material.Albedo.Y, sphere.Material.Albedo.Z),
			Fuzz:   float32(sphere.Material.Fuzz),
		})
	}
	flat.MetalRange.Count = uint32(len(flat.Spheres)) - flat.MetalRange.Offset

	return flat
}

// PackSpheres serializes the sphere table, 16 bytes per sphere, little-endian
func (f *FlatScene) PackSpheres() []byte {
	out := make([]byte, 0, len(f.Spheres)*16)
	for _, s := range f.Spheres {
		out = appendF32(out, s.Center[0], s.Center[1], s.Center[2], s.Radius)
	}
	return out
}

// PackLambertians serializes the Lambertian parameter table, 16 bytes per row
func (f *FlatScene) PackLambertians() []byte {
	out := make([]byte, 0, len(f.Lambertians)*16)
	for _, l := range f.Lambertians {
		out = appendF32(out, l.Albedo[0], l.Albedo[1], l.Albedo[2], 0)
	}
	return out
}

// PackMetals serializes the Metal parameter table, 16 bytes per row
func (f *FlatScene) PackMetals() []byte {
	out := make([]byte, 0, len(f.Metals)*16)
	for _, m := range f.Metals {
		out = appendF32(out, m.Albedo[0], m.Albedo[1], m.Albedo[2], m.Fuzz)
	}
	return out
}

// PackCameraUniform serializes the camera parameter block consumed by the
// shader: origin, focal length, image shape, viewport shape. 32 bytes.
func PackCameraUniform(config geometry.CameraConfig, width, height int) []byte {
	aspectRatio := float32(width) / float32(height)
	viewportHeight := float32(config.ViewportHeight)

	out := make([]byte, 0, 32)
	out = appendF32(out,
		float32(config.Origin.X), float32(config.Origin.Y), float32(config.Origin.Z),
		float32(config.FocalLength),
		float32(width), float32(height),
		viewportHeight*aspectRatio, viewportHeight,
	)
	return out
}

func vec3To32(x, y, z float64) [3]float32 {
	return [3]float32{float32(x), float32(y), float32(z)}
}

func appendF32(dst []byte, values ...float32) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
