package material

import (
	"github.com/avass/go-live-raytracer/pkg/core"
)

// Kind identifies a material variant
type Kind uint8

const (
	// Lambertian is a perfectly diffuse surface
	Lambertian Kind = iota
	// Metal is a specular reflector with optional fuzz
	Metal
)

// Material is a closed set of variants dispatched by Kind.
// The variant set is fixed, so a tagged struct with exhaustive switching
// keeps scattering allocation-free and lets the scene be flattened into
// typed per-variant tables for the GPU encoding path.
type Material struct {
	Kind   Kind
	Albedo core.Vec3 // Base reflectance, components in [0,1]
	Fuzz   float64   // Metal only: 0 = perfect mirror
}

// NewLambertian creates a diffuse material with the given albedo
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: Lambertian, Albedo: albedo}
}

// NewMetal creates a reflective material with the given albedo and fuzz
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	if fuzz < 0 {
		fuzz = 0
	}
	return Material{Kind: Metal, Albedo: albedo, Fuzz: fuzz}
}

// ScatterResult contains the outgoing ray and attenuation of a scatter event
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray, originating at the hit point
	Attenuation core.Vec3 // Per-channel energy loss applied at this bounce
}

// Scatter computes the outgoing ray for an incoming ray at a surface hit.
// Returns false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case Lambertian:
		return m.scatterLambertian(hit, sampler)
	case Metal:
		return m.scatterMetal(rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}

// scatterLambertian biases the scatter direction by the surface normal
// plus a uniform point on the unit sphere (cosine-weighted overall)
func (m Material) scatterLambertian(hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.SampleOnUnitSphere(sampler.Get2D()))

	// A sample exactly opposite the normal would produce a degenerate ray
	if direction.LengthSquared() == 0 {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, true
}

// scatterMetal reflects the incoming direction about the normal,
// perturbed by fuzz. Scatters that dip below the surface are absorbed.
func (m Material) scatterMetal(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := reflect(rayIn.Direction, hit.Normal)

	if m.Fuzz > 0 {
		perturbation := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(m.Fuzz)
		reflected = reflected.Add(perturbation)
	}

	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.Albedo,
	}, true
}

// reflect calculates the reflection of a vector v off a surface with unit normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
