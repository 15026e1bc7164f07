package scene

import (
	"github.com/avass/go-live-raytracer/pkg/core"
	"github.com/avass/go-live-raytracer/pkg/geometry"
	"github.com/avass/go-live-raytracer/pkg/material"
)

// Scene is an ordered collection of primitives plus the background gradient.
// Construction happens once at startup (or on reload); afterwards the scene
// is immutable and shared read-only across all rendering goroutines.
type Scene struct {
	Spheres      []geometry.Sphere
	CameraConfig geometry.CameraConfig
	TopColor     core.Vec3 // Background color straight up
	BottomColor  core.Vec3 // Background color straight down
}

// GetSpheres returns the scene's primitives
func (s *Scene) GetSpheres() []geometry.Sphere {
	return s.Spheres
}

// GetBackgroundColors returns the background gradient endpoints
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// defaultBackground returns the standard white-to-sky-blue gradient
func defaultBackground() (top, bottom core.Vec3) {
	return core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1, 1, 1)
}

// NewDefaultScene creates the two-sphere scene: a small diffuse sphere
// resting on a large diffuse ground sphere
func NewDefaultScene() *Scene {
	top, bottom := defaultBackground()

	return &Scene{
		Spheres: []geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5,
				material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100,
				material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		},
		CameraConfig: geometry.DefaultCameraConfig(),
		TopColor:     top,
		BottomColor:  bottom,
	}
}

// NewThreeSphereScene creates a diffuse center sphere flanked by two metal
// spheres, one mirror-smooth and one fuzzy, on a diffuse ground
func NewThreeSphereScene() *Scene {
	top, bottom := defaultBackground()

	return &Scene{
		Spheres: []geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5,
				material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
			geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5,
				material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)),
			geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5,
				material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100,
				material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		},
		CameraConfig: geometry.DefaultCameraConfig(),
		TopColor:     top,
		BottomColor:  bottom,
	}
}

// builtinScenes maps scene names accepted by the CLI and web server
var builtinScenes = map[string]func() *Scene{
	"default":       NewDefaultScene,
	"three-spheres": NewThreeSphereScene,
}

// NewBuiltinScene creates a built-in scene by name, or nil if unknown
func NewBuiltinScene(name string) *Scene {
	build, ok := builtinScenes[name]
	if !ok {
		return nil
	}
	return build()
}

// BuiltinSceneNames returns the names accepted by NewBuiltinScene
func BuiltinSceneNames() []string {
	return []string{"default", "three-spheres"}
}
