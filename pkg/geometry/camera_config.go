package geometry

import (
	"github.com/avass/go-live-raytracer/pkg/core"
)

// CameraConfig holds the camera and viewport parameters.
// Passed explicitly through camera and scheduler constructors
// rather than held as ambient global state.
type CameraConfig struct {
	Origin         core.Vec3 // Camera position
	FocalLength    float64   // Distance from origin to the viewport plane
	ViewportHeight float64   // Height of the viewport rectangle in world units
}

// DefaultCameraConfig returns the standard camera at the world origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		FocalLength:    1.0,
		ViewportHeight: 2.0,
	}
}
