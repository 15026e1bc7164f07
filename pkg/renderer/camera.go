package renderer

import (
	"fmt"

	"github.com/avass/go-live-raytracer/pkg/core"
	"github.com/avass/go-live-raytracer/pkg/geometry"
)

// Camera generates primary rays through a fixed viewport rectangle
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera for the given image dimensions.
// Rejects zero image dimensions and zero-area viewports up front,
// so the render loop never sees a degenerate mapping.
func NewCamera(config geometry.CameraConfig, width, height int) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
	}
	if config.ViewportHeight <= 0 {
		return nil, fmt.Errorf("viewport height must be positive, got %g", config.ViewportHeight)
	}
	if config.FocalLength <= 0 {
		return nil, fmt.Errorf("focal length must be positive, got %g", config.FocalLength)
	}

	aspectRatio := float64(width) / float64(height)
	viewportHeight := config.ViewportHeight
	viewportWidth := aspectRatio * viewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// RayThrough generates a ray for normalized coordinates (u, v) in [0,1]².
// v = 0 is the top image row; the flip to viewport space happens here.
func (c *Camera) RayThrough(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(1 - v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
