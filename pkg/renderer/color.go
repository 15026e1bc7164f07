package renderer

import (
	"math"

	"github.com/avass/go-live-raytracer/pkg/core"
)

// linearToSRGB applies the standard piecewise sRGB transfer function
// to a linear value in [0,1]
func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// encodeSRGB converts a linear color to 8-bit sRGB bytes, A always 255.
// The quantization matches (s*256) clamped to [0,255].
func encodeSRGB(color core.Vec3) [4]byte {
	color = color.Clamp(0, 1)
	return [4]byte{
		quantize(linearToSRGB(color.X)),
		quantize(linearToSRGB(color.Y)),
		quantize(linearToSRGB(color.Z)),
		255,
	}
}

func quantize(s float64) byte {
	return byte(max(0, min(255, s*256)))
}
