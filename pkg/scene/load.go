package scene

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/avass/go-live-raytracer/pkg/core"
	"github.com/avass/go-live-raytracer/pkg/geometry"
	"github.com/avass/go-live-raytracer/pkg/material"
)

// sceneFile is the TOML representation of a scene description:
// a camera table, optional background colors, and a flat list of
// (center, radius, material variant, material params) tuples.
type sceneFile struct {
	Camera     cameraFile   `toml:"camera"`
	Background *background  `toml:"background"`
	Spheres    []sphereFile `toml:"sphere"`
}

type cameraFile struct {
	Origin         []float64 `toml:"origin"`
	FocalLength    float64   `toml:"focal_length"`
	ViewportHeight float64   `toml:"viewport_height"`
}

type background struct {
	Top    []float64 `toml:"top"`
	Bottom []float64 `toml:"bottom"`
}

type sphereFile struct {
	Center   []float64 `toml:"center"`
	Radius   float64   `toml:"radius"`
	Material string    `toml:"material"`
	Albedo   []float64 `toml:"albedo"`
	Fuzz     float64   `toml:"fuzz"`
}

// LoadFile parses and validates a TOML scene description.
// Malformed configuration is rejected here, before any render loop starts.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a TOML scene description from bytes
func Parse(data []byte) (*Scene, error) {
	var file sceneFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}

	if len(file.Spheres) == 0 {
		return nil, fmt.Errorf("scene file contains no spheres")
	}

	camera, err := parseCamera(file.Camera)
	if err != nil {
		return nil, err
	}

	top, bottom := defaultBackground()
	if file.Background != nil {
		if top, err = parseColor(file.Background.Top, "background.top"); err != nil {
			return nil, err
		}
		if bottom, err = parseColor(file.Background.Bottom, "background.bottom"); err != nil {
			return nil, err
		}
	}

	spheres := make([]geometry.Sphere, 0, len(file.Spheres))
	for i, sf := range file.Spheres {
		sphere, err := parseSphere(sf)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		spheres = append(spheres, sphere)
	}

	return &Scene{
		Spheres:      spheres,
		CameraConfig: camera,
		TopColor:     top,
		BottomColor:  bottom,
	}, nil
}

func parseCamera(cf cameraFile) (geometry.CameraConfig, error) {
	config := geometry.DefaultCameraConfig()

	if cf.Origin != nil {
		origin, err := parseVec3(cf.Origin, "camera.origin")
		if err != nil {
			return geometry.CameraConfig{}, err
		}
		config.Origin = origin
	}
	if cf.FocalLength != 0 {
		if cf.FocalLength < 0 {
			return geometry.CameraConfig{}, fmt.Errorf("camera.focal_length must be positive, got %g", cf.FocalLength)
		}
		config.FocalLength = cf.FocalLength
	}
	if cf.ViewportHeight != 0 {
		if cf.ViewportHeight < 0 {
			return geometry.CameraConfig{}, fmt.Errorf("camera.viewport_height must be positive, got %g", cf.ViewportHeight)
		}
		config.ViewportHeight = cf.ViewportHeight
	}

	return config, nil
}

func parseSphere(sf sphereFile) (geometry.Sphere, error) {
	center, err := parseVec3(sf.Center, "center")
	if err != nil {
		return geometry.Sphere{}, err
	}
	if sf.Radius <= 0 {
		return geometry.Sphere{}, fmt.Errorf("radius must be positive, got %g", sf.Radius)
	}

	albedo, err := parseColor(sf.Albedo, "albedo")
	if err != nil {
		return geometry.Sphere{}, err
	}

	var mat material.Material
	switch sf.Material {
	case "lambertian":
		mat = material.NewLambertian(albedo)
	case "metal":
		if sf.Fuzz < 0 {
			return geometry.Sphere{}, fmt.Errorf("fuzz must be non-negative, got %g", sf.Fuzz)
		}
		mat = material.NewMetal(albedo, sf.Fuzz)
	default:
		return geometry.Sphere{}, fmt.Errorf("unknown material variant %q", sf.Material)
	}

	return geometry.NewSphere(center, sf.Radius, mat), nil
}

func parseVec3(values []float64, field string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s must have 3 components, got %d", field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func parseColor(values []float64, field string) (core.Vec3, error) {
	color, err := parseVec3(values, field)
	if err != nil {
		return core.Vec3{}, err
	}
	for _, c := range values {
		if c < 0 || c > 1 {
			return core.Vec3{}, fmt.Errorf("%s components must be in [0,1], got %g", field, c)
		}
	}
	return color, nil
}
