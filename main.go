package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avass/go-live-raytracer/pkg/renderer"
	"github.com/avass/go-live-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneArg := flag.String("scene", "default", "Built-in scene name or path to a TOML scene file")
	width := flag.Int("width", 400, "Image width")
	height := flag.Int("height", 225, "Image height")
	samples := flag.Int("samples", 100, "Samples per pixel")
	depth := flag.Int("depth", 50, "Maximum ray bounce depth")
	seed := flag.Int64("seed", 42, "Render seed")
	output := flag.String("output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Live Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, name := range scene.BuiltinSceneNames() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("  <path>.toml - scene description file")
		return
	}

	sceneObj, sceneName, err := createScene(*sceneArg)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering %s at %dx%d, %d samples, depth %d...\n",
		sceneName, *width, *height, *samples, *depth)

	startTime := time.Now()
	pix, err := renderer.RenderFrame(sceneObj, sceneObj.CameraConfig,
		*width, *height, *samples, *depth, *seed)
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render completed in %v\n", time.Since(startTime))

	filename := *output
	if filename == "" {
		outputDir := filepath.Join("output", sceneName)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := savePNG(filename, pix, *width, *height); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// createScene builds a scene from a built-in name or a TOML file path.
// Also returns a short name used for the output directory.
func createScene(arg string) (*scene.Scene, string, error) {
	if strings.HasSuffix(arg, ".toml") {
		sceneObj, err := scene.LoadFile(arg)
		if err != nil {
			return nil, "", err
		}
		name := strings.TrimSuffix(filepath.Base(arg), ".toml")
		return sceneObj, name, nil
	}

	if sceneObj := scene.NewBuiltinScene(arg); sceneObj != nil {
		return sceneObj, arg, nil
	}
	return nil, "", fmt.Errorf("unknown scene %q, expected one of %v or a .toml path",
		arg, scene.BuiltinSceneNames())
}

// savePNG writes RGBA pixel data to a PNG file
func savePNG(filename string, pix []byte, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
