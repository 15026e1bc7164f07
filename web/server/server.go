package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avass/go-live-raytracer/pkg/renderer"
	"github.com/avass/go-live-raytracer/pkg/scene"
)

// Server handles web requests for the live raytracer
type Server struct {
	port      int
	scenePath string // Optional TOML scene file, watched for changes
}

// NewServer creates a new web server. scenePath may be empty, in which
// case only the built-in scenes are served.
func NewServer(port int, scenePath string) *Server {
	return &Server{port: port, scenePath: scenePath}
}

// RenderRequest represents render parameters parsed from a request
type RenderRequest struct {
	Scene           string  // Built-in scene name, or "file" for the watched scene
	Width           int     // Image width
	Height          int     // Image height
	SamplesPerPixel int     // Samples per pixel (per batch for progressive)
	MaxDepth        int     // Maximum ray bounce depth
	UpdateRate      float64 // Target framebuffer flushes per second
	Seed            int64   // Render seed
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("web/static/")))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/render.png", s.handleRenderPNG)
	mux.HandleFunc("/ws/render", s.handleRenderSocket)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleRenderPNG renders a frame synchronously and returns it as PNG
func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pix, err := renderer.RenderFrame(sceneObj, sceneObj.CameraConfig,
		req.Width, req.Height, req.SamplesPerPixel, req.MaxDepth, req.Seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	copy(img.Pix, pix)

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("Error encoding PNG: %v", err)
	}
}

// createScene builds the requested scene: a built-in name, or the
// watched scene file when the request names "file"
func (s *Server) createScene(name string) (*scene.Scene, error) {
	if name == "file" {
		if s.scenePath == "" {
			return nil, fmt.Errorf("no scene file configured")
		}
		return scene.LoadFile(s.scenePath)
	}
	if sceneObj := scene.NewBuiltinScene(name); sceneObj != nil {
		return sceneObj, nil
	}
	return nil, fmt.Errorf("unknown scene: %s", name)
}

// parseRenderRequest extracts render parameters from query values
func (s *Server) parseRenderRequest(query url.Values) (RenderRequest, error) {
	req := RenderRequest{
		Scene:           "default",
		Width:           400,
		Height:          225,
		SamplesPerPixel: 16,
		MaxDepth:        50,
		UpdateRate:      30,
		Seed:            42,
	}

	if v := query.Get("scene"); v != "" {
		req.Scene = v
	}

	var err error
	if req.Width, err = intParam(query, "width", req.Width); err != nil {
		return req, err
	}
	if req.Height, err = intParam(query, "height", req.Height); err != nil {
		return req, err
	}
	if req.SamplesPerPixel, err = intParam(query, "samples", req.SamplesPerPixel); err != nil {
		return req, err
	}
	if req.MaxDepth, err = intParam(query, "depth", req.MaxDepth); err != nil {
		return req, err
	}
	if v := query.Get("rate"); v != "" {
		if req.UpdateRate, err = strconv.ParseFloat(v, 64); err != nil {
			return req, fmt.Errorf("invalid rate: %v", err)
		}
	}
	if v := query.Get("seed"); v != "" {
		if req.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return req, fmt.Errorf("invalid seed: %v", err)
		}
	}

	if req.Width <= 0 || req.Height <= 0 {
		return req, fmt.Errorf("dimensions must be positive, got %dx%d", req.Width, req.Height)
	}
	if req.Width*req.Height > 4096*4096 {
		return req, fmt.Errorf("image too large: %dx%d", req.Width, req.Height)
	}

	return req, nil
}

func intParam(query url.Values, name string, def int) (int, error) {
	v := query.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return n, nil
}

// imageToBase64PNG encodes framebuffer bytes as a base64 PNG string
func imageToBase64PNG(pix []byte, width, height int) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
