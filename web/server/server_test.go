package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSceneTOML = `
[[sphere]]
center = [0.0, 0.0, -1.0]
radius = 0.5
material = "lambertian"
albedo = [0.7, 0.3, 0.3]

[[sphere]]
center = [0.0, -100.5, -1.0]
radius = 100.0
material = "metal"
albedo = [0.8, 0.8, 0.8]
fuzz = 0.2
`

func writeTestScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSceneTOML), 0o644))
	return path
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewServer(0, "").Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRenderPNGEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewServer(0, "").Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/render.png?width=32&height=24&samples=2&depth=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestRenderPNGRejectsBadRequests(t *testing.T) {
	srv := httptest.NewServer(NewServer(0, "").Handler())
	defer srv.Close()

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric width", "?width=abc"},
		{"zero width", "?width=0"},
		{"negative height", "?height=-5"},
		{"oversized image", "?width=5000&height=5000"},
		{"unknown scene", "?scene=cornell-box"},
		{"file scene without a configured path", "?scene=file"},
		{"bad seed", "?seed=notanumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/render.png" + tt.query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestParseRenderRequestDefaults(t *testing.T) {
	s := NewServer(0, "")
	req, err := s.parseRenderRequest(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, "default", req.Scene)
	assert.Equal(t, 400, req.Width)
	assert.Equal(t, 225, req.Height)
	assert.Equal(t, 16, req.SamplesPerPixel)
	assert.Equal(t, 50, req.MaxDepth)
	assert.Equal(t, 30.0, req.UpdateRate)
	assert.Equal(t, int64(42), req.Seed)
}

func TestParseRenderRequestOverrides(t *testing.T) {
	s := NewServer(0, "")
	req, err := s.parseRenderRequest(url.Values{
		"scene":   {"three-spheres"},
		"width":   {"640"},
		"height":  {"360"},
		"samples": {"8"},
		"depth":   {"20"},
		"rate":    {"60"},
		"seed":    {"7"},
	})
	require.NoError(t, err)

	assert.Equal(t, "three-spheres", req.Scene)
	assert.Equal(t, 640, req.Width)
	assert.Equal(t, 360, req.Height)
	assert.Equal(t, 8, req.SamplesPerPixel)
	assert.Equal(t, 20, req.MaxDepth)
	assert.Equal(t, 60.0, req.UpdateRate)
	assert.Equal(t, int64(7), req.Seed)
}

func TestCreateScene(t *testing.T) {
	s := NewServer(0, writeTestScene(t))

	fromFile, err := s.createScene("file")
	require.NoError(t, err)
	assert.Len(t, fromFile.Spheres, 2)

	builtin, err := s.createScene("default")
	require.NoError(t, err)
	assert.NotEmpty(t, builtin.Spheres)

	_, err = s.createScene("nope")
	assert.Error(t, err)
}

func TestRenderPNGFromSceneFile(t *testing.T) {
	srv := httptest.NewServer(NewServer(0, writeTestScene(t)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/render.png?scene=file&width=16&height=12&samples=1&depth=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
