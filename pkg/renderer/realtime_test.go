package renderer

import (
	"bytes"
	"testing"

	"github.com/avass/go-live-raytracer/pkg/geometry"
	"github.com/avass/go-live-raytracer/pkg/scene"
)

func testRealtimeRenderer(t *testing.T, seed int64) *RealtimeRenderer {
	t.Helper()
	config := DefaultRealtimeConfig()
	config.Seed = seed
	config.MaxDepth = 10
	rr, err := NewRealtimeRenderer(scene.NewDefaultScene(), geometry.DefaultCameraConfig(), 16, 12, config)
	if err != nil {
		t.Fatalf("NewRealtimeRenderer failed: %v", err)
	}
	return rr
}

func TestRealtimeRendererAccumulates(t *testing.T) {
	rr := testRealtimeRenderer(t, 42)

	for i := 1; i <= 3; i++ {
		if err := rr.RenderNext(); err != nil {
			t.Fatalf("RenderNext failed: %v", err)
		}
		if rr.FrameCount() != i {
			t.Errorf("Expected frame count %d, got %d", i, rr.FrameCount())
		}
	}

	dst := make([]byte, 16*12*4)
	if err := rr.EncodeSRGB(dst); err != nil {
		t.Fatalf("EncodeSRGB failed: %v", err)
	}
	for i := 3; i < len(dst); i += 4 {
		if dst[i] != 255 {
			t.Fatalf("Expected opaque alpha at byte %d", i)
		}
	}
}

func TestRealtimeRendererDeterminism(t *testing.T) {
	encode := func(rr *RealtimeRenderer) []byte {
		dst := make([]byte, 16*12*4)
		if err := rr.EncodeSRGB(dst); err != nil {
			t.Fatalf("EncodeSRGB failed: %v", err)
		}
		return dst
	}

	first := testRealtimeRenderer(t, 42)
	second := testRealtimeRenderer(t, 42)
	for i := 0; i < 4; i++ {
		if err := first.RenderNext(); err != nil {
			t.Fatalf("RenderNext failed: %v", err)
		}
		if err := second.RenderNext(); err != nil {
			t.Fatalf("RenderNext failed: %v", err)
		}
	}

	if !bytes.Equal(encode(first), encode(second)) {
		t.Error("Same seed should reproduce the accumulated image")
	}
}

func TestRealtimeRendererReset(t *testing.T) {
	rr := testRealtimeRenderer(t, 42)
	if err := rr.RenderNext(); err != nil {
		t.Fatalf("RenderNext failed: %v", err)
	}

	rr.Reset()
	if rr.FrameCount() != 0 {
		t.Errorf("Expected frame count 0 after reset, got %d", rr.FrameCount())
	}
}

func TestNewRealtimeRendererValidation(t *testing.T) {
	config := DefaultRealtimeConfig()
	config.MaxWeight = 0
	if _, err := NewRealtimeRenderer(scene.NewDefaultScene(), geometry.DefaultCameraConfig(), 16, 12, config); err == nil {
		t.Error("Expected error for invalid max weight")
	}

	config = DefaultRealtimeConfig()
	config.SamplesPerFrame = 0
	if _, err := NewRealtimeRenderer(scene.NewDefaultScene(), geometry.DefaultCameraConfig(), 16, 12, config); err == nil {
		t.Error("Expected error for zero samples per frame")
	}
}
