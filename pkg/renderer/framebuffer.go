package renderer

import (
	"fmt"
	"image"
	"sync"
)

// Framebuffer is the pixel buffer shared between render workers and the
// display side: tightly packed RGBA rows, row-major, top-to-bottom.
// It is the only shared mutable resource in a render pass; all access
// goes through its lock, held only for the duration of a copy.
type Framebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	pix    []byte
}

// NewFramebuffer creates a framebuffer with the given dimensions
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("framebuffer dimensions must be positive, got %dx%d", width, height)
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}, nil
}

// Size returns the current dimensions
func (fb *Framebuffer) Size() (width, height int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.width, fb.height
}

// Resize reallocates the buffer for new dimensions. An in-flight render
// job detects the dimension change on its next batch commit and cancels.
func (fb *Framebuffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("framebuffer dimensions must be positive, got %dx%d", width, height)
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.width = width
	fb.height = height
	fb.pix = make([]byte, width*height*4)
	return nil
}

// Snapshot returns a copy of the current pixel data
func (fb *Framebuffer) Snapshot() []byte {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]byte, len(fb.pix))
	copy(out, fb.pix)
	return out
}

// SnapshotImage returns the current contents as an image for encoding
func (fb *Framebuffer) SnapshotImage() *image.RGBA {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	copy(img.Pix, fb.pix)
	return img
}
