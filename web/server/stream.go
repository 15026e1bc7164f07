package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avass/go-live-raytracer/pkg/renderer"
	"github.com/avass/go-live-raytracer/pkg/scene"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The viewer page is served from this process; same-origin only
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProgressUpdate is one progressive snapshot sent over the socket
type ProgressUpdate struct {
	State     string `json:"state"`     // running, cancelled, completed, failed
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ElapsedMs int64  `json:"elapsedMs"`
	Restarted bool   `json:"restarted,omitempty"` // Scene file changed, job restarted
}

// handleRenderSocket streams progressive render snapshots over a
// WebSocket. The client closing the socket cancels the job; a change to
// the watched scene file cancels the job and restarts it with the
// reloaded scene.
func (s *Server) handleRenderSocket(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	fb, err := renderer.NewFramebuffer(req.Width, req.Height)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	job, err := s.startJob(sceneObj, fb, req)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	// A cancelled job must be joined before the session exits, so a
	// later job on the same framebuffer can never overlap with it.
	// job is rebound on restart, hence the closure.
	defer func() { job.Cancel() }()

	// Detect the client going away
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Watch the scene file for changes when the request renders it
	var sceneChanged <-chan struct{}
	if req.Scene == "file" && s.scenePath != "" {
		watcher, err := watchFile(s.scenePath)
		if err != nil {
			log.Printf("Scene watch failed: %v", err)
		} else {
			defer watcher.Close()
			sceneChanged = watcher.Changed
		}
	}

	start := time.Now()
	interval := time.Duration(float64(time.Second) / req.UpdateRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-disconnected:
			return

		case <-sceneChanged:
			job.Cancel()
			sceneObj, err = s.createScene(req.Scene)
			if err != nil {
				conn.WriteJSON(map[string]string{"error": err.Error()})
				return
			}
			job, err = s.startJob(sceneObj, fb, req)
			if err != nil {
				conn.WriteJSON(map[string]string{"error": err.Error()})
				return
			}
			start = time.Now()
			if err := s.sendUpdate(conn, fb, job, start, true); err != nil {
				return
			}

		case <-ticker.C:
			if err := s.sendUpdate(conn, fb, job, start, false); err != nil {
				return
			}
			if !job.IsRunning() && req.Scene != "file" {
				// Final state already sent; file sessions stay open
				// so edits keep restarting the render
				return
			}
		}
	}
}

// startJob begins a progressive render into fb for the request
func (s *Server) startJob(sceneObj *scene.Scene, fb *renderer.Framebuffer, req RenderRequest) (*renderer.Job, error) {
	config := renderer.ProgressiveConfig{
		SamplesPerPixel:  req.SamplesPerPixel,
		MaxDepth:         req.MaxDepth,
		TargetUpdateRate: req.UpdateRate,
		Seed:             req.Seed,
	}
	return renderer.StartProgressiveJob(sceneObj, sceneObj.CameraConfig, fb, config, serverLogger{}, nil)
}

// sendUpdate snapshots the framebuffer and writes one progress message
func (s *Server) sendUpdate(conn *websocket.Conn, fb *renderer.Framebuffer, job *renderer.Job, start time.Time, restarted bool) error {
	width, height := fb.Size()
	imageData, err := imageToBase64PNG(fb.Snapshot(), width, height)
	if err != nil {
		return err
	}

	state := renderer.JobRunning
	if !job.IsRunning() {
		state = job.Wait()
	}

	return conn.WriteJSON(ProgressUpdate{
		State:     state.String(),
		ImageData: imageData,
		Width:     width,
		Height:    height,
		ElapsedMs: time.Since(start).Milliseconds(),
		Restarted: restarted,
	})
}

// serverLogger adapts the standard logger to the renderer's Logger
type serverLogger struct{}

func (serverLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
