package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avass/go-live-raytracer/pkg/core"
	"github.com/avass/go-live-raytracer/pkg/geometry"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// JobState is the lifecycle state of a progressive render job
type JobState int32

const (
	JobRunning JobState = iota
	JobCancelled
	JobCompleted
	JobFailed
)

// String returns the state name
func (s JobState) String() string {
	switch s {
	case JobRunning:
		return "running"
	case JobCancelled:
		return "cancelled"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	SamplesPerPixel  int     // Samples per pixel per batch
	MaxDepth         int     // Maximum ray bounce depth
	TargetUpdateRate float64 // Framebuffer flushes per second
	NumWorkers       int     // Number of parallel workers (0 = use CPU count)
	Seed             int64   // Base seed; each row derives its own stream
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		SamplesPerPixel:  16,
		MaxDepth:         50,
		TargetUpdateRate: 30,
		NumWorkers:       0,
	}
}

// Job is a progressive render pass writing into a shared framebuffer.
// Workers render pixel batches into private row buffers and copy them in
// under the framebuffer lock, so the display side can snapshot a valid
// partial frame at any time. Cancellation is cooperative, checked once
// per batch before committing.
type Job struct {
	raytracer     *Raytracer
	fb            *Framebuffer
	config        ProgressiveConfig
	logger        core.Logger
	width, height int // Dimensions this job was started for

	cancelled atomic.Bool
	state     atomic.Int32
	failure   error // Set before done closes, read after
	done      chan struct{}
	onRefresh func()
	wg        sync.WaitGroup
}

// StartProgressiveJob starts rendering scene into fb at the configured
// update rate. onRefresh, if non-nil, is called when the image completes
// so the display layer can refresh. The returned job must be cancelled
// or waited on before starting another job on the same framebuffer.
func StartProgressiveJob(scene Scene, cameraConfig geometry.CameraConfig, fb *Framebuffer, config ProgressiveConfig, logger core.Logger, onRefresh func()) (*Job, error) {
	width, height := fb.Size()

	raytracer, err := NewRaytracer(scene, cameraConfig, width, height, SamplingConfig{
		SamplesPerPixel: config.SamplesPerPixel,
		MaxDepth:        config.MaxDepth,
	})
	if err != nil {
		return nil, err
	}
	if config.TargetUpdateRate <= 0 {
		return nil, fmt.Errorf("target update rate must be positive, got %g", config.TargetUpdateRate)
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	job := &Job{
		raytracer: raytracer,
		fb:        fb,
		config:    config,
		logger:    logger,
		width:     width,
		height:    height,
		done:      make(chan struct{}),
		onRefresh: onRefresh,
	}
	job.state.Store(int32(JobRunning))

	job.logger.Printf("Starting progressive render %dx%d with %d workers\n",
		width, height, config.NumWorkers)
	go job.run()

	return job, nil
}

// run distributes rows across workers and finalizes the job state
func (j *Job) run() {
	start := time.Now()

	rows := make(chan int)
	go func() {
		for y := 0; y < j.height; y++ {
			rows <- y
		}
		close(rows)
	}()

	for i := 0; i < j.config.NumWorkers; i++ {
		j.wg.Add(1)
		go j.worker(rows)
	}
	j.wg.Wait()

	// Unblock the feeder if workers exited without draining
	for range rows {
	}

	// Still running means every row committed without interruption
	if j.state.CompareAndSwap(int32(JobRunning), int32(JobCompleted)) {
		j.logger.Printf("Progressive render finished in %v\n", time.Since(start))
		if j.onRefresh != nil {
			j.onRefresh()
		}
	}
	close(j.done)
}

// Cancel signals the job to stop and waits for its workers to exit.
// After Cancel returns, no further writes to the framebuffer occur.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
	j.state.CompareAndSwap(int32(JobRunning), int32(JobCancelled))
	<-j.done
}

// IsRunning reports whether the job is still rendering
func (j *Job) IsRunning() bool {
	return JobState(j.state.Load()) == JobRunning
}

// Wait blocks until the job reaches a terminal state and returns it
func (j *Job) Wait() JobState {
	<-j.done
	return JobState(j.state.Load())
}

// Err returns the worker failure, if any. Valid after Wait.
func (j *Job) Err() error {
	return j.failure
}

// fail records a worker failure and stops the job
func (j *Job) fail(err error) {
	if j.state.CompareAndSwap(int32(JobRunning), int32(JobFailed)) {
		j.failure = err
	}
	j.cancelled.Store(true)
}

// worker renders rows from the channel in adaptively sized column batches
func (j *Job) worker(rows <-chan int) {
	defer j.wg.Done()
	defer func() {
		// A panicking worker is fatal to this render pass only; the
		// caller can start a fresh job on the same framebuffer.
		if r := recover(); r != nil {
			j.logger.Printf("Render worker failed: %v\n", r)
			j.fail(fmt.Errorf("render worker panic: %v", r))
		}
	}()

	targetInterval := time.Duration(float64(time.Second) / j.config.TargetUpdateRate)
	controller := newBatchController(targetInterval)

	// Seed the batch size by timing one representative sample bundle
	calibrationSampler := core.NewSeededSampler(j.config.Seed)
	calibrationStart := time.Now()
	_ = j.raytracer.renderPixel(j.width/2, j.height/2, calibrationSampler)
	controller.calibrate(time.Since(calibrationStart))

	rowBuffer := make([]byte, j.width*4)

	for y := range rows {
		if j.cancelled.Load() {
			continue // Drain remaining rows so the feeder can exit
		}
		if !j.renderRow(y, rowBuffer, controller) {
			// Commit rejected: cancellation or stale dimensions.
			// Keep draining, no further framebuffer writes happen.
			continue
		}
	}
}

// renderRow renders one row in batches, flushing each batch into the
// shared framebuffer. Returns false when a commit was rejected.
func (j *Job) renderRow(y int, rowBuffer []byte, controller *batchController) bool {
	sampler := core.NewSeededSampler(j.config.Seed + int64(y))

	for x := 0; x < j.width; {
		batch := min(controller.size, j.width-x)

		start := time.Now()
		for i := x; i < x+batch; i++ {
			pixel := encodeSRGB(j.raytracer.renderPixel(i, y, sampler))
			copy(rowBuffer[i*4:], pixel[:])
		}
		controller.update(time.Since(start))

		if !j.commitSpan(y, x, batch, rowBuffer) {
			return false
		}
		x += batch
	}
	return true
}

// commitSpan copies one batch of finished pixels into the shared
// framebuffer. Before writing it verifies, under the same lock, that the
// job has not been cancelled and that the framebuffer still has the
// dimensions the job was started for; on either failure the batch is
// discarded and the job is marked cancelled. Lock hold time is bounded
// by the copy, never by computation.
func (j *Job) commitSpan(y, x, n int, rowBuffer []byte) bool {
	j.fb.mu.Lock()
	defer j.fb.mu.Unlock()

	if j.cancelled.Load() {
		return false
	}
	if j.fb.width != j.width || j.fb.height != j.height {
		j.logger.Printf("Render job detected a resize, discarding batch\n")
		j.cancelled.Store(true)
		j.state.CompareAndSwap(int32(JobRunning), int32(JobCancelled))
		return false
	}

	offset := (y*j.width + x) * 4
	copy(j.fb.pix[offset:offset+n*4], rowBuffer[x*4:(x+n)*4])
	return true
}
