package renderer

import "time"

// batchController sizes the per-flush pixel workload so each measurement
// window lands near the target update interval. A simple feedback loop:
// after each batch the size is rescaled by target/elapsed, so it tracks
// machine speed and scene cost without any explicit model.
type batchController struct {
	target time.Duration
	size   int
}

func newBatchController(target time.Duration) *batchController {
	return &batchController{target: target, size: 1}
}

// calibrate seeds the batch size from the measured cost of a single
// representative sample-bundle computation
func (bc *batchController) calibrate(sampleCost time.Duration) {
	if sampleCost <= 0 {
		// Too cheap to measure, start small and let update grow it
		bc.size = 1
		return
	}
	bc.size = max(1, int(float64(bc.target)/float64(sampleCost)))
}

// update rescales the batch size after rendering bc.size pixels in elapsed
func (bc *batchController) update(elapsed time.Duration) {
	if elapsed <= 0 {
		// Elapsed below timer resolution, grow until measurable
		bc.size *= 2
		return
	}
	bc.size = max(1, int(float64(bc.size)*float64(bc.target)/float64(elapsed)))
}
