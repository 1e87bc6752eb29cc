package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/sentry/perception"
	"github.com/pthm-cable/sentry/systems"
)

// parallelThreshold is the minimum guard count to probe in parallel.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 8

// workChunk is a range of guards for one worker.
type workChunk struct {
	start, end int
}

// parallelState is a persistent worker pool that runs the observe phase.
// Each guard owns its probe, so chunks share nothing but the read-only
// scene indexes.
type parallelState struct {
	numWorkers int

	// Set for the duration of one ObserveAll call.
	poses []systems.GuardPose
	out   []perception.Observation

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{numWorkers: runtime.GOMAXPROCS(0)}
}

// ObserveAll implements systems.Observer.
func (p *parallelState) ObserveAll(poses []systems.GuardPose, out []perception.Observation) {
	n := len(poses)
	if n == 0 {
		return
	}
	if n < parallelThreshold || p.numWorkers < 2 {
		observeChunk(poses, out, 0, n)
		return
	}

	if !p.running {
		p.startWorkers()
	}
	p.poses, p.out = poses, out

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}

	p.poses, p.out = nil, nil
}

func observeChunk(poses []systems.GuardPose, out []perception.Observation, i0, i1 int) {
	for i := i0; i < i1; i++ {
		out[i] = poses[i].Controller.Observe(poses[i].Pose)
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			observeChunk(p.poses, p.out, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}
