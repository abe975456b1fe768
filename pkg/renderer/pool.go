package renderer

import (
	"context"
	"runtime"
	"sync"
)

// tileTask asks a worker to bring every pixel of a tile up to targetSamples
// accumulated samples, starting from startSample.
type tileTask struct {
	tile          Tile
	startSample   int
	targetSamples int
}

// tileResult reports a finished tile back to the coordinator.
type tileResult struct {
	tileID  int
	samples int
	err     error
}

// workerPool renders tiles in parallel. Tiles write to disjoint film
// regions, so workers only synchronize through the task and result
// channels.
type workerPool struct {
	taskQueue   chan tileTask
	resultQueue chan tileResult
	numWorkers  int
	wg          sync.WaitGroup
}

// newWorkerPool sizes the pool and its queues. Zero workers means one per
// CPU.
func newWorkerPool(numWorkers, maxTiles int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &workerPool{
		taskQueue:   make(chan tileTask, maxTiles),
		resultQueue: make(chan tileResult, maxTiles),
		numWorkers:  numWorkers,
	}
}

// start launches the workers. render is called once per task and should
// return the number of samples it contributed.
func (wp *workerPool) start(ctx context.Context, render func(ctx context.Context, task tileTask) (int, error)) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for task := range wp.taskQueue {
				samples, err := render(ctx, task)
				wp.resultQueue <- tileResult{tileID: task.tile.ID, samples: samples, err: err}
			}
		}()
	}
}

// submit queues a tile task.
func (wp *workerPool) submit(task tileTask) {
	wp.taskQueue <- task
}

// result blocks until a tile completes.
func (wp *workerPool) result() tileResult {
	return <-wp.resultQueue
}

// stop closes the queue and waits for in-flight tasks to finish.
func (wp *workerPool) stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}
