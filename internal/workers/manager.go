package workers

import (
	"context"
	"sync"

	"github.com/alimgiray/familytree/pkg/logger"
)

// WorkerManager starts and stops a set of workers together
type WorkerManager struct {
	workers []Worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(workers ...Worker) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartAll starts every registered worker in its own goroutine
func (wm *WorkerManager) StartAll() {
	for _, worker := range wm.workers {
		wm.startWorker(worker)
	}
	logger.Infof("Started %d workers", len(wm.workers))
}

// StopAll gracefully stops all workers and waits for them to return
func (wm *WorkerManager) StopAll() {
	logger.Info("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.WithError(err).WithField("worker", worker.GetWorkerID()).Warn("Error stopping worker")
		}
	}

	wm.wg.Wait()
	logger.Info("All workers stopped")
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.WithError(err).WithField("worker", worker.GetWorkerID()).Error("Worker stopped with error")
		}
	}()
}

// GetWorkerStatus returns whether each worker is running
func (wm *WorkerManager) GetWorkerStatus() map[string]bool {
	status := make(map[string]bool, len(wm.workers))
	for _, worker := range wm.workers {
		running := false
		if w, ok := worker.(interface{ IsRunning() bool }); ok {
			running = w.IsRunning()
		}
		status[worker.GetWorkerID()] = running
	}
	return status
}
