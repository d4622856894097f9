package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/listtree/internal/config"
	"github.com/dgallion1/listtree/internal/stats"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("pipeline stopped")
)

// Orchestrator runs parse jobs on a fixed pool of workers.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *stats.ParseStats
	log   *slog.Logger
	cfg   config.Config

	// CleanupInterval controls how often expired jobs are evicted.
	CleanupInterval time.Duration

	mu      sync.Mutex // Guards stopped and sends on queue
	stopped bool

	cancel  context.CancelFunc
	workers sync.WaitGroup
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, st *stats.ParseStats, log *slog.Logger) *Orchestrator {
	if st == nil {
		st = stats.NewParseStats(cfg.StatsWindow)
	}
	return &Orchestrator{
		jobs:            NewJobStore(cfg.JobTTL),
		queue:           make(chan *Job, max(cfg.MaxQueueSize, 1)),
		stats:           st,
		log:             log,
		cfg:             cfg,
		CleanupInterval: 5 * time.Minute,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := range max(o.cfg.WorkerCount, 1) {
		o.workers.Add(1)
		go func() {
			defer o.workers.Done()
			w := NewWorker(o.stats, o.log.With("worker", i), o.cfg.PDFFallbackPdftotext)
			// Once workerCtx is done, Process fails remaining jobs fast.
			for job := range o.queue {
				w.Process(workerCtx, job)
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop closes the queue, waits for workers to finish what is queued, then
// stops the cleanup loop. It is safe to call more than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	o.workers.Wait()
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Debug("job queued", "job_id", job.ID, "filename", job.Filename, "depth", len(o.queue))
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the parse latency tracker shared by the workers.
func (o *Orchestrator) Stats() *stats.ParseStats {
	return o.stats
}
