package queue

import (
	"context"
	"errors"
	"sync"

	apperr "image-optimizer/pkg/errors"

	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool closed")

// WorkerPool runs jobs on a fixed number of workers. It is shared by all
// requests so the number of images decoded at once stays bounded.
type WorkerPool struct {
	JobChan chan Job
	wg      sync.WaitGroup
	ctx     context.Context    // graceful shutdown
	cancel  context.CancelFunc // graceful shutdown
	mu      sync.RWMutex
	closed  bool
	workers int
	log     *zap.Logger
}

func NewWorkerPool(workerCount, queueSize int, transformer Transformer, log *zap.Logger) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		JobChan: make(chan Job, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		workers: workerCount,
		log:     log,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:          i,
			JobChan:     pool.JobChan,
			Wg:          &pool.wg,
			Transformer: transformer,
			Log:         log,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	log.Info("worker pool started", zap.Int("workers", workerCount), zap.Int("queue_size", queueSize))
	return pool
}

func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit blocks until the job is queued, ctx is done or the pool is shut down.
// A job is answered on its Reply channel only when Submit returns nil.
func (p *WorkerPool) Submit(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.JobChan <- job:
		return nil
	case <-ctx.Done():
		return apperr.ErrCancelled(ctx.Err())
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// Shutdown stops the workers and answers every job still queued with ErrPoolClosed.
func (p *WorkerPool) Shutdown() {
	p.cancel()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()

	for {
		select {
		case job := <-p.JobChan:
			job.Reply <- JobResult{BatchID: job.BatchID, Index: job.Index, Err: ErrPoolClosed}
		default:
			p.log.Info("worker pool stopped")
			return
		}
	}
}
