package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"image-optimizer/internal/domain/entities"
	apperr "image-optimizer/pkg/errors"

	"go.uber.org/zap"
)

// Transformer runs the image transform of a job.
type Transformer interface {
	Transform(ctx context.Context, data []byte, t entities.EffectiveTransform) (*entities.TransformResult, error)
}

type Worker struct {
	ID          int        // worker id
	JobChan     <-chan Job // job queue
	Wg          *sync.WaitGroup
	Transformer Transformer
	Log         *zap.Logger
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case job := <-w.JobChan:
				w.processJob(job)
			case <-ctx.Done():
				w.Log.Debug("worker stopping", zap.Int("worker", w.ID))
				return
			}
		}
	}()
}

func (w *Worker) processJob(job Job) {
	// job context may already be gone while the job waited in the queue
	if err := job.Ctx.Err(); err != nil {
		job.Reply <- JobResult{BatchID: job.BatchID, Index: job.Index, Err: apperr.ErrCancelled(err)}
		return
	}

	start := time.Now()
	res, err := w.run(job)

	if err != nil {
		w.Log.Debug("job failed",
			zap.Int("worker", w.ID),
			zap.String("batch_id", job.BatchID),
			zap.String("item", job.Item.Identifier),
			zap.Error(err))
	} else {
		w.Log.Debug("job succeeded",
			zap.Int("worker", w.ID),
			zap.String("batch_id", job.BatchID),
			zap.String("item", job.Item.Identifier),
			zap.Duration("took", time.Since(start)))
	}

	job.Reply <- JobResult{BatchID: job.BatchID, Index: job.Index, Result: res, Err: err}
}

// run executes the job. A panic in the transform fails only this job.
func (w *Worker) run(job Job) (res *entities.TransformResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.Log.Error("transform panicked",
				zap.Int("worker", w.ID),
				zap.String("batch_id", job.BatchID),
				zap.String("item", job.Item.Identifier),
				zap.Any("panic", r),
				zap.Stack("stack"))
			res, err = nil, apperr.ErrInternal(fmt.Errorf("transform panicked: %v", r))
		}
	}()

	switch job.Type {
	case JobTransform:
		return w.Transformer.Transform(job.Ctx, job.Item.Bytes, job.Transform)
	default:
		return nil, fmt.Errorf("unknown job type: %s", job.Type)
	}
}
