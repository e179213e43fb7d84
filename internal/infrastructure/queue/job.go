package queue

import (
	"context"

	"image-optimizer/internal/domain/entities"
)

type JobType string

const (
	JobTransform JobType = "transform"
)

// Job is one unit of work submitted to the pool. Every accepted job is
// answered exactly once on Reply.
type Job struct {
	BatchID   string
	Type      JobType
	Index     int // position of the item in its batch
	Ctx       context.Context
	Item      entities.UploadedItem
	Transform entities.EffectiveTransform
	Reply     chan<- JobResult
}

type JobResult struct {
	BatchID string
	Index   int
	Result  *entities.TransformResult
	Err     error
}
