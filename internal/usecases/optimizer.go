package usecases

import (
	"context"
	"time"

	"image-optimizer/internal/domain/entities"
	"image-optimizer/internal/infrastructure/queue"
	consts "image-optimizer/pkg/constants"
	apperr "image-optimizer/pkg/errors"
	"image-optimizer/pkg/file"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OptimizeService interface {
	Optimize(ctx context.Context, items []entities.UploadedItem, directives []entities.ResizeDirective) (*entities.BatchOutcome, error)
}

// JobSubmitter is the part of the worker pool the service needs.
type JobSubmitter interface {
	Submit(ctx context.Context, job queue.Job) error
}

type Packager interface {
	Pack(results []entities.TransformResult) ([]byte, error)
}

type optimizeService struct {
	pool     JobSubmitter
	resolver DirectiveResolver
	packager Packager
	maxFiles int
	log      *zap.Logger
}

func NewOptimizeService(pool JobSubmitter, resolver DirectiveResolver, packager Packager, maxFiles int, log *zap.Logger) OptimizeService {
	return &optimizeService{
		pool:     pool,
		resolver: resolver,
		packager: packager,
		maxFiles: maxFiles,
		log:      log,
	}
}

func (s *optimizeService) Optimize(ctx context.Context, items []entities.UploadedItem, directives []entities.ResizeDirective) (*entities.BatchOutcome, error) {
	if len(items) == 0 {
		return nil, apperr.ErrNoItems()
	}
	if s.maxFiles > 0 && len(items) > s.maxFiles {
		return nil, apperr.ErrTooManyItems(len(items), s.maxFiles)
	}

	batchID := uuid.NewString()
	log := s.log.With(zap.String("batch_id", batchID))
	start := time.Now()

	// every accepted job replies once, so the buffer never blocks a worker
	reply := make(chan queue.JobResult, len(items))
	results := make([]*entities.TransformResult, len(items))
	errs := make([]error, len(items))
	directiveIDs := make([]int, len(items))

	pending := 0
	for i, item := range items {
		directiveIDs[i] = -1
		d := s.resolver.Match(item.Identifier, directives)
		if d != nil {
			directiveIDs[i] = d.ID
		}
		transform := s.resolver.TransformFor(d)

		err := s.pool.Submit(ctx, queue.Job{
			BatchID:   batchID,
			Type:      queue.JobTransform,
			Index:     i,
			Ctx:       ctx,
			Item:      item,
			Transform: transform,
			Reply:     reply,
		})
		if err != nil {
			errs[i] = err
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		r := <-reply
		results[r.Index], errs[r.Index] = r.Result, r.Err
	}

	// a deadline that fires after the last reply does not discard finished work
	if cancelled(errs) {
		log.Warn("batch cancelled", zap.Int("items", len(items)), zap.Error(ctx.Err()))
		return nil, apperr.ErrCancelled(ctx.Err())
	}

	outcome := &entities.BatchOutcome{BatchID: batchID}
	for i, item := range items {
		if errs[i] != nil || results[i] == nil {
			failure := entities.ItemFailure{Identifier: item.Identifier, Err: errs[i], Reason: reason(errs[i])}
			outcome.Failures = append(outcome.Failures, failure)
			log.Warn("item failed", zap.String("item", item.Identifier), zap.Error(errs[i]))
			continue
		}

		res := *results[i]
		res.Identifier = item.Identifier
		res.Filename = file.OutputName(item.Identifier, consts.OutputExtension)
		res.DirectiveID = directiveIDs[i]
		outcome.Results = append(outcome.Results, res)
	}

	if len(outcome.Results) == 0 {
		return nil, apperr.ErrAllItemsFailed(toItemFailures(outcome.Failures))
	}

	if len(outcome.Results) == 1 {
		outcome.Kind = entities.OutcomeSingle
	} else {
		archive, err := s.packager.Pack(outcome.Results)
		if err != nil {
			return nil, apperr.ErrPackaging(err)
		}
		outcome.Kind = entities.OutcomeArchive
		outcome.Archive = archive
	}

	log.Info("batch optimized",
		zap.String("outcome", string(outcome.Kind)),
		zap.Int("items", len(items)),
		zap.Int("succeeded", len(outcome.Results)),
		zap.Int("failed", len(outcome.Failures)),
		zap.Duration("took", time.Since(start)))

	return outcome, nil
}

func cancelled(errs []error) bool {
	for _, err := range errs {
		if apperr.HasCode(err, apperr.CodeCancelled) {
			return true
		}
	}
	return false
}

func reason(err error) string {
	if err == nil {
		return "no result"
	}
	return err.Error()
}

func toItemFailures(failures []entities.ItemFailure) []apperr.ItemFailure {
	out := make([]apperr.ItemFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, apperr.ItemFailure{Name: f.Identifier, Error: f.Reason})
	}
	return out
}
