package usecases

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"image-optimizer/internal/domain/entities"
	"image-optimizer/internal/infrastructure/archive"
	"image-optimizer/internal/infrastructure/processor"
	"image-optimizer/internal/infrastructure/queue"
	"image-optimizer/internal/pkg/testutil"
	apperr "image-optimizer/pkg/errors"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// delayTransformer echoes its input, sleeping per payload.
type delayTransformer struct {
	delays map[string]time.Duration
}

func (d *delayTransformer) Transform(ctx context.Context, data []byte, t entities.EffectiveTransform) (*entities.TransformResult, error) {
	time.Sleep(d.delays[string(data)])
	return &entities.TransformResult{EncodedBytes: data, ByteSize: len(data), Width: 1, Height: 1}, nil
}

type failingPackager struct{}

func (failingPackager) Pack([]entities.TransformResult) ([]byte, error) {
	return nil, errors.New("out of memory")
}

func newService(t *testing.T, tr queue.Transformer, workers int, packager Packager) OptimizeService {
	t.Helper()
	log := testutil.Logger(t)
	pool := queue.NewWorkerPool(workers, 8, tr, log)
	t.Cleanup(pool.Shutdown)
	return NewOptimizeService(pool, NewDirectiveResolver(1024), packager, 20, log)
}

func newImageService(t *testing.T) OptimizeService {
	t.Helper()
	p, err := processor.NewImageProcessor(80)
	require.NoError(t, err)
	return newService(t, p, 4, archive.NewZipPackager())
}

func identifiers(results []entities.TransformResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Identifier)
	}
	return out
}

func TestOptimizeNoItems(t *testing.T) {
	svc := newService(t, &delayTransformer{}, 1, archive.NewZipPackager())

	_, err := svc.Optimize(context.Background(), nil, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeNoItems))
}

func TestOptimizeTooManyItems(t *testing.T) {
	svc := newService(t, &delayTransformer{}, 1, archive.NewZipPackager())
	items := make([]entities.UploadedItem, 21)

	_, err := svc.Optimize(context.Background(), items, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeTooManyItems))
}

func TestOptimizePreservesInputOrder(t *testing.T) {
	tr := &delayTransformer{delays: map[string]time.Duration{
		"B": 150 * time.Millisecond,
	}}
	svc := newService(t, tr, 3, archive.NewZipPackager())
	items := []entities.UploadedItem{
		{Identifier: "A.png", Bytes: []byte("A")},
		{Identifier: "B.png", Bytes: []byte("B")},
		{Identifier: "C.png", Bytes: []byte("C")},
	}

	outcome, err := svc.Optimize(context.Background(), items, nil)
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeArchive, outcome.Kind)
	assert.Equal(t, []string{"A.png", "B.png", "C.png"}, identifiers(outcome.Results))
	assert.Equal(t, []byte("B"), outcome.Results[1].EncodedBytes)
	assert.NotEmpty(t, outcome.BatchID)

	zr, err := zip.NewReader(bytes.NewReader(outcome.Archive), int64(len(outcome.Archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "A.webp", zr.File[0].Name)
	assert.Equal(t, "B.webp", zr.File[1].Name)
	assert.Equal(t, "C.webp", zr.File[2].Name)
}

func TestOptimizePartialFailureGivesSingle(t *testing.T) {
	svc := newImageService(t)
	items := []entities.UploadedItem{
		{Identifier: "valid.png", Bytes: testutil.PNG(t, 64, 48)},
		{Identifier: "corrupt.bin", Bytes: testutil.Corrupt()},
	}

	outcome, err := svc.Optimize(context.Background(), items, nil)
	require.NoError(t, err)

	single, ok := outcome.Single()
	require.True(t, ok)
	assert.Equal(t, "valid.png", single.Identifier)
	assert.Equal(t, "valid.webp", single.Filename)
	assert.Equal(t, 64, single.Width)
	assert.Equal(t, 48, single.Height)
	assert.Nil(t, outcome.Archive)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "corrupt.bin", outcome.Failures[0].Identifier)
	assert.True(t, apperr.HasCode(outcome.Failures[0].Err, apperr.CodeDecode))
}

func TestOptimizeAllFailed(t *testing.T) {
	svc := newImageService(t)
	items := []entities.UploadedItem{
		{Identifier: "a.bin", Bytes: testutil.Corrupt()},
		{Identifier: "b.bin", Bytes: []byte{}},
	}

	_, err := svc.Optimize(context.Background(), items, nil)
	require.Error(t, err)

	var ae *apperr.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeAllItemsFailed, ae.Code)
	require.Len(t, ae.Failures, 2)
	assert.Equal(t, "a.bin", ae.Failures[0].Name)
	assert.Equal(t, "b.bin", ae.Failures[1].Name)
	assert.NotEmpty(t, ae.Failures[0].Error)
}

func TestOptimizeArchiveContainsOnlySuccesses(t *testing.T) {
	svc := newImageService(t)
	items := []entities.UploadedItem{
		{Identifier: "one.png", Bytes: testutil.PNG(t, 40, 40)},
		{Identifier: "broken.jpg", Bytes: testutil.Corrupt()},
		{Identifier: "two.jpg", Bytes: testutil.JPEG(t, 30, 20)},
	}

	outcome, err := svc.Optimize(context.Background(), items, nil)
	require.NoError(t, err)

	require.True(t, outcome.IsArchive())
	assert.Equal(t, []string{"one.png", "two.jpg"}, identifiers(outcome.Results))
	require.Len(t, outcome.Failures, 1)

	zr, err := zip.NewReader(bytes.NewReader(outcome.Archive), int64(len(outcome.Archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "one.webp", zr.File[0].Name)
	assert.Equal(t, "two.webp", zr.File[1].Name)
}

func TestOptimizeAppliesDirectives(t *testing.T) {
	svc := newImageService(t)
	items := []entities.UploadedItem{
		{Identifier: "big.png", Bytes: testutil.PNG(t, 2048, 1024)},
		{Identifier: "small.png", Bytes: testutil.PNG(t, 100, 50)},
		{Identifier: "tiny.png", Bytes: testutil.PNG(t, 80, 40)},
	}
	directives := []entities.ResizeDirective{
		{ID: 11, Name: "small.png", TargetWidth: intPtr(400)},
		{ID: 12, Name: "tiny.png"},
	}

	outcome, err := svc.Optimize(context.Background(), items, directives)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 3)

	big, small, tiny := outcome.Results[0], outcome.Results[1], outcome.Results[2]
	assert.Equal(t, -1, big.DirectiveID)
	assert.Equal(t, 1024, big.Width)
	assert.Equal(t, 512, big.Height)

	assert.Equal(t, 11, small.DirectiveID)
	assert.Equal(t, 400, small.Width, "explicit width may upscale")
	assert.Equal(t, 200, small.Height)

	assert.Equal(t, 12, tiny.DirectiveID)
	assert.Equal(t, 80, tiny.Width, "default never upscales")
	assert.Equal(t, 40, tiny.Height)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	svc := newImageService(t)
	items := []entities.UploadedItem{
		{Identifier: "a.png", Bytes: testutil.PNG(t, 300, 200)},
		{Identifier: "b.jpg", Bytes: testutil.JPEG(t, 200, 300)},
	}
	directives := []entities.ResizeDirective{{ID: 1, Name: "a.png", TargetWidth: intPtr(150)}}

	first, err := svc.Optimize(context.Background(), items, directives)
	require.NoError(t, err)
	second, err := svc.Optimize(context.Background(), items, directives)
	require.NoError(t, err)

	for i := range first.Results {
		assert.Equal(t, first.Results[i].EncodedBytes, second.Results[i].EncodedBytes)
		assert.Equal(t, first.Results[i].Width, second.Results[i].Width)
		assert.Equal(t, first.Results[i].Height, second.Results[i].Height)
	}
	assert.Equal(t, first.Archive, second.Archive)
}

func TestOptimizePackagingFailure(t *testing.T) {
	svc := newService(t, &delayTransformer{}, 2, failingPackager{})
	items := []entities.UploadedItem{
		{Identifier: "a.png", Bytes: []byte("a")},
		{Identifier: "b.png", Bytes: []byte("b")},
	}

	outcome, err := svc.Optimize(context.Background(), items, nil)
	assert.Nil(t, outcome)
	assert.True(t, apperr.HasCode(err, apperr.CodePackaging))
}

func TestOptimizeSingleSkipsPackaging(t *testing.T) {
	svc := newService(t, &delayTransformer{}, 1, failingPackager{})

	outcome, err := svc.Optimize(context.Background(), []entities.UploadedItem{{Identifier: "a.png", Bytes: []byte("a")}}, nil)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeSingle, outcome.Kind)
}

func TestOptimizeCancelled(t *testing.T) {
	tr := &delayTransformer{delays: map[string]time.Duration{"slow": 100 * time.Millisecond}}
	svc := newService(t, tr, 1, archive.NewZipPackager())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	items := []entities.UploadedItem{
		{Identifier: "1.png", Bytes: []byte("slow")},
		{Identifier: "2.png", Bytes: []byte("slow")},
		{Identifier: "3.png", Bytes: []byte("slow")},
	}

	_, err := svc.Optimize(ctx, items, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeCancelled))
}

// cancellingTransformer succeeds but cancels the request context while doing so.
type cancellingTransformer struct {
	cancel context.CancelFunc
}

func (c *cancellingTransformer) Transform(ctx context.Context, data []byte, t entities.EffectiveTransform) (*entities.TransformResult, error) {
	c.cancel()
	return &entities.TransformResult{EncodedBytes: data, ByteSize: len(data), Width: 1, Height: 1}, nil
}

func TestOptimizeKeepsFinishedBatchAfterLateCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := newService(t, &cancellingTransformer{cancel: cancel}, 1, archive.NewZipPackager())

	outcome, err := svc.Optimize(ctx, []entities.UploadedItem{{Identifier: "a.png", Bytes: []byte("a")}}, nil)
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	assert.Equal(t, entities.OutcomeSingle, outcome.Kind)
	assert.Equal(t, []string{"a.png"}, identifiers(outcome.Results))
}
