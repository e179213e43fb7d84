package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	decode := ErrDecode(fmt.Errorf("bad header"))
	wrapped := fmt.Errorf("item a.png: %w", decode)

	assert.True(t, HasCode(wrapped, CodeDecode))
	assert.False(t, HasCode(wrapped, CodeEncode))
	assert.False(t, HasCode(nil, CodeDecode))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeDecode))
}

func TestHasCodeFollowsNestedAppErrors(t *testing.T) {
	err := ErrCancelled(ErrEncode(context.Canceled))

	assert.True(t, HasCode(err, CodeCancelled))
	assert.True(t, HasCode(err, CodeEncode))
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestAppErrorMessage(t *testing.T) {
	err := ErrPackaging(fmt.Errorf("disk full"))
	assert.Equal(t, "packaging_failed: archive could not be created (disk full)", err.Error())

	failures := []ItemFailure{{Name: "a.bin", Error: "decode"}}
	all := ErrAllItemsFailed(failures)
	require.Len(t, all.Failures, 1)
	assert.Equal(t, "all_items_failed: no image could be optimized", all.Error())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 400, StatusFor(CodeNoItems))
	assert.Equal(t, 400, StatusFor(CodeTooManyItems))
	assert.Equal(t, 400, StatusFor(CodeInvalidRequest))
	assert.Equal(t, 408, StatusFor(CodeCancelled))
	assert.Equal(t, 500, StatusFor(CodeAllItemsFailed))
	assert.Equal(t, 500, StatusFor(CodePackaging))
	assert.Equal(t, 500, StatusFor("anything"))
}
