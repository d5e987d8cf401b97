package recall_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/recall"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := recall.Errorf(recall.ENOTFOUND, "item %q not found", "test")

	assert.Equal(t, recall.ENOTFOUND, recall.ErrorCode(err))
	assert.Equal(t, "item \"test\" not found", recall.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, recall.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, recall.EINTERNAL, recall.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, recall.ErrorMessage(nil))
}
