package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("download: %w", NotFound("report SIM_00000000"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, "download: report SIM_00000000 not found", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeInternal, "write report")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "write report: disk full", err.Error())
	assert.Nil(t, Wrap(nil, CodeInternal, "noop"))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
