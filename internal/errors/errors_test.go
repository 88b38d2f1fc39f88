package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := LoadFailure("category_stats.json", fmt.Errorf("status 404"))
	wrapped := Wrapf(base, "mount %s", "m-1")

	assert.Equal(t, CodeLoadFailure, GetCode(wrapped))
	assert.True(t, IsLoadFailure(wrapped))
	assert.Contains(t, wrapped.Error(), `dataset "category_stats.json" unavailable`)
	assert.Contains(t, wrapped.Error(), "status 404")
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, "write failed")

	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestWithCodeAndConstructors(t *testing.T) {
	assert.Equal(t, CodeConfigInvalid, GetCode(WithCode(CodeConfigInvalid, stderrors.New("bad port"))))
	assert.Equal(t, CodeNotFound, GetCode(NotFound("export.xlsx")))
	assert.Equal(t, CodeInvalidInput, GetCode(InvalidInput("empty")))
	assert.Equal(t, CodeUnknownDiscriminant, GetCode(UnknownDiscriminant("q10")))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, IsLoadFailure(NotFound("x")))
}
