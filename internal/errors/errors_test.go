package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"gocompare/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := ConfigInvalid("WORKERS must be positive")
	wrapped := Wrap(base, "loading config")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "loading config: WORKERS must be positive", wrapped.Error())
}

func TestGetCode_ClassifiesDomainErrors(t *testing.T) {
	assert.Equal(t, CodeNotFound, GetCode(core.NewNotFoundError("run", "abc")))
	assert.Equal(t, CodeInvalidInput, GetCode(core.NewMissingColumnError("group", []string{"QuestionGroupID"})))
	assert.Equal(t, CodeInternalError, GetCode(stderrors.New("boom")))
	assert.Equal(t, CodeNotFound, GetCode(Wrap(core.ErrRunNotFound, "lookup")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad header"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("run")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("empty body")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(UnsupportedFormat("results.pdf")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Busy("too many runs")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("boom")))
	assert.True(t, stderrors.Is(UnsupportedFormat("x.pdf"), core.ErrUnsupportedFormat))
}
