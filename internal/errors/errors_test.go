package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeTooLarge, http.StatusRequestEntityTooLarge},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("post %d not found", 7)

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("load post: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))

	var domainErr *Error
	assert.True(t, As(wrapped, &domainErr))
	assert.Equal(t, "post 7 not found", domainErr.Message)
}

func TestError_WithCause(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, CodeInternal, "read avatar")

	assert.Equal(t, "read avatar: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	withDetails := err.WithDetails(map[string]string{"field": "avatar"})
	assert.ErrorIs(t, withDetails, io.ErrUnexpectedEOF)
	assert.Equal(t, map[string]string{"field": "avatar"}, withDetails.Details)
}
