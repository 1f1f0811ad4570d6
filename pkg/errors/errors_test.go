// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

func TestNewAndCodeOf(t *testing.T) {
	err := tberr.New(tberr.CodeModelUpstreamFailure, "model down", tberr.FieldModel("gemini-2.0-flash"))
	require.Error(t, err)

	assert.Equal(t, tberr.CodeModelUpstreamFailure, tberr.CodeOf(err))
	assert.True(t, tberr.HasCode(err, tberr.CodeModelUpstreamFailure))
	assert.False(t, tberr.HasCode(err, tberr.CodeModelResponseInvalid))

	fields := tberr.FieldsOf(err)
	assert.Equal(t, "gemini-2.0-flash", fields["model"])
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, tberr.Wrap(nil, tberr.CodeServerInternalFailure, "nothing"))
	assert.NoError(t, tberr.Wrapf(nil, tberr.CodeServerInternalFailure, "nothing"))
	assert.NoError(t, tberr.With(nil))
}

func TestWrapPreservesChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := tberr.Wrap(cause, tberr.CodeModelUpstreamFailure, "calling model")

	assert.Equal(t, tberr.CodeModelUpstreamFailure, tberr.CodeOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestWrapRecodesAtBoundary(t *testing.T) {
	inner := tberr.New(tberr.CodeModelUpstreamFailure, "generate call failed")
	err := tberr.Wrap(inner, tberr.CodeSpeechServiceUnavailable, "transcribing audio")

	// The boundary's code wins over the one it wraps.
	assert.Equal(t, tberr.CodeSpeechServiceUnavailable, tberr.CodeOf(err))
	assert.Equal(t, http.StatusServiceUnavailable, tberr.HTTPStatus(err))

	// The inner code stays visible in the chain.
	assert.True(t, tberr.HasCode(err, tberr.CodeSpeechServiceUnavailable))
	assert.True(t, tberr.HasCode(err, tberr.CodeModelUpstreamFailure))
	assert.ErrorIs(t, err, inner)
}

func TestWithKeepsCode(t *testing.T) {
	err := tberr.With(
		tberr.New(tberr.CodeUploadNotFound, "no such upload"),
		tberr.FieldUploadID("u1"),
	)

	assert.Equal(t, tberr.CodeUploadNotFound, tberr.CodeOf(err))
	assert.Equal(t, "u1", tberr.FieldsOf(err)["upload_id"])
}

func TestCodeOfNonOops(t *testing.T) {
	assert.Equal(t, tberr.Code(""), tberr.CodeOf(stderrors.New("plain")))
	assert.Equal(t, tberr.Code(""), tberr.CodeOf(nil))
}

func TestReasonPredicates(t *testing.T) {
	assert.True(t, tberr.IsNotFound(tberr.New(tberr.CodeUploadNotFound, "x")))
	assert.True(t, tberr.IsNotFound(tberr.New(tberr.CodeTutorialNotFound, "x")))
	assert.True(t, tberr.IsInvalidInput(tberr.New(tberr.CodeFeedbackFieldMissing, "x")))
	assert.True(t, tberr.IsInvalidInput(tberr.New(tberr.CodeUploadTypeDenied, "x")))
	assert.True(t, tberr.IsInvalidInput(tberr.New(tberr.CodeSpeechUnintelligible, "x")))
	assert.True(t, tberr.IsTooLarge(tberr.New(tberr.CodeUploadTooLarge, "x")))
	assert.True(t, tberr.IsUnavailable(tberr.New(tberr.CodeSpeechServiceUnavailable, "x")))
	assert.True(t, tberr.IsUpstreamFailure(tberr.New(tberr.CodeModelUpstreamFailure, "x")))
	assert.False(t, tberr.IsUpstreamFailure(tberr.New(tberr.CodeUploadWriteFailure, "x")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", tberr.New(tberr.CodeUploadNotFound, "x"), http.StatusNotFound},
		{"invalid input", tberr.New(tberr.CodeServerRequestInvalid, "x"), http.StatusBadRequest},
		{"unintelligible audio", tberr.New(tberr.CodeSpeechUnintelligible, "x"), http.StatusBadRequest},
		{"too large", tberr.New(tberr.CodeUploadTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{"unavailable", tberr.New(tberr.CodeSpeechServiceUnavailable, "x"), http.StatusServiceUnavailable},
		{"upstream", tberr.New(tberr.CodeModelUpstreamFailure, "x"), http.StatusBadGateway},
		{"fallback", tberr.New(tberr.CodeChatProcessingFailure, "x"), http.StatusInternalServerError},
		{"plain error", stderrors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tberr.HTTPStatus(tt.err))
		})
	}
}
