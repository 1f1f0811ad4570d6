// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat   Code = "config.parse.invalid_format"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeModelRequestInvalid  Code = "model.request.invalid"
	CodeModelResponseInvalid Code = "model.response.invalid"
	CodeModelUpstreamFailure Code = "model.upstream.failure"
	CodeModelUnavailable     Code = "model.status.unavailable"

	CodeSpeechRequestInvalid     Code = "speech.request.invalid"
	CodeSpeechUnintelligible     Code = "speech.transcribe.unintelligible"
	CodeSpeechServiceUnavailable Code = "speech.service.unavailable"

	CodeAttachmentReadFailure   Code = "attachment.read.failure"
	CodeAttachmentEncodeFailure Code = "attachment.encode.failure"

	CodeUploadTypeDenied   Code = "upload.type.denied"
	CodeUploadTooLarge     Code = "upload.size.exceeded"
	CodeUploadWriteFailure Code = "upload.write.failure"
	CodeUploadNotFound     Code = "upload.entry.not_found"

	CodeChatProcessingFailure Code = "chat.processing.failure"

	CodeFeedbackFieldMissing Code = "feedback.field.missing"

	CodeTutorialNotFound       Code = "tutorial.entry.not_found"
	CodeTutorialCatalogInvalid Code = "tutorial.catalog.invalid_format"

	CodeServerRequestInvalid  Code = "server.request.invalid"
	CodeServerInternalFailure Code = "server.internal.failure"
	CodeServerEntityNotFound  Code = "server.entity.not_found"
	CodeServerConfigInvalid   Code = "server.config.invalid"
	CodeServerStartFailure    Code = "server.start.failure"

	CodeCLISetupFailure Code = "cli.setup.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldSessionID(value string) Attr {
	return Field("session_id", value)
}

func FieldUploadID(value string) Attr {
	return Field("upload_id", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

// codedError records the code assigned at the most recent constructor
// or wrap site. The oops attribute getters resolve from the deepest
// error in a chain, so re-coding an already-coded error at a boundary
// needs the outer code carried where CodeOf can see it first.
type codedError struct {
	code Code
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func New(code Code, msg string, fields ...Attr) error {
	return &codedError{code: code, err: oops.Code(code).With(flatten(fields)...).New(msg)}
}

func Errorf(code Code, format string, args ...any) error {
	return &codedError{code: code, err: oops.Code(code).Errorf(format, args...)}
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return &codedError{code: code, err: oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)}
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return &codedError{code: code, err: oops.Code(code).Wrapf(err, format, args...)}
}

// With adds structured fields to an existing error chain, keeping its
// current code.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeServerInternalFailure
	}

	return &codedError{code: code, err: oops.Code(code).With(flatten(fields)...).Wrap(err)}
}

// CodeOf returns the code of the outermost wrapper in the chain, so a
// code assigned when crossing a boundary wins over the codes beneath it.
func CodeOf(err error) Code {
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if ce, ok := e.(*codedError); ok {
			return ce.code
		}
	}

	// Errors built with oops directly, outside this package.
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	switch code := oopsErr.Code().(type) {
	case Code:
		return code
	case string:
		return Code(code)
	case nil:
		return ""
	default:
		return Code(fmt.Sprintf("%v", code))
	}
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

// HasCode reports whether code was assigned anywhere in the chain, not
// just at the outermost wrapper.
func HasCode(err error, code Code) bool {
	if err == nil || code == "" {
		return false
	}

	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if ce, ok := e.(*codedError); ok && ce.code == code {
			return true
		}
	}

	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" ||
		r == "invalid_format" || r == "missing" || r == "denied" ||
		r == "unintelligible"
}

func IsTooLarge(err error) bool {
	return reason(CodeOf(err)) == "exceeded"
}

func IsUnavailable(err error) bool {
	return reason(CodeOf(err)) == "unavailable"
}

func IsUpstreamFailure(err error) bool {
	code := CodeOf(err)
	return strings.Contains(string(code), "upstream") && reason(code) == "failure"
}

func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInvalidInput(err):
		return http.StatusBadRequest
	case IsTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case IsUnavailable(err):
		return http.StatusServiceUnavailable
	case IsUpstreamFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Join(errs ...error) error {
	joined := stderrors.Join(errs...)
	if joined == nil {
		return nil
	}
	return &codedError{
		code: CodeServerInternalFailure,
		err:  oops.Code(CodeServerInternalFailure).Wrap(joined),
	}
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
