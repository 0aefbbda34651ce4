// errors.go - Structured error taxonomy shared by the extractor and patcher
package apperr

import (
	"errors"
	"fmt"
)

// Kind groups errors by how a run should react to them.
type Kind string

const (
	KindNotFound Kind = "NOT_FOUND"
	KindFormat   Kind = "FORMAT_ERROR"
	KindParse    Kind = "PARSE_ERROR"
)

// Stable error codes.
const (
	CodeFileNotFound       = "FileNotFound"
	CodeInvalidArchive     = "InvalidArchive"
	CodeLayoutMissing      = "LayoutMissing"
	CodeLayoutUndecodable  = "LayoutUndecodable"
	CodeLayoutUnparsable   = "LayoutUnparsable"
	CodeReportNotFound     = "ReportNotFound"
	CodeReportUnparsable   = "ReportUnparsable"
	CodeTemplateNotFound   = "TemplateNotFound"
	CodeTemplateUnparsable = "TemplateUnparsable"
	CodeConfigUnparsable   = "ConfigUnparsable"
)

// Error is the error type returned for every document-level failure.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Path    string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a missing input path.
func NewNotFoundError(code, message, path string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message, Path: path}
}

// NewFormatError reports an input that exists but has the wrong container or encoding.
func NewFormatError(code, message, path string, cause error) *Error {
	return &Error{Kind: KindFormat, Code: code, Message: message, Path: path, Err: cause}
}

// NewParseError reports malformed JSON.
func NewParseError(code, message, path string, cause error) *Error {
	return &Error{Kind: KindParse, Code: code, Message: message, Path: path, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
