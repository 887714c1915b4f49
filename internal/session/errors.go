package session

import (
	"errors"
	"fmt"

	"github.com/valpere/codetran/internal/decoder"
	"github.com/valpere/codetran/internal/translator"
)

// ValidationCode names a failed translate precondition.
type ValidationCode string

const (
	CodeMissingInputLanguage  ValidationCode = "missing_input_language"
	CodeMissingOutputLanguage ValidationCode = "missing_output_language"
	CodeEmptySourceCode       ValidationCode = "empty_source_code"
)

// ValidationError is reported before any request is issued.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingInputLanguage  = &ValidationError{Code: CodeMissingInputLanguage, Message: "please select an input language"}
	ErrMissingOutputLanguage = &ValidationError{Code: CodeMissingOutputLanguage, Message: "please select an output language"}
	ErrEmptySourceCode       = &ValidationError{Code: CodeEmptySourceCode, Message: "please enter some code to translate"}
)

// TransportError ends a translation attempt in StatusFailed. Decode errors
// are wrapped in it too.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("translation failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsDecode reports whether the response bytes were malformed.
func (e *TransportError) IsDecode() bool {
	var decErr *decoder.DecodeError
	return errors.As(e.Err, &decErr)
}

func (e *TransportError) userMessage() string {
	var statusErr *translator.StatusError
	switch {
	case e.IsDecode():
		return "The translation response could not be decoded."
	case errors.As(e.Err, &statusErr):
		return fmt.Sprintf("The translation service returned status %d.", statusErr.StatusCode)
	case errors.Is(e.Err, translator.ErrNoBody):
		return "The translation service sent an empty response."
	}
	return "Could not reach the translation service."
}

type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("failed to copy to clipboard: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

type FileReadError struct {
	Err error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file: %v", e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Name, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

var (
	errNoClipboard = errors.New("no clipboard configured")
	errNoSaver     = errors.New("no download location configured")
)
