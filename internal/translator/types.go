package translator

import (
	"context"
	"errors"
	"fmt"
)

// Mode selects the wire contract of the translation endpoint. Exactly one is
// active per process.
type Mode string

const (
	ModeStream Mode = "stream"
	ModeJSON   Mode = "json"
	ModeOpenAI Mode = "openai"
)

// ParseMode validates a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeStream, ModeJSON, ModeOpenAI:
		return m, nil
	}
	return "", fmt.Errorf("unknown endpoint mode %q (want stream, json or openai)", s)
}

// TranslateRequest is the JSON body posted to the translation endpoint.
type TranslateRequest struct {
	Code           string `json:"code"`
	InputLanguage  string `json:"input_language"`
	TargetLanguage string `json:"target_language"`
}

// ChunkStream is a finite sequence of raw response chunks. Next returns
// (nil, io.EOF) once the transport signals end of stream.
type ChunkStream interface {
	Next() ([]byte, error)
	Close() error
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (ChunkStream, error)
	IsAvailable(ctx context.Context) error
}

// ErrNoBody is returned when a successful response carries no body.
var ErrNoBody = errors.New("response has no body")

// StatusError is a non-2xx response from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}
