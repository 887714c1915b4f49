package internal

import "time"

// TranslationRequest is one accepted translate intent as sent to the service.
type TranslationRequest struct {
	ID             string    `json:"id"`
	SourceCode     string    `json:"source_code"`
	InputLanguage  string    `json:"input_language"`
	OutputLanguage string    `json:"output_language"`
	Timestamp      time.Time `json:"timestamp"`
}

// TranslationOutcome is the terminal result of a TranslationRequest.
type TranslationOutcome struct {
	RequestID      string        `json:"request_id"`
	Status         string        `json:"status"`
	TranslatedCode string        `json:"translated_code"`
	Error          string        `json:"error,omitempty"`
	Latency        time.Duration `json:"latency"`
}
