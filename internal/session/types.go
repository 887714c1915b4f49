package session

import (
	"context"

	"github.com/valpere/codetran/internal"
	"github.com/valpere/codetran/internal/language"
)

// Status is the request lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a consistent copy of the session state. Version increases with
// every mutation so observers can discard snapshots that arrive late.
type Snapshot struct {
	Version          uint64
	InputLanguage    language.Option
	OutputLanguage   language.Option
	SourceCode       string
	TranslatedCode   string
	Status           Status
	CopyAcknowledged bool
	RequestID        string
}

// NoticeKind classifies user-visible notices.
type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeTransport  NoticeKind = "transport"
	NoticeClipboard  NoticeKind = "clipboard"
	NoticeFileRead   NoticeKind = "file_read"
	NoticeDownload   NoticeKind = "download"
)

// Notice is a message the presentation layer should show once.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Observer receives state changes and notices. Calls are made without the
// session lock held and may come from any goroutine.
type Observer interface {
	StateChanged(snap Snapshot)
	Notice(n Notice)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// Saver stores a file locally and returns where it was written.
type Saver interface {
	Save(name string, content []byte) (string, error)
}

// Recorder keeps a log of translation attempts.
type Recorder interface {
	SaveRequest(ctx context.Context, req internal.TranslationRequest) error
	SaveOutcome(ctx context.Context, out internal.TranslationOutcome) error
}

type nopObserver struct{}

func (nopObserver) StateChanged(Snapshot) {}
func (nopObserver) Notice(Notice)         {}
