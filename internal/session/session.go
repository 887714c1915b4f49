// Package session implements the translation session: the language pair,
// the request lifecycle with its streamed response, and the upload, copy and
// download operations that read or replace the session's code.
//
// A Session is safe for concurrent use. Every intent mutates state under one
// mutex that is never held across network, clipboard or file I/O, so other
// intents may run while a translation is streaming. At most one translation
// is in flight; further translate intents are dropped until it settles.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valpere/codetran/internal"
	"github.com/valpere/codetran/internal/decoder"
	"github.com/valpere/codetran/internal/language"
	"github.com/valpere/codetran/internal/translator"
)

const DefaultCopyAckWindow = 2 * time.Second

// Config controls session defaults and optional collaborators.
type Config struct {
	InputLanguage  language.Option
	OutputLanguage language.Option
	CopyAckWindow  time.Duration
	// LenientDecoding replaces malformed UTF-8 in responses with U+FFFD
	// instead of failing the attempt.
	LenientDecoding bool
	Recorder        Recorder
	Logger          *zap.SugaredLogger
}

type Session struct {
	service   translator.TranslationService
	clipboard Clipboard
	saver     Saver
	observer  Observer
	recorder  Recorder
	logger    *zap.SugaredLogger
	cfg       Config

	mu               sync.Mutex
	version          uint64
	inputLanguage    language.Option
	outputLanguage   language.Option
	sourceCode       string
	translatedCode   string
	status           Status
	requestID        string
	copyAcknowledged bool
	copyGeneration   uint64
	copyTimer        *time.Timer
}

func New(service translator.TranslationService, clipboard Clipboard, saver Saver, observer Observer, cfg Config) *Session {
	if cfg.InputLanguage.IsZero() {
		cfg.InputLanguage = language.DefaultInput
	}
	if cfg.OutputLanguage.IsZero() {
		cfg.OutputLanguage = language.DefaultOutput
	}
	if cfg.CopyAckWindow <= 0 {
		cfg.CopyAckWindow = DefaultCopyAckWindow
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Session{
		service:        service,
		clipboard:      clipboard,
		saver:          saver,
		observer:       observer,
		recorder:       cfg.Recorder,
		logger:         cfg.Logger,
		cfg:            cfg,
		inputLanguage:  cfg.InputLanguage,
		outputLanguage: cfg.OutputLanguage,
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Version:          s.version,
		InputLanguage:    s.inputLanguage,
		OutputLanguage:   s.outputLanguage,
		SourceCode:       s.sourceCode,
		TranslatedCode:   s.translatedCode,
		Status:           s.status,
		CopyAcknowledged: s.copyAcknowledged,
		RequestID:        s.requestID,
	}
}

// mutate applies fn under the lock and publishes the resulting snapshot.
// fn returns false to signal that nothing changed.
func (s *Session) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.observer.StateChanged(snap)
}

func (s *Session) notice(kind NoticeKind, message string, err error) {
	s.observer.Notice(Notice{Kind: kind, Message: message, Err: err})
}

// --- language pair ---

// SetInputLanguage replaces the input language without checking it against
// the output language.
func (s *Session) SetInputLanguage(opt language.Option) {
	s.mutate(func() bool {
		s.inputLanguage = opt
		return true
	})
}

// SetOutputLanguage replaces the output language without checking it against
// the input language.
func (s *Session) SetOutputLanguage(opt language.Option) {
	s.mutate(func() bool {
		s.outputLanguage = opt
		return true
	})
}

// SwapLanguages exchanges input and output languages in one step. Code and
// any in-flight request are left alone.
func (s *Session) SwapLanguages() {
	s.mutate(func() bool {
		s.inputLanguage, s.outputLanguage = s.outputLanguage, s.inputLanguage
		return true
	})
}

// --- source code ---

// SetSourceCode records an edit of the source code.
func (s *Session) SetSourceCode(code string) {
	s.mutate(func() bool {
		s.sourceCode = code
		return true
	})
}

// SelectExample loads an example's code. The input language follows the
// example only when languageID is registered.
func (s *Session) SelectExample(code, languageID string) {
	opt, known := language.Lookup(languageID)
	s.mutate(func() bool {
		s.sourceCode = code
		if known {
			s.inputLanguage = opt
		}
		return true
	})
}

// UploadFile replaces the source code with data decoded as UTF-8 text.
func (s *Session) UploadFile(data []byte) error {
	text, err := decoder.DecodeText(data)
	if err != nil {
		readErr := &FileReadError{Err: err}
		s.logger.Warnw("Upload decode failed", "error", err)
		s.notice(NoticeFileRead, "The file could not be read as text.", readErr)
		return readErr
	}
	s.mutate(func() bool {
		s.sourceCode = text
		return true
	})
	s.logger.Debugw("Source code uploaded", "bytes", len(data))
	return nil
}

// UploadFrom reads r to the end and uploads its content. A read failure
// leaves the source code unchanged.
func (s *Session) UploadFrom(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		readErr := &FileReadError{Err: err}
		s.logger.Warnw("Upload read failed", "error", err)
		s.notice(NoticeFileRead, "The file could not be read.", readErr)
		return readErr
	}
	return s.UploadFile(data)
}

// --- request lifecycle ---

func (s *Session) validateLocked() *ValidationError {
	switch {
	case s.inputLanguage.IsZero():
		return ErrMissingInputLanguage
	case s.outputLanguage.IsZero():
		return ErrMissingOutputLanguage
	case s.sourceCode == "":
		return ErrEmptySourceCode
	}
	return nil
}

// Translate sends the source code to the translation service and appends
// the streamed response to the translated code as it arrives. It returns
// once the attempt has settled.
//
// A *ValidationError is returned, with no state change, when a language or
// the source code is missing. While another attempt is in flight the call
// does nothing and returns nil. A failed attempt returns a *TransportError
// and keeps whatever text had already arrived.
//
// ctx bounds the transport only; the session never aborts an attempt itself.
func (s *Session) Translate(ctx context.Context) error {
	s.mu.Lock()
	if verr := s.validateLocked(); verr != nil {
		s.mu.Unlock()
		s.logger.Debugw("Translate rejected", "code", verr.Code)
		s.notice(NoticeValidation, verr.Message, verr)
		return verr
	}
	if s.status == StatusInFlight {
		s.mu.Unlock()
		s.logger.Debugw("Translate dropped, request already in flight")
		return nil
	}

	id := uuid.NewString()
	record := internal.TranslationRequest{
		ID:             id,
		SourceCode:     s.sourceCode,
		InputLanguage:  s.inputLanguage.ID,
		OutputLanguage: s.outputLanguage.ID,
		Timestamp:      time.Now(),
	}
	s.status = StatusInFlight
	s.translatedCode = ""
	s.requestID = id
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.observer.StateChanged(snap)

	s.logger.Infow("Translation started",
		"request_id", id,
		"input_language", record.InputLanguage,
		"output_language", record.OutputLanguage,
	)
	s.recordRequest(ctx, record)

	err := s.run(ctx, id, translator.TranslateRequest{
		Code:           record.SourceCode,
		InputLanguage:  record.InputLanguage,
		TargetLanguage: record.OutputLanguage,
	})
	return s.settle(ctx, id, record.Timestamp, err)
}

// run drives the read loop: every chunk is decoded and appended before the
// next one is requested.
func (s *Session) run(ctx context.Context, id string, req translator.TranslateRequest) error {
	stream, err := s.service.Translate(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	dec := decoder.New()
	if s.cfg.LenientDecoding {
		dec = decoder.NewLenient()
	}

	for {
		chunk, readErr := stream.Next()
		if len(chunk) > 0 {
			frag, decErr := dec.Feed(chunk)
			s.appendFragment(id, frag)
			if decErr != nil {
				return decErr
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	tail, err := dec.Finish()
	s.appendFragment(id, tail)
	return err
}

func (s *Session) appendFragment(id, frag string) {
	if frag == "" {
		return
	}
	s.mutate(func() bool {
		if s.requestID != id || s.status != StatusInFlight {
			return false
		}
		s.translatedCode += frag
		return true
	})
}

func (s *Session) settle(ctx context.Context, id string, started time.Time, err error) error {
	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
	}

	var translated string
	s.mutate(func() bool {
		if s.requestID != id {
			return false
		}
		s.status = status
		translated = s.translatedCode
		return true
	})

	latency := time.Since(started)
	outcome := internal.TranslationOutcome{
		RequestID:      id,
		Status:         status.String(),
		TranslatedCode: translated,
		Latency:        latency,
	}

	if err == nil {
		s.logger.Infow("Translation succeeded", "request_id", id, "bytes", len(translated), "latency", latency)
		s.recordOutcome(ctx, outcome)
		return nil
	}

	terr := &TransportError{Err: err}
	outcome.Error = err.Error()
	s.logger.Warnw("Translation failed", "request_id", id, "error", err, "partial_bytes", len(translated))
	s.recordOutcome(ctx, outcome)
	s.notice(NoticeTransport, terr.userMessage(), terr)
	return terr
}

func (s *Session) recordRequest(ctx context.Context, req internal.TranslationRequest) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveRequest(context.WithoutCancel(ctx), req); err != nil {
		s.logger.Warnw("Failed to record request", "request_id", req.ID, "error", err)
	}
}

func (s *Session) recordOutcome(ctx context.Context, out internal.TranslationOutcome) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveOutcome(context.WithoutCancel(ctx), out); err != nil {
		s.logger.Warnw("Failed to record outcome", "request_id", out.RequestID, "error", err)
	}
}

// --- clipboard ---

// CopyToClipboard writes the translated code, even when empty, to the
// clipboard. On success CopyAcknowledged is set for the configured window;
// a later copy restarts the window.
func (s *Session) CopyToClipboard(ctx context.Context) error {
	text := s.Snapshot().TranslatedCode

	err := errNoClipboard
	if s.clipboard != nil {
		err = s.clipboard.SetText(ctx, text)
	}
	if err != nil {
		s.mutate(func() bool {
			s.copyGeneration++
			s.stopCopyTimerLocked()
			changed := s.copyAcknowledged
			s.copyAcknowledged = false
			return changed
		})
		cerr := &ClipboardError{Err: err}
		s.logger.Warnw("Clipboard write failed", "error", err)
		s.notice(NoticeClipboard, "Could not copy to the clipboard.", cerr)
		return cerr
	}

	s.mutate(func() bool {
		s.copyGeneration++
		gen := s.copyGeneration
		s.stopCopyTimerLocked()
		s.copyAcknowledged = true
		s.copyTimer = time.AfterFunc(s.cfg.CopyAckWindow, func() { s.revertCopyAck(gen) })
		return true
	})
	return nil
}

func (s *Session) revertCopyAck(gen uint64) {
	s.mutate(func() bool {
		if gen != s.copyGeneration {
			return false
		}
		s.copyTimer = nil
		s.copyAcknowledged = false
		return true
	})
}

func (s *Session) stopCopyTimerLocked() {
	if s.copyTimer != nil {
		s.copyTimer.Stop()
		s.copyTimer = nil
	}
}

// --- download ---

// DownloadAsFile saves the translated code locally as
// translated_code.<ext>, the extension following the output language.
func (s *Session) DownloadAsFile() (string, error) {
	snap := s.Snapshot()
	name := language.DownloadFileName(snap.OutputLanguage.ID)

	err := errNoSaver
	var path string
	if s.saver != nil {
		path, err = s.saver.Save(name, []byte(snap.TranslatedCode))
	}
	if err != nil {
		derr := &DownloadError{Name: name, Err: err}
		s.logger.Warnw("Download failed", "file", name, "error", err)
		s.notice(NoticeDownload, "Could not save "+name+".", derr)
		return "", derr
	}

	s.logger.Infow("Translation saved", "path", path, "bytes", len(snap.TranslatedCode))
	return path, nil
}

// Close stops the pending copy acknowledgement timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copyGeneration++
	s.stopCopyTimerLocked()
}
