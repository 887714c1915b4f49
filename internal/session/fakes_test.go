package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/valpere/codetran/internal"
	"github.com/valpere/codetran/internal/translator"
)

type fakeService struct {
	mu        sync.Mutex
	requests  []translator.TranslateRequest
	newStream func() translator.ChunkStream
	err       error
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) Translate(ctx context.Context, req translator.TranslateRequest) (translator.ChunkStream, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.newStream(), nil
}

func (f *fakeService) IsAvailable(ctx context.Context) error { return nil }

func (f *fakeService) Requests() []translator.TranslateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]translator.TranslateRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// scriptedStream yields its chunks, then err (io.EOF when nil).
type scriptedStream struct {
	chunks [][]byte
	err    error
	closed bool
}

func (s *scriptedStream) Next() ([]byte, error) {
	if len(s.chunks) > 0 {
		c := s.chunks[0]
		s.chunks = s.chunks[1:]
		return c, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

func streamOf(chunks ...string) func() translator.ChunkStream {
	return func() translator.ChunkStream {
		s := &scriptedStream{}
		for _, c := range chunks {
			s.chunks = append(s.chunks, []byte(c))
		}
		return s
	}
}

// chanStream blocks on its channel, so tests control when chunks arrive.
type chanStream struct {
	ch <-chan []byte
}

func (s *chanStream) Next() ([]byte, error) {
	b, ok := <-s.ch
	if !ok {
		return nil, io.EOF
	}
	return b, nil
}

func (s *chanStream) Close() error { return nil }

type recordingObserver struct {
	mu       sync.Mutex
	snaps    []Snapshot
	notices  []Notice
	inFlight chan struct{}
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{inFlight: make(chan struct{}, 8)}
}

func (o *recordingObserver) StateChanged(snap Snapshot) {
	o.mu.Lock()
	o.snaps = append(o.snaps, snap)
	o.mu.Unlock()
	if snap.Status == StatusInFlight && snap.TranslatedCode == "" {
		select {
		case o.inFlight <- struct{}{}:
		default:
		}
	}
}

func (o *recordingObserver) Notice(n Notice) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notices = append(o.notices, n)
}

func (o *recordingObserver) Notices() []Notice {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Notice, len(o.notices))
	copy(out, o.notices)
	return out
}

// Statuses returns the distinct consecutive statuses observed.
func (o *recordingObserver) Statuses() []Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Status
	for _, s := range o.snaps {
		if len(out) == 0 || out[len(out)-1] != s.Status {
			out = append(out, s.Status)
		}
	}
	return out
}

type fakeClipboard struct {
	mu   sync.Mutex
	text []string
	err  error
}

func (c *fakeClipboard) SetText(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = append(c.text, text)
	return nil
}

type savedFile struct {
	name    string
	content string
}

type fakeSaver struct {
	saved []savedFile
	err   error
}

func (f *fakeSaver) Save(name string, content []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, savedFile{name: name, content: string(content)})
	return "/downloads/" + name, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []internal.TranslationRequest
	outcomes []internal.TranslationOutcome
	err      error
}

func (r *fakeRecorder) SaveRequest(ctx context.Context, req internal.TranslationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return r.err
}

func (r *fakeRecorder) SaveOutcome(ctx context.Context, out internal.TranslationOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, out)
	return r.err
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}
