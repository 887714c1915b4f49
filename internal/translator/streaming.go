package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultEndpoint = "http://localhost:8000/api/translate-code/"
	DefaultTimeout  = 120 * time.Second

	maxErrorBody = 512
)

// StreamingService posts code to an endpoint that answers with the
// translation as a plain-text body delivered in chunks.
type StreamingService struct {
	endpoint  string
	client    *http.Client
	chunkSize int
}

func NewStreamingService(endpoint string, timeout time.Duration) *StreamingService {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &StreamingService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *StreamingService) Name() string {
	return "stream"
}

func (s *StreamingService) Translate(ctx context.Context, req TranslateRequest) (ChunkStream, error) {
	resp, err := post(ctx, s.client, s.endpoint, req, "text/plain")
	if err != nil {
		return nil, err
	}
	return newBodyStream(resp.Body, s.chunkSize), nil
}

func (s *StreamingService) IsAvailable(ctx context.Context) error {
	return probe(ctx, s.client, s.endpoint)
}

// post sends req as JSON and returns a 2xx response with a body. On any
// other outcome the body is already closed.
func post(ctx context.Context, client *http.Client, endpoint string, req TranslateRequest, accept string) (*http.Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, ErrNoBody
	}

	return resp, nil
}

// probe reports whether anything answers at endpoint. Any HTTP status counts
// as reachable; a translate endpoint usually rejects GET.
func probe(ctx context.Context, client *http.Client, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("translation endpoint not available: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("translation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
