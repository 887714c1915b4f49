package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/codetran/internal/postprocess"
)

// JSONService talks to the non-streaming variant of the endpoint, which
// answers with {"translated_code": "..."} once translation is complete.
// The result is exposed as a single-chunk stream.
type JSONService struct {
	endpoint string
	client   *http.Client
}

func NewJSONService(endpoint string, timeout time.Duration) *JSONService {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &JSONService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *JSONService) Name() string {
	return "json"
}

type translateResponse struct {
	TranslatedCode *string `json:"translated_code"`
	Error          string  `json:"error"`
}

func (s *JSONService) Translate(ctx context.Context, req TranslateRequest) (ChunkStream, error) {
	resp, err := post(ctx, s.client, s.endpoint, req, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("translation service error: %s", out.Error)
	}
	if out.TranslatedCode == nil {
		return nil, fmt.Errorf("response has no translated_code field")
	}

	return newSliceStream([]byte(postprocess.Clean(*out.TranslatedCode))), nil
}

func (s *JSONService) IsAvailable(ctx context.Context) error {
	return probe(ctx, s.client, s.endpoint)
}
