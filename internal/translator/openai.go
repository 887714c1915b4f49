package translator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIService streams a translation from an OpenAI-compatible chat
// completion API. Each non-empty content delta becomes one chunk.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(apiKey, baseURL, model string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Translate(ctx context.Context, req TranslateRequest) (ChunkStream, error) {
	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("translate to %s: %s", req.TargetLanguage, req.Code)},
		},
		Stream: true,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	return &openAIStream{stream: stream}, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI endpoint not available: %w", mapOpenAIError(err))
	}
	return nil
}

func buildSystemPrompt(req TranslateRequest) string {
	return fmt.Sprintf("You translate source code from %s to %s. "+
		"Respond with the translated code only: no explanations, no markdown fences.",
		req.InputLanguage, req.TargetLanguage)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return err
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Next() ([]byte, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, mapOpenAIError(err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		return []byte(resp.Choices[0].Delta.Content), nil
	}
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}
