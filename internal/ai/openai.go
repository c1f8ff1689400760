package ai

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/logger"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint,
// including the Hugging Face router.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	retry       *Retrier
}

// NewOpenAI builds the client. An empty cfg.Endpoint means api.openai.com.
func NewOpenAI(cfg config.RemoteConfig, httpClient *http.Client, log logger.Logger) *OpenAI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}
	oc.HTTPClient = httpClient
	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAI
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: float32(cfg.Temperature),
		retry:       NewRetrier(cfg.Retry, cfg.RequestsPerMinute, log),
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, maxTokens int) Outcome {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: o.temperature,
	}
	var resp openai.ChatCompletionResponse
	err := o.retry.Do(ctx, func(ctx context.Context) error {
		r, err := o.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return Failed(err)
	}
	if len(resp.Choices) == 0 {
		return Unusable("no choices in completion")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return Unusable("empty completion")
	}
	return Ok(out)
}
