package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// APIError is a non-2xx answer from an inference endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

var errUnusable = errors.New("unusable response")

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGenerated struct {
	GeneratedText string `json:"generated_text"`
}

// HuggingFace calls a text-generation model on the Hugging Face inference
// API with a chat-formatted prompt.
type HuggingFace struct {
	endpoint    string
	apiKey      string
	temperature float64
	client      *http.Client
	retry       *Retrier
	log         logger.Logger
}

// NewHuggingFace builds the client. A nil httpClient gets one with
// cfg.Timeout as its per-attempt timeout.
func NewHuggingFace(cfg config.RemoteConfig, httpClient *http.Client, log logger.Logger) *HuggingFace {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HuggingFace{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		client:      httpClient,
		retry:       NewRetrier(cfg.Retry, cfg.RequestsPerMinute, log),
		log:         log,
	}
}

func chatPrompt(prompt string) string {
	return "<|system|>\n" + SystemPrompt + "\n\n" + prompt + "\n<|assistant|>\n"
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string, maxTokens int) Outcome {
	body, err := json.Marshal(hfRequest{
		Inputs: chatPrompt(prompt),
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			Temperature:    h.temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return Failed(fmt.Errorf("encode request: %w", err))
	}

	var out string
	err = h.retry.Do(ctx, func(ctx context.Context) error {
		text, err := h.post(ctx, body)
		out = text
		return err
	})
	switch {
	case errors.Is(err, errUnusable):
		return Unusable(err.Error())
	case err != nil:
		return Failed(err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return Unusable("empty generated text")
	}
	return Ok(out)
}

func (h *HuggingFace) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return decodeGenerated(b)
}

// decodeGenerated accepts the list form `[{"generated_text": ...}]` and the
// bare object some deployments return.
func decodeGenerated(b []byte) (string, error) {
	var list []hfGenerated
	if err := json.Unmarshal(b, &list); err == nil {
		if len(list) == 0 {
			return "", fmt.Errorf("%w: empty result list", errUnusable)
		}
		return list[0].GeneratedText, nil
	}
	var one hfGenerated
	if err := json.Unmarshal(b, &one); err != nil {
		return "", fmt.Errorf("%w: %v", errUnusable, err)
	}
	return one.GeneratedText, nil
}
