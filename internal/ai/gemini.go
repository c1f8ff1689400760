package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/logger"
)

// Gemini generates text with Google's Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	retry       *Retrier
}

func NewGemini(ctx context.Context, cfg config.RemoteConfig, log logger.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGemini
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client:      c,
		model:       model,
		temperature: float32(cfg.Temperature),
		retry:       NewRetrier(cfg.Retry, cfg.RequestsPerMinute, log),
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, maxTokens int) Outcome {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   int32(maxTokens),
	}
	var out string
	err := g.retry.Do(ctx, func(ctx context.Context) error {
		res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		}, gc)
		if err != nil {
			return err
		}
		out = res.Text()
		return nil
	})
	if err != nil {
		return Failed(err)
	}
	out = stripCodeFences(out)
	if out == "" {
		return Unusable("empty candidate text")
	}
	return Ok(out)
}

// stripCodeFences removes a surrounding ``` fence, with or without a
// language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
