package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/logger"
)

// SystemPrompt frames every remote request.
const SystemPrompt = "You are a helpful AI assistant specialized in analyzing academic documents."

// Kind tags the result of one remote generation.
type Kind int

const (
	// KindOK carries usable text.
	KindOK Kind = iota
	// KindUnusable means the service answered but the answer cannot be used.
	KindUnusable
	// KindTransportFailed means no answer was obtained.
	KindTransportFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindUnusable:
		return "unusable"
	case KindTransportFailed:
		return "transport_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is what a Generator hands back. Callers switch on Kind instead of
// inspecting text for error strings.
type Outcome struct {
	Kind   Kind
	Text   string
	Reason string
	Err    error
}

func Ok(text string) Outcome { return Outcome{Kind: KindOK, Text: text} }

func Unusable(reason string) Outcome { return Outcome{Kind: KindUnusable, Reason: reason} }

func Failed(err error) Outcome {
	if err == nil {
		err = errors.New("remote generation failed")
	}
	return Outcome{Kind: KindTransportFailed, Reason: err.Error(), Err: err}
}

// Usable reports whether Text can be shown to the user.
func (o Outcome) Usable() bool { return o.Kind == KindOK }

// Generator produces text for a prompt within a token budget.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) Outcome
}

// ErrDisabled is the failure reported by Noop.
var ErrDisabled = errors.New("remote generation disabled")

// Noop never reaches a service; every task falls back to local analysis.
type Noop struct{}

func (Noop) Generate(ctx context.Context, prompt string, maxTokens int) Outcome {
	return Failed(ErrDisabled)
}

// New builds the generator for cfg.Provider. cfg should already be resolved.
func New(ctx context.Context, cfg config.RemoteConfig, log logger.Logger) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOff:
		return Noop{}, nil
	case config.ProviderHuggingFace:
		return NewHuggingFace(cfg, nil, log), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg, nil, log), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
