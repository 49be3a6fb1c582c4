package fileconv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Reasoning service defaults.
const (
	ProviderGoogleAI  = "googleai"
	ProviderAnthropic = "anthropic"

	DefaultProvider = ProviderGoogleAI
	DefaultModel    = "gemini-2.5-flash"
)

// AIPart is one block of a reasoning request: either inline binary content
// with its media type, or text.
type AIPart struct {
	MIMEType string
	Data     []byte
	Text     string
}

// IsBinary reports whether the part carries inline binary content.
func (p AIPart) IsBinary() bool {
	return p.MIMEType != ""
}

// AIRequest is a single generation call: a system instruction plus the
// content parts of one user turn.
type AIRequest struct {
	System string
	Parts  []AIPart
	// JSON asks the service for a JSON reply when it supports a JSON mode.
	JSON bool
}

// Reasoner is a remote text or multimodal model.
type Reasoner interface {
	Generate(ctx context.Context, req AIRequest) (string, error)
}

// ReasonerConfig selects and authenticates a reasoning service.
type ReasonerConfig struct {
	Provider string
	Model    string
	APIKey   string
}

// ReasonerFactory builds a Reasoner for a credential.
type ReasonerFactory func(ctx context.Context, cfg ReasonerConfig) (Reasoner, error)

// NewLangChainReasoner builds a Reasoner on a langchaingo model for the
// configured provider.
func NewLangChainReasoner(ctx context.Context, cfg ReasonerConfig) (Reasoner, error) {
	var (
		model llms.Model
		err   error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGoogleAI, "gemini":
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderAnthropic, "claude":
		model, err = anthropic.New(
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}
	return NewModelReasoner(model), nil
}

// ModelReasoner adapts an llms.Model to Reasoner.
type ModelReasoner struct {
	model llms.Model
}

// NewModelReasoner wraps model.
func NewModelReasoner(model llms.Model) *ModelReasoner {
	return &ModelReasoner{model: model}
}

func (r *ModelReasoner) Generate(ctx context.Context, req AIRequest) (string, error) {
	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}

	parts := make([]llms.ContentPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsBinary() {
			parts = append(parts, llms.BinaryPart(p.MIMEType, p.Data))
		} else {
			parts = append(parts, llms.TextPart(p.Text))
		}
	}
	messages = append(messages, llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: parts})

	var opts []llms.CallOption
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := r.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", classifyServiceError(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", &ServiceError{Err: errors.New("empty response")}
	}
	return resp.Choices[0].Content, nil
}

// classifyServiceError separates transport failures from everything the
// service itself rejected.
func classifyServiceError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &NetworkError{Err: err}
	}
	return &ServiceError{Err: err}
}
