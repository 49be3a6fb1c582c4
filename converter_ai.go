package fileconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	inlineInstruction = "Extract the full content."
	contentLabel      = "Content:\n"
)

// AIStrategy reconstructs the target through the reasoning service. It is the
// fallback for every pair the local strategies do not take.
type AIStrategy struct {
	conv *Converter
}

func newAIStrategy(c *Converter) *AIStrategy {
	return &AIStrategy{conv: c}
}

// Accepts takes any target the registry knows how to name.
func (s *AIStrategy) Accepts(source, target Format) bool {
	return s.conv.registry.Known(target)
}

func (s *AIStrategy) Convert(ctx context.Context, req Request) ([]byte, error) {
	log := loggerFrom(ctx)

	reasoner, err := s.conv.reasoner(ctx)
	if err != nil {
		return nil, err
	}

	parts, err := s.payload(req)
	if err != nil {
		return nil, err
	}

	ct := contractFor(req.TargetType)
	log.Debug("calling reasoning service",
		zap.String("contract", ct.kind.String()),
		zap.Bool("inline", parts[0].IsBinary()),
	)

	reply, err := reasoner.Generate(ctx, AIRequest{
		System: ct.instruction,
		Parts:  parts,
		JSON:   ct.kind != contractText,
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	reply = stripCodeFence(reply)

	return s.materialize(ctx, ct, reply, req.TargetType)
}

// inline reports whether the service reads source directly as binary.
func (s *AIStrategy) inline(source Format) bool {
	if s.conv.registry.IsFamily(source, FamilyImage) {
		return true
	}
	return source == FormatPDF && !s.conv.pdfAsText
}

// payload builds the user turn: the raw bytes for formats the service reads
// natively, extracted text for everything else.
func (s *AIStrategy) payload(req Request) ([]AIPart, error) {
	if s.inline(req.SourceType) {
		return []AIPart{
			{MIMEType: string(req.SourceType), Data: req.Data},
			{Text: inlineInstruction},
		}, nil
	}

	text, err := s.conv.extractText(req)
	if err != nil {
		return nil, err
	}
	return []AIPart{{Text: contentLabel + truncateRunes(text, s.conv.maxPromptChars)}}, nil
}

// materialize shapes the reply into the target container. Replies that do
// not fit a structured contract are recovered, never rejected.
func (s *AIStrategy) materialize(ctx context.Context, ct contract, reply string, target Format) ([]byte, error) {
	log := loggerFrom(ctx)
	caps := s.conv.caps

	var (
		out []byte
		err error
	)
	switch ct.kind {
	case contractSlides:
		plan, perr := parseSlidePlan(reply)
		if perr != nil {
			log.Warn("slide reply not usable, writing error slide", zap.Error(perr))
			plan = fallbackSlidePlan(reply)
		}
		out, err = caps.slides().WriteSlides(plan)

	case contractTable:
		t, perr := parseTableReply(reply)
		if perr != nil {
			log.Warn("table reply not usable, splitting lines", zap.Error(perr))
			t = parseLooseTable(reply)
		}
		out, err = caps.spreadsheet().Write(t)

	default:
		out, err = s.writeText(reply, target)
	}
	if err != nil {
		return nil, &EncodeError{Format: target, Err: err}
	}
	return out, nil
}

func (s *AIStrategy) writeText(text string, target Format) ([]byte, error) {
	caps := s.conv.caps
	switch {
	case target == FormatPDF:
		return caps.pdf().WriteText(text)
	case target == FormatDOCX:
		return caps.document().WriteParagraphs(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
	case s.conv.registry.IsFamily(target, FamilyImage):
		var buf bytes.Buffer
		if err := caps.image().Encode(&buf, renderText(text), target); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return []byte(text), nil
}

// reasoner returns the cached client for the current credential, creating it
// on first use. A missing credential fails before any client exists.
func (c *Converter) reasoner(ctx context.Context) (Reasoner, error) {
	key, ok, err := c.credentials.Lookup(CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if !ok || key == "" {
		return nil, &AuthError{Key: CredentialKey}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.reasoners[key]; ok {
		return r, nil
	}
	r, err := c.newReasoner(ctx, ReasonerConfig{Provider: c.provider, Model: c.model, APIKey: key})
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	c.reasoners[key] = r
	return r, nil
}

// asServiceError keeps typed reasoning failures and classifies the rest.
func asServiceError(err error) error {
	var (
		netErr  *NetworkError
		svcErr  *ServiceError
		authErr *AuthError
	)
	if errors.As(err, &netErr) || errors.As(err, &svcErr) || errors.As(err, &authErr) {
		return err
	}
	return classifyServiceError(err)
}
