// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package fileconv converts files between document, data and image formats.
//
// A Converter routes each (source, target) pair to one strategy: local image
// re-encoding, deterministic CSV/JSON/spreadsheet transcoding, or reconstruction
// through a remote reasoning service whose reply is shaped into the target
// container.
package fileconv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PriorityLocal is for deterministic, fully local strategies.
	PriorityLocal = 0.0
	// PriorityFallback is for the reasoning-service strategy, tried last.
	PriorityFallback = 10.0

	// DefaultMaxInputSize is the largest input accepted by default (100 MiB).
	DefaultMaxInputSize = 100 << 20
	// DefaultMaxPromptChars bounds extracted text sent to the reasoning service.
	DefaultMaxPromptChars = 30000

	maxNameLength = 255
)

type registeredStrategy struct {
	strategy Strategy
	priority float64
	name     string
}

// Converter is the conversion engine. It holds no per-request state and is
// safe for concurrent use.
type Converter struct {
	strategies []registeredStrategy
	registry   *Registry
	logger     *zap.Logger
	caps       capabilities

	credentials    CredentialStore
	newReasoner    ReasonerFactory
	provider       string
	model          string
	maxInputSize   int64
	maxPromptChars int
	pdfAsText      bool

	mu        sync.Mutex
	reasoners map[string]Reasoner
}

// New creates a Converter with the built-in strategies.
func New(opts ...Option) *Converter {
	c := &Converter{
		registry:       DefaultRegistry(),
		logger:         zap.NewNop(),
		caps:           defaultCapabilities(),
		credentials:    DefaultCredentials(),
		newReasoner:    NewLangChainReasoner,
		provider:       DefaultProvider,
		model:          DefaultModel,
		maxInputSize:   DefaultMaxInputSize,
		maxPromptChars: DefaultMaxPromptChars,
		reasoners:      make(map[string]Reasoner),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.enableBuiltins()
	return c
}

// Registry returns the format registry used for routing and naming.
func (c *Converter) Registry() *Registry {
	return c.registry
}

// RegisterStrategy adds a strategy with the given priority.
// Lower priority values are tried first.
func (c *Converter) RegisterStrategy(name string, s Strategy, priority float64) {
	c.strategies = append(c.strategies, registeredStrategy{
		strategy: s,
		priority: priority,
		name:     name,
	})
	sort.SliceStable(c.strategies, func(i, j int) bool {
		return c.strategies[i].priority < c.strategies[j].priority
	})
}

// ConvertFile reads a local file and converts it to target.
func (c *Converter) ConvertFile(ctx context.Context, path string, target Format) (*Result, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if c.maxInputSize > 0 && fi.Size() > c.maxInputSize {
		return nil, &ResourceLimitError{Size: fi.Size(), Limit: c.maxInputSize}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return c.Convert(ctx, Request{
		Data:       data,
		Name:       filepath.Base(path),
		TargetType: target,
	})
}

// Convert performs one conversion.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	log := c.logger.With(zap.String("conversion_id", uuid.NewString()))

	if c.maxInputSize > 0 && int64(len(req.Data)) > c.maxInputSize {
		return nil, &ResourceLimitError{Size: int64(len(req.Data)), Limit: c.maxInputSize}
	}

	req.SourceType = c.resolveSource(req)
	req.TargetType = c.registry.Canonical(string(req.TargetType))
	if err := validateRequest(req); err != nil {
		return nil, &InvalidRequestError{Err: err}
	}

	rs, ok := c.route(req.SourceType, req.TargetType)
	if !ok {
		return nil, &UnsupportedPathError{Source: req.SourceType, Target: req.TargetType}
	}

	log = log.With(
		zap.String("strategy", rs.name),
		zap.String("source", string(req.SourceType)),
		zap.String("target", string(req.TargetType)),
	)
	log.Debug("dispatching conversion", zap.Int("bytes", len(req.Data)))

	data, err := rs.strategy.Convert(withLogger(ctx, log), req)
	if err != nil {
		log.Debug("conversion failed", zap.Error(err))
		return nil, err
	}

	log.Debug("conversion complete", zap.Int("output_bytes", len(data)))
	return &Result{
		Data:     data,
		MIMEType: req.TargetType,
		Filename: c.resultName(req.Name, req.TargetType),
	}, nil
}

// route returns the first strategy that accepts the pair.
func (c *Converter) route(source, target Format) (registeredStrategy, bool) {
	for _, rs := range c.strategies {
		if rs.strategy.Accepts(source, target) {
			return rs, true
		}
	}
	return registeredStrategy{}, false
}

// enableBuiltins registers the built-in strategies in routing order.
func (c *Converter) enableBuiltins() {
	c.RegisterStrategy("image", newImageStrategy(c), PriorityLocal)
	c.RegisterStrategy("data", newDataStrategy(c), PriorityLocal+1)
	c.RegisterStrategy("ai", newAIStrategy(c), PriorityFallback)
}

// resolveSource picks the source format from the declared type, then the file
// extension, then the content.
func (c *Converter) resolveSource(req Request) Format {
	declared := c.registry.Canonical(string(req.SourceType))
	if c.registry.Known(declared) {
		return declared
	}

	if f, ok := c.registry.ByExtension(filepath.Ext(req.Name)); ok {
		return f
	}

	if len(req.Data) > 0 {
		sniffed := c.registry.Canonical(mimetype.Detect(req.Data).String())
		if c.registry.Known(sniffed) {
			return sniffed
		}
	}

	if declared != "" {
		return declared
	}
	return formatOctetStream
}

// resultName derives the output filename from the source base name.
func (c *Converter) resultName(name string, target Format) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "converted"
	}
	return base + c.registry.Extension(target)
}

func validateRequest(req Request) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.TargetType, validation.Required),
		validation.Field(&req.Name, validation.Length(0, maxNameLength)),
	)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the per-conversion logger stored by Convert.
func loggerFrom(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
