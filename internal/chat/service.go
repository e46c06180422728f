package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/catalog-chat/server/internal/catalog"
	errx "github.com/catalog-chat/server/internal/core/error"
	"github.com/catalog-chat/server/internal/metrics"
	"github.com/catalog-chat/server/internal/prompts"
	"github.com/catalog-chat/server/internal/store"
	logx "github.com/catalog-chat/server/pkg/logger"
)

const (
	DefaultCompanyName   = "the company"
	DefaultKnowledgeText = "No information has been provided."
)

// Generator sends an instruction plus history upstream and returns the raw
// reply content.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, instruction string, history []*genai.Content) (json.RawMessage, error)
}

// Clock supplies the formatted current time for the real-time section.
type Clock interface {
	Now() string
}

// Service answers chat requests: it assembles a fresh system instruction
// from the store and forwards it with the caller's history.
type Service struct {
	store store.Store
	clock Clock
	gen   Generator
}

func NewService(s store.Store, clock Clock, gen Generator) *Service {
	return &Service{store: s, clock: clock, gen: gen}
}

// Configured reports whether upstream credentials are available.
func (s *Service) Configured() bool {
	return s.gen.Configured()
}

// BuildInstruction renders the system instruction from the current store
// contents.
func (s *Service) BuildInstruction(ctx context.Context) (string, error) {
	cfg := prompts.InstructionConfig{
		CompanyName:        s.store.ReadText(ctx, store.KeyCompanyName, DefaultCompanyName),
		KnowledgeText:      s.store.ReadText(ctx, store.KeyKnowledgeBase, DefaultKnowledgeText),
		Timestamp:          s.clock.Now(),
		ImageDirectives:    catalog.ImageDirectives(s.store.ReadCatalog(ctx, store.KeyImageCatalog)),
		DocumentDirectives: catalog.DocumentDirectives(s.store.ReadCatalog(ctx, store.KeyDocumentCatalog)),
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = DefaultCompanyName
	}
	if cfg.KnowledgeText == "" {
		cfg.KnowledgeText = DefaultKnowledgeText
	}

	instruction, err := prompts.RenderSystemInstruction(ctx, cfg)
	if err != nil {
		return "", err
	}
	metrics.InstructionChars.Observe(float64(len(instruction)))
	return instruction, nil
}

// Reply returns the upstream candidate content for history. Errors are
// *errx.AppError values ready to be mapped onto HTTP statuses.
func (s *Service) Reply(ctx context.Context, history []*genai.Content) (json.RawMessage, error) {
	if !s.gen.Configured() {
		return nil, errx.Unconfigured()
	}

	instruction, err := s.BuildInstruction(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("failed to assemble system instruction")
		return nil, errx.Internal(fmt.Errorf("assemble instruction: %w", err))
	}

	content, err := s.gen.Generate(ctx, instruction, history)
	if err != nil {
		return nil, errx.From(err)
	}
	return content, nil
}
