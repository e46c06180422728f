package prompts

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/system_instruction.txt
var systemInstructionTemplate string

// Markers delimiting the knowledge base inside the rendered instruction.
const (
	KnowledgeStartMarker = "--- COMPANY INFORMATION (KNOWLEDGE BASE) ---"
	KnowledgeEndMarker   = "--- END OF INFORMATION ---"
)

// InstructionConfig carries every value substituted into the system
// instruction. Directive blocks may be empty; they then leave no trace in
// the output.
type InstructionConfig struct {
	CompanyName        string
	KnowledgeText      string
	Timestamp          string
	ImageDirectives    string
	DocumentDirectives string
}

func (c InstructionConfig) validate() error {
	var errs []error
	if strings.TrimSpace(c.CompanyName) == "" {
		errs = append(errs, errors.New("company name is empty"))
	}
	if strings.TrimSpace(c.Timestamp) == "" {
		errs = append(errs, errors.New("timestamp is empty"))
	}
	return errors.Join(errs...)
}

func (c InstructionConfig) vars() map[string]any {
	return map[string]any{
		"CompanyName":        c.CompanyName,
		"KnowledgeText":      c.KnowledgeText,
		"Timestamp":          c.Timestamp,
		"ImageDirectives":    c.ImageDirectives,
		"DocumentDirectives": c.DocumentDirectives,
	}
}

// RenderSystemInstruction renders the system instruction via the eino prompt
// component, which also fires any registered prompt callbacks. The Go
// template runs with missingkey=error, so a template/config mismatch fails
// the render instead of producing an empty value.
func RenderSystemInstruction(ctx context.Context, cfg InstructionConfig) (string, error) {
	if err := cfg.validate(); err != nil {
		return "", fmt.Errorf("system instruction config: %w", err)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemInstructionTemplate),
	)
	msgs, err := tpl.Format(ctx, cfg.vars())
	if err != nil {
		return "", fmt.Errorf("system instruction render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system instruction render: empty result")
	}
	return strings.TrimSpace(msgs[0].Content), nil
}
