package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/catalog-chat/server/internal/catalog"
)

func baseConfig() InstructionConfig {
	return InstructionConfig{
		CompanyName:   "Acme",
		KnowledgeText: "We are open 9-5.",
		Timestamp:     "Monday, 19 October 2026, 03:04 PM",
	}
}

func TestRenderContainsCompanyAndKnowledgeVerbatim(t *testing.T) {
	cfg := baseConfig()
	cfg.KnowledgeText = "Line one {{.NotATemplate}}\nLine two with 100% <html> & \"quotes\""

	got, err := RenderSystemInstruction(context.Background(), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"'Acme'", cfg.KnowledgeText, cfg.Timestamp} {
		if !strings.Contains(got, want) {
			t.Errorf("instruction missing %q:\n%s", want, got)
		}
	}
}

func TestRenderSectionOrder(t *testing.T) {
	cfg := baseConfig()
	cfg.ImageDirectives = catalog.ImageDirectives(catalog.Catalog{"shirt.png": "camiseta,ropa"})
	cfg.DocumentDirectives = catalog.DocumentDirectives(catalog.Catalog{"guia.pdf": "guia"})

	got, err := RenderSystemInstruction(context.Background(), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	order := []string{
		"company called 'Acme'",
		"--- REAL-TIME INFORMATION ---",
		"AVAILABLE IMAGES:",
		"AVAILABLE DOCUMENTS:",
		"--- MANDATORY FORMATTING RULES ---",
		"[SHOW_WHATSAPP:",
		KnowledgeStartMarker,
		"We are open 9-5.",
		KnowledgeEndMarker,
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(got, marker)
		if idx < 0 {
			t.Fatalf("missing %q in:\n%s", marker, got)
		}
		if idx < last {
			t.Fatalf("%q appears out of order", marker)
		}
		last = idx
	}
}

func TestRenderEmptyBlocksLeaveNoArtifacts(t *testing.T) {
	got, err := RenderSystemInstruction(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, unwanted := range []string{"AVAILABLE IMAGES", "AVAILABLE DOCUMENTS", "{{", "}}", "<no value>", "\n\n\n"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("instruction contains %q:\n%s", unwanted, got)
		}
	}
}

func TestRenderRejectsMissingCompany(t *testing.T) {
	cfg := baseConfig()
	cfg.CompanyName = "  "
	if _, err := RenderSystemInstruction(context.Background(), cfg); err == nil {
		t.Fatal("expected error for empty company name")
	}
}

func TestTemplateReferencesEveryField(t *testing.T) {
	for key := range baseConfig().vars() {
		if !strings.Contains(systemInstructionTemplate, "."+key) {
			t.Errorf("template never uses %s", key)
		}
	}
}
