package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/catalog-chat/server/internal/catalog"
	errx "github.com/catalog-chat/server/internal/core/error"
	"github.com/catalog-chat/server/internal/store"
)

type fixedClock string

func (c fixedClock) Now() string { return string(c) }

type recordingGenerator struct {
	configured  bool
	instruction string
	history     []*genai.Content
	calls       int
	reply       json.RawMessage
	err         error
}

func (g *recordingGenerator) Configured() bool { return g.configured }

func (g *recordingGenerator) Generate(_ context.Context, instruction string, history []*genai.Content) (json.RawMessage, error) {
	g.calls++
	g.instruction = instruction
	g.history = history
	return g.reply, g.err
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.WriteText(ctx, store.KeyCompanyName, "Acme"))
	must(s.WriteText(ctx, store.KeyKnowledgeBase, "We are open 9-5."))
	must(s.WriteCatalog(ctx, store.KeyImageCatalog, catalog.Catalog{"shirt.png": "camiseta,ropa"}))
	return s
}

func TestReplyForwardsInstructionAndHistory(t *testing.T) {
	gen := &recordingGenerator{configured: true, reply: json.RawMessage(`{"role":"model","parts":[{"text":"hi"}]}`)}
	svc := NewService(seededStore(t), fixedClock("Monday, 19 October 2026, 03:04 PM"), gen)

	history := []*genai.Content{genai.NewContentFromText("hola", genai.RoleUser)}
	got, err := svc.Reply(context.Background(), history)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if string(got) != string(gen.reply) {
		t.Fatalf("reply = %s", got)
	}
	if gen.calls != 1 {
		t.Fatalf("calls = %d", gen.calls)
	}
	for _, want := range []string{"Acme", "We are open 9-5.", "shirt.png", "Monday, 19 October 2026"} {
		if !strings.Contains(gen.instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
	if strings.Contains(gen.instruction, "AVAILABLE DOCUMENTS") {
		t.Error("empty document catalog should not render a block")
	}
	if len(gen.history) != 1 || gen.history[0] != history[0] {
		t.Fatalf("history not forwarded: %#v", gen.history)
	}
}

func TestReplyUsesDefaultsForEmptyStore(t *testing.T) {
	gen := &recordingGenerator{configured: true, reply: json.RawMessage(`{}`)}
	svc := NewService(store.NewMemoryStore(), fixedClock("now"), gen)

	if _, err := svc.Reply(context.Background(), nil); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	for _, want := range []string{DefaultCompanyName, DefaultKnowledgeText} {
		if !strings.Contains(gen.instruction, want) {
			t.Errorf("instruction missing default %q", want)
		}
	}
}

func TestReplyUnconfigured(t *testing.T) {
	gen := &recordingGenerator{configured: false}
	svc := NewService(seededStore(t), fixedClock("now"), gen)

	_, err := svc.Reply(context.Background(), nil)
	if !errors.Is(err, errx.ErrUnconfigured) {
		t.Fatalf("err = %v", err)
	}
	if gen.calls != 0 {
		t.Fatal("generator must not be called when unconfigured")
	}
}

func TestReplyClassifiesGeneratorErrors(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"upstream": {errx.Upstream(errors.New("status 500")), http.StatusBadGateway},
		"plain":    {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gen := &recordingGenerator{configured: true, err: tc.err}
			_, err := NewService(seededStore(t), fixedClock("now"), gen).Reply(context.Background(), nil)
			var appErr *errx.AppError
			if !errors.As(err, &appErr) || appErr.Status != tc.want {
				t.Fatalf("err = %v, want status %d", err, tc.want)
			}
		})
	}
}
