package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	errx "github.com/catalog-chat/server/internal/core/error"
	"github.com/catalog-chat/server/internal/keys"
	"github.com/catalog-chat/server/internal/metrics"
	logx "github.com/catalog-chat/server/pkg/logger"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash-latest"

	DefaultTemperature float32 = 0.7

	maxResponseBytes = 8 << 20
	maxLoggedBody    = 4 << 10
)

// Config holds the fixed parameters of every upstream call.
type Config struct {
	BaseURL         string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Model           string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash-latest"`
	Timeout         time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
	Temperature     *float32      `envconfig:"GEMINI_TEMPERATURE" default:"0.7"`
	MaxOutputTokens int32         `envconfig:"GEMINI_MAX_OUTPUT_TOKENS" default:"2048"`
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	// nil means unset; an explicit 0 is kept.
	if c.Temperature == nil {
		c.Temperature = genai.Ptr(DefaultTemperature)
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 2048
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

type generateRequest struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content json.RawMessage `json:"content"`
	} `json:"candidates"`
}

// Gateway posts conversations to the generateContent REST endpoint, one
// rotated API key per call.
type Gateway struct {
	cfg    Config
	client *http.Client
	keys   *keys.Rotator
}

// New builds a Gateway. A nil client gets one with the configured timeout.
func New(cfg Config, rotator *keys.Rotator, client *http.Client) *Gateway {
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Gateway{cfg: cfg, client: client, keys: rotator}
}

// Configured reports whether any API key is available.
func (g *Gateway) Configured() bool {
	return g.keys.Configured()
}

func (g *Gateway) endpoint(key string) string {
	q := url.Values{}
	q.Set("key", key)
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", g.cfg.BaseURL, url.PathEscape(g.cfg.Model), q.Encode())
}

// Generate sends instruction as the leading model turn followed by history
// and returns the first candidate's content exactly as received.
//
// Errors are *errx.AppError: unconfigured (no key, nothing sent), upstream
// (non-2xx reply) or internal (transport or response shape).
func (g *Gateway) Generate(ctx context.Context, instruction string, history []*genai.Content) (json.RawMessage, error) {
	key := g.keys.Next(ctx)
	if key == keys.NoCredential {
		return nil, errx.Unconfigured()
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	contents = append(contents, genai.NewContentFromText(instruction, genai.RoleModel))
	for _, turn := range history {
		if turn != nil {
			contents = append(contents, turn)
		}
	}
	body, err := json.Marshal(generateRequest{
		Contents: contents,
		GenerationConfig: &genai.GenerationConfig{
			Temperature:     g.cfg.Temperature,
			MaxOutputTokens: g.cfg.MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, errx.Internal(fmt.Errorf("marshal generate request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(key), bytes.NewReader(body))
	if err != nil {
		return nil, errx.Internal(fmt.Errorf("build generate request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.UpstreamDuration.WithLabelValues("transport_error").Observe(time.Since(start).Seconds())
		logx.Error().Err(redact(err, key)).Str("model", g.cfg.Model).Msg("generateContent call failed")
		return nil, errx.Internal(fmt.Errorf("call generateContent: %w", redact(err, key)))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.UpstreamDuration.WithLabelValues("transport_error").Observe(time.Since(start).Seconds())
		return nil, errx.Internal(fmt.Errorf("read generateContent response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamDuration.WithLabelValues("upstream_error").Observe(time.Since(start).Seconds())
		logx.Error().
			Int("status", resp.StatusCode).
			Str("model", g.cfg.Model).
			Str("key", maskKey(key)).
			Str("body", truncate(string(raw), maxLoggedBody)).
			Msg("generateContent returned an error status")
		return nil, errx.Upstream(fmt.Errorf("generateContent status %d", resp.StatusCode))
	}
	metrics.UpstreamDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errx.Internal(fmt.Errorf("decode generateContent response: %w", err))
	}
	if len(decoded.Candidates) == 0 {
		return nil, errx.Internal(errors.New("generateContent response has no candidates"))
	}
	content := decoded.Candidates[0].Content
	if len(content) == 0 || string(content) == "null" {
		return nil, errx.Internal(errors.New("generateContent candidate has no content"))
	}

	logx.Debug().Str("model", g.cfg.Model).Str("key", maskKey(key)).Dur("took", time.Since(start)).Msg("generateContent ok")
	return content, nil
}

// redact strips the API key from transport errors, which embed the URL
// with the key query-escaped.
func redact(err error, key string) error {
	if err == nil || key == "" {
		return err
	}
	msg := err.Error()
	masked := maskKey(key)
	out := msg
	for _, form := range []string{url.QueryEscape(key), url.PathEscape(key), key} {
		out = strings.ReplaceAll(out, form, masked)
	}
	if out == msg {
		return err
	}
	return errors.New(out)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
