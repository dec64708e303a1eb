// Package analyze turns a company domain into an intelligence report by
// making a single call to the configured AI upstream.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iqfinance/intel-dashboard/internal/config"
	"github.com/iqfinance/intel-dashboard/internal/cost"
	"github.com/iqfinance/intel-dashboard/internal/intel"
)

const noAnalysis = "No analysis generated"

// Result is a successful analysis in the configured envelope. Exactly one
// of Text and Structured is set.
type Result struct {
	Envelope   Envelope
	Domain     string
	Model      string
	Text       *intel.TextAnalysisResult
	Structured json.RawMessage
}

// Body returns the JSON response body for the result.
func (r *Result) Body() ([]byte, error) {
	if r.Envelope == EnvelopeStructured {
		return r.Structured, nil
	}
	b, err := json.Marshal(r.Text)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: marshal result")
	}
	return b, nil
}

// Service runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	upstream      Upstream
	envelope      Envelope
	timeout       time.Duration
	credentialSet bool
	costs         *cost.Calculator
	now           func() time.Time
}

// NewService creates a Service for cfg using up as the provider.
func NewService(cfg *config.Config, up Upstream) *Service {
	return &Service{
		upstream:      up,
		envelope:      Envelope(cfg.Analysis.Envelope),
		timeout:       cfg.Upstream.Timeout(),
		credentialSet: cfg.Upstream.APIKey != "",
		costs:         cost.NewCalculator(cfg.Upstream.Pricing),
		now:           time.Now,
	}
}

// Envelope returns the response shape this service produces.
func (s *Service) Envelope() Envelope { return s.envelope }

// Analyze validates req, calls the upstream once and shapes the answer.
// Errors are *ValidationError, *ConfigurationError, *UpstreamError or an
// internal failure; see StatusFor.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.credentialSet {
		return nil, &ConfigurationError{Message: s.upstream.Name() + " API key not configured"}
	}

	domain := Normalize(req.Domain)
	prompt := BuildPrompt(s.envelope, domain)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	gen, err := s.upstream.Generate(callCtx, prompt)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			zap.L().Warn("analyze: upstream error",
				zap.String("domain", domain),
				zap.Int("status", ue.StatusCode),
				zap.String("body", truncate(ue.Body, 500)),
			)
			return nil, err
		}
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, eris.Wrapf(err, "analyze: upstream timed out after %s", s.timeout)
		}
		return nil, err
	}

	zap.L().Info("analyze: completed",
		zap.String("domain", domain),
		zap.String("model", s.upstream.Model()),
		zap.Duration("duration", time.Since(start)),
		zap.Int64("input_tokens", gen.InputTokens),
		zap.Int64("output_tokens", gen.OutputTokens),
		zap.Float64("estimated_cost_usd", s.costs.Estimate(s.upstream.Model(), gen.InputTokens, gen.OutputTokens)),
	)

	res := &Result{Envelope: s.envelope, Domain: domain, Model: s.upstream.Model()}
	if s.envelope == EnvelopeStructured {
		raw, err := structuredPayload(gen)
		if err != nil {
			return nil, err
		}
		intel.LogShape(domain, raw)
		res.Structured = raw
		return res, nil
	}

	res.Text = &intel.TextAnalysisResult{
		Success:   true,
		Domain:    domain,
		Analysis:  analysisText(gen),
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Model:     s.upstream.Model(),
	}
	return res, nil
}

// analysisText extracts the report text. Agent data that is a JSON string
// is unquoted; any other JSON is kept as its source text.
func analysisText(gen *Generation) string {
	text := gen.Text
	if len(gen.Data) > 0 {
		var s string
		if err := json.Unmarshal(gen.Data, &s); err == nil {
			text = s
		} else if string(gen.Data) != "null" {
			text = string(gen.Data)
		}
	}
	if strings.TrimSpace(text) == "" {
		return noAnalysis
	}
	return text
}

// structuredPayload returns the upstream JSON object unmodified. Chat text
// may arrive wrapped in a markdown code fence, which is removed.
func structuredPayload(gen *Generation) (json.RawMessage, error) {
	var raw []byte
	if len(gen.Data) > 0 && string(gen.Data) != "null" {
		raw = gen.Data
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			raw = []byte(stripFence(s))
		}
	} else {
		raw = []byte(stripFence(gen.Text))
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, eris.Errorf("analyze: upstream did not return a JSON object: %s", truncate(string(trimmed), 200))
	}
	return trimmed, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json") on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
