package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/iqfinance/intel-dashboard/internal/config"
	"github.com/iqfinance/intel-dashboard/pkg/agent"
	"github.com/iqfinance/intel-dashboard/pkg/anthropic"
	"github.com/iqfinance/intel-dashboard/pkg/openrouter"
)

// defaultAnthropicModel is used when upstream.model is an OpenRouter-style
// "vendor/model" id that the Messages API does not accept.
const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// Generation is one upstream answer. Chat providers fill Text; the agent
// provider fills Data.
type Generation struct {
	Text  string
	Data  json.RawMessage
	Model string

	InputTokens  int64
	OutputTokens int64
}

// Upstream is the AI provider behind an analysis. Generate makes exactly one
// call and never retries.
type Upstream interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
	Model() string
	// Name is the provider's display name, used in configuration errors.
	Name() string
}

// NewUpstream builds the provider selected by cfg.Provider.
func NewUpstream(cfg config.UpstreamConfig) (Upstream, error) {
	switch cfg.Provider {
	case config.ProviderOpenRouter, "":
		client := openrouter.NewClient(cfg.APIKey,
			openrouter.WithBaseURL(cfg.BaseURL),
			openrouter.WithModel(cfg.Model),
			openrouter.WithReferer(cfg.Referer),
			openrouter.WithTitle(cfg.Title),
			openrouter.WithTimeout(cfg.Timeout()),
		)
		return NewChatUpstream(client, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
	case config.ProviderAnthropic:
		model := cfg.Model
		if model == "" || strings.Contains(model, "/") {
			model = defaultAnthropicModel
		}
		client := anthropic.NewClient(cfg.APIKey,
			anthropic.WithBaseURL(cfg.BaseURL),
			anthropic.WithTimeout(cfg.Timeout()),
		)
		return NewAnthropicUpstream(client, model, cfg.Temperature, cfg.MaxTokens), nil
	case config.ProviderAgent:
		client := agent.NewClient(cfg.APIKey, cfg.BaseURL, agent.WithTimeout(cfg.Timeout()))
		return NewAgentUpstream(client, cfg.Agent, cfg.TimeoutSecs), nil
	default:
		return nil, eris.Errorf("analyze: unknown upstream provider %q", cfg.Provider)
	}
}

type chatUpstream struct {
	client      openrouter.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewChatUpstream wraps an OpenRouter chat-completions client.
func NewChatUpstream(client openrouter.Client, model string, temperature float64, maxTokens int) Upstream {
	return &chatUpstream{client: client, model: model, temperature: temperature, maxTokens: maxTokens}
}

func (u *chatUpstream) Name() string  { return "OpenRouter" }
func (u *chatUpstream) Model() string { return u.model }

func (u *chatUpstream) Generate(ctx context.Context, prompt string) (*Generation, error) {
	temp, maxTokens := u.temperature, u.maxTokens
	resp, err := u.client.ChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:       u.model,
		Messages:    []openrouter.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		var apiErr *openrouter.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return nil, eris.Wrap(err, "analyze: chat completion")
	}
	return &Generation{
		Text:         resp.Content(),
		Model:        resp.Model,
		InputTokens:  int64(resp.Usage.PromptTokens),
		OutputTokens: int64(resp.Usage.CompletionTokens),
	}, nil
}

type anthropicUpstream struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewAnthropicUpstream wraps a direct Anthropic Messages client.
func NewAnthropicUpstream(client anthropic.Client, model string, temperature float64, maxTokens int) Upstream {
	return &anthropicUpstream{client: client, model: model, temperature: temperature, maxTokens: maxTokens}
}

func (u *anthropicUpstream) Name() string  { return "Anthropic" }
func (u *anthropicUpstream) Model() string { return u.model }

func (u *anthropicUpstream) Generate(ctx context.Context, prompt string) (*Generation, error) {
	temp := u.temperature
	resp, err := u.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       u.model,
		MaxTokens:   int64(u.maxTokens),
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return nil, eris.Wrap(err, "analyze: create message")
	}
	return &Generation{
		Text:         resp.Text(),
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

type agentUpstream struct {
	client      agent.Client
	agent       string
	timeoutSecs int
}

// NewAgentUpstream wraps an agent-delegation client. The agent name doubles
// as the reported model id.
func NewAgentUpstream(client agent.Client, agentName string, timeoutSecs int) Upstream {
	return &agentUpstream{client: client, agent: agentName, timeoutSecs: timeoutSecs}
}

func (u *agentUpstream) Name() string  { return "Agent" }
func (u *agentUpstream) Model() string { return u.agent }

func (u *agentUpstream) Generate(ctx context.Context, prompt string) (*Generation, error) {
	res, err := u.client.Delegate(ctx, agent.Task{
		Agent:   u.agent,
		Task:    prompt,
		Timeout: u.timeoutSecs,
	})
	if err != nil {
		var apiErr *agent.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return nil, eris.Wrap(err, "analyze: delegate")
	}
	return &Generation{Data: res.Data, Model: u.agent}, nil
}
