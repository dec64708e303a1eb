package analyze

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iqfinance/intel-dashboard/pkg/agent"
	"github.com/iqfinance/intel-dashboard/pkg/anthropic"
	"github.com/iqfinance/intel-dashboard/pkg/openrouter"
)

// --- Upstream Mock ---

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) Generate(ctx context.Context, prompt string) (*Generation, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Generation), args.Error(1)
}

func (m *mockUpstream) Model() string { return "anthropic/claude-3.5-sonnet" }
func (m *mockUpstream) Name() string  { return "OpenRouter" }

// --- OpenRouter Mock ---

type mockChatClient struct {
	mock.Mock
}

func (m *mockChatClient) ChatCompletion(ctx context.Context, req openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openrouter.ChatCompletionResponse), args.Error(1)
}

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// --- Agent Mock ---

type mockAgentClient struct {
	mock.Mock
}

func (m *mockAgentClient) Delegate(ctx context.Context, task agent.Task) (*agent.Result, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Result), args.Error(1)
}
