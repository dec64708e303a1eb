package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/pkg/branddev"
)

type mockAnalyzer struct{ mock.Mock }

func (m *mockAnalyzer) Analyze(ctx context.Context, req analyze.Request) (*analyze.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analyze.Result), args.Error(1)
}

type mockBrands struct{ mock.Mock }

func (m *mockBrands) Retrieve(ctx context.Context, domain string) (*branddev.Brand, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branddev.Brand), args.Error(1)
}

type mockPDF struct{ mock.Mock }

func (m *mockPDF) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
