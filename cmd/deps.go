package main

import (
	"time"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/config"
	"github.com/iqfinance/intel-dashboard/pkg/branddev"
)

// newService wires the analysis service to the configured upstream.
func newService(c *config.Config) (*analyze.Service, error) {
	up, err := analyze.NewUpstream(c.Upstream)
	if err != nil {
		return nil, err
	}
	return analyze.NewService(c, up), nil
}

// newBrands returns nil when no Brand.dev key is configured, which turns
// header enrichment off.
func newBrands(c config.BrandConfig) branddev.Client {
	if c.APIKey == "" {
		return nil
	}
	var opts []branddev.Option
	if c.BaseURL != "" {
		opts = append(opts, branddev.WithBaseURL(c.BaseURL))
	}
	if c.TimeoutSecs > 0 {
		opts = append(opts, branddev.WithTimeout(time.Duration(c.TimeoutSecs)*time.Second))
	}
	return branddev.NewClient(c.APIKey, opts...)
}
