package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/intel"
	"github.com/iqfinance/intel-dashboard/internal/render"
	"github.com/iqfinance/intel-dashboard/pkg/branddev"
)

const brandSource = "brand.dev"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, render.IndexPage{})
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, p render.IndexPage) {
	var buf bytes.Buffer
	if err := s.html.Index(&buf, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

// handleReport runs an analysis and renders it. Failures re-render the
// form with the error shown inline.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err == nil {
		var page *render.ReportPage
		page, err = s.buildReport(r.Context(), req)
		if err == nil {
			var buf bytes.Buffer
			if err := s.html.Report(&buf, *page); err != nil {
				writeError(w, r, err)
				return
			}
			writeHTML(w, http.StatusOK, buf.Bytes())
			return
		}
	}

	msg, details := analyze.Describe(err)
	zap.L().Warn("server: report failed",
		zap.String("domain", req.Domain),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("details", details),
		zap.Error(err),
	)
	s.renderIndex(w, r, analyze.StatusFor(err), render.IndexPage{Domain: req.Domain, Error: msg})
}

func (s *Server) buildReport(ctx context.Context, req analyze.Request) (*render.ReportPage, error) {
	if s.envelope != analyze.EnvelopeStructured {
		res, err := s.analyzer.Analyze(ctx, req)
		if err != nil {
			return nil, err
		}
		payload, err := res.Body()
		if err != nil {
			return nil, err
		}
		return &render.ReportPage{Text: render.BuildTextReport(res.Text), Payload: string(payload)}, nil
	}

	var (
		res   *analyze.Result
		brand *branddev.Brand
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = s.analyzer.Analyze(gctx, req)
		return err
	})
	if s.brands != nil && analyze.Normalize(strings.TrimSpace(req.Domain)) != "" {
		g.Go(func() error {
			brand = s.lookupBrand(gctx, req.Domain)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in, err := intel.Decode(res.Structured)
	if err != nil {
		return nil, err
	}
	mergeBrand(in, brand)

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, eris.Wrap(err, "server: marshal report")
	}

	d := render.BuildDashboard(in, render.Meta{Domain: res.Domain, Model: res.Model, AnalyzedAt: s.now()})
	return &render.ReportPage{Dashboard: d, Payload: string(payload)}, nil
}

// lookupBrand fetches brand assets for the header. Failures are logged and
// never fail the report.
func (s *Server) lookupBrand(ctx context.Context, domain string) *branddev.Brand {
	lookup := branddev.LookupDomain(analyze.Normalize(strings.TrimSpace(domain)))
	b, err := s.brands.Retrieve(ctx, lookup)
	if err != nil {
		if !errors.Is(err, branddev.ErrNotFound) && ctx.Err() == nil {
			zap.L().Warn("server: brand lookup failed", zap.String("domain", lookup), zap.Error(err))
		}
		return nil
	}
	return b
}

// mergeBrand fills company.brandAssets when the report has none of its
// own.
func mergeBrand(in *intel.Intelligence, b *branddev.Brand) {
	if in == nil || b == nil || in.Company == nil || in.Company.BrandAssets != nil {
		return
	}
	a := branddev.Normalize(b)
	if a.LogoURL == "" && a.PrimaryColor == "" && a.BrandDescription == "" {
		return
	}
	confidence := float64(a.Confidence) / 100
	in.Company.BrandAssets = &intel.BrandAssets{
		LogoURL:          a.LogoURL,
		PrimaryColor:     a.PrimaryColor,
		SecondaryColors:  a.SecondaryColors,
		BrandDescription: a.BrandDescription,
		Confidence:       &confidence,
		DataSource:       brandSource,
	}
}
