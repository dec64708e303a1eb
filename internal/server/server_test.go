package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/config"
	"github.com/iqfinance/intel-dashboard/internal/export"
	"github.com/iqfinance/intel-dashboard/internal/intel"
	"github.com/iqfinance/intel-dashboard/internal/render"
	"github.com/iqfinance/intel-dashboard/pkg/branddev"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func testConfig(envelope string) *config.Config {
	cfg := &config.Config{}
	cfg.Analysis.Envelope = envelope
	cfg.Analysis.CacheMaxAgeSecs = 3600
	cfg.Server.AllowedOrigins = []string{"*"}
	return cfg
}

func newHandler(t *testing.T, cfg *config.Config, a Analyzer, brands branddev.Client, pdf export.PDFRenderer) http.Handler {
	t.Helper()
	h, err := render.NewHTML()
	require.NoError(t, err)
	s := New(cfg, Deps{Analyzer: a, Brands: brands, HTML: h, PDF: pdf})
	s.now = func() time.Time { return fixedNow }
	return s.Handler()
}

func do(h http.Handler, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func textResult() *analyze.Result {
	return &analyze.Result{
		Envelope: analyze.EnvelopeText,
		Domain:   "stripe.com",
		Model:    "anthropic/claude-3.5-sonnet",
		Text: &intel.TextAnalysisResult{
			Success:   true,
			Domain:    "stripe.com",
			Analysis:  "1. COMPANY OVERVIEW\nPayments.\n\n2. RISKS\nRegulation.",
			Timestamp: "2025-03-14T09:26:53.589Z",
			Model:     "anthropic/claude-3.5-sonnet",
		},
	}
}

const companyOnly = `{"company":{"name":"Stripe","domain":"stripe.com","industry":"Financial Technology"}}`

func structuredResult(raw string) *analyze.Result {
	return &analyze.Result{
		Envelope:   analyze.EnvelopeStructured,
		Domain:     "stripe.com",
		Model:      "anthropic/claude-3.5-sonnet",
		Structured: json.RawMessage(raw),
	}
}

func TestHealth(t *testing.T) {
	rr := do(newHandler(t, testConfig("text"), new(mockAnalyzer), nil, nil), http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decodeBody(t, rr)["status"])
}

func TestUsage_NeverAnalyzes(t *testing.T) {
	a := new(mockAnalyzer)
	rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodGet, "/analyze", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, `Use POST method with { "domain": "example.com" }`, decodeBody(t, rr)["message"])
	a.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyze_Text(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, analyze.Request{Domain: "stripe.com"}).Return(textResult(), nil).Once()

	rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodPost, "/analyze", "application/json", []byte(`{"domain":"stripe.com"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "stripe.com", body["domain"])
	assert.Equal(t, "2025-03-14T09:26:53.589Z", body["timestamp"])
	a.AssertExpectations(t)
}

func TestAnalyze_StructuredCachingHints(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(structuredResult(companyOnly), nil).Once()

	rr := do(newHandler(t, testConfig("structured"), a, nil, nil), http.MethodPost, "/analyze", "application/json", []byte(`{"domain":"stripe.com"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, s-maxage=3600, stale-while-revalidate=3600", rr.Header().Get("Cache-Control"))
	assert.JSONEq(t, companyOnly, rr.Body.String())
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		message   string
		details   string
		retryable bool
	}{
		{"validation", &analyze.ValidationError{Message: "Company domain is required"}, http.StatusBadRequest, "Company domain is required", "", false},
		{"configuration", &analyze.ConfigurationError{Message: "OpenRouter API key not configured"}, http.StatusInternalServerError, "OpenRouter API key not configured", "", false},
		{"upstream", &analyze.UpstreamError{StatusCode: 429, Body: `{"error":"rate limited"}`}, http.StatusTooManyRequests, "Failed to analyze company", `{"error":"rate limited"}`, true},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "Internal server error", "boom", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := new(mockAnalyzer)
			a.On("Analyze", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodPost, "/analyze", "application/json", []byte(`{"domain":"x.com"}`))

			assert.Equal(t, tt.status, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, tt.message, body["error"])
			if tt.details == "" {
				assert.NotContains(t, body, "details")
			} else {
				assert.Equal(t, tt.details, body["details"])
			}
			assert.Equal(t, tt.retryable, body["retryable"])
		})
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	a := new(mockAnalyzer)
	rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodPost, "/analyze", "application/json", []byte(`{"domain":`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, rr)["error"])
	a.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyze_EmptyBodyReachesValidation(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, analyze.Request{}).
		Return(nil, &analyze.ValidationError{Message: "Company domain is required"}).Once()

	rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodPost, "/analyze", "application/json", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	a.AssertExpectations(t)
}

func TestRequestID_Propagated(t *testing.T) {
	h := newHandler(t, testConfig("text"), new(mockAnalyzer), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get(requestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	h := newHandler(t, testConfig("text"), new(mockAnalyzer), nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func parseHTML(t *testing.T, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	return doc
}

func TestIndex(t *testing.T) {
	rr := do(newHandler(t, testConfig("text"), new(mockAnalyzer), nil, nil), http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, 1, parseHTML(t, rr).Find("form#analyze-form").Length())
}

func TestReport_TextFromForm(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, analyze.Request{Domain: "stripe.com"}).Return(textResult(), nil).Once()

	form := url.Values{"domain": {"stripe.com"}}.Encode()
	rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodPost, "/report", "application/x-www-form-urlencoded", []byte(form))

	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr)
	assert.Equal(t, 2, doc.Find("#dashboard-content .section").Length())
	assert.Equal(t, 1, doc.Find(`[data-export="/export/pdf"]`).Length())
}

func TestReport_ErrorRendersFormInline(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, &analyze.ValidationError{Message: "Company domain is required"}).Once()

	rr := do(newHandler(t, testConfig("text"), a, nil, nil), http.MethodPost, "/report", "application/json", []byte(`{"domain":"  "}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	doc := parseHTML(t, rr)
	assert.Equal(t, "Company domain is required", doc.Find("#error").Text())
	assert.Equal(t, 1, doc.Find("form#analyze-form").Length())
}

func TestReport_StructuredMergesBrand(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(structuredResult(companyOnly), nil).Once()
	brands := new(mockBrands)
	brands.On("Retrieve", mock.Anything, "stripe.com").Return(&branddev.Brand{
		Domain:      "stripe.com",
		Description: "Financial infrastructure",
		Colors:      []branddev.Color{{Hex: "#635BFF"}},
		Logos:       []branddev.Logo{{URL: "https://cdn.example.com/stripe.svg"}},
	}, nil).Once()

	rr := do(newHandler(t, testConfig("structured"), a, brands, nil), http.MethodPost, "/report", "application/json", []byte(`{"domain":"https://www.stripe.com/"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr)
	src, _ := doc.Find("img.logo").Attr("src")
	assert.Equal(t, "https://cdn.example.com/stripe.svg", src)
	assert.Contains(t, doc.Find("script").Text(), "brandAssets")
	brands.AssertExpectations(t)
}

func TestReport_StructuredKeepsReportBrand(t *testing.T) {
	raw := `{"company":{"name":"Stripe","domain":"stripe.com","industry":"Fintech","brandAssets":{"logoUrl":"https://own.example.com/logo.png"}}}`
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(structuredResult(raw), nil).Once()
	brands := new(mockBrands)
	brands.On("Retrieve", mock.Anything, mock.Anything).Return(&branddev.Brand{
		Logos: []branddev.Logo{{URL: "https://cdn.example.com/other.svg"}},
	}, nil).Maybe()

	rr := do(newHandler(t, testConfig("structured"), a, brands, nil), http.MethodPost, "/report", "application/json", []byte(`{"domain":"stripe.com"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	src, _ := parseHTML(t, rr).Find("img.logo").Attr("src")
	assert.Equal(t, "https://own.example.com/logo.png", src)
}

func TestReport_BrandFailureIgnored(t *testing.T) {
	a := new(mockAnalyzer)
	a.On("Analyze", mock.Anything, mock.Anything).Return(structuredResult(companyOnly), nil).Once()
	brands := new(mockBrands)
	brands.On("Retrieve", mock.Anything, mock.Anything).Return(nil, &branddev.APIError{StatusCode: 500, Body: "down"}).Once()

	rr := do(newHandler(t, testConfig("structured"), a, brands, nil), http.MethodPost, "/report", "application/json", []byte(`{"domain":"stripe.com"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr)
	assert.Equal(t, 0, doc.Find("img.logo").Length())
	assert.Equal(t, 1, doc.Find(".logo-placeholder").Length())
}

func TestMergeBrand(t *testing.T) {
	in := &intel.Intelligence{Company: &intel.CompanyOverview{Name: "Stripe"}}
	mergeBrand(in, &branddev.Brand{
		Description: "Payments",
		Colors:      []branddev.Color{{Hex: "#635BFF"}, {Hex: "#0A2540"}},
	})

	ba := in.Company.BrandAssets
	require.NotNil(t, ba)
	assert.Equal(t, "#635BFF", ba.PrimaryColor)
	assert.Equal(t, []string{"#0A2540"}, ba.SecondaryColors)
	assert.Equal(t, brandSource, ba.DataSource)
	require.NotNil(t, ba.Confidence)
	assert.InDelta(t, 0.5, *ba.Confidence, 0.001)

	empty := &intel.Intelligence{Company: &intel.CompanyOverview{Name: "Acme"}}
	mergeBrand(empty, &branddev.Brand{Title: "Acme"})
	assert.Nil(t, empty.Company.BrandAssets)

	mergeBrand(&intel.Intelligence{}, &branddev.Brand{Description: "x"})
}

func TestExportPDF(t *testing.T) {
	pdf := new(mockPDF)
	pdf.On("RenderPDF", mock.Anything, mock.MatchedBy(func(html []byte) bool {
		return bytes.Contains(html, []byte(`id="dashboard-content"`)) && !bytes.Contains(html, []byte("<script"))
	})).Return([]byte("%PDF-1.4 test"), nil).Once()

	payload, err := json.Marshal(textResult().Text)
	require.NoError(t, err)
	rr := do(newHandler(t, testConfig("text"), new(mockAnalyzer), nil, pdf), http.MethodPost, "/export/pdf", "application/json", payload)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="iq-finance-dashboard.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 test", rr.Body.String())
	pdf.AssertExpectations(t)
}

func TestExportPDF_Errors(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		rr := do(newHandler(t, testConfig("text"), new(mockAnalyzer), nil, new(mockPDF)), http.MethodPost, "/export/pdf", "application/json", []byte(`{"success":true}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid report payload", decodeBody(t, rr)["error"])
	})

	t.Run("renderer failure", func(t *testing.T) {
		pdf := new(mockPDF)
		pdf.On("RenderPDF", mock.Anything, mock.Anything).Return(nil, errors.New("chrome crashed")).Once()
		rr := do(newHandler(t, testConfig("structured"), new(mockAnalyzer), nil, pdf), http.MethodPost, "/export/pdf", "application/json", []byte(companyOnly))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal server error", decodeBody(t, rr)["error"])
	})

	t.Run("not configured", func(t *testing.T) {
		rr := do(newHandler(t, testConfig("text"), new(mockAnalyzer), nil, nil), http.MethodPost, "/export/pdf", "application/json", []byte(`{}`))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "PDF export not configured", decodeBody(t, rr)["error"])
	})
}

func TestExportXLSX(t *testing.T) {
	rr := do(newHandler(t, testConfig("structured"), new(mockAnalyzer), nil, nil), http.MethodPost, "/export/xlsx", "application/json", []byte(companyOnly))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "PK"), "xlsx is a zip container")
}

func TestExportXLSX_TextEnvelope(t *testing.T) {
	payload, err := json.Marshal(textResult().Text)
	require.NoError(t, err)

	rr := do(newHandler(t, testConfig("text"), new(mockAnalyzer), nil, nil), http.MethodPost, "/export/xlsx", "application/json", payload)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
