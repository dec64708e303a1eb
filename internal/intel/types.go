// Package intel models the company intelligence documents returned by the
// analysis upstream: the plain-text envelope and the structured JSON report.
// Every nested group of the structured report is optional.
package intel

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// TextAnalysisResult is the free-text response envelope.
type TextAnalysisResult struct {
	Success   bool   `json:"success"`
	Domain    string `json:"domain"`
	Analysis  string `json:"analysis"`
	Timestamp string `json:"timestamp"`
	Model     string `json:"model"`
}

// Intelligence is the structured company report.
type Intelligence struct {
	Company              *CompanyOverview      `json:"company,omitempty"`
	KPIs                 []KPI                 `json:"kpis,omitempty"`
	GrowthMetrics        *GrowthMetrics        `json:"growth_metrics,omitempty"`
	FinancialProjections *FinancialProjections `json:"financial_projections,omitempty"`
	CompetitiveLandscape *CompetitiveLandscape `json:"competitive_landscape,omitempty"`
	DataQuality          *DataQuality          `json:"data_quality,omitempty"`

	// Issues lists the groups dropped during Decode.
	Issues []Issue `json:"-"`
}

// Issue records a part of the document that could not be used.
type Issue struct {
	Field  string
	Reason string
}

// CompanyOverview feeds the header widget.
type CompanyOverview struct {
	Name          string       `json:"name"`
	Domain        string       `json:"domain"`
	Industry      string       `json:"industry"`
	Founded       Text         `json:"founded"`
	Headquarters  string       `json:"headquarters"`
	BusinessModel string       `json:"business_model"`
	Description   string       `json:"description"`
	Valuation     *Valuation   `json:"valuation,omitempty"`
	LastUpdated   string       `json:"last_updated,omitempty"`
	BrandAssets   *BrandAssets `json:"brandAssets,omitempty"`
}

// Valuation is a point-in-time company valuation.
type Valuation struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Date     string  `json:"date"`
}

// BrandAssets carries logo and palette for the header.
type BrandAssets struct {
	LogoURL          string   `json:"logoUrl,omitempty"`
	PrimaryColor     string   `json:"primaryColor,omitempty"`
	SecondaryColors  []string `json:"secondaryColors,omitempty"`
	BrandDescription string   `json:"brandDescription,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	DataSource       string   `json:"dataSource,omitempty"`
}

// Trend is the direction of a KPI.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Known reports whether t is one of the defined trends.
func (t Trend) Known() bool {
	switch t {
	case TrendIncreasing, TrendDecreasing, TrendStable:
		return true
	}
	return false
}

// KPI is a single labeled metric. Only Label and Value are guaranteed.
type KPI struct {
	Label      string   `json:"label"`
	Value      Metric   `json:"value"`
	Unit       string   `json:"unit,omitempty"`
	YoYGrowth  *float64 `json:"yoy_growth,omitempty"`
	Trend      Trend    `json:"trend,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Benchmark  string   `json:"benchmark,omitempty"`
	Period     string   `json:"period,omitempty"`
}

// GrowthMetrics backs the revenue trend chart.
type GrowthMetrics struct {
	RevenueTrend []RevenuePoint `json:"revenue_trend,omitempty"`
	CAGR         *float64       `json:"cagr,omitempty"`
	YoYGrowth    *float64       `json:"yoy_growth,omitempty"`
}

// RevenuePoint is one year of historical or projected revenue.
type RevenuePoint struct {
	Year         Text     `json:"year"`
	Revenue      float64  `json:"revenue"`
	IsProjection bool     `json:"isProjection,omitempty"`
	LowEstimate  *float64 `json:"lowEstimate,omitempty"`
	HighEstimate *float64 `json:"highEstimate,omitempty"`
}

// FinancialProjections backs the projections chart.
type FinancialProjections struct {
	Revenue []Projection `json:"revenue,omitempty"`
	Volume  []Projection `json:"volume,omitempty"`
}

// Projection is a low/base/high estimate for one forward year.
type Projection struct {
	Year               Text    `json:"year"`
	Metric             string  `json:"metric,omitempty"`
	LowEstimate        float64 `json:"lowEstimate"`
	BaseEstimate       float64 `json:"baseEstimate"`
	HighEstimate       float64 `json:"highEstimate"`
	ConfidenceInterval string  `json:"confidenceInterval,omitempty"`
}

// CompetitiveLandscape backs the competitive table.
type CompetitiveLandscape struct {
	MarketPosition        string          `json:"market_position"`
	MarketSharePct        *float64        `json:"market_share_pct,omitempty"`
	DirectCompetitors     []Competitor    `json:"direct_competitors,omitempty"`
	CompetitiveAdvantages []string        `json:"competitive_advantages,omitempty"`
	StrategicRisks        []string        `json:"strategic_risks,omitempty"`
	RecentStrategicMoves  []StrategicMove `json:"recent_strategic_moves,omitempty"`
}

// StrategicMove is a dated strategic action with a dollar value.
type StrategicMove struct {
	Action string  `json:"action"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Impact string  `json:"impact"`
}

// DataQuality describes how the report was sourced.
type DataQuality struct {
	ConfidenceScore   float64  `json:"confidence_score"`
	DataSources       []string `json:"data_sources,omitempty"`
	EstimationMethods []string `json:"estimation_methods,omitempty"`
	LastVerified      string   `json:"last_verified,omitempty"`
}

// CompetitorKind discriminates the shapes a competitor entry arrives in.
type CompetitorKind int

const (
	CompetitorUnknown CompetitorKind = iota
	CompetitorName
	CompetitorProfile
)

// Competitor is either a bare name or a {name, position} profile. The
// original shape is preserved; renderers branch on Kind.
type Competitor struct {
	Kind     CompetitorKind
	Name     string
	Position string
	Raw      json.RawMessage
}

// UnmarshalJSON never fails; unrecognised shapes become CompetitorUnknown.
func (c *Competitor) UnmarshalJSON(data []byte) error {
	*c = Competitor{Raw: append(json.RawMessage(nil), data...)}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &c.Name); err == nil {
			c.Kind = CompetitorName
		}
	case '{':
		var p struct {
			Name     string `json:"name"`
			Position string `json:"position"`
		}
		if err := json.Unmarshal(trimmed, &p); err == nil && p.Name != "" {
			c.Kind = CompetitorProfile
			c.Name = p.Name
			c.Position = p.Position
		}
	}
	return nil
}

// MarshalJSON writes the entry back in the shape it arrived in.
func (c Competitor) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CompetitorName:
		return json.Marshal(c.Name)
	case CompetitorProfile:
		return json.Marshal(struct {
			Name     string `json:"name"`
			Position string `json:"position,omitempty"`
		}{c.Name, c.Position})
	}
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	return []byte("null"), nil
}

// Metric is a KPI value, either numeric or free text such as "Series D".
type Metric struct {
	Number *float64
	Text   string
}

// NumberMetric returns a numeric Metric.
func NumberMetric(v float64) Metric { return Metric{Number: &v} }

// IsNumber reports whether the metric holds a number.
func (m Metric) IsNumber() bool { return m.Number != nil }

// IsZero reports whether the metric holds neither number nor text.
func (m Metric) IsZero() bool { return m.Number == nil && m.Text == "" }

func (m *Metric) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = Metric{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*m = Metric{Text: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return err
	}
	*m = NumberMetric(f)
	return nil
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if m.Number != nil {
		return json.Marshal(*m.Number)
	}
	return json.Marshal(m.Text)
}

// Text is a string field the upstream sometimes sends as a number, such
// as a founding year.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return err
	}
	*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func (t Text) String() string { return string(t) }
