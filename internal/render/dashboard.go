package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iqfinance/intel-dashboard/internal/intel"
)

// DefaultPrimaryColor is used when a company has no brand palette.
const DefaultPrimaryColor = "#3B82F6"

const notAvailable = "N/A"

// Meta describes the analysis a report was produced from.
type Meta struct {
	Domain     string
	Model      string
	AnalyzedAt time.Time
}

// Dashboard is the display model of a structured report. A nil or empty
// group means the widget is not rendered.
type Dashboard struct {
	Domain     string
	Model      string
	AnalyzedAt string

	Header       *Header
	KPIs         []KPICard
	RevenueTrend *RevenueTrend
	Projections  *Projections
	Competitive  *Competitive
	DataQuality  *DataQualityPanel

	// Degraded lists groups that were present but unusable.
	Degraded []intel.Issue
}

// Header is the company header widget.
type Header struct {
	Name          string
	Domain        string
	Industry      string
	Founded       string
	Headquarters  string
	BusinessBadge string
	BusinessModel string
	Description   string
	Valuation     string
	ValuationDate string
	LastUpdated   string
	LogoURL       string
	PrimaryColor  string
	// Tint and Wash are translucent variants of PrimaryColor.
	Tint string
	Wash string
}

// KPICard is one KPI tile.
type KPICard struct {
	Label      string
	Value      string
	Unit       string
	Icon       Icon
	Growth     string
	GrowthSign int
	Trend      intel.Trend
	Confidence string
	Tier       *ConfidenceTier
	Benchmark  string
	Period     string
}

// RevenueTrend is the revenue chart: historical points followed by
// projected ones.
type RevenueTrend struct {
	Points []RevenueBar
	CAGR   string
	YoY    string
}

// RevenueBar is one year of the revenue chart. Height is a 0-100 share
// of the tallest bar.
type RevenueBar struct {
	Year      string
	Revenue   string
	Raw       float64
	Projected bool
	Range     string
	Height    int
}

// Projections is the low/base/high projections chart.
type Projections struct {
	Revenue   []ProjectionRow
	Volume    []ProjectionRow
	HasVolume bool
}

// ProjectionRow is one forward year. The *Pct fields size the bars.
type ProjectionRow struct {
	Year     string
	Metric   string
	Low      string
	Base     string
	High     string
	Interval string
	LowPct   int
	BasePct  int
	HighPct  int

	LowValue, BaseValue, HighValue float64
}

// Competitive is the competitive landscape table. Competitors keep their
// original shape; renderers branch on Kind.
type Competitive struct {
	MarketPosition string
	MarketShare    string
	Competitors    []intel.Competitor
	Advantages     []string
	Risks          []string
	Moves          []Move
}

// Move is a recent strategic move.
type Move struct {
	Action string
	Date   string
	Impact string
	Value  string
}

// DataQualityPanel summarises how the report was sourced.
type DataQualityPanel struct {
	Percent      int
	Tier         ConfidenceTier
	Sources      []string
	Methods      []string
	LastVerified string
}

// BuildDashboard maps a decoded report onto widgets. Absent or empty groups
// produce no widget.
func BuildDashboard(in *intel.Intelligence, meta Meta) *Dashboard {
	d := &Dashboard{
		Domain: meta.Domain,
		Model:  meta.Model,
	}
	if !meta.AnalyzedAt.IsZero() {
		d.AnalyzedAt = FormatTimestamp(meta.AnalyzedAt)
	}
	if in == nil {
		return d
	}
	d.Degraded = in.Issues

	if in.Company != nil {
		d.Header = buildHeader(in.Company, meta.Domain)
		if d.Domain == "" {
			d.Domain = d.Header.Domain
		}
	}
	for _, k := range in.KPIs {
		d.KPIs = append(d.KPIs, buildKPI(k))
	}
	if in.GrowthMetrics != nil && len(in.GrowthMetrics.RevenueTrend) > 0 {
		d.RevenueTrend = buildRevenueTrend(in.GrowthMetrics)
	}
	if in.FinancialProjections != nil && len(in.FinancialProjections.Revenue) > 0 {
		d.Projections = buildProjections(in.FinancialProjections)
	}
	if in.CompetitiveLandscape != nil {
		d.Competitive = buildCompetitive(in.CompetitiveLandscape)
	}
	if in.DataQuality != nil {
		d.DataQuality = buildDataQuality(in.DataQuality)
	}
	return d
}

func buildHeader(c *intel.CompanyOverview, domain string) *Header {
	h := &Header{
		Name:          orDefault(c.Name, orDefault(c.Domain, domain)),
		Domain:        orDefault(c.Domain, domain),
		Industry:      orDefault(c.Industry, notAvailable),
		Founded:       orDefault(c.Founded.String(), notAvailable),
		Headquarters:  orDefault(c.Headquarters, notAvailable),
		BusinessBadge: businessBadge(c.BusinessModel),
		BusinessModel: notAvailable,
		Description:   c.Description,
		PrimaryColor:  DefaultPrimaryColor,
	}
	if h.Name == "" {
		h.Name = "Unknown company"
	}
	if bm, _, _ := strings.Cut(c.BusinessModel, ","); strings.TrimSpace(bm) != "" {
		h.BusinessModel = strings.TrimSpace(bm)
	}
	if c.Valuation != nil {
		h.Valuation = FormatValuation(c.Valuation.Value)
		h.ValuationDate = FormatDate(c.Valuation.Date)
	}
	if c.LastUpdated != "" {
		h.LastUpdated = FormatDate(c.LastUpdated)
	}
	if b := c.BrandAssets; b != nil {
		h.LogoURL = strings.TrimSpace(b.LogoURL)
		if isHexColor(b.PrimaryColor) {
			h.PrimaryColor = b.PrimaryColor
		}
		if h.Description == "" {
			h.Description = b.BrandDescription
		}
	}
	h.Tint = hexToRGBA(h.PrimaryColor, 0.1)
	h.Wash = hexToRGBA(h.PrimaryColor, 0.05)
	return h
}

// businessBadge shortens a business model description to its first three
// words.
func businessBadge(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= 3 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:3], " ") + "..."
}

func buildKPI(k intel.KPI) KPICard {
	card := KPICard{
		Label:     k.Label,
		Value:     FormatKPIValue(k.Value, k.Unit),
		Unit:      UnitSuffix(k.Unit),
		Icon:      KPIIcon(k.Label),
		Benchmark: k.Benchmark,
		Period:    k.Period,
	}
	if k.Trend.Known() {
		card.Trend = k.Trend
	}
	if k.YoYGrowth != nil {
		g := *k.YoYGrowth
		card.Growth = FormatGrowth(g)
		switch {
		case g > 0:
			card.GrowthSign = 1
		case g < 0:
			card.GrowthSign = -1
		}
	}
	if k.Confidence != nil {
		tier := Tier(*k.Confidence)
		card.Tier = &tier
		card.Confidence = FormatPercent(*k.Confidence)
	}
	return card
}

func buildRevenueTrend(g *intel.GrowthMetrics) *RevenueTrend {
	var historical, projected []intel.RevenuePoint
	for _, p := range g.RevenueTrend {
		if p.IsProjection {
			projected = append(projected, p)
		} else {
			historical = append(historical, p)
		}
	}

	var max float64
	for _, p := range g.RevenueTrend {
		if p.Revenue > max {
			max = p.Revenue
		}
		if p.HighEstimate != nil && *p.HighEstimate > max {
			max = *p.HighEstimate
		}
	}

	rt := &RevenueTrend{}
	for _, p := range append(historical, projected...) {
		bar := RevenueBar{
			Year:      p.Year.String(),
			Revenue:   FormatCurrency(p.Revenue),
			Raw:       p.Revenue,
			Projected: p.IsProjection,
			Height:    share(p.Revenue, max),
		}
		if p.LowEstimate != nil && p.HighEstimate != nil {
			bar.Range = FormatCurrency(*p.LowEstimate) + " - " + FormatCurrency(*p.HighEstimate)
		}
		rt.Points = append(rt.Points, bar)
	}
	if g.CAGR != nil {
		rt.CAGR = fmt.Sprintf("%.1f%%", *g.CAGR)
	}
	if g.YoYGrowth != nil {
		rt.YoY = FormatGrowth(*g.YoYGrowth)
	}
	return rt
}

func buildProjections(fp *intel.FinancialProjections) *Projections {
	p := &Projections{
		Revenue:   projectionRows(fp.Revenue),
		Volume:    projectionRows(fp.Volume),
		HasVolume: len(fp.Volume) > 0,
	}
	return p
}

func projectionRows(in []intel.Projection) []ProjectionRow {
	var max float64
	for _, p := range in {
		for _, v := range []float64{p.LowEstimate, p.BaseEstimate, p.HighEstimate} {
			if v > max {
				max = v
			}
		}
	}
	var rows []ProjectionRow
	for _, p := range in {
		rows = append(rows, ProjectionRow{
			Year:     p.Year.String(),
			Metric:   p.Metric,
			Low:      FormatCurrency(p.LowEstimate),
			Base:     FormatCurrency(p.BaseEstimate),
			High:     FormatCurrency(p.HighEstimate),
			Interval: p.ConfidenceInterval,
			LowPct:   share(p.LowEstimate, max),
			BasePct:  share(p.BaseEstimate, max),
			HighPct:  share(p.HighEstimate, max),

			LowValue:  p.LowEstimate,
			BaseValue: p.BaseEstimate,
			HighValue: p.HighEstimate,
		})
	}
	return rows
}

func buildCompetitive(cl *intel.CompetitiveLandscape) *Competitive {
	c := &Competitive{
		MarketPosition: orDefault(cl.MarketPosition, notAvailable),
		Advantages:     cl.CompetitiveAdvantages,
		Risks:          cl.StrategicRisks,
	}
	// Entries of an unrecognised shape have nothing to show.
	for _, comp := range cl.DirectCompetitors {
		if comp.Kind != intel.CompetitorUnknown {
			c.Competitors = append(c.Competitors, comp)
		}
	}
	// Zero share is treated as unknown.
	if cl.MarketSharePct != nil && *cl.MarketSharePct > 0 {
		c.MarketShare = fmt.Sprintf("%.0f%%", *cl.MarketSharePct)
	}
	for _, m := range cl.RecentStrategicMoves {
		c.Moves = append(c.Moves, Move{
			Action: m.Action,
			Date:   m.Date,
			Impact: m.Impact,
			Value:  FormatMoveValue(m.Value),
		})
	}
	return c
}

func buildDataQuality(dq *intel.DataQuality) *DataQualityPanel {
	return &DataQualityPanel{
		Percent:      int(clamp01(dq.ConfidenceScore)*100 + 0.5),
		Tier:         Tier(dq.ConfidenceScore),
		Sources:      dq.DataSources,
		Methods:      dq.EstimationMethods,
		LastVerified: FormatDate(dq.LastVerified),
	}
}

func share(v, max float64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	return int(v/max*100 + 0.5)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func isHexColor(s string) bool { return hexColorRe.MatchString(s) }

// hexToRGBA converts "#RRGGBB" to a CSS rgba() value.
func hexToRGBA(hex string, alpha float64) string {
	if !isHexColor(hex) {
		hex = DefaultPrimaryColor
	}
	r, _ := strconv.ParseUint(hex[1:3], 16, 8)
	g, _ := strconv.ParseUint(hex[3:5], 16, 8)
	b, _ := strconv.ParseUint(hex[5:7], 16, 8)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}
