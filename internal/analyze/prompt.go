package analyze

import "strings"

// Envelope selects the response shape. It is fixed per deployment.
type Envelope string

const (
	EnvelopeText       Envelope = "text"
	EnvelopeStructured Envelope = "structured"
)

const domainPlaceholder = "{{domain}}"

// BuildPrompt renders the static prompt for the envelope with the domain
// substituted in.
func BuildPrompt(envelope Envelope, domain string) string {
	tmpl := textPrompt
	if envelope == EnvelopeStructured {
		tmpl = structuredPrompt
	}
	return strings.Replace(tmpl, domainPlaceholder, domain, 1)
}

const textPrompt = `Analyze the company at domain: {{domain}}

Provide a comprehensive company intelligence report with:

1. COMPANY OVERVIEW
- Full company name
- Industry/sector
- Founding year
- Headquarters location
- Company size (estimated employees)
- Business model and primary products/services

2. KEY PERFORMANCE INDICATORS
- Revenue or ARR estimate
- Customer or user count
- Market share estimate
- Latest valuation
- Year-over-year growth for each figure where known

3. GROWTH METRICS
- Revenue trend for the last three to five years
- Compound annual growth rate
- Growth trajectory and drivers

4. FINANCIAL PROJECTIONS
- Revenue projections for the next three years (low, base and high estimates)
- Key assumptions behind the projections

5. COMPETITIVE LANDSCAPE
- Market position
- Main competitors
- Competitive advantages
- Strategic risks
- Recent strategic moves (acquisitions, launches, funding rounds)

6. DATA QUALITY
- Overall confidence in this analysis
- Data sources used
- Estimation methods for any non-public figures

7. INTELLIGENCE GRADE
Give an overall intelligence grade (A+ to F) based on:
- Market position strength
- Growth potential
- Innovation level
- Competitive moat
- Financial health

Format your response as a structured analysis with clear sections. Be specific and data-driven where possible.`

const structuredPrompt = `Analyze the company at domain: {{domain}}

Respond with a single JSON object and nothing else. Use plain numbers in US dollars for monetary values and numbers between 0 and 1 for confidence. Omit any group you cannot support with data.

{
  "company": {
    "name": string, "domain": string, "industry": string,
    "founded": string, "headquarters": string,
    "business_model": string, "description": string,
    "valuation": {"value": number, "currency": "USD", "date": "YYYY-MM-DD"},
    "last_updated": "YYYY-MM-DD"
  },
  "kpis": [
    {"label": string, "value": number or string, "unit": string,
     "yoy_growth": number, "trend": "increasing" | "decreasing" | "stable",
     "confidence": number, "benchmark": string, "period": string}
  ],
  "growth_metrics": {
    "revenue_trend": [{"year": string, "revenue": number, "isProjection": boolean,
                       "lowEstimate": number, "highEstimate": number}],
    "cagr": number, "yoy_growth": number
  },
  "financial_projections": {
    "revenue": [{"year": string, "metric": string, "lowEstimate": number,
                 "baseEstimate": number, "highEstimate": number, "confidenceInterval": string}],
    "volume": [same shape as revenue]
  },
  "competitive_landscape": {
    "market_position": string, "market_share_pct": number,
    "direct_competitors": [string or {"name": string, "position": string}],
    "competitive_advantages": [string], "strategic_risks": [string],
    "recent_strategic_moves": [{"action": string, "date": string, "value": number, "impact": string}]
  },
  "data_quality": {
    "confidence_score": number, "data_sources": [string],
    "estimation_methods": [string], "last_verified": "YYYY-MM-DD"
  }
}

Cover the company overview, key performance indicators, growth metrics, financial projections, competitive landscape and data quality metadata.`
