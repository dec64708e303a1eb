package render

import (
	"fmt"
	"strings"

	"github.com/iqfinance/intel-dashboard/internal/intel"
)

// TextMarkdown renders a free-text report as markdown, one level-two
// heading per section.
func TextMarkdown(r *TextReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDefault(r.Domain, "Company analysis"))
	writeMeta(&b, r.AnalyzedAt, r.Model)
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// DashboardMarkdown renders the widgets of a structured report as markdown.
// Omitted widgets produce no heading.
func DashboardMarkdown(d *Dashboard) string {
	var b strings.Builder

	title := d.Domain
	if d.Header != nil {
		title = d.Header.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", orDefault(title, "Company intelligence"))
	writeMeta(&b, d.AnalyzedAt, d.Model)

	if h := d.Header; h != nil {
		if h.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", h.Description)
		}
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Domain | %s |\n", cell(h.Domain))
		fmt.Fprintf(&b, "| Industry | %s |\n", cell(h.Industry))
		fmt.Fprintf(&b, "| Founded | %s |\n", cell(h.Founded))
		fmt.Fprintf(&b, "| Headquarters | %s |\n", cell(h.Headquarters))
		fmt.Fprintf(&b, "| Business model | %s |\n", cell(h.BusinessModel))
		if h.Valuation != "" {
			fmt.Fprintf(&b, "| Valuation | %s |\n", cell(strings.TrimSpace(h.Valuation+" "+h.ValuationDate)))
		}
		b.WriteString("\n")
	}

	if len(d.KPIs) > 0 {
		b.WriteString("## Key Performance Indicators\n\n")
		b.WriteString("| KPI | Value | YoY | Confidence |\n|---|---|---|---|\n")
		for _, k := range d.KPIs {
			conf := ""
			if k.Tier != nil {
				conf = k.Confidence + " (" + k.Tier.Label + ")"
			}
			fmt.Fprintf(&b, "| %s | %s%s | %s | %s |\n", cell(k.Label), cell(k.Value), cell(k.Unit), cell(k.Growth), conf)
		}
		b.WriteString("\n")
	}

	if rt := d.RevenueTrend; rt != nil {
		b.WriteString("## Revenue Trend\n\n")
		for _, p := range rt.Points {
			suffix := ""
			if p.Projected {
				suffix = " (projected)"
			}
			fmt.Fprintf(&b, "- %s: %s%s\n", p.Year, p.Revenue, suffix)
		}
		if rt.CAGR != "" {
			fmt.Fprintf(&b, "\nCAGR: %s\n", rt.CAGR)
		}
		b.WriteString("\n")
	}

	if p := d.Projections; p != nil {
		b.WriteString("## Financial Projections\n\n")
		writeProjectionTable(&b, p.Revenue)
		if p.HasVolume {
			b.WriteString("### Volume\n\n")
			writeProjectionTable(&b, p.Volume)
		}
	}

	if c := d.Competitive; c != nil {
		b.WriteString("## Competitive Landscape\n\n")
		fmt.Fprintf(&b, "Market position: %s\n", c.MarketPosition)
		if c.MarketShare != "" {
			fmt.Fprintf(&b, "Market share: %s\n", c.MarketShare)
		}
		b.WriteString("\n")
		if len(c.Competitors) > 0 {
			b.WriteString("### Competitors\n\n")
			for _, comp := range c.Competitors {
				switch comp.Kind {
				case intel.CompetitorName:
					fmt.Fprintf(&b, "- %s\n", comp.Name)
				case intel.CompetitorProfile:
					if comp.Position != "" {
						fmt.Fprintf(&b, "- %s: %s\n", comp.Name, comp.Position)
					} else {
						fmt.Fprintf(&b, "- %s\n", comp.Name)
					}
				}
			}
			b.WriteString("\n")
		}
		writeList(&b, "Competitive Advantages", c.Advantages)
		writeList(&b, "Strategic Risks", c.Risks)
		if len(c.Moves) > 0 {
			b.WriteString("### Recent Strategic Moves\n\n")
			for _, m := range c.Moves {
				fmt.Fprintf(&b, "- %s (%s, %s): %s\n", m.Action, FormatDate(m.Date), m.Value, m.Impact)
			}
			b.WriteString("\n")
		}
	}

	if q := d.DataQuality; q != nil {
		b.WriteString("## Data Quality\n\n")
		fmt.Fprintf(&b, "Confidence: %d%% (%s)\n\n", q.Percent, q.Tier.Label)
		writeList(&b, "Sources", q.Sources)
		writeList(&b, "Estimation Methods", q.Methods)
		if q.LastVerified != "" {
			fmt.Fprintf(&b, "Last verified: %s\n\n", q.LastVerified)
		}
	}
	return b.String()
}

func writeMeta(b *strings.Builder, analyzedAt, model string) {
	if analyzedAt != "" {
		fmt.Fprintf(b, "_Analyzed %s_", analyzedAt)
		if model != "" {
			fmt.Fprintf(b, " · _Model: %s_", model)
		}
		b.WriteString("\n\n")
	} else if model != "" {
		fmt.Fprintf(b, "_Model: %s_\n\n", model)
	}
}

func writeProjectionTable(b *strings.Builder, rows []ProjectionRow) {
	b.WriteString("| Year | Low | Base | High |\n|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(r.Year), r.Low, r.Base, r.High)
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// cell escapes pipes so a value cannot break a table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
