package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/iqfinance/intel-dashboard/internal/intel"
	"github.com/iqfinance/intel-dashboard/internal/render"
)

// Sheet names, in workbook order.
const (
	SheetOverview     = "Overview"
	SheetKPIs         = "KPIs"
	SheetRevenueTrend = "Revenue Trend"
	SheetProjections  = "Projections"
	SheetCompetitors  = "Competitors"
)

// XLSX writes the dashboard as a workbook. The Overview sheet is always
// present; the other sheets appear only when their widget does.
func XLSX(d *render.Dashboard, w io.Writer) error {
	f := xlsx.NewFile()

	overview, err := f.AddSheet(SheetOverview)
	if err != nil {
		return eris.Wrap(err, "xlsx: add overview sheet")
	}
	header(overview, "Field", "Value")
	pair(overview, "Domain", d.Domain)
	pair(overview, "Analyzed", d.AnalyzedAt)
	pair(overview, "Model", d.Model)
	if h := d.Header; h != nil {
		pair(overview, "Name", h.Name)
		pair(overview, "Industry", h.Industry)
		pair(overview, "Founded", h.Founded)
		pair(overview, "Headquarters", h.Headquarters)
		pair(overview, "Business Model", h.BusinessModel)
		pair(overview, "Valuation", h.Valuation)
		pair(overview, "Description", h.Description)
	}
	if q := d.DataQuality; q != nil {
		pair(overview, "Confidence", q.Tier.Label)
		pair(overview, "Last Verified", q.LastVerified)
	}

	if len(d.KPIs) > 0 {
		sheet, err := f.AddSheet(SheetKPIs)
		if err != nil {
			return eris.Wrap(err, "xlsx: add kpi sheet")
		}
		header(sheet, "KPI", "Value", "Unit", "YoY Growth", "Trend", "Confidence", "Benchmark", "Period")
		for _, k := range d.KPIs {
			conf := ""
			if k.Tier != nil {
				conf = k.Confidence + " (" + k.Tier.Label + ")"
			}
			cells(sheet.AddRow(), k.Label, k.Value, k.Unit, k.Growth, string(k.Trend), conf, k.Benchmark, k.Period)
		}
	}

	if rt := d.RevenueTrend; rt != nil {
		sheet, err := f.AddSheet(SheetRevenueTrend)
		if err != nil {
			return eris.Wrap(err, "xlsx: add revenue sheet")
		}
		header(sheet, "Year", "Revenue (USD)", "Projected", "Range")
		for _, p := range rt.Points {
			row := sheet.AddRow()
			row.AddCell().SetString(p.Year)
			row.AddCell().SetFloat(p.Raw)
			projected := "no"
			if p.Projected {
				projected = "yes"
			}
			cells(row, projected, p.Range)
		}
	}

	if p := d.Projections; p != nil {
		sheet, err := f.AddSheet(SheetProjections)
		if err != nil {
			return eris.Wrap(err, "xlsx: add projections sheet")
		}
		header(sheet, "Series", "Year", "Metric", "Low", "Base", "High", "Confidence Interval")
		projectionRows(sheet, "Revenue", p.Revenue)
		projectionRows(sheet, "Volume", p.Volume)
	}

	if c := d.Competitive; c != nil && len(c.Competitors) > 0 {
		sheet, err := f.AddSheet(SheetCompetitors)
		if err != nil {
			return eris.Wrap(err, "xlsx: add competitors sheet")
		}
		header(sheet, "Competitor", "Position")
		for _, comp := range c.Competitors {
			switch comp.Kind {
			case intel.CompetitorName, intel.CompetitorProfile:
				cells(sheet.AddRow(), comp.Name, comp.Position)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func projectionRows(sheet *xlsx.Sheet, series string, rows []render.ProjectionRow) {
	for _, r := range rows {
		row := sheet.AddRow()
		cells(row, series, r.Year, r.Metric)
		row.AddCell().SetFloat(r.LowValue)
		row.AddCell().SetFloat(r.BaseValue)
		row.AddCell().SetFloat(r.HighValue)
		row.AddCell().SetString(r.Interval)
	}
}

func header(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, t := range titles {
		cell := row.AddCell()
		cell.SetString(t)
		cell.GetStyle().Font.Bold = true
	}
}

func pair(sheet *xlsx.Sheet, field, value string) {
	if value == "" {
		return
	}
	cells(sheet.AddRow(), field, value)
}

func cells(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
