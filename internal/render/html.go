package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"github.com/iqfinance/intel-dashboard/internal/intel"
	"github.com/iqfinance/intel-dashboard/internal/progress"
)

//go:embed templates/*.html
var templateFS embed.FS

// ContentID is the element id of the exportable report subtree.
const ContentID = "dashboard-content"

// PDFFilename is the download name offered for PDF exports.
const PDFFilename = "iq-finance-dashboard.pdf"

// XLSXFilename is the download name offered for spreadsheet exports.
const XLSXFilename = "iq-finance-dashboard.xlsx"

// IndexPage is the analysis form.
type IndexPage struct {
	Domain     string
	Error      string
	Steps      []progress.Step
	IntervalMS int64
}

// ReportPage is a rendered analysis. Exactly one of Text and Dashboard is
// set.
type ReportPage struct {
	Text      *TextReport
	Dashboard *Dashboard
	// Payload is the analysis JSON posted back to the export endpoints.
	Payload string
}

func (ReportPage) PDFName() string  { return PDFFilename }
func (ReportPage) XLSXName() string { return XLSXFilename }

// HTML renders pages from the embedded templates. It is safe for
// concurrent use.
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	t, err := template.New("render").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, eris.Wrap(err, "render: parse templates")
	}
	return &HTML{tmpl: t}, nil
}

// Index writes the form page. An empty step list falls back to the
// default loading steps.
func (h *HTML) Index(w io.Writer, p IndexPage) error {
	if len(p.Steps) == 0 {
		p.Steps = progress.DefaultSteps
	}
	if p.IntervalMS <= 0 {
		p.IntervalMS = progress.DefaultInterval.Milliseconds()
	}
	return h.execute(w, "index.html", p)
}

// Report writes the interactive report page with its export controls.
func (h *HTML) Report(w io.Writer, p ReportPage) error {
	return h.execute(w, "report.html", p)
}

// Export writes a standalone document holding only the report subtree. It
// carries no form and no scripts of its own.
func (h *HTML) Export(w io.Writer, p ReportPage) error {
	return h.execute(w, "export.html", p)
}

func (h *HTML) execute(w io.Writer, name string, data any) error {
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return eris.Wrapf(err, "render: execute %s", name)
	}
	return nil
}

var funcs = template.FuncMap{
	"icon":      iconSVG,
	"css":       func(s string) template.CSS { return template.CSS(s) },
	"isName":    func(c intel.Competitor) bool { return c.Kind == intel.CompetitorName },
	"isProfile": func(c intel.Competitor) bool { return c.Kind == intel.CompetitorProfile },
	"arrow":     trendArrow,
	"date":      FormatDate,
	"inc":       func(i int) int { return i + 1 },
}

// iconSVG wraps a known glyph in an svg element. Unknown names render the
// generic glyph.
func iconSVG(i Icon) template.HTML {
	paths, ok := iconPaths[i]
	if !ok {
		paths = iconPaths[IconGeneric]
	}
	return template.HTML(`<svg class="icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">` + paths + `</svg>`)
}

func trendArrow(t intel.Trend) string {
	switch t {
	case intel.TrendIncreasing:
		return "↑"
	case intel.TrendDecreasing:
		return "↓"
	case intel.TrendStable:
		return "→"
	}
	return ""
}
