package render

import (
	"time"

	"github.com/iqfinance/intel-dashboard/internal/intel"
)

// TextReport is the display model of a free-text analysis.
type TextReport struct {
	Domain     string
	Model      string
	AnalyzedAt string
	Sections   []Section
}

// BuildTextReport splits the analysis into sections. An unparseable
// timestamp is shown as received.
func BuildTextReport(r *intel.TextAnalysisResult) *TextReport {
	if r == nil {
		return &TextReport{}
	}
	rep := &TextReport{
		Domain:     r.Domain,
		Model:      r.Model,
		AnalyzedAt: r.Timestamp,
		Sections:   SplitSections(r.Analysis),
	}
	if t, err := time.Parse(time.RFC3339Nano, r.Timestamp); err == nil {
		rep.AnalyzedAt = FormatTimestamp(t)
	}
	return rep
}
