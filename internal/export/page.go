package export

import (
	"encoding/json"
	"time"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/intel"
	"github.com/iqfinance/intel-dashboard/internal/render"
)

// Page rebuilds a report page from a saved analysis result in the given
// envelope. Structured pages are stamped with now since the result does
// not carry its own analysis time.
func Page(envelope analyze.Envelope, body []byte, now time.Time) (*render.ReportPage, error) {
	invalid := &analyze.ValidationError{Message: "Invalid report payload"}

	if envelope == analyze.EnvelopeStructured {
		in, err := intel.Decode(body)
		if err != nil {
			return nil, invalid
		}
		d := render.BuildDashboard(in, render.Meta{AnalyzedAt: now})
		return &render.ReportPage{Dashboard: d, Payload: string(body)}, nil
	}

	var res intel.TextAnalysisResult
	if err := json.Unmarshal(body, &res); err != nil || res.Analysis == "" {
		return nil, invalid
	}
	return &render.ReportPage{Text: render.BuildTextReport(&res), Payload: string(body)}, nil
}
