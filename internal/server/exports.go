package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/export"
	"github.com/iqfinance/intel-dashboard/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if s.pdf == nil {
		writeError(w, r, &analyze.ConfigurationError{Message: "PDF export not configured"})
		return
	}
	page, err := s.decodeExport(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pdf, err := export.PDF(r.Context(), s.pdf, s.html, *page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, "application/pdf", render.PDFFilename, pdf)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	page, err := s.decodeExport(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page.Dashboard == nil {
		writeError(w, r, &analyze.ValidationError{Message: "Spreadsheet export requires a structured report"})
		return
	}

	var buf bytes.Buffer
	if err := export.XLSX(page.Dashboard, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, xlsxContentType, render.XLSXFilename, buf.Bytes())
}

// decodeExport reads an analysis result in the configured envelope and
// rebuilds its report page.
func (s *Server) decodeExport(w http.ResponseWriter, r *http.Request) (*render.ReportPage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &analyze.ValidationError{Message: "Invalid request body"}
	}
	return export.Page(s.envelope, body, s.now())
}
