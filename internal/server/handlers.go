package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
)

const usageMessage = `Use POST method with { "domain": "example.com" }`

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUsage answers GET /analyze. It never runs an analysis.
func (s *Server) handleUsage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": usageMessage})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := res.Body()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.Envelope == analyze.EnvelopeStructured && s.cacheMaxAge > 0 {
		w.Header().Set("Cache-Control",
			fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", s.cacheMaxAge, s.cacheMaxAge))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// decodeRequest reads {domain} from a JSON body or a submitted form. An
// empty body yields an empty request so validation reports the missing
// domain.
func decodeRequest(w http.ResponseWriter, r *http.Request) (analyze.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req analyze.Request
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		req.Domain = r.PostFormValue("domain")
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, &analyze.ValidationError{Message: "Invalid request body"}
	}
	return req, nil
}
