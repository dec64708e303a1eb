package analyze

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iqfinance/intel-dashboard/internal/resilience"
)

// ValidationError is a malformed request. The caller must fix the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "analyze: " + e.Message }

// ConfigurationError is a missing server-side setting, fatal until fixed.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return "analyze: " + e.Message }

// UpstreamError is a non-2xx answer from the AI provider. Body is the
// provider's error text, unmodified.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("analyze: upstream returned status %d: %s", e.StatusCode, e.Body)
}

// StatusFor maps an Analyze error to the HTTP status the boundary returns.
func StatusFor(err error) int {
	var (
		ve *ValidationError
		ce *ConfigurationError
		ue *UpstreamError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusInternalServerError
	case errors.As(err, &ue):
		if ue.StatusCode >= 400 && ue.StatusCode <= 599 {
			return ue.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Describe returns the user-facing message and the diagnostic details for
// an Analyze error.
func Describe(err error) (message, details string) {
	var (
		ve *ValidationError
		ce *ConfigurationError
		ue *UpstreamError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message, ""
	case errors.As(err, &ce):
		return ce.Message, ""
	case errors.As(err, &ue):
		return "Failed to analyze company", ue.Body
	default:
		return "Internal server error", err.Error()
	}
}

// Retryable reports whether resubmitting the same request may succeed.
func Retryable(err error) bool {
	var (
		ve *ValidationError
		ce *ConfigurationError
		ue *UpstreamError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		return false
	case errors.As(err, &ue):
		return resilience.IsTransientHTTPStatus(ue.StatusCode)
	default:
		return resilience.IsTransient(err)
	}
}

// ErrorBody is the JSON body written for a failed request.
type ErrorBody struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
}

// NewErrorBody builds the response body for err.
func NewErrorBody(err error) ErrorBody {
	msg, details := Describe(err)
	return ErrorBody{Error: msg, Details: details, Retryable: Retryable(err)}
}
