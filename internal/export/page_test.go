package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
)

func TestPage_Structured(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

	p, err := Page(analyze.EnvelopeStructured, []byte(report), now)

	require.NoError(t, err)
	require.NotNil(t, p.Dashboard)
	assert.Nil(t, p.Text)
	assert.Equal(t, "Stripe", p.Dashboard.Header.Name)
	assert.Equal(t, "March 14, 2025 at 9:26 AM", p.Dashboard.AnalyzedAt)
	assert.Equal(t, report, p.Payload)
}

func TestPage_Text(t *testing.T) {
	body := `{"success":true,"domain":"stripe.com","analysis":"1. COMPANY OVERVIEW\nPayments.","timestamp":"2025-03-14T09:26:53.589Z","model":"m"}`

	p, err := Page(analyze.EnvelopeText, []byte(body), time.Now())

	require.NoError(t, err)
	require.NotNil(t, p.Text)
	assert.Nil(t, p.Dashboard)
	assert.Equal(t, "stripe.com", p.Text.Domain)
	require.Len(t, p.Text.Sections, 1)
}

func TestPage_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		envelope analyze.Envelope
		body     string
	}{
		{"structured not json", analyze.EnvelopeStructured, "<html>"},
		{"text not json", analyze.EnvelopeText, "nope"},
		{"text without analysis", analyze.EnvelopeText, `{"success":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Page(tt.envelope, []byte(tt.body), time.Now())

			var ve *analyze.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Invalid report payload", ve.Message)
		})
	}
}
