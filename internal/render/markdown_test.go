package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iqfinance/intel-dashboard/internal/intel"
)

func TestDashboardMarkdown(t *testing.T) {
	md := DashboardMarkdown(BuildDashboard(mustDecode(t, sampleReport), testMeta))

	assert.Contains(t, md, "# Stripe\n")
	assert.Contains(t, md, "## Key Performance Indicators")
	assert.Contains(t, md, "| Annual Recurring Revenue | $14.00B | +25.5% | 80% (High) |")
	assert.Contains(t, md, "- 2025: $16.0B (projected)")
	assert.Contains(t, md, "- Adyen\n")
	assert.Contains(t, md, "- PayPal: Incumbent\n")
	assert.Contains(t, md, "- Square\n")
	assert.NotContains(t, md, "42")
	assert.Contains(t, md, "Confidence: 85% (High)")
}

func TestDashboardMarkdown_CompanyOnly(t *testing.T) {
	md := DashboardMarkdown(BuildDashboard(mustDecode(t, `{"company":{"name":"Stripe","domain":"stripe.com","industry":"Fintech"}}`), Meta{}))

	assert.Contains(t, md, "| Industry | Fintech |")
	assert.NotContains(t, md, "## ")
}

func TestTextMarkdown(t *testing.T) {
	md := TextMarkdown(BuildTextReport(&intel.TextAnalysisResult{
		Domain:   "stripe.com",
		Analysis: "1. COMPANY OVERVIEW\nPayments.\n2. RISKS\nRegulation | fraud.",
		Model:    "m",
	}))

	assert.Contains(t, md, "# stripe.com\n")
	assert.Contains(t, md, "_Model: m_")
	assert.Contains(t, md, "## 1. COMPANY OVERVIEW\n\nPayments.")
	assert.Contains(t, md, "## 2. RISKS\n\nRegulation | fraud.")
}
