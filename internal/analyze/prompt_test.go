package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_Text(t *testing.T) {
	p := BuildPrompt(EnvelopeText, "stripe.com")

	assert.True(t, strings.HasPrefix(p, "Analyze the company at domain: stripe.com\n"))
	assert.NotContains(t, p, domainPlaceholder)
	for _, section := range []string{
		"COMPANY OVERVIEW",
		"KEY PERFORMANCE INDICATORS",
		"GROWTH METRICS",
		"FINANCIAL PROJECTIONS",
		"COMPETITIVE LANDSCAPE",
		"DATA QUALITY",
		"INTELLIGENCE GRADE",
	} {
		assert.Contains(t, p, section)
	}
}

func TestBuildPrompt_Structured(t *testing.T) {
	p := BuildPrompt(EnvelopeStructured, "stripe.com")

	assert.Contains(t, p, "domain: stripe.com")
	assert.NotContains(t, p, domainPlaceholder)
	for _, key := range []string{
		`"company"`, `"kpis"`, `"growth_metrics"`,
		`"financial_projections"`, `"competitive_landscape"`, `"data_quality"`,
	} {
		assert.Contains(t, p, key)
	}
}

func TestBuildPrompt_SingleSubstitution(t *testing.T) {
	p := BuildPrompt(EnvelopeText, "{{domain}}")
	assert.Equal(t, 1, strings.Count(p, "{{domain}}"))
}

func TestBuildPrompt_UnknownEnvelopeUsesText(t *testing.T) {
	assert.Equal(t, BuildPrompt(EnvelopeText, "a.com"), BuildPrompt("", "a.com"))
}
