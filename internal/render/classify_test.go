package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKPIIcon(t *testing.T) {
	tests := []struct {
		label string
		want  Icon
	}{
		{"Annual Recurring Revenue", IconCurrency},
		{"ARR", IconCurrency},
		{"Revenue Growth Rate", IconCurrency},
		{"Customer Growth", IconTrend},
		{"Churn Rate", IconTrend},
		{"Monthly Active Users", IconPeople},
		{"Enterprise Customers", IconPeople},
		{"Market Share", IconTarget},
		{"Latest Valuation", IconGlobe},
		{"Employees", IconGeneric},
		{"", IconGeneric},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KPIIcon(tt.label), "KPIIcon(%q)", tt.label)
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		in   float64
		want ConfidenceTier
	}{
		{1, TierVeryHigh},
		{0.9, TierVeryHigh},
		{0.89, TierHigh},
		{0.75, TierHigh},
		{0.74, TierMedium},
		{0.6, TierMedium},
		{0.59, TierLow},
		{0, TierLow},
		{-1, TierLow},
		{3, TierVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.in), "Tier(%v)", tt.in)
	}
}

func TestSplitSections(t *testing.T) {
	text := "Here is the analysis.\n\n" +
		"1. COMPANY OVERVIEW\n" +
		"Stripe is a payments company.\n" +
		"Founded: 2010\n\n" +
		"2. KEY PERFORMANCE INDICATORS\n" +
		"- Revenue: $14B\n\n" +
		"SUMMARY: strong position"

	got := SplitSections(text)

	assert.Equal(t, []Section{
		{Title: "Here is the analysis."},
		{Title: "1. COMPANY OVERVIEW", Body: "Stripe is a payments company.\nFounded: 2010"},
		{Title: "2. KEY PERFORMANCE INDICATORS", Body: "- Revenue: $14B"},
		{Title: "SUMMARY: strong position"},
	}, got)
}

func TestSplitSections_MarkdownHeadings(t *testing.T) {
	text := "## 1. Overview\r\nA company.\r\n**2. Growth**\r\nFast."

	got := SplitSections(text)

	assert.Equal(t, []Section{
		{Title: "1. Overview", Body: "A company."},
		{Title: "2. Growth", Body: "Fast."},
	}, got)
}

func TestSplitSections_NoHeadings(t *testing.T) {
	got := SplitSections("Just one paragraph\nwith two lines.")
	assert.Equal(t, []Section{{Title: "Just one paragraph", Body: "with two lines."}}, got)
}

func TestSplitSections_Empty(t *testing.T) {
	assert.Empty(t, SplitSections(""))
	assert.Empty(t, SplitSections("  \n\n "))
}
