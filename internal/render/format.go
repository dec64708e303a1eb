package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/iqfinance/intel-dashboard/internal/intel"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency abbreviates a dollar amount with a K/M/B/T suffix and one
// decimal. Values below 1,000 are printed as plain numbers.
func FormatCurrency(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// formatKPINumber is the KPI card rule: two decimals for T and B, one for
// M and K. Only currency KPIs get a dollar sign.
func formatKPINumber(v float64, currency bool) string {
	sign := ""
	if currency {
		sign = "$"
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%s%.2fT", sign, v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%s%.2fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s%.1fK", sign, v/1e3)
	default:
		return FormatNumber(v)
	}
}

// FormatKPIValue formats a KPI value. Text values are shown as given.
func FormatKPIValue(m intel.Metric, unit string) string {
	if !m.IsNumber() {
		return m.Text
	}
	return formatKPINumber(*m.Number, isCurrencyUnit(unit))
}

func isCurrencyUnit(unit string) bool {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "", "USD", "$":
		return true
	}
	return false
}

// UnitSuffix is the unit label shown after a KPI value. USD is implied by
// the dollar sign and "percentage" is shortened to "%".
func UnitSuffix(unit string) string {
	switch {
	case unit == "" || strings.EqualFold(unit, "USD"):
		return ""
	case strings.EqualFold(unit, "percentage"):
		return "%"
	default:
		return unit
	}
}

// FormatValuation is the header rule: one decimal for B and M, grouped
// whole dollars below a million.
func FormatValuation(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	default:
		return "$" + FormatNumber(v)
	}
}

// FormatMoveValue is the strategic move rule: two decimals for B, one for
// M, grouped dollars below.
func FormatMoveValue(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	default:
		return "$" + FormatNumber(v)
	}
}

// FormatNumber groups thousands and keeps up to three fraction digits.
func FormatNumber(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatGrowth renders a signed percentage with one decimal, e.g. "+12.5%".
func FormatGrowth(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// FormatPercent renders a 0-1 ratio as a whole percentage.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", clamp01(ratio)*100)
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02", "2006-01"}

// FormatDate renders ISO dates as "Jan 2, 2006". Anything else is returned
// unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == "2006-01" {
				return t.Format("Jan 2006")
			}
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

// FormatTimestamp renders an analysis time as "January 2, 2006 at 3:04 PM".
func FormatTimestamp(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
