package render

// ConfidenceTier is a display bucket for a 0-1 confidence score.
type ConfidenceTier struct {
	Label string
	// Color is a palette name used as a CSS class suffix.
	Color string
}

var (
	TierVeryHigh = ConfidenceTier{Label: "Very High", Color: "green"}
	TierHigh     = ConfidenceTier{Label: "High", Color: "blue"}
	TierMedium   = ConfidenceTier{Label: "Medium", Color: "yellow"}
	TierLow      = ConfidenceTier{Label: "Low", Color: "red"}
)

// Tier buckets a confidence score. Scores outside [0,1] are clamped first.
func Tier(confidence float64) ConfidenceTier {
	c := clamp01(confidence)
	switch {
	case c >= 0.9:
		return TierVeryHigh
	case c >= 0.75:
		return TierHigh
	case c >= 0.6:
		return TierMedium
	default:
		return TierLow
	}
}
