// Package cost estimates the dollar cost of an upstream analysis call from
// its token usage.
package cost

// ModelRate holds token pricing for one model id, as sent to the provider,
// in dollars per million tokens.
type ModelRate struct {
	Model  string  `yaml:"model" mapstructure:"model"`
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates map[string]ModelRate
}

// NewCalculator creates a Calculator with the default rates. Entries in
// overrides replace a default for the same model or add a new one.
func NewCalculator(overrides []ModelRate) *Calculator {
	rates := make(map[string]ModelRate)
	for _, r := range DefaultRates() {
		rates[r.Model] = r
	}
	for _, r := range overrides {
		if r.Model != "" {
			rates[r.Model] = r
		}
	}
	return &Calculator{rates: rates}
}

// Estimate returns the cost of one call. Unknown models cost 0.
func (c *Calculator) Estimate(model string, input, output int64) float64 {
	if c == nil {
		return 0
	}
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	return inCost + outCost
}

// DefaultRates returns the built-in pricing for the models deployments use
// through OpenRouter and the Anthropic API.
func DefaultRates() []ModelRate {
	return []ModelRate{
		{Model: "anthropic/claude-3.5-sonnet", Input: 3.00, Output: 15.00},
		{Model: "anthropic/claude-3.5-haiku", Input: 0.80, Output: 4.00},
		{Model: "anthropic/claude-sonnet-4.5", Input: 3.00, Output: 15.00},
		{Model: "openai/gpt-4o", Input: 2.50, Output: 10.00},
		{Model: "openai/gpt-4o-mini", Input: 0.15, Output: 0.60},
		{Model: "claude-3-5-haiku-latest", Input: 0.80, Output: 4.00},
		{Model: "claude-3-5-sonnet-latest", Input: 3.00, Output: 15.00},
		{Model: "claude-sonnet-4-5-20250929", Input: 3.00, Output: 15.00},
		{Model: "claude-opus-4-1-20250805", Input: 15.00, Output: 75.00},
	}
}
