package costs

import (
	"math"
	"sort"
)

// Provider identifiers with built-in pricing.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// currencyScale is the rounding granularity for costs (nano-dollars).
const currencyScale = 1e9

// DefaultRates returns list prices for the default models:
// GPT-4 at $0.03/$0.06 and Claude 3 Sonnet at $0.003/$0.015 per 1K tokens.
func DefaultRates() map[string]Rate {
	return map[string]Rate{
		ProviderOpenAI:    RatePer1K(0.03, 0.06),
		ProviderAnthropic: RatePer1K(0.003, 0.015),
	}
}

// Calculator prices token usage per provider.
// It is immutable after construction and safe for concurrent use.
type Calculator struct {
	rates     map[string]Rate
	providers []string
}

// NewCalculator creates a calculator for the given rate table.
// The table is copied; later changes by the caller have no effect.
func NewCalculator(rates map[string]Rate) *Calculator {
	c := &Calculator{
		rates:     make(map[string]Rate, len(rates)),
		providers: make([]string, 0, len(rates)),
	}
	for name, rate := range rates {
		c.rates[name] = rate
		c.providers = append(c.providers, name)
	}
	sort.Strings(c.providers)
	return c
}

// Providers returns the priced provider identifiers, sorted.
func (c *Calculator) Providers() []string {
	out := make([]string, len(c.providers))
	copy(out, c.providers)
	return out
}

// Rate returns the pricing for a provider. Unknown providers are free.
func (c *Calculator) Rate(provider string) (Rate, bool) {
	rate, ok := c.rates[provider]
	return rate, ok
}

// ProviderCost prices one provider call.
func (c *Calculator) ProviderCost(provider string, inputTokens, outputTokens int) float64 {
	rate := c.rates[provider]
	return float64(max(inputTokens, 0))*rate.Input + float64(max(outputTokens, 0))*rate.Output
}

// Estimate prices the same input and output counts for every provider.
func (c *Calculator) Estimate(inputTokens, outputTokens int) Breakdown {
	out := make(map[string]int, len(c.providers))
	for _, name := range c.providers {
		out[name] = outputTokens
	}
	return c.Actual(inputTokens, out)
}

// Actual prices each provider with its own output count. Providers missing
// from outputByProvider are priced with zero output tokens.
func (c *Calculator) Actual(inputTokens int, outputByProvider map[string]int) Breakdown {
	b := Breakdown{ByProvider: make(map[string]float64, len(c.providers))}

	var total float64
	for _, name := range c.providers {
		cost := roundCurrency(c.ProviderCost(name, inputTokens, outputByProvider[name]))
		b.ByProvider[name] = cost
		total += cost
	}
	b.Total = roundCurrency(total)

	return b
}

func roundCurrency(v float64) float64 {
	return math.Round(v*currencyScale) / currencyScale
}
