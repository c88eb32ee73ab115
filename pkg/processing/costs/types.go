package costs

import "sort"

// Rate is a linear pricing coefficient pair, in USD per token.
type Rate struct {
	// Input is the cost of one input (prompt) token.
	Input float64

	// Output is the cost of one output (completion) token.
	Output float64
}

// RatePer1K builds a Rate from the per-1K-token prices providers publish.
func RatePer1K(inputPer1K, outputPer1K float64) Rate {
	return Rate{
		Input:  inputPer1K / 1000.0,
		Output: outputPer1K / 1000.0,
	}
}

// Breakdown holds per-provider costs and their combined total in USD.
type Breakdown struct {
	// ByProvider maps provider identifier to its cost.
	ByProvider map[string]float64

	// Total is the sum of all ByProvider values.
	Total float64
}

// Provider returns the cost attributed to a provider, or zero.
func (b Breakdown) Provider(name string) float64 {
	return b.ByProvider[name]
}

// Providers returns the provider identifiers in the breakdown, sorted.
func (b Breakdown) Providers() []string {
	names := make([]string, 0, len(b.ByProvider))
	for name := range b.ByProvider {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
