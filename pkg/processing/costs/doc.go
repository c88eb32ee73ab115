// Package costs converts token counts into monetary cost per provider.
//
// Every provider is priced with a linear formula:
//
//	cost = inputTokens*rate.Input + outputTokens*rate.Output
//
// Rates are configuration, looked up by provider identifier. A Breakdown
// carries the per-provider costs and their total, rounded to nano-dollars so
// that the total is always the exact sum of its parts at currency precision.
//
// # Usage
//
//	calc := costs.NewCalculator(costs.DefaultRates())
//	estimate := calc.Estimate(inputTokens, estimatedOutputTokens)
//	fmt.Printf("total: $%.4f\n", estimate.Total)
package costs
