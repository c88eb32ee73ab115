// Package processing turns source text into token counts and prices.
//
//   - tokens: cl100k_base token counting and the output estimate
//   - costs: per-provider linear pricing and cost breakdowns
//
// Both are pure and safe for concurrent use.
package processing
