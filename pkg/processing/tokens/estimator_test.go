package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnippet = `def fibonacci(n):
    if n < 2:
        return n
    return fibonacci(n - 1) + fibonacci(n - 2)

for i in range(10):
    print(i, fibonacci(i))
`

func TestTiktokenEstimator_CountTokens(t *testing.T) {
	estimator := NewTiktokenEstimator()

	tests := []struct {
		name string
		text string
		min  int
		max  int
	}{
		{name: "empty text", text: "", min: 0, max: 0},
		{name: "single word", text: "hello", min: 1, max: 2},
		{name: "short snippet", text: sampleSnippet, min: 30, max: 70},
		{name: "special token text", text: "<|endoftext|>", min: 1, max: 10},
		{name: "unicode", text: "función naïve 日本語", min: 3, max: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimator.CountTokens(tt.text)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestTiktokenEstimator_Deterministic(t *testing.T) {
	estimator := NewTiktokenEstimator()
	inputs := []string{"", "x", sampleSnippet, strings.Repeat("func main() {}\n", 200)}

	for _, text := range inputs {
		first := estimator.CountTokens(text)
		require.GreaterOrEqual(t, first, 0)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, estimator.CountTokens(text))
		}
	}

	// A second estimator instance uses the same scheme.
	other := NewTiktokenEstimator()
	assert.Equal(t, estimator.Scheme(), other.Scheme())
	assert.Equal(t, estimator.CountTokens(sampleSnippet), other.CountTokens(sampleSnippet))
}

func TestTiktokenEstimator_Concurrent(t *testing.T) {
	estimator := NewTiktokenEstimator()
	want := estimator.CountTokens(sampleSnippet)

	done := make(chan int, 16)
	for i := 0; i < 16; i++ {
		go func() {
			done <- estimator.CountTokens(sampleSnippet)
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestTiktokenEstimator_FallbackScheme(t *testing.T) {
	estimator := &TiktokenEstimator{}

	assert.Equal(t, "characters/4", estimator.Scheme())
	assert.Equal(t, 0, estimator.CountTokens(""))
	assert.Equal(t, 1, estimator.CountTokens("abc"))
	assert.Equal(t, 2, estimator.CountTokens("abcde"))
}

func TestCharacterEstimate(t *testing.T) {
	assert.Equal(t, 0, CharacterEstimate(""))
	assert.Equal(t, 1, CharacterEstimate("a"))
	assert.Equal(t, 1, CharacterEstimate("abcd"))
	assert.Equal(t, 50, CharacterEstimate(strings.Repeat("a", 200)))
}

func TestEstimateOutput(t *testing.T) {
	tests := []struct {
		name      string
		input     int
		maxOutput int
		want      int
	}{
		{name: "zero input", input: 0, maxOutput: 4000, want: 0},
		{name: "double input", input: 50, maxOutput: 4000, want: 100},
		{name: "exactly at cap", input: 2000, maxOutput: 4000, want: 4000},
		{name: "capped", input: 3000, maxOutput: 4000, want: 4000},
		{name: "small cap", input: 50, maxOutput: 64, want: 64},
		{name: "no output allowed", input: 50, maxOutput: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateOutput(tt.input, tt.maxOutput))
		})
	}
}
