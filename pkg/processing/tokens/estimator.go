package tokens

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// EncodingName is the BPE encoding used for every provider.
const EncodingName = "cl100k_base"

// fallbackCharsPerToken is the ratio used when the BPE encoding is unavailable.
const fallbackCharsPerToken = 4

// Estimator counts tokens in a text blob.
// Implementations must be deterministic and safe for concurrent use.
type Estimator interface {
	// CountTokens returns the approximate token count of text.
	// The empty string always yields zero.
	CountTokens(text string) int
}

var loaderOnce sync.Once

// TiktokenEstimator counts tokens with the cl100k_base encoding.
type TiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator creates an estimator backed by the embedded
// cl100k_base ranks. It never fails: when the encoding cannot be loaded the
// returned estimator uses the character heuristic instead.
func NewTiktokenEstimator() *TiktokenEstimator {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(EncodingName)
	if err != nil {
		slog.Warn("token encoding unavailable, using character heuristic",
			"encoding", EncodingName,
			"error", err,
		)
		return &TiktokenEstimator{}
	}

	return &TiktokenEstimator{enc: enc}
}

// CountTokens returns the number of cl100k_base tokens in text.
// Special-token sequences such as "<|endoftext|>" are counted as ordinary text.
func (e *TiktokenEstimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if e.enc == nil {
		return CharacterEstimate(text)
	}
	return len(e.enc.Encode(text, nil, nil))
}

// Scheme names the counting scheme in use, for logs and diagnostics.
func (e *TiktokenEstimator) Scheme() string {
	if e.enc == nil {
		return "characters/4"
	}
	return EncodingName
}

// CharacterEstimate approximates a token count as one token per four bytes,
// rounded up. Non-empty text always yields at least one token.
func CharacterEstimate(text string) int {
	return (len(text) + fallbackCharsPerToken - 1) / fallbackCharsPerToken
}

// EstimateOutput predicts the number of output tokens for a request with the
// given input size: twice the input, capped at maxOutput.
func EstimateOutput(inputTokens, maxOutput int) int {
	if inputTokens <= 0 || maxOutput <= 0 {
		return 0
	}
	return min(2*inputTokens, maxOutput)
}
