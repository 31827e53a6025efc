// Package tokenizer counts prompt tokens client-side so oversized prompts are
// rejected before they cost a round trip.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/wingman/pkg/types"
)

const (
	// DefaultEncoding is the BPE used for counting.
	DefaultEncoding = "cl100k_base"

	messageOverhead = 4   // role and separators per message
	imagePartTokens = 765 // a high-detail 1024x1024 image
	audioPartTokens = 500 // rough cost of a short clip
)

// Tokenizer counts tokens with tiktoken, or estimates at four characters per
// token when no encoding is loaded.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New loads DefaultEncoding. tiktoken may need to download the BPE file on
// first use, so callers should treat an error as "use Estimator()".
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", DefaultEncoding, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// Estimator returns a tokenizer that only approximates counts.
func Estimator() *Tokenizer {
	return &Tokenizer{}
}

// NewOrEstimator returns New() or, if that fails, Estimator().
func NewOrEstimator() *Tokenizer {
	if t, err := New(); err == nil {
		return t
	}
	return Estimator()
}

// Exact reports whether counts come from a real encoding.
func (t *Tokenizer) Exact() bool {
	return t.encoding != nil
}

// CountTokens counts tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if t.encoding == nil {
		return (len(text) + 3) / 4
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens counts tokens across messages, including a fixed
// estimate for each image or audio part.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += messageOverhead
		if len(msg.Parts) == 0 {
			total += t.CountTokens(msg.Content)
			continue
		}
		for _, part := range msg.Parts {
			switch part.Type {
			case types.PartImage:
				total += imagePartTokens
			case types.PartAudio:
				total += audioPartTokens
			default:
				total += t.CountTokens(part.Text)
			}
		}
	}
	return total
}
