package chunker

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures text size in tokens. Counting must be deterministic
// for a given input.
type TokenCounter interface {
	Count(text string) int
}

// EstimateCounter approximates token counts from word counts. English prose
// averages roughly 1.33 tokens per word, which is close enough for sizing
// chunks without loading an encoder.
type EstimateCounter struct{}

func (EstimateCounter) Count(text string) int {
	words := len(strings.Fields(text))
	return int(float64(words) * 1.33)
}

// TiktokenCounter counts with a real BPE encoding. Use this when chunk
// budgets must line up exactly with a model's tokenizer.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding, e.g. "cl100k_base".
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// memoCounter caches counts by exact text. The cache lives for one assembly
// run, where heading prefixes and overlapped elements repeat often.
type memoCounter struct {
	inner TokenCounter
	cache map[string]int
}

func newMemoCounter(inner TokenCounter) *memoCounter {
	return &memoCounter{inner: inner, cache: make(map[string]int)}
}

func (m *memoCounter) Count(text string) int {
	if n, ok := m.cache[text]; ok {
		return n
	}
	n := m.inner.Count(text)
	m.cache[text] = n
	return n
}
