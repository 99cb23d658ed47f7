package ai

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"financial-document-analyzer/internal/domain/ports/adapter"
)

var _ adapter.TokenCounter = (*TiktokenCounter)(nil)

const fallbackEncoding = "cl100k_base"

// TiktokenCounter counts tokens with the OpenAI BPE closest to the model.
// Non-OpenAI models use cl100k_base as an estimate; if no encoding can be
// loaded the count degrades to one token per four bytes.
type TiktokenCounter struct {
	mu   sync.Mutex
	encs map[string]*tiktoken.Tiktoken
}

func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{encs: map[string]*tiktoken.Tiktoken{}}
}

func (c *TiktokenCounter) CountTokens(model, text string) int {
	if text == "" {
		return 0
	}
	if enc := c.encoding(model); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

func (c *TiktokenCounter) encoding(model string) *tiktoken.Tiktoken {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encs[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			enc = nil
		}
	}
	c.encs[model] = enc
	return enc
}
