package biz

import (
	"fmt"
	"strings"
)

// Chunker splits text into fixed-size overlapping windows. Windows are
// measured in runes so multi-byte text keeps the overlap exact.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. The overlap must be smaller than the
// window size or every window would restart at the same position.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk returns the ordered windows of text. Consecutive windows share
// exactly the configured overlap; the final window ends at the text end
// and may be shorter. Empty or all-whitespace input yields nil.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - c.overlap
	}
	return out
}
