package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParagraphChunker splits text on blank lines. A line holding only
// whitespace counts as blank, so runs of blank lines collapse into one
// boundary.
type ParagraphChunker struct {
	maxChars int
}

// NewParagraphChunker creates a chunker. maxChars > 0 additionally splits
// paragraphs longer than maxChars runes at the last whitespace before the
// limit.
func NewParagraphChunker(maxChars int) *ParagraphChunker {
	if maxChars < 0 {
		maxChars = 0
	}
	return &ParagraphChunker{maxChars: maxChars}
}

func (c *ParagraphChunker) Chunk(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var chunks []string
	var para strings.Builder

	flush := func() {
		p := strings.TrimSpace(para.String())
		para.Reset()
		if p == "" {
			return
		}
		chunks = append(chunks, c.split(p)...)
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if para.Len() > 0 {
			para.WriteString("\n")
		}
		para.WriteString(line)
	}
	flush()

	return chunks
}

func (c *ParagraphChunker) split(p string) []string {
	if c.maxChars == 0 || utf8.RuneCountInString(p) <= c.maxChars {
		return []string{p}
	}

	var pieces []string
	runes := []rune(p)
	for len(runes) > 0 {
		if len(runes) <= c.maxChars {
			pieces = appendTrimmed(pieces, string(runes))
			break
		}

		cut := c.maxChars
		for i := c.maxChars; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}

		pieces = appendTrimmed(pieces, string(runes[:cut]))
		runes = runes[cut:]
	}
	return pieces
}

func appendTrimmed(pieces []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		pieces = append(pieces, s)
	}
	return pieces
}
