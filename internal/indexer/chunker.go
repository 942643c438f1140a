package indexer

import (
	"regexp"
	"strings"
	"unicode"

	"policyqa/internal/document"
)

const (
	// DefaultChunkTokens is the nominal window size in tokens.
	DefaultChunkTokens = 500
	// DefaultOverlapTokens is the nominal overlap between consecutive windows in tokens.
	DefaultOverlapTokens = 50
)

var (
	// runningPageLine matches labelled markers ("Page 3", "Page 3 of 10"), dropped wherever they appear.
	runningPageLine = regexp.MustCompile(`(?i)^[\s\-–—]*page\s*\d+(\s*(of|/)\s*\d+)?[\s\-–—]*$`)
	// edgePageLine matches bare markers ("12", "- 4 -", "3/10"). These are only dropped as a page's
	// first or last line; elsewhere a lone number is content such as a retention period.
	edgePageLine = regexp.MustCompile(`^[\s\-–—]*\d+(\s*/\s*\d+)?[\s\-–—]*$`)
)

// Chunker splits page text into overlapping fixed-size windows.
// Sizes are measured in runes, with CharsPerToken runes counted as one token.
type Chunker struct {
	windowRunes  int
	overlapRunes int
}

// NewChunker creates a chunker with the given window and overlap measured in tokens.
// A non-positive window falls back to DefaultChunkTokens; negative overlap is treated as zero.
// Overlap greater than or equal to the window is reduced to window-1 so every step advances.
func NewChunker(windowTokens, overlapTokens int) *Chunker {
	if windowTokens <= 0 {
		windowTokens = DefaultChunkTokens
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	return newRuneChunker(windowTokens*CharsPerToken, overlapTokens*CharsPerToken)
}

func newRuneChunker(windowRunes, overlapRunes int) *Chunker {
	if windowRunes < 1 {
		windowRunes = 1
	}
	if overlapRunes < 0 {
		overlapRunes = 0
	}
	if overlapRunes >= windowRunes {
		overlapRunes = windowRunes - 1
	}
	return &Chunker{windowRunes: windowRunes, overlapRunes: overlapRunes}
}

// ChunkDocument chunks every page of the document in page order.
// Pages without extractable text contribute no chunks.
func (c *Chunker) ChunkDocument(doc *document.Document) []Chunk {
	if doc == nil {
		return nil
	}
	var chunks []Chunk
	for _, page := range doc.Pages {
		chunks = append(chunks, c.ChunkPage(page.Number, page.Text)...)
	}
	return chunks
}

// ChunkPage normalizes one page and splits it into windows.
// Window ends retract to the nearest preceding space so words are never split;
// the final partial window is always emitted.
func (c *Chunker) ChunkPage(pageNum int, raw string) []Chunk {
	runes := []rune(NormalizePageText(raw))
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	for start < n {
		end := start + c.windowRunes
		if end >= n {
			end = n
		} else if space := lastSpace(runes, start, end); space > start {
			end = space
		}

		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			chunks = append(chunks, Chunk{
				Text:          text,
				Page:          pageNum,
				StartOffset:   start,
				EndOffset:     end,
				TokenEstimate: EstimateTokens(text),
			})
		}

		if end >= n {
			break
		}
		start = c.nextStart(runes, start, end)
	}

	return chunks
}

// nextStart steps back by the overlap from end and moves forward to a word start.
// The result is always in (start, end+1] and never points at a space.
func (c *Chunker) nextStart(runes []rune, start, end int) int {
	next := end - c.overlapRunes
	if next <= start {
		next = start + 1
	}
	for next < end && runes[next-1] != ' ' {
		next++
	}
	// Never start on the separator the previous window stopped at.
	if next == end && next < len(runes) && runes[next] == ' ' {
		next++
	}
	return next
}

// lastSpace returns the index of the last space in runes[start:end], or -1.
func lastSpace(runes []rune, start, end int) int {
	for i := end; i > start; i-- {
		if i < len(runes) && runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// NormalizePageText drops page-number artifact lines and collapses whitespace runs to single spaces.
func NormalizePageText(raw string) string {
	if raw == "" {
		return ""
	}

	lines := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })
	body := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || runningPageLine.MatchString(line) {
			continue
		}
		body = append(body, line)
	}

	kept := make([]string, 0, len(body))
	for i, line := range body {
		if (i == 0 || i == len(body)-1) && edgePageLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(strings.FieldsFunc(strings.Join(kept, " "), unicode.IsSpace), " ")
}
