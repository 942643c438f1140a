package provider

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"policyqa/internal/indexer"
)

const (
	// MaxRankCandidates is how many chunks, in document order, are offered to a provider for ranking.
	MaxRankCandidates = 10
	// PreviewRunes is the length of each candidate preview.
	PreviewRunes = 200
	// ExcerptRunes is the length of the raw-context fallback answer.
	ExcerptRunes = 300
	// ExcerptPrefix marks an answer that is raw document text rather than a synthesized reply.
	ExcerptPrefix = "Based on the document: "
)

var firstInteger = regexp.MustCompile(`\d+`)

// Excerpt returns the raw-context fallback answer for passage.
func Excerpt(passage string) string {
	return ExcerptPrefix + truncateRunes(strings.TrimSpace(passage), ExcerptRunes) + "..."
}

func buildRankPrompt(question string, candidates []indexer.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %q\n\n", question)
	b.WriteString("Excerpts from a security policy document:\n\n")
	for i, chunk := range candidates {
		preview := truncateRunes(chunk.Text, PreviewRunes)
		if preview != chunk.Text {
			preview += "..."
		}
		fmt.Fprintf(&b, "Excerpt %d (Page %d): %s\n\n", i+1, chunk.Page, preview)
	}
	fmt.Fprintf(&b, "Which excerpt (1-%d) is most relevant to answering the question?\n", len(candidates))
	b.WriteString("Respond with only the excerpt number.")
	return b.String()
}

func buildSynthesisPrompt(question, passage string) string {
	var b strings.Builder
	b.WriteString("Context from a security policy document:\n")
	b.WriteString(passage)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer clearly and concisely using only the context above. ")
	b.WriteString("If the context does not contain enough information, say that the document does not contain enough information to answer the question.")
	return b.String()
}

// parseRank extracts the first integer in raw and returns it as a 0-based index into n candidates.
func parseRank(raw string, n int) (int, error) {
	digits := firstInteger.FindString(raw)
	if digits == "" {
		return -1, fmt.Errorf("no integer in response %q", truncateRunes(raw, 80))
	}
	rank, err := strconv.Atoi(digits)
	if err != nil {
		return -1, fmt.Errorf("invalid integer %q: %w", digits, err)
	}
	if rank < 1 || rank > n {
		return -1, fmt.Errorf("rank %d out of range [1,%d]", rank, n)
	}
	return rank - 1, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
