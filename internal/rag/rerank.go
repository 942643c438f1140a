package rag

import (
	"math"
	"strings"
	"unicode"

	"policyqa/internal/indexer"
)

const (
	minKeywordLength   = 3
	domainTermWeight   = 0.5
	lengthBonusPerChar = 1.0 / 1000
	maxLengthBonus     = 0.5
)

var lexicalStopwords = map[string]struct{}{
	"a": {}, "about": {}, "all": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "been": {}, "but": {}, "by": {}, "can": {}, "could": {}, "did": {}, "do": {}, "does": {},
	"for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "how": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "not": {}, "of": {}, "on": {}, "or": {}, "our": {}, "should": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "to": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "why": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// domainTerms is the security and compliance vocabulary that boosts ranking and security relevance.
var domainTerms = []string{
	"encrypt", "encryption", "access", "backup", "incident", "audit", "compliance", "policy",
	"security", "privacy", "gdpr", "hipaa", "soc", "iso", "mfa", "sso", "vpn", "firewall",
	"password", "authentication", "authorization", "retention", "disaster", "recovery",
	"vendor", "risk", "breach", "monitoring", "logging", "aes", "tls", "ssl", "pii", "phi", "dpo",
}

// LexicalRanker picks the best chunk for a question by keyword and domain-term overlap.
// It needs no provider and is deterministic.
type LexicalRanker struct{}

// Rank returns the index of the first chunk with the strictly highest score.
// ok is false when every chunk scores zero.
func (LexicalRanker) Rank(question string, chunks []indexer.Chunk) (idx int, score float64, ok bool) {
	keywords := extractKeywords(question)

	idx = -1
	for i, chunk := range chunks {
		s := lexicalScore(keywords, chunk.Text)
		if s > score {
			idx, score = i, s
		}
	}
	return idx, score, idx >= 0
}

// lexicalScore is keyword matches + 0.5 per distinct domain term in the chunk + a length bonus
// capped at 0.5. A term mentioned several times counts once, like a keyword.
// A chunk sharing nothing with the question scores zero regardless of length.
func lexicalScore(keywords []string, chunkText string) float64 {
	lower := strings.ToLower(chunkText)
	matches := countContained(keywords, lower)
	terms := countDomainTerms(lower)
	if matches == 0 && terms == 0 {
		return 0
	}
	lengthBonus := math.Min(maxLengthBonus, float64(len([]rune(chunkText)))*lengthBonusPerChar)
	return float64(matches) + domainTermWeight*float64(terms) + lengthBonus
}

// extractKeywords lowercases and tokenizes the question, drops stop words and short tokens,
// then adds every domain term that appears literally in the question.
// If filtering leaves nothing, the raw whitespace-split tokens are used instead.
func extractKeywords(question string) []string {
	lower := strings.ToLower(question)

	var keywords []string
	seen := make(map[string]struct{})
	add := func(token string) {
		if _, dup := seen[token]; dup {
			return
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	for _, token := range tokenize(lower) {
		if _, stop := lexicalStopwords[token]; stop || len([]rune(token)) < minKeywordLength {
			continue
		}
		add(token)
	}
	if len(keywords) == 0 {
		for _, token := range strings.Fields(lower) {
			add(token)
		}
	}
	for _, term := range domainTerms {
		if strings.Contains(lower, term) {
			add(term)
		}
	}
	return keywords
}

// countContained counts keywords that occur as substrings of lowerText.
func countContained(keywords []string, lowerText string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(lowerText, k) {
			n++
		}
	}
	return n
}

// countDomainTerms counts distinct domain terms occurring in lowerText.
func countDomainTerms(lowerText string) int {
	return countContained(domainTerms, lowerText)
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
