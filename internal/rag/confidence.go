package rag

import (
	"math"
	"strings"

	"policyqa/internal/indexer"
)

// Factor weights. They sum to 1.
const (
	weightKeywordRelevance  = 0.25
	weightContextRichness   = 0.20
	weightSecurityRelevance = 0.20
	weightCompleteness      = 0.20
	weightConsistency       = 0.15
)

const (
	richnessChars        = 800.0
	securityTermsForFull = 5.0
	neutralConsistency   = 0.5
	minSharedKeywords    = 2
	highThreshold        = 0.7
	moderateThreshold    = 0.3
	reasoningSeparator   = " | "
	reasonNoChunks       = "no chunks"
	reasonNoMatch        = "no match"
)

var (
	openQuestionWords   = []string{"how", "what", "describe", "explain"}
	closedQuestionWords = []string{"do", "does", "have", "is", "are"}
)

// ConfidenceFactors are the per-query inputs to the confidence score, each in [0,1].
type ConfidenceFactors struct {
	KeywordRelevance  float64 `json:"keyword_relevance"`
	ContextRichness   float64 `json:"context_richness"`
	SecurityRelevance float64 `json:"security_relevance"`
	Completeness      float64 `json:"completeness"`
	Consistency       float64 `json:"consistency"`
}

// Confidence is a 0-100 score with a human-readable explanation.
type Confidence struct {
	Score     float64
	Reasoning string
	// Factors is nil when scoring short-circuited.
	Factors *ConfidenceFactors
}

// ConfidenceEstimator scores how well a selected chunk answers a question.
// It is pure computation over text already in memory.
type ConfidenceEstimator struct{}

// Score rates chunk as an answer to question. history holds earlier answers for the same document.
// Without chunks, or without a selected chunk, the score is exactly zero.
func (ConfidenceEstimator) Score(question string, chunk *indexer.Chunk, hasChunks bool, history []AnswerRecord) Confidence {
	if !hasChunks {
		return Confidence{Score: 0, Reasoning: reasonNoChunks}
	}
	if chunk == nil {
		return Confidence{Score: 0, Reasoning: reasonNoMatch}
	}

	keywords := extractKeywords(question)
	lower := strings.ToLower(chunk.Text)
	length := float64(len([]rune(chunk.Text)))

	factors := ConfidenceFactors{
		KeywordRelevance:  keywordRelevance(keywords, lower),
		ContextRichness:   math.Min(1, length/richnessChars),
		SecurityRelevance: math.Min(1, float64(countDomainTerms(lower))/securityTermsForFull),
		Completeness:      completeness(question, length),
		Consistency:       consistency(keywords, chunk.Page, history),
	}

	total := weightKeywordRelevance*factors.KeywordRelevance +
		weightContextRichness*factors.ContextRichness +
		weightSecurityRelevance*factors.SecurityRelevance +
		weightCompleteness*factors.Completeness +
		weightConsistency*factors.Consistency

	score := math.Round(math.Max(0, math.Min(100, total*100))*10) / 10
	if score == 0 {
		// Zero is reserved for "no chunks" and "no match".
		score = 0.1
	}
	return Confidence{
		Score:     score,
		Reasoning: reasoning(factors),
		Factors:   &factors,
	}
}

func keywordRelevance(keywords []string, lowerText string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	return float64(countContained(keywords, lowerText)) / float64(len(keywords))
}

// completeness expects longer passages for open questions than for yes/no questions.
func completeness(question string, length float64) float64 {
	words := make(map[string]struct{})
	for _, w := range tokenize(question) {
		words[w] = struct{}{}
	}
	switch {
	case containsAny(words, openQuestionWords):
		return math.Min(1, length/500)
	case containsAny(words, closedQuestionWords):
		return math.Min(1, length/200)
	default:
		return math.Min(1, length/300)
	}
}

// consistency is the share of similar earlier questions that cited the same page.
// Earlier questions are similar when they share at least two keywords with this one.
func consistency(keywords []string, page int, history []AnswerRecord) float64 {
	current := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		current[k] = struct{}{}
	}

	similar, samePage := 0, 0
	for _, rec := range history {
		shared := 0
		for _, k := range extractKeywords(rec.Question) {
			if _, ok := current[k]; ok {
				shared++
			}
		}
		if shared < minSharedKeywords {
			continue
		}
		similar++
		if rec.Page == page {
			samePage++
		}
	}
	if similar == 0 {
		return neutralConsistency
	}
	return float64(samePage) / float64(similar)
}

func reasoning(f ConfidenceFactors) string {
	labels := []string{
		level(f.KeywordRelevance) + " keyword relevance",
		level(f.ContextRichness) + " context richness",
		level(f.SecurityRelevance) + " security relevance",
		level(f.Completeness) + " completeness",
		level(f.Consistency) + " consistency",
	}
	return strings.Join(labels, reasoningSeparator)
}

func level(v float64) string {
	switch {
	case v > highThreshold:
		return "high"
	case v > moderateThreshold:
		return "moderate"
	default:
		return "low"
	}
}

func containsAny(set map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
