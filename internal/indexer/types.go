package indexer

// Chunk represents a window of normalized page text.
type Chunk struct {
	Text          string `json:"text"`           // Chunk text content, never empty
	Page          int    `json:"page"`           // 1-based source page
	StartOffset   int    `json:"start_offset"`   // Rune offset into the page's normalized text (inclusive)
	EndOffset     int    `json:"end_offset"`     // Rune offset into the page's normalized text (exclusive)
	TokenEstimate int    `json:"token_estimate"` // Approximate token count (CharsPerToken chars per token)
}
