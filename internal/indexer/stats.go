package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"
)

const (
	// ChunkerVersion is the version identifier for the chunker implementation.
	// Update this when chunking logic changes significantly.
	ChunkerVersion = "v2.0"
	// CharsPerToken is the approximation used for token counting (4 chars per token).
	CharsPerToken = 4
)

// CoverageStats summarizes how a document was chunked.
type CoverageStats struct {
	// Chunks is the number of chunks produced.
	Chunks int `json:"chunks"`
	// PagesWithChunks is the number of distinct pages that produced at least one chunk.
	PagesWithChunks int `json:"pages_with_chunks"`
	// TokenStats contains statistics about token counts per chunk.
	TokenStats ChunkTokenStats `json:"token_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion identifies the chunk set (chunker version + window params + document hash).
	IndexVersion string `json:"index_version"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// EstimateTokens approximates the token count of text from its rune count, with a minimum of 1.
func EstimateTokens(text string) int {
	tokens := int(math.Round(float64(utf8.RuneCountInString(text)) / CharsPerToken))
	if tokens < 1 {
		return 1
	}
	return tokens
}

// Stats computes coverage statistics for a chunk set produced by c from the document with the given hash.
func (c *Chunker) Stats(chunks []Chunk, documentHash string) CoverageStats {
	stats := CoverageStats{
		Chunks:         len(chunks),
		ChunkerVersion: ChunkerVersion,
	}

	pages := make(map[int]struct{})
	tokenCounts := make([]int, 0, len(chunks))
	for _, chunk := range chunks {
		pages[chunk.Page] = struct{}{}
		tokenCounts = append(tokenCounts, chunk.TokenEstimate)
	}
	stats.PagesWithChunks = len(pages)
	stats.TokenStats = computeTokenStats(tokenCounts)

	indexVersionInput := fmt.Sprintf("%s|windowRunes=%d|overlapRunes=%d|%s",
		ChunkerVersion, c.windowRunes, c.overlapRunes, documentHash)
	hash := sha256.Sum256([]byte(indexVersionInput))
	stats.IndexVersion = hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits

	return stats
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
