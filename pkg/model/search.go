package model

// SearchResult pairs a memory with its similarity score for one query.
// Ephemeral, never persisted.
type SearchResult struct {
	Memory *Memory `json:"memory"`
	Score  float64 `json:"score"`
}
