// Package paper defines the data model shared by the ingestion and
// retrieval pipelines.
package paper

// Paper is the metadata record for a single paper.
//
// The ID is assigned by the feed source (e.g. "2301.00001" for arXiv).
// Re-ingesting the same ID overwrites Title and Abstract, last write wins.
type Paper struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

// SearchResult is one ranked entry returned by a similarity search.
//
// Paper is nil when the metadata for the ID could not be found; a missing
// record does not invalidate the rank position.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float32 `json:"score"`
	Paper *Paper  `json:"paper"`
}
