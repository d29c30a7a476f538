package models

import "time"

// Document is one deduplicated item from the document source.
type Document struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Candidate is one keyword proposed by the upstream extractor for a
// document. Confidence is already folded into candidacy and is not
// re-weighted. DocumentID is provenance only: once proposed, a keyword is
// counted across every document of the batch.
type Candidate struct {
	DocumentID string  `json:"document_id"`
	Keyword    string  `json:"keyword"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Batch is the unit accepted by the CLI, the scheduler inbox and the API.
type Batch struct {
	GroupID    string      `json:"group_id"`
	Date       string      `json:"date"`
	Documents  []Document  `json:"documents"`
	Candidates []Candidate `json:"candidates"`
}
