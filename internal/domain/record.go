package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "siftgate:"

// Record is the unit of storage: one embedded document inside a table.
// Metadata is an opaque JSON blob holding every payload field not already
// captured by ID, Text or Vector.
type Record struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata string
}

// Hit is a single ranked result from one retrieval source (vector or keyword).
// Rank is the zero-based position within its originating list.
type Hit struct {
	ID       string
	Rank     int
	Text     string
	Metadata string
}

// FusedResult is a merged hybrid search result returned to callers.
// The vector is stripped before a record becomes a FusedResult. Metadata is
// decoded back into a mapping where possible; a blob that fails to decode is
// carried through as the raw string.
type FusedResult struct {
	ID       string  `json:"id"`
	Score    float64 `json:"_score"`
	Text     string  `json:"text"`
	Metadata any     `json:"metadata,omitempty"`
}
