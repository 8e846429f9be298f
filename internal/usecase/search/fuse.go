package search

import (
	"encoding/json"
	"sort"

	"github.com/harborline/siftgate/internal/domain"
)

// fuse merges vector and keyword rankings into one list via alpha-weighted
// positional reciprocal rank scoring:
//
//	score(d) = (1-alpha)/(i+1) + alpha/(j+1)
//
// where i and j are d's zero-based ranks in the vector and keyword lists.
// alpha=0 is pure vector ordering, alpha=1 pure keyword. Ties break by vector
// rank, then id, so results are deterministic.
func fuse(vector, keyword []domain.Hit, alpha float64, limit int) []domain.FusedResult {
	type scored struct {
		hit      domain.Hit
		score    float64
		vecRank  int
		inVector bool
	}

	merged := make(map[string]*scored, len(vector)+len(keyword))

	for _, h := range vector {
		merged[h.ID] = &scored{
			hit:      h,
			score:    (1 - alpha) / float64(h.Rank+1),
			vecRank:  h.Rank,
			inVector: true,
		}
	}

	for _, h := range keyword {
		s := alpha / float64(h.Rank+1)
		if existing, ok := merged[h.ID]; ok {
			existing.score += s
		} else {
			merged[h.ID] = &scored{hit: h, score: s}
		}
	}

	entries := make([]*scored, 0, len(merged))
	for _, s := range merged {
		entries = append(entries, s)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.inVector != b.inVector {
			return a.inVector
		}
		if a.inVector && a.vecRank != b.vecRank {
			return a.vecRank < b.vecRank
		}
		return a.hit.ID < b.hit.ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	results := make([]domain.FusedResult, 0, len(entries))
	for _, s := range entries {
		results = append(results, domain.FusedResult{
			ID:       s.hit.ID,
			Score:    s.score,
			Text:     s.hit.Text,
			Metadata: decodeMetadata(s.hit.Metadata),
		})
	}

	return results
}

// decodeMetadata parses the stored JSON blob into a generic value. A blob
// that fails to parse is returned as the raw string rather than dropped.
func decodeMetadata(raw string) any {
	if raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
