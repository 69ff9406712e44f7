package embedding

import (
	"context"
	"math"
)

// Task types passed to providers that distinguish query and document vectors.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider turns text into a dense vector.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}

// normalizeVector scales to unit magnitude. Cosine distance in pgvector
// assumes normalized vectors; not all backends return them that way.
func normalizeVector(values []float32) []float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}
	magnitude := math.Sqrt(sum)
	if magnitude == 0 {
		return values
	}

	normalized := make([]float32, len(values))
	for i, v := range values {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
