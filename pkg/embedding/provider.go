package embedding

import (
	"context"
	"math"
)

// Provider generates embeddings for a batch of texts in a single upstream
// call. The returned matrix is positionally aligned with the input batch.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// normalizeVector normalizes a vector to unit length (magnitude = 1).
// Required for accurate cosine similarity downstream.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
