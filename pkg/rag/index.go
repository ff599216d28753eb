package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/pkg/embedding"
)

// Match is one search hit: the record and its cosine similarity to the query.
type Match struct {
	Record CatalogRecord `json:"record"`
	Score  float64       `json:"score"`
}

// Index is the in-memory semantic index over catalog records. The record
// list and vector matrix form one atomic unit: every successful ingest
// replaces both wholesale, and readers always observe a complete pair.
type Index struct {
	mu       sync.RWMutex
	records  []CatalogRecord
	vectors  [][]float32
	embedder embedding.Provider
	logger   logger.ILogger
}

func NewIndex(embedder embedding.Provider, log logger.ILogger) *Index {
	return &Index{
		embedder: embedder,
		logger:   log,
	}
}

// Ingest projects the bundle, embeds the whole batch in one provider call
// and installs the new (records, vectors) pair atomically. An empty batch
// installs an empty index, which is valid, not an error. A failed batch also
// clears the previous snapshot: stale records must never outlive the ingest
// that was meant to replace them. Embedding happens outside the lock; only
// the swap is exclusive.
func (ix *Index) Ingest(ctx context.Context, bundle *SourceBundle) error {
	records := ProjectBundle(bundle)

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text()
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = ix.embedder.Embed(ctx, texts)
		if err != nil {
			ix.install(nil, nil)
			return fmt.Errorf("embed batch: %w", err)
		}
		if len(vectors) != len(records) {
			ix.install(nil, nil)
			return fmt.Errorf("embedder returned %d vectors for %d records", len(vectors), len(records))
		}
	} else {
		ix.logger.Warn("RAG", "No records extracted from bundle, installing empty index", nil)
	}

	ix.install(records, vectors)
	ix.logger.Info("RAG", "Index replaced", map[string]interface{}{"records": len(records)})
	return nil
}

func (ix *Index) install(records []CatalogRecord, vectors [][]float32) {
	ix.mu.Lock()
	ix.records = records
	ix.vectors = vectors
	ix.mu.Unlock()
}

// Search embeds the query once and ranks every stored vector by cosine
// similarity. Results come back in descending score order, ties broken by
// original record order. An empty index returns nil immediately without
// touching the embedder.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	ix.mu.RLock()
	records := ix.records
	vectors := ix.vectors
	ix.mu.RUnlock()

	if len(records) == 0 {
		ix.logger.Warn("RAG", "Search on empty index", map[string]interface{}{"query_len": len(query)})
		return nil, nil
	}

	queryVectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	queryVector := queryVectors[0]

	matches := make([]Match, len(records))
	for i := range records {
		matches[i] = Match{
			Record: records[i],
			Score:  cosineSimilarity(queryVector, vectors[i]),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}

	ix.logger.Debug("RAG", "Search complete", map[string]interface{}{
		"results": len(matches),
		"top_k":   topK,
	})
	return matches, nil
}

// Len reports the number of indexed records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

func (ix *Index) IsEmpty() bool {
	return ix.Len() == 0
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
