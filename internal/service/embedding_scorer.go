package service

import (
	"context"
	"fmt"
	"strings"
)

// Embedder turns texts into dense vectors, one per input, in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingScorer holds the embedded exemplar documents of every category.
// It is immutable after construction; per-request account vectors live in
// the scorer returned by Prepare.
type EmbeddingScorer struct {
	embedder   Embedder
	categories map[Category][]float32
	fallback   Scorer
}

// NewEmbeddingScorer embeds the exemplar document of each category
func NewEmbeddingScorer(ctx context.Context, embedder Embedder, exemplars ExemplarTable, fallback Scorer) (*EmbeddingScorer, error) {
	docs := make([]string, 0, len(Categories))
	order := make([]Category, 0, len(Categories))
	for _, category := range Categories {
		phrases, ok := exemplars[category]
		if !ok {
			continue
		}
		docs = append(docs, strings.ToLower(strings.Join(phrases, " ")))
		order = append(order, category)
	}

	vectors, err := embedder.Embed(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to embed exemplars: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d exemplar sets", len(vectors), len(docs))
	}

	s := &EmbeddingScorer{
		embedder:   embedder,
		categories: make(map[Category][]float32, len(order)),
		fallback:   fallback,
	}
	for i, category := range order {
		s.categories[category] = vectors[i]
	}
	return s, nil
}

// Prepare embeds the given account texts and returns a scorer that serves
// them from memory. Unknown texts are scored by the fallback scorer.
func (s *EmbeddingScorer) Prepare(ctx context.Context, texts []string) (Scorer, error) {
	unique := make([]string, 0, len(texts))
	seen := make(map[string]bool, len(texts))
	for _, t := range texts {
		t = normalizeText(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}

	cache := make(map[string][]float32, len(unique))
	if len(unique) > 0 {
		vectors, err := s.embedder.Embed(ctx, unique)
		if err != nil {
			return nil, fmt.Errorf("failed to embed account texts: %w", err)
		}
		if len(vectors) != len(unique) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(unique))
		}
		for i, t := range unique {
			cache[t] = vectors[i]
		}
	}
	return &preparedScorer{parent: s, cache: cache}, nil
}

type preparedScorer struct {
	parent *EmbeddingScorer
	cache  map[string][]float32
}

func (p *preparedScorer) Score(text string) ScoreVector {
	vec, ok := p.cache[normalizeText(text)]
	if !ok {
		if p.parent.fallback != nil {
			return p.parent.fallback.Score(text)
		}
		return ScoreVector{}
	}
	scores := make(ScoreVector, len(p.parent.categories))
	for category, doc := range p.parent.categories {
		scores[category] = cosineSimilarity(vec, doc)
	}
	return scores
}

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
