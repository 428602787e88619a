package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// BeliefEmbeddingMatch is a nearest-neighbour hit against the stored
// belief embeddings for one character.
type BeliefEmbeddingMatch struct {
	CharacterID string
	BeliefIndex int
	Distance    float64
}

// BeliefEmbeddingRepository stores a semantic embedding per belief
// and answers nearest-neighbour queries, backing the optional
// embedding-based belief evaluator.
type BeliefEmbeddingRepository struct {
	pool *pgxpool.Pool
}

func NewBeliefEmbeddingRepository(pool *pgxpool.Pool) *BeliefEmbeddingRepository {
	return &BeliefEmbeddingRepository{pool: pool}
}

func (r *BeliefEmbeddingRepository) Upsert(ctx context.Context, characterID string, index int, embedding []float32) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO belief_embeddings (character_id, belief_index, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (character_id, belief_index) DO UPDATE SET embedding = $3
	`, characterID, index, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("upsert belief embedding: %w", err)
	}
	return nil
}

func (r *BeliefEmbeddingRepository) Nearest(ctx context.Context, characterID string, embedding []float32, limit int) ([]BeliefEmbeddingMatch, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.pool.Query(ctx, `
		SELECT belief_index, embedding <-> $2 AS distance
		FROM belief_embeddings
		WHERE character_id = $1
		ORDER BY embedding <-> $2
		LIMIT $3
	`, characterID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("nearest belief embeddings: %w", err)
	}
	defer rows.Close()
	var out []BeliefEmbeddingMatch
	for rows.Next() {
		m := BeliefEmbeddingMatch{CharacterID: characterID}
		if err := rows.Scan(&m.BeliefIndex, &m.Distance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
