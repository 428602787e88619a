package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"soulengine/internal/domain"
)

// BeliefRow is a belief projected for cross-character querying by
// tag, denormalised out of the owning character's snapshot.
type BeliefRow struct {
	CharacterID string
	Index       int
	Text        string
	Strength    float64
	Tags        []string
}

// BeliefRepository is the persistence seam CharacterService depends on
// for the denormalised belief mirror, satisfied by PgBeliefRepository.
type BeliefRepository interface {
	Upsert(ctx context.Context, characterID string, index int, belief domain.Belief) error
	FindByTag(ctx context.Context, tag string) ([]BeliefRow, error)
}

// PgBeliefRepository keeps a queryable-by-tag mirror of every
// character's beliefs, adapted from the upsert/find-by-category shape
// of a trait repository.
type PgBeliefRepository struct {
	pool *pgxpool.Pool
}

func NewPgBeliefRepository(pool *pgxpool.Pool) *PgBeliefRepository {
	return &PgBeliefRepository{pool: pool}
}

func (r *PgBeliefRepository) Upsert(ctx context.Context, characterID string, index int, belief domain.Belief) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO beliefs (character_id, belief_index, text, strength, tags)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (character_id, belief_index) DO UPDATE
			SET text = $3, strength = $4, tags = $5
	`, characterID, index, belief.Text, belief.Strength, belief.Tags)
	if err != nil {
		return fmt.Errorf("upsert belief: %w", err)
	}
	return nil
}

func (r *PgBeliefRepository) FindByTag(ctx context.Context, tag string) ([]BeliefRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT character_id, belief_index, text, strength, tags
		FROM beliefs
		WHERE $1 = ANY(tags)
		ORDER BY character_id, belief_index
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("find beliefs by tag: %w", err)
	}
	defer rows.Close()
	var out []BeliefRow
	for rows.Next() {
		var row BeliefRow
		if err := rows.Scan(&row.CharacterID, &row.Index, &row.Text, &row.Strength, &row.Tags); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
