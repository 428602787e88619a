package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"soulengine/internal/domain"
)

// ErrCharacterNotFound is returned when no snapshot exists for the
// requested character id.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterRepository is the persistence seam CharacterService depends
// on, satisfied by PgCharacterRepository. Extracted as an interface so
// the service layer can be tested against an in-memory fake instead of
// a live Postgres pool.
type CharacterRepository interface {
	Save(ctx context.Context, snap domain.CharacterSnapshot) error
	FindByID(ctx context.Context, id string) (domain.CharacterSnapshot, error)
	Delete(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
}

// PgCharacterRepository persists the full character snapshot (core
// emotions, history, presentation, beliefs, triggers) as a single
// JSONB document, addressed by the character's own id. Soul Engine
// characters don't decompose cleanly into relational columns the way
// the teacher's trait rows did — the snapshot is a closed whole that
// domain.FromSnapshot reconstructs in one shot.
type PgCharacterRepository struct {
	pool *pgxpool.Pool
}

func NewPgCharacterRepository(pool *pgxpool.Pool) *PgCharacterRepository {
	return &PgCharacterRepository{pool: pool}
}

func (r *PgCharacterRepository) Save(ctx context.Context, snap domain.CharacterSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal character snapshot: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO character_snapshots (id, personality, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET personality = $2, data = $3, updated_at = now()
	`, snap.ID, string(snap.Personality), data)
	if err != nil {
		return fmt.Errorf("save character snapshot: %w", err)
	}
	return nil
}

func (r *PgCharacterRepository) FindByID(ctx context.Context, id string) (domain.CharacterSnapshot, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM character_snapshots WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CharacterSnapshot{}, ErrCharacterNotFound
	}
	if err != nil {
		return domain.CharacterSnapshot{}, fmt.Errorf("find character snapshot: %w", err)
	}
	var snap domain.CharacterSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.CharacterSnapshot{}, fmt.Errorf("unmarshal character snapshot: %w", err)
	}
	return snap, nil
}

func (r *PgCharacterRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM character_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete character snapshot: %w", err)
	}
	return nil
}

func (r *PgCharacterRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM character_snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list character ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
