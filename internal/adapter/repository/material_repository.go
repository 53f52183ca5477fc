package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugohenrick/gestao-obras/internal/domain/material"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaterialRepository implementa a interface material.Repository usando PostgreSQL
type MaterialRepository struct {
	db *pgxpool.Pool
}

// NewMaterialRepository cria uma nova instância de MaterialRepository
func NewMaterialRepository(db *pgxpool.Pool) material.Repository {
	return &MaterialRepository{db: db}
}

// Create implementa material.Repository.Create
func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO materials (id, name, unit, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Unit, m.Description, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return translateError(err, "criar material", "material", m.ID)
	}
	return nil
}

// FindByID implementa material.Repository.FindByID
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*material.Material, error) {
	var m material.Material
	err := r.db.QueryRow(ctx,
		`SELECT id, name, unit, description, created_at, updated_at
		FROM materials WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Unit, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "buscar material", "material", id)
	}
	return &m, nil
}

// List implementa material.Repository.List
func (r *MaterialRepository) List(ctx context.Context, limit, offset int) ([]*material.Material, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, unit, description, created_at, updated_at
		FROM materials ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar materiais: %w", err)
	}
	defer rows.Close()

	var materials []*material.Material
	for rows.Next() {
		var m material.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler material: %w", err)
		}
		materials = append(materials, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar materiais: %w", err)
	}
	return materials, nil
}

// Count implementa material.Repository.Count
func (r *MaterialRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar materiais: %w", err)
	}
	return count, nil
}

// FindMissing implementa material.Repository.FindMissing
func (r *MaterialRepository) FindMissing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	canonical, wellFormed, missing := splitMaterialIDs(ids)
	if len(canonical) == 0 {
		return missing, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT w.idx FROM unnest($1::uuid[]) WITH ORDINALITY AS w(wanted, idx)
		WHERE NOT EXISTS (SELECT 1 FROM materials m WHERE m.id = w.wanted)
		ORDER BY w.idx`, canonical)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar materiais: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("erro ao ler material ausente: %w", err)
		}
		missing = append(missing, wellFormed[idx-1])
	}
	return missing, rows.Err()
}

// splitMaterialIDs separa os IDs bem formados dos mal formados, que nunca
// correspondem a um material. canonical[i] é a forma canônica de original[i].
func splitMaterialIDs(ids []string) (canonical, original, malformed []string) {
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			malformed = append(malformed, id)
			continue
		}
		canonical = append(canonical, parsed.String())
		original = append(original, id)
	}
	return canonical, original, malformed
}
