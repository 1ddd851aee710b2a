package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

const roleColumns = `id, sequence, name, description, created_at, updated_at`

// RoleRepository implements [models.RoleRepository].
type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "roles")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO roles (id, sequence, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sequence, role.Name, role.Description, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "role")
	}

	role.ID = id
	role.Sequence = sequence
	return nil
}

func (r *RoleRepository) Get(ctx context.Context, id string) (*models.Role, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = ?`, id), id)
}

// GetByName retrieves a role by name, ignoring case
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = ? COLLATE NOCASE`, name), name)
}

func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	role.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		role.Name, role.Description, now, role.ID,
	)
	if err != nil {
		return translate(err, "update", "role")
	}
	return expectAffected(result, "role", role.ID)
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete", "role")
	}
	return expectAffected(result, "role", id)
}

func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []*models.Role{}
	for rows.Next() {
		role, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return roles, nil
}

func (r *RoleRepository) scanOne(row *sql.Row, key string) (*models.Role, error) {
	role, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("role", key)
	}
	return role, err
}

func (r *RoleRepository) scan(s scanner) (*models.Role, error) {
	var role models.Role
	err := s.Scan(&role.ID, &role.Sequence, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}
	return &role, nil
}
