package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, address, phone, email, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	clinic.ID = uuid.New()
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = time.Now()

	settings, err := json.Marshal(clinic.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal clinic settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		clinic.ID,
		clinic.Name,
		clinic.Address,
		clinic.Phone,
		clinic.Email,
		clinic.Status,
		settings,
		clinic.CreatedAt,
		clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, address, phone, email, status, settings, created_at, updated_at
		FROM clinics
		WHERE id = $1 AND deleted_at IS NULL
	`
	row := r.db.QueryRowxContext(ctx, query, id)

	clinic, err := scanClinic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("clinic", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, address = $2, phone = $3, email = $4, status = $5, settings = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`
	clinic.UpdatedAt = time.Now()

	settings, err := json.Marshal(clinic.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal clinic settings: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name,
		clinic.Address,
		clinic.Phone,
		clinic.Email,
		clinic.Status,
		settings,
		clinic.UpdatedAt,
		clinic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("clinic", nil)
	}

	return nil
}

func (r *clinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE clinics
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("clinic", nil)
	}

	return nil
}

func (r *clinicRepository) List(ctx context.Context) ([]*model.Clinic, error) {
	query := `
		SELECT id, name, address, phone, email, status, settings, created_at, updated_at
		FROM clinics
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	defer rows.Close()

	var clinics []*model.Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clinic: %w", err)
		}
		clinics = append(clinics, clinic)
	}
	return clinics, rows.Err()
}

func (r *clinicRepository) ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT id, email, name, password_hash, phone, user_type, status, role_id, clinic_id,
		       login_attempts, last_login_attempt, last_login_at, created_at, updated_at
		FROM users
		WHERE clinic_id = $1 AND user_type IN ($2, $3) AND deleted_at IS NULL
		ORDER BY name ASC
	`
	var staff []*model.User
	err := r.db.SelectContext(ctx, &staff, query, clinicID, model.UserTypeStaff, model.UserTypeDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinic staff: %w", err)
	}
	return staff, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClinic(row rowScanner) (*model.Clinic, error) {
	var clinic model.Clinic
	var settings []byte
	err := row.Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.Address,
		&clinic.Phone,
		&clinic.Email,
		&clinic.Status,
		&settings,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &clinic.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal clinic settings: %w", err)
		}
	}
	return &clinic, nil
}
