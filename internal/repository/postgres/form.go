package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

func (r *formRepository) Create(ctx context.Context, form *model.Form) error {
	query := `
		INSERT INTO forms (id, clinic_id, name, description, fields, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	form.ID = uuid.New()
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		form.ID,
		form.ClinicID,
		form.Name,
		form.Description,
		form.Fields,
		form.IsPublished,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	return nil
}

func (r *formRepository) Get(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	query := `
		SELECT id, clinic_id, name, description, fields, is_published, created_at, updated_at
		FROM forms
		WHERE id = $1 AND deleted_at IS NULL
	`
	var form model.Form
	err := r.db.GetContext(ctx, &form, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("form", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return &form, nil
}

func (r *formRepository) Update(ctx context.Context, form *model.Form) error {
	query := `
		UPDATE forms
		SET name = $1, description = $2, fields = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	form.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		form.Name,
		form.Description,
		form.Fields,
		form.UpdatedAt,
		form.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("form", nil)
	}

	return nil
}

func (r *formRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE forms
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("form", nil)
	}

	return nil
}

func (r *formRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Form, error) {
	query := `
		SELECT id, clinic_id, name, description, fields, is_published, created_at, updated_at
		FROM forms
		WHERE clinic_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var forms []*model.Form
	err := r.db.SelectContext(ctx, &forms, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

func (r *formRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	query := `
		UPDATE forms
		SET is_published = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, published, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set form published: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("form", nil)
	}

	return nil
}

func (r *formRepository) CreateSubmission(ctx context.Context, submission *model.FormSubmission) error {
	query := `
		INSERT INTO form_submissions (id, form_id, patient_id, submitted_by, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	submission.ID = uuid.New()
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.FormID,
		submission.PatientID,
		submission.SubmittedBy,
		submission.Data,
		submission.CreatedAt,
		submission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form submission: %w", err)
	}
	return nil
}

func (r *formRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*model.FormSubmission, error) {
	query := `
		SELECT id, form_id, patient_id, submitted_by, data, created_at, updated_at
		FROM form_submissions
		WHERE id = $1
	`
	var submission model.FormSubmission
	err := r.db.GetContext(ctx, &submission, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("form submission", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form submission: %w", err)
	}
	return &submission, nil
}

func (r *formRepository) ListSubmissions(ctx context.Context, formID uuid.UUID) ([]*model.FormSubmission, error) {
	query := `
		SELECT id, form_id, patient_id, submitted_by, data, created_at, updated_at
		FROM form_submissions
		WHERE form_id = $1
		ORDER BY created_at DESC
	`
	var submissions []*model.FormSubmission
	err := r.db.SelectContext(ctx, &submissions, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list form submissions: %w", err)
	}
	return submissions, nil
}
