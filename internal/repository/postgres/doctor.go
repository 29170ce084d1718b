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

func (r *doctorRepository) CreateSchedule(ctx context.Context, schedule *model.DoctorSchedule) error {
	query := `
		INSERT INTO doctor_schedules (id, doctor_id, day_of_week, start_time, end_time, break_start_time, break_end_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.DoctorID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.BreakStartTime,
		schedule.BreakEndTime,
		schedule.IsActive,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor schedule: %w", err)
	}
	return nil
}

func (r *doctorRepository) GetSchedule(ctx context.Context, id uuid.UUID) (*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, break_start_time, break_end_time, is_active, created_at, updated_at
		FROM doctor_schedules
		WHERE id = $1
	`
	var schedule model.DoctorSchedule
	err := r.db.GetContext(ctx, &schedule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor schedule", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor schedule: %w", err)
	}
	return &schedule, nil
}

func (r *doctorRepository) UpdateSchedule(ctx context.Context, schedule *model.DoctorSchedule) error {
	query := `
		UPDATE doctor_schedules
		SET start_time = $1, end_time = $2, break_start_time = $3, break_end_time = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`
	schedule.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		schedule.StartTime,
		schedule.EndTime,
		schedule.BreakStartTime,
		schedule.BreakEndTime,
		schedule.IsActive,
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor schedule", nil)
	}

	return nil
}

func (r *doctorRepository) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctor_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor schedule", nil)
	}
	return nil
}

func (r *doctorRepository) ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, break_start_time, break_end_time, is_active, created_at, updated_at
		FROM doctor_schedules
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_time
	`
	var schedules []*model.DoctorSchedule
	err := r.db.SelectContext(ctx, &schedules, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor schedules: %w", err)
	}
	return schedules, nil
}

func (r *doctorRepository) ListSchedulesForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) ([]*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, break_start_time, break_end_time, is_active, created_at, updated_at
		FROM doctor_schedules
		WHERE doctor_id = $1 AND day_of_week = $2 AND is_active = true
		ORDER BY start_time
	`
	var schedules []*model.DoctorSchedule
	err := r.db.SelectContext(ctx, &schedules, query, doctorID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor schedules for day: %w", err)
	}
	return schedules, nil
}

func (r *doctorRepository) CreateTimeOff(ctx context.Context, timeOff *model.DoctorTimeOff) error {
	query := `
		INSERT INTO doctor_time_off (id, doctor_id, start_date, end_date, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	timeOff.ID = uuid.New()
	timeOff.CreatedAt = time.Now()
	timeOff.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		timeOff.ID,
		timeOff.DoctorID,
		timeOff.StartDate,
		timeOff.EndDate,
		timeOff.Reason,
		timeOff.CreatedAt,
		timeOff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor time off: %w", err)
	}
	return nil
}

func (r *doctorRepository) DeleteTimeOff(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctor_time_off WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor time off: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor time off", nil)
	}
	return nil
}

func (r *doctorRepository) ListTimeOff(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorTimeOff, error) {
	query := `
		SELECT id, doctor_id, start_date, end_date, reason, created_at, updated_at
		FROM doctor_time_off
		WHERE doctor_id = $1
		ORDER BY start_date DESC
	`
	var timeOff []*model.DoctorTimeOff
	err := r.db.SelectContext(ctx, &timeOff, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor time off: %w", err)
	}
	return timeOff, nil
}
