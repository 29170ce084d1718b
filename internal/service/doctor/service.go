package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	"github.com/medora-health/emr-admin-api/pkg/availability"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type Service struct {
	repo     repository.DoctorRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.DoctorRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
	}
}

// IsAvailable reports whether the doctor has an active schedule window
// covering the given day-of-week and "HH:MM" time. A doctor with no
// schedule rows is never available.
func (s *Service) IsAvailable(ctx context.Context, doctorID uuid.UUID, dayOfWeek int, at string) (bool, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return false, apperrors.NewInvalidArgument(fmt.Sprintf("day of week %d outside 0-6", dayOfWeek))
	}
	clock := availability.Clock(at)
	if !clock.Valid() {
		return false, apperrors.NewInvalidArgument(fmt.Sprintf("malformed clock time %q", at))
	}

	schedules, err := s.repo.ListSchedulesForDay(ctx, doctorID, dayOfWeek)
	if err != nil {
		return false, fmt.Errorf("failed to load doctor schedules: %w", err)
	}

	windows := make([]availability.ScheduleWindow, 0, len(schedules))
	for _, row := range schedules {
		windows = append(windows, row.Window())
	}
	return availability.Covers(windows, dayOfWeek, clock)
}

// IsOnTimeOff reports whether the date falls inside any of the doctor's
// time-off ranges, inclusive on both ends.
func (s *Service) IsOnTimeOff(ctx context.Context, doctorID uuid.UUID, date time.Time) (bool, error) {
	records, err := s.repo.ListTimeOff(ctx, doctorID)
	if err != nil {
		return false, fmt.Errorf("failed to load doctor time off: %w", err)
	}

	ranges := make([]availability.TimeOffRange, 0, len(records))
	for _, rec := range records {
		ranges = append(ranges, rec.Range())
	}
	return availability.OnTimeOff(ranges, date), nil
}

// CreateSchedule adds a weekly recurring availability row. The doctor must
// exist and be a doctor-type user; the window must satisfy the schedule
// invariants.
func (s *Service) CreateSchedule(ctx context.Context, schedule *model.DoctorSchedule) error {
	if err := s.verifyDoctor(ctx, schedule.DoctorID); err != nil {
		return err
	}
	if err := availability.ValidateWindow(schedule.Window()); err != nil {
		return err
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*model.DoctorSchedule, error) {
	return s.repo.GetSchedule(ctx, id)
}

func (s *Service) UpdateSchedule(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorScheduleRequest) (*model.DoctorSchedule, error) {
	schedule, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.BreakStartTime != nil {
		schedule.BreakStartTime = req.BreakStartTime
	}
	if req.BreakEndTime != nil {
		schedule.BreakEndTime = req.BreakEndTime
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := availability.ValidateWindow(schedule.Window()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSchedule(ctx, id)
}

func (s *Service) ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error) {
	return s.repo.ListSchedules(ctx, doctorID)
}

// CreateTimeOff records an approved leave interval, inclusive on both ends.
// Overlap with existing ranges is allowed.
func (s *Service) CreateTimeOff(ctx context.Context, timeOff *model.DoctorTimeOff) error {
	if err := s.verifyDoctor(ctx, timeOff.DoctorID); err != nil {
		return err
	}
	if timeOff.EndDate.Before(timeOff.StartDate) {
		return apperrors.NewInvalidArgument("time off end date precedes start date")
	}
	if err := s.repo.CreateTimeOff(ctx, timeOff); err != nil {
		return fmt.Errorf("failed to create time off: %w", err)
	}
	return nil
}

func (s *Service) DeleteTimeOff(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTimeOff(ctx, id)
}

func (s *Service) ListTimeOff(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorTimeOff, error) {
	return s.repo.ListTimeOff(ctx, doctorID)
}

func (s *Service) verifyDoctor(ctx context.Context, doctorID uuid.UUID) error {
	user, err := s.userRepo.Get(ctx, doctorID)
	if err != nil {
		return err
	}
	if user.UserType != model.UserTypeDoctor {
		return apperrors.NewBadRequest("user is not a doctor", nil)
	}
	return nil
}
