package appointment

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

// AvailabilityChecker answers scheduling questions about a doctor.
// Satisfied by the doctor service.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, doctorID uuid.UUID, dayOfWeek int, at string) (bool, error)
	IsOnTimeOff(ctx context.Context, doctorID uuid.UUID, date time.Time) (bool, error)
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	checker     AvailabilityChecker
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository, checker AvailabilityChecker) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		checker:     checker,
	}
}

// Book creates an appointment after verifying, in order: the slot times
// are well formed, the doctor is not on time off, the doctor's weekly
// schedule covers the slot, and no other appointment overlaps it.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	clinicID, doctorID, patientID, err := parseBookingIDs(req)
	if err != nil {
		return nil, err
	}

	if err := validateSlot(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	onLeave, err := s.checker.IsOnTimeOff(ctx, doctorID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check time off: %w", err)
	}
	if onLeave {
		return nil, apperrors.NewConflict("doctor is on time off", nil)
	}

	dayOfWeek := int(req.Date.Weekday())
	for _, at := range []string{req.StartTime, req.EndTime} {
		ok, err := s.checker.IsAvailable(ctx, doctorID, dayOfWeek, at)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability: %w", err)
		}
		if !ok {
			return nil, apperrors.NewConflict("doctor is not available at the requested time", nil)
		}
	}

	conflict, err := s.repo.CheckConflict(ctx, doctorID, req.Date, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		return nil, apperrors.NewConflict("slot overlaps an existing appointment", nil)
	}

	appointment := &model.Appointment{
		ClinicID:  clinicID,
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.AppointmentStatusScheduled,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Reschedule moves an appointment to a new date or slot, re-running the
// booking checks. Cancelled and completed appointments cannot move.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.AppointmentStatusCancelled || appointment.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.NewConflict(fmt.Sprintf("cannot modify a %s appointment", appointment.Status), nil)
	}

	if req.Date != nil {
		appointment.Date = *req.Date
	}
	if req.StartTime != nil {
		appointment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appointment.EndTime = *req.EndTime
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if req.Date != nil || req.StartTime != nil || req.EndTime != nil {
		if err := validateSlot(appointment.StartTime, appointment.EndTime); err != nil {
			return nil, err
		}

		onLeave, err := s.checker.IsOnTimeOff(ctx, appointment.DoctorID, appointment.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to check time off: %w", err)
		}
		if onLeave {
			return nil, apperrors.NewConflict("doctor is on time off", nil)
		}

		dayOfWeek := int(appointment.Date.Weekday())
		for _, at := range []string{appointment.StartTime, appointment.EndTime} {
			ok, err := s.checker.IsAvailable(ctx, appointment.DoctorID, dayOfWeek, at)
			if err != nil {
				return nil, fmt.Errorf("failed to check availability: %w", err)
			}
			if !ok {
				return nil, apperrors.NewConflict("doctor is not available at the requested time", nil)
			}
		}

		conflict, err := s.repo.CheckConflict(ctx, appointment.DoctorID, appointment.Date, appointment.StartTime, appointment.EndTime, &appointment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check conflicts: %w", err)
		}
		if conflict {
			return nil, apperrors.NewConflict("slot overlaps an existing appointment", nil)
		}
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

// Confirm moves a scheduled appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, model.AppointmentStatusScheduled)
}

// Complete marks a confirmed or scheduled appointment as completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted, model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed)
}

// Cancel cancels a not-yet-completed appointment, recording the reason.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.AppointmentStatusCompleted || appointment.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.NewConflict(fmt.Sprintf("cannot cancel a %s appointment", appointment.Status), nil)
	}

	appointment.Status = model.AppointmentStatusCancelled
	appointment.CancelReason = &reason
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, from ...model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if appointment.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewConflict(fmt.Sprintf("cannot move a %s appointment to %s", appointment.Status, to), nil)
	}

	appointment.Status = to
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func parseBookingIDs(req *model.CreateAppointmentRequest) (clinicID, doctorID, patientID uuid.UUID, err error) {
	clinicID, err = uuid.Parse(req.ClinicID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apperrors.NewInvalidArgument("malformed clinic id")
	}
	doctorID, err = uuid.Parse(req.DoctorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apperrors.NewInvalidArgument("malformed doctor id")
	}
	patientID, err = uuid.Parse(req.PatientID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apperrors.NewInvalidArgument("malformed patient id")
	}
	return clinicID, doctorID, patientID, nil
}

func validateSlot(startTime, endTime string) error {
	start := availability.Clock(startTime)
	end := availability.Clock(endTime)
	if !start.Valid() || !end.Valid() {
		return apperrors.NewInvalidArgument("malformed appointment times")
	}
	if start >= end {
		return apperrors.NewInvalidArgument("appointment start must precede end")
	}
	return nil
}
