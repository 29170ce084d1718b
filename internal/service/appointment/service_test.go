package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	appointments map[uuid.UUID]*model.Appointment
	conflict     bool
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	if f.appointments == nil {
		f.appointments = make(map[uuid.UUID]*model.Appointment)
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperrors.NewNotFound("appointment", nil)
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := f.appointments[a.ID]; !ok {
		return apperrors.NewNotFound("appointment", nil)
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) CheckConflict(_ context.Context, _ uuid.UUID, _ time.Time, _, _ string, _ *uuid.UUID) (bool, error) {
	return f.conflict, nil
}

type fakePatientRepo struct {
	repository.PatientRepository
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if p, ok := f.patients[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFound("patient", nil)
}

type fakeChecker struct {
	available bool
	onLeave   bool
}

func (f *fakeChecker) IsAvailable(_ context.Context, _ uuid.UUID, _ int, _ string) (bool, error) {
	return f.available, nil
}

func (f *fakeChecker) IsOnTimeOff(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return f.onLeave, nil
}

func bookingRequest(patientID uuid.UUID) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		ClinicID:  uuid.NewString(),
		DoctorID:  uuid.NewString(),
		PatientID: patientID.String(),
		Date:      time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC), // a Tuesday
		StartTime: "10:00",
		EndTime:   "10:30",
	}
}

func newBookingFixture(checker *fakeChecker) (*Service, *fakeAppointmentRepo, uuid.UUID) {
	patientID := uuid.New()
	repo := &fakeAppointmentRepo{}
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patientID: {}}}
	return NewService(repo, patients, checker), repo, patientID
}

func TestBook(t *testing.T) {
	svc, repo, patientID := newBookingFixture(&fakeChecker{available: true})

	appt, err := svc.Book(context.Background(), bookingRequest(patientID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Len(t, repo.appointments, 1)
}

func TestBookDoctorOnTimeOff(t *testing.T) {
	svc, _, patientID := newBookingFixture(&fakeChecker{available: true, onLeave: true})

	_, err := svc.Book(context.Background(), bookingRequest(patientID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time off")
}

func TestBookDoctorNotAvailable(t *testing.T) {
	svc, _, patientID := newBookingFixture(&fakeChecker{available: false})

	_, err := svc.Book(context.Background(), bookingRequest(patientID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestBookSlotConflict(t *testing.T) {
	svc, repo, patientID := newBookingFixture(&fakeChecker{available: true})
	repo.conflict = true

	_, err := svc.Book(context.Background(), bookingRequest(patientID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")
}

func TestBookInvalidSlot(t *testing.T) {
	svc, _, patientID := newBookingFixture(&fakeChecker{available: true})

	req := bookingRequest(patientID)
	req.StartTime, req.EndTime = "10:30", "10:00"
	_, err := svc.Book(context.Background(), req)
	assert.True(t, apperrors.IsInvalidArgument(err))

	req = bookingRequest(patientID)
	req.StartTime = "half past ten"
	_, err = svc.Book(context.Background(), req)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestBookUnknownPatient(t *testing.T) {
	svc, _, _ := newBookingFixture(&fakeChecker{available: true})

	_, err := svc.Book(context.Background(), bookingRequest(uuid.New()))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStatusTransitions(t *testing.T) {
	svc, _, patientID := newBookingFixture(&fakeChecker{available: true})
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest(patientID))
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	// Confirming twice is rejected.
	_, err = svc.Confirm(ctx, appt.ID)
	assert.Error(t, err)

	completed, err := svc.Complete(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)

	_, err = svc.Cancel(ctx, appt.ID, "no longer needed")
	assert.Error(t, err, "completed appointments cannot be cancelled")
}

func TestCancel(t *testing.T) {
	svc, _, patientID := newBookingFixture(&fakeChecker{available: true})
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest(patientID))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, appt.ID, "patient request")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "patient request", *cancelled.CancelReason)

	_, err = svc.Reschedule(ctx, appt.ID, &model.UpdateAppointmentRequest{})
	assert.Error(t, err, "cancelled appointments cannot move")
}

func TestReschedule(t *testing.T) {
	checker := &fakeChecker{available: true}
	svc, _, patientID := newBookingFixture(checker)
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest(patientID))
	require.NoError(t, err)

	newStart, newEnd := "14:00", "14:30"
	moved, err := svc.Reschedule(ctx, appt.ID, &model.UpdateAppointmentRequest{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	require.NoError(t, err)
	assert.Equal(t, "14:00", moved.StartTime)

	checker.available = false
	_, err = svc.Reschedule(ctx, appt.ID, &model.UpdateAppointmentRequest{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	assert.Error(t, err, "rescheduling re-runs the availability checks")
}
