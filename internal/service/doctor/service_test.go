package doctor

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

type fakeDoctorRepo struct {
	repository.DoctorRepository
	schedules []*model.DoctorSchedule
	timeOff   []*model.DoctorTimeOff
	created   []*model.DoctorSchedule
}

func (f *fakeDoctorRepo) ListSchedulesForDay(_ context.Context, doctorID uuid.UUID, dayOfWeek int) ([]*model.DoctorSchedule, error) {
	var out []*model.DoctorSchedule
	for _, s := range f.schedules {
		if s.DoctorID == doctorID && s.DayOfWeek == dayOfWeek && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) ListTimeOff(_ context.Context, doctorID uuid.UUID) ([]*model.DoctorTimeOff, error) {
	var out []*model.DoctorTimeOff
	for _, t := range f.timeOff {
		if t.DoctorID == doctorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) CreateSchedule(_ context.Context, schedule *model.DoctorSchedule) error {
	f.created = append(f.created, schedule)
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func str(s string) *string { return &s }

func weekdaySchedule(doctorID uuid.UUID, day int) *model.DoctorSchedule {
	return &model.DoctorSchedule{
		DoctorID:       doctorID,
		DayOfWeek:      day,
		StartTime:      "09:00",
		EndTime:        "17:00",
		BreakStartTime: str("12:00"),
		BreakEndTime:   str("13:00"),
		IsActive:       true,
	}
}

func TestIsAvailable(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{schedules: []*model.DoctorSchedule{weekdaySchedule(doctorID, 2)}}
	svc := NewService(repo, &fakeUserRepo{})
	ctx := context.Background()

	tests := []struct {
		name      string
		dayOfWeek int
		at        string
		want      bool
	}{
		{"inside working hours", 2, "11:30", true},
		{"inside break", 2, "12:30", false},
		{"after hours", 2, "18:00", false},
		{"wrong day", 3, "11:30", false},
		{"start boundary inclusive", 2, "09:00", true},
		{"end boundary inclusive", 2, "17:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsAvailable(ctx, doctorID, tt.dayOfWeek, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailableNoSchedule(t *testing.T) {
	svc := NewService(&fakeDoctorRepo{}, &fakeUserRepo{})

	got, err := svc.IsAvailable(context.Background(), uuid.New(), 2, "11:30")
	require.NoError(t, err)
	assert.False(t, got, "a doctor with no schedule rows is never available")
}

func TestIsAvailableInvalidInput(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{schedules: []*model.DoctorSchedule{weekdaySchedule(doctorID, 2)}}
	svc := NewService(repo, &fakeUserRepo{})
	ctx := context.Background()

	_, err := svc.IsAvailable(ctx, doctorID, 7, "11:30")
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.IsAvailable(ctx, doctorID, -1, "11:30")
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.IsAvailable(ctx, doctorID, 2, "25:99")
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestIsAvailableSplitShift(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeDoctorRepo{schedules: []*model.DoctorSchedule{
		{DoctorID: doctorID, DayOfWeek: 1, StartTime: "08:00", EndTime: "12:00", IsActive: true},
		{DoctorID: doctorID, DayOfWeek: 1, StartTime: "14:00", EndTime: "18:00", IsActive: true},
	}}
	svc := NewService(repo, &fakeUserRepo{})
	ctx := context.Background()

	got, err := svc.IsAvailable(ctx, doctorID, 1, "15:00")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.IsAvailable(ctx, doctorID, 1, "13:00")
	require.NoError(t, err)
	assert.False(t, got, "the gap between shifts is unavailable")
}

func TestIsOnTimeOff(t *testing.T) {
	doctorID := uuid.New()
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}
	repo := &fakeDoctorRepo{timeOff: []*model.DoctorTimeOff{
		{DoctorID: doctorID, StartDate: day("2024-07-01"), EndDate: day("2024-07-10")},
	}}
	svc := NewService(repo, &fakeUserRepo{})
	ctx := context.Background()

	tests := []struct {
		date string
		want bool
	}{
		{"2024-06-30", false},
		{"2024-07-01", true},
		{"2024-07-05", true},
		{"2024-07-10", true},
		{"2024-07-11", false},
	}
	for _, tt := range tests {
		got, err := svc.IsOnTimeOff(ctx, doctorID, day(tt.date))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "date %s", tt.date)
	}

	got, err := svc.IsOnTimeOff(ctx, uuid.New(), day("2024-07-05"))
	require.NoError(t, err)
	assert.False(t, got, "no time off records means not on leave")
}

func TestCreateScheduleValidation(t *testing.T) {
	doctorID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		doctorID: {UserType: model.UserTypeDoctor},
	}}
	repo := &fakeDoctorRepo{}
	svc := NewService(repo, users)
	ctx := context.Background()

	schedule := weekdaySchedule(doctorID, 2)
	require.NoError(t, svc.CreateSchedule(ctx, schedule))
	assert.Len(t, repo.created, 1)

	bad := weekdaySchedule(doctorID, 2)
	bad.StartTime, bad.EndTime = "17:00", "09:00"
	err := svc.CreateSchedule(ctx, bad)
	assert.True(t, apperrors.IsInvalidArgument(err))

	bad = weekdaySchedule(doctorID, 2)
	bad.BreakEndTime = str("18:00")
	err = svc.CreateSchedule(ctx, bad)
	assert.True(t, apperrors.IsInvalidArgument(err), "break must stay inside the window")

	err = svc.CreateSchedule(ctx, weekdaySchedule(uuid.New(), 2))
	assert.True(t, apperrors.IsNotFound(err), "unknown doctor is rejected")
}

func TestCreateTimeOffValidation(t *testing.T) {
	doctorID := uuid.New()
	staffID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		doctorID: {UserType: model.UserTypeDoctor},
		staffID:  {UserType: model.UserTypeStaff},
	}}
	svc := NewService(&fakeDoctorRepo{}, users)
	ctx := context.Background()

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	err := svc.CreateTimeOff(ctx, &model.DoctorTimeOff{
		DoctorID:  doctorID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
	})
	assert.True(t, apperrors.IsInvalidArgument(err))

	err = svc.CreateTimeOff(ctx, &model.DoctorTimeOff{
		DoctorID:  staffID,
		StartDate: start,
		EndDate:   start,
	})
	assert.Error(t, err, "non-doctor users cannot take doctor time off")
}
