package form

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type fakeFormRepo struct {
	repository.FormRepository
	forms       map[uuid.UUID]*model.Form
	submissions []*model.FormSubmission
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: make(map[uuid.UUID]*model.Form)}
}

func (f *fakeFormRepo) Create(_ context.Context, form *model.Form) error {
	form.ID = uuid.New()
	f.forms[form.ID] = form
	return nil
}

func (f *fakeFormRepo) Get(_ context.Context, id uuid.UUID) (*model.Form, error) {
	if form, ok := f.forms[id]; ok {
		copied := *form
		return &copied, nil
	}
	return nil, apperrors.NewNotFound("form", nil)
}

func (f *fakeFormRepo) Update(_ context.Context, form *model.Form) error {
	f.forms[form.ID] = form
	return nil
}

func (f *fakeFormRepo) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	form, ok := f.forms[id]
	if !ok {
		return apperrors.NewNotFound("form", nil)
	}
	form.IsPublished = published
	return nil
}

func (f *fakeFormRepo) CreateSubmission(_ context.Context, s *model.FormSubmission) error {
	s.ID = uuid.New()
	f.submissions = append(f.submissions, s)
	return nil
}

func intakeFields() []model.FormField {
	return []model.FormField{
		{Name: "full_name", Label: "Full name", Type: model.FieldTypeText, Required: true},
		{Name: "visit_reason", Label: "Reason for visit", Type: model.FieldTypeSelect, Required: true, Options: []string{"checkup", "followup", "urgent"}},
		{Name: "notes", Label: "Notes", Type: model.FieldTypeTextarea},
	}
}

func newPublishedForm(t *testing.T, repo *fakeFormRepo, svc *Service) *model.Form {
	t.Helper()
	form, err := svc.Create(context.Background(), &model.CreateFormRequest{
		ClinicID: uuid.NewString(),
		Name:     "Intake",
		Fields:   intakeFields(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetPublished(context.Background(), form.ID, true))
	return repo.forms[form.ID]
}

func TestCreateValidatesFields(t *testing.T) {
	svc := NewService(newFakeFormRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateFormRequest{
		ClinicID: uuid.NewString(),
		Name:     "Broken",
		Fields:   []model.FormField{{Name: "choice", Type: model.FieldTypeSelect}},
	})
	assert.True(t, apperrors.IsInvalidArgument(err), "select fields need options")

	_, err = svc.Create(ctx, &model.CreateFormRequest{
		ClinicID: uuid.NewString(),
		Name:     "Broken",
		Fields: []model.FormField{
			{Name: "a", Type: model.FieldTypeText},
			{Name: "a", Type: model.FieldTypeText},
		},
	})
	assert.True(t, apperrors.IsInvalidArgument(err), "duplicate field names are rejected")

	form, err := svc.Create(ctx, &model.CreateFormRequest{
		ClinicID: uuid.NewString(),
		Name:     "Intake",
		Fields:   intakeFields(),
	})
	require.NoError(t, err)
	assert.False(t, form.IsPublished, "new forms start unpublished")
}

func TestSubmitRequiresPublishedForm(t *testing.T) {
	repo := newFakeFormRepo()
	svc := NewService(repo)
	ctx := context.Background()

	form, err := svc.Create(ctx, &model.CreateFormRequest{
		ClinicID: uuid.NewString(),
		Name:     "Intake",
		Fields:   intakeFields(),
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, form.ID, uuid.New(), &model.SubmitFormRequest{
		Data: model.SubmissionData{"full_name": "Jan Kowalski", "visit_reason": "checkup"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not published")
}

func TestSubmitValidatesData(t *testing.T) {
	repo := newFakeFormRepo()
	svc := NewService(repo)
	ctx := context.Background()
	form := newPublishedForm(t, repo, svc)

	// Missing required field.
	_, err := svc.Submit(ctx, form.ID, uuid.New(), &model.SubmitFormRequest{
		Data: model.SubmissionData{"visit_reason": "checkup"},
	})
	assert.True(t, apperrors.IsInvalidArgument(err))

	// Unknown key.
	_, err = svc.Submit(ctx, form.ID, uuid.New(), &model.SubmitFormRequest{
		Data: model.SubmissionData{"full_name": "Jan Kowalski", "visit_reason": "checkup", "ssn": "123"},
	})
	assert.True(t, apperrors.IsInvalidArgument(err))

	// Option outside the select field's list.
	_, err = svc.Submit(ctx, form.ID, uuid.New(), &model.SubmitFormRequest{
		Data: model.SubmissionData{"full_name": "Jan Kowalski", "visit_reason": "surgery"},
	})
	assert.True(t, apperrors.IsInvalidArgument(err))

	// Valid submission; the optional field may be absent.
	sub, err := svc.Submit(ctx, form.ID, uuid.New(), &model.SubmitFormRequest{
		Data: model.SubmissionData{"full_name": "Jan Kowalski", "visit_reason": "checkup"},
	})
	require.NoError(t, err)
	assert.Equal(t, form.ID, sub.FormID)
	assert.Len(t, repo.submissions, 1)
}

func TestUpdatePublishedFormFields(t *testing.T) {
	repo := newFakeFormRepo()
	svc := NewService(repo)
	ctx := context.Background()
	form := newPublishedForm(t, repo, svc)

	newFields := []model.FormField{{Name: "only", Type: model.FieldTypeText}}
	_, err := svc.Update(ctx, form.ID, &model.UpdateFormRequest{Fields: newFields})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "published")

	// Name edits stay allowed.
	name := "Intake v2"
	updated, err := svc.Update(ctx, form.ID, &model.UpdateFormRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Intake v2", updated.Name)
}
