package form

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type Service struct {
	repo repository.FormRepository
}

func NewService(repo repository.FormRepository) *Service {
	return &Service{repo: repo}
}

// Create registers a form definition. New forms start unpublished.
func (s *Service) Create(ctx context.Context, req *model.CreateFormRequest) (*model.Form, error) {
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return nil, apperrors.NewInvalidArgument("malformed clinic id")
	}
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	form := &model.Form{
		ClinicID:    clinicID,
		Name:        req.Name,
		Description: req.Description,
		Fields:      req.Fields,
		IsPublished: false,
	}
	if err := s.repo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	return form, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	return s.repo.Get(ctx, id)
}

// Update edits a form definition. Published forms cannot change shape;
// unpublish first.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateFormRequest) (*model.Form, error) {
	form, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.IsPublished && req.Fields != nil {
		return nil, apperrors.NewConflict("cannot change fields of a published form", nil)
	}

	if req.Name != nil {
		form.Name = *req.Name
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.Fields != nil {
		if err := validateFields(req.Fields); err != nil {
			return nil, err
		}
		form.Fields = req.Fields
	}

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return form, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Form, error) {
	return s.repo.List(ctx, clinicID)
}

func (s *Service) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SetPublished(ctx, id, published)
}

// Submit records a filled-in instance of a published form. The data is
// validated against the form's field schema: required fields must be
// present, select values must come from the field's options, and keys
// outside the schema are rejected.
func (s *Service) Submit(ctx context.Context, formID, submittedBy uuid.UUID, req *model.SubmitFormRequest) (*model.FormSubmission, error) {
	form, err := s.repo.Get(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !form.IsPublished {
		return nil, apperrors.NewConflict("form is not published", nil)
	}

	if err := validateSubmission(form.Fields, req.Data); err != nil {
		return nil, err
	}

	submission := &model.FormSubmission{
		FormID:      formID,
		SubmittedBy: submittedBy,
		Data:        req.Data,
	}
	if req.PatientID != nil {
		patientID, err := uuid.Parse(*req.PatientID)
		if err != nil {
			return nil, apperrors.NewInvalidArgument("malformed patient id")
		}
		submission.PatientID = &patientID
	}

	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return submission, nil
}

func (s *Service) GetSubmission(ctx context.Context, id uuid.UUID) (*model.FormSubmission, error) {
	return s.repo.GetSubmission(ctx, id)
}

func (s *Service) ListSubmissions(ctx context.Context, formID uuid.UUID) ([]*model.FormSubmission, error) {
	if _, err := s.repo.Get(ctx, formID); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, formID)
}

func validateFields(fields []model.FormField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return apperrors.NewInvalidArgument("field name is required")
		}
		if seen[f.Name] {
			return apperrors.NewInvalidArgument(fmt.Sprintf("duplicate field name %q", f.Name))
		}
		seen[f.Name] = true

		switch f.Type {
		case model.FieldTypeText, model.FieldTypeNumber, model.FieldTypeDate,
			model.FieldTypeCheckbox, model.FieldTypeTextarea:
		case model.FieldTypeSelect:
			if len(f.Options) == 0 {
				return apperrors.NewInvalidArgument(fmt.Sprintf("select field %q needs options", f.Name))
			}
		default:
			return apperrors.NewInvalidArgument(fmt.Sprintf("unknown field type %q", f.Type))
		}
	}
	return nil
}

func validateSubmission(fields model.FormFields, data model.SubmissionData) error {
	byName := make(map[string]model.FormField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	for key := range data {
		if _, ok := byName[key]; !ok {
			return apperrors.NewInvalidArgument(fmt.Sprintf("unknown field %q", key))
		}
	}

	for _, f := range fields {
		value, present := data[f.Name]
		if !present || value == nil || value == "" {
			if f.Required {
				return apperrors.NewInvalidArgument(fmt.Sprintf("field %q is required", f.Name))
			}
			continue
		}
		if f.Type == model.FieldTypeSelect {
			str, ok := value.(string)
			if !ok {
				return apperrors.NewInvalidArgument(fmt.Sprintf("field %q expects a string option", f.Name))
			}
			valid := false
			for _, opt := range f.Options {
				if opt == str {
					valid = true
					break
				}
			}
			if !valid {
				return apperrors.NewInvalidArgument(fmt.Sprintf("field %q has no option %q", f.Name, str))
			}
		}
	}
	return nil
}
