package clinic

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
)

type Service struct {
	repo repository.ClinicRepository
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{repo: repo}
}

// Onboard registers a new clinic. New clinics start in the onboarded
// state and are activated explicitly.
func (s *Service) Onboard(ctx context.Context, req *model.CreateClinicRequest) (*model.Clinic, error) {
	clinic := &model.Clinic{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   model.ClinicStatusOnboarded,
		Settings: model.JSONMap{},
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to onboard clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Phone != nil {
		clinic.Phone = req.Phone
	}
	if req.Email != nil {
		clinic.Email = req.Email
	}
	if req.Status != nil {
		clinic.Status = *req.Status
	}

	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Clinic, error) {
	return s.repo.List(ctx)
}

// ListStaff returns the clinic's staff and doctor users.
func (s *Service) ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	if _, err := s.repo.Get(ctx, clinicID); err != nil {
		return nil, err
	}
	return s.repo.ListStaff(ctx, clinicID)
}
