package service

import (
	"context"
	"fmt"

	"blood-bank-dashboard/internal/models"
)

type HospitalStore interface {
	GetAllHospitals(ctx context.Context) ([]models.Hospital, error)
	GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error)
}

type HospitalService struct {
	store HospitalStore
}

func NewHospitalService(store HospitalStore) *HospitalService {
	return &HospitalService{store: store}
}

// GetAllHospitals lists the active hospitals requests can be raised for
func (s *HospitalService) GetAllHospitals(ctx context.Context) ([]models.Hospital, error) {
	hospitals, err := s.store.GetAllHospitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get hospitals: %w", err)
	}
	return hospitals, nil
}

func (s *HospitalService) GetHospitalByID(ctx context.Context, id string) (*models.Hospital, error) {
	hospital, err := s.store.GetHospitalByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return hospital, nil
}
