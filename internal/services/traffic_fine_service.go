package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
)

type TrafficFineService struct {
	repo      repository.TrafficFineRepository
	leaseRepo repository.LeaseRepository
}

func NewTrafficFineService(repo repository.TrafficFineRepository, leaseRepo repository.LeaseRepository) *TrafficFineService {
	return &TrafficFineService{repo: repo, leaseRepo: leaseRepo}
}

func (s *TrafficFineService) FindByID(ctx context.Context, id uint) (*models.TrafficFine, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TrafficFineService) FindByLease(ctx context.Context, leaseID uint) ([]models.TrafficFine, error) {
	return s.repo.FindByLease(ctx, leaseID)
}

func (s *TrafficFineService) Create(ctx context.Context, fine *models.TrafficFine) error {
	if _, err := s.leaseRepo.FindByID(ctx, fine.LeaseID); err != nil {
		return fmt.Errorf("lease: %w", err)
	}
	if fine.Status == "" {
		fine.Status = models.FineStatusPending
	}
	if !models.ValidFineStatus(fine.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, fine.Status)
	}
	if fine.Reference == uuid.Nil {
		fine.Reference = uuid.New()
	}
	return s.repo.Create(ctx, fine)
}

func (s *TrafficFineService) Update(ctx context.Context, fine *models.TrafficFine) error {
	if !models.ValidFineStatus(fine.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, fine.Status)
	}
	return s.repo.Update(ctx, fine)
}

// UpdateStatus moves a fine through its workflow (pending, transferred,
// paid, disputed, closed)
func (s *TrafficFineService) UpdateStatus(ctx context.Context, id uint, status string) (*models.TrafficFine, error) {
	if !models.ValidFineStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	fine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fine.Status = status
	if err := s.repo.Update(ctx, fine); err != nil {
		return nil, err
	}
	return fine, nil
}

func (s *TrafficFineService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *TrafficFineService) List(ctx context.Context, query *repository.ListQuery) ([]models.TrafficFine, int64, error) {
	return s.repo.List(ctx, query)
}
