package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
)

type VehicleService struct {
	repo      repository.VehicleRepository
	leaseRepo repository.LeaseRepository
}

func NewVehicleService(repo repository.VehicleRepository, leaseRepo repository.LeaseRepository) *VehicleService {
	return &VehicleService{repo: repo, leaseRepo: leaseRepo}
}

func (s *VehicleService) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *VehicleService) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if existing, err := s.repo.FindByPlate(ctx, vehicle.Plate); err == nil && existing != nil {
		return ErrDuplicate
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusAvailable
	}
	if !models.ValidVehicleStatus(vehicle.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, vehicle.Status)
	}
	if vehicle.Reference == uuid.Nil {
		vehicle.Reference = uuid.New()
	}
	return s.repo.Create(ctx, vehicle)
}

func (s *VehicleService) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if !models.ValidVehicleStatus(vehicle.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, vehicle.Status)
	}
	return s.repo.Update(ctx, vehicle)
}

func (s *VehicleService) Delete(ctx context.Context, id uint) error {
	// A vehicle on an active lease cannot be removed from the fleet.
	if lease, err := s.leaseRepo.FindActiveByVehicle(ctx, id); err == nil && lease != nil {
		return fmt.Errorf("%w: vehicle is on active lease #%d", ErrInvalidState, lease.ID)
	}
	return s.repo.Delete(ctx, id)
}

func (s *VehicleService) List(ctx context.Context, query *repository.ListQuery) ([]models.Vehicle, int64, error) {
	return s.repo.List(ctx, query)
}
