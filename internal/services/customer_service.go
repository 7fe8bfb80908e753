package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
)

type CustomerService struct {
	repo      repository.CustomerRepository
	leaseRepo repository.LeaseRepository
}

func NewCustomerService(repo repository.CustomerRepository, leaseRepo repository.LeaseRepository) *CustomerService {
	return &CustomerService{repo: repo, leaseRepo: leaseRepo}
}

func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) error {
	if existing, err := s.repo.FindByEmail(ctx, customer.Email); err == nil && existing != nil {
		return ErrDuplicate
	}
	if customer.Reference == uuid.Nil {
		customer.Reference = uuid.New()
	}
	return s.repo.Create(ctx, customer)
}

func (s *CustomerService) Update(ctx context.Context, customer *models.Customer) error {
	return s.repo.Update(ctx, customer)
}

func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

// Leases lists all leases held by a customer
func (s *CustomerService) Leases(ctx context.Context, customerID uint) ([]models.Lease, error) {
	return s.leaseRepo.FindByCustomer(ctx, customerID)
}
