package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
)

type LegalCaseService struct {
	repo      repository.LegalCaseRepository
	leaseRepo repository.LeaseRepository
}

func NewLegalCaseService(repo repository.LegalCaseRepository, leaseRepo repository.LeaseRepository) *LegalCaseService {
	return &LegalCaseService{repo: repo, leaseRepo: leaseRepo}
}

func (s *LegalCaseService) FindByID(ctx context.Context, id uint) (*models.LegalCase, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LegalCaseService) FindByLease(ctx context.Context, leaseID uint) ([]models.LegalCase, error) {
	return s.repo.FindByLease(ctx, leaseID)
}

func (s *LegalCaseService) Create(ctx context.Context, legalCase *models.LegalCase) error {
	if _, err := s.leaseRepo.FindByID(ctx, legalCase.LeaseID); err != nil {
		return fmt.Errorf("lease: %w", err)
	}
	if !models.ValidCaseType(legalCase.CaseType) {
		return fmt.Errorf("%w: case type %s", ErrInvalidStatus, legalCase.CaseType)
	}
	if legalCase.Status == "" {
		legalCase.Status = models.CaseStatusOpen
	}
	if !models.ValidCaseStatus(legalCase.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, legalCase.Status)
	}
	if legalCase.Reference == uuid.Nil {
		legalCase.Reference = uuid.New()
	}
	if legalCase.OpenedAt.IsZero() {
		legalCase.OpenedAt = time.Now()
	}
	return s.repo.Create(ctx, legalCase)
}

func (s *LegalCaseService) Update(ctx context.Context, legalCase *models.LegalCase) error {
	if !models.ValidCaseStatus(legalCase.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, legalCase.Status)
	}
	return s.repo.Update(ctx, legalCase)
}

// UpdateStatus moves a case through its workflow. Settled, closed and
// dismissed cases get a closure timestamp.
func (s *LegalCaseService) UpdateStatus(ctx context.Context, id uint, status string) (*models.LegalCase, error) {
	if !models.ValidCaseStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	legalCase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	legalCase.Status = status
	switch status {
	case models.CaseStatusSettled, models.CaseStatusClosed, models.CaseStatusDismissed:
		if legalCase.ClosedAt == nil {
			now := time.Now()
			legalCase.ClosedAt = &now
		}
	}

	if err := s.repo.Update(ctx, legalCase); err != nil {
		return nil, err
	}
	return legalCase, nil
}

func (s *LegalCaseService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *LegalCaseService) List(ctx context.Context, query *repository.ListQuery) ([]models.LegalCase, int64, error) {
	return s.repo.List(ctx, query)
}
