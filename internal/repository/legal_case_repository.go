package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/models"
)

// LegalCaseRepository defines the interface for legal case data access
type LegalCaseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LegalCase, error)
	FindByLease(ctx context.Context, leaseID uint) ([]models.LegalCase, error)
	Create(ctx context.Context, legalCase *models.LegalCase) error
	Update(ctx context.Context, legalCase *models.LegalCase) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.LegalCase, int64, error)
}

type legalCaseRepository struct {
	db *gorm.DB
}

// NewLegalCaseRepository creates a new legal case repository
func NewLegalCaseRepository(db *gorm.DB) LegalCaseRepository {
	return &legalCaseRepository{db: db}
}

func (r *legalCaseRepository) FindByID(ctx context.Context, id uint) (*models.LegalCase, error) {
	var legalCase models.LegalCase
	err := r.db.WithContext(ctx).First(&legalCase, id).Error
	if err != nil {
		return nil, err
	}
	return &legalCase, nil
}

func (r *legalCaseRepository) FindByLease(ctx context.Context, leaseID uint) ([]models.LegalCase, error) {
	var cases []models.LegalCase
	err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("opened_at DESC").
		Find(&cases).Error
	return cases, err
}

func (r *legalCaseRepository) Create(ctx context.Context, legalCase *models.LegalCase) error {
	return r.db.WithContext(ctx).Create(legalCase).Error
}

func (r *legalCaseRepository) Update(ctx context.Context, legalCase *models.LegalCase) error {
	return r.db.WithContext(ctx).Save(legalCase).Error
}

func (r *legalCaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LegalCase{}, id).Error
}

func (r *legalCaseRepository) List(ctx context.Context, query *ListQuery) ([]models.LegalCase, int64, error) {
	var cases []models.LegalCase
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LegalCase{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if caseType := query.Filters["case_type"]; caseType != "" {
		db = db.Where("case_type = ?", caseType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("opened_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&cases).Error

	return cases, total, err
}
