package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/models"
)

// TrafficFineRepository defines the interface for traffic fine data access
type TrafficFineRepository interface {
	FindByID(ctx context.Context, id uint) (*models.TrafficFine, error)
	FindByLease(ctx context.Context, leaseID uint) ([]models.TrafficFine, error)
	Create(ctx context.Context, fine *models.TrafficFine) error
	Update(ctx context.Context, fine *models.TrafficFine) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.TrafficFine, int64, error)
}

type trafficFineRepository struct {
	db *gorm.DB
}

// NewTrafficFineRepository creates a new traffic fine repository
func NewTrafficFineRepository(db *gorm.DB) TrafficFineRepository {
	return &trafficFineRepository{db: db}
}

func (r *trafficFineRepository) FindByID(ctx context.Context, id uint) (*models.TrafficFine, error) {
	var fine models.TrafficFine
	err := r.db.WithContext(ctx).First(&fine, id).Error
	if err != nil {
		return nil, err
	}
	return &fine, nil
}

func (r *trafficFineRepository) FindByLease(ctx context.Context, leaseID uint) ([]models.TrafficFine, error) {
	var fines []models.TrafficFine
	err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("issued_at DESC").
		Find(&fines).Error
	return fines, err
}

func (r *trafficFineRepository) Create(ctx context.Context, fine *models.TrafficFine) error {
	return r.db.WithContext(ctx).Create(fine).Error
}

func (r *trafficFineRepository) Update(ctx context.Context, fine *models.TrafficFine) error {
	return r.db.WithContext(ctx).Save(fine).Error
}

func (r *trafficFineRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TrafficFine{}, id).Error
}

func (r *trafficFineRepository) List(ctx context.Context, query *ListQuery) ([]models.TrafficFine, int64, error) {
	var fines []models.TrafficFine
	var total int64

	db := r.db.WithContext(ctx).Model(&models.TrafficFine{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("issued_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&fines).Error

	return fines, total, err
}
