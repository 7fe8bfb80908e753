package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/models"
)

// LeaseRepository defines the interface for lease data access
type LeaseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lease, error)
	FindByIDWithPayments(ctx context.Context, id uint) (*models.Lease, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Lease, error)
	FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Lease, error)
	FindActive(ctx context.Context) ([]models.Lease, error)
	Create(ctx context.Context, lease *models.Lease) error
	Update(ctx context.Context, lease *models.Lease) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *LeaseQuery) ([]models.Lease, int64, error)
}

// LeaseQuery extends ListQuery with lease-specific filters
type LeaseQuery struct {
	*ListQuery
	Status     string
	CustomerID uint
	VehicleID  uint
}

type leaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByIDWithPayments(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Joins("Customer").
		Joins("Vehicle").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Preload("Vehicle").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status = ?", vehicleID, models.LeaseStatusActive).
		First(&lease).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindActive(ctx context.Context) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("status = ?", models.LeaseStatusActive).
		Preload("Payments").
		Preload("Customer").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

func (r *leaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

func (r *leaseRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Lease{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *leaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Lease{}, id).Error
}

func (r *leaseRepository) List(ctx context.Context, query *LeaseQuery) ([]models.Lease, int64, error) {
	var leases []models.Lease
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Lease{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.CustomerID > 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.VehicleID > 0 {
		db = db.Where("vehicle_id = ?", query.VehicleID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortDir := "desc"
	switch query.SortBy {
	case "start_date", "status", "created_at":
		sortBy = query.SortBy
	}
	if query.SortDir == "asc" {
		sortDir = "asc"
	}

	err := db.
		Preload("Customer").
		Preload("Vehicle").
		Order(fmt.Sprintf("%s %s", sortBy, sortDir)).
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&leases).Error

	return leases, total, err
}
