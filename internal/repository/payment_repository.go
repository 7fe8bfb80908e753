package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/models"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByLease(ctx context.Context, leaseID uint) ([]models.Payment, error)
	FindRentByLease(ctx context.Context, leaseID uint) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByLease(ctx context.Context, leaseID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindRentByLease(ctx context.Context, leaseID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("lease_id = ? AND payment_type = ? AND status <> ?",
			leaseID, models.PaymentTypeRent, models.PaymentStatusCancelled).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if paymentType := query.Filters["payment_type"]; paymentType != "" {
		db = db.Where("payment_type = ?", paymentType)
	}
	if start := query.Filters["start_date"]; start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			db = db.Where("payment_date >= ?", t)
		}
	}
	if end := query.Filters["end_date"]; end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			db = db.Where("payment_date <= ?", t)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "payment_date"
	switch query.SortBy {
	case "amount", "status", "created_at":
		sortBy = query.SortBy
	}
	sortDir := "desc"
	if query.SortDir == "asc" {
		sortDir = "asc"
	}

	err := db.
		Order(fmt.Sprintf("%s %s", sortBy, sortDir)).
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&payments).Error

	return payments, total, err
}
