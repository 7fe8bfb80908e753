package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/models"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Customer, int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, id).Error
}

func (r *customerRepository) List(ctx context.Context, query *ListQuery) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Customer{})

	if query.Search != "" {
		like := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR email ILIKE ? OR license_number ILIKE ?", like, like, like)
	}
	if active := query.Filters["active"]; active != "" {
		db = db.Where("active = ?", active == "true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	switch query.SortBy {
	case "full_name", "email":
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
		Find(&customers).Error

	return customers, total, err
}
