package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/models"
)

// VehicleRepository defines the interface for vehicle data access
type VehicleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Vehicle, int64, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Where("plate = ?", plate).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vehicle{}, id).Error
}

func (r *vehicleRepository) List(ctx context.Context, query *ListQuery) ([]models.Vehicle, int64, error) {
	var vehicles []models.Vehicle
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Vehicle{})

	if query.Search != "" {
		like := "%" + query.Search + "%"
		db = db.Where("plate ILIKE ? OR make ILIKE ? OR model ILIKE ?", like, like, like)
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	switch query.SortBy {
	case "plate", "make", "year", "status":
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
		Find(&vehicles).Error

	return vehicles, total, err
}
