package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Customer    CustomerRepository
	Vehicle     VehicleRepository
	Lease       LeaseRepository
	Payment     PaymentRepository
	TrafficFine TrafficFineRepository
	LegalCase   LegalCaseRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:    NewCustomerRepository(db),
		Vehicle:     NewVehicleRepository(db),
		Lease:       NewLeaseRepository(db),
		Payment:     NewPaymentRepository(db),
		TrafficFine: NewTrafficFineRepository(db),
		LegalCase:   NewLegalCaseRepository(db),
	}
}

// ListQuery holds common pagination/filter parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}
