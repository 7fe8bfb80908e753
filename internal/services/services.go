package services

import (
	"github.com/fleetora/rental-api/internal/config"
	"github.com/fleetora/rental-api/internal/jobs"
	"github.com/fleetora/rental-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Customer    *CustomerService
	Vehicle     *VehicleService
	Lease       *LeaseService
	Payment     *PaymentService
	TrafficFine *TrafficFineService
	LegalCase   *LegalCaseService
	Notifier    Notifier
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	notifier := NewLogNotifier(cfg.NotifyThrottle)

	return &Services{
		Customer:    NewCustomerService(repos.Customer, repos.Lease),
		Vehicle:     NewVehicleService(repos.Vehicle, repos.Lease),
		Lease:       NewLeaseService(repos.Lease, repos.Customer, repos.Vehicle, repos.Payment, notifier, worker, cfg.ScheduleTimeout),
		Payment:     NewPaymentService(repos.Payment, repos.Lease, notifier),
		TrafficFine: NewTrafficFineService(repos.TrafficFine, repos.Lease),
		LegalCase:   NewLegalCaseService(repos.LegalCase, repos.Lease),
		Notifier:    notifier,
	}
}
