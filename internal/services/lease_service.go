package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetora/rental-api/internal/billing"
	"github.com/fleetora/rental-api/internal/jobs"
	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/statemachine"
	"github.com/fleetora/rental-api/pkg/logger"
)

// SideEffectStatus describes the outcome of a transition's follow-up work.
type SideEffectStatus string

const (
	SideEffectSuccess SideEffectStatus = "success"
	SideEffectPending SideEffectStatus = "pending"
	SideEffectFailed  SideEffectStatus = "failed"
)

// TransitionResult reports a lifecycle transition together with the outcome
// of its follow-up work. The status change itself is committed first and is
// never rolled back when the follow-up fails; callers inspect SideEffect and
// retry the follow-up instead of re-running the transition.
type TransitionResult struct {
	Lease      *models.Lease    `json:"lease"`
	SideEffect SideEffectStatus `json:"side_effect"`
	Warning    string           `json:"warning,omitempty"`
}

type LeaseService struct {
	repo            repository.LeaseRepository
	customerRepo    repository.CustomerRepository
	vehicleRepo     repository.VehicleRepository
	paymentRepo     repository.PaymentRepository
	notifier        Notifier
	worker          *jobs.Worker
	scheduleTimeout time.Duration
}

func NewLeaseService(
	repo repository.LeaseRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	paymentRepo repository.PaymentRepository,
	notifier Notifier,
	worker *jobs.Worker,
	scheduleTimeout time.Duration,
) *LeaseService {
	if scheduleTimeout <= 0 {
		scheduleTimeout = 15 * time.Second
	}
	return &LeaseService{
		repo:            repo,
		customerRepo:    customerRepo,
		vehicleRepo:     vehicleRepo,
		paymentRepo:     paymentRepo,
		notifier:        notifier,
		worker:          worker,
		scheduleTimeout: scheduleTimeout,
	}
}

// FindByID gets a lease by ID
func (s *LeaseService) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByIDWithDetails gets a lease with customer, vehicle and payments preloaded
func (s *LeaseService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Lease, error) {
	return s.repo.FindByIDWithPayments(ctx, id)
}

func (s *LeaseService) List(ctx context.Context, query *repository.LeaseQuery) ([]models.Lease, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *LeaseService) Create(ctx context.Context, lease *models.Lease) error {
	if _, err := s.customerRepo.FindByID(ctx, lease.CustomerID); err != nil {
		return fmt.Errorf("customer: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, lease.VehicleID)
	if err != nil {
		return fmt.Errorf("vehicle: %w", err)
	}
	if !vehicle.IsAvailable() {
		return ErrVehicleUnavailable
	}
	if existing, err := s.repo.FindActiveByVehicle(ctx, lease.VehicleID); err == nil && existing != nil {
		return ErrVehicleUnavailable
	}

	if lease.Reference == uuid.Nil {
		lease.Reference = uuid.New()
	}
	if lease.Status == "" {
		lease.Status = models.LeaseStatusDraft
	}
	if !models.ValidLeaseStatus(lease.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, lease.Status)
	}

	return s.repo.Create(ctx, lease)
}

func (s *LeaseService) Update(ctx context.Context, lease *models.Lease) error {
	return s.repo.Update(ctx, lease)
}

func (s *LeaseService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Submit moves a draft lease into review
func (s *LeaseService) Submit(ctx context.Context, id uint) (*models.Lease, error) {
	return s.transition(ctx, id, func(fsm *statemachine.LeaseFSM) error {
		return fsm.Submit(ctx)
	})
}

// RequestPayment asks the customer for the first rent payment
func (s *LeaseService) RequestPayment(ctx context.Context, id uint) (*models.Lease, error) {
	return s.transition(ctx, id, func(fsm *statemachine.LeaseFSM) error {
		return fsm.RequestPayment(ctx)
	})
}

// RequestDeposit asks the customer for the security deposit
func (s *LeaseService) RequestDeposit(ctx context.Context, id uint) (*models.Lease, error) {
	return s.transition(ctx, id, func(fsm *statemachine.LeaseFSM) error {
		return fsm.RequestDeposit(ctx)
	})
}

// Activate moves the lease to active and schedules its first rent obligation.
//
// The two phases are deliberately decoupled: once the state machine accepts
// the transition the new status is committed, and a scheduling failure or
// timeout is reported in the result's SideEffect instead of rolling the
// lease back. Scheduling is idempotent, so a retry after a timed-out call
// cannot produce a duplicate obligation.
func (s *LeaseService) Activate(ctx context.Context, id uint) (*TransitionResult, error) {
	lease, err := s.repo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	// Billing terms are required before any status change happens.
	if _, err := lease.BillingTerm(); err != nil {
		return nil, err
	}

	fsm := statemachine.NewLeaseFSM(lease)
	if err := fsm.Activate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	lease.ActivatedAt = &now

	if err := s.repo.Update(ctx, lease); err != nil {
		return nil, err
	}

	// Mark the vehicle as out on lease
	vehicle, _ := s.vehicleRepo.FindByID(ctx, lease.VehicleID)
	if vehicle != nil {
		vehicle.Status = models.VehicleStatusLeased
		s.vehicleRepo.Update(ctx, vehicle)
	}

	result := &TransitionResult{Lease: lease, SideEffect: SideEffectSuccess}

	scheduleCtx, cancel := context.WithTimeout(ctx, s.scheduleTimeout)
	defer cancel()

	if err := s.ScheduleFirstObligation(scheduleCtx, lease); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.SideEffect = SideEffectPending
			result.Warning = "first obligation scheduling timed out; retry the schedule endpoint"
		} else {
			result.SideEffect = SideEffectFailed
			result.Warning = fmt.Sprintf("first obligation scheduling failed: %v", err)
		}
		logger.Warn("lease activated but first obligation not scheduled",
			"lease_id", lease.ID, "error", err)
		detail := fmt.Sprintf("lease #%d activated, scheduling error: %v", lease.ID, err)
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notifier.Notify(ctx, "lease activation follow-up failed", detail)
		})
	}

	return result, nil
}

// ScheduleFirstObligation records the first month's rent as a pending
// payment. It is safe to call repeatedly: if any non-cancelled rent record
// already exists for the lease, nothing is created.
func (s *LeaseService) ScheduleFirstObligation(ctx context.Context, lease *models.Lease) error {
	term, err := lease.BillingTerm()
	if err != nil {
		return err
	}

	existing, err := s.paymentRepo.FindRentByLease(ctx, lease.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	periods, err := billing.GenerateCalendar(term, term.StartDate)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		return nil
	}

	first := periods[0]
	return s.paymentRepo.Create(ctx, &models.Payment{
		Reference:   uuid.New(),
		LeaseID:     lease.ID,
		Amount:      first.AmountDue,
		PaymentDate: first.DueDate,
		PaymentType: models.PaymentTypeRent,
		Status:      models.PaymentStatusPending,
	})
}

// Cancel aborts a lease from any non-terminal state
func (s *LeaseService) Cancel(ctx context.Context, id uint, note string) (*models.Lease, error) {
	lease, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewLeaseFSM(lease)
	if err := fsm.Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if note != "" {
		lease.Note = &note
	}

	if err := s.repo.Update(ctx, lease); err != nil {
		return nil, err
	}

	s.releaseVehicle(ctx, lease.VehicleID)
	return lease, nil
}

// Close ends a lease normally
func (s *LeaseService) Close(ctx context.Context, id uint) (*models.Lease, error) {
	return s.finish(ctx, id, func(fsm *statemachine.LeaseFSM) error {
		return fsm.Close(ctx)
	})
}

// Complete marks a lease as run to full term
func (s *LeaseService) Complete(ctx context.Context, id uint) (*models.Lease, error) {
	return s.finish(ctx, id, func(fsm *statemachine.LeaseFSM) error {
		return fsm.Complete(ctx)
	})
}

// Terminate ends a lease early
func (s *LeaseService) Terminate(ctx context.Context, id uint) (*models.Lease, error) {
	return s.finish(ctx, id, func(fsm *statemachine.LeaseFSM) error {
		return fsm.Terminate(ctx)
	})
}

func (s *LeaseService) transition(ctx context.Context, id uint, event func(*statemachine.LeaseFSM) error) (*models.Lease, error) {
	lease, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewLeaseFSM(lease)
	if err := event(fsm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// finish runs a closing transition (close, complete, terminate), stamps the
// closure time and releases the vehicle.
func (s *LeaseService) finish(ctx context.Context, id uint, event func(*statemachine.LeaseFSM) error) (*models.Lease, error) {
	lease, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewLeaseFSM(lease)
	if err := event(fsm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	lease.ClosedAt = &now

	if err := s.repo.Update(ctx, lease); err != nil {
		return nil, err
	}

	s.releaseVehicle(ctx, lease.VehicleID)
	return lease, nil
}

func (s *LeaseService) releaseVehicle(ctx context.Context, vehicleID uint) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		logger.Warn("could not release vehicle", "vehicle_id", vehicleID, "error", err)
		return
	}
	if vehicle.Status == models.VehicleStatusLeased {
		vehicle.Status = models.VehicleStatusAvailable
		if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
			logger.Warn("could not release vehicle", "vehicle_id", vehicleID, "error", err)
		}
	}
}
