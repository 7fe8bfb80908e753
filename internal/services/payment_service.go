package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetora/rental-api/internal/billing"
	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/pkg/logger"
)

type PaymentService struct {
	repo      repository.PaymentRepository
	leaseRepo repository.LeaseRepository
	notifier  Notifier
}

func NewPaymentService(
	repo repository.PaymentRepository,
	leaseRepo repository.LeaseRepository,
	notifier Notifier,
) *PaymentService {
	return &PaymentService{
		repo:      repo,
		leaseRepo: leaseRepo,
		notifier:  notifier,
	}
}

// FindByID gets a payment by ID
func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByLease lists all payments recorded against a lease
func (s *PaymentService) FindByLease(ctx context.Context, leaseID uint) ([]models.Payment, error) {
	return s.repo.FindByLease(ctx, leaseID)
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// RecordPayment validates and stores a payment against a lease. Type and
// status are boundary-checked against the closed enum sets; unknown values
// are rejected rather than stored.
func (s *PaymentService) RecordPayment(ctx context.Context, payment *models.Payment) error {
	lease, err := s.leaseRepo.FindByID(ctx, payment.LeaseID)
	if err != nil {
		return fmt.Errorf("lease: %w", err)
	}
	if lease.Status == models.LeaseStatusCancelled {
		return fmt.Errorf("%w: cannot record payment on a cancelled lease", ErrInvalidState)
	}

	if payment.PaymentType == "" {
		payment.PaymentType = models.PaymentTypeRent
	}
	if !models.ValidPaymentType(payment.PaymentType) {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentType, payment.PaymentType)
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(payment.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, payment.Status)
	}
	if payment.Amount.IsNegative() {
		return fmt.Errorf("payment amount must not be negative")
	}
	if payment.Reference == uuid.Nil {
		payment.Reference = uuid.New()
	}

	return s.repo.Create(ctx, payment)
}

// Update corrects a previously recorded payment
func (s *PaymentService) Update(ctx context.Context, payment *models.Payment) error {
	if !models.ValidPaymentType(payment.PaymentType) {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentType, payment.PaymentType)
	}
	if !models.ValidPaymentStatus(payment.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, payment.Status)
	}
	return s.repo.Update(ctx, payment)
}

// Complete marks a pending payment as received
func (s *PaymentService) Complete(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.MayComplete() {
		return nil, fmt.Errorf("%w: payment is %s", ErrInvalidState, payment.Status)
	}

	payment.Status = models.PaymentStatusCompleted
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Cancel voids a payment so it no longer counts toward any obligation
func (s *PaymentService) Cancel(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.MayCancel() {
		return nil, fmt.Errorf("%w: payment is already cancelled", ErrInvalidState)
	}

	payment.Status = models.PaymentStatusCancelled
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// ReconcileLease runs the billing engine over a lease's recorded payments
// as of the given date. The report is derived on every call and never
// stored.
func (s *PaymentService) ReconcileLease(ctx context.Context, leaseID uint, asOf time.Time) (*billing.Report, error) {
	lease, err := s.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	term, err := lease.BillingTerm()
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.FindByLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	records := make([]billing.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		records = append(records, p.BillingRecord())
	}

	return billing.Reconcile(term, records, asOf)
}

// CheckOverdueLeases reconciles every active lease and notifies staff about
// outstanding balances. Per-lease failures are logged and skipped so one bad
// lease cannot stall the sweep.
func (s *PaymentService) CheckOverdueLeases(ctx context.Context) error {
	leases, err := s.leaseRepo.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active leases: %w", err)
	}

	now := time.Now()
	overdue := 0
	for i := range leases {
		lease := &leases[i]

		term, err := lease.BillingTerm()
		if err != nil {
			logger.Warn("active lease has no billing terms", "lease_id", lease.ID, "error", err)
			continue
		}

		records := make([]billing.PaymentRecord, 0, len(lease.Payments))
		for _, p := range lease.Payments {
			records = append(records, p.BillingRecord())
		}

		report, err := billing.Reconcile(term, records, now)
		if err != nil {
			logger.Error("reconciliation failed during overdue sweep", "lease_id", lease.ID, "error", err)
			continue
		}

		if report.TotalOutstanding.IsPositive() {
			overdue++
			s.notifier.Notify(ctx,
				fmt.Sprintf("lease #%d overdue", lease.ID),
				fmt.Sprintf("customer %s owes %s (suggested payment %s)",
					lease.Customer.FullName,
					report.TotalOutstanding.StringFixed(2),
					report.SuggestedPayment.StringFixed(2)))
		}
	}

	logger.Info("overdue sweep completed", "active_leases", len(leases), "overdue", overdue)
	return nil
}
