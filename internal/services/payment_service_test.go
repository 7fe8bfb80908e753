package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetora/rental-api/internal/billing"
	"github.com/fleetora/rental-api/internal/models"
)

func reconcilableLease() *models.Lease {
	lease := activatableLease()
	lease.Status = models.LeaseStatusActive
	return lease
}

func TestPaymentService_RecordPayment_RejectsUnknownType(t *testing.T) {
	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			return reconcilableLease(), nil
		},
	}
	service := NewPaymentService(&mockPaymentRepo{}, leaseRepo, &mockNotifier{})

	err := service.RecordPayment(context.Background(), &models.Payment{
		LeaseID:     7,
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		PaymentType: "tip",
	})

	assert.ErrorIs(t, err, ErrInvalidPaymentType)
}

func TestPaymentService_RecordPayment_DefaultsTypeAndStatus(t *testing.T) {
	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			return reconcilableLease(), nil
		},
	}
	var created *models.Payment
	paymentRepo := &mockPaymentRepo{
		mockCreate: func(ctx context.Context, payment *models.Payment) error {
			created = payment
			return nil
		},
	}
	service := NewPaymentService(paymentRepo, leaseRepo, &mockNotifier{})

	err := service.RecordPayment(context.Background(), &models.Payment{
		LeaseID:     7,
		Amount:      decimal.NewFromInt(3000),
		PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.PaymentTypeRent, created.PaymentType)
	assert.Equal(t, models.PaymentStatusPending, created.Status)
	assert.NotEmpty(t, created.Reference)
}

func TestPaymentService_RecordPayment_RejectsCancelledLease(t *testing.T) {
	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			lease := reconcilableLease()
			lease.Status = models.LeaseStatusCancelled
			return lease, nil
		},
	}
	service := NewPaymentService(&mockPaymentRepo{}, leaseRepo, &mockNotifier{})

	err := service.RecordPayment(context.Background(), &models.Payment{
		LeaseID:     7,
		Amount:      decimal.NewFromInt(3000),
		PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPaymentService_Cancel_AlreadyCancelled(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, Status: models.PaymentStatusCancelled}, nil
		},
	}
	service := NewPaymentService(paymentRepo, &mockLeaseRepo{}, &mockNotifier{})

	_, err := service.Cancel(context.Background(), 1)

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPaymentService_Complete_MarksReceived(t *testing.T) {
	var saved *models.Payment
	paymentRepo := &mockPaymentRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, Status: models.PaymentStatusPending}, nil
		},
		mockUpdate: func(ctx context.Context, payment *models.Payment) error {
			saved = payment
			return nil
		},
	}
	service := NewPaymentService(paymentRepo, &mockLeaseRepo{}, &mockNotifier{})

	payment, err := service.Complete(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, saved)
	assert.Equal(t, models.PaymentStatusCompleted, saved.Status)
}

func TestPaymentService_ReconcileLease(t *testing.T) {
	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			return reconcilableLease(), nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindByLease: func(ctx context.Context, leaseID uint) ([]models.Payment, error) {
			return []models.Payment{
				{
					LeaseID:     leaseID,
					Amount:      decimal.NewFromInt(3000),
					PaymentDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
					PaymentType: models.PaymentTypeRent,
					Status:      models.PaymentStatusCompleted,
				},
			}, nil
		},
	}
	service := NewPaymentService(paymentRepo, leaseRepo, &mockNotifier{})

	report, err := service.ReconcileLease(context.Background(), 7, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, report.Periods, 2)
	assert.Equal(t, billing.PeriodSatisfied, report.Periods[0].Status)
	assert.Equal(t, billing.PeriodMissing, report.Periods[1].Status)
	assert.Equal(t, 5, report.Periods[1].DaysOverdue)
	// 3000 rent + 5 days * 120/day
	assert.True(t, report.TotalOutstanding.Equal(decimal.NewFromInt(3600)),
		"got %s", report.TotalOutstanding)
}

func TestPaymentService_ReconcileLease_MissingTerms(t *testing.T) {
	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			lease := reconcilableLease()
			lease.MonthlyRent = nil
			return lease, nil
		},
	}
	service := NewPaymentService(&mockPaymentRepo{}, leaseRepo, &mockNotifier{})

	report, err := service.ReconcileLease(context.Background(), 7, time.Now())

	assert.Nil(t, report)
	var missing *billing.MissingTermsError
	assert.ErrorAs(t, err, &missing)
}

func TestPaymentService_CheckOverdueLeases_NotifiesOutstanding(t *testing.T) {
	overdue := reconcilableLease()
	overdue.Customer = models.Customer{ID: 1, FullName: "Dana Reyes"}

	noTerms := reconcilableLease()
	noTerms.ID = 8
	noTerms.MonthlyRent = nil

	leaseRepo := &mockLeaseRepo{
		mockFindActive: func(ctx context.Context) ([]models.Lease, error) {
			return []models.Lease{*overdue, *noTerms}, nil
		},
	}
	notifier := &mockNotifier{}
	service := NewPaymentService(&mockPaymentRepo{}, leaseRepo, notifier)

	err := service.CheckOverdueLeases(context.Background())

	require.NoError(t, err)
	require.Len(t, notifier.subjects, 1)
	assert.Contains(t, notifier.subjects[0], "lease #7")
}

func TestLogNotifier_SuppressesRepeats(t *testing.T) {
	notifier := NewLogNotifier(time.Hour)
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	notifier.now = func() time.Time { return current }

	require.NoError(t, notifier.Notify(context.Background(), "lease #7 overdue", "first"))

	// Same subject within the interval is dropped without error.
	current = current.Add(10 * time.Minute)
	require.NoError(t, notifier.Notify(context.Background(), "lease #7 overdue", "repeat"))
	assert.Len(t, notifier.lastSent, 1)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), notifier.lastSent["lease #7 overdue"])

	// After the interval the subject fires again.
	current = current.Add(2 * time.Hour)
	require.NoError(t, notifier.Notify(context.Background(), "lease #7 overdue", "later"))
	assert.Equal(t, current, notifier.lastSent["lease #7 overdue"])
}
