package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/billing"
	"github.com/fleetora/rental-api/internal/jobs"
	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("development")
	os.Exit(m.Run())
}

type mockLeaseRepo struct {
	repository.LeaseRepository
	mockFindByID             func(ctx context.Context, id uint) (*models.Lease, error)
	mockFindByIDWithPayments func(ctx context.Context, id uint) (*models.Lease, error)
	mockFindActive           func(ctx context.Context) ([]models.Lease, error)
	mockFindActiveByVehicle  func(ctx context.Context, vehicleID uint) (*models.Lease, error)
	mockUpdate               func(ctx context.Context, lease *models.Lease) error
	mockCreate               func(ctx context.Context, lease *models.Lease) error
}

func (m *mockLeaseRepo) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockLeaseRepo) FindByIDWithPayments(ctx context.Context, id uint) (*models.Lease, error) {
	return m.mockFindByIDWithPayments(ctx, id)
}

func (m *mockLeaseRepo) FindActive(ctx context.Context) ([]models.Lease, error) {
	return m.mockFindActive(ctx)
}

func (m *mockLeaseRepo) FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Lease, error) {
	if m.mockFindActiveByVehicle != nil {
		return m.mockFindActiveByVehicle(ctx, vehicleID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaseRepo) Update(ctx context.Context, lease *models.Lease) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, lease)
	}
	return nil
}

func (m *mockLeaseRepo) Create(ctx context.Context, lease *models.Lease) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, lease)
	}
	return nil
}

type mockPaymentRepo struct {
	repository.PaymentRepository
	mockFindByID        func(ctx context.Context, id uint) (*models.Payment, error)
	mockFindByLease     func(ctx context.Context, leaseID uint) ([]models.Payment, error)
	mockFindRentByLease func(ctx context.Context, leaseID uint) ([]models.Payment, error)
	mockCreate          func(ctx context.Context, payment *models.Payment) error
	mockUpdate          func(ctx context.Context, payment *models.Payment) error
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockPaymentRepo) FindByLease(ctx context.Context, leaseID uint) ([]models.Payment, error) {
	return m.mockFindByLease(ctx, leaseID)
}

func (m *mockPaymentRepo) FindRentByLease(ctx context.Context, leaseID uint) ([]models.Payment, error) {
	return m.mockFindRentByLease(ctx, leaseID)
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, payment)
	}
	return nil
}

type mockVehicleRepo struct {
	repository.VehicleRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Vehicle, error)
	mockUpdate   func(ctx context.Context, vehicle *models.Vehicle) error
}

func (m *mockVehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, vehicle)
	}
	return nil
}

type mockCustomerRepo struct {
	repository.CustomerRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Customer, error)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	return m.mockFindByID(ctx, id)
}

type mockNotifier struct {
	subjects []string
}

func (m *mockNotifier) Notify(_ context.Context, subject, _ string) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func rent(amount int64) *decimal.Decimal {
	d := decimal.NewFromInt(amount)
	return &d
}

func activatableLease() *models.Lease {
	return &models.Lease{
		ID:               7,
		CustomerID:       1,
		VehicleID:        2,
		Status:           models.LeaseStatusPendingDeposit,
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent:      rent(3000),
		DueDayOfMonth:    1,
		DailyLateFeeRate: decimal.NewFromInt(120),
		LateFeeCap:       decimal.NewFromInt(3000),
	}
}

func newTestLeaseService(leaseRepo *mockLeaseRepo, vehicleRepo *mockVehicleRepo, paymentRepo *mockPaymentRepo, notifier Notifier, timeout time.Duration) *LeaseService {
	if vehicleRepo == nil {
		vehicleRepo = &mockVehicleRepo{
			mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
				return &models.Vehicle{ID: id, Status: models.VehicleStatusAvailable}, nil
			},
		}
	}
	if notifier == nil {
		notifier = &mockNotifier{}
	}
	return NewLeaseService(leaseRepo, &mockCustomerRepo{}, vehicleRepo, paymentRepo, notifier, jobs.NewWorker(1), timeout)
}

func TestLeaseService_Activate_MissingTermsLeavesStatusUnchanged(t *testing.T) {
	lease := activatableLease()
	lease.MonthlyRent = nil

	updated := false
	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
		mockUpdate: func(ctx context.Context, l *models.Lease) error {
			updated = true
			return nil
		},
	}
	service := newTestLeaseService(leaseRepo, nil, &mockPaymentRepo{}, nil, time.Second)

	result, err := service.Activate(context.Background(), lease.ID)

	assert.Nil(t, result)
	var missing *billing.MissingTermsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "monthly_rent", missing.Field)
	assert.Equal(t, models.LeaseStatusPendingDeposit, lease.Status)
	assert.False(t, updated)
}

func TestLeaseService_Activate_SchedulesFirstObligation(t *testing.T) {
	lease := activatableLease()

	var created *models.Payment
	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindRentByLease: func(ctx context.Context, leaseID uint) ([]models.Payment, error) {
			return nil, nil
		},
		mockCreate: func(ctx context.Context, payment *models.Payment) error {
			created = payment
			return nil
		},
	}
	service := newTestLeaseService(leaseRepo, nil, paymentRepo, nil, time.Second)

	result, err := service.Activate(context.Background(), lease.ID)

	require.NoError(t, err)
	assert.Equal(t, SideEffectSuccess, result.SideEffect)
	assert.Empty(t, result.Warning)
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
	assert.NotNil(t, lease.ActivatedAt)

	require.NotNil(t, created)
	assert.Equal(t, lease.ID, created.LeaseID)
	assert.Equal(t, models.PaymentTypeRent, created.PaymentType)
	assert.Equal(t, models.PaymentStatusPending, created.Status)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), created.PaymentDate)
}

func TestLeaseService_Activate_SchedulingIsIdempotent(t *testing.T) {
	lease := activatableLease()

	createCalls := 0
	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindRentByLease: func(ctx context.Context, leaseID uint) ([]models.Payment, error) {
			return []models.Payment{{ID: 1, LeaseID: leaseID, PaymentType: models.PaymentTypeRent, Status: models.PaymentStatusPending}}, nil
		},
		mockCreate: func(ctx context.Context, payment *models.Payment) error {
			createCalls++
			return nil
		},
	}
	service := newTestLeaseService(leaseRepo, nil, paymentRepo, nil, time.Second)

	result, err := service.Activate(context.Background(), lease.ID)

	require.NoError(t, err)
	assert.Equal(t, SideEffectSuccess, result.SideEffect)
	assert.Zero(t, createCalls)
}

func TestLeaseService_Activate_ScheduleFailureKeepsActiveStatus(t *testing.T) {
	lease := activatableLease()

	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindRentByLease: func(ctx context.Context, leaseID uint) ([]models.Payment, error) {
			return nil, nil
		},
		mockCreate: func(ctx context.Context, payment *models.Payment) error {
			return errors.New("connection reset")
		},
	}
	service := newTestLeaseService(leaseRepo, nil, paymentRepo, nil, time.Second)

	result, err := service.Activate(context.Background(), lease.ID)

	require.NoError(t, err)
	assert.Equal(t, SideEffectFailed, result.SideEffect)
	assert.Contains(t, result.Warning, "scheduling failed")
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
}

func TestLeaseService_Activate_ScheduleTimeoutReportsPending(t *testing.T) {
	lease := activatableLease()

	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindRentByLease: func(ctx context.Context, leaseID uint) ([]models.Payment, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	service := newTestLeaseService(leaseRepo, nil, paymentRepo, nil, 10*time.Millisecond)

	result, err := service.Activate(context.Background(), lease.ID)

	require.NoError(t, err)
	assert.Equal(t, SideEffectPending, result.SideEffect)
	assert.Contains(t, result.Warning, "timed out")
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
}

func TestLeaseService_Activate_RejectsTerminalLease(t *testing.T) {
	lease := activatableLease()
	lease.Status = models.LeaseStatusCancelled

	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	service := newTestLeaseService(leaseRepo, nil, &mockPaymentRepo{}, nil, time.Second)

	result, err := service.Activate(context.Background(), lease.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, models.LeaseStatusCancelled, lease.Status)
}

func TestLeaseService_Activate_MarksVehicleLeased(t *testing.T) {
	lease := activatableLease()

	var savedVehicle *models.Vehicle
	vehicleRepo := &mockVehicleRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
			return &models.Vehicle{ID: id, Status: models.VehicleStatusAvailable}, nil
		},
		mockUpdate: func(ctx context.Context, vehicle *models.Vehicle) error {
			savedVehicle = vehicle
			return nil
		},
	}
	leaseRepo := &mockLeaseRepo{
		mockFindByIDWithPayments: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockFindRentByLease: func(ctx context.Context, leaseID uint) ([]models.Payment, error) {
			return nil, nil
		},
	}
	service := newTestLeaseService(leaseRepo, vehicleRepo, paymentRepo, nil, time.Second)

	_, err := service.Activate(context.Background(), lease.ID)

	require.NoError(t, err)
	require.NotNil(t, savedVehicle)
	assert.Equal(t, models.VehicleStatusLeased, savedVehicle.Status)
}

func TestLeaseService_Cancel_ReleasesVehicle(t *testing.T) {
	lease := activatableLease()
	lease.Status = models.LeaseStatusActive

	var savedVehicle *models.Vehicle
	vehicleRepo := &mockVehicleRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
			return &models.Vehicle{ID: id, Status: models.VehicleStatusLeased}, nil
		},
		mockUpdate: func(ctx context.Context, vehicle *models.Vehicle) error {
			savedVehicle = vehicle
			return nil
		},
	}
	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	service := newTestLeaseService(leaseRepo, vehicleRepo, &mockPaymentRepo{}, nil, time.Second)

	cancelled, err := service.Cancel(context.Background(), lease.ID, "customer withdrew")

	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.Note)
	assert.Equal(t, "customer withdrew", *cancelled.Note)
	require.NotNil(t, savedVehicle)
	assert.Equal(t, models.VehicleStatusAvailable, savedVehicle.Status)
}

func TestLeaseService_Cancel_RejectsClosedLease(t *testing.T) {
	lease := activatableLease()
	lease.Status = models.LeaseStatusClosed

	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	service := newTestLeaseService(leaseRepo, nil, &mockPaymentRepo{}, nil, time.Second)

	_, err := service.Cancel(context.Background(), lease.ID, "")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, models.LeaseStatusClosed, lease.Status)
}

func TestLeaseService_Close_StampsClosedAt(t *testing.T) {
	lease := activatableLease()
	lease.Status = models.LeaseStatusActive

	leaseRepo := &mockLeaseRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
			return lease, nil
		},
	}
	service := newTestLeaseService(leaseRepo, nil, &mockPaymentRepo{}, nil, time.Second)

	closed, err := service.Close(context.Background(), lease.ID)

	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)
}

func TestLeaseService_Create_RejectsUnavailableVehicle(t *testing.T) {
	customerRepo := &mockCustomerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Customer, error) {
			return &models.Customer{ID: id}, nil
		},
	}
	vehicleRepo := &mockVehicleRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
			return &models.Vehicle{ID: id, Status: models.VehicleStatusMaintenance}, nil
		},
	}
	service := NewLeaseService(&mockLeaseRepo{}, customerRepo, vehicleRepo, &mockPaymentRepo{}, &mockNotifier{}, jobs.NewWorker(1), time.Second)

	err := service.Create(context.Background(), &models.Lease{CustomerID: 1, VehicleID: 2})

	assert.ErrorIs(t, err, ErrVehicleUnavailable)
}
