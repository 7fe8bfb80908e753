package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetora/rental-api/internal/models"
)

func leaseWithStatus(status string) *models.Lease {
	return &models.Lease{ID: 1, Status: status}
}

func TestLeaseFSM_ActivateFromAnyNonTerminalState(t *testing.T) {
	ctx := context.Background()
	for _, status := range []string{
		models.LeaseStatusDraft,
		models.LeaseStatusPending,
		models.LeaseStatusPendingPayment,
		models.LeaseStatusPendingDeposit,
	} {
		lease := leaseWithStatus(status)
		fsm := NewLeaseFSM(lease)
		require.NoError(t, fsm.Activate(ctx), "from %s", status)
		assert.Equal(t, models.LeaseStatusActive, lease.Status)
	}
}

func TestLeaseFSM_CancelFromAnyNonTerminalState(t *testing.T) {
	ctx := context.Background()
	for _, status := range []string{
		models.LeaseStatusDraft,
		models.LeaseStatusPending,
		models.LeaseStatusPendingPayment,
		models.LeaseStatusPendingDeposit,
		models.LeaseStatusActive,
	} {
		lease := leaseWithStatus(status)
		fsm := NewLeaseFSM(lease)
		require.NoError(t, fsm.Cancel(ctx), "from %s", status)
		assert.Equal(t, models.LeaseStatusCancelled, lease.Status)
	}
}

func TestLeaseFSM_IntakeProgression(t *testing.T) {
	ctx := context.Background()
	lease := leaseWithStatus(models.LeaseStatusDraft)
	fsm := NewLeaseFSM(lease)

	require.NoError(t, fsm.Submit(ctx))
	assert.Equal(t, models.LeaseStatusPending, lease.Status)
	require.NoError(t, fsm.RequestPayment(ctx))
	assert.Equal(t, models.LeaseStatusPendingPayment, lease.Status)
	require.NoError(t, fsm.RequestDeposit(ctx))
	assert.Equal(t, models.LeaseStatusPendingDeposit, lease.Status)
	require.NoError(t, fsm.Activate(ctx))
	assert.Equal(t, models.LeaseStatusActive, lease.Status)
}

func TestLeaseFSM_ClosureIsOneWayFromActive(t *testing.T) {
	ctx := context.Background()

	for event, want := range map[string]string{
		"close":     models.LeaseStatusClosed,
		"complete":  models.LeaseStatusCompleted,
		"terminate": models.LeaseStatusTerminated,
	} {
		lease := leaseWithStatus(models.LeaseStatusActive)
		fsm := NewLeaseFSM(lease)
		require.True(t, fsm.Can(event))

		var err error
		switch event {
		case "close":
			err = fsm.Close(ctx)
		case "complete":
			err = fsm.Complete(ctx)
		case "terminate":
			err = fsm.Terminate(ctx)
		}
		require.NoError(t, err)
		assert.Equal(t, want, lease.Status)
	}

	// Closing is not allowed before activation.
	lease := leaseWithStatus(models.LeaseStatusPending)
	fsm := NewLeaseFSM(lease)
	assert.Error(t, fsm.Close(ctx))
	assert.Equal(t, models.LeaseStatusPending, lease.Status)
}

func TestLeaseFSM_TerminalStatesAreImmutable(t *testing.T) {
	ctx := context.Background()
	terminal := []string{
		models.LeaseStatusCancelled,
		models.LeaseStatusClosed,
		models.LeaseStatusCompleted,
		models.LeaseStatusTerminated,
		models.LeaseStatusArchived,
	}

	for _, status := range terminal {
		lease := leaseWithStatus(status)
		fsm := NewLeaseFSM(lease)

		assert.Error(t, fsm.Activate(ctx), "activate from %s", status)
		assert.Error(t, fsm.Cancel(ctx), "cancel from %s", status)
		assert.Error(t, fsm.Close(ctx), "close from %s", status)
		assert.Error(t, fsm.Complete(ctx), "complete from %s", status)
		assert.Error(t, fsm.Terminate(ctx), "terminate from %s", status)
		assert.Error(t, fsm.Submit(ctx), "submit from %s", status)
		assert.Equal(t, status, lease.Status, "status must not change from %s", status)
	}
}
