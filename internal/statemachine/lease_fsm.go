package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/fleetora/rental-api/internal/models"
)

// LeaseFSM wraps a lease with its state machine. Terminal states
// (cancelled, closed, completed, terminated, archived) have no outgoing
// events.
type LeaseFSM struct {
	lease *models.Lease
	fsm   *fsm.FSM
}

// nonTerminalStates are the sources for the activate and cancel events.
var nonTerminalStates = []string{
	models.LeaseStatusDraft,
	models.LeaseStatusPending,
	models.LeaseStatusPendingPayment,
	models.LeaseStatusPendingDeposit,
	models.LeaseStatusActive,
}

// NewLeaseFSM creates a new lease state machine
func NewLeaseFSM(lease *models.Lease) *LeaseFSM {
	lfsm := &LeaseFSM{
		lease: lease,
	}

	activateSrc := []string{
		models.LeaseStatusDraft,
		models.LeaseStatusPending,
		models.LeaseStatusPendingPayment,
		models.LeaseStatusPendingDeposit,
	}

	lfsm.fsm = fsm.NewFSM(
		lease.Status,
		fsm.Events{
			// intake progression
			{Name: "submit", Src: []string{models.LeaseStatusDraft}, Dst: models.LeaseStatusPending},
			{Name: "request_payment", Src: []string{models.LeaseStatusPending}, Dst: models.LeaseStatusPendingPayment},
			{Name: "request_deposit", Src: []string{models.LeaseStatusPendingPayment}, Dst: models.LeaseStatusPendingDeposit},

			// any non-terminal state → active
			{Name: "activate", Src: activateSrc, Dst: models.LeaseStatusActive},

			// any non-terminal state → cancelled
			{Name: "cancel", Src: nonTerminalStates, Dst: models.LeaseStatusCancelled},

			// closure/termination are one-way, from active only
			{Name: "close", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusClosed},
			{Name: "complete", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusCompleted},
			{Name: "terminate", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusTerminated},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Submit transitions lease to pending state
func (l *LeaseFSM) Submit(ctx context.Context) error {
	if err := l.fsm.Event(ctx, "submit"); err != nil {
		return fmt.Errorf("failed to submit lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// RequestPayment transitions lease to pending_payment state
func (l *LeaseFSM) RequestPayment(ctx context.Context) error {
	if err := l.fsm.Event(ctx, "request_payment"); err != nil {
		return fmt.Errorf("failed to request payment: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// RequestDeposit transitions lease to pending_deposit state
func (l *LeaseFSM) RequestDeposit(ctx context.Context) error {
	if err := l.fsm.Event(ctx, "request_deposit"); err != nil {
		return fmt.Errorf("failed to request deposit: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Activate transitions lease to active state
func (l *LeaseFSM) Activate(ctx context.Context) error {
	if !l.lease.MayActivate() {
		return fmt.Errorf("lease cannot be activated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Cancel transitions lease to cancelled state
func (l *LeaseFSM) Cancel(ctx context.Context) error {
	if !l.lease.MayCancel() {
		return fmt.Errorf("lease cannot be cancelled in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Close transitions lease to closed state
func (l *LeaseFSM) Close(ctx context.Context) error {
	if !l.lease.MayClose() {
		return fmt.Errorf("lease cannot be closed in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Complete transitions lease to completed state
func (l *LeaseFSM) Complete(ctx context.Context) error {
	if !l.lease.MayComplete() {
		return fmt.Errorf("lease cannot be completed in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Terminate transitions lease to terminated state
func (l *LeaseFSM) Terminate(ctx context.Context) error {
	if !l.lease.MayTerminate() {
		return fmt.Errorf("lease cannot be terminated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LeaseFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaseFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
