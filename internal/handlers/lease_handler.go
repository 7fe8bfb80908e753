package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/services"
)

type LeaseHandler struct {
	leaseService   *services.LeaseService
	paymentService *services.PaymentService
	fineService    *services.TrafficFineService
	caseService    *services.LegalCaseService
}

func NewLeaseHandler(
	leaseService *services.LeaseService,
	paymentService *services.PaymentService,
	fineService *services.TrafficFineService,
	caseService *services.LegalCaseService,
) *LeaseHandler {
	return &LeaseHandler{
		leaseService:   leaseService,
		paymentService: paymentService,
		fineService:    fineService,
		caseService:    caseService,
	}
}

// Index returns a paginated list of leases
func (h *LeaseHandler) Index(c *gin.Context) {
	query := &repository.LeaseQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	query.Status = c.Query("status")
	if customerID, err := strconv.ParseUint(c.Query("customer_id"), 10, 32); err == nil {
		query.CustomerID = uint(customerID)
	}
	if vehicleID, err := strconv.ParseUint(c.Query("vehicle_id"), 10, 32); err == nil {
		query.VehicleID = uint(vehicleID)
	}

	leases, total, err := h.leaseService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LeaseResponse, 0, len(leases))
	for i := range leases {
		responses = append(responses, leases[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"leases":     responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

func (h *LeaseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	lease, err := h.leaseService.FindByIDWithDetails(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

// LeaseRequest is the body for creating or updating a lease. Dates use the
// YYYY-MM-DD format.
type LeaseRequest struct {
	CustomerID       uint             `json:"customer_id"`
	VehicleID        uint             `json:"vehicle_id"`
	StartDate        string           `json:"start_date"`
	EndDate          *string          `json:"end_date"`
	MonthlyRent      *decimal.Decimal `json:"monthly_rent"`
	DueDayOfMonth    *int             `json:"due_day_of_month"`
	DailyLateFeeRate *decimal.Decimal `json:"daily_late_fee_rate"`
	LateFeeCap       *decimal.Decimal `json:"late_fee_cap"`
	DepositAmount    *decimal.Decimal `json:"deposit_amount"`
	Note             *string          `json:"note"`
}

func (h *LeaseHandler) Create(c *gin.Context) {
	var req LeaseRequest
	if err := BindNestedOrFlat(c, "lease", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CustomerID == 0 || req.VehicleID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id and vehicle_id are required"})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}

	lease := &models.Lease{
		CustomerID:    req.CustomerID,
		VehicleID:     req.VehicleID,
		Status:        models.LeaseStatusDraft,
		StartDate:     startDate,
		MonthlyRent:   req.MonthlyRent,
		DueDayOfMonth: 1,
		DepositAmount: req.DepositAmount,
		Note:          req.Note,
	}

	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		if endDate.Before(startDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date cannot precede start_date"})
			return
		}
		lease.EndDate = &endDate
	}
	if req.DueDayOfMonth != nil {
		if *req.DueDayOfMonth < 1 || *req.DueDayOfMonth > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_day_of_month must be between 1 and 31"})
			return
		}
		lease.DueDayOfMonth = *req.DueDayOfMonth
	}
	if req.DailyLateFeeRate != nil {
		lease.DailyLateFeeRate = *req.DailyLateFeeRate
	}
	if req.LateFeeCap != nil {
		lease.LateFeeCap = *req.LateFeeCap
	}

	if err := h.leaseService.Create(c.Request.Context(), lease); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lease": lease.ToResponse(), "message": "lease created"})
}

// Update edits billing terms of a lease that has not reached a terminal
// state. The status itself only changes through the transition endpoints.
func (h *LeaseHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	lease, err := h.leaseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if lease.IsTerminal() {
		c.JSON(http.StatusForbidden, gin.H{"error": "lease is in a terminal state and cannot be edited"})
		return
	}

	var req LeaseRequest
	if err := BindNestedOrFlat(c, "lease", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.MonthlyRent != nil {
		if req.MonthlyRent.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_rent must not be negative"})
			return
		}
		lease.MonthlyRent = req.MonthlyRent
	}
	if req.DueDayOfMonth != nil {
		if *req.DueDayOfMonth < 1 || *req.DueDayOfMonth > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_day_of_month must be between 1 and 31"})
			return
		}
		lease.DueDayOfMonth = *req.DueDayOfMonth
	}
	if req.DailyLateFeeRate != nil {
		lease.DailyLateFeeRate = *req.DailyLateFeeRate
	}
	if req.LateFeeCap != nil {
		lease.LateFeeCap = *req.LateFeeCap
	}
	if req.DepositAmount != nil {
		lease.DepositAmount = req.DepositAmount
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		lease.EndDate = &endDate
	}
	if req.Note != nil {
		lease.Note = req.Note
	}

	if err := h.leaseService.Update(c.Request.Context(), lease); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse(), "message": "lease updated"})
}

func (h *LeaseHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	lease, err := h.leaseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if lease.Status != models.LeaseStatusDraft {
		c.JSON(http.StatusForbidden, gin.H{"error": "only draft leases can be deleted; cancel or close the lease instead"})
		return
	}
	if err := h.leaseService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lease deleted"})
}

// Submit moves a draft lease into review
func (h *LeaseHandler) Submit(c *gin.Context) {
	h.simpleTransition(c, h.leaseService.Submit, "lease submitted")
}

// RequestPayment asks the customer for the first rent payment
func (h *LeaseHandler) RequestPayment(c *gin.Context) {
	h.simpleTransition(c, h.leaseService.RequestPayment, "payment requested")
}

// RequestDeposit asks the customer for the security deposit
func (h *LeaseHandler) RequestDeposit(c *gin.Context) {
	h.simpleTransition(c, h.leaseService.RequestDeposit, "deposit requested")
}

// Activate turns the lease on and schedules its first rent obligation. The
// response carries a side_effect field: "success" when the obligation was
// scheduled, "pending" when scheduling timed out and should be retried via
// the schedule endpoint, "failed" when it errored.
func (h *LeaseHandler) Activate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	result, err := h.leaseService.Activate(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"lease":       result.Lease.ToResponse(),
		"side_effect": result.SideEffect,
		"message":     "lease activated",
	}
	if result.Warning != "" {
		resp["warning"] = result.Warning
	}
	c.JSON(http.StatusOK, resp)
}

// Schedule retries first-obligation scheduling for an already active lease.
// It is idempotent, so calling it after a successful activation is harmless.
func (h *LeaseHandler) Schedule(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	lease, err := h.leaseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if lease.Status != models.LeaseStatusActive {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "lease is not active"})
		return
	}
	if err := h.leaseService.ScheduleFirstObligation(c.Request.Context(), lease); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "first obligation scheduled"})
}

type CancelLeaseRequest struct {
	Note string `json:"note"`
}

func (h *LeaseHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	var req CancelLeaseRequest
	c.ShouldBindJSON(&req)

	lease, err := h.leaseService.Cancel(c.Request.Context(), uint(id), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse(), "message": "lease cancelled"})
}

func (h *LeaseHandler) Close(c *gin.Context) {
	h.simpleTransition(c, h.leaseService.Close, "lease closed")
}

func (h *LeaseHandler) Complete(c *gin.Context) {
	h.simpleTransition(c, h.leaseService.Complete, "lease completed")
}

func (h *LeaseHandler) Terminate(c *gin.Context) {
	h.simpleTransition(c, h.leaseService.Terminate, "lease terminated")
}

// Reconciliation derives the obligation calendar, payment matching and late
// fees for a lease as of a reference date (defaults to today).
func (h *LeaseHandler) Reconciliation(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	report, err := h.paymentService.ReconcileLease(c.Request.Context(), uint(id), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Payments lists the payments recorded against a lease
func (h *LeaseHandler) Payments(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	payments, err := h.paymentService.FindByLease(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

// Fines lists the traffic fines issued against a lease's vehicle
func (h *LeaseHandler) Fines(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	fines, err := h.fineService.FindByLease(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"traffic_fines": fines})
}

// Cases lists the legal cases opened against a lease
func (h *LeaseHandler) Cases(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	cases, err := h.caseService.FindByLease(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"legal_cases": cases})
}

func (h *LeaseHandler) simpleTransition(c *gin.Context, transition func(ctx context.Context, id uint) (*models.Lease, error), message string) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	lease, err := transition(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse(), "message": message})
}
