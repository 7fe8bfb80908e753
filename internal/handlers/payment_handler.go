package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Index returns a paginated list of payments
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	for _, key := range []string{"status", "payment_type", "start_date", "end_date"} {
		if v := c.Query(key); v != "" {
			query.Filters[key] = v
		}
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// PaymentRequest is the body for recording or correcting a payment
type PaymentRequest struct {
	LeaseID     uint             `json:"lease_id"`
	Amount      *decimal.Decimal `json:"amount"`
	PaymentDate string           `json:"payment_date"`
	PaymentType string           `json:"payment_type"`
	Status      string           `json:"status"`
	Note        *string          `json:"note"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req PaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.LeaseID == 0 || req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_id and amount are required"})
		return
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must be YYYY-MM-DD"})
		return
	}

	payment := &models.Payment{
		LeaseID:     req.LeaseID,
		Amount:      *req.Amount,
		PaymentDate: paymentDate,
		PaymentType: req.PaymentType,
		Status:      req.Status,
		Note:        req.Note,
	}

	if err := h.paymentService.RecordPayment(c.Request.Context(), payment); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse(), "message": "payment recorded"})
}

// Update corrects a recorded payment's amount, date, type or note
func (h *PaymentHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req PaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
			return
		}
		payment.Amount = *req.Amount
	}
	if req.PaymentDate != "" {
		paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must be YYYY-MM-DD"})
			return
		}
		payment.PaymentDate = paymentDate
	}
	if req.PaymentType != "" {
		payment.PaymentType = req.PaymentType
	}
	if req.Status != "" {
		payment.Status = req.Status
	}
	if req.Note != nil {
		payment.Note = req.Note
	}

	if err := h.paymentService.Update(c.Request.Context(), payment); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "payment updated"})
}

// Complete marks a pending payment as received
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.Complete(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "payment completed"})
}

// Cancel voids a payment so it no longer counts toward any obligation
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.Cancel(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "payment cancelled"})
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err := h.paymentService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}
