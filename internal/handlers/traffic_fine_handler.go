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

type TrafficFineHandler struct {
	fineService *services.TrafficFineService
}

func NewTrafficFineHandler(fineService *services.TrafficFineService) *TrafficFineHandler {
	return &TrafficFineHandler{fineService: fineService}
}

// Index returns a paginated list of traffic fines
func (h *TrafficFineHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if status := c.Query("status"); status != "" {
		query.Filters["status"] = status
	}

	fines, total, err := h.fineService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"traffic_fines": fines,
		"pagination":    pagination(query.Page, query.PerPage, total),
	})
}

func (h *TrafficFineHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fine_id"), 10, 32)
	fine, err := h.fineService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"traffic_fine": fine})
}

// TrafficFineRequest is the body for registering a traffic fine
type TrafficFineRequest struct {
	LeaseID    uint             `json:"lease_id"`
	FineNumber string           `json:"fine_number"`
	Amount     *decimal.Decimal `json:"amount"`
	IssuedAt   string           `json:"issued_at"`
	Status     string           `json:"status"`
	Location   *string          `json:"location"`
}

func (h *TrafficFineHandler) Create(c *gin.Context) {
	var req TrafficFineRequest
	if err := BindNestedOrFlat(c, "traffic_fine", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.LeaseID == 0 || req.FineNumber == "" || req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_id, fine_number and amount are required"})
		return
	}
	issuedAt, err := time.Parse("2006-01-02", req.IssuedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issued_at must be YYYY-MM-DD"})
		return
	}

	fine := &models.TrafficFine{
		LeaseID:    req.LeaseID,
		FineNumber: req.FineNumber,
		Amount:     *req.Amount,
		IssuedAt:   issuedAt,
		Status:     req.Status,
		Location:   req.Location,
	}

	if err := h.fineService.Create(c.Request.Context(), fine); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"traffic_fine": fine, "message": "traffic fine registered"})
}

type UpdateFineStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a fine through its workflow
func (h *TrafficFineHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fine_id"), 10, 32)
	var req UpdateFineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fine, err := h.fineService.UpdateStatus(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"traffic_fine": fine, "message": "traffic fine updated"})
}

func (h *TrafficFineHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fine_id"), 10, 32)
	if err := h.fineService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "traffic fine deleted"})
}
