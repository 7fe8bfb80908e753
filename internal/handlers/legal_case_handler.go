package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/services"
)

type LegalCaseHandler struct {
	caseService *services.LegalCaseService
}

func NewLegalCaseHandler(caseService *services.LegalCaseService) *LegalCaseHandler {
	return &LegalCaseHandler{caseService: caseService}
}

// Index returns a paginated list of legal cases
func (h *LegalCaseHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	for _, key := range []string{"status", "case_type"} {
		if v := c.Query(key); v != "" {
			query.Filters[key] = v
		}
	}

	cases, total, err := h.caseService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"legal_cases": cases,
		"pagination":  pagination(query.Page, query.PerPage, total),
	})
}

func (h *LegalCaseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)
	legalCase, err := h.caseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"legal_case": legalCase})
}

// LegalCaseRequest is the body for opening a legal case
type LegalCaseRequest struct {
	LeaseID     uint    `json:"lease_id"`
	CaseNumber  string  `json:"case_number"`
	CaseType    string  `json:"case_type"`
	Status      string  `json:"status"`
	OpenedAt    string  `json:"opened_at"`
	Description *string `json:"description"`
}

func (h *LegalCaseHandler) Create(c *gin.Context) {
	var req LegalCaseRequest
	if err := BindNestedOrFlat(c, "legal_case", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.LeaseID == 0 || req.CaseNumber == "" || req.CaseType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_id, case_number and case_type are required"})
		return
	}

	legalCase := &models.LegalCase{
		LeaseID:     req.LeaseID,
		CaseNumber:  req.CaseNumber,
		CaseType:    req.CaseType,
		Status:      req.Status,
		Description: req.Description,
	}
	if req.OpenedAt != "" {
		openedAt, err := time.Parse("2006-01-02", req.OpenedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "opened_at must be YYYY-MM-DD"})
			return
		}
		legalCase.OpenedAt = openedAt
	}

	if err := h.caseService.Create(c.Request.Context(), legalCase); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"legal_case": legalCase, "message": "legal case opened"})
}

type UpdateCaseStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a case through its workflow
func (h *LegalCaseHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)
	var req UpdateCaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	legalCase, err := h.caseService.UpdateStatus(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"legal_case": legalCase, "message": "legal case updated"})
}

func (h *LegalCaseHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)
	if err := h.caseService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "legal case deleted"})
}
