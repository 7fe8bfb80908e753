package handlers

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Index returns a paginated list of customers
func (h *CustomerHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	if active := c.Query("active"); active != "" {
		query.Filters["active"] = active
	}

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  customers,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

func (h *CustomerHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	customer, err := h.customerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// CustomerRequest is the body for creating or updating a customer
type CustomerRequest struct {
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	LicenseNumber string  `json:"license_number"`
	Address       *string `json:"address"`
	Active        *bool   `json:"active"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and email are required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is not valid"})
		return
	}

	customer := &models.Customer{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		Address:       req.Address,
		Active:        true,
	}

	if err := h.customerService.Create(c.Request.Context(), customer); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer, "message": "customer created"})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	customer, err := h.customerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FullName != "" {
		customer.FullName = req.FullName
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is not valid"})
			return
		}
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.LicenseNumber != "" {
		customer.LicenseNumber = req.LicenseNumber
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.Active != nil {
		customer.Active = *req.Active
	}

	if err := h.customerService.Update(c.Request.Context(), customer); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer, "message": "customer updated"})
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	if err := h.customerService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

// Leases lists all leases held by a customer
func (h *CustomerHandler) Leases(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	leases, err := h.customerService.Leases(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LeaseResponse, 0, len(leases))
	for i := range leases {
		responses = append(responses, leases[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"leases": responses})
}
