package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fleetora/rental-api/internal/billing"
	"github.com/fleetora/rental-api/internal/jobs"
	"github.com/fleetora/rental-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Customer    *CustomerHandler
	Vehicle     *VehicleHandler
	Lease       *LeaseHandler
	Payment     *PaymentHandler
	TrafficFine *TrafficFineHandler
	LegalCase   *LegalCaseHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(worker),
		Customer:    NewCustomerHandler(svcs.Customer),
		Vehicle:     NewVehicleHandler(svcs.Vehicle),
		Lease:       NewLeaseHandler(svcs.Lease, svcs.Payment, svcs.TrafficFine, svcs.LegalCase),
		Payment:     NewPaymentHandler(svcs.Payment),
		TrafficFine: NewTrafficFineHandler(svcs.TrafficFine),
		LegalCase:   NewLegalCaseHandler(svcs.LegalCase),
	}
}

// respondError maps service and billing errors onto HTTP status codes so
// every handler reports failures the same way.
func respondError(c *gin.Context, err error) {
	var invalidTerm *billing.InvalidTermError
	var missingTerms *billing.MissingTermsError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &missingTerms):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &invalidTerm):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidPaymentType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrVehicleUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pagination builds the standard list-response pagination block.
func pagination(page, perPage int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": (total + int64(perPage) - 1) / int64(perPage),
	}
}
