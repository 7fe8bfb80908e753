package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fleetora/rental-api/internal/models"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/services"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// Index returns a paginated list of fleet vehicles
func (h *VehicleHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	if status := c.Query("status"); status != "" {
		query.Filters["status"] = status
	}

	vehicles, total, err := h.vehicleService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles":   vehicles,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

func (h *VehicleHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("vehicle_id"), 10, 32)
	vehicle, err := h.vehicleService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// VehicleRequest is the body for creating or updating a vehicle
type VehicleRequest struct {
	Plate    string `json:"plate"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Status   string `json:"status"`
	Odometer *int   `json:"odometer"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req VehicleRequest
	if err := BindNestedOrFlat(c, "vehicle", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Plate == "" || req.Make == "" || req.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plate, make and model are required"})
		return
	}

	vehicle := &models.Vehicle{
		Plate:  req.Plate,
		Make:   req.Make,
		Model:  req.Model,
		Year:   req.Year,
		Status: req.Status,
	}
	if req.Odometer != nil {
		vehicle.Odometer = *req.Odometer
	}

	if err := h.vehicleService.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle, "message": "vehicle created"})
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("vehicle_id"), 10, 32)
	vehicle, err := h.vehicleService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req VehicleRequest
	if err := BindNestedOrFlat(c, "vehicle", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Plate != "" {
		vehicle.Plate = req.Plate
	}
	if req.Make != "" {
		vehicle.Make = req.Make
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}
	if req.Status != "" {
		vehicle.Status = req.Status
	}
	if req.Odometer != nil {
		vehicle.Odometer = *req.Odometer
	}

	if err := h.vehicleService.Update(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle, "message": "vehicle updated"})
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("vehicle_id"), 10, 32)
	if err := h.vehicleService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
